package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// List all users, optionally filtered to active/inactive
		users.GET("", r.userHandler.List)

		// Create new user
		users.POST("", r.userHandler.Create)

		// Substring search on name, excluding disabled users
		users.GET("/search", r.userHandler.Search)

		// Resolve an access token to its owning user
		users.GET("/token", r.userHandler.GetByToken)

		// Get user by ID
		users.GET("/:id", r.userHandler.GetByID)

		// Update user (name, email, disabled flag, token set)
		users.POST("/:id", r.userHandler.Update)
	}
}
