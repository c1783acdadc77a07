package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/userhub/internal/constants"
	"github.com/Payphone-Digital/userhub/internal/dto"
	apperrors "github.com/Payphone-Digital/userhub/internal/errors"
	"github.com/Payphone-Digital/userhub/internal/service"
	ctxutil "github.com/Payphone-Digital/userhub/pkg/context"
	"github.com/Payphone-Digital/userhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{userService: service}
}

// List returns all users, optionally filtered to active or inactive
// against the staleness window.
func (h *UserHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "List")

	var active *bool
	switch c.Query(constants.QueryParamActive) {
	case "true":
		v := true
		active = &v
	case "false":
		v := false
		active = &v
	}

	users, err := h.userService.List(ctx, active)
	if err != nil {
		respondError(c, ctx, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUsersResponse(users))
}

// Create creates a new user.
func (h *UserHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Create")

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid request body for user creation").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.userService.Create(ctx, &req)
	if err != nil {
		respondError(c, ctx, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user))
}

// Search finds non-disabled users by name substring, capped at limit.
func (h *UserHandler) Search(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Search")

	query := c.Query(constants.QueryParamQuery)

	limit, err := parseSearchLimit(c.Query(constants.QueryParamLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	users, err := h.userService.Search(ctx, query, limit)
	if err != nil {
		respondError(c, ctx, "Failed to search users", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSearchResponse(len(users), users))
}

// GetByToken resolves an access token to its owning user.
func (h *UserHandler) GetByToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetByToken")

	token := c.Query(constants.QueryParamToken)

	user, err := h.userService.GetByToken(ctx, token)
	if err != nil {
		respondError(c, ctx, "Failed to resolve token", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user))
}

// GetByID returns a single user by identifier.
func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetByID")

	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		respondError(c, ctx, "Failed to fetch user", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user))
}

// Update applies optional name/email/disabled/token changes to a user.
func (h *UserHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Update")

	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid request body for user update").
			Uint("user_id", id).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.userService.Update(ctx, id, &req)
	if err != nil {
		respondError(c, ctx, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildUserResponse(user))
}

// parseSearchLimit resolves the limit query parameter. Absent means the
// default; the caller's value is otherwise taken as-is.
func parseSearchLimit(raw string) (int, error) {
	if raw == "" {
		return constants.DefaultSearchLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return limit, nil
}

func parseUserID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id64, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid user ID", idStr))
		return 0, false
	}
	return uint(id64), true
}

// respondError writes the structured error body with the mapped status.
// The details field carries the domain error code so clients can branch
// without parsing messages.
func respondError(c *gin.Context, ctx context.Context, msg string, err error) {
	status := apperrors.ToHTTPStatus(err)

	var details any
	if domainErr := apperrors.GetDomainError(err); domainErr != nil {
		details = domainErr.Code
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, msg).
			Int("http_status", status).
			Err(err).
			Log()
	}

	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), details))
}
