package constants

// Standard Response Field Keys
const (
	ResponseFieldUser  = "user"
	ResponseFieldUsers = "users"
	ResponseFieldCount = "count"

	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
)

// Response Format Functions.
// The user envelopes are shared by every endpoint returning a user so the
// wire shape stays identical across the surface.
func BuildUserResponse(user any) map[string]any {
	return map[string]any{
		ResponseFieldUser: user,
	}
}

func BuildUsersResponse(users any) map[string]any {
	return map[string]any{
		ResponseFieldUsers: users,
	}
}

func BuildSearchResponse(count int, users any) map[string]any {
	return map[string]any{
		ResponseFieldCount: count,
		ResponseFieldUsers: users,
	}
}

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil && details != "" {
		response[ResponseFieldDetails] = details
	}

	return response
}
