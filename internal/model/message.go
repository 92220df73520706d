package model

// MessageResponse is the envelope for responses that carry only a message,
// including every error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// MeResponse is the body of GET /api/auth/me.
type MeResponse struct {
	User UserResponse `json:"user"`
}
