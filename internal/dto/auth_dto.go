package dto

// Data Transfer Objects for the confirmation-code authentication flow

// EmailRequest: payload for requesting a confirmation code
type EmailRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
}

// EmailResponse echoes the submitted pair back to the caller
type EmailResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a token
type TokenRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse carries the access credential. The refresh token stays
// server-side; only the access token crosses the wire.
type TokenResponse struct {
	Token string `json:"token"`
}
