package auth

// SSETokenResponse is returned to EventSource clients before they connect.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
