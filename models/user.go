package models

// UserInfo is the identity returned by the token verifier and echoed back to
// the client in login_success.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
