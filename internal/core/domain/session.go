package domain

// SessionUser is the identity projection bound to an authenticated session.
// It never carries credentials.
type SessionUser struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}
