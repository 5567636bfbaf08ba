package auth

// Session describes the acting session for log/report attribution.
type Session struct {
	Username string
	Role     string
}
