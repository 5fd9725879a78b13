package constants

// Session
const (
	SessionCookieName    = "club_session"
	SessionKeyToken      = "session_token"
	ContextKeyCaller     = "caller"
	SessionMaxAgeSeconds = 86400 * 7
)

// Registration rules
const (
	MinPasswordLength = 8
	WebmailDomain     = "@nitt.edu"
)
