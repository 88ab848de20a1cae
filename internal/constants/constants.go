package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyProject = "project"

	SessionCookieName = "pm_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// LastProjectNumber seeds code generation when no project exists yet.
const LastProjectNumber = 2167
