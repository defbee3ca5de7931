package domain

// User is an authenticated account that can operate the ledger API.
// Users are distinct from Members: a user drives the API, a member
// participates in the group's finances.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
}
