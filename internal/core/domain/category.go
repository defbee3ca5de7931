package domain

// Category classifies expenses. Categories may nest one level or more via
// ParentID; names are unique within the same parent scope.
type Category struct {
	CategoryID string  `json:"categoryID"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parentID,omitempty"`
	AuditFields
}
