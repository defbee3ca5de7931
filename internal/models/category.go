package models

// Category maps to the categories table. ParentID is nullable.
type Category struct {
	CategoryID string  `db:"category_id"`
	Name       string  `db:"name"`
	ParentID   *string `db:"parent_id"`
	AuditFields
}
