// pkg/model/cleanop.go
package model

// CleanOperation records a single normalization or exclusion performed by
// the cleaner, for reporting. The source rows themselves are never
// modified.
type CleanOperation struct {
	Table     string // Source table name
	Column    string // Column that was filled or checked
	RowID     string // Identifier of the affected row
	Original  string // Original value ("" when absent)
	Value     string // Value after cleaning
	Operation string // Type of operation (e.g., "sentinel_fill")
	Reason    string // Why it was performed (e.g., "missing_category")
}
