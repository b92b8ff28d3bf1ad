package models

// HardDeleteResult reports what a permanent student delete removed
type HardDeleteResult struct {
	StudentID      string           `json:"studentId"`
	UserID         string           `json:"userId"`
	DeletedRecords map[string]int64 `json:"deleted_records"`
	// UserPreserved is always true; the owning user row stays for audit
	UserPreserved bool `json:"userPreserved"`
}

// BulkItemResult is the outcome for one id of a bulk hard delete
type BulkItemResult struct {
	StudentID      string           `json:"studentId"`
	Success        bool             `json:"success"`
	Error          string           `json:"error,omitempty"`
	DeletedRecords map[string]int64 `json:"deleted_records,omitempty"`
}

// BulkHardDeleteResult aggregates a bulk hard delete, which does not stop at the first failure
type BulkHardDeleteResult struct {
	DeletedCount int              `json:"deletedCount"`
	Errors       []string         `json:"errors"`
	Results      []BulkItemResult `json:"results"`
}
