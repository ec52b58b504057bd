package domain

// ChangeEvent announces that a row of the shared finance data changed.
// Clients use it as a signal to re-fetch; it carries no row data.
type ChangeEvent struct {
	Table     string `json:"table"`
	Operation string `json:"operation"`
	RowID     string `json:"rowID,omitempty"`
}
