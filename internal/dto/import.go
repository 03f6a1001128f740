package dto

import "encoding/json"

// ImportItem is one candidate row from either a CSV upload or a JSON
// payload, already mapped to canonical field names but not yet
// normalized or validated.
type ImportItem struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Source   string `json:"source"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// ImportJSONRequest accepts either a single object or an array under
// "items". The raw bytes are decoded by the import service.
type ImportJSONRequest struct {
	Items json.RawMessage `json:"items" binding:"required"`
}

type SkippedItem struct {
	Item   ImportItem `json:"item"`
	Reason string     `json:"reason"`
}

type ImportJSONResponse struct {
	OK            bool          `json:"ok"`
	Inserted      int           `json:"inserted"`
	Skipped       int           `json:"skipped"`
	InsertedItems []JobResponse `json:"insertedItems"`
	SkippedItems  []SkippedItem `json:"skippedItems"`
}

type ImportCSVResponse struct {
	OK       bool          `json:"ok"`
	Inserted int           `json:"inserted"`
	Items    []JobResponse `json:"items"`
}
