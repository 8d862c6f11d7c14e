/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response: response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateEventRequest is a manual calendar entry. Category, time and
// location fold into the description, same as spreadsheet imports.
type CreateEventRequest struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	AgeGroup    string `json:"ageGroup"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// ImportResponse summarizes one import.
type ImportResponse struct {
	Kind          string `json:"kind"` // "verses" or "calendar"
	Verses        int    `json:"verses,omitempty"`
	MonthlyVerses int    `json:"monthlyVerses,omitempty"`
	Imported      int    `json:"imported,omitempty"`
	Skipped       int    `json:"skipped"`
	TotalEvents   int    `json:"totalEvents,omitempty"`
}

// PruneResponse reports a manual cleanup pass.
type PruneResponse struct {
	Removed int `json:"removed"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
