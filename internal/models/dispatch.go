// internal/models/dispatch.go
package models

import "strings"

// DispatchRequest is the queue message asking the search worker to run one
// user's search. The JSON field names are a downstream contract and must not
// change.
type DispatchRequest struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Keywords    string `json:"keywords"`
	Description string `json:"description"`
	Role        string `json:"role"`
	ScheduleRaw string `json:"frekvence_zasilani"`
}

// NewDispatchRequest builds the message for one due preference.
func NewDispatchRequest(p UserPreference) DispatchRequest {
	return DispatchRequest{
		UserID:      p.UserID,
		Email:       p.Email,
		Keywords:    strings.Join(p.Keywords, ", "),
		Description: p.CompanyDescription,
		Role:        p.Role,
		ScheduleRaw: p.ScheduleRaw,
	}
}
