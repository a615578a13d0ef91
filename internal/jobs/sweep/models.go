// internal/jobs/sweep/models.go
package sweep

// Result summarizes one sweep pass over the preference table.
type Result struct {
	Scanned    int `json:"scanned"`
	Due        int `json:"due"`
	Dispatched int `json:"dispatched"`
	Failed     int `json:"failed"`
}
