// internal/jobs/invoke/models.go
package invoke

// Input is the part of the dispatch message the invoker acts on. The rest
// of the body is audit payload for the downstream worker's logs.
type Input struct {
	UserID string `json:"user_id"`
}

// Result summarizes one received batch.
type Result struct {
	Received int `json:"received"`
	Invoked  int `json:"invoked"`
	Poisoned int `json:"poisoned"`
	Failed   int `json:"failed"`
}
