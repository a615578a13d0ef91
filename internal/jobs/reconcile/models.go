// internal/jobs/reconcile/models.go
package reconcile

// Result summarizes one reconciliation pass.
type Result struct {
	Checked  int `json:"checked"`
	Retained int `json:"retained"`
	Deleted  int `json:"deleted"`
	Failed   int `json:"failed"`
}
