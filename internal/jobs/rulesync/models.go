// internal/jobs/rulesync/models.go
package rulesync

// Result summarizes one full rebuild of the trigger rule set.
type Result struct {
	RulesDeleted   int `json:"rulesDeleted"`
	RulesKept      int `json:"rulesKept"`
	UsersProjected int `json:"usersProjected"`
	RulesCreated   int `json:"rulesCreated"`
	Failed         int `json:"failed"`
}
