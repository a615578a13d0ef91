// internal/models/rule.go
package models

import "strings"

// ScheduleRule mirrors one recurring trigger held by the external trigger
// service.
type ScheduleRule struct {
	Name           string
	CronExpression string
	Enabled        bool
	TargetARN      string
	TargetID       string
	InputJSON      string
}

// IsProtected reports whether the rule name carries the reserved marker that
// exempts it from rebuild deletion. The match is case-insensitive; an empty
// marker protects nothing.
func (r ScheduleRule) IsProtected(marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(r.Name), strings.ToLower(marker))
}
