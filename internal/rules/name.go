// internal/rules/name.go
package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	rulePrefix = "rule_for_user_"

	// TargetIDPrefix is prepended to the user id to form a rule's
	// target id.
	TargetIDPrefix = "target_"
)

// RuleName derives the rule name for one (user, schedule entry) pair. The
// suffix is a hash of both, so repeated rebuilds produce the same name and
// a retried partial rebuild overwrites instead of duplicating.
func RuleName(userID, entry string) string {
	sum := sha256.Sum256([]byte(userID + "|" + entry))
	return fmt.Sprintf("%s%s_%s", rulePrefix, userID, hex.EncodeToString(sum[:])[:8])
}

// TargetID derives the target id used when attaching the search worker to
// a user's rule.
func TargetID(userID string) string {
	return TargetIDPrefix + userID
}
