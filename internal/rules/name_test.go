// internal/rules/name_test.go
package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleName_IsDeterministic(t *testing.T) {
	first := RuleName("user-1", "Středa v 12:00")
	second := RuleName("user-1", "Středa v 12:00")

	assert.Equal(t, first, second)
}

func TestRuleName_Format(t *testing.T) {
	name := RuleName("user-1", "Každý den")

	assert.True(t, strings.HasPrefix(name, "rule_for_user_user-1_"))

	suffix := strings.TrimPrefix(name, "rule_for_user_user-1_")
	assert.Len(t, suffix, 8)
}

func TestRuleName_DiffersPerEntry(t *testing.T) {
	monday := RuleName("user-1", "Pondělí v 9:00")
	friday := RuleName("user-1", "Pátek v 9:00")

	assert.NotEqual(t, monday, friday)
}

func TestRuleName_DiffersPerUser(t *testing.T) {
	assert.NotEqual(t,
		RuleName("user-1", "Každý den"),
		RuleName("user-2", "Každý den"),
	)
}

func TestTargetID(t *testing.T) {
	assert.Equal(t, "target_user-1", TargetID("user-1"))
}
