package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// sanitizeHelpMarkup keeps inline emphasis in authored help text and strips
// everything else.
func sanitizeHelpMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		helpPolicy = policy
	})
	return helpPolicy
}
