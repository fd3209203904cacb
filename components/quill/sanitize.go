package quill

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy

	quillClassPattern = regexp.MustCompile(`^(ql-[a-z0-9-]+)(\s+ql-[a-z0-9-]+)*$`)
)

// SanitizeMarkup cleans stored editor markup before it is embedded in a
// rendered page. The stored value itself is never rewritten.
func SanitizeMarkup(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return markupSanitizer().Sanitize(raw)
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(quillClassPattern).Globally()
		policy.AllowStyles("color", "background-color").Globally()
		policy.AllowAttrs("data-list").OnElements("li")
		policy.AllowAttrs("target", "rel").OnElements("a")
		policy.AllowElements("s", "u", "sub", "sup")
		policy.AllowDataURIImages()
		markupPolicy = policy
	})
	return markupPolicy
}
