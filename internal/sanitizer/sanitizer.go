package sanitizer

import (
	"slices"
	"strings"
)

const Mask = "[FILTERED]"

// DataSanitizer masks secrets in free text before it leaves the process
// through logs or the results database.
type DataSanitizer struct {
	rules []SanitizerRule
}

type SanitizerRule interface {
	Sanitize(text string) string
}

// New builds the default rule chain. Every non-empty secret is also masked
// verbatim wherever it appears.
func New(secrets ...string) *DataSanitizer {
	rules := []SanitizerRule{
		&PasswordSanitizer{},
		&TokenSanitizer{},
		&URLCredentialsSanitizer{},
	}
	if lit := NewLiteralSanitizer(secrets...); lit != nil {
		rules = append([]SanitizerRule{lit}, rules...)
	}
	return &DataSanitizer{rules: rules}
}

func (s *DataSanitizer) Sanitize(text string) string {
	if s == nil || text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}
	return result
}

// SanitizeError returns the masked message of err, or "" for nil.
func (s *DataSanitizer) SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return s.Sanitize(err.Error())
}

// LiteralSanitizer masks exact values, longest first so a secret that
// contains another is masked whole.
type LiteralSanitizer struct {
	replacer *strings.Replacer
}

// NewLiteralSanitizer returns nil when there is nothing to mask. Values
// shorter than three characters are ignored.
func NewLiteralSanitizer(secrets ...string) *LiteralSanitizer {
	uniq := make(map[string]struct{}, len(secrets))
	var vals []string
	for _, s := range secrets {
		if len(s) < 3 {
			continue
		}
		if _, ok := uniq[s]; ok {
			continue
		}
		uniq[s] = struct{}{}
		vals = append(vals, s)
	}
	if len(vals) == 0 {
		return nil
	}

	slices.SortStableFunc(vals, func(a, b string) int { return len(b) - len(a) })
	pairs := make([]string, 0, len(vals)*2)
	for _, v := range vals {
		pairs = append(pairs, v, Mask)
	}
	return &LiteralSanitizer{replacer: strings.NewReplacer(pairs...)}
}

func (s *LiteralSanitizer) Sanitize(text string) string {
	return s.replacer.Replace(text)
}
