package sanitizer

import "regexp"

var passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd|pass)(\s*[:=]\s*)["']?[^"'\s,;&]{3,}["']?`)

// PasswordSanitizer masks key=value and key: value style passwords.
type PasswordSanitizer struct{}

func (s *PasswordSanitizer) Sanitize(text string) string {
	return passwordPattern.ReplaceAllString(text, `${1}${2}`+Mask)
}
