// Package product extracts futures product codes from instrument codes.
package product

import (
	"fmt"
	"strings"
)

// Of extracts the product code from an instrument code:
// "rb2410" => "rb", "AU2506.SHF" => "au", "IF2406" => "if".
// An exchange suffix after "." is ignored.
func Of(instrument string) (string, error) {
	s := strings.TrimSpace(instrument)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", fmt.Errorf("empty instrument")
	}
	n := 0
	for n < len(s) && isLetter(s[n]) {
		n++
	}
	if n == 0 {
		return "", fmt.Errorf("invalid instrument: %q", instrument)
	}
	return strings.ToLower(s[:n]), nil
}

// Normalize brings a configured product code to the form Of produces.
func Normalize(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
