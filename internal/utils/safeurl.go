package utils

import (
	"net/url"
	"strings"
)

// IsSafeNext reports whether a post-login redirect target may be honored.
// Only relative paths pointing back into this site qualify; anything with a
// host, a scheme, or a scheme-relative prefix ("//evil.com") is rejected to
// block open-redirect abuse.
func IsSafeNext(target string) bool {
	if target == "" {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
