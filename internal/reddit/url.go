package reddit

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidProfileURL is returned when a string is not a Reddit profile URL.
var ErrInvalidProfileURL = errors.New("invalid Reddit profile URL")

var profileURLPattern = regexp.MustCompile(`^https?://www\.reddit\.com/user/([^/\s?#]+)/?$`)

// Username extracts the account name from a profile URL of the form
// https://www.reddit.com/user/<name>/ (trailing slash optional).
func Username(profileURL string) (string, error) {
	m := profileURLPattern.FindStringSubmatch(strings.TrimSpace(profileURL))
	if m == nil {
		return "", ErrInvalidProfileURL
	}
	return m[1], nil
}
