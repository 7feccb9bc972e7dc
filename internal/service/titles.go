package service

import (
	"regexp"
	"strings"
)

var (
	titleSplitRe = regexp.MustCompile(`[\n,]`)
	// a token that is nothing but a number, optionally with a list-marker
	// suffix ("3", "3.", "3)") — a stray marker, not a title
	bareNumberRe = regexp.MustCompile(`^\d+[.)]?$`)
	// a leading list marker: 1-3 digits plus "."/")" and a space, or just a
	// space. Four-digit prefixes ("2001: A Space Odyssey") never match.
	listMarkerRe = regexp.MustCompile(`^\d{1,3}[.)]?\s+(.+)$`)
)

// ParseTitleList splits a free-text movie list into individual titles.
// Input is split on newlines and commas; empty tokens and bare numeric
// list markers are dropped; a small leading list marker is stripped when
// actual title text follows it.
func ParseTitleList(text string) []string {
	tokens := titleSplitRe.Split(text, -1)
	titles := make([]string, 0, len(tokens))

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" || bareNumberRe.MatchString(token) {
			continue
		}

		if m := listMarkerRe.FindStringSubmatch(token); m != nil {
			rest := strings.TrimSpace(m[1])
			if containsLetter(rest) {
				token = rest
			}
		}

		titles = append(titles, token)
	}

	return titles
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
