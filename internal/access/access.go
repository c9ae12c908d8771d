// Package access decides which Telegram accounts may use the bot.
package access

import (
	"strconv"
	"strings"
)

// AllowList is a static set of Telegram user ids. An empty list allows everyone.
type AllowList struct {
	ids        map[int64]struct{}
	restricted bool
}

// Parse reads a comma separated list such as "123, 456". Blank entries are
// ignored; non-numeric ones match nobody and are returned as invalid.
func Parse(raw string) (AllowList, []string) {
	list := AllowList{ids: make(map[int64]struct{})}
	var invalid []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		list.restricted = true
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			invalid = append(invalid, part)
			continue
		}
		list.ids[id] = struct{}{}
	}
	return list, invalid
}

// Allowed reports whether userID may start or continue a conversation.
func (l AllowList) Allowed(userID int64) bool {
	if !l.restricted {
		return true
	}
	_, ok := l.ids[userID]
	return ok
}

// Len is the number of configured ids.
func (l AllowList) Len() int {
	return len(l.ids)
}
