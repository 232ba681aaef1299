package models

import "strings"

// Roster is the fixed set of operators allowed to run the station.
type Roster []string

// DefaultRoster is used when no staff list is configured.
var DefaultRoster = Roster{"Alice", "Bob", "Charlie"}

// Lookup returns the roster spelling of name, matching case-insensitively.
func (r Roster) Lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, s := range r {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}
