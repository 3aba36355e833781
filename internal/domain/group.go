package domain

import "time"

// Group is a set of members sharing expenses.
type Group struct {
	ID          string
	Name        string
	Description string
	// Version counts balance-affecting writes. It is bumped inside the same
	// transaction as every expense append and settlement confirmation, and
	// keys the balance read cache.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member belongs to exactly one group. Members removed from a group keep
// their rows (and therefore their historical balances) until settled.
type Member struct {
	ID       string
	GroupID  string
	Name     string
	Removed  bool
	JoinedAt time.Time
}

// Roster is the ordered set of member IDs of a group, removed members
// included. Ordering follows join time so balance output is stable.
type Roster []string

// Contains reports whether id is in the roster.
func (r Roster) Contains(id string) bool {
	for _, m := range r {
		if m == id {
			return true
		}
	}
	return false
}
