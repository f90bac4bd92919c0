package picker

import (
	"errors"
	"fmt"
	"strings"

	"pix/internal/library"
)

// ErrNoSelection is returned when a choice does not resolve to an item.
var ErrNoSelection = errors.New("no matching destination")

// Session holds the entry list fetched once per command and the current
// search text.
type Session struct {
	entries []library.Entry
	order   Order
	search  string
}

// NewSession sorts entries once for the lifetime of the session.
func NewSession(entries []library.Entry, order Order) *Session {
	return &Session{entries: Sort(entries, order), order: order}
}

// Order returns the sort order the session was created with.
func (s *Session) Order() Order { return s.order }

// Search returns the current search text.
func (s *Session) Search() string { return s.search }

// Empty reports whether the library had no subdirectories at all.
func (s *Session) Empty() bool { return len(s.entries) == 0 }

// SetSearch replaces the search text and returns the refreshed items.
func (s *Session) SetSearch(search string) []Item {
	s.search = search
	return s.Items()
}

// Items returns the rows for the current search text.
func (s *Session) Items() []Item {
	return Filter(s.entries, s.search)
}

// Choose resolves a 1-based row number against the current items.
func (s *Session) Choose(row int) (Item, error) {
	items := s.Items()
	if row < 1 || row > len(items) {
		return Item{}, fmt.Errorf("%w: row %d of %d", ErrNoSelection, row, len(items))
	}
	return items[row-1], nil
}

// Default returns the item chosen when the user confirms without a row number:
// the first item, which is the synthetic entry whenever one exists.
func (s *Session) Default() (Item, error) {
	if strings.TrimSpace(s.search) == "" {
		return Item{}, fmt.Errorf("%w: type a name or pick a row", ErrNoSelection)
	}
	items := s.Items()
	if len(items) == 0 {
		return Item{}, ErrNoSelection
	}
	return items[0], nil
}
