package picker

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"pix/internal/config"
	"pix/internal/library"
)

// Order selects the timestamp entries are sorted by, most recent first.
type Order string

const (
	OrderAddTime      Order = config.OrderAddTime
	OrderCreateTime   Order = config.OrderCreateTime
	OrderModifiedTime Order = config.OrderModifiedTime
)

// ParseOrder accepts canonical names and the camelCase preference spellings.
// An empty value selects OrderModifiedTime.
func ParseOrder(value string) (Order, error) {
	switch order := Order(config.NormalizeOrder(value)); order {
	case OrderAddTime, OrderCreateTime, OrderModifiedTime:
		return order, nil
	default:
		return "", fmt.Errorf("unsupported sort order %q (expected %s, %s, or %s)",
			value, OrderAddTime, OrderCreateTime, OrderModifiedTime)
	}
}

func (o Order) timestamp(e library.Entry) time.Time {
	switch o {
	case OrderAddTime:
		return e.AccessedAt
	case OrderCreateTime:
		return e.CreatedAt
	default:
		return e.ModifiedAt
	}
}

// Item is one row of the picker.
type Item struct {
	Name      string         `json:"name"`
	Path      string         `json:"path,omitempty"`
	Synthetic bool           `json:"synthetic"`
	Entry     *library.Entry `json:"entry,omitempty"`
}

// Sort returns a copy of entries ordered descending by the selected timestamp.
// Entries with equal timestamps keep their enumeration order.
func Sort(entries []library.Entry, order Order) []library.Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b library.Entry) int {
		return order.timestamp(b).Compare(order.timestamp(a))
	})
	return sorted
}

// Filter turns already sorted entries into picker items. An empty search keeps
// everything. Otherwise only names containing search (case-sensitive, NFC)
// are kept, and when no name equals search exactly a synthetic item for it
// leads the list.
func Filter(entries []library.Entry, search string) []Item {
	items := make([]Item, 0, len(entries)+1)
	if search == "" {
		for i := range entries {
			items = append(items, itemFor(&entries[i]))
		}
		return items
	}

	needle := norm.NFC.String(search)
	exact := false
	for i := range entries {
		name := norm.NFC.String(entries[i].Name)
		if name == needle {
			exact = true
		}
		if strings.Contains(name, needle) {
			items = append(items, itemFor(&entries[i]))
		}
	}
	if !exact {
		items = slices.Insert(items, 0, Item{Name: search, Synthetic: true})
	}
	return items
}

func itemFor(e *library.Entry) Item {
	entry := *e
	return Item{Name: entry.Name, Path: entry.Path, Entry: &entry}
}
