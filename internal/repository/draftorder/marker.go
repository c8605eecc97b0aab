package draftorder

import (
	"strconv"
	"strings"
)

// Marker remembers a list id inside a free-text customer field without disturbing the rest
// of it. Items are separated by Sep and rejoined with Join.
type Marker struct {
	Label string
	Sep   string
	Join  string
}

var (
	// CartMarker lives among the comma-separated customer tags.
	CartMarker = Marker{Label: "shopfront-cart", Sep: ",", Join: ", "}
	// FavoritesMarker lives on its own line of the customer note.
	FavoritesMarker = Marker{Label: "shopfront-favorites", Sep: "\n", Join: "\n"}
)

// Parse returns the list id carried by s, or zero when s has no valid marker.
func (m Marker) Parse(s string) int64 {
	for _, item := range strings.Split(s, m.Sep) {
		if id, ok := m.value(item); ok {
			return id
		}
	}
	return 0
}

// Merge sets the marker in s to id, keeping every other item in order.
func (m Marker) Merge(s string, id int64) string {
	items := make([]string, 0, 4)
	for _, item := range strings.Split(s, m.Sep) {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if _, ok := m.value(item); ok {
			continue
		}
		if m.Sep == "," {
			item = strings.TrimSpace(item)
		}
		items = append(items, item)
	}
	items = append(items, m.Label+":"+strconv.FormatInt(id, 10))
	return strings.Join(items, m.Join)
}

func (m Marker) value(item string) (int64, bool) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(item), m.Label+":")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
