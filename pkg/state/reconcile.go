package state

import "github.com/learnconnect/learnconnect.go/pkg/models"

// Placement decides where a created item lands in its collection.
type Placement int

const (
	Append Placement = iota
	Prepend
)

// Insert returns a new slice with item placed per p. When an item with the
// same key is already present it is replaced where it stands instead.
func Insert[T models.Keyed](items []T, item T, p Placement) []T {
	if i := IndexOf(items, item.Key()); i >= 0 {
		return Replace(items, item)
	}

	out := make([]T, 0, len(items)+1)
	if p == Prepend {
		out = append(out, item)
		return append(out, items...)
	}
	out = append(out, items...)
	return append(out, item)
}

// Replace returns a new slice with the item sharing item's key swapped for
// item. Without a match the copy is unchanged.
func Replace[T models.Keyed](items []T, item T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Key() == item.Key() {
			out[i] = item
		}
	}
	return out
}

// Remove returns a new slice without the items whose key is id.
func Remove[T models.Keyed](items []T, id int) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Key() != id {
			out = append(out, it)
		}
	}
	return out
}

func IndexOf[T models.Keyed](items []T, id int) int {
	for i, it := range items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}
