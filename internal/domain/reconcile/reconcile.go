// Package reconcile implements the replace-all-children synchronization used
// when a request carries the full desired set of child records (e.g. a
// product's batches): existing children are matched by id and the difference
// is split into create/update/delete sets.
package reconcile

// Keyed is anything with a persistent identifier. Zero id means "not yet
// persisted".
type Keyed interface {
	Key() int64
}

// Result of diffing the incoming set against the existing set.
type Result[T Keyed] struct {
	Added   []T
	Updated []T
	Removed []int64
}

// Diff matches incoming children against existing ones by key. Incoming
// items with a zero or unknown key are Added; items whose key exists are
// Updated; existing keys absent from the input are Removed. Order within
// each set follows input order (Removed follows existing order).
func Diff[T Keyed](existing []T, incoming []T) Result[T] {
	existingByID := make(map[int64]struct{}, len(existing))
	for _, e := range existing {
		existingByID[e.Key()] = struct{}{}
	}

	var res Result[T]
	seen := make(map[int64]struct{}, len(incoming))
	for _, in := range incoming {
		id := in.Key()
		if id != 0 {
			if _, ok := existingByID[id]; ok {
				res.Updated = append(res.Updated, in)
				seen[id] = struct{}{}
				continue
			}
		}
		res.Added = append(res.Added, in)
	}
	for _, e := range existing {
		if _, ok := seen[e.Key()]; !ok {
			res.Removed = append(res.Removed, e.Key())
		}
	}
	return res
}
