package postgres

// Merge-by-identity reconciliation. The same diff pattern recurs at every
// level of the schedule tree (days, lessons, homework, links, attachments,
// announcements): stored children are matched against incoming children by
// identity, matches with different content are updated, unmatched incoming
// ones are inserted and unmatched stored ones are deleted.

// Diff is the outcome of reconciling one level of the entity tree.
type Diff[T any] struct {
	Insert []T
	Update []T
	Delete []T
}

// IsEmpty reports whether the diff contains no work.
func (d Diff[T]) IsEmpty() bool {
	return len(d.Insert) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// Reconcile diffs stored children against incoming children. identity
// extracts the stable key of an entity; equal compares the content of two
// entities sharing an identity. Matched entities with equal content appear
// in neither list.
func Reconcile[T any](stored, incoming []T, identity func(T) string, equal func(a, b T) bool) Diff[T] {
	var diff Diff[T]

	storedByID := make(map[string]T, len(stored))
	for _, s := range stored {
		storedByID[identity(s)] = s
	}

	incomingIDs := make(map[string]bool, len(incoming))
	for _, in := range incoming {
		id := identity(in)
		incomingIDs[id] = true

		if existing, ok := storedByID[id]; ok {
			if !equal(existing, in) {
				diff.Update = append(diff.Update, in)
			}
			continue
		}
		diff.Insert = append(diff.Insert, in)
	}

	for _, s := range stored {
		if !incomingIDs[identity(s)] {
			diff.Delete = append(diff.Delete, s)
		}
	}
	return diff
}
