package watch

import (
	"sort"

	"kurswatch/internal/domain"
)

// DiffSnapshots partitions the current record set against the previous run's
// snapshot by course ID. Added courses are current-only IDs, removed courses
// are reconstructed from the prior snapshot's stored fields; both come back
// sorted ascending by ID.
//
// The comparison is identity-only: a record whose content changed under a
// stable ID does not count as a change.
func DiffSnapshots(prev, curr domain.Snapshot) (added, removed []domain.Course) {
	var addedIDs, removedIDs []string

	for id := range curr {
		if _, ok := prev[id]; !ok {
			addedIDs = append(addedIDs, id)
		}
	}
	for id := range prev {
		if _, ok := curr[id]; !ok {
			removedIDs = append(removedIDs, id)
		}
	}

	sort.Strings(addedIDs)
	sort.Strings(removedIDs)

	for _, id := range addedIDs {
		added = append(added, curr[id])
	}
	for _, id := range removedIDs {
		removed = append(removed, prev[id])
	}
	return added, removed
}
