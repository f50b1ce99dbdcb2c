package export

import (
	"encoding/csv"
	"io"
	"sort"

	"kurswatch/internal/domain"
)

// Keep header order EXACT; downstream spreadsheets key on it.
var coursesHeader = []string{
	"COURSE_ID",
	"TITLE",
	"RAW",
}

// WriteCoursesCSV writes a snapshot as CSV, rows sorted by course ID so the
// output is stable between runs.
func WriteCoursesCSV(w io.Writer, snap domain.Snapshot) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(coursesHeader); err != nil {
		return err
	}

	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := snap[id]
		if err := cw.Write([]string{c.ID, c.Title, c.Raw}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
