package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"kurswatch/internal/domain"
	"kurswatch/internal/parse"
	"kurswatch/internal/pdftext"
	"kurswatch/internal/snapshot"
)

// Watcher runs the fetch -> extract -> diff -> notify pipeline for a list of
// searches, one at a time. ExtractText defaults to PDF text extraction and is
// swappable so tests can feed plain text documents.
type Watcher struct {
	Source   DocumentSource
	Store    snapshot.Store
	Notifier Notifier
	Log      *slog.Logger

	ExtractText func(doc []byte) (string, error)
}

func New(source DocumentSource, store snapshot.Store, notifier Notifier, log *slog.Logger) *Watcher {
	return &Watcher{
		Source:      source,
		Store:       store,
		Notifier:    notifier,
		Log:         log,
		ExtractText: pdftext.Extract,
	}
}

// Run processes every search in list order and reports whether any of them
// produced additions. The first failure aborts the remaining searches; each
// search's snapshot is persisted before the next one starts, so a later
// failure never causes re-notification of an earlier search.
func (w *Watcher) Run(ctx context.Context, searches []Search) (hasNew bool, err error) {
	for _, s := range searches {
		added, err := w.runSearch(ctx, s)
		if err != nil {
			return hasNew, fmt.Errorf("watch: search %q: %w", s.Name, err)
		}
		if added > 0 {
			hasNew = true
		}
	}
	return hasNew, nil
}

func (w *Watcher) runSearch(ctx context.Context, s Search) (addedCount int, err error) {
	log := w.Log.With(slog.String("search", s.Name))

	prev, err := w.Store.Load(s.StateKey)
	if err != nil {
		return 0, err
	}

	doc, err := w.Source.FetchCatalogPDF(ctx, s.URL)
	if err != nil {
		return 0, err
	}

	text, err := w.ExtractText(doc)
	if err != nil {
		return 0, err
	}

	curr := parse.BuildCourses(text)
	added, removed := DiffSnapshots(prev, curr)

	log.Info("search processed",
		slog.Int("found", len(curr)),
		slog.Int("new", len(added)),
		slog.Int("removed", len(removed)),
	)
	log.Debug("current course ids", slog.String("ids", strings.Join(sortedIDs(curr), ", ")))

	if len(added) > 0 {
		if err := w.Notifier.Send(ctx, FormatNotification(s.Name, added)); err != nil {
			return 0, fmt.Errorf("notify: %w", err)
		}
	}

	// Persist unconditionally, even when nothing changed, so the snapshot
	// always reflects the latest successful fetch.
	if err := w.Store.Save(s.StateKey, curr); err != nil {
		return 0, err
	}

	return len(added), nil
}

// FormatNotification renders the message for newly listed courses, one line
// per course in sorted ID order.
func FormatNotification(searchName string, added []domain.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Neue VHS-Kurse für %q (%d):\n", searchName, len(added))
	for _, c := range added {
		if c.Title != "" {
			fmt.Fprintf(&b, "- %s | %s\n", c.ID, c.Title)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.ID)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func sortedIDs(snap domain.Snapshot) []string {
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
