package watch

import "context"

// Search is one named search-and-notify unit: a display name for messages and
// logs, the WebForms search URL to fetch, and the key its snapshot is stored
// under. Searches run strictly in list order.
type Search struct {
	Name     string
	URL      string
	StateKey string
}

// DocumentSource produces the raw bytes of a catalog document for a search
// URL. Implemented by the VHS WebForms client; faked in tests.
type DocumentSource interface {
	FetchCatalogPDF(ctx context.Context, searchURL string) ([]byte, error)
}

// Notifier delivers a formatted text payload to the configured recipients.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
