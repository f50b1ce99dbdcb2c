package domain

// Course is the canonical representation of one catalog listing inside this
// service. ID is the VHS course number and the only uniqueness key. Title is
// best-effort and may be empty when the PDF layout defeats the heuristic;
// Raw keeps the full text block so downstream consumers always have the
// original content to fall back on.
type Course struct {
	ID    string `json:"course_id"`
	Title string `json:"title"`
	Raw   string `json:"raw"`
}

// Snapshot maps course IDs to records. It is the persisted result of the most
// recent successful run and the diff baseline for the next one. Key uniqueness
// is the only structural invariant; iteration order carries no meaning.
type Snapshot map[string]Course
