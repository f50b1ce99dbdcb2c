package parse

import (
	"regexp"
	"strings"

	"kurswatch/internal/domain"
)

// Course numbers in the VHS PDF export look like FK2.604-A, FK2.664-C etc.
// The pattern is tied to this catalog's numbering scheme and is a fixed
// input assumption, not a tunable.
var courseIDRe = regexp.MustCompile(`\bFK\d\.\d{3}(?:-[A-Z])?\b`)

// Characters trimmed off title candidates after course IDs are removed:
// whitespace plus hyphen, en dash and em dash separators.
const titleTrimCutset = " -–—\t"

// IDMatch is one course-number occurrence inside the document text.
type IDMatch struct {
	ID    string
	Start int
}

// Block is the contiguous text span attributed to one course number.
type Block struct {
	ID   string
	Text string
}

// FindCourseIDs scans text left to right and returns every course-number
// match with its start offset, in document order. Zero matches yields an
// empty slice, not an error.
func FindCourseIDs(text string) []IDMatch {
	locs := courseIDRe.FindAllStringIndex(text, -1)
	matches := make([]IDMatch, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, IDMatch{ID: text[loc[0]:loc[1]], Start: loc[0]})
	}
	return matches
}

// SplitBlocks partitions text into one trimmed block per match: block i runs
// from the start of match i up to the start of match i+1, the last block up
// to the end of the text. Blocks come back in document order.
func SplitBlocks(text string, matches []IDMatch) []Block {
	blocks := make([]Block, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].Start
		}
		blocks = append(blocks, Block{
			ID:   m.ID,
			Text: strings.TrimSpace(text[m.Start:end]),
		})
	}
	return blocks
}

// TitleFromBlock derives a human-readable title from a block. It inspects at
// most the first six non-empty lines:
//
//   - a line containing a course number has all numbers stripped and separator
//     punctuation trimmed; what remains is accepted unless it is empty or just
//     the block's own ID repeated,
//   - a line without a course number is accepted when it has at least six
//     characters.
//
// The PDF layout is irregular, so this stays best-effort: when no line
// qualifies the title is "" and the caller falls back to the raw block.
func TitleFromBlock(block, id string) string {
	lines := nonEmptyLines(block)
	if len(lines) > 6 {
		lines = lines[:6]
	}

	for _, ln := range lines {
		if courseIDRe.MatchString(ln) {
			rest := strings.Trim(courseIDRe.ReplaceAllString(ln, ""), titleTrimCutset)
			if rest != "" && !strings.EqualFold(rest, id) {
				return rest
			}
			continue
		}
		if len([]rune(ln)) >= 6 {
			return ln
		}
	}
	return ""
}

// BuildCourses runs the full pipeline over extracted document text and
// returns the current record set keyed by course ID. When the same ID shows
// up twice the later block in document order wins.
func BuildCourses(text string) domain.Snapshot {
	matches := FindCourseIDs(text)
	blocks := SplitBlocks(text, matches)

	courses := make(domain.Snapshot, len(blocks))
	for _, b := range blocks {
		courses[b.ID] = domain.Course{
			ID:    b.ID,
			Title: TitleFromBlock(b.Text, b.ID),
			Raw:   b.Text,
		}
	}
	return courses
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(ln); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
