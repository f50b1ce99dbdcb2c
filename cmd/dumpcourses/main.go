package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"kurswatch/internal/parse"
	"kurswatch/internal/pdftext"
	"kurswatch/internal/vhs"
)

const defaultSearchURL = "https://www.vhsit.berlin.de/vhskurse/BusinessPages/CourseSearch.aspx" +
	"?direkt=1&begonnen=0&beendet=0&stichw=Goldschmieden%7CSchmuck"

// Debug tool: fetch one search's PDF export, parse it and print the records.
// Touches neither snapshots nor Telegram.
func main() {
	searchURL := flag.String("url", defaultSearchURL, "WebForms search URL to fetch")
	showRaw := flag.Bool("raw", false, "print the full raw block per course")
	timeout := flag.Duration("timeout", 60*time.Second, "per-request timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := vhs.New(*timeout)

	pdfBytes, err := client.FetchCatalogPDF(ctx, *searchURL)
	if err != nil {
		log.Fatalf("fetch error: %v", err)
	}
	fmt.Printf("OK: fetched PDF (%d bytes)\n", len(pdfBytes))

	text, err := pdftext.Extract(pdfBytes)
	if err != nil {
		log.Fatalf("extract error: %v", err)
	}

	courses := parse.BuildCourses(text)
	fmt.Printf("OK: parsed %d courses\n\n", len(courses))

	ids := make([]string, 0, len(courses))
	for id := range courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := courses[id]
		if c.Title != "" {
			fmt.Printf("- %s | %s\n", c.ID, c.Title)
		} else {
			fmt.Printf("- %s\n", c.ID)
		}
		if *showRaw {
			fmt.Printf("%s\n\n", c.Raw)
		}
	}
}
