package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"kurswatch/internal/domain"
	"kurswatch/internal/export"
)

// Dumps a persisted snapshot file as CSV for manual inspection.
func main() {
	statePath := flag.String("state", "", "path to a snapshot JSON file (required)")
	outPath := flag.String("o", "", "output file (default: stdout)")
	flag.Parse()

	if *statePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	b, err := os.ReadFile(*statePath)
	if err != nil {
		log.Fatalf("read state: %v", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		log.Fatalf("decode state: %v", err)
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.WriteCoursesCSV(w, snap); err != nil {
		log.Fatalf("write csv: %v", err)
	}

	log.Printf("exported %d courses", len(snap))
}
