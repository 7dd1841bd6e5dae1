// Command convert turns a raw catalogue file into normalized water objects
// with priority scores. Records whose coordinates cannot be read are listed
// on stderr and left out of the output.
//
// Usage:
//
//	go run ./cmd/convert \
//	  -in data/mock/water_objects.json \
//	  -out data/mock/water_objects_normalized.json \
//	  -now 2026-01-15
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gidroatlas/water-objects-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to the raw catalogue JSON")
	out := flag.String("out", "", "output path for normalized objects (stdout when empty)")
	now := flag.String("now", "", "evaluation date YYYY-MM-DD for reproducible output")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}

	if *now != "" {
		t, err := time.Parse(time.DateOnly, *now)
		if err != nil {
			return fmt.Errorf("parse -now: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(t))
		defer domain.SetClock(nil)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read catalogue: %w", err)
	}
	var file domain.CatalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decode catalogue: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	report := domain.ConvertCatalog(file, logger)
	for i, obj := range report.Objects {
		report.Objects[i] = domain.EnrichWaterObject(obj)
	}

	for _, s := range report.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %s #%d %q: %s\n", s.Kind, s.Index, s.Name, s.Reason)
	}
	log.Printf("converted %d objects, skipped %d", len(report.Objects), len(report.Skipped))

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode objects: %w", err)
	}
	encoded = append(encoded, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	if err := os.WriteFile(*out, encoded, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
