// Track reads event records from a YAML stream (one "---" separated document per event; a JSON
// object is a valid document), tracks each, then waits for the beacons to drain before exiting.
//
//	track -file events.yaml
//	cat events.json | track
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"shopping-fpti/internal/app"
	"shopping-fpti/internal/config"
	"shopping-fpti/internal/telemetry"
	"shopping-fpti/internal/telemetry/domain"
)

func main() {
	file := flag.String("file", "", "event stream to read (default stdin)")
	dryRun := flag.Bool("dry-run", false, "print each beacon URL instead of sending it")
	flag.Parse()
	os.Exit(run(*file, *dryRun))
}

// run tracks the stream and returns the exit code, so deferred cleanup runs before os.Exit.
func run(file string, dryRun bool) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	in := io.Reader(os.Stdin)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			log.Printf("track: %v", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Printf("app: %v", err)
		return 1
	}

	tracked, failed := 0, 0
	readErr := decodeRecords(in, func(rec domain.Record) error {
		if dryRun {
			b, err := a.Client.Build(rec)
			if err != nil {
				return err
			}
			u, err := b.URL()
			if err != nil {
				return err
			}
			fmt.Println(u)
			return nil
		}
		return a.Client.Track(context.Background(), rec)
	}, func(err error) {
		failed++
		log.Printf("track: %v", err)
	}, func() { tracked++ })
	if readErr != nil {
		log.Printf("track: read events: %v", readErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), max(telemetry.ShutdownDrainDuration, cfg.BeaconTimeout()))
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Printf("track: close: %v", err)
	}
	log.Printf("track: %d tracked, %d failed", tracked, failed)
	if failed > 0 || readErr != nil {
		return 1
	}
	return 0
}

// decodeRecords decodes every document in r and calls track for each non-empty record.
// A failing track is reported to onErr and does not stop the stream; a decode error does.
func decodeRecords(r io.Reader, track func(domain.Record) error, onErr func(error), onOK func()) error {
	dec := yaml.NewDecoder(r)
	for i := 1; ; i++ {
		var rec domain.Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("document %d: %w", i, err)
		}
		if len(rec) == 0 {
			continue
		}
		if err := track(rec); err != nil {
			onErr(fmt.Errorf("document %d (%s): %w", i, rec.String(domain.FieldEventName), err))
			continue
		}
		onOK()
	}
}
