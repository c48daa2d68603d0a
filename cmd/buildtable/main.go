// Command buildtable runs the offline backwards-induction computation
// that produces dp_table.bin, the expected-score asset pkg/yacht.Engine
// loads at startup.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/yourusername/yachtcore/internal/dpbuild"
)

const version = "0.1.0"

func main() {
	out := flag.String("out", "data/dp_table.bin", "Output path for the built table")
	quiet := flag.Bool("quiet", false, "Suppress progress logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("yacht-buildtable v%s\n", version)
		os.Exit(0)
	}

	log.Printf("yacht-buildtable v%s", version)
	log.Printf("computing expected-score table by backwards induction...")

	start := time.Now()
	var lastLogged time.Time
	progress := func(done, total int) {
		if *quiet {
			return
		}
		if time.Since(lastLogged) < time.Second && done < total {
			return
		}
		lastLogged = time.Now()
		log.Printf("  %d/%d entries (%.1f%%)", done, total, 100*float64(done)/float64(total))
	}

	table := dpbuild.Build(progress)
	log.Printf("induction complete in %s", time.Since(start))

	initial := table.Expected(0, 0)
	log.Printf("initial expected score E[0,0] = %.4f", initial)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := os.WriteFile(*out, table.ToBytes(), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}
	log.Printf("wrote %s", *out)
}
