// Command themegen writes tailwind.config.js from internal/theme so the
// Tailwind CLI and the Go components share one theme definition.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/DukeRupert/skybooker/internal/theme"
)

func run() error {
	out := flag.String("o", "tailwind.config.js", "output path")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	if err := theme.Default().WriteTailwindConfig(f); err != nil {
		return fmt.Errorf("write tailwind config: %w", err)
	}
	return f.Close()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
