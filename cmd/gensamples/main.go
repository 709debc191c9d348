// Command gensamples writes one valid example document per entity.
//
// Usage:
//
//	go run ./cmd/gensamples -out samples
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/uwg-schema/internal/samples"
)

func main() {
	out := flag.String("out", "samples", "output directory")
	flag.Parse()

	if err := run(*out); err != nil {
		slog.Error("generate samples", "error", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	all, err := samples.All()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, s := range all {
		data, err := samples.JSON(s.Entity)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.File, err)
		}
		path := filepath.Join(dir, s.File)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // sample files are public
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Info("sample written", "path", path, "entity", s.Entity.EntityName())
	}
	return nil
}
