// Command gendocs writes the OpenAPI document of the UWG models.
//
// Usage:
//
//	go run ./cmd/gendocs -version v1.2.3 -out docs/uwg.json
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/uwg-schema/internal/openapi"
)

func main() {
	version := flag.String("version", "", "schema version, e.g. v1.2.3")
	out := flag.String("out", "docs/uwg.json", "output file")
	flag.Parse()

	if err := run(*version, *out); err != nil {
		slog.Error("generate docs", "error", err)
		os.Exit(1)
	}
}

func run(version, out string) error {
	doc, err := openapi.Models(strings.TrimPrefix(version, "v"))
	if err != nil {
		return err
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(out), err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // published documentation
		return fmt.Errorf("write %s: %w", out, err)
	}
	slog.Info("openapi document written", "path", out, "version", doc.Info.Version, "schemas", len(doc.Components.Schemas))
	return nil
}
