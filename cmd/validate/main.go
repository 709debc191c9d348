// Command validate checks UWG model documents on disk. Each file is decoded
// by its type discriminator and reported as PASS or FAIL with the first
// violation found. Directories are searched for .json, .yaml and .yml files.
//
// Usage:
//
//	go run ./cmd/validate [-stock] samples/ model.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/couchcryptid/uwg-schema/internal/adapter/file"
	"github.com/couchcryptid/uwg-schema/internal/domain"
)

// phase tracks pass/fail for one document.
type phase struct {
	name   string
	entity domain.Entity
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	stock := flag.Bool("stock", false, "print the resolved building stock of UWG documents")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, flag.Args(), *stock); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, paths []string, stock bool) int {
	files, err := file.Expand(paths)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(w, "FATAL: no documents found")
		return 1
	}

	fmt.Fprintln(w, "=== UWG Model Validation ===")
	fmt.Fprintln(w)

	phases := make([]*phase, len(files))
	for i, path := range files {
		phases[i] = validateFile(path)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = "\033[31mFAIL\033[0m"
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if stock {
		for _, p := range phases {
			if u, ok := p.entity.(domain.UWG); ok {
				printStock(w, p.name, u)
			}
		}
	}

	if allPassed {
		fmt.Fprintf(w, "\nAll %d documents passed.\n", len(phases))
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func validateFile(path string) *phase {
	p := &phase{name: path}
	data, err := file.ReadDocument(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	entity, err := domain.Decode(data)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	p.entity = entity
	return p
}

func printStock(w io.Writer, name string, u domain.UWG) {
	fmt.Fprintf(w, "\n--- %s: building stock ---\n", name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  BUILDING TYPE\tERA\tFRACTION\tBEMDEF\tSCHDEF")
	for _, e := range u.Stock() {
		fmt.Fprintf(tw, "  %s\t%s\t%.4g\t%s\t%s\n",
			e.Row.BuildingType, e.Row.BuiltEra, e.Row.Fraction, e.BEMSource, e.ScheduleSource)
	}
	tw.Flush() //nolint:errcheck // stdout
}
