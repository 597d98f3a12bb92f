// Package output writes pipeline results: tab-separated pair lists, mapping
// failure logs and the YAML run report.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/core/resolve"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

// FormatPair renders one resolved pair. The annotated form appends the
// identifiers each endpoint was mapped from:
//
//	P1	P2	(P1 was mapped from: s1; P2 was mapped from: s2)
func FormatPair(p resolve.Pair, annotate bool) string {
	a, b := p.PPI.A().Value, p.PPI.B().Value
	if !annotate {
		return a + model.Separator + b
	}
	return fmt.Sprintf("%s%s%s%s(%s was mapped from: %s; %s was mapped from: %s)",
		a, model.Separator, b, model.Separator, a, p.FromA.Value, b, p.FromB.Value)
}

// WritePairs writes pairs in their canonical order and returns the number of
// lines written. Without annotation a resolved PPI reached from several
// sources is written once.
func WritePairs(path string, pairs []resolve.Pair, annotate bool) (int, error) {
	return writeLines(path, func(emit func(string) error) error {
		var last string
		for _, p := range pairs {
			line := FormatPair(p, annotate)
			if !annotate && line == last {
				continue
			}
			last = line
			if err := emit(line); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePPIs writes the members of set in canonical order, one per line.
func WritePPIs(path string, set *model.InteractionSet) (int, error) {
	return writeLines(path, func(emit func(string) error) error {
		for _, p := range set.Sorted() {
			if err := emit(p.Key()); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFailures writes one unmapped identifier per line, once per occurrence.
func WriteFailures(path string, failures []model.MappingFailure) (int, error) {
	return writeLines(path, func(emit func(string) error) error {
		for _, f := range failures {
			if err := emit(f.Identifier); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLines(path string, body func(emit func(string) error) error) (n int, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, ppierrors.NewFileAccessError("create directory for", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, ppierrors.NewFileAccessError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ppierrors.NewFileAccessError("close", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	emit := func(line string) error {
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		n++
		return w.WriteByte('\n')
	}
	if err := body(emit); err != nil {
		return n, ppierrors.NewFileAccessError("write", path, err)
	}
	if err := w.Flush(); err != nil {
		return n, ppierrors.NewFileAccessError("write", path, err)
	}
	return n, nil
}
