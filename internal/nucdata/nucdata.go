// Package nucdata provides the nuclide library consumed during card
// serialization: membership (does the target code have data for a nuclide)
// and atomic masses for basis conversions. The library is passed explicitly
// into the operations that need it so tests can substitute a small table.
package nucdata

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"nucdeck/internal/errors"
	"nucdeck/internal/nuclide"
)

//go:embed nuclides.yaml
var embeddedData []byte

// Library answers membership and atomic-mass queries for a set of nuclides.
type Library interface {
	// Contains reports whether the library carries data for the nuclide.
	Contains(n nuclide.Nuclide) bool

	// AtomicMass returns the atomic mass in amu, or UNSUPPORTED_NUCLIDE
	// if the library has no entry.
	AtomicMass(n nuclide.Nuclide) (float64, error)
}

// Table is a Library backed by an in-memory mass table.
type Table struct {
	masses map[nuclide.Nuclide]float64
}

// FromTable builds a Library from an explicit nuclide -> atomic mass map.
// Intended for tests and callers with custom datasets.
func FromTable(masses map[nuclide.Nuclide]float64) *Table {
	copied := make(map[nuclide.Nuclide]float64, len(masses))
	for n, m := range masses {
		copied[n] = m
	}
	return &Table{masses: copied}
}

// Contains implements Library.
func (t *Table) Contains(n nuclide.Nuclide) bool {
	_, ok := t.masses[n]
	return ok
}

// AtomicMass implements Library.
func (t *Table) AtomicMass(n nuclide.Nuclide) (float64, error) {
	m, ok := t.masses[n]
	if !ok {
		return 0, errors.NewUnsupportedNuclide(n.String())
	}
	return m, nil
}

// Len returns the number of nuclides in the table.
func (t *Table) Len() int { return len(t.masses) }

// dataFile mirrors the embedded YAML layout.
type dataFile struct {
	Nuclides map[string]float64 `yaml:"nuclides"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded nuclide library. The table is parsed once;
// a malformed embedded asset is a build defect and panics.
func Default() *Table {
	defaultOnce.Do(func() {
		var err error
		defaultTable, err = parseData(embeddedData)
		if err != nil {
			panic(fmt.Sprintf("nucdata: embedded nuclides.yaml is invalid: %v", err))
		}
	})
	return defaultTable
}

// parseData decodes a YAML mass table keyed by symbolic nuclide names.
func parseData(data []byte) (*Table, error) {
	var file dataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	masses := make(map[nuclide.Nuclide]float64, len(file.Nuclides))
	for name, mass := range file.Nuclides {
		n, err := nuclide.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		if mass <= 0 {
			return nil, fmt.Errorf("entry %q: non-positive mass %v", name, mass)
		}
		masses[n] = mass
	}
	return &Table{masses: masses}, nil
}
