// Package filter turns raw interaction records into canonical PPI sets,
// keeping only rows that satisfy the evidence criteria of each source.
package filter

import (
	"errors"
	"strconv"
	"strings"

	"github.com/agenthands/ppimap/internal/core/model"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/records"
)

// StringDB actions and links columns.
const (
	ModeColumn        = "mode"
	BindingMode       = "binding"
	ActionColumnA     = "item_id_a"
	ActionColumnB     = "item_id_b"
	LinkColumnA       = "protein1"
	LinkColumnB       = "protein2"
	ExperimentsColumn = "experiments"
)

// BioGrid tab2 columns.
const (
	BioGridOrganismA = "Organism Interactor A"
	BioGridOrganismB = "Organism Interactor B"
	BioGridEntrezA   = "Entrez Gene Interactor A"
	BioGridEntrezB   = "Entrez Gene Interactor B"
)

// Stats counts the fate of the rows read by one filter.
type Stats struct {
	Rows             int `json:"rows" yaml:"rows"`
	Kept             int `json:"kept" yaml:"kept"`
	Duplicates       int `json:"duplicates" yaml:"duplicates"`
	Rejected         int `json:"rejected" yaml:"rejected"`
	OtherOrganism    int `json:"other_organism,omitempty" yaml:"other_organism,omitempty"`
	SelfInteractions int `json:"self_interactions" yaml:"self_interactions"`
	Invalid          int `json:"invalid" yaml:"invalid"`
	Families         int `json:"families,omitempty" yaml:"families,omitempty"`
}

func (s *Stats) add(set *model.InteractionSet, p1, p2 model.Protein) {
	ppi, err := model.NewPPI(p1, p2)
	switch {
	case errors.Is(err, model.ErrSelfInteraction):
		s.SelfInteractions++
	case err != nil:
		s.Invalid++
	case set.Add(ppi):
		s.Kept++
	default:
		s.Duplicates++
	}
}

// Binding keeps StringDB action rows whose mode is exactly "binding".
func Binding(s records.Scanner) (*model.InteractionSet, Stats, error) {
	set := model.NewInteractionSet()
	var stats Stats

	err := records.Each(s, func(row records.Row) error {
		stats.Rows++
		mode, _ := row.Get(ModeColumn)
		if mode != BindingMode {
			stats.Rejected++
			return nil
		}
		a, okA := row.Get(ActionColumnA)
		b, okB := row.Get(ActionColumnB)
		if !okA || !okB {
			stats.Invalid++
			return nil
		}
		stats.add(set, model.NewProtein(a, model.StringDB), model.NewProtein(b, model.StringDB))
		return nil
	})
	if err != nil {
		return model.NewInteractionSet(), stats, err
	}
	return set, stats, nil
}

// EvidenceScore keeps StringDB link rows whose integer score column is
// greater than threshold. A single non-numeric score aborts the whole load
// with a ParseError and no partial result.
func EvidenceScore(s records.Scanner, column string, threshold int) (*model.InteractionSet, Stats, error) {
	set := model.NewInteractionSet()
	var stats Stats

	err := records.Each(s, func(row records.Row) error {
		stats.Rows++
		raw, ok := row.Get(column)
		score, err := strconv.Atoi(strings.TrimSpace(raw))
		if !ok || err != nil {
			return ppierrors.NewParseError(sourceName(s), row.Line, column, raw, err)
		}
		if score <= threshold {
			stats.Rejected++
			return nil
		}
		a, okA := row.Get(LinkColumnA)
		b, okB := row.Get(LinkColumnB)
		if !okA || !okB {
			stats.Invalid++
			return nil
		}
		stats.add(set, model.NewProtein(a, model.StringDB), model.NewProtein(b, model.StringDB))
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return set, stats, nil
}

// Intersect returns the PPIs present in both the binding and evidence sets.
// Neither input is modified.
func Intersect(binding, evidence *model.InteractionSet) *model.InteractionSet {
	return binding.Intersect(evidence)
}

// BioGridPairs keeps BioGrid rows where both interactors belong to taxon and
// builds PPIs from their Entrez Gene ids. Rows naming the same gene twice are
// counted in SelfInteractions and left out.
func BioGridPairs(s records.Scanner, taxon string) (*model.InteractionSet, Stats, error) {
	set := model.NewInteractionSet()
	var stats Stats

	err := records.Each(s, func(row records.Row) error {
		stats.Rows++
		orgA, okA := row.Get(BioGridOrganismA)
		orgB, okB := row.Get(BioGridOrganismB)
		if !okA || !okB || strings.TrimSpace(orgA) != taxon || strings.TrimSpace(orgB) != taxon {
			stats.OtherOrganism++
			return nil
		}
		a, okA := row.Get(BioGridEntrezA)
		b, okB := row.Get(BioGridEntrezB)
		if !okA || !okB {
			stats.Invalid++
			return nil
		}
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
		if a == b {
			stats.SelfInteractions++
			return nil
		}
		stats.add(set, model.NewProtein(a, model.EntrezGene), model.NewProtein(b, model.EntrezGene))
		return nil
	})
	if err != nil {
		return model.NewInteractionSet(), stats, err
	}
	return set, stats, nil
}

func sourceName(s records.Scanner) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
