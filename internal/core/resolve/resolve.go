// Package resolve translates interaction sets from one identifier namespace
// to another through a mapping table.
//
// Two strategies exist and they are not interchangeable. PickOne keeps a
// single representative value per endpoint; CrossProduct emits a pair for
// every combination of mapped values. The same input can therefore produce
// result sets of different sizes depending on the strategy.
package resolve

import (
	"errors"
	"slices"
	"strings"

	"github.com/agenthands/ppimap/internal/core/model"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

// Lookup resolves an identifier to its mapped values. *model.MappingTable
// satisfies it.
type Lookup interface {
	Lookup(id string) ([]string, bool)
}

// Pair is a resolved PPI together with the PPI it was mapped from. FromA and
// FromB are the source endpoints that mapped to PPI.A() and PPI.B().
type Pair struct {
	PPI    model.PPI
	Source model.PPI
	FromA  model.Protein
	FromB  model.Protein
}

// Result is the outcome of resolving one interaction set.
type Result struct {
	// Set holds the distinct resolved PPIs.
	Set *model.InteractionSet
	// Pairs lists every resolved PPI with its source, sorted by resolved
	// then source key. A resolved PPI reached from several sources appears
	// once per source.
	Pairs []Pair
	// Failures has one entry per endpoint occurrence with no mapping.
	Failures []model.MappingFailure
	// SelfInteractions counts pairs dropped because both endpoints mapped
	// to the same identifier.
	SelfInteractions int
	// Invalid counts pairs dropped because a mapped value was not a usable
	// identifier.
	Invalid int
}

// FailedIdentifiers returns the identifiers in Failures, one per occurrence.
func (r Result) FailedIdentifiers() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.Identifier
	}
	return out
}

// Strategy resolves set into the target namespace using table.
type Strategy func(set *model.InteractionSet, table Lookup, target model.IdentifierType) Result

const (
	PickOneName      = "pick-one"
	CrossProductName = "cross-product"
)

// ByName returns the strategy registered under name.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PickOneName:
		return PickOne, nil
	case CrossProductName:
		return CrossProduct, nil
	}
	return nil, ppierrors.NewValidationError("strategy", name, "unknown resolution strategy")
}

// PickOne maps each endpoint to the lexicographically smallest of its mapped
// values. Each source PPI yields at most one resolved PPI.
func PickOne(set *model.InteractionSet, table Lookup, target model.IdentifierType) Result {
	return run(set, table, target, func(values []string) []string {
		return values[:1]
	})
}

// CrossProduct emits one resolved PPI per combination of the mapped values
// of the two endpoints.
func CrossProduct(set *model.InteractionSet, table Lookup, target model.IdentifierType) Result {
	return run(set, table, target, func(values []string) []string {
		return values
	})
}

func run(set *model.InteractionSet, table Lookup, target model.IdentifierType, choose func([]string) []string) Result {
	res := Result{Set: model.NewInteractionSet()}

	for _, src := range set.Sorted() {
		valuesA, okA := lookup(table, src.A().Value)
		valuesB, okB := lookup(table, src.B().Value)
		if !okA {
			res.Failures = append(res.Failures, failure(src.A(), target))
		}
		if !okB {
			res.Failures = append(res.Failures, failure(src.B(), target))
		}
		if !okA || !okB {
			continue
		}

		for _, a := range choose(valuesA) {
			for _, b := range choose(valuesB) {
				ppi, err := model.NewPPI(model.NewProtein(a, target), model.NewProtein(b, target))
				switch {
				case errors.Is(err, model.ErrSelfInteraction):
					res.SelfInteractions++
					continue
				case err != nil:
					res.Invalid++
					continue
				}
				pair := Pair{PPI: ppi, Source: src, FromA: src.A(), FromB: src.B()}
				if ppi.A().Value != a {
					pair.FromA, pair.FromB = src.B(), src.A()
				}
				res.Set.Add(ppi)
				res.Pairs = append(res.Pairs, pair)
			}
		}
	}

	slices.SortFunc(res.Pairs, func(x, y Pair) int {
		if c := x.PPI.Compare(y.PPI); c != 0 {
			return c
		}
		return x.Source.Compare(y.Source)
	})
	return res
}

// lookup treats a key mapped to no values the same as a missing key.
func lookup(table Lookup, id string) ([]string, bool) {
	if table == nil {
		return nil, false
	}
	values, ok := table.Lookup(id)
	if !ok || len(values) == 0 {
		return nil, false
	}
	if !slices.IsSorted(values) {
		values = slices.Clone(values)
		slices.Sort(values)
	}
	return values, true
}

func failure(p model.Protein, target model.IdentifierType) model.MappingFailure {
	return model.MappingFailure{Identifier: p.Value, From: p.Type, Target: target}
}
