package model

import (
	"strings"

	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

// Separator joins the two endpoints of a canonical PPI.
const Separator = "\t"

// ErrSelfInteraction is returned by NewPPI when both endpoints carry the same
// identifier string.
var ErrSelfInteraction = ppierrors.New("self-interaction")

// PPI is an unordered protein pair. The endpoints are stored in canonical
// order so that PPI{a,b} and PPI{b,a} are the same comparable value.
type PPI struct {
	a Protein
	b Protein
}

// NewPPI builds the canonical pair for p1 and p2. Identifiers that are empty,
// contain the separator or a line break, or belong to an unknown namespace
// are rejected, as are pairs whose identifier strings are equal.
func NewPPI(p1, p2 Protein) (PPI, error) {
	if err := validateProtein(p1); err != nil {
		return PPI{}, err
	}
	if err := validateProtein(p2); err != nil {
		return PPI{}, err
	}
	if p1.Value == p2.Value {
		return PPI{}, ErrSelfInteraction
	}
	if p1.Compare(p2) > 0 {
		p1, p2 = p2, p1
	}
	return PPI{a: p1, b: p2}, nil
}

// MustPPI is NewPPI for fixed inputs; it panics on error.
func MustPPI(p1, p2 Protein) PPI {
	ppi, err := NewPPI(p1, p2)
	if err != nil {
		panic(err)
	}
	return ppi
}

func validateProtein(p Protein) error {
	if !p.Type.Valid() {
		return ppierrors.NewValidationError("namespace", string(p.Type), "unknown identifier namespace")
	}
	v := p.Value
	if v == "" {
		return ppierrors.NewValidationError("identifier", v, "empty identifier")
	}
	if strings.ContainsAny(v, Separator+"\r\n") {
		return ppierrors.NewValidationError("identifier", v, "identifier contains a separator character")
	}
	return nil
}

// A returns the endpoint that sorts first.
func (p PPI) A() Protein { return p.a }

// B returns the endpoint that sorts second.
func (p PPI) B() Protein { return p.b }

// Key is the canonical string form used for identity and ordering.
func (p PPI) Key() string {
	return p.a.Value + Separator + p.b.Value
}

func (p PPI) String() string {
	return p.Key()
}

// Compare orders PPIs by their canonical keys.
func (p PPI) Compare(o PPI) int {
	return strings.Compare(p.Key(), o.Key())
}
