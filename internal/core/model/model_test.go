package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

func sdb(v string) Protein { return NewProtein(v, StringDB) }

func TestProteinEquality(t *testing.T) {
	assert.Equal(t, NewProtein("P1", UniProtAccession), NewProtein("P1", UniProtAccession))
	// Same string in a different namespace is a different protein
	assert.NotEqual(t, NewProtein("123", EntrezGene), NewProtein("123", StringDB))
	assert.Equal(t, "P1", NewProtein("P1", UniProtAccession).String())
}

func TestPPI_CanonicalSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"A", "B"},
		{"9606.ENSP00000000233", "9606.ENSP00000158762"},
		{"z", "Z"},
		{"P12345", "P1234"},
	}
	for _, pair := range pairs {
		ab, err := NewPPI(sdb(pair[0]), sdb(pair[1]))
		require.NoError(t, err)
		ba, err := NewPPI(sdb(pair[1]), sdb(pair[0]))
		require.NoError(t, err)

		assert.Equal(t, ab, ba)
		assert.Equal(t, ab.Key(), ba.Key())
		assert.Equal(t, ab.String(), ba.String())
		assert.Equal(t, 0, ab.Compare(ba))

		m := map[PPI]int{ab: 1}
		_, ok := m[ba]
		assert.True(t, ok, "reversed pair must hash identically")
	}
}

func TestPPI_StringHidesConstructionOrder(t *testing.T) {
	p := MustPPI(sdb("B"), sdb("A"))
	assert.Equal(t, "A\tB", p.String())
	assert.Equal(t, "A", p.A().Value)
	assert.Equal(t, "B", p.B().Value)
}

func TestPPI_RejectsSelfInteraction(t *testing.T) {
	_, err := NewPPI(sdb("A"), sdb("A"))
	assert.ErrorIs(t, err, ErrSelfInteraction)

	// Identifier strings are compared, not namespaces
	_, err = NewPPI(NewProtein("7157", EntrezGene), NewProtein("7157", StringDB))
	assert.ErrorIs(t, err, ErrSelfInteraction)
}

func TestPPI_RejectsSeparatorInIdentifier(t *testing.T) {
	_, err := NewPPI(sdb("A\tC"), sdb("B"))
	assert.True(t, ppierrors.IsValidationError(err))

	_, err = NewPPI(sdb("A"), sdb("B\n"))
	assert.True(t, ppierrors.IsValidationError(err))

	_, err = NewPPI(sdb(""), sdb("B"))
	assert.True(t, ppierrors.IsValidationError(err))
}

func TestPPI_RejectsUnknownNamespace(t *testing.T) {
	assert.True(t, EntrezGene.Valid())
	assert.False(t, IdentifierType("GO_TERM").Valid())

	_, err := NewPPI(NewProtein("GO:0005515", "GO_TERM"), sdb("B"))
	assert.True(t, ppierrors.IsValidationError(err))

	_, err = NewPPI(sdb("A"), Protein{Value: "B"})
	assert.True(t, ppierrors.IsValidationError(err))
}

func TestInteractionSet_Dedup(t *testing.T) {
	// ("A","B") and ("B","A") from the same source collapse into one interaction
	s := NewInteractionSet()
	assert.True(t, s.Add(MustPPI(sdb("A"), sdb("B"))))
	assert.False(t, s.Add(MustPPI(sdb("B"), sdb("A"))))
	assert.Equal(t, 1, s.Len())
}

func TestInteractionSet_AlgebraDoesNotAlias(t *testing.T) {
	ab := MustPPI(sdb("A"), sdb("B"))
	cd := MustPPI(sdb("C"), sdb("D"))
	ef := MustPPI(sdb("E"), sdb("F"))

	x := NewInteractionSet(ab, cd)
	y := NewInteractionSet(cd, ef)

	inter := x.Intersect(y)
	diff := x.Difference(y)
	union := x.Union(y)

	assert.Equal(t, []PPI{cd}, inter.Sorted())
	assert.Equal(t, []PPI{ab}, diff.Sorted())
	assert.Equal(t, []PPI{ab, cd, ef}, union.Sorted())

	// Operands are untouched
	assert.Equal(t, []PPI{ab, cd}, x.Sorted())
	assert.Equal(t, []PPI{cd, ef}, y.Sorted())

	// Results are independent of operands
	inter.Add(ef)
	assert.False(t, x.Contains(ef))
	clone := x.Clone()
	clone.Add(ef)
	assert.Equal(t, 2, x.Len())
}

func TestInteractionSet_NilSafe(t *testing.T) {
	var s *InteractionSet
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(MustPPI(sdb("A"), sdb("B"))))
	assert.Equal(t, 0, s.Intersect(NewInteractionSet(MustPPI(sdb("A"), sdb("B")))).Len())
	assert.Equal(t, 1, NewInteractionSet(MustPPI(sdb("A"), sdb("B"))).Difference(s).Len())
	assert.True(t, s.Equal(NewInteractionSet()))
}

func TestMappingTable_Accumulates(t *testing.T) {
	m := NewMappingTable(StringDB, UniProtAccession)
	m.Add("4932.YAL001C", "P34111")
	m.Add("4932.YAL001C", "Q00001")
	m.Add("4932.YAL001C", "P34111")
	m.Add("4932.YAL002W", "P39702")
	m.Add("", "ignored")
	m.Add("ignored", "")

	values, ok := m.Lookup("4932.YAL001C")
	assert.True(t, ok)
	assert.Equal(t, []string{"P34111", "Q00001"}, values)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
	assert.False(t, m.Has("ignored"))

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, m.Pairs())
	assert.Equal(t, []string{"4932.YAL001C", "4932.YAL002W"}, m.Keys())
}

func TestMappingTable_InsertionOrderIndependent(t *testing.T) {
	rows := [][2]string{{"k1", "v2"}, {"k1", "v1"}, {"k2", "v3"}, {"k1", "v3"}}

	forward := NewMappingTable(EntrezGene, StringDB)
	for _, r := range rows {
		forward.Add(r[0], r[1])
	}
	backward := NewMappingTable(EntrezGene, StringDB)
	for i := len(rows) - 1; i >= 0; i-- {
		backward.Add(rows[i][0], rows[i][1])
	}

	for _, k := range forward.Keys() {
		fv, _ := forward.Lookup(k)
		bv, _ := backward.Lookup(k)
		assert.Equal(t, fv, bv)
	}
}

func TestProvenance_SameSource(t *testing.T) {
	a := Provenance{ID: 1, Name: "StringDB", URL: "https://string-db.org", Category: "PPI", BiologicalEntity: "protein"}
	b := a
	b.ID = 7
	assert.True(t, a.SameSource(b))
	b.Category = "mapping"
	assert.False(t, a.SameSource(b))
}
