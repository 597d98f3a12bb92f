package model

// IdentifierType names the namespace an identifier string belongs to.
type IdentifierType string

const (
	StringDB         IdentifierType = "STRINGDB"
	UniProtAccession IdentifierType = "UNIPROT_ACCESSION"
	UniProtGeneName  IdentifierType = "UNIPROT_GENE_NAME"
	EntrezGene       IdentifierType = "ENTREZ_GENE"
	OrthologSourceID IdentifierType = "ORTHOLOG_SOURCE_ID"
)

// Valid reports whether t is one of the known namespaces.
func (t IdentifierType) Valid() bool {
	switch t {
	case StringDB, UniProtAccession, UniProtGeneName, EntrezGene, OrthologSourceID:
		return true
	}
	return false
}

// Protein is an identifier within a namespace. Two proteins are equal only
// when both the value and the namespace match.
type Protein struct {
	Value string         `json:"value"`
	Type  IdentifierType `json:"type"`
}

func NewProtein(value string, t IdentifierType) Protein {
	return Protein{Value: value, Type: t}
}

// String returns the bare identifier; the namespace is left out so that
// written pair lists contain only identifiers.
func (p Protein) String() string {
	return p.Value
}

// Compare orders proteins by identifier value, then by namespace.
func (p Protein) Compare(o Protein) int {
	switch {
	case p.Value < o.Value:
		return -1
	case p.Value > o.Value:
		return 1
	case p.Type < o.Type:
		return -1
	case p.Type > o.Type:
		return 1
	}
	return 0
}
