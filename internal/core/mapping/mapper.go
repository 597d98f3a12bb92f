// Package mapping builds multi-valued identifier lookup tables from
// namespace mapping files.
package mapping

import (
	"strings"

	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/records"
)

// TokenSeparator splits compound identifier fields.
const TokenSeparator = "|"

// UniProtTag marks the UniProt sub-token of a compound field, matching both
// "UniProt=" and "UniProtKB=".
const UniProtTag = "UniProt"

// Split selects which tokens of a compound field are used.
type Split int

const (
	// Whole uses the field as-is.
	Whole Split = iota
	// FirstToken uses the first pipe-delimited token.
	FirstToken
	// AllTokens uses every non-empty pipe-delimited token.
	AllTokens
)

// Column locates identifiers inside a row.
type Column struct {
	Index int
	// Tag, when set, selects the single pipe-delimited token that starts with
	// it; the identifier is the part after '='. Split is ignored.
	Tag   string
	Split Split
}

// Spec describes one mapping file.
type Spec struct {
	From   model.IdentifierType
	To     model.IdentifierType
	Source Column
	Target Column

	// OrganismColumn and Organism restrict rows to one taxon. An empty
	// Organism disables the filter.
	OrganismColumn int
	Organism       string
}

// Stats counts what happened to the rows of one Build.
type Stats struct {
	Rows          int `json:"rows" yaml:"rows"`
	OtherOrganism int `json:"other_organism" yaml:"other_organism"`
	MissingSource int `json:"missing_source" yaml:"missing_source"`
	MissingTarget int `json:"missing_target" yaml:"missing_target"`
	Keys          int `json:"keys" yaml:"keys"`
	Associations  int `json:"associations" yaml:"associations"`
}

// Build reads every row of s into a table keyed on the source column.
// Rows for other organisms, and rows with no usable source or target
// identifier, are skipped and counted. Only read errors are returned.
func Build(s records.Scanner, spec Spec) (*model.MappingTable, Stats, error) {
	table := model.NewMappingTable(spec.From, spec.To)
	var stats Stats

	err := records.Each(s, func(row records.Row) error {
		stats.Rows++
		if spec.Organism != "" {
			org, ok := row.At(spec.OrganismColumn)
			if !ok || strings.TrimSpace(org) != spec.Organism {
				stats.OtherOrganism++
				return nil
			}
		}

		sources := Extract(row, spec.Source)
		if len(sources) == 0 {
			stats.MissingSource++
			return nil
		}
		targets := Extract(row, spec.Target)
		if len(targets) == 0 {
			stats.MissingTarget++
			return nil
		}

		for _, src := range sources {
			for _, dst := range targets {
				table.Add(src, dst)
			}
		}
		return nil
	})

	stats.Keys = table.Len()
	stats.Associations = table.Pairs()
	return table, stats, err
}

// BuildFile opens path and builds the table from it, closing the file
// before returning.
func BuildFile(path string, format records.Format, spec Spec) (*model.MappingTable, Stats, error) {
	r, err := records.Open(path, format)
	if err != nil {
		return model.NewMappingTable(spec.From, spec.To), Stats{}, err
	}
	defer r.Close()
	return Build(r, spec)
}

// Extract returns the identifiers col selects from row. The result is empty
// when the column is missing or holds no matching token.
func Extract(row records.Row, col Column) []string {
	field, ok := row.At(col.Index)
	if !ok {
		return nil
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}

	tokens := strings.Split(field, TokenSeparator)
	if col.Tag != "" {
		id, ok := ExtractTagged(tokens, col.Tag)
		if !ok {
			return nil
		}
		return []string{id}
	}

	switch col.Split {
	case FirstToken:
		if t := strings.TrimSpace(tokens[0]); t != "" {
			return []string{t}
		}
		return nil
	case AllTokens:
		out := make([]string, 0, len(tokens))
		for _, t := range tokens {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		return []string{field}
	}
}

// ExtractTagged returns the value of the first token beginning with tag,
// e.g. "P12345" from "UniProt=P12345".
func ExtractTagged(tokens []string, tag string) (string, bool) {
	for _, t := range tokens {
		if !strings.HasPrefix(t, tag) {
			continue
		}
		v := strings.TrimPrefix(t, tag)
		if !strings.HasSuffix(tag, "=") {
			if i := strings.IndexByte(v, '='); i >= 0 {
				v = v[i+1:]
			}
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// StringDBToUniProt describes StringDB's uniprot_2_string files: column 0 is
// the taxon, column 1 "ACCESSION|ENTRY_NAME", column 2 the StringDB id.
func StringDBToUniProt(taxon string) Spec {
	return Spec{
		From:           model.StringDB,
		To:             model.UniProtAccession,
		Source:         Column{Index: 2},
		Target:         Column{Index: 1, Split: FirstToken},
		OrganismColumn: 0,
		Organism:       taxon,
	}
}

// EntrezToStringDB describes StringDB's entrez_2_string files: column 1 holds
// one or more pipe-separated Entrez Gene ids for the StringDB id in column 2.
func EntrezToStringDB(taxon string) Spec {
	return Spec{
		From:           model.EntrezGene,
		To:             model.StringDB,
		Source:         Column{Index: 1, Split: AllTokens},
		Target:         Column{Index: 2},
		OrganismColumn: 0,
		Organism:       taxon,
	}
}
