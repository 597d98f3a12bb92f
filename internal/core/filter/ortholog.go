package filter

import (
	"slices"
	"strings"

	"github.com/agenthands/ppimap/internal/core/mapping"
	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/records"
)

// Human is the species code ortholog files use for Homo sapiens.
const Human = "HUMAN"

// Ortholog file columns. Columns 0 and 1 are "SPECIES|key=value|..." composites.
const (
	orthologColumnA      = 0
	orthologColumnB      = 1
	orthologFamilyColumn = 4
)

// OrthologSpec selects the species pair read from an ortholog file.
type OrthologSpec struct {
	// Species is the non-human species code, e.g. "YEAST".
	Species string
	// Human defaults to "HUMAN".
	Human string
	// HumanFirst sets the configured direction to human in column 0. By
	// default the configured direction has Species in column 0.
	HumanFirst bool
	// AllowBidirectional also accepts rows in the opposite direction.
	AllowBidirectional bool
}

func (o OrthologSpec) human() string {
	if o.Human == "" {
		return Human
	}
	return o.Human
}

// accepts reports whether a row with species1 in column 0 and species2 in
// column 1 is wanted.
func (o OrthologSpec) accepts(species1, species2 string) bool {
	if species1 == species2 {
		return false
	}
	first, second := o.Species, o.human()
	if o.HumanFirst {
		first, second = second, first
	}
	if species1 == first && species2 == second {
		return true
	}
	return o.AllowBidirectional && species1 == second && species2 == first
}

// OrthologPairs reads an ortholog file into a table from the other species'
// UniProt accession to the human accessions it is orthologous to. One
// accession may map to several and vice versa.
func OrthologPairs(s records.Scanner, spec OrthologSpec) (*model.MappingTable, Stats, error) {
	table := model.NewMappingTable(model.UniProtAccession, model.UniProtAccession)
	families := make(map[string]struct{})
	var stats Stats

	err := records.Each(s, func(row records.Row) error {
		stats.Rows++
		colA, okA := row.At(orthologColumnA)
		colB, okB := row.At(orthologColumnB)
		if !okA || !okB {
			stats.Invalid++
			return nil
		}
		partsA := strings.Split(colA, mapping.TokenSeparator)
		partsB := strings.Split(colB, mapping.TokenSeparator)
		species1, species2 := partsA[0], partsB[0]

		if !spec.accepts(species1, species2) {
			stats.Rejected++
			return nil
		}

		humanParts, otherParts := partsA, partsB
		if species1 != spec.human() {
			humanParts, otherParts = partsB, partsA
		}
		humanID, okH := mapping.ExtractTagged(humanParts, mapping.UniProtTag)
		otherID, okO := mapping.ExtractTagged(otherParts, mapping.UniProtTag)
		if !okH || !okO {
			stats.Invalid++
			return nil
		}

		if family, ok := row.At(orthologFamilyColumn); ok && family != "" {
			families[family] = struct{}{}
		}
		if vals, ok := table.Lookup(otherID); ok && slices.Contains(vals, humanID) {
			stats.Duplicates++
		} else {
			stats.Kept++
		}
		table.Add(otherID, humanID)
		return nil
	})
	stats.Families = len(families)
	if err != nil {
		return model.NewMappingTable(model.UniProtAccession, model.UniProtAccession), stats, err
	}
	return table, stats, nil
}
