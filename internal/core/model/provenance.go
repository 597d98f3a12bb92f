package model

import "time"

// Provenance describes where a data set came from. Records are deduplicated
// on Name, URL, Category and BiologicalEntity.
type Provenance struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name" binding:"required"`
	URL              string    `json:"url"`
	Category         string    `json:"category"`
	BiologicalEntity string    `json:"biological_entity"`
	CreatedAt        time.Time `json:"created_at"`
}

// SameSource reports whether p and o share the four deduplication fields.
func (p Provenance) SameSource(o Provenance) bool {
	return p.Name == o.Name &&
		p.URL == o.URL &&
		p.Category == o.Category &&
		p.BiologicalEntity == o.BiologicalEntity
}
