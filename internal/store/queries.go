package store

const (
	schemaQuery = `
		CREATE TABLE IF NOT EXISTS provenance (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			name              TEXT NOT NULL,
			url               TEXT NOT NULL DEFAULT '',
			category          TEXT NOT NULL DEFAULT '',
			biological_entity TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL,
			UNIQUE (name, url, category, biological_entity)
		);
		CREATE INDEX IF NOT EXISTS provenance_name_idx ON provenance (name);
	`

	insertProvenanceQuery = `
		INSERT INTO provenance (name, url, category, biological_entity, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name, url, category, biological_entity) DO NOTHING
	`

	selectBySourceQuery = `
		SELECT id, name, url, category, biological_entity, created_at
		FROM provenance
		WHERE name = ? AND url = ? AND category = ? AND biological_entity = ?
	`

	selectByIDQuery = `
		SELECT id, name, url, category, biological_entity, created_at
		FROM provenance
		WHERE id = ?
	`

	selectByNameQuery = `
		SELECT id, name, url, category, biological_entity, created_at
		FROM provenance
		WHERE name = ?
		ORDER BY id
	`
)
