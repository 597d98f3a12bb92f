package driver

// IndexQueries are run by BuildIndices.
var IndexQueries = []string{
	"CREATE INDEX ON :Protein(value);",
	"CREATE INDEX ON :Protein(namespace);",
	"CREATE INDEX ON :Run(run_id);",
}

const (
	SaveRunQuery = `
		MERGE (r:Run {run_id: $run_id})
		SET r.pipeline = $pipeline,
			r.species = $species,
			r.created_at = $created_at
		RETURN r.run_id AS run_id
	`

	// MergeProteinsQuery expects $proteins as a list of {value, namespace} maps.
	MergeProteinsQuery = `
		UNWIND $proteins AS p
		MERGE (n:Protein {value: p.value, namespace: p.namespace})
		RETURN count(n) AS proteins
	`

	// MergeInteractionsQuery expects $pairs as a list of {a, b} maps holding
	// protein values in canonical order, all in $namespace.
	MergeInteractionsQuery = `
		UNWIND $pairs AS pair
		MATCH (a:Protein {value: pair.a, namespace: $namespace})
		MATCH (b:Protein {value: pair.b, namespace: $namespace})
		MERGE (a)-[e:INTERACTS_WITH {run_id: $run_id, label: $label}]->(b)
		SET e.created_at = $created_at
		RETURN count(e) AS interactions
	`

	CountInteractionsQuery = `
		MATCH (:Protein)-[e:INTERACTS_WITH {run_id: $run_id, label: $label}]->(:Protein)
		RETURN count(e) AS interactions
	`

	DeleteRunQuery = `
		MATCH ()-[e:INTERACTS_WITH {run_id: $run_id}]->()
		DELETE e
	`
)
