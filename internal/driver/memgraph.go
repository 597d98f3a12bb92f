package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
)

type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	logger zerolog.Logger
}

// NewMemgraphDriver connects over bolt and verifies the connection before
// returning.
func NewMemgraphDriver(ctx context.Context, uri, username, password string, logger zerolog.Logger) (*MemgraphDriver, error) {
	d, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}
	if err := d.VerifyConnectivity(ctx); err != nil {
		d.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", uri, err)
	}

	logger.Info().Str("uri", uri).Msg("connected to Memgraph")
	return &MemgraphDriver{Driver: d, logger: logger}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// BuildIndices creates the lookup indices used by the export queries.
// Memgraph rejects an index that already exists, so failures are logged
// and skipped.
func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	for _, q := range IndexQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			d.logger.Warn().Err(err).Str("query", q).Msg("index not created")
		}
	}
	return nil
}
