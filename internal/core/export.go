package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/driver"
)

// DefaultBatchSize bounds the pairs sent in one export query.
const DefaultBatchSize = 500

// Run identifies the pipeline run an exported set belongs to.
type Run struct {
	ID       string
	Pipeline string
	Species  string
}

// GraphExporter writes interaction sets into a graph database as Protein
// nodes joined by INTERACTS_WITH edges tagged with the run and a label.
type GraphExporter struct {
	Driver    driver.GraphDriver
	BatchSize int
	logger    zerolog.Logger
	now       func() time.Time
}

func NewGraphExporter(d driver.GraphDriver, batchSize int, logger zerolog.Logger) *GraphExporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &GraphExporter{Driver: d, BatchSize: batchSize, logger: logger, now: time.Now}
}

func (e *GraphExporter) BuildIndices(ctx context.Context) error {
	return e.Driver.BuildIndices(ctx)
}

// Export merges every PPI of set and returns how many were sent. Proteins
// are merged before the edges that reference them, batch by batch.
func (e *GraphExporter) Export(ctx context.Context, run Run, label string, set *model.InteractionSet) (int, error) {
	ppis := set.Sorted()
	if len(ppis) == 0 {
		return 0, nil
	}
	now := e.now().UTC()

	_, err := e.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, map[string]any{
		"run_id":     run.ID,
		"pipeline":   run.Pipeline,
		"species":    run.Species,
		"created_at": now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	namespace := string(ppis[0].A().Type)
	sent := 0
	for start := 0; start < len(ppis); start += e.BatchSize {
		end := min(start+e.BatchSize, len(ppis))
		batch := ppis[start:end]

		if _, err := e.Driver.ExecuteQuery(ctx, driver.MergeProteinsQuery, map[string]any{
			"proteins": proteinParams(batch),
		}); err != nil {
			return sent, fmt.Errorf("failed to merge proteins: %w", err)
		}

		pairs := make([]map[string]any, len(batch))
		for i, p := range batch {
			pairs[i] = map[string]any{"a": p.A().Value, "b": p.B().Value}
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.MergeInteractionsQuery, map[string]any{
			"pairs":      pairs,
			"namespace":  namespace,
			"run_id":     run.ID,
			"label":      label,
			"created_at": now,
		}); err != nil {
			return sent, fmt.Errorf("failed to merge interactions: %w", err)
		}
		sent += len(batch)
	}

	e.logger.Info().Str("run_id", run.ID).Str("label", label).Int("interactions", sent).Msg("exported to graph")
	return sent, nil
}

func proteinParams(batch []model.PPI) []map[string]any {
	seen := make(map[model.Protein]struct{}, 2*len(batch))
	out := make([]map[string]any, 0, 2*len(batch))
	for _, p := range batch {
		for _, protein := range []model.Protein{p.A(), p.B()} {
			if _, ok := seen[protein]; ok {
				continue
			}
			seen[protein] = struct{}{}
			out = append(out, map[string]any{"value": protein.Value, "namespace": string(protein.Type)})
		}
	}
	return out
}
