package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ppimap/internal/config"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/output"
	"github.com/agenthands/ppimap/internal/store"
)

func lines(rows ...string) string {
	return strings.Join(rows, "\n") + "\n"
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readOutput(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Data.Dir = filepath.Join(root, "data")
	cfg.Data.OutputDir = filepath.Join(root, "output")
	return cfg, cfg.Data.Dir
}

func yeastFixtures(t *testing.T, dir string) {
	writeFixture(t, dir, "4932.protein.actions.v11.0.txt", lines(
		"item_id_a\titem_id_b\tmode\taction\tis_directional\ta_is_acting\tscore",
		"4932.A\t4932.B\tbinding\t\tf\tf\t900",
		"4932.B\t4932.A\tbinding\t\tf\tf\t900",
		"4932.A\t4932.C\tbinding\t\tf\tf\t400",
		"4932.C\t4932.D\tbinding\t\tf\tf\t400",
		"4932.A\t4932.D\tactivation\tactivation\tt\tt\t300",
		"4932.E\t4932.F\tbinding\t\tf\tf\t200",
	))
	writeFixture(t, dir, "4932.protein.links.full.v11.0.txt", lines(
		"protein1 protein2 neighborhood experiments combined_score",
		"4932.A 4932.B 0 100 900",
		"4932.A 4932.C 0 0 400",
		"4932.C 4932.D 0 50 400",
		"4932.A 4932.D 0 200 300",
		"4932.E 4932.F 0 10 200",
	))
	writeFixture(t, dir, "yeast.uniprot_2_string.2018.tsv", lines(
		"# species\tuniprot_ac|uniprot_id\tstring_id\tidentity\tbit_score",
		"4932\tYA1|A_YEAST\t4932.A\t100.0\t500",
		"4932\tYB1|B_YEAST\t4932.B\t100.0\t500",
		"4932\tYC1|C_YEAST\t4932.C\t100.0\t500",
		"4932\tYD1|D_YEAST\t4932.D\t100.0\t500",
	))
	writeFixture(t, dir, "Orthologs_HCOP", lines(
		"YEAST|SGD=S1|UniProtKB=YA1\tHUMAN|HGNC=1|UniProtKB=PA1\tLDO\tPTHR1\tFAM1",
		"HUMAN|HGNC=2|UniProtKB=PB1\tYEAST|SGD=S2|UniProtKB=YB1\tLDO\tPTHR2\tFAM2",
		"YEAST|SGD=S3|UniProtKB=YC1\tHUMAN|HGNC=3|UniProtKB=PC1\tO\tPTHR3\tFAM3",
		"MOUSE|MGI=M1|UniProtKB=MD1\tHUMAN|HGNC=4|UniProtKB=PD1\tLDO\tPTHR4\tFAM4",
	))
}

func humanFixtures(t *testing.T, dir string) {
	writeFixture(t, dir, "9606.protein.actions.v11.0.txt", lines(
		"item_id_a\titem_id_b\tmode\taction\tis_directional\ta_is_acting\tscore",
		"9606.P1\t9606.P2\tbinding\t\tf\tf\t900",
		"9606.P3\t9606.P4\tbinding\t\tf\tf\t900",
		"9606.P5\t9606.P6\tbinding\t\tf\tf\t900",
	))
	writeFixture(t, dir, "9606.protein.links.full.v11.0.txt", lines(
		"protein1 protein2 experiments",
		"9606.P1 9606.P2 5",
		"9606.P3 9606.P4 5",
		"9606.P5 9606.P6 0",
	))
	writeFixture(t, dir, "BIOGRID-ORGANISM/BIOGRID-ORGANISM-Homo_sapiens-3.5.181.tab2.txt", lines(
		"#BioGRID Interaction ID\tEntrez Gene Interactor A\tEntrez Gene Interactor B\tOrganism Interactor A\tOrganism Interactor B",
		"1\t101\t102\t9606\t9606",
		"2\t105\t107\t9606\t9606",
		"3\t101\t101\t9606\t9606",
		"4\t999\t102\t9606\t9606",
		"5\t101\t102\t10090\t10090",
	))
	writeFixture(t, dir, "all_organisms.entrez_2_string.2018.tsv", lines(
		"# NCBI taxid\tentrez\tSTRING",
		"9606\t101\t9606.P1",
		"9606\t102|103\t9606.P2",
		"9606\t105\t9606.P5",
		"9606\t107\t9606.P7",
		"9606\t107\t9606.P8",
		"10090\t22059\t10090.P9",
	))
	writeFixture(t, dir, "all_organisms.uniprot_2_string.2018.tsv", lines(
		"# species\tuniprot_ac|uniprot_id\tstring_id",
		"9606\tQ1|X_HUMAN\t9606.P1",
		"9606\tQ2|X_HUMAN\t9606.P2",
		"9606\tQ2b|X_HUMAN\t9606.P2",
		"9606\tQ3|X_HUMAN\t9606.P3",
		"9606\tQ5|X_HUMAN\t9606.P5",
		"9606\tQ7|X_HUMAN\t9606.P7",
		"9606\tQ8|X_HUMAN\t9606.P8",
		"4932\tY1|X_YEAST\t4932.Z",
	))
}

func TestMapToHuman(t *testing.T) {
	cfg, dir := testConfig(t)
	yeastFixtures(t, dir)
	st := store.NewMemoryStore()
	mock := &MockDriver{}

	p := NewPipeline(cfg, st, NewGraphExporter(mock, 0, zerolog.Nop()), zerolog.Nop())
	p.newID = func() string { return "run-yeast" }

	report, err := p.MapToHuman(context.Background(), "yeast")
	require.NoError(t, err)

	results := cfg.OutputPath("YEAST_results")
	assert.Equal(t, []string{
		"YA1\tYB1\t(YA1 was mapped from: 4932.A; YB1 was mapped from: 4932.B)",
		"YC1\tYD1\t(YC1 was mapped from: 4932.C; YD1 was mapped from: 4932.D)",
	}, readOutput(t, filepath.Join(results, "YEAST_MAPPED_PPIS.tsv")))
	assert.Equal(t, []string{
		"PA1\tPB1\t(PA1 was mapped from: YA1; PB1 was mapped from: YB1)",
	}, readOutput(t, filepath.Join(results, "YEAST_HUMAN_PPIS.tsv")))
	assert.Equal(t, []string{"4932.E", "4932.F"}, readOutput(t, filepath.Join(results, UniProtFailuresFile)))
	assert.Equal(t, []string{"YD1"}, readOutput(t, filepath.Join(results, OrthologFailuresFile)))
	assert.Len(t, readOutput(t, filepath.Join(results, "4932_binding_PPIs.tsv")), 4)
	assert.Len(t, readOutput(t, filepath.Join(results, "4932_PPIs_with_experiments.tsv")), 4)

	assert.Equal(t, "run-yeast", report.RunID)
	assert.Equal(t, "YEAST", report.Species)
	assert.Equal(t, 4, report.Counts["binding"])
	assert.Equal(t, 4, report.Counts["evidence"])
	assert.Equal(t, 3, report.Counts["binding_with_evidence"])
	assert.Equal(t, 2, report.Counts["mapped"])
	assert.Equal(t, 2, report.Counts["mapping_failures"])
	assert.Equal(t, 1, report.Counts["human"])
	assert.Equal(t, 1, report.Counts["ortholog_failures"])
	assert.Equal(t, 1, report.Counts["exported_mapped_to_human"])
	assert.Empty(t, report.Degraded())

	saved, err := output.ReadReport(ReportPath(cfg, HumanPipeline, "YEAST"))
	require.NoError(t, err)
	assert.Equal(t, report.Counts, saved.Counts)

	orthologs, err := st.GetByName(context.Background(), "Orthologs_HCOP")
	require.NoError(t, err)
	require.Len(t, orthologs, 1)
	assert.Equal(t, "YEAST", orthologs[0].BiologicalEntity)

	assert.Len(t, mock.queries("INTERACTS_WITH"), 1)
}

func TestMapToHuman_MissingFileDegrades(t *testing.T) {
	cfg, dir := testConfig(t)
	yeastFixtures(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "Orthologs_HCOP")))

	report, err := NewPipeline(cfg, nil, nil, zerolog.Nop()).MapToHuman(context.Background(), "YEAST")
	require.NoError(t, err)

	assert.Equal(t, []string{"orthologs"}, report.Degraded())
	assert.Equal(t, 2, report.Counts["mapped"])
	assert.Equal(t, 0, report.Counts["human"])
	assert.Equal(t, 4, report.Counts["ortholog_failures"])
	assert.Empty(t, readOutput(t, cfg.OutputPath("YEAST_results", "YEAST_HUMAN_PPIS.tsv")))
}

func TestMapToHuman_MalformedScoreAborts(t *testing.T) {
	cfg, dir := testConfig(t)
	yeastFixtures(t, dir)
	writeFixture(t, dir, "4932.protein.links.full.v11.0.txt", lines(
		"protein1 protein2 experiments",
		"4932.A 4932.B 0",
		"4932.A 4932.C 1",
		"4932.A 4932.D -1",
		"4932.A 4932.E x",
	))

	report, err := NewPipeline(cfg, nil, nil, zerolog.Nop()).MapToHuman(context.Background(), "YEAST")
	assert.Nil(t, report)
	assert.True(t, ppierrors.IsParse(err))
	assert.NoFileExists(t, cfg.OutputPath("YEAST_results", "YEAST_MAPPED_PPIS.tsv"))
}

func TestMapToHuman_UnknownSpecies(t *testing.T) {
	cfg, _ := testConfig(t)
	_, err := NewPipeline(cfg, nil, nil, zerolog.Nop()).MapToHuman(context.Background(), "FLY")
	assert.True(t, ppierrors.IsValidationError(err))
}

func TestMapToHuman_Cancelled(t *testing.T) {
	cfg, dir := testConfig(t)
	yeastFixtures(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(cfg, nil, nil, zerolog.Nop()).MapToHuman(ctx, "YEAST")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStringDBBioGridOverlap(t *testing.T) {
	cfg, dir := testConfig(t)
	humanFixtures(t, dir)
	st := store.NewMemoryStore()
	mock := &MockDriver{}

	p := NewPipeline(cfg, st, NewGraphExporter(mock, 0, zerolog.Nop()), zerolog.Nop())
	report, err := p.StringDBBioGridOverlap(context.Background())
	require.NoError(t, err)

	overlaps := cfg.OutputPath("overlaps")
	assert.Equal(t, []string{"Q1\tQ2", "Q1\tQ2b"}, readOutput(t, filepath.Join(overlaps, OverlapFile)))
	assert.Empty(t, readOutput(t, filepath.Join(overlaps, StringDBOnlyFile)))
	assert.Equal(t, []string{"Q5\tQ7", "Q5\tQ8"}, readOutput(t, filepath.Join(overlaps, BioGridOnlyFile)))
	assert.Equal(t, []string{"999"}, readOutput(t, filepath.Join(overlaps, BioGridFailuresFile)))
	assert.Equal(t, []string{"9606.P4"}, readOutput(t, filepath.Join(overlaps, UniProtFailuresFile)))

	assert.Equal(t, 2, report.Counts["stringdb"])
	assert.Equal(t, 3, report.Counts["biogrid"])
	assert.Equal(t, 3, report.Counts["biogrid_in_stringdb"])
	assert.Equal(t, 1, report.Counts["biogrid_mapping_failures"])
	assert.Equal(t, 1, report.Counts["overlap"])
	assert.Equal(t, 1, report.Counts["stringdb_only"])
	assert.Equal(t, 2, report.Counts["biogrid_only"])
	assert.Equal(t, 2, report.Counts["overlap_uniprot"])
	assert.Equal(t, 0, report.Counts["stringdb_only_uniprot"])
	assert.Equal(t, 1, report.Counts["uniprot_mapping_failures"])
	assert.Equal(t, 2, report.Counts["exported_biogrid_only"])
	assert.Empty(t, report.Degraded())

	biogrid, err := st.GetByName(context.Background(), "BIOGRID-ORGANISM-Homo_sapiens-3.5.181.tab2.txt")
	require.NoError(t, err)
	assert.Len(t, biogrid, 1)

	labels := map[any]bool{}
	for _, q := range mock.queries("INTERACTS_WITH") {
		labels[q.Params["label"]] = true
	}
	assert.Equal(t, map[any]bool{"overlap": true, "stringdb_only": true, "biogrid_only": true}, labels)
}

func TestStringDBBioGridOverlap_MissingBioGrid(t *testing.T) {
	cfg, dir := testConfig(t)
	humanFixtures(t, dir)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "BIOGRID-ORGANISM")))

	report, err := NewPipeline(cfg, nil, nil, zerolog.Nop()).StringDBBioGridOverlap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"biogrid"}, report.Degraded())
	assert.Equal(t, 0, report.Counts["overlap"])
	assert.Equal(t, 2, report.Counts["stringdb_only"])
}

func TestStringDBBioGridOverlap_ExportFailureIsRecorded(t *testing.T) {
	cfg, dir := testConfig(t)
	humanFixtures(t, dir)
	mock := &MockDriver{FailOn: "INTERACTS_WITH", Err: assert.AnError}

	report, err := NewPipeline(cfg, nil, NewGraphExporter(mock, 0, zerolog.Nop()), zerolog.Nop()).
		StringDBBioGridOverlap(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"export:overlap", "export:stringdb_only", "export:biogrid_only"}, report.Degraded())
}

func TestStringDBBioGridOverlap_PickOneStrategy(t *testing.T) {
	cfg, dir := testConfig(t)
	humanFixtures(t, dir)
	cfg.Resolve.Overlap = "pick-one"

	report, err := NewPipeline(cfg, nil, nil, zerolog.Nop()).StringDBBioGridOverlap(context.Background())
	require.NoError(t, err)

	// 107 maps to P7 and P8, and P2 maps to Q2 and Q2b; only the smallest is kept
	overlaps := cfg.OutputPath("overlaps")
	assert.Equal(t, []string{"Q1\tQ2"}, readOutput(t, filepath.Join(overlaps, OverlapFile)))
	assert.Equal(t, []string{"Q5\tQ7"}, readOutput(t, filepath.Join(overlaps, BioGridOnlyFile)))
	assert.Equal(t, 2, report.Counts["biogrid_in_stringdb"])
	assert.Equal(t, 1, report.Counts["biogrid_only"])
}

func TestPipelines_UnknownStrategy(t *testing.T) {
	cfg, dir := testConfig(t)
	yeastFixtures(t, dir)
	humanFixtures(t, dir)
	cfg.Resolve.Human = "first-match"
	cfg.Resolve.Overlap = "all"
	p := NewPipeline(cfg, nil, nil, zerolog.Nop())

	_, err := p.MapToHuman(context.Background(), "YEAST")
	assert.True(t, ppierrors.IsValidationError(err))
	_, err = p.StringDBBioGridOverlap(context.Background())
	assert.True(t, ppierrors.IsValidationError(err))
	assert.NoDirExists(t, cfg.OutputPath("overlaps"))
}

func TestReportPath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, filepath.Join("output", "overlaps", "report.yaml"), ReportPath(cfg, OverlapPipeline, ""))
	assert.Equal(t, filepath.Join("output", "YEAST_results", "report.yaml"), ReportPath(cfg, HumanPipeline, "YEAST"))
}
