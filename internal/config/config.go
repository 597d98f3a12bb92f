package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/logging"
)

// TaxonPlaceholder is replaced with a StringDB taxon in file patterns.
const TaxonPlaceholder = "{taxon}"

type DataConfig struct {
	Dir       string `toml:"dir"`
	OutputDir string `toml:"output_dir"`
}

type StringDBConfig struct {
	HumanTaxon     string `toml:"human_taxon"`
	ActionsPattern string `toml:"actions_pattern"`
	LinksPattern   string `toml:"links_pattern"`
	UniProtMapping string `toml:"uniprot_mapping"`
	EntrezMapping  string `toml:"entrez_mapping"`
	ScoreColumn    string `toml:"score_column"`
	ScoreThreshold int    `toml:"score_threshold"`
}

// ActionsFile is the actions file name for taxon.
func (s StringDBConfig) ActionsFile(taxon string) string {
	return strings.ReplaceAll(s.ActionsPattern, TaxonPlaceholder, taxon)
}

// LinksFile is the links file name for taxon.
func (s StringDBConfig) LinksFile(taxon string) string {
	return strings.ReplaceAll(s.LinksPattern, TaxonPlaceholder, taxon)
}

type OrthologConfig struct {
	File               string `toml:"file"`
	Human              string `toml:"human"`
	AllowBidirectional bool   `toml:"allow_bidirectional"`
	HumanFirst         bool   `toml:"human_first"`
}

type BioGridConfig struct {
	File  string `toml:"file"`
	Taxon string `toml:"taxon"`
}

// SpeciesConfig names a non-human species known to the ortholog file.
type SpeciesConfig struct {
	Name           string `toml:"name"`
	Taxon          string `toml:"taxon"`
	UniProtMapping string `toml:"uniprot_mapping"`
}

// ResolveConfig names the resolution strategy each pipeline uses:
// pick-one or cross-product.
type ResolveConfig struct {
	Human   string `toml:"human"`
	Overlap string `toml:"overlap"`
}

type OutputConfig struct {
	Annotate bool   `toml:"annotate"`
	Report   string `toml:"report"`
}

type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type MemgraphConfig struct {
	Enabled   bool   `toml:"enabled"`
	URI       string `toml:"uri"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	BatchSize int    `toml:"batch_size"`
}

type ServerConfig struct {
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	TimeFormat string `toml:"time_format"`
	NoColor    bool   `toml:"no_color"`
	AddCaller  bool   `toml:"add_caller"`
}

// Logging converts the section into a logging.Config.
func (l LogConfig) Logging() logging.Config {
	return logging.Config{
		Level:      l.Level,
		Format:     l.Format,
		Output:     l.Output,
		TimeFormat: l.TimeFormat,
		NoColor:    l.NoColor,
		AddCaller:  l.AddCaller,
	}
}

// Config is built once at start-up and passed to every component; nothing
// mutates it afterwards.
type Config struct {
	Data     DataConfig      `toml:"data"`
	StringDB StringDBConfig  `toml:"stringdb"`
	Ortholog OrthologConfig  `toml:"ortholog"`
	BioGrid  BioGridConfig   `toml:"biogrid"`
	Species  []SpeciesConfig `toml:"species"`
	Resolve  ResolveConfig   `toml:"resolve"`
	Output   OutputConfig    `toml:"output"`
	Store    StoreConfig     `toml:"store"`
	Memgraph MemgraphConfig  `toml:"memgraph"`
	Server   ServerConfig    `toml:"server"`
	Log      LogConfig       `toml:"log"`
}

// Default returns the configuration used for any key a file leaves out.
// File names follow the StringDB v11 and BioGrid 3.5 releases.
func Default() *Config {
	return &Config{
		Data: DataConfig{Dir: "data", OutputDir: "output"},
		StringDB: StringDBConfig{
			HumanTaxon:     "9606",
			ActionsPattern: "{taxon}.protein.actions.v11.0.txt",
			LinksPattern:   "{taxon}.protein.links.full.v11.0.txt",
			UniProtMapping: "all_organisms.uniprot_2_string.2018.tsv",
			EntrezMapping:  "all_organisms.entrez_2_string.2018.tsv",
			ScoreColumn:    "experiments",
			ScoreThreshold: 0,
		},
		Ortholog: OrthologConfig{
			File:               "Orthologs_HCOP",
			Human:              "HUMAN",
			AllowBidirectional: true,
		},
		BioGrid: BioGridConfig{
			File:  "BIOGRID-ORGANISM/BIOGRID-ORGANISM-Homo_sapiens-3.5.181.tab2.txt",
			Taxon: "9606",
		},
		Species: []SpeciesConfig{
			{Name: "YEAST", Taxon: "4932", UniProtMapping: "yeast.uniprot_2_string.2018.tsv"},
		},
		Resolve:  ResolveConfig{Human: "pick-one", Overlap: "cross-product"},
		Output:   OutputConfig{Annotate: true, Report: "report.yaml"},
		Store:    StoreConfig{Enabled: true, Path: "provenance.db"},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687", BatchSize: 500},
		Server:   ServerConfig{Port: 8080, GinMode: "release"},
		Log:      LogConfig{Level: "info", Format: "auto", Output: "stderr", TimeFormat: "rfc3339"},
	}
}

// Load reads the TOML file at path over Default and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		species := cfg.Species
		cfg.Species = nil
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if len(cfg.Species) == 0 {
			cfg.Species = species
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file settings from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"PPIMAP_DATA_DIR":   &c.Data.Dir,
		"PPIMAP_OUTPUT_DIR": &c.Data.OutputDir,
		"PPIMAP_STORE_PATH": &c.Store.Path,
		"MEMGRAPH_URI":      &c.Memgraph.URI,
		"MEMGRAPH_USER":     &c.Memgraph.User,
		"MEMGRAPH_PASSWORD": &c.Memgraph.Password,
		"LOG_LEVEL":         &c.Log.Level,
		"LOG_FORMAT":        &c.Log.Format,
		"GIN_MODE":          &c.Server.GinMode,
	}
	for key, field := range str {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return ppierrors.NewConfigError("server", "PORT must be a number", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("MEMGRAPH_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return ppierrors.NewConfigError("memgraph", "MEMGRAPH_ENABLED must be a boolean", err)
		}
		c.Memgraph.Enabled = enabled
	}
	return nil
}

// Validate reports the first setting that would make a run impossible.
func (c *Config) Validate() error {
	switch {
	case c.Data.Dir == "":
		return ppierrors.NewConfigError("data", "dir is required", nil)
	case c.Data.OutputDir == "":
		return ppierrors.NewConfigError("data", "output_dir is required", nil)
	case c.StringDB.ScoreColumn == "":
		return ppierrors.NewConfigError("stringdb", "score_column is required", nil)
	case c.Ortholog.Human == "":
		return ppierrors.NewConfigError("ortholog", "human is required", nil)
	case c.Resolve.Human == "" || c.Resolve.Overlap == "":
		return ppierrors.NewConfigError("resolve", "human and overlap strategies are required", nil)
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return ppierrors.NewConfigError("server", fmt.Sprintf("port %d out of range", c.Server.Port), nil)
	case c.Memgraph.Enabled && c.Memgraph.URI == "":
		return ppierrors.NewConfigError("memgraph", "uri is required when enabled", nil)
	}
	for _, s := range c.Species {
		if s.Name == "" || s.Taxon == "" {
			return ppierrors.NewConfigError("species", "every species needs a name and a taxon", nil)
		}
	}
	return nil
}

// DataPath resolves name against the data directory unless it is absolute.
func (c *Config) DataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// OutputPath joins parts under the output directory.
func (c *Config) OutputPath(parts ...string) string {
	return filepath.Join(append([]string{c.Data.OutputDir}, parts...)...)
}

// LookupSpecies finds a configured species by ortholog code, ignoring case.
func (c *Config) LookupSpecies(name string) (SpeciesConfig, bool) {
	for _, s := range c.Species {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SpeciesConfig{}, false
}
