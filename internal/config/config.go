package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"name-linker/internal/fileio"
	"name-linker/internal/linkage/model"
	"name-linker/internal/linkage/service"
)

type Config struct {
	SourcePath  string         `yaml:"source_path"`
	LookupPath  string         `yaml:"lookup_path"`
	OutputPath  string         `yaml:"output_path"`
	WriteBOM    bool           `yaml:"write_bom"`
	Interactive bool           `yaml:"-"`
	Linkage     model.Settings `yaml:"linkage"`

	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
	LogLevel     string   `yaml:"log_level"`
	MaxUploadMB  int      `yaml:"max_upload_mb"`
	LogFile      string   `yaml:"log_file"`
}

func Default() Config {
	return Config{
		SourcePath:   "source.csv",
		LookupPath:   "lookup.csv",
		OutputPath:   "output.csv",
		WriteBOM:     true,
		Linkage:      model.DefaultSettings(),
		Host:         "127.0.0.1",
		Port:         8082,
		AllowOrigins: []string{"*"},
		LogLevel:     "info",
		MaxUploadMB:  256,
		LogFile:      "logs/name-linker.log",
	}
}

// Load: defaults <- YAML file (-config or LINKER_CONFIG) <- environment <- flags.
func Load(args []string) (Config, error) {
	cfg := Default()

	path := configPath(args)
	if path == "" {
		path = os.Getenv("LINKER_CONFIG")
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("linker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, &service.ConfigurationError{Field: "flags", Err: err}
	}
	cfg.trim()
	return cfg, nil
}

// LoadFile merges a YAML file over cfg.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &service.ConfigurationError{Field: "config", Path: path, Err: err}
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return &service.ConfigurationError{Field: "config", Path: path, Err: err}
	}
	return nil
}

func bindFlags(fs *flag.FlagSet, c *Config) {
	fs.String("config", "", "YAML config file")
	fs.StringVar(&c.SourcePath, "source", c.SourcePath, "source file path")
	fs.StringVar(&c.LookupPath, "lookup", c.LookupPath, "lookup file path")
	fs.StringVar(&c.OutputPath, "output", c.OutputPath, "output file path")
	fs.BoolVar(&c.WriteBOM, "bom", c.WriteBOM, "start CSV output with a UTF-8 BOM")
	fs.BoolVar(&c.Interactive, "interactive", c.Interactive, "prompt for paths and columns")
	fs.StringVar(&c.Linkage.SourceNameColumn, "source-name", c.Linkage.SourceNameColumn, "source file's product name column header")
	fs.StringVar(&c.Linkage.LookupIdentifierColumn, "lookup-id", c.Linkage.LookupIdentifierColumn, "lookup file's identifier column header")
	fs.StringVar(&c.Linkage.LookupNameColumn, "lookup-name", c.Linkage.LookupNameColumn, "lookup file's product name column header")
	fs.BoolVar(&c.Linkage.Verbose, "verbose", c.Linkage.Verbose, "also write matched name and score")
	fs.StringVar(&c.Linkage.Scorer, "scorer", c.Linkage.Scorer, "ratio | token_sort | damerau")
	fs.BoolVar(&c.Linkage.Lowercase, "lowercase", c.Linkage.Lowercase, "compare names case-insensitively")
	fs.IntVar(&c.Linkage.MinScore, "min-score", c.Linkage.MinScore, "leave rows below this score unmatched")
	fs.IntVar(&c.Linkage.ProgressEvery, "progress", c.Linkage.ProgressEvery, "log progress every N rows")
	fs.StringVar(&c.Host, "host", c.Host, "listen host (serve)")
	fs.IntVar(&c.Port, "port", c.Port, "listen port (serve)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "log file, empty to disable")
}

// configPath finds -config/--config before the flag set is built.
func configPath(args []string) string {
	for i, a := range args {
		name, val, hasVal := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "config" {
			continue
		}
		if hasVal {
			return val
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func applyEnv(c *Config) error {
	c.SourcePath = getenv("LINKER_SOURCE", c.SourcePath)
	c.LookupPath = getenv("LINKER_LOOKUP", c.LookupPath)
	c.OutputPath = getenv("LINKER_OUTPUT", c.OutputPath)
	c.Linkage.SourceNameColumn = getenv("LINKER_SOURCE_NAME_COLUMN", c.Linkage.SourceNameColumn)
	c.Linkage.LookupIdentifierColumn = getenv("LINKER_LOOKUP_ID_COLUMN", c.Linkage.LookupIdentifierColumn)
	c.Linkage.LookupNameColumn = getenv("LINKER_LOOKUP_NAME_COLUMN", c.Linkage.LookupNameColumn)
	c.Linkage.Scorer = getenv("LINKER_SCORER", c.Linkage.Scorer)
	c.Host = getenv("HOST", c.Host)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getenv("LOG_FILE", c.LogFile)
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = strings.Split(v, ",")
	}

	var err error
	if c.WriteBOM, err = envBool("LINKER_BOM", c.WriteBOM); err != nil {
		return err
	}
	if c.Linkage.Verbose, err = envBool("LINKER_VERBOSE", c.Linkage.Verbose); err != nil {
		return err
	}
	if c.Linkage.Lowercase, err = envBool("LINKER_LOWERCASE", c.Linkage.Lowercase); err != nil {
		return err
	}
	if c.Linkage.MinScore, err = envInt("LINKER_MIN_SCORE", c.Linkage.MinScore); err != nil {
		return err
	}
	if c.Port, err = envInt("PORT", c.Port); err != nil {
		return err
	}
	if c.MaxUploadMB, err = envInt("MAX_UPLOAD_MB", c.MaxUploadMB); err != nil {
		return err
	}
	return nil
}

func (c *Config) trim() {
	c.SourcePath = strings.TrimSpace(c.SourcePath)
	c.LookupPath = strings.TrimSpace(c.LookupPath)
	c.OutputPath = strings.TrimSpace(c.OutputPath)
	c.Linkage.SourceNameColumn = strings.TrimSpace(c.Linkage.SourceNameColumn)
	c.Linkage.LookupIdentifierColumn = strings.TrimSpace(c.Linkage.LookupIdentifierColumn)
	c.Linkage.LookupNameColumn = strings.TrimSpace(c.Linkage.LookupNameColumn)
}

// Validate checks everything a batch run needs before any file is touched.
func (c Config) Validate() error {
	for _, in := range []struct{ field, path string }{
		{"source_path", c.SourcePath},
		{"lookup_path", c.LookupPath},
	} {
		st, err := os.Stat(in.path)
		if err != nil {
			return &service.ConfigurationError{Field: in.field, Path: in.path, Err: err}
		}
		if st.IsDir() {
			return &service.ConfigurationError{Field: in.field, Path: in.path, Err: errors.New("is a directory")}
		}
	}

	dir := filepath.Dir(c.OutputPath)
	if st, err := os.Stat(dir); err != nil {
		return &service.ConfigurationError{Field: "output_path", Path: c.OutputPath, Err: err}
	} else if !st.IsDir() {
		return &service.ConfigurationError{Field: "output_path", Path: c.OutputPath, Err: fmt.Errorf("%s is not a directory", dir)}
	}
	if !fileio.IsWritableFormat(c.OutputPath) {
		return &service.ConfigurationError{Field: "output_path", Path: c.OutputPath, Err: fileio.ErrUnsupported}
	}

	for _, col := range []struct{ field, name string }{
		{"source_name_column", c.Linkage.SourceNameColumn},
		{"lookup_identifier_column", c.Linkage.LookupIdentifierColumn},
		{"lookup_name_column", c.Linkage.LookupNameColumn},
	} {
		if col.name == "" {
			return &service.ConfigurationError{Field: col.field, Err: errors.New("must not be empty")}
		}
	}
	if _, err := service.NewScorer(c.Linkage.Scorer); err != nil {
		return &service.ConfigurationError{Field: "scorer", Err: err}
	}
	if c.Linkage.MinScore < 0 || c.Linkage.MinScore > 100 {
		return &service.ConfigurationError{Field: "min_score", Err: fmt.Errorf("%d is outside 0..100", c.Linkage.MinScore)}
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, &service.ConfigurationError{Field: k, Err: err}
	}
	return i, nil
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, &service.ConfigurationError{Field: k, Err: err}
	}
	return b, nil
}
