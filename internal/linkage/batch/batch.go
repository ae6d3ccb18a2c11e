package batch

import (
	"fmt"

	"github.com/rs/zerolog"

	"name-linker/internal/config"
	"name-linker/internal/fileio"
	"name-linker/internal/linkage/model"
	"name-linker/internal/linkage/service"
)

// Run links cfg.SourcePath against cfg.LookupPath into cfg.OutputPath.
// Configuration and column errors abort before the output file appears.
func Run(cfg config.Config, logger zerolog.Logger) (model.Stats, error) {
	if err := cfg.Validate(); err != nil {
		return model.Stats{}, err
	}
	p, err := service.NewPipeline(cfg.Linkage, logger)
	if err != nil {
		return model.Stats{}, err
	}

	lookup, err := fileio.Open(cfg.LookupPath)
	if err != nil {
		return model.Stats{}, &service.ConfigurationError{Field: "lookup_path", Path: cfg.LookupPath, Err: err}
	}
	defer lookup.Close()

	source, err := fileio.Open(cfg.SourcePath)
	if err != nil {
		return model.Stats{}, &service.ConfigurationError{Field: "source_path", Path: cfg.SourcePath, Err: err}
	}
	defer source.Close()

	out, err := fileio.Create(cfg.OutputPath, cfg.WriteBOM)
	if err != nil {
		return model.Stats{}, &service.ConfigurationError{Field: "output_path", Path: cfg.OutputPath, Err: err}
	}
	defer out.Abort() // no-op once committed

	logger.Info().
		Str("source", cfg.SourcePath).
		Str("lookup", cfg.LookupPath).
		Str("output", cfg.OutputPath).
		Str("scorer", cfg.Linkage.Scorer).
		Msg("linkage starting")

	st, err := p.Run(lookup, source, out)
	if err != nil {
		return st, err
	}
	if err := out.Commit(); err != nil {
		return st, fmt.Errorf("write %s: %w", cfg.OutputPath, err)
	}
	return st, nil
}
