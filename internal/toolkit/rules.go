package toolkit

import (
	"context"

	"github.com/fyrsmithlabs/cectoolkit/internal/config"
	"github.com/fyrsmithlabs/cectoolkit/internal/patterns"
)

// BaseDefinition returns the built-in rules with the configured placeholder.
func BaseDefinition(cfg config.ToolkitConfig) patterns.Definition {
	def := patterns.DefaultDefinition()
	if cfg.Placeholder != "" {
		def.Placeholder = cfg.Placeholder
	}
	return def
}

// Definition is BaseDefinition with cfg.RulesFile merged on top, so the rule
// file wins over the configured placeholder.
func Definition(cfg config.ToolkitConfig) (patterns.Definition, error) {
	def := BaseDefinition(cfg)
	if cfg.RulesFile == "" {
		return def, nil
	}
	return patterns.LoadFile(cfg.RulesFile, def)
}

// WatchRules reloads path over base whenever it changes. Invalid files are
// logged and the current table is kept. Stop the returned watcher when done.
func (s *Service) WatchRules(ctx context.Context, path string, base patterns.Definition) (*patterns.Watcher, error) {
	w, err := patterns.NewWatcher(path, base, s.SetTable, s.logger.Underlying())
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
