package state

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"lux/builtin"
	"lux/config"
	"lux/library"
	"lux/theme"
	"lux/vars"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// PrepareStyles builds library registry and theme catalog from configuration.
func (e *LocalEnv) PrepareStyles() error {
	var err error
	if e.Registry, err = BuildRegistry(e.Cfg, e.Log, e.Rpt); err != nil {
		return err
	}
	if e.Catalog, err = BuildCatalog(e.Cfg); err != nil {
		return err
	}
	return nil
}

// BuildRegistry registers stock libraries (when enabled) followed by
// libraries declared in configuration, in declaration order. Library
// stylesheets are copied into the debug report if one is being prepared.
func BuildRegistry(cfg *config.Config, log *zap.Logger, rpt *config.Report) (*library.Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}
	reg := library.NewRegistry()
	if cfg.Style.Builtin {
		if err := builtin.Register(reg); err != nil {
			return nil, fmt.Errorf("unable to register stock libraries: %w", err)
		}
	}
	for _, lc := range cfg.Libraries {
		sheet, err := library.LoadFile(lc.Path, log)
		if err != nil {
			return nil, fmt.Errorf("library %q: %w", lc.Name, err)
		}
		if err := rpt.StoreCopy("libraries/"+lc.Name+".css", lc.Path); err != nil {
			log.Warn("Unable to store library in report", zap.String("library", lc.Name), zap.Error(err))
		}
		defaults, err := vars.FromNested(lc.Variables)
		if err != nil {
			return nil, fmt.Errorf("library %q: %w", lc.Name, err)
		}
		opts := []library.Option{library.Requires(lc.Requires...)}
		for name, tv := range lc.Themes {
			m, err := vars.FromNested(tv)
			if err != nil {
				return nil, fmt.Errorf("library %q theme %q: %w", lc.Name, name, err)
			}
			opts = append(opts, library.ThemeDefaults(name, m))
		}
		if err := reg.Register(lc.Name, sheet, defaults, opts...); err != nil {
			return nil, err
		}
		log.Debug("Library registered", zap.String("name", lc.Name), zap.String("path", lc.Path), zap.Int("variables", len(defaults)))
	}
	return reg, nil
}

// BuildCatalog converts configured themes.
func BuildCatalog(cfg *config.Config) (theme.Catalog, error) {
	cat := make(theme.Catalog, len(cfg.Themes))
	for name, tc := range cfg.Themes {
		overrides, err := vars.FromNested(tc.Variables)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
		cat[name] = theme.Theme{Name: name, Libraries: tc.Libraries, Overrides: overrides}
	}
	return cat, nil
}
