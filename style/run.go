// Package style implements the stylesheet producing commands.
package style

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"lux/minify"
	"lux/state"
	"lux/theme"
	"lux/vars"
)

// Run compiles a theme and writes the stylesheet (or resolved variables) to
// the destination.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("style")

	if err := env.PrepareStyles(); err != nil {
		return fmt.Errorf("unable to prepare libraries: %w", err)
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	env.Overwrite = cmd.Bool("overwrite")

	name := cmd.String("theme")
	if name == "" {
		name = env.Cfg.Style.Theme
	}
	th := env.Catalog.Get(name)
	if _, known := env.Catalog[name]; !known {
		log.Debug("Theme is not configured, using all libraries", zap.String("theme", name))
	}

	overrides, err := loadOverrides(cmd.String("file"), cmd.StringSlice("set"))
	if err != nil {
		return err
	}
	th = th.WithOverrides(overrides)

	var mini minify.Minifier
	if cmd.Bool("minify") {
		if mini, err = minify.New(minifyOptions(env), env.Log); err != nil {
			return err
		}
	}

	log.Info("Processing starting", zap.String("theme", th.Name), zap.Bool("variables", cmd.Bool("variables")))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, th, cmd.Args().Get(0), cmd.Bool("variables"), mini, env, log)
}

// process handles the core logic independently of CLI framework.
func process(ctx context.Context, th theme.Theme, dst string, dumpVariables bool, mini minify.Minifier, env *state.LocalEnv, log *zap.Logger) error {
	compiler := env.Compiler()

	if env.Rpt != nil {
		if a, err := compiler.Assemble(ctx, th); err == nil {
			env.Rpt.StoreData("theme/tree.txt", []byte(a.Sheet.Dump()))
		} else {
			log.Debug("Composed tree is not stored in report", zap.String("theme", th.Name), zap.Error(err))
		}
	}

	if dumpVariables {
		data, err := compiler.Dump(ctx, th, true)
		if err != nil {
			return err
		}
		env.Rpt.StoreData("theme/variables.json", data)
		base, err := buildOutputBase(dst, Values{Theme: th.Name, Libraries: th.Libraries}, env)
		if err != nil {
			return err
		}
		return writeOutput(base, ".json", data, env, log)
	}

	res, err := compiler.Compile(ctx, th)
	if err != nil {
		return err
	}
	if env.Rpt != nil {
		if data, err := json.MarshalIndent(res.Variables.Dump(), "", "  "); err == nil {
			env.Rpt.StoreData("theme/variables.json", data)
		}
		env.Rpt.StoreData("theme/"+th.Name+".css", []byte(res.CSS))
	}

	base, err := buildOutputBase(dst, Values{Theme: th.Name, Libraries: res.Libraries}, env)
	if err != nil {
		return err
	}

	if err := writeOutput(base, ".css", []byte(res.CSS), env, log); err != nil {
		return err
	}
	if mini == nil {
		return nil
	}
	if base == "" {
		log.Info("Minification skipped, it applies to file destinations only")
		return nil
	}

	small, err := mini.Minify(ctx, res.CSS)
	if err != nil {
		// transport failures are reported as is
		return err
	}
	log.Info("Stylesheet minified",
		zap.String("original", humanize.Bytes(uint64(len(res.CSS)))),
		zap.String("minified", humanize.Bytes(uint64(len(small)))))
	return writeOutput(base, ".min.css", []byte(small), env, log)
}

// writeOutput writes data to base+ext, or to stdout when base is empty.
func writeOutput(base, ext string, data []byte, env *state.LocalEnv, log *zap.Logger) (err error) {
	if base == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	fname := base + ext
	if _, err := os.Stat(fname); err == nil && !env.Overwrite {
		return fmt.Errorf("output file already exists: %s", fname)
	}
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if _, err = io.Copy(f, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	log.Info("Output written", zap.String("file", fname), zap.String("size", humanize.Bytes(uint64(len(data)))))
	return nil
}

// loadOverrides reads variable overrides from a YAML file (nested mappings
// allowed) and then applies "name=value" assignments on top.
func loadOverrides(file string, assignments []string) (vars.Map, error) {
	overrides := vars.Map{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("unable to read variables file: %w", err)
		}
		var nested map[string]any
		if err := yaml.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("unable to decode variables file: %w", err)
		}
		if overrides, err = vars.FromNested(nested); err != nil {
			return nil, fmt.Errorf("variables file %s: %w", file, err)
		}
	}

	var errs error
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "$"))
		if !ok || name == "" {
			errs = multierr.Append(errs, fmt.Errorf("malformed variable assignment %q, expected name=value", a))
			continue
		}
		overrides[name] = vars.Parse(value)
	}
	if errs != nil {
		return nil, errs
	}
	return overrides, nil
}

// minifyOptions is used when minification was requested. Configured mode
// "none" only means no preference, the remote service is used then.
func minifyOptions(env *state.LocalEnv) minify.Options {
	mc := env.Cfg.Style.Minify
	mode := mc.Mode
	if mode == minify.ModeNone || mode == "" {
		mode = minify.ModeRemote
	}
	return minify.Options{
		Mode:    mode,
		URL:     mc.URL,
		Timeout: mc.Timeout,
		Token:   string(mc.Token),
	}
}
