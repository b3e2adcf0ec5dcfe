package style

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"lux/config"
	"lux/state"
)

// Values is a struct that holds variables we make available for output name
// template expansion
type Values struct {
	Context   string
	Theme     string
	Libraries []string
}

// buildOutputBase returns output path without extension. Empty result means
// standard output. An explicit destination is either a directory, which gets
// the default name, or a path whose extension is ignored.
func buildOutputBase(dst string, values Values, env *state.LocalEnv) (string, error) {
	if dst == "-" {
		return "", nil
	}
	if dst == "" {
		if env.Cfg.Style.OutputDir == "" {
			return "", nil
		}
		dst = env.Cfg.Style.OutputDir
		if err := os.MkdirAll(dst, 0755); err != nil {
			return "", fmt.Errorf("unable to create output directory: %w", err)
		}
	}
	dst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		return filepath.Join(dst, buildFileName(values, env)), nil
	}
	return strings.TrimSuffix(dst, filepath.Ext(dst)), nil
}

func buildFileName(values Values, env *state.LocalEnv) string {
	name := slug.Make(values.Theme)
	if tmpl := env.Cfg.Style.OutputTemplate; tmpl != "" {
		expanded, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, values)
		if err != nil {
			env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		} else if expanded = strings.TrimSpace(expanded); expanded != "" {
			name = expanded
		}
	}
	return config.CleanFileName(name)
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
