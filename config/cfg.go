package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	MinifyConfig struct {
		Mode    string        `yaml:"mode" validate:"oneof=none local remote"`
		URL     string        `yaml:"url" validate:"required_if=Mode remote,omitempty,url"`
		Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
		Token   SecretString  `yaml:"token,omitempty"`
	}

	StyleConfig struct {
		Theme          string       `yaml:"theme" validate:"required"`
		OutputDir      string       `yaml:"output_dir" sanitize:"path_clean"`
		OutputTemplate string       `yaml:"output_name_template"`
		Builtin        bool         `yaml:"builtin_libraries"`
		Minify         MinifyConfig `yaml:"minify"`
	}

	ThemeConfig struct {
		Libraries []string       `yaml:"libraries,omitempty" validate:"dive,required"`
		Variables map[string]any `yaml:"variables,omitempty"`
	}

	LibraryConfig struct {
		Name      string                    `yaml:"name" validate:"required"`
		Path      string                    `yaml:"path" sanitize:"assure_file_access" validate:"required"`
		Requires  []string                  `yaml:"requires,omitempty" validate:"dive,required"`
		Variables map[string]any            `yaml:"variables,omitempty"`
		Themes    map[string]map[string]any `yaml:"themes,omitempty"`
	}

	Config struct {
		Version   int                    `yaml:"version" validate:"eq=1"`
		Style     StyleConfig            `yaml:"style"`
		Themes    map[string]ThemeConfig `yaml:"themes,omitempty" validate:"dive"`
		Libraries []LibraryConfig        `yaml:"libraries,omitempty" validate:"dive"`
		Logging   LoggingConfig          `yaml:"logging"`
		Reporting ReporterConfig         `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
