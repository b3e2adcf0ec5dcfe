package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"lux/config"
	"lux/library"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}

	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		env := EnvFromContext(ctx)

		if env == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		// Use plain context without env
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 1*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		// Test multiple redirect/restore cycles
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}

		// Should not panic
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestPrepareStyles_Defaults(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env := &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}

	if err := env.PrepareStyles(); err != nil {
		t.Fatalf("PrepareStyles() error = %v", err)
	}
	if got := len(env.Registry.All()); got != 3 {
		t.Errorf("expected 3 stock libraries, got %d", got)
	}
	dark := env.Catalog.Get("dark")
	if dark.Overrides["colors.accent"].String() != "#4aa3ff" {
		t.Errorf("unexpected dark overrides %v", dark.Overrides)
	}

	res, err := env.Compiler().Compile(context.Background(), dark)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(res.CSS) == 0 {
		t.Error("expected stylesheet text")
	}
}

func TestBuildRegistry_ConfiguredLibraries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "print.css")
	if err := os.WriteFile(path, []byte(`@media print { body { margin: $print.margin; } }`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Style: config.StyleConfig{Builtin: true},
		Libraries: []config.LibraryConfig{{
			Name:      "print",
			Path:      path,
			Requires:  []string{"base"},
			Variables: map[string]any{"print": map[string]any{"margin": "2cm"}},
			Themes:    map[string]map[string]any{"dark": {"print.margin": "1cm"}},
		}},
		Themes: map[string]config.ThemeConfig{
			"paper": {Libraries: []string{"print"}},
		},
	}

	reg, err := BuildRegistry(cfg, zaptest.NewLogger(t), nil)
	if err != nil {
		t.Fatalf("BuildRegistry() error = %v", err)
	}
	e, err := reg.Lookup("print")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if e.Defaults["print.margin"].String() != "2cm" {
		t.Errorf("unexpected defaults %v", e.Defaults)
	}
	if len(e.Variables("dark")) != 2 {
		t.Error("expected dark variant")
	}

	cat, err := BuildCatalog(cfg)
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}
	env := &LocalEnv{Registry: reg, Catalog: cat}
	res, err := env.Compiler().Compile(context.Background(), cat.Get("paper"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	want := []string{"base", "print"}
	if len(res.Libraries) != 2 || res.Libraries[0] != want[0] || res.Libraries[1] != want[1] {
		t.Errorf("Libraries = %v, want %v", res.Libraries, want)
	}
}

func TestBuildRegistry_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := &config.Config{Libraries: []config.LibraryConfig{{Name: "x", Path: filepath.Join(t.TempDir(), "none.css")}}}
		if _, err := BuildRegistry(cfg, nil, nil); err == nil {
			t.Error("expected error for missing library file")
		}
	})

	t.Run("unknown requirement", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.css")
		if err := os.WriteFile(path, []byte(`p { margin: 0; }`), 0644); err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{Libraries: []config.LibraryConfig{{Name: "x", Path: path, Requires: []string{"base"}}}}
		_, err := BuildRegistry(cfg, nil, nil)
		var uerr *library.UnknownLibraryError
		if !errors.As(err, &uerr) {
			t.Errorf("expected UnknownLibraryError, got %v", err)
		}
	})

	t.Run("bad variable type", func(t *testing.T) {
		cfg := &config.Config{Themes: map[string]config.ThemeConfig{"t": {Variables: map[string]any{"x": []any{1}}}}}
		if _, err := BuildCatalog(cfg); err == nil {
			t.Error("expected error for list variable")
		}
	})
}
