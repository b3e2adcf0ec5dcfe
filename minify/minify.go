// Package minify shrinks rendered stylesheets, either locally or by posting
// them to a remote minification service.
package minify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Minifier transforms stylesheet text into its minified form.
type Minifier interface {
	Minify(ctx context.Context, text string) (string, error)
}

// Mode selects a minifier implementation.
const (
	ModeNone   = "none"
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// DefaultURL is the public service the remote minifier talks to unless
// configured otherwise.
const DefaultURL = "https://www.toptal.com/developers/cssminifier/api/raw"

// Options configure New.
type Options struct {
	Mode    string
	URL     string
	Timeout time.Duration
	Token   string
}

// New returns the minifier selected by opts.Mode, or nil for ModeNone.
func New(opts Options, log *zap.Logger) (Minifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch opts.Mode {
	case ModeNone, "":
		return nil, nil
	case ModeLocal:
		return &Local{}, nil
	case ModeRemote:
		url := opts.URL
		if url == "" {
			url = DefaultURL
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return &Remote{
			URL:    url,
			Token:  opts.Token,
			Client: &http.Client{Timeout: timeout},
			log:    log.Named("minify"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown minification mode %q", opts.Mode)
	}
}
