package minify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

const sample = `/* generated */
.row {
  margin: 20px;
  color: red;
}

@media only screen and (max-width: 760px) {
  body .bla tr:nth-child(odd) {
    background: #eee !important;
  }
}
`

func TestLocal_Minify(t *testing.T) {
	got, err := Local{}.Minify(context.Background(), sample)
	if err != nil {
		t.Fatalf("Minify() error = %v", err)
	}
	want := `.row{margin:20px;color:red}@media only screen and (max-width:760px){body .bla tr:nth-child(odd){background:#eee !important}}`
	if got != want {
		t.Errorf("Minify() =\n%s\nwant:\n%s", got, want)
	}
}

func TestLocal_KeepsDescendantPseudo(t *testing.T) {
	got, err := Local{}.Minify(context.Background(), "a :hover , b > c { x : y ; }")
	if err != nil {
		t.Fatalf("Minify() error = %v", err)
	}
	if want := "a :hover,b>c{x :y}"; got != want {
		t.Errorf("Minify() = %q, want %q", got, want)
	}
}

func TestLocal_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Local{}).Minify(ctx, sample); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRemote_Minify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if r.PostForm.Get("input") != sample {
			t.Errorf("unexpected input %q", r.PostForm.Get("input"))
		}
		_, _ = w.Write([]byte(".row{margin:20px}"))
	}))
	defer srv.Close()

	m, err := New(Options{Mode: ModeRemote, URL: srv.URL, Token: "s3cret"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := m.Minify(context.Background(), sample)
	if err != nil {
		t.Fatalf("Minify() error = %v", err)
	}
	if got != ".row{margin:20px}" {
		t.Errorf("Minify() = %q", got)
	}
}

func TestRemote_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := &Remote{URL: srv.URL}
	_, err := m.Minify(context.Background(), sample)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if terr.StatusCode != http.StatusTooManyRequests || terr.URL != srv.URL {
		t.Errorf("unexpected error details %+v", terr)
	}
}

func TestRemote_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	m, err := New(Options{Mode: ModeRemote, URL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := m.Minify(context.Background(), sample); err == nil {
		t.Error("expected timeout error")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{ModeNone, "", false},
		{ModeLocal, "*minify.Local", false},
		{ModeRemote, "*minify.Remote", false},
		{"bogus", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			m, err := New(Options{Mode: tt.mode}, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := typeName(m); got != tt.want {
				t.Errorf("New() = %s, want %s", got, tt.want)
			}
		})
	}

	m, _ := New(Options{Mode: ModeRemote}, nil)
	if r := m.(*Remote); r.URL != DefaultURL {
		t.Errorf("expected default URL, got %s", r.URL)
	}
}

func typeName(m Minifier) string {
	switch m.(type) {
	case *Local:
		return "*minify.Local"
	case *Remote:
		return "*minify.Remote"
	default:
		return ""
	}
}
