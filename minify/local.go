package minify

import (
	"context"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Local minifies without network access: comments are dropped, whitespace is
// collapsed and removed around punctuation, the last semicolon of a block is
// removed.
type Local struct{}

func (Local) Minify(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lexer := css.NewLexer(parse.NewInput(strings.NewReader(text)))
	var (
		out   strings.Builder
		space bool // whitespace seen since last emitted token
		last  byte // last emitted byte
	)
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			return out.String(), nil
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			space = out.Len() > 0
			continue
		case css.RightBraceToken:
			if last == ';' {
				s := out.String()
				out.Reset()
				out.WriteString(s[:len(s)-1])
			}
			space = false
		}

		if space && !tightAfter(last) && !tightBefore(data[0]) {
			out.WriteByte(' ')
		}
		space = false
		out.Write(data)
		last = data[len(data)-1]
	}
}

// tightBefore reports whether whitespace in front of c carries no meaning.
// A colon is not in the set: "a :hover" and "a:hover" are different
// selectors.
func tightBefore(c byte) bool {
	switch c {
	case '{', '}', ';', ',', '>':
		return true
	}
	return false
}

// tightAfter reports whether whitespace following c carries no meaning.
func tightAfter(c byte) bool {
	return c == ':' || tightBefore(c)
}
