package style

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// lexValue tokenizes declaration value skipping whitespace and comments.
func lexValue(raw string) []css.Token {
	var tokens []css.Token
	l := css.NewLexer(parse.NewInputString(strings.TrimSpace(raw)))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return tokens
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		tokens = append(tokens, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
	}
}

// splitValues breaks shorthand value into whitespace separated components
// keeping function arguments (rgb(1, 2, 3)) together.
func splitValues(raw string) []string {
	var (
		parts []string
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}

	l := css.NewLexer(parse.NewInputString(strings.TrimSpace(raw)))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			flush()
			return parts
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		}
		cur.Write(data)
	}
}
