package syntax

import (
	"strings"
	"text/scanner"

	"github.com/teranos/faked/errors"
)

type token struct {
	kind rune // scanner.Ident, scanner.Int, scanner.Float, scanner.String or the punctuation rune
	text string
	off  int
}

// tokenize splits src into tokens. Identifiers may contain '$' and may be
// wrapped in backticks, as Swift allows for keyword escapes.
func tokenize(src string) ([]token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || ch == '$' || isLetter(ch) || (i > 0 && isDigit(ch))
	}

	var scanErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = errors.Newf("offset %d: %s", s.Position.Offset, msg)
		}
	}

	var toks []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if tok == '`' {
			// `default` style escaped identifiers
			start := s.Position.Offset
			if s.Scan() != scanner.Ident {
				return nil, errors.Newf("offset %d: malformed escaped identifier", start)
			}
			name := s.TokenText()
			if s.Scan() != '`' {
				return nil, errors.Newf("offset %d: malformed escaped identifier", start)
			}
			toks = append(toks, token{kind: scanner.Ident, text: name, off: start})
			continue
		}
		toks = append(toks, token{kind: tok, text: s.TokenText(), off: s.Position.Offset})
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return toks, nil
}

func isLetter(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// tokens is a cursor over a token slice.
type tokens struct {
	src  string
	list []token
	i    int
}

func (t *tokens) done() bool { return t.i >= len(t.list) }

func (t *tokens) peek() token {
	if t.done() {
		return token{kind: scanner.EOF, off: len(t.src)}
	}
	return t.list[t.i]
}

func (t *tokens) next() token {
	tok := t.peek()
	if !t.done() {
		t.i++
	}
	return tok
}

func (t *tokens) accept(kind rune) bool {
	if t.peek().kind == kind {
		t.i++
		return true
	}
	return false
}

func (t *tokens) expect(kind rune) (token, error) {
	tok := t.next()
	if tok.kind != kind {
		return tok, errors.Newf("offset %d: expected %s, found %s", tok.off, scanner.TokenString(kind), describeToken(tok))
	}
	return tok, nil
}

// skipGroup advances past the token that closes the group opened just
// before the cursor and returns the closing token.
func (t *tokens) skipGroup(open, close rune) (token, error) {
	depth := 1
	for !t.done() {
		tok := t.next()
		switch tok.kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return tok, nil
			}
		}
	}
	return token{}, errors.Newf("unbalanced %q", open)
}

func describeToken(tok token) string {
	if tok.kind == scanner.EOF {
		return "end of input"
	}
	return "\"" + tok.text + "\""
}
