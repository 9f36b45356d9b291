package jsparse

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a token
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenName
	TokenNumber
	TokenString
	TokenRegex
	TokenPunct
	// TokenTemplate is one chunk of a template literal: from its opening
	// backtick or closing brace up to the next "${" or closing backtick
	TokenTemplate
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenName:
		return "name"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenRegex:
		return "regular expression"
	case TokenPunct:
		return "punctuator"
	case TokenTemplate:
		return "template"
	default:
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a lexical token
type Token struct {
	Kind  TokenKind
	Value string // name, punctuator, or decoded string contents
	Raw   string // source text of the token
	Num   float64
	// Pattern and Flags are set for regular expressions
	Pattern string
	Flags   string
	// Tail marks the template chunk ending in a backtick; Continued marks
	// one that starts after a "${...}" substitution
	Tail      bool
	Continued bool

	Line, Col int
	// NewlineBefore is set when a line terminator precedes the token
	NewlineBefore bool
}

// punctuators, longest first
var punctuators = []string{
	">>>=", "...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".",
}

// keywords after which a '/' starts a regular expression
var regexAfterKeyword = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true,
}

type lexer struct {
	src       string
	pos       int
	line, col int
	tokens    []Token
	// newline records a line terminator seen since the last token;
	// pending is the value captured when the current token started
	newline bool
	pending bool
	// braces tracks open braces; true entries were opened by "${"
	braces []bool
}

// Tokenize splits JavaScript source into tokens, ending with TokenEOF
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) run() error {
	for {
		if err := l.skipSpaceAndComments(); err != nil {
			return err
		}
		l.pending, l.newline = l.newline, false
		if l.pos >= len(l.src) {
			l.emit(Token{Kind: TokenEOF, Line: l.line, Col: l.col})
			return nil
		}
		if err := l.scanToken(); err != nil {
			return err
		}
	}
}

func (l *lexer) emit(tok Token) {
	tok.NewlineBefore = l.pending
	l.tokens = append(l.tokens, tok)
}

func (l *lexer) errorf(line, col int, format string, args ...interface{}) error {
	return syntaxErrorf(line, col, format, args...)
}

func (l *lexer) peekRune(offset int) rune {
	p := l.pos
	for i := 0; i < offset && p < len(l.src); i++ {
		_, size := utf8.DecodeRuneInString(l.src[p:])
		p += size
	}
	if p >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[p:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
		l.newline = true
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		r := l.peekRune(0)
		switch {
		case r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029':
			l.advance()
			l.newline = true
		case unicode.IsSpace(r) || r == '\ufeff':
			l.advance()
		case r == '/' && l.peekRune(1) == '/':
			for l.pos < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '/' && l.peekRune(1) == '*':
			line, col := l.line, l.col
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.src) {
					return l.errorf(line, col, "unterminated comment")
				}
				if l.peekRune(0) == '*' && l.peekRune(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d'
}

func (l *lexer) regexAllowed() bool {
	if len(l.tokens) == 0 {
		return true
	}
	prev := l.tokens[len(l.tokens)-1]
	switch prev.Kind {
	case TokenNumber, TokenString, TokenRegex:
		return false
	case TokenName:
		return regexAfterKeyword[prev.Value]
	case TokenPunct:
		switch prev.Value {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	case TokenTemplate:
		// after a chunk ending in "${" an expression starts
		return !prev.Tail
	}
	return true
}

func (l *lexer) scanToken() error {
	line, col := l.line, l.col
	start := l.pos
	r := l.peekRune(0)

	switch {
	case isIdentStart(r):
		for l.pos < len(l.src) && isIdentPart(l.peekRune(0)) {
			l.advance()
		}
		text := l.src[start:l.pos]
		l.emit(Token{Kind: TokenName, Value: text, Raw: text, Line: line, Col: col})
		return nil

	case unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekRune(1))):
		return l.scanNumber(line, col)

	case r == '"' || r == '\'':
		return l.scanString(line, col)

	case r == '`':
		return l.scanTemplate(line, col)

	case r == '}' && len(l.braces) > 0 && l.braces[len(l.braces)-1]:
		l.braces = l.braces[:len(l.braces)-1]
		return l.scanTemplate(line, col)

	case r == '/' && l.regexAllowed():
		return l.scanRegex(line, col)
	}

	for _, p := range punctuators {
		if strings.HasPrefix(l.src[l.pos:], p) {
			for range p {
				l.advance()
			}
			switch p {
			case "{":
				l.braces = append(l.braces, false)
			case "}":
				if len(l.braces) > 0 {
					l.braces = l.braces[:len(l.braces)-1]
				}
			}
			l.emit(Token{Kind: TokenPunct, Value: p, Raw: p, Line: line, Col: col})
			return nil
		}
	}
	return l.errorf(line, col, "unexpected character %q", r)
}

func (l *lexer) scanNumber(line, col int) error {
	start := l.pos
	if l.peekRune(0) == '0' {
		base := 0
		switch l.peekRune(1) {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			l.advance()
			l.advance()
			digits := l.pos
			for l.pos < len(l.src) && isDigitIn(l.peekRune(0), base) {
				l.advance()
			}
			if l.pos == digits {
				return l.errorf(line, col, "missing digits after %s", l.src[start:l.pos])
			}
			v, err := strconv.ParseUint(l.src[digits:l.pos], base, 64)
			if err != nil {
				return l.errorf(line, col, "invalid number %s", l.src[start:l.pos])
			}
			raw := l.src[start:l.pos]
			l.emit(Token{Kind: TokenNumber, Raw: raw, Value: raw, Num: float64(v), Line: line, Col: col})
			return l.checkAfterNumber(line, col)
		}
	}

	for l.pos < len(l.src) && unicode.IsDigit(l.peekRune(0)) {
		l.advance()
	}
	if l.peekRune(0) == '.' {
		l.advance()
		for l.pos < len(l.src) && unicode.IsDigit(l.peekRune(0)) {
			l.advance()
		}
	}
	if r := l.peekRune(0); r == 'e' || r == 'E' {
		l.advance()
		if r := l.peekRune(0); r == '+' || r == '-' {
			l.advance()
		}
		digits := l.pos
		for l.pos < len(l.src) && unicode.IsDigit(l.peekRune(0)) {
			l.advance()
		}
		if l.pos == digits {
			return l.errorf(line, col, "missing exponent in %s", l.src[start:l.pos])
		}
	}

	raw := l.src[start:l.pos]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return l.errorf(line, col, "invalid number %s", raw)
	}
	l.emit(Token{Kind: TokenNumber, Raw: raw, Value: raw, Num: v, Line: line, Col: col})
	return l.checkAfterNumber(line, col)
}

func (l *lexer) checkAfterNumber(line, col int) error {
	if l.pos < len(l.src) && isIdentStart(l.peekRune(0)) {
		return l.errorf(line, col, "identifier starts immediately after numeric literal")
	}
	return nil
}

func isDigitIn(r rune, base int) bool {
	switch base {
	case 2:
		return r == '0' || r == '1'
	case 8:
		return r >= '0' && r <= '7'
	default:
		return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	}
}

func (l *lexer) scanString(line, col int) error {
	defer func() { l.newline = false }()
	start := l.pos
	quote := l.advance()
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return l.errorf(line, col, "unterminated string")
		}
		r := l.advance()
		switch {
		case r == quote:
			raw := l.src[start:l.pos]
			l.emit(Token{Kind: TokenString, Value: b.String(), Raw: raw, Line: line, Col: col})
			return nil
		case r == '\n':
			return l.errorf(line, col, "unterminated string")
		case r == '\\':
			if err := l.scanEscape(&b, line, col); err != nil {
				return err
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (l *lexer) scanEscape(b *strings.Builder, line, col int) error {
	if l.pos >= len(l.src) {
		return l.errorf(line, col, "unterminated string")
	}
	r := l.advance()
	switch r {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\r':
		if l.peekRune(0) == '\n' {
			l.advance()
		}
	case '\n', '\u2028', '\u2029':
		// line continuation
	case 'x':
		return l.hexEscape(b, 2, line, col)
	case 'u':
		if l.peekRune(0) == '{' {
			l.advance()
			start := l.pos
			for l.pos < len(l.src) && l.peekRune(0) != '}' {
				l.advance()
			}
			if l.pos >= len(l.src) {
				return l.errorf(line, col, "unterminated unicode escape")
			}
			v, err := strconv.ParseUint(l.src[start:l.pos], 16, 32)
			l.advance()
			if err != nil || v > unicode.MaxRune {
				return l.errorf(line, col, "invalid unicode escape")
			}
			b.WriteRune(rune(v))
			return nil
		}
		return l.hexEscape(b, 4, line, col)
	default:
		b.WriteRune(r)
	}
	return nil
}

func (l *lexer) hexEscape(b *strings.Builder, n int, line, col int) error {
	if l.pos+n > len(l.src) {
		return l.errorf(line, col, "invalid hexadecimal escape")
	}
	v, err := strconv.ParseUint(l.src[l.pos:l.pos+n], 16, 32)
	if err != nil {
		return l.errorf(line, col, "invalid hexadecimal escape")
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	b.WriteRune(rune(v))
	return nil
}

func (l *lexer) scanRegex(line, col int) error {
	start := l.pos
	l.advance() // opening slash
	inClass := false
	for {
		if l.pos >= len(l.src) {
			return l.errorf(line, col, "unterminated regular expression")
		}
		r := l.advance()
		switch {
		case r == '\n':
			return l.errorf(line, col, "unterminated regular expression")
		case r == '\\':
			if l.pos >= len(l.src) {
				return l.errorf(line, col, "unterminated regular expression")
			}
			l.advance()
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case r == '/' && !inClass:
			pattern := l.src[start+1 : l.pos-1]
			flagStart := l.pos
			for l.pos < len(l.src) && isIdentPart(l.peekRune(0)) {
				l.advance()
			}
			flags := l.src[flagStart:l.pos]
			raw := l.src[start:l.pos]
			l.emit(Token{Kind: TokenRegex, Raw: raw, Value: raw, Pattern: pattern, Flags: flags, Line: line, Col: col})
			return nil
		}
	}
}

// scanTemplate reads a template chunk starting at a backtick or at the
// brace closing a substitution
func (l *lexer) scanTemplate(line, col int) error {
	// line breaks inside the literal do not precede the next token
	defer func() { l.newline = false }()
	continued := l.advance() == '}'
	start := l.pos
	var cooked strings.Builder
	for {
		if l.pos >= len(l.src) {
			return l.errorf(line, col, "unterminated template literal")
		}
		r := l.peekRune(0)
		switch {
		case r == '`':
			raw := normalizeNewlines(l.src[start:l.pos])
			l.advance()
			l.emit(Token{Kind: TokenTemplate, Value: cooked.String(), Raw: raw, Tail: true, Continued: continued, Line: line, Col: col})
			return nil
		case r == '$' && l.peekRune(1) == '{':
			raw := normalizeNewlines(l.src[start:l.pos])
			l.advance()
			l.advance()
			l.braces = append(l.braces, true)
			l.emit(Token{Kind: TokenTemplate, Value: cooked.String(), Raw: raw, Continued: continued, Line: line, Col: col})
			return nil
		case r == '\\':
			l.advance()
			if err := l.scanEscape(&cooked, line, col); err != nil {
				return err
			}
		case r == '\r':
			l.advance()
			if l.peekRune(0) == '\n' {
				l.advance()
			}
			cooked.WriteByte('\n')
		default:
			cooked.WriteRune(l.advance())
		}
	}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
