package descriptor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent
	tokString
	tokInt
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokComma
	tokAssign
	tokDot
	tokOther
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokNewline:
		return "newline"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokInt:
		return "integer"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokAssign:
		return "'='"
	case tokDot:
		return "'.'"
	default:
		return "symbol"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
}

type lexError struct {
	line int
	msg  string
}

func (e *lexError) Error() string { return e.msg }

// lexGradle tokenizes the Kotlin DSL subset used by Android build scripts.
// Semicolons are folded into newlines.
func lexGradle(src string) ([]token, error) {
	l := &lexer{src: []rune(src), line: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.kind == tokEOF {
			return l.tokens, nil
		}
	}
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	tokens []token
}

func (l *lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	r := l.src[l.pos]
	line := l.line
	single := func(kind tokenKind) (token, error) {
		l.pos++
		return token{kind: kind, text: string(r), line: line}, nil
	}

	switch {
	case r == '\n' || r == ';':
		l.pos++
		if r == '\n' {
			l.line++
		}
		return token{kind: tokNewline, line: line}, nil
	case r == '{':
		return single(tokLBrace)
	case r == '}':
		return single(tokRBrace)
	case r == '(':
		return single(tokLParen)
	case r == ')':
		return single(tokRParen)
	case r == ',':
		return single(tokComma)
	case r == '.':
		return single(tokDot)
	case r == '=':
		if l.peek(1) == '=' {
			l.pos += 2
			return token{kind: tokOther, text: "==", line: line}, nil
		}
		return single(tokAssign)
	case r == '"':
		return l.lexString()
	case r == '\'':
		return l.lexChar()
	case unicode.IsDigit(r):
		return l.lexNumber()
	case r == '_' || unicode.IsLetter(r):
		return l.lexIdent()
	case r == '`':
		return l.lexQuotedIdent()
	default:
		return single(tokOther)
	}
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\f':
			l.pos++
		case r == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case r == '/' && l.peek(1) == '*':
			start := l.line
			l.pos += 2
			for {
				if l.pos >= len(l.src) {
					return &lexError{line: start, msg: "unterminated block comment"}
				}
				if l.src[l.pos] == '*' && l.peek(1) == '/' {
					l.pos += 2
					break
				}
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) lexString() (token, error) {
	line := l.line
	if l.peek(1) == '"' && l.peek(2) == '"' {
		l.pos += 3
		var b strings.Builder
		for {
			if l.pos >= len(l.src) {
				return token{}, &lexError{line: line, msg: "unterminated raw string"}
			}
			if l.src[l.pos] == '"' && l.peek(1) == '"' && l.peek(2) == '"' {
				l.pos += 3
				return token{kind: tokString, text: b.String(), line: line}, nil
			}
			if l.src[l.pos] == '\n' {
				l.line++
			}
			b.WriteRune(l.src[l.pos])
			l.pos++
		}
	}

	l.pos++
	var b strings.Builder
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			return token{}, &lexError{line: line, msg: "unterminated string literal"}
		}
		r := l.src[l.pos]
		switch r {
		case '"':
			l.pos++
			return token{kind: tokString, text: b.String(), line: line}, nil
		case '\\':
			esc := l.peek(1)
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 'b':
				b.WriteRune('\b')
			case 'u':
				r, ok := l.unicodeEscape()
				if !ok {
					return token{}, &lexError{line: line, msg: "invalid unicode escape sequence"}
				}
				b.WriteRune(r)
				l.pos += 6
				continue
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '"', '\\', '$', '\'':
				b.WriteRune(esc)
			default:
				return token{}, &lexError{line: line, msg: fmt.Sprintf("invalid escape sequence \\%c", esc)}
			}
			l.pos += 2
		default:
			b.WriteRune(r)
			l.pos++
		}
	}
}

// unicodeEscape decodes the four hex digits following a \u at l.pos.
func (l *lexer) unicodeEscape() (rune, bool) {
	var r rune
	for i := 2; i < 6; i++ {
		c := l.peek(i)
		if !isHexDigit(c) {
			return 0, false
		}
		n, _ := strconv.ParseInt(string(c), 16, 32)
		r = r<<4 | rune(n)
	}
	return r, true
}

func (l *lexer) lexChar() (token, error) {
	line := l.line
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && l.src[l.pos] != '\'' {
		if l.src[l.pos] == '\n' {
			return token{}, &lexError{line: line, msg: "unterminated character literal"}
		}
		if l.src[l.pos] == '\\' {
			l.pos++
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, &lexError{line: line, msg: "unterminated character literal"}
	}
	l.pos++
	return token{kind: tokOther, text: string(l.src[start:l.pos]), line: line}, nil
}

// lexNumber reads a Kotlin numeric literal. Only plain decimal integers become
// tokInt; hex, binary, fractional and suffixed literals are kept as tokOther.
func (l *lexer) lexNumber() (token, error) {
	line := l.line
	start := l.pos
	kind := tokInt

	digits := isDecimalDigit
	if l.src[l.pos] == '0' {
		switch l.peek(1) {
		case 'x', 'X':
			digits, kind = isHexDigit, tokOther
			l.pos += 2
		case 'b', 'B':
			digits, kind = isBinaryDigit, tokOther
			l.pos += 2
		}
	}
	l.skipDigits(digits)

	if kind == tokInt {
		if l.peek(0) == '.' && isDecimalDigit(l.peek(1)) {
			l.pos++
			l.skipDigits(isDecimalDigit)
			kind = tokOther
		}
		if r := l.peek(0); r == 'e' || r == 'E' {
			off := 1
			if sign := l.peek(1); sign == '+' || sign == '-' {
				off = 2
			}
			if isDecimalDigit(l.peek(off)) {
				l.pos += off
				l.skipDigits(isDecimalDigit)
				kind = tokOther
			}
		}
	}

	switch l.peek(0) {
	case 'f', 'F':
		kind = tokOther
		l.pos++
	case 'u', 'U':
		kind = tokOther
		l.pos++
		if l.peek(0) == 'L' {
			l.pos++
		}
	case 'L', 'l':
		l.pos++
	}

	text := string(l.src[start:l.pos])
	if r := l.peek(0); unicode.IsLetter(r) || r == '_' {
		return token{}, &lexError{line: line, msg: fmt.Sprintf("malformed number near %q", text)}
	}
	if kind == tokInt {
		text = strings.TrimRight(strings.ReplaceAll(text, "_", ""), "Ll")
	}
	return token{kind: kind, text: text, line: line}, nil
}

func (l *lexer) skipDigits(digit func(rune) bool) {
	for l.pos < len(l.src) && (digit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

func isDecimalDigit(r rune) bool { return r >= '0' && r <= '9' }

func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }

func isHexDigit(r rune) bool {
	return isDecimalDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos++
	}
	return token{kind: tokIdent, text: string(l.src[start:l.pos]), line: l.line}, nil
}

func (l *lexer) lexQuotedIdent() (token, error) {
	line := l.line
	l.pos++
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '`' {
		if l.src[l.pos] == '\n' {
			return token{}, &lexError{line: line, msg: "unterminated quoted identifier"}
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, &lexError{line: line, msg: "unterminated quoted identifier"}
	}
	text := string(l.src[start:l.pos])
	l.pos++
	return token{kind: tokIdent, text: text, line: line}, nil
}
