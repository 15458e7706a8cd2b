package descriptor

import (
	"fmt"
	"strings"
)

type exprKind int

const (
	exprOther exprKind = iota
	exprString
	exprInt
	exprPath
	exprCall
)

// expr is the leading expression of a statement's right-hand side.
// Paths and calls keep their dotted text, e.g. "signingConfigs.getByName".
type expr struct {
	kind exprKind
	text string
	args []expr
	line int
}

// stmt is one statement of a build script: an assignment, a call, a block,
// or a call with a trailing block. Anything else keeps only its head.
type stmt struct {
	line   int
	head   string
	call   bool
	args   []expr
	assign bool
	value  expr
	body   []stmt
	block  bool
}

func (s stmt) find(head string) (stmt, bool) {
	for _, child := range s.body {
		if child.head == head && child.block {
			return child, true
		}
	}
	return stmt{}, false
}

type syntaxError struct {
	line int
	msg  string
}

func (e *syntaxError) Error() string { return e.msg }

type parser struct {
	toks []token
	pos  int
}

// parseGradle parses a Kotlin DSL build script into a statement tree rooted
// at an anonymous block.
func parseGradle(src string) (stmt, error) {
	toks, err := lexGradle(src)
	if err != nil {
		if le, ok := err.(*lexError); ok {
			return stmt{}, &syntaxError{line: le.line, msg: le.msg}
		}
		return stmt{}, err
	}
	p := &parser{toks: toks}
	body, err := p.parseBlock(false)
	if err != nil {
		return stmt{}, err
	}
	return stmt{line: 1, block: true, body: body}, nil
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.cur().kind == tokNewline {
		p.pos++
	}
}

// parseBlock reads statements until the closing brace (nested) or EOF (top level).
func (p *parser) parseBlock(nested bool) ([]stmt, error) {
	var out []stmt
	for {
		p.skipNewlines()
		t := p.cur()
		switch t.kind {
		case tokEOF:
			if nested {
				return nil, &syntaxError{line: t.line, msg: "unexpected end of file: missing '}'"}
			}
			return out, nil
		case tokRBrace:
			if !nested {
				return nil, &syntaxError{line: t.line, msg: "unexpected '}'"}
			}
			p.advance()
			return out, nil
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

func (p *parser) parseStatement() (stmt, error) {
	start := p.cur()
	s := stmt{line: start.line}

	if start.kind == tokIdent {
		s.head = p.parsePath()
		if p.cur().kind == tokLParen {
			args, err := p.parseArgs()
			if err != nil {
				return stmt{}, err
			}
			s.call = true
			s.args = args
		}

		switch p.cur().kind {
		case tokAssign:
			p.advance()
			p.skipNewlines()
			value, err := p.parseExpr()
			if err != nil {
				return stmt{}, err
			}
			s.assign = true
			s.value = value
		case tokLBrace:
			p.advance()
			body, err := p.parseBlock(true)
			if err != nil {
				return stmt{}, err
			}
			s.block = true
			s.body = body
			return s, nil
		}
	}

	body, hasBlock, err := p.skipRest()
	if err != nil {
		return stmt{}, err
	}
	if hasBlock && !s.assign {
		s.block = true
		s.body = body
	}
	return s, nil
}

// parsePath reads ident ('.' ident)* and returns the dotted text.
func (p *parser) parsePath() string {
	parts := []string{p.advance().text}
	for p.cur().kind == tokDot && p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokIdent {
		p.advance()
		parts = append(parts, p.advance().text)
	}
	return strings.Join(parts, ".")
}

func (p *parser) parseArgs() ([]expr, error) {
	open := p.advance()
	var args []expr
	for {
		p.skipNewlines()
		switch p.cur().kind {
		case tokRParen:
			p.advance()
			return args, nil
		case tokEOF:
			return nil, &syntaxError{line: open.line, msg: "unclosed '('"}
		case tokComma:
			p.advance()
			continue
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if err := p.skipArgRest(open.line); err != nil {
			return nil, err
		}
	}
}

// skipArgRest discards operators trailing an argument up to ',' or ')'.
func (p *parser) skipArgRest(openLine int) error {
	depth := 0
	for {
		t := p.cur()
		switch t.kind {
		case tokEOF:
			return &syntaxError{line: openLine, msg: "unclosed '('"}
		case tokLParen, tokLBrace:
			depth++
		case tokRParen, tokRBrace:
			if depth == 0 {
				if t.kind == tokRBrace {
					return &syntaxError{line: t.line, msg: "unexpected '}' inside argument list"}
				}
				return nil
			}
			depth--
		case tokComma:
			if depth == 0 {
				return nil
			}
		}
		p.advance()
	}
}

func (p *parser) parseExpr() (expr, error) {
	t := p.cur()
	switch t.kind {
	case tokString:
		p.advance()
		return expr{kind: exprString, text: t.text, line: t.line}, nil
	case tokInt:
		p.advance()
		return expr{kind: exprInt, text: t.text, line: t.line}, nil
	case tokIdent:
		text := p.parsePath()
		if p.cur().kind == tokLParen {
			args, err := p.parseArgs()
			if err != nil {
				return expr{}, err
			}
			// chained member after a call, e.g. JavaVersion.VERSION_11.toString()
			for p.cur().kind == tokDot {
				p.advance()
				if p.cur().kind != tokIdent {
					return expr{}, &syntaxError{line: p.cur().line, msg: fmt.Sprintf("expected identifier after '.', got %s", p.cur().kind)}
				}
				text += "()." + p.parsePath()
				if p.cur().kind == tokLParen {
					if args, err = p.parseArgs(); err != nil {
						return expr{}, err
					}
				}
			}
			return expr{kind: exprCall, text: text, args: args, line: t.line}, nil
		}
		return expr{kind: exprPath, text: text, line: t.line}, nil
	case tokLParen:
		if _, err := p.parseArgs(); err != nil {
			return expr{}, err
		}
		return expr{kind: exprOther, line: t.line}, nil
	case tokEOF, tokRBrace:
		return expr{}, &syntaxError{line: t.line, msg: fmt.Sprintf("expected expression, got %s", t.kind)}
	default:
		return expr{kind: exprOther, text: t.text, line: t.line}, nil
	}
}

// skipRest discards tokens to the end of the statement. A brace opened at
// the statement level is parsed as a trailing block, as in `if (x) { ... }`.
func (p *parser) skipRest() ([]stmt, bool, error) {
	depth := 0
	var body []stmt
	hasBlock := false
	for {
		t := p.cur()
		switch t.kind {
		case tokEOF:
			if depth > 0 {
				return nil, false, &syntaxError{line: t.line, msg: "unclosed '('"}
			}
			return body, hasBlock, nil
		case tokNewline:
			if depth == 0 {
				return body, hasBlock, nil
			}
		case tokLParen:
			depth++
		case tokRParen:
			if depth == 0 {
				return nil, false, &syntaxError{line: t.line, msg: "unexpected ')'"}
			}
			depth--
		case tokRBrace:
			if depth > 0 {
				return nil, false, &syntaxError{line: t.line, msg: "unexpected '}' inside parentheses"}
			}
			return body, hasBlock, nil
		case tokLBrace:
			p.advance()
			inner, err := p.parseBlock(true)
			if err != nil {
				return nil, false, err
			}
			body = append(body, inner...)
			hasBlock = true
			continue
		}
		p.advance()
	}
}
