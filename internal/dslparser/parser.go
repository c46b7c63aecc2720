// Package dslparser implements spec §4.11: recursive-descent parsing of
// the token stream into a dslast.Program. Inline and multi-line block
// forms parse to identical ASTs: braces simply delimit a Body regardless
// of whether their contents span one physical line or many, and a call's
// parenthesis list folds across NEWLINE tokens while paren depth > 0.
package dslparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mldsl-tools/mldsl/internal/dslast"
	"github.com/mldsl-tools/mldsl/internal/dsllexer"
	"github.com/mldsl-tools/mldsl/internal/mlerr"
)

// Parser consumes a pre-lexed token stream.
type Parser struct {
	toks []dsllexer.Token
	pos  int
}

// Parse lexes and parses src into a Program.
func Parse(src string) (*dslast.Program, error) {
	toks := dsllexer.Tokenize(src, nil)
	p := &Parser{toks: foldParens(toks)}
	return p.parseProgram()
}

// foldParens drops NEWLINE tokens that occur while an open paren list is
// unclosed, so a call's argument list can span physical lines.
func foldParens(toks []dsllexer.Token) []dsllexer.Token {
	out := make([]dsllexer.Token, 0, len(toks))
	depth := 0
	for _, t := range toks {
		switch t.Type {
		case dsllexer.LPAREN:
			depth++
		case dsllexer.RPAREN:
			if depth > 0 {
				depth--
			}
		case dsllexer.NEWLINE:
			if depth > 0 {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (p *Parser) cur() dsllexer.Token { return p.toks[p.pos] }
func (p *Parser) atEOF() bool         { return p.cur().Type == dsllexer.EOF }

// peek looks ahead one token past cur, clamped to the final (EOF) token.
func (p *Parser) peek() dsllexer.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() dsllexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) skipNewlines() {
	for p.cur().Type == dsllexer.NEWLINE {
		p.advance()
	}
}

func (p *Parser) expect(tt dsllexer.TokenType, what string) (dsllexer.Token, error) {
	if p.cur().Type != tt {
		return dsllexer.Token{}, errAt(p.cur(), "expected "+what+", got "+tokenDesc(p.cur()))
	}
	return p.advance(), nil
}

func tokenDesc(t dsllexer.Token) string {
	if t.Type == dsllexer.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lit)
}

func errAt(t dsllexer.Token, msg string) error {
	return mlerr.New(mlerr.KindUnresolvedLine, msg).AtLine(t.Line, t.Column)
}

func (p *Parser) parseProgram() (*dslast.Program, error) {
	prog := &dslast.Program{}
	p.skipNewlines()
	for !p.atEOF() {
		stmt, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		p.skipNewlines()
	}
	return prog, nil
}

func (p *Parser) parseTopLevel() (dslast.Stmt, error) {
	tok := p.cur()
	if tok.Type == dsllexer.IDENT {
		switch tok.Lit {
		case "event":
			return p.parseEvent()
		case "func":
			return p.parseFunc()
		case "loop":
			return p.parseLoop()
		case "vfunc":
			return p.parseVFuncDef()
		}
	}
	return p.parseStatement()
}

func (p *Parser) parseEvent() (dslast.Stmt, error) {
	pos := p.cur()
	p.advance() // "event"
	if _, err := p.expect(dsllexer.LPAREN, "("); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(dsllexer.STRING, "event name string")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(dsllexer.RPAREN, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return dslast.Event{Name: nameTok.Lit, Body: body, Pos_: toPos(pos)}, nil
}

func (p *Parser) parseFunc() (dslast.Stmt, error) {
	pos := p.cur()
	p.advance() // "func"
	nameTok, err := p.expect(dsllexer.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	var params []string
	if p.cur().Type == dsllexer.LPAREN {
		p.advance()
		for p.cur().Type != dsllexer.RPAREN {
			pt, err := p.expect(dsllexer.IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, pt.Lit)
			if p.cur().Type == dsllexer.COMMA {
				p.advance()
			}
		}
		p.advance() // ")"
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return dslast.Func{Name: nameTok.Lit, Params: params, Body: body, Pos_: toPos(pos)}, nil
}

func (p *Parser) parseLoop() (dslast.Stmt, error) {
	pos := p.cur()
	p.advance() // "loop"
	if _, err := p.expect(dsllexer.LPAREN, "("); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(dsllexer.IDENT, "loop name")
	if err != nil {
		return nil, err
	}
	ticks := 20
	if p.cur().Type == dsllexer.COMMA {
		p.advance()
		t, err := p.expect(dsllexer.NUMBER, "tick count")
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(t.Lit)
		ticks = n
	}
	if _, err := p.expect(dsllexer.RPAREN, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return dslast.Loop{Name: nameTok.Lit, Ticks: ticks, Body: body, Pos_: toPos(pos)}, nil
}

func (p *Parser) parseVFuncDef() (dslast.Stmt, error) {
	pos := p.cur()
	p.advance() // "vfunc"
	nameTok, err := p.expect(dsllexer.IDENT, "vfunc name")
	if err != nil {
		return nil, err
	}
	var params []dslast.VFuncParam
	if _, err := p.expect(dsllexer.LPAREN, "("); err != nil {
		return nil, err
	}
	for p.cur().Type != dsllexer.RPAREN {
		pt, err := p.expect(dsllexer.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		param := dslast.VFuncParam{Name: pt.Lit}
		if p.cur().Type == dsllexer.EQUALS {
			p.advance()
			defTok := p.advance()
			param.Default = defTok.Lit
			param.HasDefault = true
		}
		params = append(params, param)
		if p.cur().Type == dsllexer.COMMA {
			p.advance()
		}
	}
	p.advance() // ")"
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return dslast.VFuncDef{Name: nameTok.Lit, Params: params, Body: body, Pos_: toPos(pos)}, nil
}

// parseBlock parses a `{ statements }` block, inline or multi-line —
// since NEWLINE is just another statement separator here, both forms
// produce an identical Body slice.
func (p *Parser) parseBlock() ([]dslast.Stmt, error) {
	p.skipNewlines()
	if _, err := p.expect(dsllexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	var body []dslast.Stmt
	p.skipNewlines()
	for p.cur().Type != dsllexer.RBRACE {
		if p.atEOF() {
			return nil, errAt(p.cur(), "unterminated block, missing '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.skipNewlines()
	}
	p.advance() // "}"
	return body, nil
}

func (p *Parser) parseStatement() (dslast.Stmt, error) {
	negated := false
	if p.cur().Type == dsllexer.IDENT && (p.cur().Lit == "NOT" || p.cur().Lit == "не") {
		negated = true
		p.advance()
	}

	if p.cur().Type == dsllexer.IDENT && p.cur().Lit == "multiselect" {
		return p.parseMultiSelect()
	}

	if p.cur().Type == dsllexer.IDENT {
		// Lookahead for an assignment: IDENT ("="|"+="|"-="|"*="|"/=") ...
		if next := p.peek(); isAssignOp(next.Type) {
			return p.parseAssign()
		}
	}

	call, err := p.parseCallStatement()
	if err != nil {
		return nil, err
	}
	if negated {
		if call.Body == nil {
			return nil, mlerr.New(mlerr.KindUnresolvedLine, "NOT/не is invalid on a non-conditional action").AtLine(call.Pos_.Line, call.Pos_.Column)
		}
		call.Negated = true
	}
	return call, nil
}

func isAssignOp(tt dsllexer.TokenType) bool {
	switch tt {
	case dsllexer.EQUALS, dsllexer.PLUSEQ, dsllexer.MINUSEQ, dsllexer.STAREQ, dsllexer.SLASHEQ:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAssign() (dslast.Stmt, error) {
	nameTok := p.advance()
	opTok := p.advance()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return dslast.Assign{Name: nameTok.Lit, Op: opTok.Lit, RHS: rhs, Pos_: toPos(nameTok)}, nil
}

// parseCallStatement parses a (possibly dotted/scoped) call, optionally
// followed by a nested `{ ... }` conditional body, or a bare vfunc call
// (an identifier immediately followed by '(' with no module prefix that
// turns out to reference a macro is disambiguated later by the macro
// package, not here).
func (p *Parser) parseCallStatement() (dslast.Call, error) {
	startTok := p.cur()
	parts, err := p.parseDottedName()
	if err != nil {
		return dslast.Call{}, err
	}
	module, scope, name := splitQualified(parts)

	if _, err := p.expect(dsllexer.LPAREN, "("); err != nil {
		return dslast.Call{}, err
	}
	args, err := p.parseNamedArgs()
	if err != nil {
		return dslast.Call{}, err
	}
	if _, err := p.expect(dsllexer.RPAREN, ")"); err != nil {
		return dslast.Call{}, err
	}

	call := dslast.Call{Module: module, Scope: scope, Name: name, Args: args, Pos_: toPos(startTok)}

	if p.cur().Type == dsllexer.LBRACE {
		body, err := p.parseBlock()
		if err != nil {
			return dslast.Call{}, err
		}
		call.Body = body
	}
	return call, nil
}

func (p *Parser) parseDottedName() ([]string, error) {
	first, err := p.expect(dsllexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	parts := []string{first.Lit}
	for p.cur().Type == dsllexer.DOT {
		p.advance()
		next, err := p.expect(dsllexer.IDENT, "identifier after '.'")
		if err != nil {
			return nil, err
		}
		parts = append(parts, next.Lit)
	}
	return parts, nil
}

// splitQualified turns ["select","if_player","variable_exists"] into
// module="select", scope="if_player", name="variable_exists"; a
// two-part ["module","name"] into module/""/name; a bare ["name"] into
// ""/""/name.
func splitQualified(parts []string) (module, scope, name string) {
	switch len(parts) {
	case 1:
		return "", "", parts[0]
	case 2:
		return parts[0], "", parts[1]
	default:
		return parts[0], parts[1], strings.Join(parts[2:], ".")
	}
}

func (p *Parser) parseNamedArgs() ([]dslast.NamedArg, error) {
	var args []dslast.NamedArg
	for p.cur().Type != dsllexer.RPAREN {
		keyTok, err := p.expect(dsllexer.IDENT, "argument name")
		if err != nil {
			return nil, err
		}
		key := keyTok.Lit
		if _, err := p.expect(dsllexer.EQUALS, "'=' after argument name"); err != nil {
			return nil, err
		}
		if p.cur().Type == dsllexer.COMMA || p.cur().Type == dsllexer.RPAREN {
			// Empty named-argument value ("text=") is dropped per §4.13.
			if p.cur().Type == dsllexer.COMMA {
				p.advance()
			}
			continue
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, dslast.NamedArg{Key: key, Value: val, Pos: toPos(keyTok)})
		if p.cur().Type == dsllexer.COMMA {
			p.advance()
		}
	}
	return args, nil
}

// parseExpr parses an additive arithmetic expression over unary/primary
// terms — enough to support the constant-folding and temp-var hoisting
// rules of §4.13.
func (p *Parser) parseExpr() (dslast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == dsllexer.PLUS || p.cur().Type == dsllexer.MINUS ||
		p.cur().Type == dsllexer.STAR || p.cur().Type == dsllexer.SLASH {
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = dslast.BinaryExpr{Op: opTok.Lit, Left: left, Right: right, Pos_: toPos(opTok)}
	}
	return left, nil
}

func (p *Parser) parseUnary() (dslast.Expr, error) {
	if p.cur().Type == dsllexer.MINUS {
		opTok := p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return dslast.UnaryExpr{Op: "-", Operand: operand, Pos_: toPos(opTok)}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (dslast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case dsllexer.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(dsllexer.RPAREN, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case dsllexer.NUMBER:
		p.advance()
		n, _ := strconv.ParseFloat(tok.Lit, 64)
		return dslast.NumberLit{Value: n, Raw: tok.Lit, Pos_: toPos(tok)}, nil
	case dsllexer.STRING:
		p.advance()
		return dslast.StringLit{Value: tok.Lit, Pos_: toPos(tok)}, nil
	case dsllexer.PLACEHOLDER:
		p.advance()
		name, tail := splitPlaceholder(tok.Lit)
		return dslast.Placeholder{Name: name, Tail: tail, Pos_: toPos(tok)}, nil
	case dsllexer.IDENT:
		// Either a bare identifier, or a call literal like item(...)/loc(...).
		name := tok.Lit
		p.advance()
		if p.cur().Type == dsllexer.LPAREN {
			return p.parseCallLit(name, toPos(tok))
		}
		return dslast.Ident{Name: name, Pos_: toPos(tok)}, nil
	default:
		return nil, errAt(tok, "expected an expression, got "+tokenDesc(tok))
	}
}

func (p *Parser) parseCallLit(name string, pos dslast.Pos) (dslast.Expr, error) {
	p.advance() // "("
	lit := dslast.CallLit{Name: name, Pos_: pos}
	for p.cur().Type != dsllexer.RPAREN {
		// key=value named form, or a bare positional expr.
		if p.cur().Type == dsllexer.IDENT && p.peek().Type == dsllexer.EQUALS {
			keyTok := p.advance()
			p.advance() // "="
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Named = append(lit.Named, dslast.NamedArg{Key: keyTok.Lit, Value: val, Pos: toPos(keyTok)})
		} else {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Positional = append(lit.Positional, val)
		}
		if p.cur().Type == dsllexer.COMMA {
			p.advance()
		}
	}
	p.advance() // ")"
	return lit, nil
}

func splitPlaceholder(lit string) (name, tail string) {
	body := strings.TrimPrefix(lit, "%")
	idx := strings.Index(body, "%")
	if idx < 0 {
		return body, ""
	}
	return body[:idx], body[idx+1:]
}

func (p *Parser) parseMultiSelect() (dslast.Stmt, error) {
	pos := p.cur()
	p.advance() // "multiselect"
	scopeTok, err := p.expect(dsllexer.IDENT, "multiselect scope")
	if err != nil {
		return nil, err
	}
	selTok, err := p.expect(dsllexer.IDENT, "multiselect selector")
	if err != nil {
		return nil, err
	}
	cutoff, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(dsllexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	var lines []dslast.MultiSelectLine
	p.skipNewlines()
	for p.cur().Type != dsllexer.RBRACE {
		line, err := p.parseMultiSelectLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		p.skipNewlines()
	}
	p.advance() // "}"
	return dslast.MultiSelect{Scope: scopeTok.Lit, Selector: selTok.Lit, Cutoff: cutoff, Body: lines, Pos_: toPos(pos)}, nil
}

func (p *Parser) parseMultiSelectLine() (dslast.MultiSelectLine, error) {
	call, err := p.parseCallStatement()
	if err != nil {
		return dslast.MultiSelectLine{}, err
	}
	line := dslast.MultiSelectLine{Call: call}
	switch p.cur().Type {
	case dsllexer.PLUS:
		p.advance()
		line.Weight = "+"
	case dsllexer.MINUS:
		p.advance()
		line.Weight = "-"
		if n, err := p.maybeNumber(); err == nil && n != nil {
			line.Factor = n
		}
	case dsllexer.STAR:
		p.advance()
		line.Weight = "*"
		if n, err := p.maybeNumber(); err == nil && n != nil {
			line.Factor = n
		}
	case dsllexer.SLASHEQ:
		p.advance()
		line.Weight = "/="
		val, err := p.parseExpr()
		if err != nil {
			return dslast.MultiSelectLine{}, err
		}
		line.Factor = val
	}
	return line, nil
}

func (p *Parser) maybeNumber() (dslast.Expr, error) {
	if p.cur().Type == dsllexer.NUMBER {
		tok := p.advance()
		n, _ := strconv.ParseFloat(tok.Lit, 64)
		return dslast.NumberLit{Value: n, Raw: tok.Lit, Pos_: toPos(tok)}, nil
	}
	return nil, nil
}

func toPos(t dsllexer.Token) dslast.Pos { return dslast.Pos{Line: t.Line, Column: t.Column} }
