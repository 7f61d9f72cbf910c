// Package parser implements a recursive-descent, Pratt-style parser:
// tokens from internal/lexer become nodes of the arena-allocated
// internal/ast, per spec §4.A "Lexer & Parser (purely syntactic)".
//
// Grounded on the teacher compiler's internal/parser (the same
// operator-precedence table and prefix/infix parse-function
// dispatch), adapted to push nodes into an ast.Arena by id instead of
// allocating pointer-linked nodes, and to report PAR### diagnostics
// into an errors.Queue instead of a plain []error.
package parser

import (
	"fmt"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/lexer"
)

// Precedence levels, carried over from the teacher's table.
const (
	LOWEST int = iota
	LAMBDA
	LogicalOr
	LogicalAnd
	EQUALS
	LESSGREATER
	APPEND
	SUM
	PRODUCT
	PREFIX
	CALL
	DotAccess
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      LogicalOr,
	lexer.AND:     LogicalAnd,
	lexer.EQ:      EQUALS,
	lexer.NEQ:     EQUALS,
	lexer.LT:      LESSGREATER,
	lexer.GT:      LESSGREATER,
	lexer.LTE:     LESSGREATER,
	lexer.GTE:     LESSGREATER,
	lexer.APPEND:  APPEND,
	lexer.CONS:    APPEND,
	lexer.PLUS:    SUM,
	lexer.MINUS:   SUM,
	lexer.STAR:    PRODUCT,
	lexer.SLASH:   PRODUCT,
	lexer.PERCENT: PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.DOT:      DotAccess,
	lexer.LBRACKET: DotAccess,
}

type (
	prefixParseFn func() ast.ExprId
	infixParseFn  func(ast.ExprId) ast.ExprId
)

// Parser turns one file's token stream into an ast.File, pushing every
// node into the shared Arena as it goes.
type Parser struct {
	l        *lexer.Lexer
	arena    *ast.Arena
	names    *intern.Interner
	queue    *errors.Queue
	filename string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading from l, interning identifiers via names
// and pushing nodes into arena. Diagnostics go to queue as PAR### Reports.
func New(l *lexer.Lexer, arena *ast.Arena, names *intern.Interner, queue *errors.Queue, filename string) *Parser {
	p := &Parser{l: l, arena: arena, names: names, queue: queue, filename: filename}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:     p.parseIdentifier,
		lexer.INT:       p.parseIntegerLiteral,
		lexer.FLOAT:     p.parseFloatLiteral,
		lexer.STRING:    p.parseStringLiteral,
		lexer.CHAR:      p.parseCharLiteral,
		lexer.TRUE:      p.parseBooleanLiteral,
		lexer.FALSE:     p.parseBooleanLiteral,
		lexer.UNIT:      p.parseUnitLiteral,
		lexer.LPAREN:    p.parseGroupedOrTuple,
		lexer.LBRACKET:  p.parseListLiteral,
		lexer.LBRACE:    p.parseRecordLiteral,
		lexer.MINUS:     p.parsePrefixExpression,
		lexer.NOT:       p.parsePrefixExpression,
		lexer.BANG:      p.parsePrefixExpression,
		lexer.IF:        p.parseIfExpression,
		lexer.LET:       p.parseLetExpression,
		lexer.MATCH:     p.parseMatchExpression,
		lexer.FUNC:      p.parseLambda,
		lexer.PURE:      p.parsePureLambda,
		lexer.BACKSLASH: p.parseBackslashLambda,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:    p.parseInfixExpression,
		lexer.MINUS:   p.parseInfixExpression,
		lexer.STAR:    p.parseInfixExpression,
		lexer.SLASH:   p.parseInfixExpression,
		lexer.PERCENT: p.parseInfixExpression,
		lexer.EQ:      p.parseInfixExpression,
		lexer.NEQ:     p.parseInfixExpression,
		lexer.LT:      p.parseInfixExpression,
		lexer.GT:      p.parseInfixExpression,
		lexer.LTE:     p.parseInfixExpression,
		lexer.GTE:     p.parseInfixExpression,
		lexer.AND:     p.parseInfixExpression,
		lexer.OR:      p.parseInfixExpression,
		lexer.APPEND:  p.parseInfixExpression,
		lexer.CONS:    p.parseInfixExpression,
		lexer.LPAREN:   p.parseCallExpression,
		lexer.DOT:      p.parseRecordAccess,
		lexer.LBRACKET: p.parseIndexExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curSpan() ast.Span {
	return ast.Span{Start: p.curToken.Pos, End: p.curToken.EndPos}
}

func (p *Parser) spanFrom(start ast.Span) ast.Span {
	return ast.Span{Start: start.Start, End: p.curToken.EndPos}
}

// report pushes one PAR### diagnostic at the current token's span.
func (p *Parser) report(code, message string) {
	info, _ := errors.Lookup(code)
	p.queue.Push(&errors.Report{
		Schema: "sigil.diagnostic/v1", Code: code, Severity: info.Severity, Phase: "parse",
		Message: message, PrimarySpan: p.curSpan(), PrimaryLabel: message,
	})
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.report(errors.PAR001, fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type))
}

func (p *Parser) noPrefixParseFnError(t lexer.TokenType) {
	p.report(errors.PAR001, fmt.Sprintf("unexpected token in expression: %s", t))
}

// errorExpr pushes a recovered ExprError node at the current span, so
// the rest of the tree still canonicalises even after a syntax error.
func (p *Parser) errorExpr() ast.ExprId {
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprError, Span: p.curSpan()})
}

// ParseExpr parses a single standalone expression rather than a whole
// file, for callers that only ever hand the parser one expression at a
// time (the REPL's prompt, a future `--eval` CLI flag).
func (p *Parser) ParseExpr() ast.ExprId {
	return p.parseExpression(LOWEST)
}

// Parse parses the whole token stream as one file: an optional module
// declaration, optional imports, and a sequence of top-level function
// declarations (spec §4.A/§4.B's File input to the rest of the pipeline).
func (p *Parser) Parse() *ast.File {
	f := &ast.File{ModulePath: intern.EMPTY}

	for p.curTokenIs(lexer.MODULE) {
		p.nextToken()
		if p.curTokenIs(lexer.IDENT) {
			f.ModulePath = p.names.Intern(p.curToken.Literal)
			p.nextToken()
		}
	}
	for p.curTokenIs(lexer.IMPORT) {
		p.nextToken()
		if p.curTokenIs(lexer.IDENT) {
			f.Imports = append(f.Imports, p.names.Intern(p.curToken.Literal))
			p.nextToken()
		}
	}

	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.PURE) || p.curTokenIs(lexer.FUNC) {
			if fn, ok := p.parseFuncDecl(); ok {
				f.Funcs = append(f.Funcs, fn)
			}
		} else {
			p.report(errors.PAR003, fmt.Sprintf("expected a top-level function declaration, got %s", p.curToken.Type))
		}
		p.nextToken()
	}

	return f
}
