package parser

import (
	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/lexer"
)

// parseFuncDecl parses one top-level declaration:
//
//	[pure] func name(params) -> RetType { block }
//	[pure] func name(params) -> RetType = expr
//
// The leading `pure` marker is accepted and discarded at this surface
// level (spec's effect-row encoding is out of scope for the surface
// grammar; a function's purity is re-derived from its body during
// inference instead of trusted from the declaration).
func (p *Parser) parseFuncDecl() (ast.FuncDecl, bool) {
	start := p.curSpan()
	if p.curTokenIs(lexer.PURE) {
		p.nextToken()
	}
	if !p.curTokenIs(lexer.FUNC) {
		p.report(errors.PAR003, "expected 'func'")
		return ast.FuncDecl{}, false
	}
	if !p.expectPeek(lexer.IDENT) {
		return ast.FuncDecl{}, false
	}
	name := p.names.Intern(p.curToken.Literal)

	params := p.parseParamList()
	if !p.curTokenIs(lexer.RPAREN) {
		p.report(errors.PAR003, "missing closing ')' in function parameter list")
		return ast.FuncDecl{}, false
	}

	retType := ast.NoType
	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		retType = p.parseTypeExpr()
	}

	var body ast.ExprId
	switch {
	case p.peekTokenIs(lexer.LBRACE):
		p.nextToken()
		body = p.parseBlock()
	case p.peekTokenIs(lexer.ASSIGN):
		p.nextToken()
		p.nextToken()
		body = p.parseExpression(LOWEST)
	default:
		p.report(errors.PAR003, "expected '{' or '=' to start the function body")
		return ast.FuncDecl{}, false
	}

	return ast.FuncDecl{Name: name, Params: params, ReturnType: retType, Body: body, Span: p.spanFrom(start)}, true
}

// parseBlock parses `{ stmt* }`. Each statement is either a block-local
// `let name [: type] = value` binding (no `in` continuation -- the
// continuation is simply "the rest of the block") or a bare expression,
// mirroring spec §4.G's KindBlock ("each evaluated and discarded except
// the last"). curToken must be LBRACE on entry.
func (p *Parser) parseBlock() ast.ExprId {
	start := p.curSpan()
	p.nextToken()

	var stmts []ast.StmtId
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmts = append(stmts, p.parseBlockStmt())
		p.nextToken()
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.report(errors.PAR002, "missing closing '}'")
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprBlock, Stmts: p.arena.PushStmtList(stmts), Span: p.spanFrom(start)})
}

func (p *Parser) parseBlockStmt() ast.StmtId {
	start := p.curSpan()

	if p.curTokenIs(lexer.LET) {
		p.nextToken()
		if !p.curTokenIs(lexer.IDENT) {
			p.report(errors.PAR001, "expected a binding name after 'let'")
			return p.arena.PushStmt(ast.Stmt{Kind: ast.StmtExpr, Value: p.errorExpr(), Span: start})
		}
		name := p.names.Intern(p.curToken.Literal)

		ty := ast.NoType
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			ty = p.parseTypeExpr()
		}
		if !p.expectPeek(lexer.ASSIGN) {
			return p.arena.PushStmt(ast.Stmt{Kind: ast.StmtExpr, Value: p.errorExpr(), Span: start})
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)

		// `let x = v in body` appearing inside a block is still a
		// self-contained let-expression (one statement), not a
		// block-local binding that threads into later statements.
		if p.peekTokenIs(lexer.IN) {
			p.nextToken()
			p.nextToken()
			body := p.parseExpression(LOWEST)
			expr := p.arena.PushExpr(ast.Expr{Kind: ast.ExprLet, BindName: name, BindType: ty, Value: value, Body: body, Span: p.spanFrom(start)})
			return p.arena.PushStmt(ast.Stmt{Kind: ast.StmtExpr, Value: expr, Span: p.spanFrom(start)})
		}

		return p.arena.PushStmt(ast.Stmt{Kind: ast.StmtLet, Name: name, Type: ty, Value: value, Span: p.spanFrom(start)})
	}

	value := p.parseExpression(LOWEST)
	return p.arena.PushStmt(ast.Stmt{Kind: ast.StmtExpr, Value: value, Span: p.spanFrom(start)})
}
