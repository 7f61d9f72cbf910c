package parser

import (
	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/lexer"
)

// parseTypeExpr parses a surface type annotation: a name (possibly
// generic, `List<T>`), a tuple `(T1, T2)`, or a function type
// `(T1, T2) -> T3`. Unresolved until the type checker maps it to a
// types.Idx.
func (p *Parser) parseTypeExpr() ast.TypeExprId {
	span := p.curSpan()

	switch {
	case p.curTokenIs(lexer.LPAREN):
		return p.parseTupleOrFuncType(span)
	case p.curTokenIs(lexer.IDENT):
		name := p.names.Intern(p.curToken.Literal)
		if !p.peekTokenIs(lexer.LT) {
			return p.arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: name, Span: span})
		}
		p.nextToken() // consume '<'
		p.nextToken()
		var args []ast.TypeExprId
		args = append(args, p.parseTypeExpr())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			args = append(args, p.parseTypeExpr())
		}
		if !p.expectPeek(lexer.GT) {
			return p.arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: name, Span: span})
		}
		return p.arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyApp, Name: name, Args: p.arena.PushTypeExprList(args), Span: p.spanFrom(span)})
	default:
		p.report(errors.PAR009, "expected a type annotation")
		return ast.NoType
	}
}

// parseTupleOrFuncType parses `(T1, T2, ...)`, optionally followed by
// `-> Tret`, in which case it is a function type rather than a tuple.
func (p *Parser) parseTupleOrFuncType(start ast.Span) ast.TypeExprId {
	p.nextToken() // consume '('
	var elems []ast.TypeExprId
	if !p.curTokenIs(lexer.RPAREN) {
		elems = append(elems, p.parseTypeExpr())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseTypeExpr())
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return ast.NoType
	}

	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		ret := p.parseTypeExpr()
		return p.arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyFunc, Params: p.arena.PushTypeExprList(elems), Ret: ret, Span: p.spanFrom(start)})
	}
	return p.arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyTuple, Elems: p.arena.PushTypeExprList(elems), Span: p.spanFrom(start)})
}
