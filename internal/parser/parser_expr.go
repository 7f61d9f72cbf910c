package parser

import (
	"strconv"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/lexer"
)

// parseExpression is the Pratt-parsing core: a prefix parse followed by
// zero or more infix extensions bound by precedence, the same loop
// shape as the teacher's parser.
func (p *Parser) parseExpression(precedence int) ast.ExprId {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.noPrefixParseFnError(p.curToken.Type)
		return p.errorExpr()
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.ExprId {
	span := p.curSpan()
	name := p.names.Intern(p.curToken.Literal)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: name, Span: span})
}

func (p *Parser) parseIntegerLiteral() ast.ExprId {
	span := p.curSpan()
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.report(errors.PAR001, "invalid integer literal: "+p.curToken.Literal)
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: v, Span: span})
}

func (p *Parser) parseFloatLiteral() ast.ExprId {
	span := p.curSpan()
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.report(errors.PAR001, "invalid float literal: "+p.curToken.Literal)
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitFloat, FltVal: v, Span: span})
}

func (p *Parser) parseStringLiteral() ast.ExprId {
	span := p.curSpan()
	v := p.names.Intern(p.curToken.Literal)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitString, StrVal: v, Span: span})
}

func (p *Parser) parseCharLiteral() ast.ExprId {
	span := p.curSpan()
	v := p.names.Intern(p.curToken.Literal)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitChar, StrVal: v, Span: span})
}

func (p *Parser) parseBooleanLiteral() ast.ExprId {
	span := p.curSpan()
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitBool, BoolVal: p.curTokenIs(lexer.TRUE), Span: span})
}

func (p *Parser) parseUnitLiteral() ast.ExprId {
	span := p.curSpan()
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitUnit, Span: span})
}

func (p *Parser) parsePrefixExpression() ast.ExprId {
	start := p.curSpan()
	op := p.operatorName()
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprUnary, Op: op, Left: operand, Right: ast.NoExpr, Span: p.spanFrom(start)})
}

// operatorName interns the current token's canonical operator spelling
// (so "not"/"!" both intern to the same "!" the canonicaliser's
// constant folder matches on).
func (p *Parser) operatorName() intern.Name {
	switch p.curToken.Type {
	case lexer.NOT, lexer.BANG:
		return p.names.Intern("!")
	case lexer.MINUS:
		return p.names.Intern("-")
	default:
		return p.names.Intern(p.curToken.Literal)
	}
}

func (p *Parser) parseInfixExpression(left ast.ExprId) ast.ExprId {
	start := p.arena.Expr(left).Span
	op := p.operatorName()
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprBinary, Op: op, Left: left, Right: right, Span: p.spanFrom(start)})
}

// parseGroupedOrTuple handles `(expr)` (grouping) and `(e1, e2, ...)`
// (tuple literal); both share the LPAREN prefix slot.
func (p *Parser) parseGroupedOrTuple() ast.ExprId {
	start := p.curSpan()
	p.nextToken()
	if p.curTokenIs(lexer.RPAREN) {
		return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitUnit, Span: p.spanFrom(start)})
	}

	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return first
	}

	elems := []ast.ExprId{first}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.RPAREN) {
		return p.errorExpr()
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprTuple, Elems: p.arena.PushExprList(elems), Span: p.spanFrom(start)})
}

func (p *Parser) parseListLiteral() ast.ExprId {
	start := p.curSpan()
	var elems []ast.ExprId
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			inner := p.parseExpression(LOWEST)
			spanStart := p.curSpan()
			elems = append(elems, p.arena.PushExpr(ast.Expr{Kind: ast.ExprSpread, Inner: inner, Span: spanStart}))
		} else {
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.curTokenIs(lexer.RBRACKET) {
		p.report(errors.PAR002, "missing closing ']'")
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprList, Elems: p.arena.PushExprList(elems), Span: p.spanFrom(start)})
}

// parseRecordLiteral handles `{ name: value, ... }` and, when the first
// entry is a spread, `{ ...base, name: value, ... }` (a record update
// over base), per spec §4.G's spread-desugaring and record-update
// vocabulary.
func (p *Parser) parseRecordLiteral() ast.ExprId {
	start := p.curSpan()
	p.nextToken()

	var base ast.ExprId = ast.NoExpr
	if p.curTokenIs(lexer.ELLIPSIS) {
		p.nextToken()
		base = p.parseExpression(LOWEST)
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	var fields []ast.FieldInit
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.report(errors.PAR001, "expected a field name in record literal")
			break
		}
		name := p.names.Intern(p.curToken.Literal)
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		fields = append(fields, ast.FieldInit{Name: name, Value: value})
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.report(errors.PAR002, "missing closing '}'")
	}

	if base != ast.NoExpr {
		return p.arena.PushExpr(ast.Expr{Kind: ast.ExprRecordUpdate, Base: base, Fields: p.arena.PushFields(fields), Span: p.spanFrom(start)})
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprRecord, Fields: p.arena.PushFields(fields), Span: p.spanFrom(start)})
}

func (p *Parser) parseRecordAccess(record ast.ExprId) ast.ExprId {
	start := p.arena.Expr(record).Span
	if !p.expectPeek(lexer.IDENT) {
		return p.errorExpr()
	}
	field := p.names.Intern(p.curToken.Literal)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprRecordAccess, Record: record, Field: field, Span: p.spanFrom(start)})
}

// parseCallExpression disambiguates a positional call `f(a, b)` from a
// named-argument call `f(name: a, other: b)` by looking for an
// `IDENT COLON` pair at the start of each argument, per spec §4.G
// "Named-argument calls -> positional calls". A callee that is itself
// a record access (`recv.method`) names a method call (spec §4.E)
// rather than a call to a field value, so that shape is peeled off
// into ExprMethodCall before the usual disambiguation runs.
func (p *Parser) parseCallExpression(callee ast.ExprId) ast.ExprId {
	start := p.arena.Expr(callee).Span
	p.nextToken() // consume '('

	if access := p.arena.Expr(callee); access.Kind == ast.ExprRecordAccess {
		return p.parseMethodCallArgs(access.Record, access.Field, start)
	}

	if p.curTokenIs(lexer.RPAREN) {
		return p.arena.PushExpr(ast.Expr{Kind: ast.ExprCall, Callee: callee, Args: ast.Range{}, Span: p.spanFrom(start)})
	}

	named := p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.COLON)

	if named {
		var args []ast.NamedArg
		for {
			name := p.names.Intern(p.curToken.Literal)
			p.nextToken() // consume ':'
			p.nextToken()
			value := p.parseExpression(LOWEST)
			args = append(args, ast.NamedArg{Name: name, Value: value})
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
				continue
			}
			break
		}
		if !p.curTokenIs(lexer.RPAREN) {
			p.report(errors.PAR002, "missing closing ')'")
		}
		return p.arena.PushExpr(ast.Expr{Kind: ast.ExprCallNamed, Callee: callee, Args: p.arena.PushNamedArgs(args), Span: p.spanFrom(start)})
	}

	var args []ast.ExprId
	for {
		args = append(args, p.parseExpression(LOWEST))
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(lexer.RPAREN) {
		p.report(errors.PAR002, "missing closing ')'")
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprCall, Callee: callee, Args: p.arena.PushExprList(args), Span: p.spanFrom(start)})
}

// parseMethodCallArgs parses a method call's positional argument list;
// the caller has already consumed `recv.method(`. Method calls take
// only positional arguments -- the named-argument shape is specific to
// top-level/closure calls (spec §4.G), and no example in spec §8 uses
// named arguments on a method.
func (p *Parser) parseMethodCallArgs(recv ast.ExprId, method intern.Name, start ast.Span) ast.ExprId {
	if p.curTokenIs(lexer.RPAREN) {
		return p.arena.PushExpr(ast.Expr{Kind: ast.ExprMethodCall, Record: recv, Field: method, Args: ast.Range{}, Span: p.spanFrom(start)})
	}
	var args []ast.ExprId
	for {
		args = append(args, p.parseExpression(LOWEST))
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.curTokenIs(lexer.RPAREN) {
		p.report(errors.PAR002, "missing closing ')'")
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprMethodCall, Record: recv, Field: method, Args: p.arena.PushExprList(args), Span: p.spanFrom(start)})
}

// parseIndexExpression handles `recv[i]` (spec §4.D "Index").
func (p *Parser) parseIndexExpression(recv ast.ExprId) ast.ExprId {
	start := p.arena.Expr(recv).Span
	p.nextToken() // consume '['
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return p.errorExpr()
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprIndex, Record: recv, Right: idx, Span: p.spanFrom(start)})
}

func (p *Parser) parseIfExpression() ast.ExprId {
	start := p.curSpan()
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.THEN) {
		return p.errorExpr()
	}
	p.nextToken()
	then := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.ELSE) {
		return p.errorExpr()
	}
	p.nextToken()
	els := p.parseExpression(LOWEST)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprIf, Cond: cond, Then: then, Else: els, Span: p.spanFrom(start)})
}

// parseLetExpression handles `let name [: type] = value in body`. A
// second `let rec` form (a single, self-recursive binding)
// is marked by the `rec` contextual identifier right after `let`.
func (p *Parser) parseLetExpression() ast.ExprId {
	start := p.curSpan()
	p.nextToken()

	isRec := p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "rec"
	if isRec {
		p.nextToken()
	}
	if !p.curTokenIs(lexer.IDENT) {
		p.report(errors.PAR001, "expected a binding name after 'let'")
		return p.errorExpr()
	}
	name := p.names.Intern(p.curToken.Literal)

	bindType := ast.NoType
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		bindType = p.parseTypeExpr()
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return p.errorExpr()
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.IN) {
		return p.errorExpr()
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)

	kind := ast.ExprLet
	if isRec {
		kind = ast.ExprLetRec
	}
	return p.arena.PushExpr(ast.Expr{Kind: kind, BindName: name, BindType: bindType, Value: value, Body: body, Span: p.spanFrom(start)})
}

func (p *Parser) parseMatchExpression() ast.ExprId {
	start := p.curSpan()
	p.nextToken()
	scrutinee := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return p.errorExpr()
	}
	p.nextToken()

	var arms []ast.MatchArmId
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		armStart := p.curSpan()
		pat := p.parsePattern()

		guard := ast.NoExpr
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			p.nextToken()
			guard = p.parseExpression(LOWEST)
		}
		if !p.expectPeek(lexer.FARROW) {
			break
		}
		p.nextToken()
		body := p.parseExpression(LOWEST)
		arms = append(arms, p.arena.PushArm(ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: p.spanFrom(armStart)}))

		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.report(errors.PAR002, "missing closing '}'")
	}
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprMatch, Scrutinee: scrutinee, Arms: p.arena.PushArmList(arms), Span: p.spanFrom(start)})
}

// parseParamList parses a parenthesised, comma-separated parameter list
// shared by `func` declarations and lambdas: `(name: type, name2: type2)`.
func (p *Parser) parseParamList() ast.Range {
	var params []ast.Param
	if p.peekTokenIs(lexer.UNIT) {
		// The lexer folds `()` into one UNIT token: an empty list. Leave
		// curToken on it, retagged as the closing ')' callers check for.
		p.nextToken()
		p.curToken.Type = lexer.RPAREN
		return ast.Range{}
	}
	if !p.expectPeek(lexer.LPAREN) {
		return ast.Range{}
	}
	p.nextToken()
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		span := p.curSpan()
		if !p.curTokenIs(lexer.IDENT) {
			p.report(errors.PAR003, "expected a parameter name")
			break
		}
		name := p.names.Intern(p.curToken.Literal)
		ty := ast.NoType
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			ty = p.parseTypeExpr()
		}
		params = append(params, ast.Param{Name: name, Type: ty, Span: span})
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return p.arena.PushParams(params)
}

func (p *Parser) parseLambda() ast.ExprId {
	start := p.curSpan()
	params := p.parseParamList()
	if !p.curTokenIs(lexer.RPAREN) {
		p.report(errors.PAR003, "missing closing ')' in lambda parameter list")
	}
	if !p.expectPeek(lexer.FARROW) {
		return p.errorExpr()
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLambda, Params: params, Body: body, Span: p.spanFrom(start)})
}

// parsePureLambda treats a leading `pure` on an expression-position
// lambda as ambient documentation only; the effect row itself lives in
// a function declaration's signature, not on the surface expression
// node (spec's Non-goals exclude a full effect-row encoding here).
func (p *Parser) parsePureLambda() ast.ExprId {
	p.nextToken()
	return p.parseLambda()
}

// parseBackslashLambda handles the terse `\x -> body` / `\(x, y) -> body`
// lambda form.
func (p *Parser) parseBackslashLambda() ast.ExprId {
	start := p.curSpan()
	p.nextToken()

	var params ast.Range
	if p.curTokenIs(lexer.LPAREN) {
		var list []ast.Param
		p.nextToken()
		for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
			span := p.curSpan()
			name := p.names.Intern(p.curToken.Literal)
			ty := ast.NoType
			if p.peekTokenIs(lexer.COLON) {
				p.nextToken()
				p.nextToken()
				ty = p.parseTypeExpr()
			}
			list = append(list, ast.Param{Name: name, Type: ty, Span: span})
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		params = p.arena.PushParams(list)
	} else {
		span := p.curSpan()
		name := p.names.Intern(p.curToken.Literal)
		params = p.arena.PushParams([]ast.Param{{Name: name, Type: ast.NoType, Span: span}})
		p.nextToken()
	}

	if !p.curTokenIs(lexer.ARROW) && !p.curTokenIs(lexer.FARROW) {
		p.report(errors.PAR001, "expected '->' or '=>' after lambda parameters")
		return p.errorExpr()
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return p.arena.PushExpr(ast.Expr{Kind: ast.ExprLambda, Params: params, Body: body, Span: p.spanFrom(start)})
}
