package parser

import (
	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/lexer"
)

// parsePattern parses one match-arm (or let-binding) pattern, including
// the `p1 | p2 | ...` or-pattern form at the top level.
func (p *Parser) parsePattern() ast.PatternId {
	first := p.parsePatternPrimary()
	if !p.peekTokenIs(lexer.PIPE) {
		return first
	}

	start := p.arena.Pattern(first).Span
	subs := []ast.PatternId{first}
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		p.nextToken()
		subs = append(subs, p.parsePatternPrimary())
	}
	return p.arena.PushPattern(ast.Pattern{Kind: ast.PatOr, Sub: p.arena.PushPatternList(subs), Span: p.spanFrom(start)})
}

func (p *Parser) parsePatternPrimary() ast.PatternId {
	span := p.curSpan()

	switch p.curToken.Type {
	case lexer.IDENT:
		if p.curToken.Literal == "_" {
			return p.arena.PushPattern(ast.Pattern{Kind: ast.PatWildcard, Span: span})
		}
		if p.peekTokenIs(lexer.LPAREN) {
			ctor := p.names.Intern(p.curToken.Literal)
			p.nextToken() // consume '('
			p.nextToken()
			var args []ast.PatternId
			for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
				args = append(args, p.parsePattern())
				p.nextToken()
				if p.curTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
			return p.arena.PushPattern(ast.Pattern{Kind: ast.PatConstructor, Ctor: ctor, CtorArgs: p.arena.PushPatternList(args), Span: p.spanFrom(span)})
		}
		name := p.names.Intern(p.curToken.Literal)
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatBinding, Name: name, Span: span})

	case lexer.INT:
		lo := p.curToken.Literal
		loVal := parseIntLiteral(lo)
		if p.peekTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			p.nextToken()
			hiVal := parseIntLiteral(p.curToken.Literal)
			return p.arena.PushPattern(ast.Pattern{Kind: ast.PatRange, RangeLo: loVal, RangeHi: hiVal, RangeInclusive: true, Span: p.spanFrom(span)})
		}
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatLiteral, LitKind: ast.LitInt, IntVal: loVal, Span: span})

	case lexer.FLOAT:
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatLiteral, LitKind: ast.LitFloat, FltVal: parseFloatLiteral(p.curToken.Literal), Span: span})

	case lexer.STRING:
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatLiteral, LitKind: ast.LitString, StrVal: p.names.Intern(p.curToken.Literal), Span: span})

	case lexer.CHAR:
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatLiteral, LitKind: ast.LitChar, StrVal: p.names.Intern(p.curToken.Literal), Span: span})

	case lexer.TRUE, lexer.FALSE:
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatLiteral, LitKind: ast.LitBool, BoolVal: p.curTokenIs(lexer.TRUE), Span: span})

	case lexer.LPAREN:
		p.nextToken()
		var elems []ast.PatternId
		for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
			elems = append(elems, p.parsePattern())
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatTuple, Sub: p.arena.PushPatternList(elems), Span: p.spanFrom(span)})

	case lexer.LBRACKET:
		return p.parseListPattern(span)

	case lexer.LBRACE:
		return p.parseRecordPattern(span)

	default:
		p.report(errors.PAR008, "unexpected token in pattern: "+p.curToken.Type.String())
		return p.arena.PushPattern(ast.Pattern{Kind: ast.PatWildcard, Span: span})
	}
}

func (p *Parser) parseListPattern(span ast.Span) ast.PatternId {
	p.nextToken()
	var head []ast.PatternId
	var tail []ast.PatternId
	hasRest := false
	restName := p.names.Intern("")

	target := &head
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.ELLIPSIS) {
			p.nextToken()
			hasRest = true
			if p.curTokenIs(lexer.IDENT) {
				restName = p.names.Intern(p.curToken.Literal)
			}
			target = &tail
		} else {
			*target = append(*target, p.parsePattern())
		}
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return p.arena.PushPattern(ast.Pattern{
		Kind: ast.PatList, Head: p.arena.PushPatternList(head), Rest: restName, HasRest: hasRest,
		Tail: p.arena.PushPatternList(tail), Span: p.spanFrom(span),
	})
}

func (p *Parser) parseRecordPattern(span ast.Span) ast.PatternId {
	p.nextToken()
	var fields []ast.FieldPattern
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.report(errors.PAR008, "expected a field name in record pattern")
			break
		}
		name := p.names.Intern(p.curToken.Literal)
		var pat ast.PatternId
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			pat = p.parsePattern()
		} else {
			pat = p.arena.PushPattern(ast.Pattern{Kind: ast.PatBinding, Name: name, Span: p.curSpan()})
		}
		fields = append(fields, ast.FieldPattern{Name: name, Pattern: pat})
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	return p.arena.PushPattern(ast.Pattern{Kind: ast.PatRecord, RecFields: p.arena.PushFieldPatterns(fields), Span: p.spanFrom(span)})
}
