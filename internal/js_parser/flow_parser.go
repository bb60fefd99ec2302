// This file contains code for parsing Flow syntax. Like TypeScript types,
// Flow types are recorded in a type context and removed later.

package js_parser

import (
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
)

func (p *parser) flowParseType() {
	oldIsType := p.pushTypeContext(0)
	oldNoAnon := p.noAnonFunctionType
	p.flowParseUnionType()
	p.noAnonFunctionType = oldNoAnon
	p.popTypeContext(oldIsType)
}

// Nested types inside brackets and parentheses may always be function types
func (p *parser) flowParseNestedType() {
	oldNoAnon := p.noAnonFunctionType
	p.noAnonFunctionType = false
	p.flowParseUnionType()
	p.noAnonFunctionType = oldNoAnon
}

func (p *parser) flowParseTypeAnnotation() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TColon)
	p.flowParseType()
	p.popTypeContext(oldIsType)
}

// "(x: mixed): boolean %checks" and "(x: mixed): %checks"
func (p *parser) flowParseTypeAndPredicateInitialiser() {
	oldIsType := p.pushTypeContext(0)
	p.expect(js_lexer.TColon)
	if !p.flowTryParsePredicate() {
		p.flowParseType()
		p.flowTryParsePredicate()
	}
	p.popTypeContext(oldIsType)
}

func (p *parser) flowTryParsePredicate() bool {
	if p.lexer.Token != js_lexer.TPercent {
		return false
	}
	if next, keyword := p.lexer.LookaheadType(); next != js_lexer.TIdentifier || keyword != js_lexer.ContextualChecks {
		return false
	}
	p.next()
	p.next()

	// "declare function f(x: mixed): boolean %checks(typeof x === 'string');"
	if p.eat(js_lexer.TOpenParen) {
		p.parseExpr(false)
		p.expect(js_lexer.TCloseParen)
	}
	return true
}

func (p *parser) flowParseUnionType() {
	p.eat(js_lexer.TBar)
	p.flowParseIntersectionType()
	for p.flowAtUnionBar() {
		p.next()
		p.flowParseIntersectionType()
	}
}

// The "|" in "|}" closes an exact object type instead of continuing a union
func (p *parser) flowAtUnionBar() bool {
	if p.lexer.Token != js_lexer.TBar {
		return false
	}
	next, _ := p.lexer.LookaheadType()
	return next != js_lexer.TCloseBrace
}

func (p *parser) flowParseIntersectionType() {
	p.eat(js_lexer.TAmpersand)
	p.flowParseAnonFunctionWithoutParens()
	for p.eat(js_lexer.TAmpersand) {
		p.flowParseAnonFunctionWithoutParens()
	}
}

// "string => void" is a function type with one unnamed parameter
func (p *parser) flowParseAnonFunctionWithoutParens() {
	p.flowParsePrefixType()
	if !p.noAnonFunctionType && p.eat(js_lexer.TEqualsGreaterThan) {
		p.flowParseUnionType()
	}
}

func (p *parser) flowParsePrefixType() {
	if p.eat(js_lexer.TQuestion) {
		// "?string"
		p.flowParsePrefixType()
		return
	}
	p.flowParsePostfixType()
}

func (p *parser) flowParsePostfixType() {
	p.flowParsePrimaryType()
	for !p.lexer.HasNewlineBefore {
		switch p.lexer.Token {
		case js_lexer.TOpenBracket:
			// "T[]" and "T[K]"
			p.next()
			if p.lexer.Token != js_lexer.TCloseBracket {
				p.flowParseNestedType()
			}
			p.expect(js_lexer.TCloseBracket)

		case js_lexer.TQuestionDot:
			// "T?.[K]"
			if next, _ := p.lexer.LookaheadType(); next != js_lexer.TOpenBracket {
				return
			}
			p.next()
			p.next()
			p.flowParseNestedType()
			p.expect(js_lexer.TCloseBracket)

		default:
			return
		}
	}
}

func (p *parser) flowParsePrimaryType() {
	switch p.lexer.Token {
	case js_lexer.TOpenBrace:
		p.flowParseObjectType(false /* allowStatic */, false /* allowProto */)

	case js_lexer.TOpenBracket:
		// "[number, string]"
		p.next()
		for p.lexer.Token != js_lexer.TCloseBracket {
			p.flowParseNestedType()
			if p.lexer.Token == js_lexer.TCloseBracket {
				break
			}
			p.expect(js_lexer.TComma)
		}
		p.expect(js_lexer.TCloseBracket)

	case js_lexer.TLessThan:
		// "<T>(x: T) => T"
		p.flowParseTypeParameterDeclarationBody()
		p.expect(js_lexer.TOpenParen)
		p.flowParseFunctionTypeParams()
		p.expect(js_lexer.TCloseParen)
		p.expect(js_lexer.TEqualsGreaterThan)
		p.flowParseNestedType()

	case js_lexer.TOpenParen:
		// "(x: T) => U" or "(T) => U" or "(T | U)"
		if p.tryParse(func() {
			p.next()
			p.flowParseFunctionTypeParams()
			p.expect(js_lexer.TCloseParen)
			if p.lexer.Token != js_lexer.TEqualsGreaterThan {
				p.lexer.Unexpected()
			}
		}) {
			p.next()
			p.flowParseNestedType()
			return
		}
		p.next()
		p.flowParseNestedType()
		p.expect(js_lexer.TCloseParen)

	case js_lexer.TStringLiteral, js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TTrue, js_lexer.TFalse,
		js_lexer.TNull, js_lexer.TThis, js_lexer.TVoid, js_lexer.TAsterisk, js_lexer.TNoSubstitutionTemplateLiteral:
		p.next()

	case js_lexer.TMinus:
		// "-1"
		p.next()
		if !p.eat(js_lexer.TBigIntegerLiteral) {
			p.expect(js_lexer.TNumericLiteral)
		}

	case js_lexer.TTypeof:
		// "typeof x"
		p.next()
		p.flowParsePrimaryType()

	case js_lexer.TIdentifier:
		if p.isContextual(js_lexer.ContextualInterface) {
			// "interface { x: number }"
			if next, _ := p.lexer.LookaheadType(); next == js_lexer.TOpenBrace || next == js_lexer.TExtends {
				p.next()
				p.flowParseInterfaceExtends()
				p.flowParseObjectType(false, false)
				return
			}
		}
		p.flowParseGenericType()

	default:
		if p.lexer.IsIdentifierOrKeyword() {
			p.flowParseGenericType()
			return
		}
		p.lexer.Unexpected()
	}
}

// "A.B<T>"
func (p *parser) flowParseGenericType() {
	p.parseIdentifier()
	for p.eat(js_lexer.TDot) {
		p.parseIdentifier()
	}
	if p.lexer.Token == js_lexer.TLessThan {
		p.flowParseTypeParameterInstantiationBody()
	}
}

func (p *parser) flowParseFunctionTypeParams() {
	for p.lexer.Token != js_lexer.TCloseParen {
		p.eat(js_lexer.TDotDotDot)
		p.flowParseFunctionTypeParam()
		if p.lexer.Token == js_lexer.TCloseParen {
			break
		}
		p.expect(js_lexer.TComma)
	}
}

// Parameters of function types may be named or unnamed
func (p *parser) flowParseFunctionTypeParam() {
	if p.lexer.IsIdentifierOrKeyword() {
		if next, _ := p.lexer.LookaheadType(); next == js_lexer.TColon || next == js_lexer.TQuestion {
			p.next()
			p.eat(js_lexer.TQuestion)
			p.expect(js_lexer.TColon)
		}
	}
	p.flowParseNestedType()
}

// Object types also form the bodies of interfaces and declared classes
func (p *parser) flowParseObjectType(allowStatic bool, allowProto bool) {
	p.expect(js_lexer.TOpenBrace)

	// "{| x: number |}" and its empty form "{||}"
	isExact := false
	if p.lexer.Token == js_lexer.TBarBar {
		p.next()
		p.expect(js_lexer.TCloseBrace)
		return
	}
	if p.eat(js_lexer.TBar) {
		isExact = true
	}

	for {
		if isExact && p.eat(js_lexer.TBar) {
			p.expect(js_lexer.TCloseBrace)
			return
		}
		if p.eat(js_lexer.TCloseBrace) {
			return
		}

		p.flowParseObjectTypeMember(allowStatic, allowProto)

		if !p.eat(js_lexer.TComma) && !p.eat(js_lexer.TSemicolon) {
			if p.lexer.Token != js_lexer.TCloseBrace && p.lexer.Token != js_lexer.TBar {
				p.lexer.Expected(js_lexer.TCloseBrace)
			}
		}
	}
}

func (p *parser) flowParseObjectTypeMember(allowStatic bool, allowProto bool) {
	if allowProto && p.isContextual(js_lexer.ContextualProto) {
		if next := p.lexer.Lookahead(); next.IsIdentifierOrKeyword() && !next.HasNewlineBefore {
			p.next()
		}
	}
	if allowStatic && p.isContextual(js_lexer.ContextualStatic) {
		if next, _ := p.lexer.LookaheadType(); next != js_lexer.TOpenParen && next != js_lexer.TColon && next != js_lexer.TQuestion {
			p.next()
		}
	}
	p.flowParseVarianceBody()

	switch p.lexer.Token {
	case js_lexer.TOpenBracket:
		p.next()
		if p.eat(js_lexer.TOpenBracket) {
			// "[[internal]]: T"
			p.parseIdentifier()
			p.expect(js_lexer.TCloseBracket)
			p.expect(js_lexer.TCloseBracket)
			p.eat(js_lexer.TQuestion)
			if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan {
				p.flowParseObjectTypeMethod()
			} else {
				p.expect(js_lexer.TColon)
				p.flowParseNestedType()
			}
			return
		}

		// "[key: K]: V" or "[K]: V"
		if p.lexer.IsIdentifierOrKeyword() {
			if next, _ := p.lexer.LookaheadType(); next == js_lexer.TColon {
				p.next()
				p.next()
			}
		}
		p.flowParseNestedType()
		p.expect(js_lexer.TCloseBracket)
		p.expect(js_lexer.TColon)
		p.flowParseNestedType()

	case js_lexer.TOpenParen, js_lexer.TLessThan:
		// Call property: "{ (x: T): U }"
		p.flowParseObjectTypeMethod()

	case js_lexer.TDotDotDot:
		// "{ ...T }" or the inexact marker "{ x: T, ... }"
		p.next()
		switch p.lexer.Token {
		case js_lexer.TCloseBrace, js_lexer.TComma, js_lexer.TSemicolon, js_lexer.TBar:
		default:
			p.flowParseNestedType()
		}

	default:
		if p.lexer.Token == js_lexer.TStringLiteral || p.lexer.Token == js_lexer.TNumericLiteral {
			p.next()
		} else {
			p.parseIdentifier()
		}

		// "get x(): T" and "set x(v: T): void"
		if last := p.lastToken(); last.Type == js_lexer.TIdentifier &&
			(last.ContextualKeyword == js_lexer.ContextualGet || last.ContextualKeyword == js_lexer.ContextualSet) &&
			(p.lexer.IsIdentifierOrKeyword() || p.lexer.Token == js_lexer.TStringLiteral || p.lexer.Token == js_lexer.TNumericLiteral) {
			p.next()
		}

		if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan {
			p.flowParseObjectTypeMethod()
			return
		}
		p.eat(js_lexer.TQuestion)
		p.expect(js_lexer.TColon)
		p.flowParseNestedType()
	}
}

// "<T>(x: T): U" inside an object type
func (p *parser) flowParseObjectTypeMethod() {
	if p.lexer.Token == js_lexer.TLessThan {
		p.flowParseTypeParameterDeclarationBody()
	}
	p.expect(js_lexer.TOpenParen)
	p.flowParseFunctionTypeParams()
	p.expect(js_lexer.TCloseParen)
	p.expect(js_lexer.TColon)
	p.flowParseNestedType()
}

func (p *parser) flowParseVariance() {
	oldIsType := p.pushTypeContext(0)
	p.flowParseVarianceBody()
	p.popTypeContext(oldIsType)
}

func (p *parser) flowParseVarianceBody() {
	if p.lexer.Token == js_lexer.TPlus || p.lexer.Token == js_lexer.TMinus {
		p.next()
	}
}

func (p *parser) flowNextTokenCanFollowModifier() bool {
	next := p.lexer.Lookahead()
	return canFollowModifier(&next)
}

// "<+T: Bound = Default>"
func (p *parser) flowParseTypeParameterDeclaration() {
	oldIsType := p.pushTypeContext(0)
	p.flowParseTypeParameterDeclarationBody()
	p.popTypeContext(oldIsType)
}

func (p *parser) flowParseTypeParameterDeclarationBody() {
	p.expectLessThan()
	for p.lexer.Token != js_lexer.TGreaterThan {
		p.flowParseVarianceBody()
		p.parseIdentifier()
		if p.eat(js_lexer.TColon) {
			p.flowParseNestedType()
		}
		if p.eat(js_lexer.TEquals) {
			p.flowParseNestedType()
		}
		if p.lexer.Token == js_lexer.TGreaterThan {
			break
		}
		p.expect(js_lexer.TComma)
	}
	p.expectGreaterThan()
}

func (p *parser) flowParseTypeParameterInstantiation() {
	oldIsType := p.pushTypeContext(0)
	p.flowParseTypeParameterInstantiationBody()
	p.popTypeContext(oldIsType)
}

func (p *parser) flowParseTypeParameterInstantiationBody() {
	p.expectLessThan()
	for p.lexer.Token != js_lexer.TGreaterThan {
		p.flowParseNestedType()
		if p.lexer.Token == js_lexer.TGreaterThan {
			break
		}
		p.expect(js_lexer.TComma)
	}
	p.expectGreaterThan()
}

////////////////////////////////////////////////////////////////////////////////
// Classes

func (p *parser) flowAfterParseClassSuper(hasSuper bool) {
	if hasSuper && p.lexer.Token == js_lexer.TLessThan {
		p.flowParseTypeParameterInstantiation()
	}
	if p.isContextual(js_lexer.ContextualImplements) {
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.flowParseHeritageList()
		p.popTypeContext(oldIsType)
	}
}

func (p *parser) flowParseHeritageList() {
	for {
		p.flowParseGenericType()
		if !p.eat(js_lexer.TComma) {
			break
		}
	}
}

func (p *parser) flowParseInterfaceExtends() {
	if p.eat(js_lexer.TExtends) {
		p.flowParseHeritageList()
	}
}

// The name of an interface or a declared class is the current token
func (p *parser) flowParseInterfaceish(isClass bool) {
	p.parseIdentifier()
	if p.lexer.Token == js_lexer.TLessThan {
		p.flowParseTypeParameterDeclarationBody()
	}
	p.flowParseInterfaceExtends()
	if isClass {
		if p.eatContextual(js_lexer.ContextualMixins) {
			p.flowParseHeritageList()
		}
		if p.eatContextual(js_lexer.ContextualImplements) {
			p.flowParseHeritageList()
		}
	}
	p.flowParseObjectType(isClass /* allowStatic */, isClass /* allowProto */)
}

////////////////////////////////////////////////////////////////////////////////
// Statements

// The current token is an identifier at the start of a statement. Returns
// true if it started a type declaration. All of its tokens are types.
func (p *parser) flowTryParseDeclaration() bool {
	next := p.lexer.Lookahead()
	if next.HasNewlineBefore {
		return false
	}
	startIndex := len(p.tokens)
	oldIsType := p.isType

	switch p.lexer.ContextualKeyword {
	case js_lexer.ContextualType:
		if !next.IsIdentifierOrKeyword() {
			return false
		}
		p.isType = true
		p.next()
		p.flowParseTypeAlias()

	case js_lexer.ContextualOpaque:
		if next.Token != js_lexer.TIdentifier || next.ContextualKeyword != js_lexer.ContextualType {
			return false
		}
		p.isType = true
		p.next()
		p.next()
		p.flowParseOpaqueType(false /* isDeclare */)

	case js_lexer.ContextualInterface:
		if next.Token != js_lexer.TIdentifier {
			return false
		}
		p.isType = true
		p.next()
		p.flowParseInterfaceish(false)

	case js_lexer.ContextualDeclare:
		if !flowCanFollowDeclare(&next) {
			return false
		}
		p.isType = true
		p.next()
		p.flowParseDeclare()

	default:
		return false
	}

	p.isType = oldIsType
	p.markTokensAsTypeFrom(startIndex)
	return true
}

func flowCanFollowDeclare(next *js_lexer.Lexer) bool {
	switch next.Token {
	case js_lexer.TClass, js_lexer.TFunction, js_lexer.TVar, js_lexer.TConst, js_lexer.TExport:
		return true

	case js_lexer.TIdentifier:
		switch next.ContextualKeyword {
		case js_lexer.ContextualModule, js_lexer.ContextualType, js_lexer.ContextualOpaque, js_lexer.ContextualInterface:
			return true
		}
		return next.Identifier == "let"
	}
	return false
}

// "type A<T> = B"
func (p *parser) flowParseTypeAlias() {
	p.parseIdentifier()
	if p.lexer.Token == js_lexer.TLessThan {
		p.flowParseTypeParameterDeclarationBody()
	}
	p.expect(js_lexer.TEquals)
	p.flowParseNestedType()
	p.expectOrInsertSemicolon()
}

// "opaque type A: Super = B". A declared opaque type has no right-hand side.
func (p *parser) flowParseOpaqueType(isDeclare bool) {
	p.parseIdentifier()
	if p.lexer.Token == js_lexer.TLessThan {
		p.flowParseTypeParameterDeclarationBody()
	}
	if p.eat(js_lexer.TColon) {
		p.flowParseNestedType()
	}
	if !isDeclare || p.lexer.Token == js_lexer.TEquals {
		p.expect(js_lexer.TEquals)
		p.flowParseNestedType()
	}
	p.expectOrInsertSemicolon()
}

// The "declare" keyword has already been consumed
func (p *parser) flowParseDeclare() {
	switch {
	case p.lexer.Token == js_lexer.TClass:
		p.next()
		p.flowParseInterfaceish(true)

	case p.lexer.Token == js_lexer.TFunction:
		// "declare function f<T>(x: T): T;"
		p.next()
		p.parseIdentifier()
		if p.lexer.Token == js_lexer.TLessThan {
			p.flowParseTypeParameterDeclarationBody()
		}
		p.expect(js_lexer.TOpenParen)
		p.flowParseFunctionTypeParams()
		p.expect(js_lexer.TCloseParen)
		p.flowParseTypeAndPredicateInitialiser()
		p.expectOrInsertSemicolon()

	case p.lexer.Token == js_lexer.TVar, p.lexer.Token == js_lexer.TConst, p.isIdentifierText("let"):
		p.next()
		p.parseIdentifier()
		if p.lexer.Token == js_lexer.TColon {
			p.flowParseTypeAnnotation()
		}
		p.expectOrInsertSemicolon()

	case p.lexer.Token == js_lexer.TExport:
		p.next()
		p.flowParseDeclareExport()

	case p.isContextual(js_lexer.ContextualModule):
		p.next()
		if p.eat(js_lexer.TDot) {
			// "declare module.exports: T"
			p.expectContextual(js_lexer.ContextualExports)
			p.flowParseTypeAnnotation()
			p.expectOrInsertSemicolon()
			return
		}
		if !p.eat(js_lexer.TStringLiteral) {
			p.parseIdentifier()
		}
		p.parseBlock(false, js_ast.NoIndex)

	case p.isContextual(js_lexer.ContextualOpaque):
		p.next()
		p.expectContextual(js_lexer.ContextualType)
		p.flowParseOpaqueType(true /* isDeclare */)

	case p.isContextual(js_lexer.ContextualType):
		p.next()
		p.flowParseTypeAlias()

	case p.isContextual(js_lexer.ContextualInterface):
		p.next()
		p.flowParseInterfaceish(false)

	default:
		p.lexer.Unexpected()
	}
}

// The "declare export" keywords have already been consumed
func (p *parser) flowParseDeclareExport() {
	if p.eat(js_lexer.TDefault) {
		switch p.lexer.Token {
		case js_lexer.TFunction, js_lexer.TClass:
			p.flowParseDeclare()
		default:
			// "declare export default T;"
			p.flowParseNestedType()
			p.expectOrInsertSemicolon()
		}
		return
	}

	switch p.lexer.Token {
	case js_lexer.TAsterisk:
		// "declare export * from 'x'"
		p.next()
		if p.eatContextual(js_lexer.ContextualAs) {
			p.parseIdentifier()
		}
		p.expectContextual(js_lexer.ContextualFrom)
		p.expect(js_lexer.TStringLiteral)
		p.expectOrInsertSemicolon()

	case js_lexer.TOpenBrace:
		// "declare export { a, b }"
		p.parseExportClause()

	default:
		p.flowParseDeclare()
	}
}

// Handles the forms of "export" that only exist in Flow. The "export"
// keyword is the token at "exportIndex".
func (p *parser) tryParseFlowExport(exportIndex int) bool {
	if p.lexer.Token != js_lexer.TIdentifier {
		return false
	}

	if p.isContextual(js_lexer.ContextualType) {
		switch next, _ := p.lexer.LookaheadType(); next {
		case js_lexer.TOpenBrace:
			// "export type {A, B}" and "export type {A} from 'x'"
			p.next()
			p.parseExportClause()
			p.markTokensAsTypeFrom(exportIndex)
			return true

		case js_lexer.TAsterisk:
			// "export type * from 'x'"
			p.next()
			p.next()
			p.expectContextual(js_lexer.ContextualFrom)
			p.expect(js_lexer.TStringLiteral)
			p.expectOrInsertSemicolon()
			p.markTokensAsTypeFrom(exportIndex)
			return true
		}
	}

	if p.flowTryParseDeclaration() {
		p.markExportAsTypeIfDeclarationIsType(exportIndex)
		return true
	}
	return false
}
