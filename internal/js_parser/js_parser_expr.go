package js_parser

import (
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
)

// Most expression parsing functions return true if the expression turned out
// to be an arrow function. No subscripts or operators are parsed after an
// arrow function since its body extends as far as possible.

func (p *parser) parseExpr(noIn bool) {
	p.parseMaybeAssign(noIn)
	for p.eat(js_lexer.TComma) {
		p.parseMaybeAssign(noIn)
	}
}

func (p *parser) parseMaybeAssign(noIn bool) bool {
	return p.parseMaybeAssignWithOpts(noIn, false)
}

func (p *parser) parseMaybeAssignWithOpts(noIn bool, isWithinParens bool) bool {
	if p.lexer.Token == js_lexer.TLessThan && p.hasTypes() {
		return p.parseMaybeAssignWithTypeParameters(noIn, isWithinParens)
	}
	return p.parseMaybeAssignBase(noIn, isWithinParens)
}

// A "<" at the start of an expression in a typed file is either a JSX
// element, a generic arrow function like "<T,>(x: T) => x", or a TypeScript
// type assertion like "<T>x".
func (p *parser) parseMaybeAssignWithTypeParameters(noIn bool, isWithinParens bool) (wasArrow bool) {
	if p.options.JSX {
		if p.tryParse(func() { wasArrow = p.parseMaybeAssignBase(noIn, isWithinParens) }) {
			return
		}
	}

	ok := p.tryParse(func() {
		oldIsType := p.pushTypeContext(0)
		if p.isTypeScript() {
			p.tsParseTypeParameters()
		} else {
			p.flowParseTypeParameterDeclaration()
		}
		p.popTypeContext(oldIsType)
		wasArrow = p.parseMaybeAssignBase(noIn, isWithinParens)
		if !wasArrow {
			p.lexer.Unexpected()
		}
	})
	if ok {
		return
	}

	// This either reports the JSX error with the log enabled or parses a
	// type assertion in "parseMaybeUnary"
	return p.parseMaybeAssignBase(noIn, isWithinParens)
}

func (p *parser) parseMaybeAssignBase(noIn bool, isWithinParens bool) bool {
	if p.inGenerator && p.isIdentifierText("yield") {
		p.parseYield(noIn)
		return false
	}

	if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TIdentifier {
		p.potentialArrowAt = p.lexer.Loc().Start
	}

	wasArrow := p.parseMaybeConditional(noIn)
	if isWithinParens {
		p.parseParenItem()
	}
	if p.lexer.Token.IsAssign() {
		p.next()
		p.parseMaybeAssign(noIn)
		return false
	}
	return wasArrow
}

func (p *parser) parseYield(noIn bool) {
	p.next()
	switch p.lexer.Token {
	case js_lexer.TCloseParen, js_lexer.TCloseBracket, js_lexer.TCloseBrace, js_lexer.TComma,
		js_lexer.TSemicolon, js_lexer.TColon, js_lexer.TEndOfFile:
		return
	}
	if p.lexer.HasNewlineBefore {
		return
	}
	p.eat(js_lexer.TAsterisk)
	p.parseMaybeAssign(noIn)
}

// In a typed file, "(x?: T)" and "(x: T)" are parsed as expressions before
// it's known whether they are arrow function parameters
func (p *parser) parseParenItem() {
	if !p.hasTypes() {
		return
	}
	oldIsType := p.pushTypeContext(0)
	p.eat(js_lexer.TQuestion)
	if p.lexer.Token == js_lexer.TColon {
		if p.isTypeScript() {
			p.tsParseTypeAnnotation()
		} else {
			p.flowParseTypeAnnotation()
		}
	}
	p.popTypeContext(oldIsType)
}

func (p *parser) parseMaybeConditional(noIn bool) bool {
	startIndex := len(p.tokens)
	if p.parseExprOps(noIn) {
		return true
	}
	p.parseConditional(noIn, startIndex)
	return false
}

func (p *parser) parseConditional(noIn bool, startIndex int) {
	if p.lexer.Token != js_lexer.TQuestion {
		return
	}

	// "(x?: T)" and "(x?, y)" are optional parameters, not conditionals. The
	// "?" is consumed later by "parseParenItem".
	if p.hasTypes() {
		switch next, _ := p.lexer.LookaheadType(); next {
		case js_lexer.TColon, js_lexer.TComma, js_lexer.TCloseParen, js_lexer.TEquals:
			return
		}
	}

	p.next()
	p.parseMaybeAssign(false)
	p.expect(js_lexer.TColon)
	p.parseMaybeAssign(noIn)
}

func (p *parser) parseExprOps(noIn bool) bool {
	startIndex := len(p.tokens)
	if p.parseMaybeUnary() {
		return true
	}
	p.parseExprOp(startIndex, js_ast.LLowest, noIn)
	return false
}

func binaryOperatorLevel(token js_lexer.T) (js_ast.L, bool) {
	switch token {
	case js_lexer.TQuestionQuestion:
		return js_ast.LNullishCoalescing, true
	case js_lexer.TBarBar:
		return js_ast.LLogicalOr, true
	case js_lexer.TAmpersandAmpersand:
		return js_ast.LLogicalAnd, true
	case js_lexer.TBar:
		return js_ast.LBitwiseOr, true
	case js_lexer.TCaret:
		return js_ast.LBitwiseXor, true
	case js_lexer.TAmpersand:
		return js_ast.LBitwiseAnd, true
	case js_lexer.TEqualsEquals, js_lexer.TExclamationEquals, js_lexer.TEqualsEqualsEquals, js_lexer.TExclamationEqualsEquals:
		return js_ast.LEquals, true
	case js_lexer.TLessThan, js_lexer.TGreaterThan, js_lexer.TLessThanEquals, js_lexer.TGreaterThanEquals,
		js_lexer.TInstanceof, js_lexer.TIn:
		return js_ast.LCompare, true
	case js_lexer.TLessThanLessThan, js_lexer.TGreaterThanGreaterThan, js_lexer.TGreaterThanGreaterThanGreaterThan:
		return js_ast.LShift, true
	case js_lexer.TPlus, js_lexer.TMinus:
		return js_ast.LAdd, true
	case js_lexer.TAsterisk, js_lexer.TSlash, js_lexer.TPercent:
		return js_ast.LMultiply, true
	case js_lexer.TAsteriskAsterisk:
		return js_ast.LExponentiation, true
	}
	return js_ast.LLowest, false
}

// Parses any binary operators with a precedence higher than "level" that
// follow the operand starting at "startIndex"
func (p *parser) parseExprOp(startIndex int, level js_ast.L, noIn bool) {
	// "x as T" and "x satisfies T"
	if p.isTypeScript() && js_ast.LCompare > level && !p.lexer.HasNewlineBefore &&
		(p.isContextual(js_lexer.ContextualAs) || p.isContextual(js_lexer.ContextualSatisfies)) {
		oldIsType := p.pushTypeContext(0)
		p.next()
		if p.lexer.Token == js_lexer.TConst {
			// "x as const"
			p.next()
		} else {
			p.tsParseType()
		}
		p.popTypeContext(oldIsType)
		p.parseExprOp(startIndex, level, noIn)
		return
	}

	// Flow also has "x as T" as of version 0.229
	if p.isFlow() && js_ast.LCompare > level && !p.lexer.HasNewlineBefore && p.isContextual(js_lexer.ContextualAs) {
		oldIsType := p.pushTypeContext(0)
		p.next()
		if p.lexer.Token == js_lexer.TConst {
			p.next()
		} else {
			p.flowParseType()
		}
		p.popTypeContext(oldIsType)
		p.parseExprOp(startIndex, level, noIn)
		return
	}

	opLevel, isBinary := binaryOperatorLevel(p.lexer.Token)
	if !isBinary || (noIn && p.lexer.Token == js_lexer.TIn) || opLevel <= level {
		return
	}

	op := p.lexer.Token
	p.next()
	if op == js_lexer.TQuestionQuestion {
		p.lastToken().NullishStartIndex = int32(startIndex)
	}

	rhsStartIndex := len(p.tokens)
	p.parseMaybeUnary()

	// "**" is right-associative
	rhsLevel := opLevel
	if op == js_lexer.TAsteriskAsterisk {
		rhsLevel--
	}
	p.parseExprOp(rhsStartIndex, rhsLevel, noIn)

	if op == js_lexer.TQuestionQuestion {
		p.tokens[startIndex].NumNullishCoalesceStarts++
		p.lastToken().NumNullishCoalesceEnds++
	}

	p.parseExprOp(startIndex, level, noIn)
}

func (p *parser) parseMaybeUnary() bool {
	// "<T>x" is a type assertion in TypeScript files without JSX
	if p.isTypeScript() && !p.options.JSX && p.lexer.Token == js_lexer.TLessThan {
		p.tsParseTypeAssertion()
		p.parseMaybeUnary()
		return false
	}

	switch p.lexer.Token {
	case js_lexer.TExclamation, js_lexer.TTilde, js_lexer.TPlus, js_lexer.TMinus,
		js_lexer.TPlusPlus, js_lexer.TMinusMinus, js_lexer.TTypeof, js_lexer.TVoid, js_lexer.TDelete:
		p.next()
		p.parseMaybeUnary()
		return false
	}

	if p.parseExprSubscripts() {
		return true
	}

	for (p.lexer.Token == js_lexer.TPlusPlus || p.lexer.Token == js_lexer.TMinusMinus) && !p.canInsertSemicolon() {
		p.next()
	}
	return false
}

func (p *parser) parseExprSubscripts() bool {
	startIndex := len(p.tokens)
	if p.parseExprAtom() {
		return true
	}
	wasArrow := p.parseSubscripts(startIndex, false /* noCalls */)

	// The start token is only marked if there was an optional chain
	if !wasArrow && len(p.tokens) > startIndex && p.tokens[startIndex].IsOptionalChainStart {
		p.lastToken().IsOptionalChainEnd = true
	}
	return wasArrow
}

func (p *parser) parseSubscripts(startIndex int, noCalls bool) (wasArrow bool) {
	for {
		stop, wasArrow := p.parseSubscript(startIndex, noCalls)
		if stop {
			return wasArrow
		}
	}
}

func (p *parser) parseSubscript(startIndex int, noCalls bool) (stop bool, wasArrow bool) {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		// "x!" is a non-null assertion
		if p.lexer.Token == js_lexer.TExclamation && !p.lexer.HasNewlineBefore {
			oldIsType := p.pushTypeContext(0)
			p.next()
			p.popTypeContext(oldIsType)
			return false, false
		}

		// "f<T>()" and "f<T>`x`" and the instantiation expression "f<T>"
		if p.lexer.Token == js_lexer.TLessThan || p.lexer.Token == js_lexer.TLessThanLessThan {
			if p.tsTryParseTypeArgumentsInExpression() {
				if !noCalls && p.lexer.Token == js_lexer.TOpenParen {
					p.parseCallArgs(startIndex)
				} else if p.isTemplateStart() {
					p.parseTemplate()
				}
				return false, false
			}
		}

		// "f?.<T>()"
		if !noCalls && p.lexer.Token == js_lexer.TQuestionDot {
			if next, _ := p.lexer.LookaheadType(); next == js_lexer.TLessThan {
				p.tokens[startIndex].IsOptionalChainStart = true
				p.next()
				p.lastToken().SubscriptStartIndex = int32(startIndex)
				oldIsType := p.pushTypeContext(0)
				p.tsParseTypeArguments()
				p.popTypeContext(oldIsType)
				p.parseCallArgsAfterSubscriptToken()
				return false, false
			}
		}

	case DialectFlow:
		// "f<T>()" is a call with explicit type arguments
		if !noCalls && p.lexer.Token == js_lexer.TLessThan {
			if p.tryParse(func() {
				oldIsType := p.pushTypeContext(0)
				p.flowParseTypeParameterInstantiation()
				p.popTypeContext(oldIsType)
				if p.lexer.Token != js_lexer.TOpenParen {
					p.lexer.Unexpected()
				}
				p.parseCallArgs(startIndex)
			}) {
				return false, false
			}
		}
	}

	switch p.lexer.Token {
	case js_lexer.TQuestionDot:
		p.tokens[startIndex].IsOptionalChainStart = true
		if next, _ := p.lexer.LookaheadType(); noCalls && next == js_lexer.TOpenParen {
			return true, false
		}
		p.next()
		p.lastToken().SubscriptStartIndex = int32(startIndex)
		switch p.lexer.Token {
		case js_lexer.TOpenBracket:
			p.next()
			p.parseExpr(false)
			p.expect(js_lexer.TCloseBracket)

		case js_lexer.TOpenParen:
			p.parseCallArgsAfterSubscriptToken()

		default:
			p.parseMaybePrivateName()
		}

	case js_lexer.TDot:
		p.next()
		p.lastToken().SubscriptStartIndex = int32(startIndex)
		p.parseMaybePrivateName()

	case js_lexer.TOpenBracket:
		p.next()
		p.lastToken().SubscriptStartIndex = int32(startIndex)
		p.parseExpr(false)
		p.expect(js_lexer.TCloseBracket)

	case js_lexer.TOpenParen:
		if noCalls {
			return true, false
		}
		if p.atPossibleAsync(startIndex) {
			return p.parseAsyncCallOrArrow(startIndex)
		}
		p.parseCallArgs(startIndex)

	case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
		p.parseTemplate()

	default:
		return true, false
	}
	return false, false
}

func (p *parser) isTemplateStart() bool {
	return p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral || p.lexer.Token == js_lexer.TTemplateHead
}

func (p *parser) parseMaybePrivateName() {
	if p.lexer.Token == js_lexer.TPrivateIdentifier {
		p.next()
	} else {
		p.parseIdentifier()
	}
}

// The "(" and ")" of a call share a context ID
func (p *parser) parseCallArgs(startIndex int) {
	p.expect(js_lexer.TOpenParen)
	p.lastToken().SubscriptStartIndex = int32(startIndex)
	p.parseCallArgsAfterOpenParen(p.newContextID())
}

// For "?.(", the subscript start is on the "?." token
func (p *parser) parseCallArgsAfterSubscriptToken() {
	p.expect(js_lexer.TOpenParen)
	p.parseCallArgsAfterOpenParen(p.newContextID())
}

func (p *parser) parseCallArgsAfterOpenParen(contextID int32) {
	p.lastToken().ContextID = contextID
	for first := true; !p.eat(js_lexer.TCloseParen); first = false {
		if !first {
			p.expect(js_lexer.TComma)
			if p.eat(js_lexer.TCloseParen) {
				break
			}
		}
		p.eat(js_lexer.TDotDotDot)
		p.parseMaybeAssign(false)
	}
	p.lastToken().ContextID = contextID
}

func (p *parser) atPossibleAsync(startIndex int) bool {
	if len(p.tokens) != startIndex+1 {
		return false
	}
	token := &p.tokens[startIndex]
	return token.Type == js_lexer.TIdentifier && token.ContextualKeyword == js_lexer.ContextualAsync &&
		token.Start == p.potentialArrowAt && !p.lexer.HasNewlineBefore
}

// "async(x)" may be a call or the start of "async(x) => x". The arguments
// are parsed as a call first and reparsed as parameters if an arrow follows.
func (p *parser) parseAsyncCallOrArrow(startIndex int) (stop bool, wasArrow bool) {
	s := p.snapshot()
	p.parseCallArgs(startIndex)

	isArrow := p.lexer.Token == js_lexer.TEqualsGreaterThan
	if !isArrow && p.lexer.Token == js_lexer.TColon && p.hasTypes() {
		// "async (x): T => x"
		isArrow = p.tryParse(func() {
			p.parseArrowReturnType()
			if p.lexer.Token != js_lexer.TEqualsGreaterThan {
				p.lexer.Unexpected()
			}
		})
	}
	if !isArrow {
		return false, false
	}

	p.restore(s)
	p.tokens[startIndex].IdentifierRole = js_ast.RoleNone
	arrowStartIndex := len(p.tokens)
	p.scopeDepth++
	p.parseFunctionParams(false, js_ast.NoIndex)
	if p.lexer.Token == js_lexer.TColon && p.hasTypes() {
		p.parseArrowReturnType()
	}
	p.expect(js_lexer.TEqualsGreaterThan)
	p.parseArrowBody(arrowStartIndex)
	return true, true
}

func (p *parser) parseArrowReturnType() {
	if p.isTypeScript() {
		p.tsParseTypeOrTypePredicateAnnotation()
	} else {
		oldNoAnon := p.noAnonFunctionType
		p.noAnonFunctionType = true
		p.flowParseTypeAndPredicateInitialiser()
		p.noAnonFunctionType = oldNoAnon
	}
}

func (p *parser) parseTemplate() {
	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		p.next()
		return
	}
	if p.lexer.Token != js_lexer.TTemplateHead {
		p.lexer.Unexpected()
	}
	p.next()
	for {
		p.parseExpr(false)
		p.lexer.RescanCloseBraceAsTemplateToken()
		isTail := p.lexer.Token == js_lexer.TTemplateTail
		p.next()
		if isTail {
			break
		}
	}
}

// An identifier named "await" is only the start of an await expression if
// an operand follows it. This lets the sloppy-mode "await(x)" call through.
func (p *parser) awaitHasOperand() bool {
	switch p.lexer.Token {
	case js_lexer.TIdentifier, js_lexer.TEscapedKeyword, js_lexer.TPrivateIdentifier,
		js_lexer.TThis, js_lexer.TNew, js_lexer.TFunction, js_lexer.TClass, js_lexer.TNull, js_lexer.TTrue,
		js_lexer.TFalse, js_lexer.TSuper, js_lexer.TImport, js_lexer.TTypeof, js_lexer.TVoid, js_lexer.TDelete,
		js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TStringLiteral,
		js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead,
		js_lexer.TOpenParen, js_lexer.TOpenBracket, js_lexer.TOpenBrace, js_lexer.TExclamation, js_lexer.TTilde,
		js_lexer.TPlusPlus, js_lexer.TMinusMinus, js_lexer.TSlash, js_lexer.TSlashEquals, js_lexer.TLessThan,
		js_lexer.TPlus, js_lexer.TMinus:
		return true
	}
	return false
}

func (p *parser) parseExprAtom() (wasArrow bool) {
	if p.options.JSX && p.lexer.Token == js_lexer.TLessThan {
		p.parseJSXElement()
		return false
	}

	canBeArrow := p.potentialArrowAt == p.lexer.Loc().Start

	switch p.lexer.Token {
	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		p.next()

	case js_lexer.TSuper, js_lexer.TThis, js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral,
		js_lexer.TStringLiteral, js_lexer.TNull, js_lexer.TTrue, js_lexer.TFalse, js_lexer.TPrivateIdentifier:
		p.next()

	case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
		p.parseTemplate()

	case js_lexer.TImport:
		// "import.meta" and "import()"
		p.next()
		if p.eat(js_lexer.TDot) {
			p.parseIdentifier()
		}

	case js_lexer.TIdentifier, js_lexer.TEscapedKeyword:
		return p.parseIdentifierExpr(canBeArrow)

	case js_lexer.TOpenParen:
		return p.parseParenAndDistinguishExpr(canBeArrow)

	case js_lexer.TOpenBracket:
		p.next()
		p.parseExprList(js_lexer.TCloseBracket, true /* allowEmpty */)

	case js_lexer.TOpenBrace:
		p.parseObject(false /* isPattern */, false /* isBlockScope */)

	case js_lexer.TFunction:
		functionStart := p.lexer.Loc().Start
		p.next()
		p.lastToken().IsExpression = true
		if p.eat(js_lexer.TDot) {
			// "function.sent"
			p.parseIdentifier()
			return false
		}
		p.parseFunction(functionStart, false /* isStatement */, false /* optionalID */)

	case js_lexer.TAt:
		p.parseDecorators()
		p.parseClass(false /* isStatement */, false /* optionalID */)

	case js_lexer.TClass:
		p.parseClass(false /* isStatement */, false /* optionalID */)

	case js_lexer.TNew:
		p.parseNew()

	default:
		p.lexer.Unexpected()
	}
	return false
}

func (p *parser) parseIdentifierExpr(canBeArrow bool) bool {
	startIndex := len(p.tokens)
	functionStart := p.lexer.Loc().Start
	keyword := p.lexer.ContextualKeyword
	p.next()

	switch keyword {
	case js_lexer.ContextualAwait:
		if p.awaitHasOperand() {
			p.parseMaybeUnary()
			return false
		}

	case js_lexer.ContextualAsync:
		if p.canInsertSemicolon() {
			break
		}

		// "async function() {}"
		if p.lexer.Token == js_lexer.TFunction {
			p.next()
			p.lastToken().IsExpression = true
			p.parseFunction(functionStart, false /* isStatement */, false /* optionalID */)
			return false
		}

		// "async x => x"
		if canBeArrow && p.lexer.Token == js_lexer.TIdentifier {
			p.scopeDepth++
			p.parseBindingIdentifier(false /* isBlockScope */)
			p.expect(js_lexer.TEqualsGreaterThan)
			p.parseArrowBody(startIndex)
			return true
		}

		// "async <T>(x: T) => x"
		if canBeArrow && p.lexer.Token == js_lexer.TLessThan && p.hasTypes() {
			if p.tryParse(func() { p.parseGenericAsyncArrow() }) {
				return true
			}
		}
	}

	// "x => x"
	if canBeArrow && !p.canInsertSemicolon() && p.lexer.Token == js_lexer.TEqualsGreaterThan {
		p.scopeDepth++
		p.markPriorBindingIdentifier(false /* isBlockScope */)
		p.expect(js_lexer.TEqualsGreaterThan)
		p.parseArrowBody(startIndex)
		return true
	}

	p.tokens[startIndex].IdentifierRole = js_ast.RoleAccess
	return false
}

func (p *parser) parseGenericAsyncArrow() {
	startIndex := len(p.tokens)
	p.scopeDepth++
	p.parseFunctionParams(false, js_ast.NoIndex)
	if p.lexer.Token == js_lexer.TColon {
		p.parseArrowReturnType()
	}
	p.expect(js_lexer.TEqualsGreaterThan)
	p.parseArrowBody(startIndex)
}

// "(a, b)" is parsed as an expression first. If it turns out to be followed
// by "=>", everything is thrown away and reparsed as a parameter list.
func (p *parser) parseParenAndDistinguishExpr(canBeArrow bool) bool {
	s := p.snapshot()
	startIndex := len(p.tokens)
	p.expect(js_lexer.TOpenParen)

	for first := true; p.lexer.Token != js_lexer.TCloseParen; first = false {
		if !first {
			p.expect(js_lexer.TComma)
			if p.lexer.Token == js_lexer.TCloseParen {
				break
			}
		}
		if p.lexer.Token == js_lexer.TDotDotDot {
			// "(...a) => a"
			p.next()
			p.parseBindingAtom(false)
			p.parseParenItem()
			break
		}
		p.parseMaybeAssignWithOpts(false, true /* isWithinParens */)
	}
	p.expect(js_lexer.TCloseParen)

	if !canBeArrow || !p.shouldParseArrow() || !p.parseArrow() {
		return false
	}

	// It was an arrow function all along
	p.restore(s)
	ok := p.tryParse(func() {
		p.scopeDepth++
		p.parseFunctionParams(false, js_ast.NoIndex)
		p.parseArrow()
		p.parseArrowBody(startIndex)
	})
	if !ok {
		// Report the error at the place where the parameter list is invalid
		p.parseParenAndDistinguishExpr(false)
		return false
	}
	return true
}

func (p *parser) shouldParseArrow() bool {
	return p.lexer.Token == js_lexer.TColon || !p.canInsertSemicolon()
}

// Consumes an optional return type and the "=>". Returns false if the next
// tokens can't be the rest of an arrow function.
func (p *parser) parseArrow() bool {
	if p.lexer.Token == js_lexer.TColon && p.hasTypes() {
		if !p.tryParse(func() {
			p.parseArrowReturnType()
			if p.canInsertSemicolon() || p.lexer.Token != js_lexer.TEqualsGreaterThan {
				p.lexer.Unexpected()
			}
		}) {
			return false
		}
	}
	return p.eat(js_lexer.TEqualsGreaterThan)
}

func (p *parser) parseExprList(close js_lexer.T, allowEmpty bool) {
	for first := true; !p.eat(close); first = false {
		if !first {
			p.expect(js_lexer.TComma)
			if p.eat(close) {
				break
			}
		}

		switch {
		case allowEmpty && p.lexer.Token == js_lexer.TComma:
			// "[, a]"

		case p.lexer.Token == js_lexer.TDotDotDot:
			p.next()
			p.parseMaybeAssign(false)
			p.parseParenItem()

		default:
			p.parseMaybeAssignWithOpts(false, true /* isWithinParens */)
		}
	}
}

func (p *parser) parseNew() {
	p.next()

	// "new.target"
	if p.eat(js_lexer.TDot) {
		p.parseIdentifier()
		return
	}

	startIndex := len(p.tokens)
	p.parseExprAtom()
	p.parseSubscripts(startIndex, true /* noCalls */)

	switch p.options.TypeDialect {
	case DialectTypeScript:
		if p.lexer.Token == js_lexer.TLessThan {
			p.tryParse(func() {
				oldIsType := p.pushTypeContext(0)
				p.tsParseTypeArguments()
				p.popTypeContext(oldIsType)
			})
		}

	case DialectFlow:
		if p.lexer.Token == js_lexer.TLessThan {
			p.tryParse(func() {
				oldIsType := p.pushTypeContext(0)
				p.flowParseTypeParameterInstantiation()
				p.popTypeContext(oldIsType)
			})
		}
	}

	if p.eat(js_lexer.TOpenParen) {
		p.parseExprList(js_lexer.TCloseParen, false)
	}
}

func (p *parser) parseObject(isPattern bool, isBlockScope bool) {
	contextID := p.newContextID()
	p.expect(js_lexer.TOpenBrace)
	p.lastToken().ContextID = contextID

	for first := true; !p.eat(js_lexer.TCloseBrace); first = false {
		if !first {
			p.expect(js_lexer.TComma)
			if p.eat(js_lexer.TCloseBrace) {
				break
			}
		}

		if p.lexer.Token == js_lexer.TDotDotDot {
			p.next()
			if isPattern {
				p.parseBindingAtom(isBlockScope)
			} else {
				p.parseMaybeAssign(false)
			}
			continue
		}

		isGenerator := false
		if !isPattern {
			isGenerator = p.eat(js_lexer.TAsterisk)
		}

		if !isPattern && !isGenerator && p.isContextual(js_lexer.ContextualAsync) {
			p.parseIdentifier()
			switch p.lexer.Token {
			case js_lexer.TColon, js_lexer.TOpenParen, js_lexer.TCloseBrace, js_lexer.TEquals, js_lexer.TComma:
				// A key called "async"
				p.lastToken().IdentifierRole = js_ast.RoleObjectKey
				p.lastToken().ContextID = contextID
			default:
				isGenerator = p.eat(js_lexer.TAsterisk)
				p.parsePropertyName(contextID)
			}
		} else {
			p.parsePropertyName(contextID)
		}

		p.parseObjectPropertyValue(isPattern, isBlockScope, isGenerator, contextID)
	}

	p.lastToken().ContextID = contextID
}

func (p *parser) parseObjectPropertyValue(isPattern bool, isBlockScope bool, isGenerator bool, contextID int32) {
	functionStart := p.lexer.Loc().Start

	// "{m() {}}"
	if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan {
		if isPattern {
			p.lexer.Unexpected()
		}
		p.parseMethodWithGenerator(functionStart, isGenerator)
		return
	}

	// "{get x() {}}"
	if !isPattern && p.isAtGetterOrSetterName() {
		p.lastToken().IdentifierRole = js_ast.RoleNone
		p.parsePropertyName(contextID)
		p.parseMethodWithGenerator(functionStart, false)
		return
	}

	if p.eat(js_lexer.TColon) {
		if isPattern {
			p.parseMaybeDefault(isBlockScope, false)
		} else {
			p.parseMaybeAssign(false)
		}
		return
	}

	// This is a shorthand property. In a pattern, it's a declaration.
	var role js_ast.IdentifierRole
	if !isPattern {
		role = js_ast.RoleObjectShorthand
	} else if p.scopeDepth == 0 {
		role = js_ast.RoleObjectShorthandTopLevelDeclaration
	} else if isBlockScope {
		role = js_ast.RoleObjectShorthandBlockScopedDeclaration
	} else {
		role = js_ast.RoleObjectShorthandFunctionScopedDeclaration
	}
	p.lastToken().IdentifierRole = role

	// "({a = 1} = b)" is allowed even when this isn't known to be a pattern yet
	p.parseMaybeDefault(isBlockScope, true)
}

func (p *parser) isAtGetterOrSetterName() bool {
	last := p.lastToken()
	if last.Type != js_lexer.TIdentifier ||
		(last.ContextualKeyword != js_lexer.ContextualGet && last.ContextualKeyword != js_lexer.ContextualSet) {
		return false
	}
	switch p.lexer.Token {
	case js_lexer.TStringLiteral, js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TOpenBracket,
		js_lexer.TPrivateIdentifier:
		return true
	}
	return p.lexer.IsIdentifierOrKeyword()
}
