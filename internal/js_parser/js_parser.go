package js_parser

// This parser does not build a syntax tree. It walks the grammar only to
// record every token it consumes and to annotate those tokens with the
// information that the transforms need: which identifiers are declarations
// and which are accesses, which tokens are part of type syntax, and where
// optional chains and nullish coalescing expressions begin and end. Scopes are
// recorded as ranges of token indices.
//
// The lexer is always one token ahead of the token array. Calling "next"
// appends the lexer's current token to the array and then scans the next one,
// so code that wants to annotate a token does so right after consuming it by
// writing to the last element of the array.

import (
	"fmt"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
)

type TypeDialect uint8

const (
	DialectNone TypeDialect = iota
	DialectTypeScript
	DialectFlow
)

func (d TypeDialect) String() string {
	switch d {
	case DialectTypeScript:
		return "typescript"
	case DialectFlow:
		return "flow"
	default:
		return "none"
	}
}

type Options struct {
	JSX         bool
	TypeDialect TypeDialect
}

type File struct {
	Tokens []js_ast.Token
	Scopes []js_ast.Scope
}

type parser struct {
	log     logger.Log
	source  logger.Source
	lexer   js_lexer.Lexer
	options Options

	tokens        []js_ast.Token
	scopes        []js_ast.Scope
	scopeDepth    int32
	isType        bool
	nextContextID int32

	// The byte offset of the token where an arrow function may begin. This
	// is set by "parseMaybeAssign" and checked when parsing an atom.
	potentialArrowAt int32
	inGenerator      bool

	// Flow disallows anonymous function types in some positions, such as the
	// parameter types of an arrow function's return type
	noAnonFunctionType bool
}

func newParser(log logger.Log, source logger.Source, options Options) *parser {
	p := &parser{
		log:              log,
		source:           source,
		options:          options,
		potentialArrowAt: -1,
	}
	p.lexer = js_lexer.NewLexer(log, source)
	return p
}

func Parse(log logger.Log, source logger.Source, options Options) (result File, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := newParser(log, source, options)
	p.parseStmtsUpTo(js_lexer.TEndOfFile)

	if p.scopeDepth != 0 {
		panic(fmt.Sprintf("Internal error: scope depth is %d at the end of the file", p.scopeDepth))
	}

	// The module scope is always last
	p.scopes = append(p.scopes, js_ast.Scope{
		StartTokenIndex: 0,
		EndTokenIndex:   int32(len(p.tokens)),
	})

	result = File{
		Tokens: p.tokens,
		Scopes: p.scopes,
	}
	return
}

func (p *parser) isTypeScript() bool {
	return p.options.TypeDialect == DialectTypeScript
}

func (p *parser) isFlow() bool {
	return p.options.TypeDialect == DialectFlow
}

func (p *parser) hasTypes() bool {
	return p.options.TypeDialect != DialectNone
}

////////////////////////////////////////////////////////////////////////////////
// Token recording

func (p *parser) recordToken() {
	p.tokens = append(p.tokens, js_ast.NewToken(
		p.lexer.Token,
		p.lexer.ContextualKeyword,
		int32(p.lexer.Loc().Start),
		int32(p.lexer.Range().End()),
		p.scopeDepth,
		p.isType,
	))
}

func (p *parser) next() {
	if p.lexer.Token == js_lexer.TEndOfFile {
		p.lexer.Unexpected()
	}
	p.recordToken()
	p.lexer.Next()
}

func (p *parser) expect(token js_lexer.T) {
	if p.lexer.Token != token {
		p.lexer.Expected(token)
	}
	p.next()
}

func (p *parser) eat(token js_lexer.T) bool {
	if p.lexer.Token == token {
		p.next()
		return true
	}
	return false
}

func (p *parser) isContextual(keyword js_lexer.ContextualKeyword) bool {
	return p.lexer.IsContextualKeyword(keyword)
}

func (p *parser) eatContextual(keyword js_lexer.ContextualKeyword) bool {
	if p.lexer.IsContextualKeyword(keyword) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectContextual(keyword js_lexer.ContextualKeyword) {
	if !p.lexer.IsContextualKeyword(keyword) {
		p.lexer.ExpectedString(fmt.Sprintf("%q", keyword.String()))
	}
	p.next()
}

// Identifiers such as "let" and "yield" aren't in the keyword tables
func (p *parser) isIdentifierText(text string) bool {
	return p.lexer.Token == js_lexer.TIdentifier && p.lexer.Identifier == text
}

func (p *parser) canInsertSemicolon() bool {
	return p.lexer.Token == js_lexer.TEndOfFile || p.lexer.Token == js_lexer.TCloseBrace || p.lexer.HasNewlineBefore
}

func (p *parser) expectOrInsertSemicolon() {
	if p.lexer.Token == js_lexer.TSemicolon {
		p.next()
	} else if !p.canInsertSemicolon() {
		p.lexer.Expected(js_lexer.TSemicolon)
	}
}

// Consumes a ";" if present. Returns true at the end of a statement.
func (p *parser) isLineTerminator() bool {
	return p.eat(js_lexer.TSemicolon) || p.canInsertSemicolon()
}

func (p *parser) lastToken() *js_ast.Token {
	return &p.tokens[len(p.tokens)-1]
}

func (p *parser) newContextID() int32 {
	id := p.nextContextID
	p.nextContextID++
	return id
}

// Every token recorded after this call is a type token until the matching
// "popTypeContext". The last "existingTokens" tokens are marked retroactively.
func (p *parser) pushTypeContext(existingTokens int) (oldIsType bool) {
	for i := len(p.tokens) - existingTokens; i < len(p.tokens); i++ {
		p.tokens[i].IsType = true
	}
	oldIsType = p.isType
	p.isType = true
	return
}

func (p *parser) popTypeContext(oldIsType bool) {
	p.isType = oldIsType
}

func (p *parser) markTokensAsTypeFrom(index int) {
	for i := index; i < len(p.tokens); i++ {
		p.tokens[i].IsType = true
	}
}

// Consume a token that only has meaning in type syntax
func (p *parser) eatTypeToken(token js_lexer.T) bool {
	oldIsType := p.pushTypeContext(0)
	found := p.eat(token)
	p.popTypeContext(oldIsType)
	return found
}

// Closes a type argument list. A ">>" token is
// recorded as a single ">" and the lexer is left on the remaining ">".
func (p *parser) expectGreaterThan() {
	switch p.lexer.Token {
	case js_lexer.TGreaterThan:
		p.next()

	case js_lexer.TGreaterThanEquals, js_lexer.TGreaterThanGreaterThan, js_lexer.TGreaterThanGreaterThanEquals,
		js_lexer.TGreaterThanGreaterThanGreaterThan, js_lexer.TGreaterThanGreaterThanGreaterThanEquals:
		start := p.lexer.Loc().Start
		p.tokens = append(p.tokens, js_ast.NewToken(js_lexer.TGreaterThan, js_lexer.ContextualNone,
			start, start+1, p.scopeDepth, p.isType))
		p.lexer.SplitGreaterThan()

	default:
		p.lexer.Expected(js_lexer.TGreaterThan)
	}
}

// Like "expectGreaterThan" but for the "<" that opens a type argument list
func (p *parser) expectLessThan() {
	switch p.lexer.Token {
	case js_lexer.TLessThan:
		p.next()

	case js_lexer.TLessThanEquals, js_lexer.TLessThanLessThan, js_lexer.TLessThanLessThanEquals:
		start := p.lexer.Loc().Start
		p.tokens = append(p.tokens, js_ast.NewToken(js_lexer.TLessThan, js_lexer.ContextualNone,
			start, start+1, p.scopeDepth, p.isType))
		p.lexer.SplitLessThan()

	default:
		p.lexer.Expected(js_lexer.TLessThan)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Backtracking

type snapshot struct {
	lexer              js_lexer.Lexer
	tokenCount         int
	scopeCount         int
	scopeDepth         int32
	isType             bool
	potentialArrowAt   int32
	inGenerator        bool
	noAnonFunctionType bool
}

func (p *parser) snapshot() snapshot {
	return snapshot{
		lexer:              p.lexer,
		tokenCount:         len(p.tokens),
		scopeCount:         len(p.scopes),
		scopeDepth:         p.scopeDepth,
		isType:             p.isType,
		potentialArrowAt:   p.potentialArrowAt,
		inGenerator:        p.inGenerator,
		noAnonFunctionType: p.noAnonFunctionType,
	}
}

func (p *parser) restore(s snapshot) {
	p.lexer = s.lexer
	p.tokens = p.tokens[:s.tokenCount]
	p.scopes = p.scopes[:s.scopeCount]
	p.scopeDepth = s.scopeDepth
	p.isType = s.isType
	p.potentialArrowAt = s.potentialArrowAt
	p.inGenerator = s.inGenerator
	p.noAnonFunctionType = s.noAnonFunctionType
}

// Runs "parse" with the log disabled. If it fails with a syntax error, all
// parser state is restored to what it was before the call and this returns
// false. Any other panic is an internal error and is propagated.
func (p *parser) tryParse(parse func()) (ok bool) {
	s := p.snapshot()
	p.lexer.IsLogDisabled = true

	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			p.restore(s)
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	parse()

	// Restore the log disabled flag. Note that we can't just set it back to
	// false because it may have been true to start with.
	p.lexer.IsLogDisabled = s.lexer.IsLogDisabled
	return true
}

////////////////////////////////////////////////////////////////////////////////
// Scopes and bindings

func (p *parser) pushScope(startTokenIndex int, isFunctionScope bool) {
	p.scopes = append(p.scopes, js_ast.Scope{
		StartTokenIndex: int32(startTokenIndex),
		EndTokenIndex:   int32(len(p.tokens)),
		IsFunctionScope: isFunctionScope,
	})
}

// Assigns a declaration role to the identifier that was just consumed
func (p *parser) markPriorBindingIdentifier(isBlockScope bool) {
	var role js_ast.IdentifierRole
	if p.scopeDepth == 0 {
		role = js_ast.RoleTopLevelDeclaration
	} else if isBlockScope {
		role = js_ast.RoleBlockScopedDeclaration
	} else {
		role = js_ast.RoleFunctionScopedDeclaration
	}
	p.lastToken().IdentifierRole = role
}

func (p *parser) parseIdentifier() {
	if p.lexer.Token != js_lexer.TIdentifier && !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expected(js_lexer.TIdentifier)
	}
	p.next()
}

func (p *parser) parseBindingIdentifier(isBlockScope bool) {
	if p.lexer.Token != js_lexer.TIdentifier {
		p.lexer.Expected(js_lexer.TIdentifier)
	}
	p.next()
	p.markPriorBindingIdentifier(isBlockScope)
}

func (p *parser) parseBindingAtom(isBlockScope bool) {
	switch p.lexer.Token {
	case js_lexer.TThis:
		// "this" may be the name of a parameter in TypeScript
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)

	case js_lexer.TIdentifier:
		p.parseBindingIdentifier(isBlockScope)

	case js_lexer.TOpenBracket:
		p.next()
		p.parseBindingList(js_lexer.TCloseBracket, isBlockScope, true /* allowEmpty */, false /* allowModifiers */, js_ast.NoIndex)

	case js_lexer.TOpenBrace:
		p.parseObject(true /* isPattern */, isBlockScope)

	default:
		p.lexer.Unexpected()
	}
}

func (p *parser) parseBindingList(close js_lexer.T, isBlockScope bool, allowEmpty bool, allowModifiers bool, contextID int32) {
	firstItemIndex := len(p.tokens)
	hasRemovedComma := false

	for first := true; !p.eat(close); first = false {
		if !first {
			p.expect(js_lexer.TComma)
			p.lastToken().ContextID = contextID

			// The comma after a TypeScript "this" parameter is removed with it
			if !hasRemovedComma && p.tokens[firstItemIndex].IsType {
				p.lastToken().IsType = true
				hasRemovedComma = true
			}
		}

		if allowEmpty && p.lexer.Token == js_lexer.TComma {
			// "[, a]"
			continue
		}
		if p.eat(close) {
			break
		}

		if p.lexer.Token == js_lexer.TDotDotDot {
			p.next()
			p.parseBindingAtom(isBlockScope)
			p.parseAssignableListItemTypes()

			// TypeScript before 2.9 allowed a trailing comma after a rest element
			p.eat(js_lexer.TComma)
			p.expect(close)
			break
		}

		p.parseAssignableListItem(allowModifiers, isBlockScope)
	}
}

func (p *parser) parseAssignableListItem(allowModifiers bool, isBlockScope bool) {
	if allowModifiers && p.isTypeScript() {
		p.parseTypeScriptModifiers(tsParameterModifiers)
	}
	p.parseMaybeDefault(isBlockScope, false)
	p.parseAssignableListItemTypes()
	p.parseMaybeDefault(isBlockScope, true)
}

func (p *parser) parseAssignableListItemTypes() {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		oldIsType := p.pushTypeContext(0)
		p.eat(js_lexer.TQuestion)
		p.tsTryParseTypeAnnotation()
		p.popTypeContext(oldIsType)

	case DialectFlow:
		oldIsType := p.pushTypeContext(0)
		p.eat(js_lexer.TQuestion)
		if p.lexer.Token == js_lexer.TColon {
			p.flowParseTypeAnnotation()
		}
		p.popTypeContext(oldIsType)
	}
}

func (p *parser) parseMaybeDefault(isBlockScope bool, leftAlreadyParsed bool) {
	if !leftAlreadyParsed {
		p.parseBindingAtom(isBlockScope)
	}
	if !p.eat(js_lexer.TEquals) {
		return
	}
	eqIndex := len(p.tokens) - 1
	p.parseMaybeAssign(false)
	p.tokens[eqIndex].RHSEndIndex = int32(len(p.tokens))
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (p *parser) parseStmtsUpTo(end js_lexer.T) {
	for p.lexer.Token != end {
		p.parseStmt()
	}
	if end != js_lexer.TEndOfFile {
		p.next()
	}
}

func (p *parser) parseStmt() {
	if p.lexer.Token == js_lexer.TAt {
		p.parseDecorators()
	}

	switch p.lexer.Token {
	case js_lexer.TBreak, js_lexer.TContinue:
		p.next()
		if !p.isLineTerminator() {
			p.parseIdentifier()
			p.expectOrInsertSemicolon()
		}
		return

	case js_lexer.TDebugger:
		p.next()
		p.expectOrInsertSemicolon()
		return

	case js_lexer.TDo:
		p.next()
		p.parseStmt()
		p.expect(js_lexer.TWhile)
		p.parseParenExpr()
		p.eat(js_lexer.TSemicolon)
		return

	case js_lexer.TFor:
		p.parseForStmt()
		return

	case js_lexer.TFunction:
		if next, _ := p.lexer.LookaheadType(); next == js_lexer.TDot {
			break
		}
		functionStart := p.lexer.Loc().Start
		p.next()
		p.parseFunction(functionStart, true /* isStatement */, false /* optionalID */)
		return

	case js_lexer.TClass:
		p.parseClass(true /* isStatement */, false /* optionalID */)
		return

	case js_lexer.TIf:
		p.next()
		p.parseParenExpr()
		p.parseStmt()
		if p.eat(js_lexer.TElse) {
			p.parseStmt()
		}
		return

	case js_lexer.TReturn:
		p.next()
		if !p.isLineTerminator() {
			p.parseExpr(false)
			p.expectOrInsertSemicolon()
		}
		return

	case js_lexer.TSwitch:
		p.parseSwitchStmt()
		return

	case js_lexer.TThrow:
		p.next()
		p.parseExpr(false)
		p.expectOrInsertSemicolon()
		return

	case js_lexer.TTry:
		p.parseTryStmt()
		return

	case js_lexer.TVar:
		p.parseVarStmt(false /* isBlockScope */)
		return

	case js_lexer.TConst:
		if p.isTypeScript() {
			if next, _ := p.lexer.LookaheadType(); next == js_lexer.TEnum {
				// "const enum E {}"
				p.next()
				p.parseTypeScriptEnum()
				return
			}
		}
		p.parseVarStmt(true /* isBlockScope */)
		return

	case js_lexer.TWhile:
		p.next()
		p.parseParenExpr()
		p.parseStmt()
		return

	case js_lexer.TWith:
		p.next()
		p.parseParenExpr()
		p.parseStmt()
		return

	case js_lexer.TOpenBrace:
		p.parseBlock(false /* isFunctionScope */, js_ast.NoIndex)
		return

	case js_lexer.TSemicolon:
		p.next()
		return

	case js_lexer.TEnum:
		if p.isTypeScript() {
			p.parseTypeScriptEnum()
			return
		}
		if p.isFlow() {
			p.lexer.AddRangeErrorAndPanic("Flow enums are not supported")
		}
		p.lexer.Unexpected()

	case js_lexer.TImport:
		if next, _ := p.lexer.LookaheadType(); next == js_lexer.TOpenParen || next == js_lexer.TDot {
			break
		}
		p.next()
		p.parseImport()
		return

	case js_lexer.TExport:
		p.next()
		p.parseExport()
		return

	case js_lexer.TIdentifier:
		if p.tryParseIdentifierStmt() {
			return
		}
	}

	p.parseExprOrLabeledStmt()
}

// Handles statements that begin with a contextual keyword, such as "let" and
// "async function". Returns false if this is an expression statement.
func (p *parser) tryParseIdentifierStmt() bool {
	switch {
	case p.isIdentifierText("let"):
		// "let" is only a declaration if a binding follows it
		next, _ := p.lexer.LookaheadType()
		if next == js_lexer.TIdentifier || next == js_lexer.TOpenBracket || next == js_lexer.TOpenBrace {
			p.parseVarStmt(true /* isBlockScope */)
			return true
		}

	case p.isContextual(js_lexer.ContextualAsync):
		next := p.lexer.Lookahead()
		if next.Token == js_lexer.TFunction && !next.HasNewlineBefore {
			functionStart := p.lexer.Loc().Start
			p.next()
			p.next()
			p.parseFunction(functionStart, true /* isStatement */, false /* optionalID */)
			return true
		}

	case p.isContextual(js_lexer.ContextualUsing):
		// "using x = y"
		next := p.lexer.Lookahead()
		if next.Token == js_lexer.TIdentifier && !next.HasNewlineBefore {
			p.parseVarStmt(true /* isBlockScope */)
			return true
		}

	case p.isContextual(js_lexer.ContextualAwait):
		// "await using x = y"
		if p.isAwaitUsing() {
			p.next()
			p.parseVarStmt(true /* isBlockScope */)
			return true
		}
	}

	if p.hasTypes() {
		return p.tryParseTypeDeclarationStmt()
	}
	return false
}

func (p *parser) isAwaitUsing() bool {
	if !p.isContextual(js_lexer.ContextualAwait) {
		return false
	}
	next := p.lexer.Lookahead()
	if next.Token != js_lexer.TIdentifier || next.ContextualKeyword != js_lexer.ContextualUsing || next.HasNewlineBefore {
		return false
	}
	afterNext := next.Lookahead()
	return afterNext.Token == js_lexer.TIdentifier && !afterNext.HasNewlineBefore
}

func (p *parser) parseExprOrLabeledStmt() {
	startIndex := len(p.tokens)
	p.parseExpr(false)

	// A lone identifier may be a label
	if len(p.tokens) == startIndex+1 && p.tokens[startIndex].Type == js_lexer.TIdentifier &&
		p.lexer.Token == js_lexer.TColon {
		p.tokens[startIndex].IdentifierRole = js_ast.RoleNone
		p.next()
		p.parseStmt()
		return
	}

	p.expectOrInsertSemicolon()
}

func (p *parser) parseParenExpr() {
	p.expect(js_lexer.TOpenParen)
	p.parseExpr(false)
	p.expect(js_lexer.TCloseParen)
}

func (p *parser) parseBlock(isFunctionScope bool, contextID int32) {
	startIndex := len(p.tokens)
	p.scopeDepth++
	p.expect(js_lexer.TOpenBrace)
	p.lastToken().ContextID = contextID
	p.parseStmtsUpTo(js_lexer.TCloseBrace)
	p.lastToken().ContextID = contextID
	p.pushScope(startIndex, isFunctionScope)
	p.scopeDepth--
}

func (p *parser) parseVarStmt(isBlockScope bool) {
	p.next()
	p.parseVar(false /* isFor */, isBlockScope)
	p.expectOrInsertSemicolon()
}

func (p *parser) parseVar(isFor bool, isBlockScope bool) {
	for {
		p.parseBindingAtom(isBlockScope)
		switch p.options.TypeDialect {
		case DialectTypeScript:
			// "let x!: number"
			p.eatTypeToken(js_lexer.TExclamation)
			p.tsTryParseTypeAnnotation()

		case DialectFlow:
			if p.lexer.Token == js_lexer.TColon {
				p.flowParseTypeAnnotation()
			}
		}

		if p.eat(js_lexer.TEquals) {
			eqIndex := len(p.tokens) - 1
			p.parseMaybeAssign(isFor)
			p.tokens[eqIndex].RHSEndIndex = int32(len(p.tokens))
		}

		if !p.eat(js_lexer.TComma) {
			break
		}
	}
}

func (p *parser) parseForStmt() {
	p.scopeDepth++
	startIndex := len(p.tokens)
	p.parseForHeadAndBody()
	p.pushScope(startIndex, false)
	p.scopeDepth--
}

func (p *parser) parseForHeadAndBody() {
	p.next()

	isForAwait := p.eatContextual(js_lexer.ContextualAwait)
	p.expect(js_lexer.TOpenParen)

	if p.lexer.Token == js_lexer.TSemicolon {
		if isForAwait {
			p.lexer.Unexpected()
		}
		p.parseForRest()
		return
	}

	isDecl := false
	switch {
	case p.isAwaitUsing():
		p.next()
		isDecl = true

	case p.lexer.Token == js_lexer.TVar, p.lexer.Token == js_lexer.TConst:
		isDecl = true

	case p.isIdentifierText("let"):
		next, _ := p.lexer.LookaheadType()
		isDecl = next == js_lexer.TIdentifier || next == js_lexer.TOpenBracket || next == js_lexer.TOpenBrace

	case p.isContextual(js_lexer.ContextualUsing):
		// "for (using of x)" uses "using" as an identifier
		next := p.lexer.Lookahead()
		isDecl = next.Token == js_lexer.TIdentifier && next.ContextualKeyword != js_lexer.ContextualOf
	}

	if isDecl {
		isBlockScope := p.lexer.Token != js_lexer.TVar
		p.next()
		p.parseVar(true /* isFor */, isBlockScope)
	} else {
		p.parseExpr(true /* noIn */)
	}

	if p.lexer.Token == js_lexer.TIn || p.isContextual(js_lexer.ContextualOf) {
		p.next()
		if p.tokens[len(p.tokens)-1].Type == js_lexer.TIn {
			p.parseExpr(false)
		} else {
			p.parseMaybeAssign(false)
		}
		p.expect(js_lexer.TCloseParen)
		p.parseStmt()
		return
	}

	p.parseForRest()
}

func (p *parser) parseForRest() {
	p.expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TSemicolon {
		p.parseExpr(false)
	}
	p.expect(js_lexer.TSemicolon)
	if p.lexer.Token != js_lexer.TCloseParen {
		p.parseExpr(false)
	}
	p.expect(js_lexer.TCloseParen)
	p.parseStmt()
}

func (p *parser) parseSwitchStmt() {
	p.next()
	p.parseParenExpr()

	startIndex := len(p.tokens)
	p.expect(js_lexer.TOpenBrace)
	p.scopeDepth++

	// Cases aren't validated. Any sequence of cases, defaults, and statements
	// is accepted.
	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TCase || p.lexer.Token == js_lexer.TDefault {
			isCase := p.lexer.Token == js_lexer.TCase
			p.next()
			if isCase {
				p.parseExpr(false)
			}
			p.expect(js_lexer.TColon)
		} else {
			p.parseStmt()
		}
	}

	p.next()
	p.pushScope(startIndex, false)
	p.scopeDepth--
}

func (p *parser) parseTryStmt() {
	p.next()
	p.parseBlock(false, js_ast.NoIndex)

	if p.lexer.Token == js_lexer.TCatch {
		p.next()
		bindingStartIndex := -1

		// "catch {}" has no binding
		if p.lexer.Token == js_lexer.TOpenParen {
			p.scopeDepth++
			bindingStartIndex = len(p.tokens)
			p.next()
			p.parseBindingAtom(true /* isBlockScope */)
			switch p.options.TypeDialect {
			case DialectTypeScript:
				p.tsTryParseTypeAnnotation()
			case DialectFlow:
				if p.lexer.Token == js_lexer.TColon {
					p.flowParseTypeAnnotation()
				}
			}
			p.expect(js_lexer.TCloseParen)
		}

		p.parseBlock(false, js_ast.NoIndex)

		// The binding gets its own scope that covers the binding and the block
		if bindingStartIndex != -1 {
			p.pushScope(bindingStartIndex, false)
			p.scopeDepth--
		}
	}

	if p.eat(js_lexer.TFinally) {
		p.parseBlock(false, js_ast.NoIndex)
	}
}

// Decorators are kept in the output and parsed like any other expression
func (p *parser) parseDecorators() {
	for p.lexer.Token == js_lexer.TAt {
		p.next()
		if p.eat(js_lexer.TOpenParen) {
			p.parseExpr(false)
			p.expect(js_lexer.TCloseParen)
		} else {
			startIndex := len(p.tokens)
			p.parseIdentifier()
			p.lastToken().IdentifierRole = js_ast.RoleAccess
			for p.eat(js_lexer.TDot) {
				p.parseIdentifier()
			}
			if p.isTypeScript() && p.lexer.Token == js_lexer.TLessThan {
				p.tsTryParseTypeArgumentsInExpression()
			}
			if p.lexer.Token == js_lexer.TOpenParen {
				p.parseCallArgs(startIndex)
			}
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// Functions

func (p *parser) parseFunction(functionStart int32, isStatement bool, optionalID bool) {
	isGenerator := p.eat(js_lexer.TAsterisk)

	if isStatement && !optionalID && p.lexer.Token != js_lexer.TIdentifier {
		p.lexer.Expected(js_lexer.TIdentifier)
	}

	// The name of a function expression is only visible inside the function,
	// so it gets its own scope that covers the rest of the function
	nameScopeStartIndex := -1
	if p.lexer.Token == js_lexer.TIdentifier {
		if !isStatement {
			nameScopeStartIndex = len(p.tokens)
			p.scopeDepth++
		}
		p.parseBindingIdentifier(false /* isBlockScope */)
	}

	startIndex := len(p.tokens)
	p.scopeDepth++
	oldInGenerator := p.inGenerator
	p.inGenerator = isGenerator
	p.parseFunctionParams(false /* allowModifiers */, js_ast.NoIndex)
	p.parseFunctionBodyAndFinish(functionStart, js_ast.NoIndex)
	p.inGenerator = oldInGenerator

	// This is in addition to the scope of the body block since it includes
	// the parameters
	p.pushScope(startIndex, true)
	p.scopeDepth--

	if nameScopeStartIndex != -1 {
		p.pushScope(nameScopeStartIndex, true)
		p.scopeDepth--
	}
}

func (p *parser) parseFunctionParams(allowModifiers bool, contextID int32) {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		p.tsTryParseTypeParameters()
	case DialectFlow:
		if p.lexer.Token == js_lexer.TLessThan {
			p.flowParseTypeParameterDeclaration()
		}
	}

	p.expect(js_lexer.TOpenParen)
	p.lastToken().ContextID = contextID
	p.parseBindingList(js_lexer.TCloseParen, false /* isBlockScope */, false /* allowEmpty */, allowModifiers, contextID)
	p.lastToken().ContextID = contextID
}

func (p *parser) parseFunctionBodyAndFinish(functionStart int32, contextID int32) {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		if p.lexer.Token == js_lexer.TColon {
			p.tsParseTypeOrTypePredicateAnnotation()
		}

		// A function without a body is an overload signature or an abstract
		// method, and all of it is type syntax
		if p.lexer.Token != js_lexer.TOpenBrace && p.isLineTerminator() {
			for i := len(p.tokens) - 1; i >= 0; i-- {
				token := &p.tokens[i]
				if token.Start < functionStart && token.Type != js_lexer.TDefault && token.Type != js_lexer.TExport {
					break
				}
				token.IsType = true
			}
			return
		}

	case DialectFlow:
		if p.lexer.Token == js_lexer.TColon {
			p.flowParseTypeAndPredicateInitialiser()
		}
	}

	p.parseFunctionBody(false /* allowExpression */, contextID)
}

func (p *parser) parseFunctionBody(allowExpression bool, contextID int32) {
	if allowExpression && p.lexer.Token != js_lexer.TOpenBrace {
		p.parseMaybeAssign(false)
		return
	}
	p.parseBlock(true /* isFunctionScope */, contextID)
}

// The arrow has already been consumed and the scope depth incremented
func (p *parser) parseArrowBody(startIndex int) {
	p.parseFunctionBody(true /* allowExpression */, js_ast.NoIndex)
	p.pushScope(startIndex, true)
	p.scopeDepth--
}

// The parameter list and the body of a method share a context ID
func (p *parser) parseMethod(functionStart int32, isConstructor bool, isGenerator bool) {
	contextID := p.newContextID()
	p.scopeDepth++
	startIndex := len(p.tokens)
	oldInGenerator := p.inGenerator
	p.inGenerator = isGenerator
	p.parseFunctionParams(isConstructor /* allowModifiers */, contextID)
	p.parseFunctionBodyAndFinish(functionStart, contextID)
	p.inGenerator = oldInGenerator
	p.pushScope(startIndex, true)
	p.scopeDepth--
}

func (p *parser) parseMethodWithGenerator(functionStart int32, isGenerator bool) {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		p.tsTryParseTypeParameters()
	case DialectFlow:
		if p.lexer.Token == js_lexer.TLessThan {
			p.flowParseTypeParameterDeclaration()
		}
	}
	p.parseMethod(functionStart, false, isGenerator)
}

////////////////////////////////////////////////////////////////////////////////
// Classes

func (p *parser) parseClass(isStatement bool, optionalID bool) {
	// The "class" keyword and the braces of the body share a context ID so
	// that later passes can find the body from the keyword
	contextID := p.newContextID()
	p.next()
	p.lastToken().ContextID = contextID
	p.lastToken().IsExpression = !isStatement

	// Like with functions, the name of a class expression is only visible
	// inside the class
	nameScopeStartIndex := -1
	if !isStatement {
		nameScopeStartIndex = len(p.tokens)
		p.scopeDepth++
	}

	if !(p.isTypeScript() && (!isStatement || optionalID) && p.isContextual(js_lexer.ContextualImplements)) {
		if p.lexer.Token == js_lexer.TIdentifier {
			p.parseBindingIdentifier(true /* isBlockScope */)
		} else if isStatement && !optionalID {
			p.lexer.Expected(js_lexer.TIdentifier)
		}
	}

	switch p.options.TypeDialect {
	case DialectTypeScript:
		p.tsTryParseTypeParameters()
	case DialectFlow:
		if p.lexer.Token == js_lexer.TLessThan {
			p.flowParseTypeParameterDeclaration()
		}
	}

	hasSuper := false
	if p.eat(js_lexer.TExtends) {
		p.parseExprSubscripts()
		hasSuper = true
	}
	switch p.options.TypeDialect {
	case DialectTypeScript:
		p.tsAfterParseClassSuper(hasSuper)
	case DialectFlow:
		p.flowAfterParseClassSuper(hasSuper)
	}

	openBraceIndex := len(p.tokens)
	p.parseClassBody(contextID)
	p.tokens[openBraceIndex].ContextID = contextID
	p.lastToken().ContextID = contextID

	if nameScopeStartIndex != -1 {
		p.pushScope(nameScopeStartIndex, false)
		p.scopeDepth--
	}
}

func (p *parser) parseClassBody(classContextID int32) {
	p.expect(js_lexer.TOpenBrace)

	for !p.eat(js_lexer.TCloseBrace) {
		if p.eat(js_lexer.TSemicolon) {
			continue
		}
		if p.lexer.Token == js_lexer.TAt {
			p.parseDecorators()
			continue
		}
		p.parseClassMember(classContextID)
	}
}

func (p *parser) parseClassMember(classContextID int32) {
	memberStart := p.lexer.Loc().Start
	memberStartIndex := len(p.tokens)
	isTypeOnlyMember := false

	switch p.options.TypeDialect {
	case DialectTypeScript:
		// "declare x: number" and "abstract x: number" have no runtime value
		modifiers := p.parseTypeScriptModifiers(tsClassMemberModifiers)
		isTypeOnlyMember = modifiers&(tsModifierDeclare|tsModifierAbstract) != 0

	case DialectFlow:
		if p.isContextual(js_lexer.ContextualDeclare) && p.flowNextTokenCanFollowModifier() {
			oldIsType := p.pushTypeContext(0)
			p.next()
			p.popTypeContext(oldIsType)
			isTypeOnlyMember = true
		}
	}

	if p.isContextual(js_lexer.ContextualStatic) {
		p.parseIdentifier()
		if p.isClassMethod() {
			p.parseClassMethod(memberStart, false /* isConstructor */, false /* isGenerator */)
			p.finishClassMember(memberStartIndex, isTypeOnlyMember)
			return
		}
		if p.isClassProperty() {
			p.parseClassProperty()
			p.finishClassMember(memberStartIndex, isTypeOnlyMember)
			return
		}
		p.lastToken().IdentifierRole = js_ast.RoleNone

		// "static {}" is a class static block
		if p.lexer.Token == js_lexer.TOpenBrace {
			p.lastToken().ContextID = classContextID
			p.parseBlock(false, js_ast.NoIndex)
			return
		}

		if p.isTypeScript() {
			modifiers := p.parseTypeScriptModifiers(tsClassMemberModifiers)
			isTypeOnlyMember = isTypeOnlyMember || modifiers&(tsModifierDeclare|tsModifierAbstract) != 0
		}
	}

	p.parseClassMemberAfterModifiers(memberStart, classContextID)
	p.finishClassMember(memberStartIndex, isTypeOnlyMember)
}

func (p *parser) finishClassMember(memberStartIndex int, isTypeOnlyMember bool) {
	if isTypeOnlyMember {
		p.markTokensAsTypeFrom(memberStartIndex)
	}
}

func (p *parser) parseClassMemberAfterModifiers(memberStart int32, classContextID int32) {
	memberStartIndex := len(p.tokens)

	// "[key: string]: any"
	if p.isTypeScript() && p.tsTryParseIndexSignature() {
		p.markTokensAsTypeFrom(memberStartIndex)
		return
	}

	// "*gen() {}"
	if p.eat(js_lexer.TAsterisk) {
		p.parsePropertyName(classContextID)
		p.parsePostMemberNameModifiers()
		p.parseClassMethod(memberStart, false, true)
		return
	}

	p.parsePropertyName(classContextID)
	nameToken := *p.lastToken()
	isConstructor := nameToken.ContextualKeyword == js_lexer.ContextualConstructor ||
		(nameToken.Type == js_lexer.TStringLiteral && p.source.Contents[nameToken.Start+1:nameToken.End-1] == "constructor")
	p.parsePostMemberNameModifiers()

	switch {
	case p.isClassMethod():
		p.parseClassMethod(memberStart, isConstructor, false)

	case p.isClassProperty():
		p.parseClassProperty()

	case nameToken.Type == js_lexer.TIdentifier && nameToken.ContextualKeyword == js_lexer.ContextualAsync && !p.isLineTerminator():
		// "async m() {}"
		p.lastToken().IdentifierRole = js_ast.RoleNone
		isGenerator := p.eat(js_lexer.TAsterisk)
		p.parsePropertyName(classContextID)
		p.parsePostMemberNameModifiers()
		p.parseClassMethod(memberStart, false, isGenerator)

	case nameToken.Type == js_lexer.TIdentifier && (nameToken.ContextualKeyword == js_lexer.ContextualGet ||
		nameToken.ContextualKeyword == js_lexer.ContextualSet) && !(p.canInsertSemicolon() && p.lexer.Token == js_lexer.TAsterisk):
		// "get x() {}"
		p.lastToken().IdentifierRole = js_ast.RoleNone
		p.parsePropertyName(classContextID)
		p.parsePostMemberNameModifiers()
		p.parseClassMethod(memberStart, false, false)

	case nameToken.Type == js_lexer.TIdentifier && nameToken.ContextualKeyword == js_lexer.ContextualAccessor && !p.canInsertSemicolon():
		// "accessor x = 1"
		p.lastToken().IdentifierRole = js_ast.RoleNone
		p.parsePropertyName(classContextID)
		p.parsePostMemberNameModifiers()
		p.parseClassProperty()

	case p.isLineTerminator():
		// An uninitialized property followed by automatic semicolon insertion

	default:
		p.lexer.Unexpected()
	}
}

func (p *parser) parseClassMethod(functionStart int32, isConstructor bool, isGenerator bool) {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		p.tsTryParseTypeParameters()
	case DialectFlow:
		if p.lexer.Token == js_lexer.TLessThan {
			p.flowParseTypeParameterDeclaration()
		}
	}
	p.parseMethod(functionStart, isConstructor, isGenerator)
}

func (p *parser) parsePostMemberNameModifiers() {
	if p.hasTypes() {
		// "x?: number" and "m?(): void"
		p.eatTypeToken(js_lexer.TQuestion)
	}
}

func (p *parser) isClassMethod() bool {
	return p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TLessThan
}

func (p *parser) isClassProperty() bool {
	switch p.lexer.Token {
	case js_lexer.TEquals, js_lexer.TSemicolon, js_lexer.TCloseBrace, js_lexer.TExclamation, js_lexer.TColon:
		return true
	}
	return false
}

func (p *parser) parseClassProperty() {
	switch p.options.TypeDialect {
	case DialectTypeScript:
		// "x!: number"
		p.eatTypeToken(js_lexer.TExclamation)
		p.tsTryParseTypeAnnotation()

	case DialectFlow:
		if p.lexer.Token == js_lexer.TColon {
			p.flowParseTypeAnnotation()
		}
	}

	if p.lexer.Token == js_lexer.TEquals {
		eqIndex := len(p.tokens)
		p.next()
		p.parseMaybeAssign(false)
		p.tokens[eqIndex].RHSEndIndex = int32(len(p.tokens))
	}
	p.expectOrInsertSemicolon()
}

// Parses an object key or a class member name
func (p *parser) parsePropertyName(contextID int32) {
	if p.isFlow() {
		p.flowParseVariance()
	}

	if p.eat(js_lexer.TOpenBracket) {
		p.lastToken().ContextID = contextID
		p.parseMaybeAssign(false)
		p.expect(js_lexer.TCloseBracket)
		p.lastToken().ContextID = contextID
		return
	}

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral, js_lexer.TStringLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TPrivateIdentifier:
		p.next()

	default:
		p.parseIdentifier()
	}
	p.lastToken().IdentifierRole = js_ast.RoleObjectKey
	p.lastToken().ContextID = contextID
}

////////////////////////////////////////////////////////////////////////////////
// Imports and exports

// "import type" statements are marked as types in their entirety. The
// "import" keyword is the last token.
func (p *parser) parseImport() {
	importIndex := len(p.tokens) - 1
	isTypeOnly := false

	if p.isTypeScript() {
		if p.lexer.Token == js_lexer.TIdentifier {
			if next, _ := p.lexer.LookaheadType(); next == js_lexer.TEquals {
				// "import x = require('x')"
				p.parseTypeScriptImportEquals()
				return
			}
		}

		if p.isContextual(js_lexer.ContextualType) {
			next, keyword := p.lexer.LookaheadType()
			if next == js_lexer.TIdentifier && keyword != js_lexer.ContextualFrom {
				// "import type T = require('T')" or "import type A from 'A'"
				p.next()
				isTypeOnly = true
				if next, _ := p.lexer.LookaheadType(); next == js_lexer.TEquals {
					p.parseTypeScriptImportEquals()
					p.markTokensAsTypeFrom(importIndex)
					return
				}
			} else if next == js_lexer.TAsterisk || next == js_lexer.TOpenBrace {
				// "import type * as A from 'A'" or "import type {a} from 'A'"
				p.next()
				isTypeOnly = true
			}
		}
	}

	if p.isFlow() && (p.isContextual(js_lexer.ContextualType) || p.lexer.Token == js_lexer.TTypeof) {
		// "import type A from 'A'" and "import typeof A from 'A'", unless
		// "type" is the name of the default import
		next, keyword := p.lexer.LookaheadType()
		if (next == js_lexer.TIdentifier && keyword != js_lexer.ContextualFrom) || next == js_lexer.TOpenBrace ||
			next == js_lexer.TAsterisk {
			p.next()
			isTypeOnly = true
		}
	}

	// "import 'path'"
	if p.lexer.Token == js_lexer.TStringLiteral {
		p.next()
	} else {
		p.parseImportClause()
		p.expectContextual(js_lexer.ContextualFrom)
		p.expect(js_lexer.TStringLiteral)
	}

	p.parseMaybeImportAttributes()
	p.expectOrInsertSemicolon()

	if isTypeOnly {
		p.markTokensAsTypeFrom(importIndex)
	}
}

func (p *parser) parseImportClause() {
	// "import module x from 'x'" is import reflection
	if p.isContextual(js_lexer.ContextualModule) {
		next := p.lexer.Lookahead()
		if next.Token == js_lexer.TIdentifier && next.ContextualKeyword != js_lexer.ContextualFrom {
			p.next()
		}
	}

	if p.lexer.Token == js_lexer.TIdentifier {
		p.next()
		p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
		if !p.eat(js_lexer.TComma) {
			return
		}
	}

	if p.eat(js_lexer.TAsterisk) {
		p.expectContextual(js_lexer.ContextualAs)
		p.parseIdentifier()
		p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
		return
	}

	p.expect(js_lexer.TOpenBrace)
	for first := true; !p.eat(js_lexer.TCloseBrace); first = false {
		if !first {
			p.expect(js_lexer.TComma)
			if p.eat(js_lexer.TCloseBrace) {
				break
			}
		}
		p.parseImportSpecifier()
	}
}

func (p *parser) parseImportedName() {
	if p.lexer.Token == js_lexer.TStringLiteral {
		p.next()
	} else {
		p.parseIdentifier()
	}
}

func (p *parser) isImportSpecifierEnd() bool {
	return p.lexer.Token == js_lexer.TComma || p.lexer.Token == js_lexer.TCloseBrace
}

// Import specifiers are between one and four tokens long: "a", "type a",
// "a as b", and "type a as b". The "type" forms are entirely type syntax.
func (p *parser) parseImportSpecifier() {
	p.parseImportedName()
	if p.lexer.Token == js_lexer.TColon {
		p.lexer.AddRangeErrorAndPanic("ES2015 named imports do not support destructuring (use \"as\")")
	}
	if p.isImportSpecifierEnd() {
		p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
		return
	}

	if !p.hasTypes() {
		// "a as b"
		p.lastToken().IdentifierRole = js_ast.RoleImportAccess
		p.expectContextual(js_lexer.ContextualAs)
		p.parseIdentifier()
		p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
		return
	}

	p.parseImportedName()
	if p.isImportSpecifierEnd() {
		// "type a"
		p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
		p.tokens[len(p.tokens)-2].IsType = true
		p.tokens[len(p.tokens)-1].IsType = true
		return
	}

	p.parseImportedName()
	if p.isImportSpecifierEnd() {
		// "a as b"
		p.tokens[len(p.tokens)-3].IdentifierRole = js_ast.RoleImportAccess
		p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
		return
	}

	// "type a as b"
	p.parseImportedName()
	p.tokens[len(p.tokens)-3].IdentifierRole = js_ast.RoleImportAccess
	p.lastToken().IdentifierRole = js_ast.RoleImportDeclaration
	for i := len(p.tokens) - 4; i < len(p.tokens); i++ {
		p.tokens[i].IsType = true
	}
}

// "with { type: 'json' }" or the legacy "assert { type: 'json' }"
func (p *parser) parseMaybeImportAttributes() {
	if p.lexer.Token == js_lexer.TWith || (p.isContextual(js_lexer.ContextualAssert) && !p.lexer.HasNewlineBefore) {
		if next, _ := p.lexer.LookaheadType(); next != js_lexer.TOpenBrace {
			return
		}
		p.next()
		p.parseObject(false /* isPattern */, false /* isBlockScope */)
	}
}

func (p *parser) parseExport() {
	exportIndex := len(p.tokens) - 1

	if p.isTypeScript() {
		if p.tryParseTypeScriptExport(exportIndex) {
			return
		}
	} else if p.isFlow() {
		if p.tryParseFlowExport(exportIndex) {
			return
		}
	}

	switch p.lexer.Token {
	case js_lexer.TAsterisk:
		// "export * from 'path'" and "export * as ns from 'path'"
		p.next()
		if p.eatContextual(js_lexer.ContextualAs) {
			p.parseIdentifier()
		}
		p.expectContextual(js_lexer.ContextualFrom)
		p.expect(js_lexer.TStringLiteral)
		p.parseMaybeImportAttributes()
		p.expectOrInsertSemicolon()

	case js_lexer.TDefault:
		p.next()
		p.parseExportDefault(exportIndex)

	case js_lexer.TOpenBrace:
		p.parseExportClause()

	case js_lexer.TIdentifier:
		// "export ns from 'path'" is not supported but "export v from" is
		// never valid anyway
		if p.isIdentifierText("let") || p.isContextual(js_lexer.ContextualAsync) ||
			p.isContextual(js_lexer.ContextualUsing) || p.isContextual(js_lexer.ContextualAwait) {
			if p.tryParseIdentifierStmt() {
				return
			}
		}
		if p.hasTypes() && p.tryParseTypeDeclarationStmt() {
			return
		}
		p.lexer.Unexpected()

	default:
		p.parseStmt()
	}
}

func (p *parser) parseExportDefault(exportIndex int) {
	switch {
	case p.lexer.Token == js_lexer.TFunction:
		functionStart := p.lexer.Loc().Start
		p.next()
		p.parseFunction(functionStart, true /* isStatement */, true /* optionalID */)

	case p.isContextual(js_lexer.ContextualAsync) && p.lookaheadIsFunctionOnSameLine():
		functionStart := p.lexer.Loc().Start
		p.next()
		p.next()
		p.parseFunction(functionStart, true /* isStatement */, true /* optionalID */)

	case p.lexer.Token == js_lexer.TClass:
		p.parseClass(true /* isStatement */, true /* optionalID */)

	case p.lexer.Token == js_lexer.TAt:
		p.parseDecorators()
		if p.isTypeScript() && p.isContextual(js_lexer.ContextualAbstract) {
			oldIsType := p.pushTypeContext(0)
			p.next()
			p.popTypeContext(oldIsType)
		}
		p.parseClass(true /* isStatement */, true /* optionalID */)

	case p.isTypeScript() && p.isContextual(js_lexer.ContextualAbstract) && p.lookaheadIsClass():
		// "export default abstract class {}"
		oldIsType := p.pushTypeContext(0)
		p.next()
		p.popTypeContext(oldIsType)
		p.parseClass(true /* isStatement */, true /* optionalID */)

	case p.isTypeScript() && p.isContextual(js_lexer.ContextualInterface) && p.lookaheadIsIdentifierOnSameLine():
		// "export default interface A {}"
		p.next()
		p.tsParseInterface()
		p.markTokensAsTypeFrom(exportIndex)

	default:
		// The "export" token records where the expression statement ends
		p.parseMaybeAssign(false)
		p.expectOrInsertSemicolon()
		p.tokens[exportIndex].RHSEndIndex = int32(len(p.tokens))
	}
}

func (p *parser) lookaheadIsFunctionOnSameLine() bool {
	next := p.lexer.Lookahead()
	return next.Token == js_lexer.TFunction && !next.HasNewlineBefore
}

func (p *parser) lookaheadIsIdentifierOnSameLine() bool {
	next := p.lexer.Lookahead()
	return next.Token == js_lexer.TIdentifier && !next.HasNewlineBefore
}

func (p *parser) lookaheadIsClass() bool {
	next, _ := p.lexer.LookaheadType()
	return next == js_lexer.TClass
}

// "export {a, b as c}" and "export {a} from 'path'"
func (p *parser) parseExportClause() {
	startIndex := len(p.tokens)
	p.expect(js_lexer.TOpenBrace)

	for first := true; !p.eat(js_lexer.TCloseBrace); first = false {
		if !first {
			p.expect(js_lexer.TComma)
			if p.eat(js_lexer.TCloseBrace) {
				break
			}
		}
		p.parseExportSpecifier()
	}

	// The locals of a re-export aren't references to anything in this file
	if p.isContextual(js_lexer.ContextualFrom) {
		for i := startIndex; i < len(p.tokens); i++ {
			if p.tokens[i].IdentifierRole == js_ast.RoleExportAccess {
				p.tokens[i].IdentifierRole = js_ast.RoleNone
			}
		}
		p.next()
		p.expect(js_lexer.TStringLiteral)
		p.parseMaybeImportAttributes()
	}
	p.expectOrInsertSemicolon()
}

// Export specifiers have the same shapes as import specifiers
func (p *parser) parseExportSpecifier() {
	p.parseImportedName()
	p.lastToken().IdentifierRole = js_ast.RoleExportAccess
	if p.isImportSpecifierEnd() {
		return
	}

	if !p.hasTypes() {
		p.expectContextual(js_lexer.ContextualAs)
		p.parseImportedName()
		return
	}

	p.parseImportedName()
	if p.isImportSpecifierEnd() {
		// "type a"
		p.tokens[len(p.tokens)-2].IdentifierRole = js_ast.RoleNone
		p.tokens[len(p.tokens)-2].IsType = true
		p.tokens[len(p.tokens)-1].IdentifierRole = js_ast.RoleExportAccess
		p.tokens[len(p.tokens)-1].IsType = true
		return
	}

	p.parseImportedName()
	if p.isImportSpecifierEnd() {
		// "a as b"
		return
	}

	// "type a as b"
	p.parseImportedName()
	p.tokens[len(p.tokens)-4].IdentifierRole = js_ast.RoleNone
	p.tokens[len(p.tokens)-3].IdentifierRole = js_ast.RoleExportAccess
	for i := len(p.tokens) - 4; i < len(p.tokens); i++ {
		p.tokens[i].IsType = true
	}
}
