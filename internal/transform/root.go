package transform

import (
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/config"
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
)

type rootTransformer struct {
	ctx          *context
	c            *js_printer.Cursor
	transformers []Transformer
}

func newRootTransformer(ctx *context) *rootTransformer {
	r := &rootTransformer{ctx: ctx, c: ctx.cursor}
	options := &ctx.options

	if !options.DisableESTransforms {
		r.transformers = append(r.transformers,
			newOptionalChainingNullishTransformer(ctx),
			newNumericSeparatorTransformer(ctx),
			newOptionalCatchBindingTransformer(ctx),
		)
	}

	if options.Format == config.ModuleFormatCommonJS {
		r.transformers = append(r.transformers, newCJSImportTransformer(ctx, r))
	} else {
		r.transformers = append(r.transformers, newESMImportTransformer(ctx))
	}

	switch {
	case options.IsFlow():
		r.transformers = append(r.transformers, newFlowTransformer(ctx, r))
	case options.IsTypeScript():
		r.transformers = append(r.transformers, newTypeScriptTransformer(ctx, r))
	}
	return r
}

func (r *rootTransformer) transform() ([]byte, []int32) {
	r.processBalancedCode()

	// "use strict" goes before everything else
	var prefix strings.Builder
	if r.ctx.options.Format == config.ModuleFormatCommonJS {
		prefix.WriteString("\"use strict\";")
	}
	for _, t := range r.transformers {
		prefix.WriteString(t.PrefixCode())
	}
	prefix.WriteString(r.ctx.helpers.Emit())
	for _, t := range r.transformers {
		prefix.WriteString(t.HoistedCode())
	}

	var suffix strings.Builder
	for _, t := range r.transformers {
		suffix.WriteString(t.SuffixCode())
	}

	result := r.c.Finish()
	code := result.JS
	js := make([]byte, 0, prefix.Len()+len(code)+suffix.Len()+1)

	// A hashbang has to stay on the first line. It's not a token, so shifting
	// every mapping by the length of the prefix is still correct.
	if len(code) >= 2 && code[0] == '#' && code[1] == '!' {
		newline := indexOfNewline(code)
		if newline == -1 {
			js = append(js, code...)
			js = append(js, '\n')
			code = nil
		} else {
			js = append(js, code[:newline+1]...)
			code = code[newline+1:]
		}
	}
	js = append(js, prefix.String()...)
	js = append(js, code...)
	js = append(js, suffix.String()...)

	shift := int32(prefix.Len())
	for i, m := range result.Mappings {
		if m != -1 {
			result.Mappings[i] = m + shift
		}
	}
	return js, result.Mappings
}

func indexOfNewline(code []byte) int {
	for i, c := range code {
		if c == '\n' {
			return i
		}
	}
	return -1
}

// Processes tokens until the "}" or ")" that closes the current level of
// nesting, which is left for the caller. Template literals need no special
// handling since "${" and "}" are part of the template tokens.
func (r *rootTransformer) processBalancedCode() {
	braceDepth := 0
	parenDepth := 0
	for !r.c.IsAtEnd() {
		if r.c.Matches1(js_lexer.TOpenBrace) {
			braceDepth++
		} else if r.c.Matches1(js_lexer.TCloseBrace) {
			if braceDepth == 0 {
				return
			}
			braceDepth--
		}
		if r.c.Matches1(js_lexer.TOpenParen) {
			parenDepth++
		} else if r.c.Matches1(js_lexer.TCloseParen) {
			if parenDepth == 0 {
				return
			}
			parenDepth--
		}
		r.processToken()
	}
}

func (r *rootTransformer) processToken() {
	if r.c.Matches1(js_lexer.TClass) {
		r.processClass()
		return
	}
	for _, t := range r.transformers {
		if t.Process() {
			return
		}
	}
	r.c.CopyToken()
}

// Processes tokens until the cursor reaches "end"
func (r *rootTransformer) processUntil(end int) {
	for r.c.CurrentIndex() < end {
		r.processToken()
	}
}

// "(x): T => x" loses its return type. The arrow moves up next to the
// parenthesis because a line break isn't allowed before "=>".
func (r *rootTransformer) processPossibleArrowParamEnd() bool {
	c := r.c
	if !c.Matches2(js_lexer.TCloseParen, js_lexer.TColon) || !c.TokenAtRelativeIndex(1).IsType {
		return false
	}
	tokens := c.Tokens()
	next := c.CurrentIndex() + 1
	for next < len(tokens) && tokens[next].IsType {
		next++
	}
	if !c.MatchesAtIndex(next, js_lexer.TEqualsGreaterThan) {
		return false
	}
	c.RemoveInitialToken()
	for c.CurrentIndex() < next {
		c.RemoveToken()
	}
	c.ReplaceTokenTrimmingLeftWhitespace(") =>")
	return true
}

// "async <T>(x) => x" becomes "async (x) => x"
func (r *rootTransformer) processPossibleAsyncArrowWithTypeParams() bool {
	c := r.c
	if !c.MatchesContextual(js_lexer.ContextualAsync) || c.CurrentIndex()+1 >= len(c.Tokens()) {
		return false
	}
	if next := c.TokenAtRelativeIndex(1); next.Type != js_lexer.TLessThan || !next.IsType {
		return false
	}
	tokens := c.Tokens()
	next := c.CurrentIndex() + 1
	for next < len(tokens) && tokens[next].IsType {
		next++
	}
	if !c.MatchesAtIndex(next, js_lexer.TOpenParen) {
		return false
	}
	c.ReplaceToken("async (")
	for c.CurrentIndex() < next {
		c.RemoveToken()
	}
	c.RemoveToken()

	// The "(" was consumed so the ")" has to be consumed here too
	r.processBalancedCode()
	r.processToken()
	return true
}

func (r *rootTransformer) processPossibleTypeRange() bool {
	c := r.c
	if !c.CurrentToken().IsType {
		return false
	}
	c.RemoveInitialToken()
	for !c.IsAtEnd() && c.CurrentToken().IsType {
		c.RemoveToken()
	}
	return true
}

////////////////////////////////////////////////////////////////////////////////
// Classes

// Processes a class with a name and returns the name
func (r *rootTransformer) processNamedClass() string {
	c := r.c
	if !c.Matches2(js_lexer.TClass, js_lexer.TIdentifier) {
		c.Fail("Expected identifier for exported class name")
	}
	name := c.IdentifierNameAtRelativeIndex(1)
	r.processClass()
	return name
}

func (r *rootTransformer) processClass() {
	c := r.c
	contextID := c.CurrentToken().ContextID
	if contextID == js_ast.NoIndex {
		c.Fail("Expected class to have a context ID")
	}

	// Only derived classes need parameter properties to wait for "super()"
	tokens := c.Tokens()
	isDerived := false
	for i := c.CurrentIndex() + 1; i < len(tokens); i++ {
		token := &tokens[i]
		if token.Type == js_lexer.TOpenBrace && token.ContextID == contextID {
			break
		}
		if token.Type == js_lexer.TExtends && !token.IsType {
			isDerived = true
			break
		}
	}

	c.CopyExpectedToken(js_lexer.TClass)
	for !c.MatchesContextIDAndLabel(js_lexer.TOpenBrace, contextID) {
		r.processToken()
	}
	c.CopyToken()
	for !c.MatchesContextIDAndLabel(js_lexer.TCloseBrace, contextID) {
		r.processClassMember(contextID, isDerived)
	}
	c.CopyToken()
}

// The cursor is at the first token of a class member, which may be a
// modifier or a decorator. Members that are entirely type syntax are removed
// one run of type tokens at a time, so this may also be called in the middle
// of a member right after such a run.
func (r *rootTransformer) processClassMember(classContextID int32, isDerived bool) {
	c := r.c
	tokens := c.Tokens()
	start := c.CurrentIndex()

	if c.Matches1(js_lexer.TSemicolon) || r.processPossibleTypeRange() {
		if c.Matches1(js_lexer.TSemicolon) {
			c.CopyToken()
		}
		return
	}

	// Every member name carries the context ID of its class. Everything
	// before the name is a modifier or a decorator.
	nameIndex := start
	hasDecorators := false
	isStatic := false
	for nameIndex < len(tokens) && tokens[nameIndex].ContextID != classContextID {
		switch {
		case tokens[nameIndex].Type == js_lexer.TAt:
			hasDecorators = true
		case c.MatchesContextualAtIndex(nameIndex, js_lexer.ContextualStatic):
			isStatic = true
		}
		nameIndex++
	}
	if nameIndex == len(tokens) {
		c.Fail("Expected the class body to end")
	}
	name := &tokens[nameIndex]

	// "static {}"
	if name.Type == js_lexer.TCloseBrace || (c.MatchesContextualAtIndex(nameIndex, js_lexer.ContextualStatic) &&
		c.MatchesAtIndex(nameIndex+1, js_lexer.TOpenBrace)) {
		r.processUntil(nameIndex)
		if name.Type == js_lexer.TCloseBrace {
			return
		}
		c.CopyToken()
		c.CopyExpectedToken(js_lexer.TOpenBrace)
		r.processBalancedCode()
		c.CopyExpectedToken(js_lexer.TCloseBrace)
		return
	}

	afterName := nameIndex + 1
	if name.Type == js_lexer.TOpenBracket {
		for afterName < len(tokens) && !(tokens[afterName].Type == js_lexer.TCloseBracket && tokens[afterName].ContextID == classContextID) {
			afterName++
		}
		afterName++
	}
	next := afterName
	for next < len(tokens) && tokens[next].IsType {
		next++
	}

	// Methods
	if c.MatchesAtIndex(next, js_lexer.TOpenParen) {
		isConstructor := !isStatic && name.Type != js_lexer.TOpenBracket &&
			(c.MatchesContextualAtIndex(nameIndex, js_lexer.ContextualConstructor) ||
				(name.Type == js_lexer.TStringLiteral && c.StringValueAtIndex(nameIndex) == "constructor"))
		r.processUntil(afterName)
		if isConstructor {
			r.processConstructor(isDerived)
		} else {
			r.processMethodAfterName()
		}
		return
	}

	// Fields
	end := next
	isInitialized := c.MatchesAtIndex(next, js_lexer.TEquals)
	if isInitialized {
		if tokens[next].RHSEndIndex == js_ast.NoIndex {
			c.Fail("Expected an initializer end on a class field")
		}
		end = int(tokens[next].RHSEndIndex)
	}
	if c.MatchesAtIndex(end, js_lexer.TSemicolon) {
		end++
	}

	// "x: number;" declares a type and assigns nothing, so it goes away
	if !isInitialized && next > afterName && !hasDecorators && r.ctx.options.TypeDialect != js_parser.DialectNone {
		c.RemoveInitialToken()
		for c.CurrentIndex() < end {
			c.RemoveToken()
		}
		return
	}
	r.processUntil(end)
}

// The cursor is at the type parameters or the "(" of a method
func (r *rootTransformer) processMethodAfterName() {
	c := r.c
	tokens := c.Tokens()
	r.processPossibleTypeRange()
	contextID := c.CurrentToken().ContextID
	bodyEnd := c.CurrentIndex() + 1
	for bodyEnd < len(tokens) && !(tokens[bodyEnd].Type == js_lexer.TCloseBrace && tokens[bodyEnd].ContextID == contextID) {
		bodyEnd++
	}
	if bodyEnd == len(tokens) {
		c.Fail("Expected a method body")
	}
	r.processUntil(bodyEnd + 1)
}

// "constructor(private x) {}" becomes "constructor( x) {;this.x = x;}". When
// the class has a base class, the assignments go after the "super()" call
// since "this" can't be used before then.
func (r *rootTransformer) processConstructor(isDerived bool) {
	c := r.c
	tokens := c.Tokens()
	contextID := c.CurrentToken().ContextID
	if !c.Matches1(js_lexer.TOpenParen) || contextID == js_ast.NoIndex {
		c.Fail("Expected a constructor parameter list")
	}

	var assignments []string
	i := c.CurrentIndex() + 1
	for ; i < len(tokens) && !(tokens[i].Type == js_lexer.TCloseParen && tokens[i].ContextID == contextID); i++ {
		if isParameterPropertyModifier(c, i) && c.MatchesAtIndex(i+1, js_lexer.TIdentifier) && !tokens[i+1].IsType {
			name := c.IdentifierNameAtIndex(i + 1)
			assignments = append(assignments, "this."+name+" = "+name)
		}
	}
	if len(assignments) == 0 {
		r.processMethodAfterName()
		return
	}

	bodyStart := i + 1
	for bodyStart < len(tokens) && !(tokens[bodyStart].Type == js_lexer.TOpenBrace && tokens[bodyStart].ContextID == contextID) {
		bodyStart++
	}
	bodyEnd := bodyStart + 1
	for bodyEnd < len(tokens) && !(tokens[bodyEnd].Type == js_lexer.TCloseBrace && tokens[bodyEnd].ContextID == contextID) {
		bodyEnd++
	}
	if bodyEnd >= len(tokens) {
		c.Fail("Expected a constructor body")
	}

	insertAt := bodyStart
	if isDerived {
		for j := bodyStart + 1; j < bodyEnd; j++ {
			if tokens[j].Type == js_lexer.TSuper && c.MatchesAtIndex(j+1, js_lexer.TOpenParen) {
				callID := tokens[j+1].ContextID
				k := j + 2
				for k < bodyEnd && !(tokens[k].Type == js_lexer.TCloseParen && tokens[k].ContextID == callID) {
					k++
				}
				insertAt = k
				break
			}
		}
	}

	r.processUntil(insertAt)
	if c.CurrentIndex() != insertAt {
		c.Fail("Expected to stop at the end of the \"super\" call")
	}
	c.CopyToken()
	c.AppendCode(";" + strings.Join(assignments, ";") + ";")
	r.processUntil(bodyEnd + 1)
}

func isParameterPropertyModifier(c *js_printer.Cursor, index int) bool {
	token := c.Tokens()[index]
	if token.Type != js_lexer.TIdentifier || !token.IsType {
		return false
	}
	switch token.ContextualKeyword {
	case js_lexer.ContextualPublic, js_lexer.ContextualPrivate, js_lexer.ContextualProtected,
		js_lexer.ContextualReadonly, js_lexer.ContextualOverride:
		return true
	}
	return false
}
