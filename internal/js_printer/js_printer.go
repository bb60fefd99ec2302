package js_printer

// There is no syntax tree to print. Output is produced by walking the token
// array with a cursor and, for each token, either copying its source text,
// replacing it with other text, or dropping it. The text between two tokens
// (whitespace and comments) is copied along with the token that follows it,
// so everything a transform doesn't touch comes out exactly as it went in.

import (
	"fmt"
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/runtime"
)

type Options struct {
	// Comments containing "@flow" have it removed
	IsFlow bool

	// Optional chains and nullish coalescing are left alone
	DisableESTransforms bool
}

// This is the value that all cursor failures panic with. It means the token
// stream didn't have the shape that the parser guaranteed, which is a bug
// and not a problem with the input.
type InternalError struct {
	Text string

	// The byte offset of the token the cursor was on
	Offset int32
}

func (err InternalError) Error() string {
	return err.Text
}

type Cursor struct {
	source  logger.Source
	tokens  []js_ast.Token
	helpers *runtime.Manager
	options Options

	js    []byte
	index int

	// The output offset of each token, or -1 for tokens that were never
	// written. These are used to generate source maps.
	mappings []int32
}

type Snapshot struct {
	index  int
	length int
}

type Result struct {
	JS       []byte
	Mappings []int32
}

func NewCursor(source logger.Source, tokens []js_ast.Token, options Options, helpers *runtime.Manager) *Cursor {
	mappings := make([]int32, len(tokens))
	for i := range mappings {
		mappings[i] = -1
	}
	return &Cursor{
		source:   source,
		tokens:   tokens,
		helpers:  helpers,
		options:  options,
		js:       make([]byte, 0, len(source.Contents)),
		mappings: mappings,
	}
}

func (c *Cursor) Tokens() []js_ast.Token {
	return c.tokens
}

func (c *Cursor) Fail(text string) {
	offset := int32(len(c.source.Contents))
	if c.index < len(c.tokens) {
		offset = c.tokens[c.index].Start
	}
	panic(InternalError{Text: text, Offset: offset})
}

////////////////////////////////////////////////////////////////////////////////
// Snapshots

func (c *Cursor) Snapshot() Snapshot {
	return Snapshot{index: c.index, length: len(c.js)}
}

// Mappings written after the snapshot are left behind. They are overwritten
// when those tokens are written again, which they always are.
func (c *Cursor) RestoreToSnapshot(s Snapshot) {
	c.index = s.index
	c.js = c.js[:s.length]
}

// Removes everything written since the snapshot and returns it without
// moving the token index back
func (c *Cursor) GetAndRemoveCodeSinceSnapshot(s Snapshot) string {
	code := string(c.js[s.length:])
	c.js = c.js[:s.length]
	return code
}

////////////////////////////////////////////////////////////////////////////////
// Queries

func (c *Cursor) CurrentIndex() int {
	return c.index
}

func (c *Cursor) IsAtEnd() bool {
	return c.index == len(c.tokens)
}

func (c *Cursor) CurrentToken() *js_ast.Token {
	return &c.tokens[c.index]
}

func (c *Cursor) TokenAtRelativeIndex(relativeIndex int) *js_ast.Token {
	return &c.tokens[c.index+relativeIndex]
}

func (c *Cursor) CurrentTokenCode() string {
	return c.CodeForToken(&c.tokens[c.index])
}

func (c *Cursor) CodeForToken(token *js_ast.Token) string {
	return c.source.Contents[token.Start:token.End]
}

func (c *Cursor) IdentifierName() string {
	return c.CurrentTokenCode()
}

func (c *Cursor) IdentifierNameAtIndex(index int) string {
	return c.CodeForToken(&c.tokens[index])
}

func (c *Cursor) IdentifierNameAtRelativeIndex(relativeIndex int) string {
	return c.IdentifierNameAtIndex(c.index + relativeIndex)
}

// The contents of a string literal token without the quotes. Escapes are
// left as they are.
func (c *Cursor) StringValue() string {
	return c.StringValueAtIndex(c.index)
}

func (c *Cursor) StringValueAtIndex(index int) string {
	token := &c.tokens[index]
	return c.source.Contents[token.Start+1 : token.End-1]
}

// Indices past the end never match so that callers don't have to check
func (c *Cursor) MatchesAtIndex(index int, kinds ...js_lexer.T) bool {
	if index < 0 || index+len(kinds) > len(c.tokens) {
		return false
	}
	for i, kind := range kinds {
		if c.tokens[index+i].Type != kind {
			return false
		}
	}
	return true
}

func (c *Cursor) Matches1(t1 js_lexer.T) bool {
	return c.MatchesAtIndex(c.index, t1)
}

func (c *Cursor) Matches2(t1 js_lexer.T, t2 js_lexer.T) bool {
	return c.MatchesAtIndex(c.index, t1, t2)
}

func (c *Cursor) Matches3(t1 js_lexer.T, t2 js_lexer.T, t3 js_lexer.T) bool {
	return c.MatchesAtIndex(c.index, t1, t2, t3)
}

func (c *Cursor) Matches4(t1 js_lexer.T, t2 js_lexer.T, t3 js_lexer.T, t4 js_lexer.T) bool {
	return c.MatchesAtIndex(c.index, t1, t2, t3, t4)
}

func (c *Cursor) Matches5(t1 js_lexer.T, t2 js_lexer.T, t3 js_lexer.T, t4 js_lexer.T, t5 js_lexer.T) bool {
	return c.MatchesAtIndex(c.index, t1, t2, t3, t4, t5)
}

func (c *Cursor) MatchesContextual(keyword js_lexer.ContextualKeyword) bool {
	return c.MatchesContextualAtIndex(c.index, keyword)
}

func (c *Cursor) MatchesContextualAtIndex(index int, keyword js_lexer.ContextualKeyword) bool {
	return c.MatchesAtIndex(index, js_lexer.TIdentifier) && c.tokens[index].ContextualKeyword == keyword
}

func (c *Cursor) MatchesContextIDAndLabel(kind js_lexer.T, contextID int32) bool {
	return c.Matches1(kind) && c.tokens[c.index].ContextID == contextID
}

////////////////////////////////////////////////////////////////////////////////
// Writing

func (c *Cursor) previousWhitespaceAndComments() string {
	start := int32(0)
	if c.index > 0 {
		start = c.tokens[c.index-1].End
	}
	end := int32(len(c.source.Contents))
	if c.index < len(c.tokens) {
		end = c.tokens[c.index].Start
	}
	text := c.source.Contents[start:end]
	if c.options.IsFlow {
		text = strings.ReplaceAll(text, "@flow", "")
	}
	return text
}

// Keeps only the line breaks so that line numbers don't change
func onlyLineBreaks(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if c := text[i]; c == '\r' || c == '\n' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (c *Cursor) checkNotAtEnd() {
	if c.index == len(c.tokens) {
		c.Fail("Unexpectedly reached the end of the input")
	}
}

func (c *Cursor) writeToken(whitespace string, prefix string, code string) {
	c.js = append(c.js, whitespace...)
	c.appendTokenPrefix()
	c.js = append(c.js, prefix...)
	c.mappings[c.index] = int32(len(c.js))
	c.js = append(c.js, code...)
	c.appendTokenSuffix()
	c.index++
}

func (c *Cursor) CopyToken() {
	c.checkNotAtEnd()
	c.writeToken(c.previousWhitespaceAndComments(), "", c.CurrentTokenCode())
}

func (c *Cursor) CopyExpectedToken(kind js_lexer.T) {
	if !c.Matches1(kind) {
		c.Fail(fmt.Sprintf("Expected token %s", kind.String()))
	}
	c.CopyToken()
}

// The prefix goes after any chain helper call that starts at this token
func (c *Cursor) CopyTokenWithPrefix(prefix string) {
	c.checkNotAtEnd()
	c.writeToken(c.previousWhitespaceAndComments(), prefix, c.CurrentTokenCode())
}

func (c *Cursor) ReplaceToken(code string) {
	c.checkNotAtEnd()
	c.writeToken(c.previousWhitespaceAndComments(), "", code)
}

// Comments and spaces before the token are dropped but line breaks are kept
func (c *Cursor) ReplaceTokenTrimmingLeftWhitespace(code string) {
	c.checkNotAtEnd()
	c.writeToken(onlyLineBreaks(c.previousWhitespaceAndComments()), "", code)
}

// For the first token of a removed statement. The text before it belongs to
// the previous statement, so it's kept.
func (c *Cursor) RemoveInitialToken() {
	c.ReplaceToken("")
}

func (c *Cursor) RemoveToken() {
	c.ReplaceTokenTrimmingLeftWhitespace("")
}

// Removes tokens up to but not including the "}" that closes the current
// level of braces, or to the end of the file
func (c *Cursor) RemoveBalancedCode() {
	braceDepth := 0
	for !c.IsAtEnd() {
		if c.Matches1(js_lexer.TOpenBrace) {
			braceDepth++
		} else if c.Matches1(js_lexer.TCloseBrace) {
			if braceDepth == 0 {
				return
			}
			braceDepth--
		}
		c.RemoveToken()
	}
}

func (c *Cursor) AppendCode(code string) {
	c.js = append(c.js, code...)
}

// These only move the index. Nothing is written.
func (c *Cursor) NextToken() {
	c.checkNotAtEnd()
	c.index++
}

func (c *Cursor) PreviousToken() {
	c.index--
}

func (c *Cursor) Finish() Result {
	if c.index != len(c.tokens) {
		c.Fail("Tried to finish processing tokens before reaching the end")
	}
	c.js = append(c.js, c.previousWhitespaceAndComments()...)
	return Result{JS: c.js, Mappings: c.mappings}
}

////////////////////////////////////////////////////////////////////////////////
// Optional chains and nullish coalescing

// "a?.b ?? c" becomes "_nullishCoalesce(_optionalChain([a, 'optionalAccess',
// _ => _.b]), () => ( c))". The helper calls around each chain and each "??"
// are written here as tokens with start and end markers go by. The operators
// in between are rewritten by a transformer.
func (c *Cursor) appendTokenPrefix() {
	token := &c.tokens[c.index]
	if token.NumNullishCoalesceStarts > 0 || token.IsOptionalChainStart {
		token.IsAsyncOperation = c.isAsyncOperation()
	}
	if c.options.DisableESTransforms {
		return
	}

	for i := int32(0); i < token.NumNullishCoalesceStarts; i++ {
		if token.IsAsyncOperation {
			c.js = append(c.js, "await "...)
			c.js = append(c.js, c.helpers.Name(runtime.HelperAsyncNullishCoalesce)...)
		} else {
			c.js = append(c.js, c.helpers.Name(runtime.HelperNullishCoalesce)...)
		}
		c.js = append(c.js, '(')
	}

	if token.IsOptionalChainStart {
		if token.IsAsyncOperation {
			c.js = append(c.js, "await "...)
		}
		var helper runtime.HelperName
		isDelete := c.index > 0 && c.tokens[c.index-1].Type == js_lexer.TDelete
		switch {
		case isDelete && token.IsAsyncOperation:
			helper = runtime.HelperAsyncOptionalChainDelete
		case isDelete:
			helper = runtime.HelperOptionalChainDelete
		case token.IsAsyncOperation:
			helper = runtime.HelperAsyncOptionalChain
		default:
			helper = runtime.HelperOptionalChain
		}
		c.js = append(c.js, c.helpers.Name(helper)...)
		c.js = append(c.js, "(["...)
	}
}

func (c *Cursor) appendTokenSuffix() {
	if c.options.DisableESTransforms {
		return
	}
	token := &c.tokens[c.index]
	if token.IsOptionalChainEnd {
		c.js = append(c.js, "])"...)
	}
	for i := int32(0); i < token.NumNullishCoalesceEnds; i++ {
		c.js = append(c.js, "))"...)
	}
}

// An operation is async if it contains an "await" at the same depth as its
// first token. The scan stops where the chain or "??" expression ends.
func (c *Cursor) isAsyncOperation() bool {
	start := &c.tokens[c.index]
	depth := int32(0)
	for i := c.index; i < len(c.tokens); i++ {
		token := &c.tokens[i]
		if token.IsOptionalChainStart {
			depth++
		}
		if token.IsOptionalChainEnd {
			depth--
		}
		depth += token.NumNullishCoalesceStarts
		depth -= token.NumNullishCoalesceEnds
		if token.ContextualKeyword == js_lexer.ContextualAwait && token.IdentifierRole == js_ast.RoleNone &&
			token.ScopeDepth == start.ScopeDepth {
			return true
		}
		if depth <= 0 {
			break
		}
	}
	return false
}
