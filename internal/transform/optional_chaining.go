package transform

import (
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
)

// The cursor writes the "_optionalChain([" and "])" around each chain. This
// rewrites each operator inside the chain into an operation name and a
// function, so "a?.b.c()" becomes:
//
//	_optionalChain([a, 'optionalAccess', _ => _.b, 'access', _2 => _2.c, 'call', _3 => _3()])
//
// The right side of "??" becomes the body of an arrow function, which the
// cursor closes after the last token of the expression.
type optionalChainingNullishTransformer struct {
	transformerDefaults
	ctx *context
	c   *js_printer.Cursor
}

func newOptionalChainingNullishTransformer(ctx *context) *optionalChainingNullishTransformer {
	return &optionalChainingNullishTransformer{ctx: ctx, c: ctx.cursor}
}

func (t *optionalChainingNullishTransformer) Process() bool {
	c := t.c
	tokens := c.Tokens()

	if c.Matches1(js_lexer.TQuestionQuestion) {
		token := c.CurrentToken()
		if token.NullishStartIndex != js_ast.NoIndex && tokens[token.NullishStartIndex].IsAsyncOperation {
			c.ReplaceTokenTrimmingLeftWhitespace(", async () => (")
		} else {
			c.ReplaceTokenTrimmingLeftWhitespace(", () => (")
		}
		return true
	}

	// The "delete" moves into the last function of the chain
	if c.Matches1(js_lexer.TDelete) && c.CurrentIndex()+1 < len(tokens) && c.TokenAtRelativeIndex(1).IsOptionalChainStart {
		c.RemoveInitialToken()
		return true
	}

	token := c.CurrentToken()
	if token.SubscriptStartIndex == js_ast.NoIndex || !tokens[token.SubscriptStartIndex].IsOptionalChainStart {
		return false
	}
	chainStart := int(token.SubscriptStartIndex)

	// "super" can't be null and "super.x" must stay intact to mean anything,
	// so the subscript after it is left alone
	if c.CurrentIndex() > 0 && c.TokenAtRelativeIndex(-1).Type == js_lexer.TSuper {
		return false
	}

	param := t.ctx.names.ClaimFreeName("_")
	var arrow string
	if chainStart > 0 && tokens[chainStart-1].Type == js_lexer.TDelete && t.isLastSubscriptInChain() {
		arrow = param + " => delete " + param
	} else {
		arrow = param + " => " + param
	}
	if tokens[chainStart].IsAsyncOperation {
		arrow = "async " + arrow
	}

	switch {
	case c.Matches2(js_lexer.TQuestionDot, js_lexer.TOpenParen) || c.Matches2(js_lexer.TQuestionDot, js_lexer.TLessThan):
		if t.justSkippedSuper() {
			c.AppendCode(".bind(this)")
		}
		c.ReplaceTokenTrimmingLeftWhitespace(", 'optionalCall', " + arrow)

	case c.Matches2(js_lexer.TQuestionDot, js_lexer.TOpenBracket):
		c.ReplaceTokenTrimmingLeftWhitespace(", 'optionalAccess', " + arrow)

	case c.Matches1(js_lexer.TQuestionDot):
		c.ReplaceTokenTrimmingLeftWhitespace(", 'optionalAccess', " + arrow + ".")

	case c.Matches1(js_lexer.TDot):
		c.ReplaceTokenTrimmingLeftWhitespace(", 'access', " + arrow + ".")

	case c.Matches1(js_lexer.TOpenBracket):
		c.ReplaceTokenTrimmingLeftWhitespace(", 'access', " + arrow + "[")

	case c.Matches1(js_lexer.TOpenParen):
		if t.justSkippedSuper() {
			c.AppendCode(".bind(this)")
		}
		c.ReplaceTokenTrimmingLeftWhitespace(", 'call', " + arrow + "(")

	default:
		c.Fail("Unexpected subscript operator in optional chain")
	}
	return true
}

// Whether there are no more subscripts of this chain after the current one
func (t *optionalChainingNullishTransformer) isLastSubscriptInChain() bool {
	c := t.c
	tokens := c.Tokens()
	depth := 0
	for i := c.CurrentIndex() + 1; ; i++ {
		if i >= len(tokens) {
			c.Fail("Reached the end of the code while finding the end of the access chain")
		}
		if tokens[i].IsOptionalChainStart {
			depth++
		} else if tokens[i].IsOptionalChainEnd {
			depth--
		}
		if depth < 0 {
			return true
		}
		if depth == 0 && tokens[i].SubscriptStartIndex != js_ast.NoIndex {
			return false
		}
	}
}

// Whether the previous subscript of this chain was applied to "super". A
// method called through "super" needs "this" bound explicitly.
func (t *optionalChainingNullishTransformer) justSkippedSuper() bool {
	c := t.c
	tokens := c.Tokens()
	depth := 0
	for i := c.CurrentIndex() - 1; ; i-- {
		if i < 0 {
			c.Fail("Reached the start of the code while finding the start of the access chain")
		}
		if tokens[i].IsOptionalChainStart {
			depth--
		} else if tokens[i].IsOptionalChainEnd {
			depth++
		}
		if depth < 0 {
			return false
		}
		if depth == 0 && tokens[i].SubscriptStartIndex != js_ast.NoIndex {
			return i > 0 && tokens[i-1].Type == js_lexer.TSuper
		}
	}
}
