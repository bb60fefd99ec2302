package transform

import (
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
)

// "1_000_000" becomes "1000000"
type numericSeparatorTransformer struct {
	transformerDefaults
	c *js_printer.Cursor
}

func newNumericSeparatorTransformer(ctx *context) *numericSeparatorTransformer {
	return &numericSeparatorTransformer{c: ctx.cursor}
}

func (t *numericSeparatorTransformer) Process() bool {
	c := t.c
	if !c.Matches1(js_lexer.TNumericLiteral) && !c.Matches1(js_lexer.TBigIntegerLiteral) {
		return false
	}
	code := c.CurrentTokenCode()
	if !strings.Contains(code, "_") {
		return false
	}
	c.ReplaceToken(strings.ReplaceAll(code, "_", ""))
	return true
}
