package transform

import (
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
)

// "catch {}" becomes "catch (e) {}" with a name that's unused in the file
type optionalCatchBindingTransformer struct {
	transformerDefaults
	ctx *context
	c   *js_printer.Cursor
}

func newOptionalCatchBindingTransformer(ctx *context) *optionalCatchBindingTransformer {
	return &optionalCatchBindingTransformer{ctx: ctx, c: ctx.cursor}
}

func (t *optionalCatchBindingTransformer) Process() bool {
	if !t.c.Matches2(js_lexer.TCatch, js_lexer.TOpenBrace) {
		return false
	}
	t.c.CopyToken()
	t.c.AppendCode(" (" + t.ctx.names.ClaimFreeName("e") + ")")
	return true
}
