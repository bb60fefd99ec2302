package transform

import "github.com/tokenstrip/tokenstrip/internal/js_printer"

// Flow has no syntax with a runtime value that TypeScript lacks. Enums are
// rejected by the parser.
type flowTransformer struct {
	transformerDefaults
	c    *js_printer.Cursor
	root *rootTransformer
}

func newFlowTransformer(ctx *context, root *rootTransformer) *flowTransformer {
	return &flowTransformer{c: ctx.cursor, root: root}
}

func (t *flowTransformer) Process() bool {
	r := t.root
	return r.processPossibleArrowParamEnd() || r.processPossibleAsyncArrowWithTypeParams() || r.processPossibleTypeRange()
}
