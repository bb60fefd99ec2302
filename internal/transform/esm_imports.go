package transform

import (
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
	"github.com/tokenstrip/tokenstrip/internal/runtime"
)

// Imports and exports stay ES module syntax. What changes is that imports
// and exports of types are removed, along with the TypeScript forms that
// have no ES module equivalent.
type esmImportTransformer struct {
	transformerDefaults
	ctx *context
	c   *js_printer.Cursor

	// Both are only computed when TypeScript import elision is enabled
	nonTypeIdentifiers map[string]bool
	declarations       declarationInfo
}

func newESMImportTransformer(ctx *context) *esmImportTransformer {
	t := &esmImportTransformer{ctx: ctx, c: ctx.cursor}
	if t.elidesUnusedNames() {
		t.nonTypeIdentifiers = nonTypeIdentifiers(t.c)
		t.declarations = newDeclarationInfo(t.c)
	}
	return t
}

func (t *esmImportTransformer) elidesUnusedNames() bool {
	return t.ctx.options.IsTypeScript() && !t.ctx.options.KeepUnusedImports
}

func (t *esmImportTransformer) Process() bool {
	c := t.c

	// Statements that are entirely types are removed by the type transforms
	if (c.Matches1(js_lexer.TImport) || c.Matches1(js_lexer.TExport)) && c.CurrentToken().IsType {
		return false
	}

	switch {
	case c.Matches3(js_lexer.TImport, js_lexer.TIdentifier, js_lexer.TEquals):
		return t.processImportEquals()

	case c.Matches2(js_lexer.TExport, js_lexer.TEquals):
		c.ReplaceToken("module.exports")
		return true

	case c.Matches1(js_lexer.TImport):
		return t.processImport()

	case c.Matches2(js_lexer.TExport, js_lexer.TDefault):
		return t.processExportDefault()

	case c.Matches2(js_lexer.TExport, js_lexer.TOpenBrace):
		return t.processNamedExports()

	case c.Matches2(js_lexer.TExport, js_lexer.TAsterisk) && t.ctx.options.RewriteImportSpecifier != nil:
		// "export * from 'a'" and "export * as ns from 'a'"
		c.CopyExpectedToken(js_lexer.TExport)
		c.CopyExpectedToken(js_lexer.TAsterisk)
		if c.MatchesContextual(js_lexer.ContextualAs) {
			c.CopyToken()
			c.CopyToken()
		}
		c.CopyToken()
		t.replaceImportPath()
		return true
	}
	return false
}

func (t *esmImportTransformer) replaceImportPath() {
	c := t.c
	if !c.Matches1(js_lexer.TStringLiteral) {
		c.Fail("Expected an import path")
	}
	c.ReplaceToken(t.ctx.options.RewriteImportSpecifier(c.CurrentTokenCode()))
}

// "import A = require('a')"
func (t *esmImportTransformer) processImportEquals() bool {
	c := t.c
	name := c.IdentifierNameAtRelativeIndex(1)
	switch {
	case t.shouldElideImportedName(name):
		elideImportEquals(c)

	case t.ctx.options.InjectCreateRequireForImportRequire && c.MatchesContextualAtIndex(c.CurrentIndex()+3, js_lexer.ContextualRequire):
		// Node's ES modules have no "require" global
		c.ReplaceToken("const")
		c.CopyToken()
		c.CopyToken()
		c.ReplaceToken(t.ctx.helpers.Name(runtime.HelperRequire))

	default:
		c.ReplaceToken("const")
	}
	return true
}

func (t *esmImportTransformer) processImport() bool {
	c := t.c

	if c.Matches2(js_lexer.TImport, js_lexer.TOpenParen) {
		if t.ctx.options.DynamicImportFunction == "" {
			return false
		}
		c.ReplaceToken(t.ctx.helpers.Name(runtime.HelperDynamicImport))
		return true
	}

	// "import.meta"
	if c.Matches2(js_lexer.TImport, js_lexer.TDot) {
		return false
	}

	// If nothing is left after removing the types, the whole statement goes.
	// That's only known at the end, so the output is rolled back and the
	// statement is removed from the start.
	snapshot := c.Snapshot()
	if t.removeImportTypeBindings() {
		c.RestoreToSnapshot(snapshot)
		for !c.Matches1(js_lexer.TStringLiteral) {
			c.RemoveToken()
		}
		c.RemoveToken()
		removeMaybeImportAttributes(c)
		if c.Matches1(js_lexer.TSemicolon) {
			c.RemoveToken()
		}
	}
	return true
}

// Copies the import up to its path, minus the names that are types, and
// returns true if the whole statement should be removed instead. The path
// and whatever follows it is left for the root transformer.
func (t *esmImportTransformer) removeImportTypeBindings() bool {
	c := t.c
	options := &t.ctx.options
	c.CopyExpectedToken(js_lexer.TImport)

	// "import 'a'"
	if c.Matches1(js_lexer.TStringLiteral) {
		if options.RewriteImportSpecifier != nil {
			t.replaceImportPath()
		} else {
			c.CopyToken()
		}
		return false
	}

	// "import module x from 'x'"
	if c.MatchesContextual(js_lexer.ContextualModule) && c.MatchesContextualAtIndex(c.CurrentIndex()+2, js_lexer.ContextualFrom) {
		c.CopyToken()
	}

	foundNonTypeImport := false
	foundAnyNamedImport := false
	needsComma := false

	// "import A from 'a'"
	if c.Matches1(js_lexer.TIdentifier) {
		if t.shouldElideImportedName(c.IdentifierName()) {
			c.RemoveToken()
			if c.Matches1(js_lexer.TComma) {
				c.RemoveToken()
			}
		} else {
			foundNonTypeImport = true
			c.CopyToken()

			// The comma stays only if something after it stays
			if c.Matches1(js_lexer.TComma) {
				needsComma = true
				c.RemoveToken()
			}
		}
	}

	if c.Matches1(js_lexer.TAsterisk) {
		// "* as ns"
		if t.shouldElideImportedName(c.IdentifierNameAtRelativeIndex(2)) {
			c.RemoveToken()
			c.RemoveToken()
			c.RemoveToken()
		} else {
			if needsComma {
				c.AppendCode(",")
			}
			foundNonTypeImport = true
			c.CopyExpectedToken(js_lexer.TAsterisk)
			c.CopyExpectedToken(js_lexer.TIdentifier)
			c.CopyExpectedToken(js_lexer.TIdentifier)
		}
	} else if c.Matches1(js_lexer.TOpenBrace) {
		if needsComma {
			c.AppendCode(",")
		}
		c.CopyToken()
		for !c.Matches1(js_lexer.TCloseBrace) {
			foundAnyNamedImport = true
			info := importExportSpecifierInfo(c, c.CurrentIndex())
			if info.isType || t.shouldElideImportedName(info.rightName) {
				for c.CurrentIndex() < info.endIndex {
					c.RemoveToken()
				}
				if c.Matches1(js_lexer.TComma) {
					c.RemoveToken()
				}
			} else {
				foundNonTypeImport = true
				for c.CurrentIndex() < info.endIndex {
					c.CopyToken()
				}
				if c.Matches1(js_lexer.TComma) {
					c.CopyToken()
				}
			}
		}
		c.CopyExpectedToken(js_lexer.TCloseBrace)
	}

	var allImportsRemoved bool
	switch {
	case options.KeepUnusedImports:
	case options.IsTypeScript():
		allImportsRemoved = !foundNonTypeImport
	case options.IsFlow():
		// Unlike TypeScript, Flow keeps "import {} from 'a'"
		allImportsRemoved = foundAnyNamedImport && !foundNonTypeImport
	}
	if allImportsRemoved {
		return true
	}

	if options.RewriteImportSpecifier != nil && c.MatchesContextual(js_lexer.ContextualFrom) {
		c.CopyToken()
		if c.Matches1(js_lexer.TStringLiteral) {
			t.replaceImportPath()
		}
	}
	return false
}

func (t *esmImportTransformer) shouldElideImportedName(name string) bool {
	return t.elidesUnusedNames() && !t.nonTypeIdentifiers[name]
}

// Only exports of names that are never declared as values are removed here.
// An imported name isn't declared so it's never removed.
func (t *esmImportTransformer) shouldElideExportedName(name string) bool {
	return t.elidesUnusedNames() && t.declarations.typeDeclarations[name] && !t.declarations.valueDeclarations[name]
}

func (t *esmImportTransformer) processExportDefault() bool {
	if !shouldElideDefaultExport(t.ctx, &t.declarations) {
		return false
	}
	c := t.c
	c.RemoveInitialToken()
	c.RemoveToken()
	c.RemoveToken()
	return true
}

// "export {a, type b}" and "export {c, type d} from 'a'". Type specifiers are
// removed from both. Names that are only types are removed from the first
// form but not from the second since what the other module exports isn't
// known. A re-export with nothing left doesn't need to load the other
// module, so its "from" clause goes too.
func (t *esmImportTransformer) processNamedExports() bool {
	c := t.c
	options := &t.ctx.options
	isTypeScript := options.IsTypeScript()
	if !isTypeScript && options.RewriteImportSpecifier == nil {
		return false
	}
	snapshot := c.Snapshot()
	c.CopyExpectedToken(js_lexer.TExport)
	c.CopyExpectedToken(js_lexer.TOpenBrace)

	isReExport := isExportFrom(c)
	if !isTypeScript && !isReExport {
		c.RestoreToSnapshot(snapshot)
		return false
	}

	foundNonTypeExport := !isTypeScript
	foundAnyExport := false
	for !c.Matches1(js_lexer.TCloseBrace) {
		if !isTypeScript {
			c.CopyToken()
			continue
		}
		foundAnyExport = true
		info := importExportSpecifierInfo(c, c.CurrentIndex())
		if info.isType || (!isReExport && t.shouldElideExportedName(info.leftName)) {
			for c.CurrentIndex() < info.endIndex {
				c.RemoveToken()
			}
			if c.Matches1(js_lexer.TComma) {
				c.RemoveToken()
			}
		} else {
			foundNonTypeExport = true
			for c.CurrentIndex() < info.endIndex {
				c.CopyToken()
			}
			if c.Matches1(js_lexer.TComma) {
				c.CopyToken()
			}
		}
	}
	c.CopyExpectedToken(js_lexer.TCloseBrace)

	// This leaves "export {}" behind, which does nothing. An "export {} from"
	// that was already empty still loads the module, so it's kept.
	if !options.KeepUnusedImports && isReExport && foundAnyExport && !foundNonTypeExport {
		c.RemoveToken()
		c.RemoveToken()
		removeMaybeImportAttributes(c)
	} else if isReExport && options.RewriteImportSpecifier != nil {
		c.CopyToken()
		t.replaceImportPath()
	}
	return true
}
