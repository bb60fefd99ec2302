package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
	"github.com/tokenstrip/tokenstrip/internal/runtime"
)

////////////////////////////////////////////////////////////////////////////////
// Import preprocessing

type namedImport struct {
	importedName string
	localName    string
}

// Everything that's imported from or re-exported from one path. All imports
// of the same path share a single "require" call.
type importInfo struct {
	defaultNames    []string
	wildcardNames   []string
	namedImports    []namedImport
	namedExports    []namedImport
	exportStarNames []string
	hasBareImport   bool
	hasStarExport   bool
}

// Before anything is printed, every import and export in the file is scanned
// to decide what each path's "require" code is and how each imported name is
// referenced. References to imports become property accesses on the module
// object, so "import {a} from 'b'; a()" becomes "var _b = require('b');
// _b.a.call(void 0, )".
type cjsImportProcessor struct {
	ctx *context
	c   *js_printer.Cursor

	paths        []string
	infoByPath   map[string]*importInfo
	codeByPath   map[string]string
	replacements map[string]string

	// Local names that are exported, mapped to the names they're exported as.
	// An assignment to one of these also has to update the exports.
	exportBindings map[string][]string

	nonTypeIdentifiers map[string]bool
}

func newCJSImportProcessor(ctx *context) *cjsImportProcessor {
	return &cjsImportProcessor{
		ctx:            ctx,
		c:              ctx.cursor,
		infoByPath:     make(map[string]*importInfo),
		codeByPath:     make(map[string]string),
		replacements:   make(map[string]string),
		exportBindings: make(map[string][]string),
	}
}

func (p *cjsImportProcessor) preprocessTokens() {
	c := p.c
	for i := range c.Tokens() {
		if c.MatchesAtIndex(i, js_lexer.TImport) && !c.MatchesAtIndex(i, js_lexer.TImport, js_lexer.TIdentifier, js_lexer.TEquals) {
			p.preprocessImportAtIndex(i)
		}
		if c.MatchesAtIndex(i, js_lexer.TExport) && !c.MatchesAtIndex(i, js_lexer.TExport, js_lexer.TEquals) {
			p.preprocessExportAtIndex(i)
		}
	}
	p.generateImportReplacements()
}

// This has to run after shadowed globals are identified. A path whose
// imports are all only used as types has its "require" removed.
func (p *cjsImportProcessor) pruneTypeOnlyImports() {
	p.nonTypeIdentifiers = nonTypeIdentifiers(p.c)
	for _, path := range p.paths {
		info := p.infoByPath[path]
		if info.hasBareImport || info.hasStarExport || len(info.exportStarNames) > 0 || len(info.namedExports) > 0 {
			continue
		}
		allElided := true
		for _, name := range info.allLocalNames() {
			if !p.shouldAutomaticallyElideImportedName(name) {
				allElided = false
				break
			}
		}
		if allElided {
			p.codeByPath[path] = ""
		}
	}
}

func (info *importInfo) allLocalNames() []string {
	names := make([]string, 0, len(info.defaultNames)+len(info.wildcardNames)+len(info.namedImports))
	names = append(names, info.defaultNames...)
	names = append(names, info.wildcardNames...)
	for _, named := range info.namedImports {
		names = append(names, named.localName)
	}
	return names
}

func (p *cjsImportProcessor) shouldAutomaticallyElideImportedName(name string) bool {
	return p.ctx.options.IsTypeScript() && !p.ctx.options.KeepUnusedImports && !p.nonTypeIdentifiers[name]
}

func (p *cjsImportProcessor) generateImportReplacements() {
	options := &p.ctx.options
	helpers := p.ctx.helpers

	for _, path := range p.paths {
		info := p.infoByPath[path]
		if len(info.defaultNames) == 0 && len(info.wildcardNames) == 0 && len(info.namedImports) == 0 &&
			len(info.namedExports) == 0 && len(info.exportStarNames) == 0 && !info.hasStarExport {
			// Nothing is used from the module so it doesn't need a name
			p.codeByPath[path] = fmt.Sprintf("require('%s');", path)
			continue
		}

		primaryName := p.freeIdentifierForPath(path)
		var secondaryName string
		switch {
		case options.EnableLegacyTypeScriptModuleInterop:
			secondaryName = primaryName
		case len(info.wildcardNames) > 0:
			secondaryName = info.wildcardNames[0]
		default:
			secondaryName = p.freeIdentifierForPath(path)
		}

		sb := strings.Builder{}
		fmt.Fprintf(&sb, "var %s = require('%s');", primaryName, path)
		switch {
		case len(info.wildcardNames) > 0:
			for _, name := range info.wildcardNames {
				module := primaryName
				if !options.EnableLegacyTypeScriptModuleInterop {
					module = fmt.Sprintf("%s(%s)", helpers.Name(runtime.HelperInteropRequireWildcard), primaryName)
				}
				fmt.Fprintf(&sb, " var %s = %s;", name, module)
			}

		case len(info.exportStarNames) > 0 && secondaryName != primaryName:
			fmt.Fprintf(&sb, " var %s = %s(%s);", secondaryName, helpers.Name(runtime.HelperInteropRequireWildcard), primaryName)

		case len(info.defaultNames) > 0 && secondaryName != primaryName:
			fmt.Fprintf(&sb, " var %s = %s(%s);", secondaryName, helpers.Name(runtime.HelperInteropRequireDefault), primaryName)
		}

		for _, named := range info.namedExports {
			fmt.Fprintf(&sb, " %s(%s, '%s', '%s');", helpers.Name(runtime.HelperCreateNamedExportFrom),
				primaryName, named.localName, named.importedName)
		}
		for _, name := range info.exportStarNames {
			fmt.Fprintf(&sb, " exports.%s = %s;", name, secondaryName)
		}
		if info.hasStarExport {
			fmt.Fprintf(&sb, " %s(%s);", helpers.Name(runtime.HelperCreateStarExport), primaryName)
		}
		p.codeByPath[path] = sb.String()

		for _, name := range info.defaultNames {
			p.replacements[name] = secondaryName + ".default"
		}
		for _, named := range info.namedImports {
			p.replacements[named.localName] = primaryName + "." + named.importedName
		}
	}
}

var nonWordChars = regexp.MustCompile(`\W`)

// "./foo/bar-baz" is called "_barbaz"
func (p *cjsImportProcessor) freeIdentifierForPath(path string) string {
	lastComponent := path[strings.LastIndexByte(path, '/')+1:]
	return p.ctx.names.ClaimFreeName("_" + nonWordChars.ReplaceAllString(lastComponent, ""))
}

func (p *cjsImportProcessor) importInfo(path string) *importInfo {
	if info, ok := p.infoByPath[path]; ok {
		return info
	}
	info := &importInfo{}
	p.infoByPath[path] = info
	p.paths = append(p.paths, path)
	return info
}

func (p *cjsImportProcessor) preprocessImportAtIndex(index int) {
	c := p.c

	// "import type" and "import typeof" are removed along with the types
	if c.Tokens()[index].IsType {
		return
	}
	index++

	// "import()" and "import.meta"
	if c.MatchesAtIndex(index, js_lexer.TOpenParen) || c.MatchesAtIndex(index, js_lexer.TDot) {
		return
	}

	var defaultNames []string
	var wildcardNames []string
	var named []namedImport

	if c.MatchesAtIndex(index, js_lexer.TIdentifier) {
		defaultNames = append(defaultNames, c.IdentifierNameAtIndex(index))
		index++
		if c.MatchesAtIndex(index, js_lexer.TComma) {
			index++
		}
	}

	if c.MatchesAtIndex(index, js_lexer.TAsterisk) {
		// "* as ns"
		index += 2
		wildcardNames = append(wildcardNames, c.IdentifierNameAtIndex(index))
		index++
	}

	if c.MatchesAtIndex(index, js_lexer.TOpenBrace) {
		var specifiers []namedImport
		specifiers, index = p.namedImportsAtIndex(index + 1)
		for _, specifier := range specifiers {
			// "{default as a}" is a default import so that it gets the interop helper
			if specifier.importedName == "default" {
				defaultNames = append(defaultNames, specifier.localName)
			} else {
				named = append(named, specifier)
			}
		}
	}

	if c.MatchesContextualAtIndex(index, js_lexer.ContextualFrom) {
		index++
	}
	if !c.MatchesAtIndex(index, js_lexer.TStringLiteral) {
		c.Fail("Expected string token at the end of import statement")
	}

	info := p.importInfo(c.StringValueAtIndex(index))
	info.defaultNames = append(info.defaultNames, defaultNames...)
	info.wildcardNames = append(info.wildcardNames, wildcardNames...)
	info.namedImports = append(info.namedImports, named...)
	if len(defaultNames) == 0 && len(wildcardNames) == 0 && len(named) == 0 {
		info.hasBareImport = true
	}
}

func (p *cjsImportProcessor) preprocessExportAtIndex(index int) {
	c := p.c
	if c.Tokens()[index].IsType {
		return
	}

	switch {
	case c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TVar),
		c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TConst),
		c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TIdentifier) && c.IdentifierNameAtIndex(index+1) == "let":
		p.preprocessVarExportAtIndex(index)

	case c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TFunction):
		// "export function* f() {}"
		nameIndex := index + 2
		if c.MatchesAtIndex(nameIndex, js_lexer.TAsterisk) {
			nameIndex++
		}
		name := c.IdentifierNameAtIndex(nameIndex)
		p.addExportBinding(name, name)

	case c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TClass):
		name := c.IdentifierNameAtIndex(index + 2)
		p.addExportBinding(name, name)

	case c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TIdentifier, js_lexer.TFunction):
		// "export async function f() {}"
		nameIndex := index + 3
		if c.MatchesAtIndex(nameIndex, js_lexer.TAsterisk) {
			nameIndex++
		}
		name := c.IdentifierNameAtIndex(nameIndex)
		p.addExportBinding(name, name)

	case c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TOpenBrace):
		p.preprocessNamedExportAtIndex(index)

	case c.MatchesAtIndex(index, js_lexer.TExport, js_lexer.TAsterisk):
		p.preprocessExportStarAtIndex(index)
	}
}

// Every name declared by "export let {a, b: [c]} = d, e" is referenced as a
// property of "exports" from then on
func (p *cjsImportProcessor) preprocessVarExportAtIndex(index int) {
	c := p.c
	tokens := c.Tokens()
	depth := 0
	for i := index + 2; i < len(tokens); i++ {
		token := &tokens[i]
		switch {
		case token.Type == js_lexer.TOpenBrace || token.Type == js_lexer.TOpenBracket || token.Type == js_lexer.TTemplateHead:
			depth++

		case token.Type == js_lexer.TCloseBrace || token.Type == js_lexer.TCloseBracket || token.Type == js_lexer.TTemplateTail:
			depth--

		case token.Type == js_lexer.TEquals:
			// Initializers and default values are skipped since they aren't
			// declarations
			if token.RHSEndIndex == js_ast.NoIndex {
				c.Fail("Expected = token with an end index")
			}
			i = int(token.RHSEndIndex) - 1

		case depth == 0 && token.Type == js_lexer.TComma:

		case depth == 0 && token.Type != js_lexer.TIdentifier && !token.IsType:
			return

		case token.Type == js_lexer.TIdentifier && js_ast.IsDeclaration(token):
			name := c.CodeForToken(token)
			p.replacements[name] = "exports." + name
		}
	}
}

func (p *cjsImportProcessor) preprocessNamedExportAtIndex(index int) {
	c := p.c
	specifiers, index := p.namedImportsAtIndex(index + 2)

	if !c.MatchesContextualAtIndex(index, js_lexer.ContextualFrom) {
		// In "export {a as b}" the first name is the local one
		for _, specifier := range specifiers {
			p.addExportBinding(specifier.importedName, specifier.localName)
		}
		return
	}
	index++

	if !c.MatchesAtIndex(index, js_lexer.TStringLiteral) {
		c.Fail("Expected string token at the end of export statement")
	}
	info := p.importInfo(c.StringValueAtIndex(index))
	info.namedExports = append(info.namedExports, specifiers...)
}

func (p *cjsImportProcessor) preprocessExportStarAtIndex(index int) {
	c := p.c
	exportedName := ""
	if c.MatchesContextualAtIndex(index+2, js_lexer.ContextualAs) {
		// "export * as ns from 'a'"
		exportedName = c.IdentifierNameAtIndex(index + 3)
		index += 5
	} else {
		// "export * from 'a'"
		index += 3
	}
	if !c.MatchesAtIndex(index, js_lexer.TStringLiteral) {
		c.Fail("Expected string token at the end of star export statement")
	}
	info := p.importInfo(c.StringValueAtIndex(index))
	if exportedName != "" {
		info.exportStarNames = append(info.exportStarNames, exportedName)
	} else {
		info.hasStarExport = true
	}
}

// The index is just past the "{". This returns the index just past the "}".
func (p *cjsImportProcessor) namedImportsAtIndex(index int) ([]namedImport, int) {
	c := p.c
	var result []namedImport
	for !c.MatchesAtIndex(index, js_lexer.TCloseBrace) {
		info := importExportSpecifierInfo(c, index)
		index = info.endIndex
		if !info.isType {
			result = append(result, namedImport{importedName: info.leftName, localName: info.rightName})
		}
		if c.MatchesAtIndex(index, js_lexer.TComma) {
			index++
		} else if !c.MatchesAtIndex(index, js_lexer.TCloseBrace) {
			c.Fail("Unexpected token in import or export specifiers")
		}
	}
	return result, index + 1
}

func (p *cjsImportProcessor) addExportBinding(localName string, exportedName string) {
	p.exportBindings[localName] = append(p.exportBindings[localName], exportedName)
}

// Returns the "require" code for this path the first time and nothing after
// that, since every import of a path shares the code
func (p *cjsImportProcessor) claimImportCode(path string) string {
	code := p.codeByPath[path]
	p.codeByPath[path] = ""
	return code
}

func (p *cjsImportProcessor) identifierReplacement(name string) (string, bool) {
	replacement, ok := p.replacements[name]
	return replacement, ok
}

// "exports.a" for a name exported as "a". A name can be exported more than
// once, which gives "exports.a = exports.b".
func (p *cjsImportProcessor) resolveExportBinding(name string) (string, bool) {
	exportedNames := p.exportBindings[name]
	if len(exportedNames) == 0 {
		return "", false
	}
	parts := make([]string, len(exportedNames))
	for i, exportedName := range exportedNames {
		parts[i] = "exports." + exportedName
	}
	return strings.Join(parts, " = "), true
}

// The names whose references are rewritten. A reference to one that's
// shadowed by a local declaration refers to something else and must be left
// alone.
func (p *cjsImportProcessor) globalNames() map[string]bool {
	names := make(map[string]bool, len(p.replacements)+len(p.exportBindings))
	for name := range p.replacements {
		names[name] = true
	}
	for name := range p.exportBindings {
		names[name] = true
	}
	return names
}

////////////////////////////////////////////////////////////////////////////////
// Conversion

type cjsImportTransformer struct {
	transformerDefaults
	ctx     *context
	c       *js_printer.Cursor
	root    *rootTransformer
	imports *cjsImportProcessor

	declarations declarationInfo

	hadExport        bool
	hadNamedExport   bool
	hadDefaultExport bool
}

func newCJSImportTransformer(ctx *context, root *rootTransformer) *cjsImportTransformer {
	t := &cjsImportTransformer{ctx: ctx, c: ctx.cursor, root: root, imports: ctx.imports}
	if ctx.options.IsTypeScript() {
		t.declarations = newDeclarationInfo(t.c)
	}
	return t
}

func (t *cjsImportTransformer) PrefixCode() string {
	if t.hadExport {
		return "Object.defineProperty(exports, \"__esModule\", {value: true});"
	}
	return ""
}

func (t *cjsImportTransformer) SuffixCode() string {
	if t.ctx.options.EnableLegacyBabel5ModuleInterop && t.hadDefaultExport && !t.hadNamedExport {
		return "\nmodule.exports = exports.default;\n"
	}
	return ""
}

func (t *cjsImportTransformer) Process() bool {
	c := t.c
	switch {
	case c.Matches3(js_lexer.TImport, js_lexer.TIdentifier, js_lexer.TEquals):
		return t.processImportEquals()

	case c.Matches1(js_lexer.TImport):
		if c.CurrentToken().IsType {
			return false
		}
		return t.processImport()

	case c.Matches2(js_lexer.TExport, js_lexer.TEquals):
		c.ReplaceToken("module.exports")
		return true

	case c.Matches1(js_lexer.TExport):
		if c.CurrentToken().IsType {
			return false
		}
		t.hadExport = true
		return t.processExport()

	case c.Matches2(js_lexer.TIdentifier, js_lexer.TPlusPlus) || c.Matches2(js_lexer.TIdentifier, js_lexer.TMinusMinus):
		if isPostfixOperator(t.ctx, c.CurrentIndex()+1) && t.processPostfixUpdate() {
			return true
		}
		return t.processIdentifier()

	case c.Matches1(js_lexer.TIdentifier) || c.Matches1(js_lexer.TJSXName):
		return t.processIdentifier()

	case c.Matches1(js_lexer.TEquals):
		return t.processAssignment()

	case c.CurrentToken().Type.IsAssign():
		return t.processCompoundAssignment()

	case c.Matches1(js_lexer.TPlusPlus) || c.Matches1(js_lexer.TMinusMinus):
		if isPostfixOperator(t.ctx, c.CurrentIndex()) {
			return false
		}
		return t.processPrefixUpdate()
	}
	return false
}

// An increment or decrement is postfix if it follows an operand on the same
// line. A line break before it ends the previous statement.
func isPostfixOperator(ctx *context, index int) bool {
	if index == 0 {
		return false
	}
	tokens := ctx.tokens
	previous := &tokens[index-1]
	switch previous.Type {
	case js_lexer.TIdentifier, js_lexer.TCloseParen, js_lexer.TCloseBracket:
	default:
		return false
	}
	return !strings.ContainsAny(ctx.source.Contents[previous.End:tokens[index].Start], "\r\n\u2028\u2029")
}

// TypeScript's "import a = require('a')" is already a "require" call
func (t *cjsImportTransformer) processImportEquals() bool {
	c := t.c
	if t.imports.shouldAutomaticallyElideImportedName(c.IdentifierNameAtRelativeIndex(1)) {
		elideImportEquals(c)
	} else {
		c.ReplaceToken("const")
	}
	return true
}

func (t *cjsImportTransformer) processImport() bool {
	c := t.c
	options := &t.ctx.options

	if c.Matches2(js_lexer.TImport, js_lexer.TOpenParen) {
		if options.PreserveDynamicImport {
			return false
		}
		wrapper := ""
		if !options.EnableLegacyTypeScriptModuleInterop {
			wrapper = t.ctx.helpers.Name(runtime.HelperInteropRequireWildcard) + "("
		}
		c.ReplaceToken("Promise.resolve().then(() => " + wrapper + "require")
		contextID := c.CurrentToken().ContextID
		if contextID == js_ast.NoIndex {
			c.Fail("Expected context ID on dynamic import invocation")
		}
		c.CopyToken()
		for !c.MatchesContextIDAndLabel(js_lexer.TCloseParen, contextID) {
			t.root.processToken()
		}
		if wrapper != "" {
			c.ReplaceToken(")))")
		} else {
			c.ReplaceToken("))")
		}
		return true
	}

	// "import.meta"
	if c.Matches2(js_lexer.TImport, js_lexer.TDot) {
		return false
	}

	if t.removeImportAndDetectIfShouldElide() {
		c.RemoveToken()
	} else {
		c.ReplaceTokenTrimmingLeftWhitespace(t.imports.claimImportCode(c.StringValue()))
	}
	removeMaybeImportAttributes(c)
	if c.Matches1(js_lexer.TSemicolon) {
		c.RemoveToken()
	}
	return true
}

// Removes everything up to the path
func (t *cjsImportTransformer) removeImportAndDetectIfShouldElide() bool {
	c := t.c
	options := &t.ctx.options
	c.RemoveInitialToken()

	// A default or namespace import always has something that isn't a type
	if c.Matches1(js_lexer.TIdentifier) || c.Matches1(js_lexer.TAsterisk) {
		for !c.Matches1(js_lexer.TStringLiteral) {
			c.RemoveToken()
		}
		return false
	}

	// "import 'a'"
	if c.Matches1(js_lexer.TStringLiteral) {
		return false
	}

	foundNonTypeImport := false
	foundAnyNamedImport := false
	c.RemoveToken()
	for !c.Matches1(js_lexer.TCloseBrace) {
		foundAnyNamedImport = true
		info := importExportSpecifierInfo(c, c.CurrentIndex())
		if !info.isType {
			foundNonTypeImport = true
		}
		for c.CurrentIndex() < info.endIndex {
			c.RemoveToken()
		}
		if c.Matches1(js_lexer.TComma) {
			c.RemoveToken()
		}
	}
	for !c.Matches1(js_lexer.TStringLiteral) {
		c.RemoveToken()
	}

	switch {
	case options.KeepUnusedImports:
		return false
	case options.IsTypeScript():
		return !foundNonTypeImport
	case options.IsFlow():
		// Unlike TypeScript, Flow keeps "import {} from 'a'"
		return foundAnyNamedImport && !foundNonTypeImport
	}
	return false
}

func (t *cjsImportTransformer) processIdentifier() bool {
	c := t.c
	token := c.CurrentToken()
	if token.ShadowsGlobal || token.IsType {
		return false
	}

	if token.IdentifierRole == js_ast.RoleObjectShorthand {
		name := c.IdentifierName()
		replacement, ok := t.imports.identifierReplacement(name)
		if !ok {
			return false
		}
		c.ReplaceToken(name + ": " + replacement)
		return true
	}

	if token.IdentifierRole != js_ast.RoleAccess {
		return false
	}
	replacement, ok := t.imports.identifierReplacement(c.IdentifierName())
	if !ok {
		return false
	}

	// Look past any number of ")" for a "(" that means this is called
	tokens := c.Tokens()
	openParen := c.CurrentIndex() + 1
	for openParen < len(tokens) && tokens[openParen].Type == js_lexer.TCloseParen {
		openParen++
	}

	// An imported function must not be called with the module object as
	// "this", so "a()" becomes "a.call(void 0, )" and "(a)()" becomes
	// "(0, a)()"
	if openParen < len(tokens) && tokens[openParen].Type == js_lexer.TOpenParen {
		isNew := c.CurrentIndex() > 0 && c.TokenAtRelativeIndex(-1).Type == js_lexer.TNew
		if openParen == c.CurrentIndex()+1 && !isNew {
			c.ReplaceToken(replacement + ".call(void 0, ")
			c.RemoveToken()
			t.root.processBalancedCode()
			c.CopyExpectedToken(js_lexer.TCloseParen)
		} else {
			c.ReplaceToken("(0, " + replacement + ")")
		}
	} else {
		c.ReplaceToken(replacement)
	}
	return true
}

// "a = b" where "a" is exported becomes "a = exports.a = b"
func (t *cjsImportTransformer) processAssignment() bool {
	c := t.c
	index := c.CurrentIndex()
	if index == 0 {
		return false
	}
	target := c.TokenAtRelativeIndex(-1)
	if target.IsType || target.Type != js_lexer.TIdentifier || target.ShadowsGlobal {
		return false
	}
	if index >= 2 && c.MatchesAtIndex(index-2, js_lexer.TDot) {
		return false
	}

	// Declarations already get an export statement of their own
	if index >= 2 {
		if previous := c.TokenAtRelativeIndex(-2); previous.Type == js_lexer.TVar || previous.Type == js_lexer.TConst ||
			(previous.Type == js_lexer.TIdentifier && c.CodeForToken(previous) == "let") {
			return false
		}
	}

	snippet, ok := t.imports.resolveExportBinding(c.CodeForToken(target))
	if !ok {
		return false
	}
	c.CopyToken()
	c.AppendCode(" " + snippet + " =")
	return true
}

// "a += b" where "a" is exported becomes "a = exports.a += b"
func (t *cjsImportTransformer) processCompoundAssignment() bool {
	c := t.c
	index := c.CurrentIndex()
	if index == 0 {
		return false
	}
	target := c.TokenAtRelativeIndex(-1)
	if target.Type != js_lexer.TIdentifier || target.ShadowsGlobal {
		return false
	}
	if index >= 2 && c.MatchesAtIndex(index-2, js_lexer.TDot) {
		return false
	}
	snippet, ok := t.imports.resolveExportBinding(c.CodeForToken(target))
	if !ok {
		return false
	}
	c.AppendCode(" = " + snippet)
	c.CopyToken()
	return true
}

// "++a" where "a" is exported becomes "exports.a = ++a"
func (t *cjsImportTransformer) processPrefixUpdate() bool {
	c := t.c
	index := c.CurrentIndex()
	if !c.MatchesAtIndex(index+1, js_lexer.TIdentifier) {
		return false
	}
	target := c.TokenAtRelativeIndex(1)
	if target.ShadowsGlobal {
		return false
	}

	// "++a.b", "++a[b]" and "++a().b" don't update "a"
	if c.MatchesAtIndex(index+2, js_lexer.TDot) || c.MatchesAtIndex(index+2, js_lexer.TOpenBracket) ||
		c.MatchesAtIndex(index+2, js_lexer.TOpenParen) {
		return false
	}
	snippet, ok := t.imports.resolveExportBinding(c.CodeForToken(target))
	if !ok {
		return false
	}
	c.AppendCode(snippet + " = ")
	c.CopyToken()
	return true
}

// "a++" where "a" is exported becomes "(a = exports.a = a + 1, a - 1)"
func (t *cjsImportTransformer) processPostfixUpdate() bool {
	c := t.c
	index := c.CurrentIndex()
	target := c.CurrentToken()
	if target.ShadowsGlobal {
		return false
	}
	if index >= 1 && c.MatchesAtIndex(index-1, js_lexer.TDot) {
		return false
	}
	name := c.CodeForToken(target)
	snippet, ok := t.imports.resolveExportBinding(name)
	if !ok {
		return false
	}
	base := name
	if replacement, ok := t.imports.identifierReplacement(name); ok {
		base = replacement
	}
	if c.MatchesAtIndex(index+1, js_lexer.TPlusPlus) {
		c.ReplaceToken(fmt.Sprintf("(%s = %s = %s + 1, %s - 1)", base, snippet, base, base))
	} else {
		c.ReplaceToken(fmt.Sprintf("(%s = %s = %s - 1, %s + 1)", base, snippet, base, base))
	}
	c.RemoveToken()
	return true
}

func (t *cjsImportTransformer) processExport() bool {
	c := t.c

	// The enum transform assigns to "exports" itself
	if c.Matches2(js_lexer.TExport, js_lexer.TEnum) || c.Matches3(js_lexer.TExport, js_lexer.TConst, js_lexer.TEnum) {
		t.hadNamedExport = true
		return false
	}

	switch {
	case c.Matches2(js_lexer.TExport, js_lexer.TDefault):
		t.processExportDefault()
		return true

	case c.Matches2(js_lexer.TExport, js_lexer.TOpenBrace):
		t.processExportBindings()
		return true
	}

	t.hadNamedExport = true
	switch {
	case c.Matches2(js_lexer.TExport, js_lexer.TVar) || c.Matches2(js_lexer.TExport, js_lexer.TConst) ||
		(c.Matches2(js_lexer.TExport, js_lexer.TIdentifier) && c.IdentifierNameAtRelativeIndex(1) == "let"):
		t.processExportVar()

	case c.Matches2(js_lexer.TExport, js_lexer.TFunction) || c.Matches3(js_lexer.TExport, js_lexer.TIdentifier, js_lexer.TFunction):
		c.RemoveInitialToken()
		name := t.processNamedFunction()
		c.AppendCode(fmt.Sprintf(" exports.%s = %s;", name, name))

	case c.Matches2(js_lexer.TExport, js_lexer.TClass) || c.Matches2(js_lexer.TExport, js_lexer.TAt) ||
		(c.Matches3(js_lexer.TExport, js_lexer.TIdentifier, js_lexer.TClass) && c.MatchesContextualAtIndex(c.CurrentIndex()+1, js_lexer.ContextualAbstract)):
		c.RemoveInitialToken()
		name := t.processDecoratedClass()
		c.AppendCode(fmt.Sprintf(" exports.%s = %s;", name, name))

	case c.Matches2(js_lexer.TExport, js_lexer.TAsterisk):
		t.processExportStar()

	default:
		c.Fail("Unrecognized export syntax")
	}
	return true
}

func (t *cjsImportTransformer) processExportDefault() {
	c := t.c
	exportsValue := true

	switch {
	case c.Matches4(js_lexer.TExport, js_lexer.TDefault, js_lexer.TFunction, js_lexer.TIdentifier) ||
		c.Matches5(js_lexer.TExport, js_lexer.TDefault, js_lexer.TFunction, js_lexer.TAsterisk, js_lexer.TIdentifier) ||
		(c.Matches5(js_lexer.TExport, js_lexer.TDefault, js_lexer.TIdentifier, js_lexer.TFunction, js_lexer.TIdentifier) &&
			c.MatchesContextualAtIndex(c.CurrentIndex()+2, js_lexer.ContextualAsync)):
		// A named function stays a declaration so that it's still hoisted
		c.RemoveInitialToken()
		c.RemoveToken()
		name := t.processNamedFunction()
		c.AppendCode(fmt.Sprintf(" exports.default = %s;", name))

	case c.Matches4(js_lexer.TExport, js_lexer.TDefault, js_lexer.TClass, js_lexer.TIdentifier) ||
		(c.Matches5(js_lexer.TExport, js_lexer.TDefault, js_lexer.TIdentifier, js_lexer.TClass, js_lexer.TIdentifier) &&
			c.MatchesContextualAtIndex(c.CurrentIndex()+2, js_lexer.ContextualAbstract)) ||
		t.isDecoratedNamedClassAt(c.CurrentIndex()+2):
		c.RemoveInitialToken()
		c.RemoveToken()
		name := t.processDecoratedClass()
		c.AppendCode(fmt.Sprintf(" exports.default = %s;", name))

	case shouldElideDefaultExport(t.ctx, &t.declarations):
		// "export default T" where "T" is only a type
		exportsValue = false
		c.RemoveInitialToken()
		c.RemoveToken()
		c.RemoveToken()

	default:
		c.ReplaceToken("exports.")
		c.CopyToken()
		c.AppendCode(" =")
	}

	if exportsValue {
		t.hadDefaultExport = true
	}
}

// Whether the decorators starting at this index are followed by a class with
// a name. Decorated anonymous classes are expressions.
func (t *cjsImportTransformer) isDecoratedNamedClassAt(index int) bool {
	c := t.c
	if !c.MatchesAtIndex(index, js_lexer.TAt) {
		return false
	}
	tokens := c.Tokens()
	for index < len(tokens) && tokens[index].Type != js_lexer.TClass {
		index++
	}
	return c.MatchesAtIndex(index, js_lexer.TClass, js_lexer.TIdentifier)
}

// The decorators and any "abstract" before a class, then the class
func (t *cjsImportTransformer) processDecoratedClass() string {
	c := t.c
	for c.Matches1(js_lexer.TAt) {
		c.CopyToken()
		if c.Matches1(js_lexer.TOpenParen) {
			c.CopyToken()
			t.root.processBalancedCode()
			c.CopyExpectedToken(js_lexer.TCloseParen)
			continue
		}
		t.root.processToken()
		for c.Matches1(js_lexer.TDot) {
			c.CopyToken()
			t.root.processToken()
		}
		if c.Matches1(js_lexer.TOpenParen) {
			c.CopyToken()
			t.root.processBalancedCode()
			c.CopyExpectedToken(js_lexer.TCloseParen)
		}
	}
	if c.MatchesContextual(js_lexer.ContextualAbstract) {
		c.RemoveToken()
	}
	return t.root.processNamedClass()
}

// Copies "function f() {}" or "async function* f() {}" and returns the name
func (t *cjsImportTransformer) processNamedFunction() string {
	c := t.c
	if c.Matches2(js_lexer.TIdentifier, js_lexer.TFunction) {
		if !c.MatchesContextual(js_lexer.ContextualAsync) {
			c.Fail("Expected async keyword in function export")
		}
		c.CopyToken()
	}
	c.CopyExpectedToken(js_lexer.TFunction)
	if c.Matches1(js_lexer.TAsterisk) {
		c.CopyToken()
	}
	if !c.Matches1(js_lexer.TIdentifier) {
		c.Fail("Expected identifier for exported function name")
	}
	name := c.IdentifierName()
	c.CopyToken()
	t.root.processPossibleTypeRange()
	c.CopyExpectedToken(js_lexer.TOpenParen)
	t.root.processBalancedCode()
	c.CopyExpectedToken(js_lexer.TCloseParen)
	t.root.processPossibleTypeRange()
	c.CopyExpectedToken(js_lexer.TOpenBrace)
	t.root.processBalancedCode()
	c.CopyExpectedToken(js_lexer.TCloseBrace)
	return name
}

func (t *cjsImportTransformer) processExportVar() {
	if t.isSimpleExportVar() {
		t.processSimpleExportVar()
	} else {
		t.processComplexExportVar()
	}
}

// "export const a: T = b" with one name and an initializer
func (t *cjsImportTransformer) isSimpleExportVar() bool {
	c := t.c
	tokens := c.Tokens()
	index := c.CurrentIndex() + 2
	if !c.MatchesAtIndex(index, js_lexer.TIdentifier) {
		return false
	}
	index++
	for index < len(tokens) && tokens[index].IsType {
		index++
	}
	if !c.MatchesAtIndex(index, js_lexer.TEquals) || tokens[index].RHSEndIndex == js_ast.NoIndex {
		return false
	}

	// The declaration must end at the initializer
	end := int(tokens[index].RHSEndIndex)
	return !c.MatchesAtIndex(end, js_lexer.TComma)
}

// "export const a = b" becomes "const a = b; exports.a = a". The name is kept
// as a local so that references to it stay fast.
func (t *cjsImportTransformer) processSimpleExportVar() {
	c := t.c
	c.RemoveInitialToken()
	c.CopyToken()
	name := c.IdentifierName()
	for !c.Matches1(js_lexer.TEquals) {
		t.root.processToken()
	}
	end := c.CurrentToken().RHSEndIndex
	if end == js_ast.NoIndex {
		c.Fail("Expected = token with an end index")
	}
	t.root.processUntil(int(end))
	c.AppendCode(fmt.Sprintf("; exports.%s = %s", name, name))
}

// "export let {a, b} = c, d = e" becomes "({a: exports.a, b: exports.b} =
// c), exports.d = e"
func (t *cjsImportTransformer) processComplexExportVar() {
	c := t.c
	c.RemoveInitialToken()
	c.RemoveToken()

	for {
		needsParens := c.Matches1(js_lexer.TOpenBrace)
		if needsParens {
			c.AppendCode("(")
		}
		t.processExportVarTarget()

		if c.Matches1(js_lexer.TEquals) {
			end := c.CurrentToken().RHSEndIndex
			if end == js_ast.NoIndex {
				c.Fail("Expected = token with an end index")
			}
			t.root.processUntil(int(end))
		} else if needsParens {
			c.Fail("Expected = token after an object pattern")
		}
		if needsParens {
			c.AppendCode(")")
		}

		if !c.Matches1(js_lexer.TComma) {
			break
		}
		c.CopyToken()
	}
}

// Rewrites the names declared by one binding pattern. This stops at the "="
// of the initializer or at the "," before the next declarator.
func (t *cjsImportTransformer) processExportVarTarget() {
	c := t.c
	depth := 0
	for !c.IsAtEnd() {
		token := c.CurrentToken()
		switch {
		case token.Type == js_lexer.TOpenBrace || token.Type == js_lexer.TOpenBracket || token.Type == js_lexer.TTemplateHead:
			depth++
			c.CopyToken()
			continue

		case token.Type == js_lexer.TCloseBrace || token.Type == js_lexer.TCloseBracket || token.Type == js_lexer.TTemplateTail:
			depth--
			c.CopyToken()
			continue

		case depth == 0 && token.Type != js_lexer.TIdentifier && !token.IsType:

		case token.Type == js_lexer.TEquals:
			// Default values aren't targets
			if token.RHSEndIndex == js_ast.NoIndex {
				c.Fail("Expected = token with an end index")
			}
			t.root.processUntil(int(token.RHSEndIndex))
			continue

		case token.Type == js_lexer.TIdentifier && js_ast.IsDeclaration(token):
			name := c.IdentifierName()
			replacement, ok := t.imports.identifierReplacement(name)
			if !ok {
				c.Fail(fmt.Sprintf("Expected a replacement for %s in an exported declaration", name))
			}
			if js_ast.IsObjectShorthandDeclaration(token) {
				replacement = name + ": " + replacement
			}
			c.ReplaceToken(replacement)
			continue

		default:
			t.root.processToken()
			continue
		}
		return
	}
}

// "export {a, b as c}" becomes "exports.a = a; exports.c = b;" and "export
// {a} from 'b'" becomes the import code for "b"
func (t *cjsImportTransformer) processExportBindings() {
	c := t.c
	c.RemoveInitialToken()
	c.RemoveToken()

	isReExport := isExportFrom(c)
	var statements []string
	for !c.Matches1(js_lexer.TCloseBrace) {
		info := importExportSpecifierInfo(c, c.CurrentIndex())
		for c.CurrentIndex() < info.endIndex {
			c.RemoveToken()
		}

		if !info.isType && (isReExport || !t.shouldElideExportedName(info.leftName)) {
			if info.rightName == "default" {
				t.hadDefaultExport = true
			} else {
				t.hadNamedExport = true
			}
			local := info.leftName
			if replacement, ok := t.imports.identifierReplacement(local); ok {
				local = replacement
			}
			statements = append(statements, fmt.Sprintf("exports.%s = %s;", info.rightName, local))
		}

		if c.Matches1(js_lexer.TComma) {
			c.RemoveToken()
		}
	}
	c.RemoveToken()

	if c.MatchesContextual(js_lexer.ContextualFrom) {
		c.RemoveToken()
		c.ReplaceTokenTrimmingLeftWhitespace(t.imports.claimImportCode(c.StringValue()))
		removeMaybeImportAttributes(c)
	} else {
		c.AppendCode(strings.Join(statements, " "))
	}
	if c.Matches1(js_lexer.TSemicolon) {
		c.RemoveToken()
	}
}

func (t *cjsImportTransformer) processExportStar() {
	c := t.c
	c.RemoveInitialToken()
	for !c.Matches1(js_lexer.TStringLiteral) {
		c.RemoveToken()
	}
	c.ReplaceTokenTrimmingLeftWhitespace(t.imports.claimImportCode(c.StringValue()))
	removeMaybeImportAttributes(c)
	if c.Matches1(js_lexer.TSemicolon) {
		c.RemoveToken()
	}
}

// A local export of a name that's never declared as a value only exports a
// type
func (t *cjsImportTransformer) shouldElideExportedName(name string) bool {
	options := &t.ctx.options
	return options.IsTypeScript() && !options.KeepUnusedImports && !t.declarations.valueDeclarations[name]
}
