package transform

import (
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
)

// Whether the name can be declared as a variable in a module
func isValidVariableName(name string) bool {
	return js_lexer.IsIdentifier(name) && !js_lexer.ReservedWords[name]
}

////////////////////////////////////////////////////////////////////////////////
// Import and export specifiers

type specifierInfo struct {
	// "type a" and "type a as b"
	isType bool

	// For "a as b" these are "a" and "b". Both are empty for type specifiers.
	leftName  string
	rightName string

	// The index of the "," or "}" after the specifier
	endIndex int
}

// Specifiers are one to four tokens long: "a", "type a", "a as b", and
// "type a as b". The length is enough to tell them apart.
func importExportSpecifierInfo(c *js_printer.Cursor, index int) specifierInfo {
	isEnd := func(i int) bool {
		return c.MatchesAtIndex(i, js_lexer.TCloseBrace) || c.MatchesAtIndex(i, js_lexer.TComma)
	}
	switch {
	case isEnd(index + 1):
		name := c.IdentifierNameAtIndex(index)
		return specifierInfo{leftName: name, rightName: name, endIndex: index + 1}
	case isEnd(index + 2):
		return specifierInfo{isType: true, endIndex: index + 2}
	case isEnd(index + 3):
		return specifierInfo{
			leftName:  c.IdentifierNameAtIndex(index),
			rightName: c.IdentifierNameAtIndex(index + 2),
			endIndex:  index + 3,
		}
	case isEnd(index + 4):
		return specifierInfo{isType: true, endIndex: index + 4}
	}
	c.Fail("Unexpected import or export specifier")
	return specifierInfo{}
}

// Whether the "{" that the cursor is just past belongs to "export {} from"
func isExportFrom(c *js_printer.Cursor) bool {
	closeBrace := c.CurrentIndex()
	for closeBrace < len(c.Tokens()) && !c.MatchesAtIndex(closeBrace, js_lexer.TCloseBrace) {
		closeBrace++
	}
	return c.MatchesContextualAtIndex(closeBrace+1, js_lexer.ContextualFrom) &&
		c.MatchesAtIndex(closeBrace+2, js_lexer.TStringLiteral)
}

// Removes "with { type: 'json' }" or "assert { type: 'json' }" after the path
// of an import that's being removed
func removeMaybeImportAttributes(c *js_printer.Cursor) {
	if c.Matches2(js_lexer.TWith, js_lexer.TOpenBrace) ||
		(c.Matches2(js_lexer.TIdentifier, js_lexer.TOpenBrace) && c.MatchesContextual(js_lexer.ContextualAssert)) {
		c.RemoveToken()
		c.RemoveToken()
		c.RemoveBalancedCode()
		c.RemoveToken()
	}
}

// Removes "import A = require('a')" or "import A = B.C.D". The semicolon is
// left behind as an empty statement.
func elideImportEquals(c *js_printer.Cursor) {
	c.RemoveInitialToken()
	c.RemoveToken()
	c.RemoveToken()
	c.RemoveToken()
	if c.Matches1(js_lexer.TOpenParen) {
		c.RemoveToken()
		c.RemoveToken()
		c.RemoveToken()
	} else {
		for c.Matches1(js_lexer.TDot) {
			c.RemoveToken()
			c.RemoveToken()
		}
	}
}

////////////////////////////////////////////////////////////////////////////////
// Name sets

// The names declared at the top level, split by whether the declaration is a
// type or a value. A name can be both.
type declarationInfo struct {
	typeDeclarations  map[string]bool
	valueDeclarations map[string]bool
}

func newDeclarationInfo(c *js_printer.Cursor) declarationInfo {
	info := declarationInfo{
		typeDeclarations:  make(map[string]bool),
		valueDeclarations: make(map[string]bool),
	}
	tokens := c.Tokens()
	for i := range tokens {
		token := &tokens[i]
		if token.Type != js_lexer.TIdentifier || !js_ast.IsTopLevelDeclaration(token) {
			continue
		}
		if token.IsType {
			info.typeDeclarations[c.CodeForToken(token)] = true
		} else {
			info.valueDeclarations[c.CodeForToken(token)] = true
		}
	}
	return info
}

// The names that are used as values somewhere in the file. An import that
// isn't in this set is only used as a type.
func nonTypeIdentifiers(c *js_printer.Cursor) map[string]bool {
	names := make(map[string]bool)
	tokens := c.Tokens()
	for i := range tokens {
		token := &tokens[i]
		switch token.Type {
		case js_lexer.TIdentifier:
			if token.IsType || token.ShadowsGlobal {
				continue
			}
			switch token.IdentifierRole {
			case js_ast.RoleAccess, js_ast.RoleObjectShorthand, js_ast.RoleExportAccess:
				names[c.CodeForToken(token)] = true
			}

		case js_lexer.TJSXName:
			// JSX is kept as it is, so no pragma like "React" is referenced by
			// tags. Lowercase tags without a dot like "div" aren't references.
			if token.IdentifierRole != js_ast.RoleAccess {
				continue
			}
			name := c.CodeForToken(token)
			if !startsWithLowerCase(name) || c.MatchesAtIndex(i+1, js_lexer.TDot) {
				names[name] = true
			}
		}
	}
	return names
}

func startsWithLowerCase(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

// The local names of every value import. These are the globals that the
// shadowing pass looks for when deciding whether an import is used.
func tsImportedNames(ctx *context) map[string]bool {
	c := ctx.cursor
	tokens := c.Tokens()
	names := make(map[string]bool)

	for i := range tokens {
		if !c.MatchesAtIndex(i, js_lexer.TImport) || tokens[i].IsType ||
			c.MatchesAtIndex(i, js_lexer.TImport, js_lexer.TIdentifier, js_lexer.TEquals) {
			continue
		}
		index := i + 1

		// "import()" and "import.meta"
		if c.MatchesAtIndex(index, js_lexer.TOpenParen) || c.MatchesAtIndex(index, js_lexer.TDot) {
			continue
		}

		if c.MatchesAtIndex(index, js_lexer.TIdentifier) {
			names[c.IdentifierNameAtIndex(index)] = true
			index++
			if c.MatchesAtIndex(index, js_lexer.TComma) {
				index++
			}
		}

		if c.MatchesAtIndex(index, js_lexer.TAsterisk) {
			// "* as ns"
			index += 2
			names[c.IdentifierNameAtIndex(index)] = true
			index++
		}

		if c.MatchesAtIndex(index, js_lexer.TOpenBrace) {
			index++
			for !c.MatchesAtIndex(index, js_lexer.TCloseBrace) {
				info := importExportSpecifierInfo(c, index)
				if !info.isType {
					names[info.rightName] = true
				}
				index = info.endIndex
				if c.MatchesAtIndex(index, js_lexer.TComma) {
					index++
				}
			}
		}
	}
	return names
}

// "export default T" where "T" is only declared as a type has nothing left
// to export once the type is removed
func shouldElideDefaultExport(ctx *context, info *declarationInfo) bool {
	if !ctx.options.IsTypeScript() || ctx.options.KeepUnusedImports {
		return false
	}
	c := ctx.cursor
	end := c.CurrentToken().RHSEndIndex
	if end == js_ast.NoIndex {
		return false
	}

	// It must be exactly "export default a" or "export default a;"
	count := int(end) - c.CurrentIndex()
	if count != 3 && !(count == 4 && c.MatchesAtIndex(int(end)-1, js_lexer.TSemicolon)) {
		return false
	}
	if !c.MatchesAtIndex(c.CurrentIndex()+2, js_lexer.TIdentifier) {
		return false
	}
	name := c.IdentifierNameAtRelativeIndex(2)
	return info.typeDeclarations[name] && !info.valueDeclarations[name]
}
