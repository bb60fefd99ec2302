package transform

import (
	"fmt"
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/config"
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_printer"
)

// Type syntax was marked by the parser, so removing it is mostly a matter of
// dropping runs of type tokens. Enums are the exception since they have a
// runtime value.
type typeScriptTransformer struct {
	transformerDefaults
	ctx  *context
	c    *js_printer.Cursor
	root *rootTransformer
}

func newTypeScriptTransformer(ctx *context, root *rootTransformer) *typeScriptTransformer {
	return &typeScriptTransformer{ctx: ctx, c: ctx.cursor, root: root}
}

func (t *typeScriptTransformer) Process() bool {
	c := t.c
	r := t.root
	if r.processPossibleArrowParamEnd() || r.processPossibleAsyncArrowWithTypeParams() || r.processPossibleTypeRange() {
		return true
	}
	if c.Matches1(js_lexer.TEnum) || c.Matches2(js_lexer.TConst, js_lexer.TEnum) {
		t.processEnum(false /* isExport */)
		return true
	}
	if c.Matches2(js_lexer.TExport, js_lexer.TEnum) || c.Matches3(js_lexer.TExport, js_lexer.TConst, js_lexer.TEnum) {
		t.processEnum(true /* isExport */)
		return true
	}
	return false
}

// "enum E { A, B = 'b' }" becomes:
//
//	var E; (function (E) { const A = 0; E[E["A"] = A] = "A";
//	const B = 'b'; E["B"] = B;})(E || (E = {}));
//
// Members that are valid names are also declared as constants so that later
// members can refer to earlier ones by name. A "const enum" is the same as
// an "enum" since there is no type information to inline it with.
func (t *typeScriptTransformer) processEnum(isExport bool) {
	c := t.c
	isCommonJS := t.ctx.options.Format == config.ModuleFormatCommonJS

	c.RemoveInitialToken()
	for c.Matches1(js_lexer.TConst) || c.Matches1(js_lexer.TEnum) {
		c.RemoveToken()
	}
	name := c.IdentifierName()
	c.RemoveToken()
	if isExport && !isCommonJS {
		c.AppendCode("export ")
	}
	c.AppendCode(fmt.Sprintf("var %s; (function (%s)", name, name))
	c.CopyExpectedToken(js_lexer.TOpenBrace)
	t.processEnumBody(name)
	c.CopyExpectedToken(js_lexer.TCloseBrace)
	if isExport && isCommonJS {
		c.AppendCode(fmt.Sprintf(")(%s || (exports.%s = %s = {}));", name, name, name))
	} else {
		c.AppendCode(fmt.Sprintf(")(%s || (%s = {}));", name, name))
	}
}

func (t *typeScriptTransformer) processEnumBody(enumName string) {
	c := t.c

	// The expression for the value of the previous member, which implicit
	// values count up from
	previousValue := ""

	for !c.Matches1(js_lexer.TCloseBrace) {
		key, variable := t.enumKeyInfo(c.CurrentToken())
		c.RemoveInitialToken()

		switch {
		case c.Matches3(js_lexer.TEquals, js_lexer.TStringLiteral, js_lexer.TComma) ||
			c.Matches3(js_lexer.TEquals, js_lexer.TStringLiteral, js_lexer.TCloseBrace):
			// String members have no reverse mapping
			if variable == "" {
				c.AppendCode(fmt.Sprintf("%s[%s]", enumName, key))
				c.CopyToken()
				c.CopyToken()
				c.AppendCode(";")
			} else {
				c.AppendCode("const " + variable)
				c.CopyToken()
				c.CopyToken()
				c.AppendCode(fmt.Sprintf("; %s[%s] = %s;", enumName, key, variable))
			}

		case c.Matches1(js_lexer.TEquals):
			end := c.CurrentToken().RHSEndIndex
			if end == js_ast.NoIndex {
				c.Fail("Expected an initializer end on an enum member")
			}
			if variable == "" {
				c.AppendCode(fmt.Sprintf("%s[%s[%s]", enumName, enumName, key))
				c.CopyToken()
				t.root.processUntil(int(end))
				c.AppendCode(fmt.Sprintf("] = %s;", key))
			} else {
				c.AppendCode("const " + variable)
				c.CopyToken()
				t.root.processUntil(int(end))
				c.AppendCode(fmt.Sprintf("; %s[%s[%s] = %s] = %s;", enumName, enumName, key, variable, key))
			}

		default:
			value := "0"
			if previousValue != "" {
				value = previousValue + " + 1"
			}
			if variable != "" {
				c.AppendCode(fmt.Sprintf("const %s = %s; ", variable, value))
				value = variable
			}
			c.AppendCode(fmt.Sprintf("%s[%s[%s] = %s] = %s;", enumName, enumName, key, value, key))
		}

		if c.Matches1(js_lexer.TComma) {
			c.RemoveToken()
		}
		if variable != "" {
			previousValue = variable
		} else {
			previousValue = fmt.Sprintf("%s[%s]", enumName, key)
		}
	}
}

// Returns the member name as a string literal and, if the name can be used
// as a variable, the name
func (t *typeScriptTransformer) enumKeyInfo(token *js_ast.Token) (key string, variable string) {
	c := t.c
	switch token.Type {
	case js_lexer.TIdentifier:
		name := c.CodeForToken(token)
		key = "\"" + name + "\""
		if isValidVariableName(name) {
			variable = name
		}

	case js_lexer.TStringLiteral:
		code := c.CodeForToken(token)
		key = code
		if name := code[1 : len(code)-1]; !strings.Contains(name, "\\") && isValidVariableName(name) {
			variable = name
		}

	default:
		c.Fail("Expected name or string at beginning of enum element")
	}
	return
}
