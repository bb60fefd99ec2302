package js_parser

import (
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
)

// JSX is lexed in three modes: the normal mode for embedded expressions, the
// mode inside a tag for names and attributes, and the mode for children. What
// comes after an element depends on where the element is, so the function
// that lexes the token after the final ">" is passed in.

type jsxNextFunc func(lexer *js_lexer.Lexer)

func nextNormal(lexer *js_lexer.Lexer)          { lexer.Next() }
func nextInsideJSXElement(lexer *js_lexer.Lexer) { lexer.NextInsideJSXElement() }
func nextJSXElementChild(lexer *js_lexer.Lexer)  { lexer.NextJSXElementChild() }

// Records the current token and lexes the next one in the given mode
func (p *parser) nextJSX(next jsxNextFunc) {
	if p.lexer.Token == js_lexer.TEndOfFile {
		p.lexer.Unexpected()
	}
	p.recordToken()
	next(&p.lexer)
}

func (p *parser) expectJSX(token js_lexer.T, next jsxNextFunc) {
	if p.lexer.Token != token {
		p.lexer.Expected(token)
	}
	p.nextJSX(next)
}

// The current token is a "<" lexed in normal mode
func (p *parser) parseJSXElement() {
	p.lexer.Token = js_lexer.TJSXTagStart
	p.nextJSX(nextInsideJSXElement)
	p.parseJSXElementAt(nextNormal)
}

// The "<" has been consumed. This parses the rest of the element including
// its children and its closing tag.
func (p *parser) parseJSXElementAt(after jsxNextFunc) {
	// "<>" starts a fragment
	if p.lexer.Token == js_lexer.TJSXTagEnd {
		p.nextJSX(nextJSXElementChild)
		p.parseJSXChildren(after)
		return
	}

	p.parseJSXElementName()

	// "<Foo<T> />"
	if p.isTypeScript() && p.lexer.Token == js_lexer.TJSXTagStart {
		p.tsParseJSXTypeArguments()
	}

	p.parseJSXAttributes()

	// "<div />"
	if p.lexer.Token == js_lexer.TSlash {
		p.nextJSX(nextInsideJSXElement)
		p.expectJSX(js_lexer.TJSXTagEnd, after)
		return
	}

	p.expectJSX(js_lexer.TJSXTagEnd, nextJSXElementChild)
	p.parseJSXChildren(after)
}

// Lowercase tags without a dot such as "div" refer to built-in elements and
// not to identifiers in scope
func (p *parser) parseJSXElementName() {
	firstIndex := len(p.tokens)
	p.parseJSXNamespacedName(js_ast.RoleAccess)

	hadDot := false
	for p.lexer.Token == js_lexer.TDot {
		hadDot = true
		p.nextJSX(nextInsideJSXElement)
		p.expectJSX(js_lexer.TJSXName, nextInsideJSXElement)
	}

	if !hadDot {
		first := &p.tokens[firstIndex]
		if c := p.source.Contents[first.Start]; c >= 'a' && c <= 'z' {
			first.IdentifierRole = js_ast.RoleNone
		}
	}
}

// "a" or "a:b". Namespaced names are never identifiers.
func (p *parser) parseJSXNamespacedName(role js_ast.IdentifierRole) {
	p.expectJSX(js_lexer.TJSXName, nextInsideJSXElement)
	if p.lexer.Token != js_lexer.TColon {
		p.lastToken().IdentifierRole = role
		return
	}
	p.nextJSX(nextInsideJSXElement)
	p.expectJSX(js_lexer.TJSXName, nextInsideJSXElement)
}

func (p *parser) parseJSXAttributes() {
	for p.lexer.Token != js_lexer.TSlash && p.lexer.Token != js_lexer.TJSXTagEnd {
		switch p.lexer.Token {
		case js_lexer.TOpenBrace:
			// "{...props}"
			p.nextJSX(nextNormal)
			p.expect(js_lexer.TDotDotDot)
			p.parseMaybeAssign(false)
			p.expectJSX(js_lexer.TCloseBrace, nextInsideJSXElement)

		case js_lexer.TJSXName:
			p.parseJSXNamespacedName(js_ast.RoleObjectKey)
			if p.lexer.Token == js_lexer.TEquals {
				p.nextJSX(nextInsideJSXElement)
				p.parseJSXAttributeValue()
			}

		default:
			p.lexer.Unexpected()
		}
	}
}

func (p *parser) parseJSXAttributeValue() {
	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		p.nextJSX(nextInsideJSXElement)

	case js_lexer.TOpenBrace:
		p.nextJSX(nextNormal)
		p.parseMaybeAssign(false)
		p.expectJSX(js_lexer.TCloseBrace, nextInsideJSXElement)

	case js_lexer.TJSXTagStart:
		// "<a b=<c /> />"
		p.nextJSX(nextInsideJSXElement)
		p.parseJSXElementAt(nextInsideJSXElement)

	default:
		p.lexer.Unexpected()
	}
}

// Parses children up to and including the closing tag
func (p *parser) parseJSXChildren(after jsxNextFunc) {
	for {
		switch p.lexer.Token {
		case js_lexer.TJSXText:
			p.nextJSX(nextJSXElementChild)

		case js_lexer.TOpenBrace:
			p.nextJSX(nextNormal)

			// "{}" and "{/* comment */}" are allowed
			if p.lexer.Token != js_lexer.TCloseBrace {
				p.eat(js_lexer.TDotDotDot)
				p.parseExpr(false)
			}
			p.expectJSX(js_lexer.TCloseBrace, nextJSXElementChild)

		case js_lexer.TJSXTagStart:
			p.nextJSX(nextInsideJSXElement)

			if p.lexer.Token == js_lexer.TSlash {
				// "</div>" or "</>"
				p.nextJSX(nextInsideJSXElement)
				if p.lexer.Token != js_lexer.TJSXTagEnd {
					p.parseJSXElementName()
				}
				p.expectJSX(js_lexer.TJSXTagEnd, after)
				return
			}

			p.parseJSXElementAt(nextJSXElementChild)

		default:
			p.lexer.Unexpected()
		}
	}
}
