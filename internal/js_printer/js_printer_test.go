package js_printer

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/renamer"
	"github.com/tokenstrip/tokenstrip/internal/runtime"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func cursorForTest(t *testing.T, contents string, parseOptions js_parser.Options, options Options) (*Cursor, *runtime.Manager) {
	t.Helper()
	log := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	file, ok := js_parser.Parse(log, source, parseOptions)
	if !ok {
		t.Fatalf("Failed to parse %q", contents)
	}
	helpers := runtime.NewManager(renamer.NewNameManager(source, file.Tokens), "")
	return NewCursor(source, file.Tokens, options, helpers), helpers
}

func copyAll(c *Cursor) string {
	for !c.IsAtEnd() {
		c.CopyToken()
	}
	return string(c.Finish().JS)
}

func expectCopied(t *testing.T, contents string, options Options, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		c, _ := cursorForTest(t, contents, js_parser.Options{JSX: true}, options)
		test.AssertEqualWithDiff(t, copyAll(c), expected)
	})
}

func TestCopyIsIdentity(t *testing.T) {
	for _, contents := range []string{
		"",
		"  // only a comment\n",
		"let x = 1; /* a */ x += 2 // b\n\n",
		"#!/usr/bin/env node\nfoo(`a${b}c`, /re/g)\r\n",
		"const el = <div a=\"1\" {...b}>text {c} </div>;",
	} {
		expectCopied(t, contents, Options{DisableESTransforms: true}, contents)
	}
}

func TestFlowPragma(t *testing.T) {
	expectCopied(t, "/* @flow */\nx;", Options{IsFlow: true}, "/*  */\nx;")
	expectCopied(t, "/* @flow */\nx;", Options{}, "/* @flow */\nx;")
}

func TestChainPrefixAndSuffix(t *testing.T) {
	expectCopied(t, "a?.b;", Options{}, "_optionalChain([a?.b]);")
	expectCopied(t, "a ?? b;", Options{}, "_nullishCoalesce(a ?? b));")
	expectCopied(t, "delete a?.b;", Options{}, "delete _optionalChainDelete([a?.b]);")
	expectCopied(t, "async function f() { a?.[await b]; }", Options{},
		"async function f() { await _asyncOptionalChain([a?.[await b]]); }")
	expectCopied(t, "a?.b ?? c;", Options{DisableESTransforms: true}, "a?.b ?? c;")

	// A chain without "?." isn't a chain
	expectCopied(t, "a.b.c();", Options{}, "a.b.c();")
}

func TestAsyncOperationFlag(t *testing.T) {
	c, _ := cursorForTest(t, "async function f() { x ?? await y; }", js_parser.Options{}, Options{})
	copyAll(c)
	for _, token := range c.Tokens() {
		if token.NumNullishCoalesceStarts > 0 {
			test.AssertEqual(t, token.IsAsyncOperation, true)
		}
	}
}

func TestReplaceAndRemove(t *testing.T) {
	c, _ := cursorForTest(t, "let  x /* c */ = 1;\nfoo()", js_parser.Options{}, Options{})
	c.ReplaceToken("const")
	c.CopyExpectedToken(js_lexer.TIdentifier)
	c.ReplaceTokenTrimmingLeftWhitespace(":=")
	c.CopyToken()
	c.RemoveToken()
	c.RemoveInitialToken()
	c.CopyToken()
	c.CopyToken()
	test.AssertEqualWithDiff(t, string(c.Finish().JS), "const  x:= 1\n()")
}

func TestSnapshots(t *testing.T) {
	c, _ := cursorForTest(t, "a; b; c;", js_parser.Options{}, Options{})
	c.CopyToken()
	s := c.Snapshot()
	c.CopyToken()
	c.ReplaceToken("B")
	c.RestoreToSnapshot(s)
	test.AssertEqual(t, c.CurrentIndex(), 1)

	c.CopyToken()
	s = c.Snapshot()
	c.CopyToken()
	c.CopyToken()
	test.AssertEqual(t, c.GetAndRemoveCodeSinceSnapshot(s), " b;")
	c.AppendCode("/*moved*/")
	for !c.IsAtEnd() {
		c.CopyToken()
	}
	test.AssertEqualWithDiff(t, string(c.Finish().JS), "a;/*moved*/ c;")
}

func TestRemoveBalancedCode(t *testing.T) {
	c, _ := cursorForTest(t, "x = { a: { b }, c };", js_parser.Options{}, Options{})
	c.CopyToken()
	c.CopyToken()
	c.CopyExpectedToken(js_lexer.TOpenBrace)
	c.RemoveBalancedCode()
	for !c.IsAtEnd() {
		c.CopyToken()
	}
	test.AssertEqualWithDiff(t, string(c.Finish().JS), "x = { };")
}

func TestMatches(t *testing.T) {
	c, _ := cursorForTest(t, "import type x from 'y'", js_parser.Options{TypeDialect: js_parser.DialectTypeScript}, Options{})
	test.AssertEqual(t, c.Matches2(js_lexer.TImport, js_lexer.TIdentifier), true)
	test.AssertEqual(t, c.Matches3(js_lexer.TImport, js_lexer.TIdentifier, js_lexer.TIdentifier), true)
	test.AssertEqual(t, c.Matches5(js_lexer.TImport, js_lexer.TIdentifier, js_lexer.TIdentifier, js_lexer.TIdentifier, js_lexer.TStringLiteral), true)
	test.AssertEqual(t, c.MatchesAtIndex(4, js_lexer.TStringLiteral, js_lexer.TSemicolon), false)
	test.AssertEqual(t, c.MatchesContextualAtIndex(1, js_lexer.ContextualType), true)
	test.AssertEqual(t, c.MatchesContextualAtIndex(3, js_lexer.ContextualFrom), true)
	test.AssertEqual(t, c.MatchesContextual(js_lexer.ContextualType), false)
	test.AssertEqual(t, c.IdentifierNameAtRelativeIndex(2), "x")
	test.AssertEqual(t, c.StringValueAtIndex(4), "y")
}

func TestMappings(t *testing.T) {
	c, _ := cursorForTest(t, "a = b;", js_parser.Options{}, Options{})
	c.CopyToken()
	c.RemoveToken()
	c.ReplaceToken("c")
	c.CopyToken()
	result := c.Finish()
	test.AssertEqual(t, string(result.JS), "a c;")
	test.AssertDeepEqual(t, result.Mappings, []int32{0, 1, 2, 3})
}

func TestInternalErrors(t *testing.T) {
	expectFailure := func(text string, offset int32, f func(c *Cursor)) {
		t.Helper()
		c, _ := cursorForTest(t, "a + b", js_parser.Options{}, Options{})
		defer func() {
			t.Helper()
			r := recover()
			err, ok := r.(InternalError)
			if !ok {
				t.Fatalf("Expected an internal error but got %v", r)
			}
			test.AssertEqual(t, err.Text, text)
			test.AssertEqual(t, err.Offset, offset)
		}()
		f(c)
	}

	expectFailure("Expected token \";\"", 0, func(c *Cursor) { c.CopyExpectedToken(js_lexer.TSemicolon) })
	expectFailure("Tried to finish processing tokens before reaching the end", 2, func(c *Cursor) {
		c.CopyToken()
		c.Finish()
	})
	expectFailure("Unexpectedly reached the end of the input", 5, func(c *Cursor) {
		copyAll(c)
		c.CopyToken()
	})
}
