package js_lexer

import (
	"strings"
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func lexToken(t *testing.T, contents string) Lexer {
	t.Helper()
	log := logger.NewDeferLog()
	return NewLexer(log, test.SourceForTest(contents))
}

// Lexes everything in normal context and joins the raw token text
func lexAll(contents string) string {
	log := logger.NewDeferLog()
	lexer := NewLexer(log, test.SourceForTest(contents))
	var parts []string
	for lexer.Token != TEndOfFile {
		parts = append(parts, lexer.Raw())
		lexer.Next()
	}
	return strings.Join(parts, " ")
}

func expectLexerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		func() {
			defer func() {
				r := recover()
				if _, isLexerPanic := r.(LexerPanic); r != nil && !isLexerPanic {
					panic(r)
				}
			}()
			lexer := NewLexer(log, test.SourceForTest(contents))
			for lexer.Token != TEndOfFile {
				lexer.Next()
			}
		}()
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqual(t, text, expected)
	})
}

func TestComment(t *testing.T) {
	expectLexerError(t, "/*", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/*/", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/**/", "")
	expectLexerError(t, "//", "")

	test.AssertEqual(t, lexAll("a /* b */ c // d\ne"), "a c e")
}

func TestHashbang(t *testing.T) {
	lexer := lexToken(t, "#!/usr/bin/env node\nlet x")
	test.AssertEqual(t, lexer.Raw(), "let")
	test.AssertEqual(t, lexer.Token, TIdentifier)

	lexer = lexToken(t, "#!/usr/bin/env node")
	test.AssertEqual(t, lexer.Token, TEndOfFile)

	expectLexerError(t, "a #!", "<stdin>: error: Syntax error \"!\"\n")
}

func expectIdentifier(t *testing.T, contents string, expected string, keyword ContextualKeyword) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := lexToken(t, contents)
		test.AssertEqual(t, lexer.Token, TIdentifier)
		test.AssertEqual(t, lexer.Identifier, expected)
		test.AssertEqual(t, lexer.ContextualKeyword, keyword)
	})
}

func TestIdentifier(t *testing.T) {
	expectIdentifier(t, "_", "_", ContextualNone)
	expectIdentifier(t, "$", "$", ContextualNone)
	expectIdentifier(t, "abc", "abc", ContextualNone)
	expectIdentifier(t, "\\u0061bc", "abc", ContextualNone)
	expectIdentifier(t, "a\\u{62}c", "abc", ContextualNone)
	expectIdentifier(t, "été", "été", ContextualNone)

	expectIdentifier(t, "async", "async", ContextualAsync)
	expectIdentifier(t, "of", "of", ContextualOf)
	expectIdentifier(t, "type", "type", ContextualType)
	expectIdentifier(t, "satisfies", "satisfies", ContextualSatisfies)
	expectIdentifier(t, "using", "using", ContextualUsing)

	// Escapes disable contextual keywords
	expectIdentifier(t, "\\u0061sync", "async", ContextualNone)

	// Escaped reserved words are not keywords
	lexer := lexToken(t, "\\u0076ar")
	test.AssertEqual(t, lexer.Token, TEscapedKeyword)

	expectLexerError(t, "\\u0030", "<stdin>: error: Invalid identifier: \"0\"\n")
	expectLexerError(t, "a\\x", "<stdin>: error: Syntax error \"x\"\n")
}

func TestContextualKeywordNames(t *testing.T) {
	for text, keyword := range ContextualKeywords {
		test.AssertEqual(t, keyword.String(), text)
	}
}

func expectNumber(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := lexToken(t, contents)
		test.AssertEqual(t, lexer.Token, TNumericLiteral)
		test.AssertEqual(t, lexer.Raw(), contents)
	})
}

func expectBigInteger(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer := lexToken(t, contents)
		test.AssertEqual(t, lexer.Token, TBigIntegerLiteral)
		test.AssertEqual(t, lexer.Raw(), contents)
	})
}

func TestNumericLiteral(t *testing.T) {
	expectNumber(t, "0")
	expectNumber(t, "000")
	expectNumber(t, "010")
	expectNumber(t, "089")
	expectNumber(t, "0b1010")
	expectNumber(t, "0B1010")
	expectNumber(t, "0o17")
	expectNumber(t, "0x1F")
	expectNumber(t, "1.5")
	expectNumber(t, ".5")
	expectNumber(t, "1.")
	expectNumber(t, "1e10")
	expectNumber(t, "1E+10")
	expectNumber(t, "1e-10")

	// Digit separators pass through untouched
	expectNumber(t, "1_000_000")
	expectNumber(t, "1_0.5_0e1_0")
	expectNumber(t, "0b1_0")
	expectNumber(t, "0xFF_FF")

	expectLexerError(t, "1__0", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_.5", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1._5", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1e_5", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "1_e5", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0_1", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "08_9", "<stdin>: error: Syntax error \"_\"\n")
	expectLexerError(t, "0b2", "<stdin>: error: Syntax error \"2\"\n")
	expectLexerError(t, "0o8", "<stdin>: error: Syntax error \"8\"\n")
	expectLexerError(t, "0xG", "<stdin>: error: Syntax error \"G\"\n")
	expectLexerError(t, "1e", "<stdin>: error: Unexpected end of file\n")
	expectLexerError(t, "1a", "<stdin>: error: Syntax error \"a\"\n")
}

func TestBigIntegerLiteral(t *testing.T) {
	expectBigInteger(t, "0n")
	expectBigInteger(t, "123n")
	expectBigInteger(t, "1_000n")
	expectBigInteger(t, "0x1Fn")
	expectBigInteger(t, "0b1n")

	expectLexerError(t, "01n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "00n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "1.0n", "<stdin>: error: Syntax error \"n\"\n")
	expectLexerError(t, "1e5n", "<stdin>: error: Syntax error \"n\"\n")
}

func TestStringLiteral(t *testing.T) {
	test.AssertEqual(t, lexAll("'a' \"b\" 'c\\'d'"), "'a' \"b\" 'c\\'d'")
	test.AssertEqual(t, lexAll("'\\x41\\u0041\\u{41}\\u{10FFFF}'"), "'\\x41\\u0041\\u{41}\\u{10FFFF}'")
	test.AssertEqual(t, lexAll("'a\\\nb'"), "'a\\\nb'")
	test.AssertEqual(t, lexAll("'a\\\r\nb'"), "'a\\\r\nb'")

	expectLexerError(t, "'abc", "<stdin>: error: Unterminated string constant\n")
	expectLexerError(t, "'a\nb'", "<stdin>: error: Unterminated string constant\n")
	expectLexerError(t, "'\\x4'", "<stdin>: error: Bad character escape sequence\n")
	expectLexerError(t, "'\\u12'", "<stdin>: error: Bad character escape sequence\n")
	expectLexerError(t, "'\\u{}'", "<stdin>: error: Bad character escape sequence\n")
	expectLexerError(t, "'\\u{110000}'", "<stdin>: error: Code point out of bounds\n")
}

func TestTemplateLiteral(t *testing.T) {
	test.AssertEqual(t, lexAll("`abc`"), "`abc`")

	// Invalid escapes are allowed in tagged templates
	test.AssertEqual(t, lexAll("`\\u`"), "`\\u`")

	lexer := lexToken(t, "`a${b}c${d}e`")
	test.AssertEqual(t, lexer.Token, TTemplateHead)
	test.AssertEqual(t, lexer.Raw(), "`a${")
	lexer.Next()
	test.AssertEqual(t, lexer.Raw(), "b")
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateMiddle)
	test.AssertEqual(t, lexer.Raw(), "}c${")
	lexer.Next()
	lexer.Next()
	lexer.RescanCloseBraceAsTemplateToken()
	test.AssertEqual(t, lexer.Token, TTemplateTail)
	test.AssertEqual(t, lexer.Raw(), "}e`")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TEndOfFile)

	expectLexerError(t, "`abc", "<stdin>: error: Unterminated template\n")
}

func TestRegExp(t *testing.T) {
	expectRegExp := func(contents string, expected string) {
		t.Helper()
		lexer := lexToken(t, contents)
		lexer.ScanRegExp()
		test.AssertEqual(t, lexer.Token, TRegExpLiteral)
		test.AssertEqual(t, lexer.Raw(), expected)
	}

	expectRegExp("/a/", "/a/")
	expectRegExp("/a/gimsuyd", "/a/gimsuyd")
	expectRegExp("/a/v.test", "/a/v")
	expectRegExp("/=a/", "/=a/")
	expectRegExp("/[/]/", "/[/]/")
	expectRegExp("/\\//", "/\\//")

	expectLexerError(t, "0x_1", "<stdin>: error: Syntax error \"_\"\n")

}

func TestSplitGreaterThan(t *testing.T) {
	lexer := lexToken(t, ">>=")
	test.AssertEqual(t, lexer.Token, TGreaterThanGreaterThanEquals)
	lexer.SplitGreaterThan()
	test.AssertEqual(t, lexer.Token, TGreaterThanEquals)
	test.AssertEqual(t, lexer.Raw(), ">=")
	lexer.SplitGreaterThan()
	test.AssertEqual(t, lexer.Token, TEquals)
	test.AssertEqual(t, lexer.Raw(), "=")

	lexer = lexToken(t, "<<")
	lexer.SplitLessThan()
	test.AssertEqual(t, lexer.Token, TLessThan)
	test.AssertEqual(t, lexer.Raw(), "<")
}

func TestLookahead(t *testing.T) {
	lexer := lexToken(t, "a ? : b")
	lexer.Next()
	test.AssertEqual(t, lexer.Token, TQuestion)
	next, keyword := lexer.LookaheadType()
	test.AssertEqual(t, next, TColon)
	test.AssertEqual(t, keyword, ContextualNone)

	// The lexer itself did not move
	test.AssertEqual(t, lexer.Token, TQuestion)

	lexer = lexToken(t, "x 'unterminated")
	next, _ = lexer.LookaheadType()
	test.AssertEqual(t, next, TSyntaxError)

	lexer = lexToken(t, "async\nfunction")
	ahead := lexer.Lookahead()
	test.AssertEqual(t, ahead.Token, TFunction)
	test.AssertEqual(t, ahead.HasNewlineBefore, true)
}

func TestJSX(t *testing.T) {
	lexer := lexToken(t, "<div data-x='1'>hi {x}</div>")
	test.AssertEqual(t, lexer.Token, TLessThan)
	lexer.NextInsideJSXElement()
	test.AssertEqual(t, lexer.Token, TJSXName)
	test.AssertEqual(t, lexer.Raw(), "div")
	lexer.NextInsideJSXElement()
	test.AssertEqual(t, lexer.Token, TJSXName)
	test.AssertEqual(t, lexer.Raw(), "data-x")
	lexer.NextInsideJSXElement()
	test.AssertEqual(t, lexer.Token, TEquals)
	lexer.NextInsideJSXElement()
	test.AssertEqual(t, lexer.Token, TStringLiteral)
	lexer.NextInsideJSXElement()
	test.AssertEqual(t, lexer.Token, TJSXTagEnd)
	lexer.NextJSXElementChild()
	test.AssertEqual(t, lexer.Token, TJSXText)
	test.AssertEqual(t, lexer.Raw(), "hi ")
	lexer.NextJSXElementChild()
	test.AssertEqual(t, lexer.Token, TOpenBrace)

	// Whitespace-only text is not a token
	lexer = lexToken(t, ">  \n  <")
	lexer.NextJSXElementChild()
	test.AssertEqual(t, lexer.Token, TJSXTagStart)
}

func TestTokens(t *testing.T) {
	expected := []struct {
		contents string
		token    T
	}{
		{"", TEndOfFile},
		{"\x00", TSyntaxError},

		{"0n", TBigIntegerLiteral},
		{"0", TNumericLiteral},
		{"'a'", TStringLiteral},
		{"`a`", TNoSubstitutionTemplateLiteral},
		{"`a${", TTemplateHead},
		{"#foo", TPrivateIdentifier},

		{"&", TAmpersand},
		{"&&", TAmpersandAmpersand},
		{"*", TAsterisk},
		{"**", TAsteriskAsterisk},
		{"@", TAt},
		{"|", TBar},
		{"||", TBarBar},
		{"^", TCaret},
		{"}", TCloseBrace},
		{"]", TCloseBracket},
		{")", TCloseParen},
		{":", TColon},
		{",", TComma},
		{".", TDot},
		{"...", TDotDotDot},
		{"==", TEqualsEquals},
		{"===", TEqualsEqualsEquals},
		{"=>", TEqualsGreaterThan},
		{"!", TExclamation},
		{"!=", TExclamationEquals},
		{"!==", TExclamationEqualsEquals},
		{">", TGreaterThan},
		{">=", TGreaterThanEquals},
		{">>", TGreaterThanGreaterThan},
		{">>>", TGreaterThanGreaterThanGreaterThan},
		{"<", TLessThan},
		{"<=", TLessThanEquals},
		{"<<", TLessThanLessThan},
		{"-", TMinus},
		{"--", TMinusMinus},
		{"{", TOpenBrace},
		{"[", TOpenBracket},
		{"(", TOpenParen},
		{"%", TPercent},
		{"+", TPlus},
		{"++", TPlusPlus},
		{"?", TQuestion},
		{"?.", TQuestionDot},
		{"?.5", TQuestion},
		{"??", TQuestionQuestion},
		{";", TSemicolon},
		{"/", TSlash},
		{"~", TTilde},

		{"&&=", TAmpersandAmpersandEquals},
		{"&=", TAmpersandEquals},
		{"**=", TAsteriskAsteriskEquals},
		{"*=", TAsteriskEquals},
		{"||=", TBarBarEquals},
		{"|=", TBarEquals},
		{"^=", TCaretEquals},
		{"=", TEquals},
		{">>=", TGreaterThanGreaterThanEquals},
		{">>>=", TGreaterThanGreaterThanGreaterThanEquals},
		{"<<=", TLessThanLessThanEquals},
		{"-=", TMinusEquals},
		{"%=", TPercentEquals},
		{"+=", TPlusEquals},
		{"??=", TQuestionQuestionEquals},
		{"/=", TSlashEquals},

		{"a", TIdentifier},
		{"enum", TEnum},
		{"class", TClass},
		{"let", TIdentifier},
		{"yield", TIdentifier},
	}

	for _, it := range expected {
		contents := it.contents
		token := it.token
		t.Run(contents, func(t *testing.T) {
			test.AssertEqual(t, lexToken(t, contents).Token, token)
		})
	}
}

func TestTokenToString(t *testing.T) {
	for token := TEndOfFile; token <= TWith; token++ {
		if _, ok := tokenToString[token]; !ok {
			t.Fatalf("Missing string for token %d", token)
		}
	}
}
