package js_lexer

// The lexer converts a source file to a stream of tokens. It does not run to
// completion before the parser starts. Instead the parser calls it repeatedly
// because many tokens are context-sensitive and need high-level information
// from the parser. Examples are regular expression literals, template literal
// continuations, and JSX elements.
//
// Only token boundaries are computed. Nothing is decoded since every consumer
// of a token slices the original source text using the token's range.

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tokenstrip/tokenstrip/internal/logger"
)

type Lexer struct {
	log                             logger.Log
	source                          logger.Source
	current                         int
	start                           int
	end                             int
	Token                           T
	ContextualKeyword               ContextualKeyword
	HasNewlineBefore                bool
	codePoint                       rune
	Identifier                      string
	rescanCloseBraceAsTemplateToken bool

	// The log is disabled during speculative scans that may backtrack
	IsLogDisabled bool
}

type LexerPanic struct{}

func NewLexer(log logger.Log, source logger.Source) Lexer {
	lexer := Lexer{
		log:    log,
		source: source,
	}
	lexer.step()

	// "#!/usr/bin/env node" is treated like a comment so that it is carried
	// along with the whitespace before the first token
	if strings.HasPrefix(source.Contents, "#!") {
		for {
			lexer.step()
			if lexer.codePoint == -1 || isLineTerminator(lexer.codePoint) {
				break
			}
		}
	}

	lexer.Next()
	return lexer
}

func (lexer *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(lexer.start)}
}

func (lexer *Lexer) Range() logger.Range {
	return logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: int32(lexer.end - lexer.start)}
}

func (lexer *Lexer) Raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *Lexer) IsIdentifierOrKeyword() bool {
	return lexer.Token >= TIdentifier
}

func (lexer *Lexer) IsContextualKeyword(keyword ContextualKeyword) bool {
	return lexer.Token == TIdentifier && lexer.ContextualKeyword == keyword
}

func (lexer *Lexer) ExpectContextualKeyword(keyword ContextualKeyword) {
	if !lexer.IsContextualKeyword(keyword) {
		lexer.ExpectedString(fmt.Sprintf("%q", keyword.String()))
	}
	lexer.Next()
}

func (lexer *Lexer) SyntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	message := "Unexpected end of file"
	if lexer.end < len(lexer.source.Contents) {
		c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.end:])
		if c < 0x20 {
			message = fmt.Sprintf("Syntax error \"\\x%02X\"", c)
		} else if c >= 0x80 {
			message = fmt.Sprintf("Syntax error \"\\u{%x}\"", c)
		} else if c != '"' {
			message = fmt.Sprintf("Syntax error \"%c\"", c)
		} else {
			message = "Syntax error '\"'"
		}
	}
	lexer.addError(loc, message)
	panic(LexerPanic{})
}

func (lexer *Lexer) ExpectedString(text string) {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Expected %s but found %s", text, found))
	panic(LexerPanic{})
}

func (lexer *Lexer) Expected(token T) {
	if text, ok := tokenToString[token]; ok {
		lexer.ExpectedString(text)
	} else {
		lexer.Unexpected()
	}
}

func (lexer *Lexer) Unexpected() {
	found := fmt.Sprintf("%q", lexer.Raw())
	if lexer.start == len(lexer.source.Contents) {
		found = "end of file"
	}
	lexer.addRangeError(lexer.Range(), fmt.Sprintf("Unexpected %s", found))
	panic(LexerPanic{})
}

// Reports an error with a custom message at the current token
func (lexer *Lexer) AddRangeErrorAndPanic(text string) {
	lexer.addRangeError(lexer.Range(), text)
	panic(LexerPanic{})
}

// Reports an error for a range that was lexed earlier
func (lexer *Lexer) AddRangeErrorAtAndPanic(r logger.Range, text string) {
	lexer.addRangeError(r, text)
	panic(LexerPanic{})
}

// Returns a copy of the lexer moved forward by one token. The copy has its
// log disabled and a token type of TSyntaxError if the next token is invalid.
func (lexer *Lexer) Lookahead() (next Lexer) {
	next = *lexer
	next.IsLogDisabled = true
	defer func() {
		if r := recover(); r != nil {
			if _, isLexerPanic := r.(LexerPanic); !isLexerPanic {
				panic(r)
			}
			next.Token = TSyntaxError
			next.ContextualKeyword = ContextualNone
		}
	}()
	next.Next()
	return
}

func (lexer *Lexer) LookaheadType() (T, ContextualKeyword) {
	next := lexer.Lookahead()
	return next.Token, next.ContextualKeyword
}

// Given a token such as ">>=" whose first character has already been recorded
// as a ">" token by the parser, this changes the current token to the rest of
// the text (in this case ">="). This is needed for type argument lists such as
// "Array<Array<number>>" that end with more than one ">".
func (lexer *Lexer) SplitGreaterThan() {
	switch lexer.Token {
	case TGreaterThanEquals:
		lexer.Token = TEquals

	case TGreaterThanGreaterThan:
		lexer.Token = TGreaterThan

	case TGreaterThanGreaterThanEquals:
		lexer.Token = TGreaterThanEquals

	case TGreaterThanGreaterThanGreaterThan:
		lexer.Token = TGreaterThanGreaterThan

	case TGreaterThanGreaterThanGreaterThanEquals:
		lexer.Token = TGreaterThanGreaterThanEquals

	default:
		lexer.Expected(TGreaterThan)
	}
	lexer.start++
}

// The "<" counterpart to "SplitGreaterThan", used for "f<<T>(x: T) => T>()"
func (lexer *Lexer) SplitLessThan() {
	switch lexer.Token {
	case TLessThanEquals:
		lexer.Token = TEquals

	case TLessThanLessThan:
		lexer.Token = TLessThan

	case TLessThanLessThanEquals:
		lexer.Token = TLessThanEquals

	default:
		lexer.Expected(TLessThan)
	}
	lexer.start++
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, codePoint := range text {
		if i == 0 {
			if !IsIdentifierStart(codePoint) {
				return false
			}
		} else {
			if !IsIdentifierContinue(codePoint) {
				return false
			}
		}
	}
	return true
}

func IsIdentifierStart(codePoint rune) bool {
	switch codePoint {
	case '_', '$',
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return true
	}

	// All ASCII identifier start code points are listed above
	if codePoint < 0x7F {
		return false
	}

	return unicode.In(codePoint, idStart...)
}

func IsIdentifierContinue(codePoint rune) bool {
	switch codePoint {
	case '_', '$', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
		'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
		'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
		return true
	}

	// All ASCII identifier start code points are listed above
	if codePoint < 0x7F {
		return false
	}

	// ZWNJ and ZWJ are allowed in identifiers
	if codePoint == 0x200C || codePoint == 0x200D {
		return true
	}

	return unicode.In(codePoint, idContinue...)
}

// See the "White Space Code Points" table in the ECMAScript standard
func IsWhitespace(codePoint rune) bool {
	switch codePoint {
	case
		0x0009, // character tabulation
		0x000B, // line tabulation
		0x000C, // form feed
		0x0020, // space
		0x00A0, // no-break space

		// Unicode "Space_Separator" code points
		0x1680, // ogham space mark
		0x2000, // en quad
		0x2001, // em quad
		0x2002, // en space
		0x2003, // em space
		0x2004, // three-per-em space
		0x2005, // four-per-em space
		0x2006, // six-per-em space
		0x2007, // figure space
		0x2008, // punctuation space
		0x2009, // thin space
		0x200A, // hair space
		0x202F, // narrow no-break space
		0x205F, // medium mathematical space
		0x3000, // ideographic space

		0xFEFF: // zero width non-breaking space
		return true

	default:
		return false
	}
}

func isLineTerminator(codePoint rune) bool {
	return codePoint == '\r' || codePoint == '\n' || codePoint == 0x2028 || codePoint == 0x2029
}

func (lexer *Lexer) NextJSXElementChild() {
	lexer.HasNewlineBefore = false
	lexer.ContextualKeyword = ContextualNone

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '<':
			lexer.step()
			lexer.Token = TJSXTagStart

		default:
			hasText := false

		text:
			for {
				switch lexer.codePoint {
				case -1:
					// Reaching the end of the file without a closing element is an error
					lexer.SyntaxError()

				case '{', '<':
					break text

				case '\r', '\n', 0x2028, 0x2029:
					lexer.HasNewlineBefore = true

				case '>', '}':
					lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(lexer.end)}, Len: 1},
						fmt.Sprintf("The character %q is not valid inside a JSX element", lexer.codePoint))
					panic(LexerPanic{})

				default:
					if !IsWhitespace(lexer.codePoint) {
						hasText = true
					}
				}
				lexer.step()
			}

			// Text that is only whitespace is left to the inter-token text
			if !hasText {
				continue
			}
			lexer.Token = TJSXText
		}

		break
	}
}

func (lexer *Lexer) NextInsideJSXElement() {
	lexer.HasNewlineBefore = false
	lexer.ContextualKeyword = ContextualNone

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case '\r', '\n', 0x2028, 0x2029:
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case '\t', ' ':
			lexer.step()
			continue

		case '.':
			lexer.step()
			lexer.Token = TDot

		case ':':
			lexer.step()
			lexer.Token = TColon

		case '=':
			lexer.step()
			lexer.Token = TEquals

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token = TCloseBrace

		case '<':
			lexer.step()
			lexer.Token = TJSXTagStart

		case '>':
			lexer.step()
			lexer.Token = TJSXTagEnd

		case '/':
			// '/' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '/':
				lexer.skipSingleLineComment()
				continue

			case '*':
				lexer.skipMultiLineComment()
				continue

			default:
				lexer.Token = TSlash
			}

		case '\'', '"':
			quote := lexer.codePoint
			lexer.step()

		stringLiteral:
			for {
				switch lexer.codePoint {
				case -1: // This indicates the end of the file
					lexer.SyntaxError()

				case quote:
					lexer.step()
					break stringLiteral
				}
				lexer.step()
			}

			lexer.Token = TStringLiteral

		default:
			// Check for unusual whitespace characters
			if IsWhitespace(lexer.codePoint) {
				lexer.step()
				continue
			}

			if IsIdentifierStart(lexer.codePoint) {
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) || lexer.codePoint == '-' {
					lexer.step()
				}
				lexer.Identifier = lexer.Raw()
				lexer.Token = TJSXName
				break
			}

			lexer.end = lexer.current
			lexer.Token = TSyntaxError
		}

		return
	}
}

func (lexer *Lexer) Next() {
	lexer.HasNewlineBefore = lexer.end == 0
	lexer.ContextualKeyword = ContextualNone

	for {
		lexer.start = lexer.end
		lexer.Token = 0

		switch lexer.codePoint {
		case -1: // This indicates the end of the file
			lexer.Token = TEndOfFile

		case '#':
			// "#foo"
			lexer.step()
			if lexer.codePoint == '\\' {
				lexer.Identifier, _ = lexer.scanIdentifierWithEscapes(privateIdentifier)
			} else {
				if !IsIdentifierStart(lexer.codePoint) {
					lexer.SyntaxError()
				}
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				if lexer.codePoint == '\\' {
					lexer.Identifier, _ = lexer.scanIdentifierWithEscapes(privateIdentifier)
				} else {
					lexer.Identifier = lexer.Raw()
				}
			}
			lexer.Token = TPrivateIdentifier

		case '\r', '\n', 0x2028, 0x2029:
			lexer.step()
			lexer.HasNewlineBefore = true
			continue

		case '\t', ' ':
			lexer.step()
			continue

		case '(':
			lexer.step()
			lexer.Token = TOpenParen

		case ')':
			lexer.step()
			lexer.Token = TCloseParen

		case '[':
			lexer.step()
			lexer.Token = TOpenBracket

		case ']':
			lexer.step()
			lexer.Token = TCloseBracket

		case '{':
			lexer.step()
			lexer.Token = TOpenBrace

		case '}':
			lexer.step()
			lexer.Token = TCloseBrace

		case ',':
			lexer.step()
			lexer.Token = TComma

		case ':':
			lexer.step()
			lexer.Token = TColon

		case ';':
			lexer.step()
			lexer.Token = TSemicolon

		case '@':
			lexer.step()
			lexer.Token = TAt

		case '~':
			lexer.step()
			lexer.Token = TTilde

		case '?':
			// '?' or '?.' or '??' or '??='
			lexer.step()
			switch lexer.codePoint {
			case '?':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TQuestionQuestionEquals
				default:
					lexer.Token = TQuestionQuestion
				}
			case '.':
				lexer.Token = TQuestion
				current := lexer.current
				contents := lexer.source.Contents

				// Lookahead to disambiguate with 'a?.1:b'
				if current >= len(contents) || contents[current] < '0' || contents[current] > '9' {
					lexer.step()
					lexer.Token = TQuestionDot
				}
			default:
				lexer.Token = TQuestion
			}

		case '%':
			// '%' or '%='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TPercentEquals
			default:
				lexer.Token = TPercent
			}

		case '&':
			// '&' or '&=' or '&&' or '&&='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TAmpersandEquals
			case '&':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TAmpersandAmpersandEquals
				default:
					lexer.Token = TAmpersandAmpersand
				}
			default:
				lexer.Token = TAmpersand
			}

		case '|':
			// '|' or '|=' or '||' or '||='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TBarEquals
			case '|':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TBarBarEquals
				default:
					lexer.Token = TBarBar
				}
			default:
				lexer.Token = TBar
			}

		case '^':
			// '^' or '^='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TCaretEquals
			default:
				lexer.Token = TCaret
			}

		case '+':
			// '+' or '+=' or '++'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TPlusEquals
			case '+':
				lexer.step()
				lexer.Token = TPlusPlus
			default:
				lexer.Token = TPlus
			}

		case '-':
			// '-' or '-=' or '--'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TMinusEquals
			case '-':
				lexer.step()
				lexer.Token = TMinusMinus
			default:
				lexer.Token = TMinus
			}

		case '*':
			// '*' or '*=' or '**' or '**='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TAsteriskEquals

			case '*':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TAsteriskAsteriskEquals

				default:
					lexer.Token = TAsteriskAsterisk
				}

			default:
				lexer.Token = TAsterisk
			}

		case '/':
			// '/' or '/=' or '//' or '/* ... */'
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TSlashEquals

			case '/':
				lexer.skipSingleLineComment()
				continue

			case '*':
				if lexer.skipMultiLineComment() {
					lexer.HasNewlineBefore = true
				}
				continue

			default:
				lexer.Token = TSlash
			}

		case '=':
			// '=' or '=>' or '==' or '==='
			lexer.step()
			switch lexer.codePoint {
			case '>':
				lexer.step()
				lexer.Token = TEqualsGreaterThan
			case '=':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TEqualsEqualsEquals
				default:
					lexer.Token = TEqualsEquals
				}
			default:
				lexer.Token = TEquals
			}

		case '<':
			// '<' or '<<' or '<=' or '<<='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TLessThanEquals
			case '<':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TLessThanLessThanEquals
				default:
					lexer.Token = TLessThanLessThan
				}
			default:
				lexer.Token = TLessThan
			}

		case '>':
			// '>' or '>>' or '>>>' or '>=' or '>>=' or '>>>='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				lexer.Token = TGreaterThanEquals
			case '>':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TGreaterThanGreaterThanEquals
				case '>':
					lexer.step()
					switch lexer.codePoint {
					case '=':
						lexer.step()
						lexer.Token = TGreaterThanGreaterThanGreaterThanEquals
					default:
						lexer.Token = TGreaterThanGreaterThanGreaterThan
					}
				default:
					lexer.Token = TGreaterThanGreaterThan
				}
			default:
				lexer.Token = TGreaterThan
			}

		case '!':
			// '!' or '!=' or '!=='
			lexer.step()
			switch lexer.codePoint {
			case '=':
				lexer.step()
				switch lexer.codePoint {
				case '=':
					lexer.step()
					lexer.Token = TExclamationEqualsEquals
				default:
					lexer.Token = TExclamationEquals
				}
			default:
				lexer.Token = TExclamation
			}

		case '\'', '"', '`':
			lexer.scanStringOrTemplate()

		case '_', '$',
			'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
			'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
			'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
			'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z':
			lexer.step()
			for IsIdentifierContinue(lexer.codePoint) {
				lexer.step()
			}
			if lexer.codePoint == '\\' {
				lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes(normalIdentifier)
			} else {
				contents := lexer.Raw()
				lexer.Identifier = contents
				lexer.Token = Keywords[contents]
				if lexer.Token == 0 {
					lexer.Token = TIdentifier
					lexer.ContextualKeyword = ContextualKeywords[contents]
				}
			}

		case '\\':
			lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes(normalIdentifier)

		case '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			lexer.parseNumericLiteralOrDot()

		default:
			// Check for unusual whitespace characters
			if IsWhitespace(lexer.codePoint) {
				lexer.step()
				continue
			}

			if IsIdentifierStart(lexer.codePoint) {
				lexer.step()
				for IsIdentifierContinue(lexer.codePoint) {
					lexer.step()
				}
				if lexer.codePoint == '\\' {
					lexer.Identifier, lexer.Token = lexer.scanIdentifierWithEscapes(normalIdentifier)
				} else {
					lexer.Token = TIdentifier
					lexer.Identifier = lexer.Raw()
				}
				break
			}

			lexer.end = lexer.current
			lexer.Token = TSyntaxError
		}

		return
	}
}

// The current code point is the second "/" of "//"
func (lexer *Lexer) skipSingleLineComment() {
	for {
		lexer.step()
		if lexer.codePoint == -1 || isLineTerminator(lexer.codePoint) {
			return
		}
	}
}

// The current code point is the "*" of "/*". Returns true if the comment
// contained a line terminator.
func (lexer *Lexer) skipMultiLineComment() (hasNewline bool) {
	lexer.step()
	for {
		switch lexer.codePoint {
		case '*':
			lexer.step()
			if lexer.codePoint == '/' {
				lexer.step()
				return
			}

		case '\r', '\n', 0x2028, 0x2029:
			lexer.step()
			hasNewline = true

		case -1: // This indicates the end of the file
			lexer.start = lexer.end
			lexer.addError(lexer.Loc(), "Expected \"*/\" to terminate multi-line comment")
			panic(LexerPanic{})

		default:
			lexer.step()
		}
	}
}

func (lexer *Lexer) scanStringOrTemplate() {
	quote := lexer.codePoint

	if quote != '`' {
		lexer.Token = TStringLiteral
	} else if lexer.rescanCloseBraceAsTemplateToken {
		lexer.Token = TTemplateTail
	} else {
		lexer.Token = TNoSubstitutionTemplateLiteral
	}
	lexer.step()

	for {
		switch lexer.codePoint {
		case '\\':
			lexer.step()

			// Template literals may contain invalid escapes when they are tagged,
			// so only string literals are checked here
			if quote != '`' {
				lexer.validateEscapeSequence()
				continue
			}

			// Handle Windows CRLF
			if lexer.codePoint == '\r' {
				lexer.step()
				if lexer.codePoint == '\n' {
					lexer.step()
				}
				continue
			}

			if lexer.codePoint == -1 {
				lexer.SyntaxError()
			}

		case -1: // This indicates the end of the file
			if quote == '`' {
				lexer.addError(logger.Loc{Start: int32(lexer.start)}, "Unterminated template")
			} else {
				lexer.addError(logger.Loc{Start: int32(lexer.start)}, "Unterminated string constant")
			}
			panic(LexerPanic{})

		case '\r', '\n':
			if quote != '`' {
				lexer.addError(logger.Loc{Start: int32(lexer.end)}, "Unterminated string constant")
				panic(LexerPanic{})
			}

		case '$':
			if quote == '`' {
				lexer.step()
				if lexer.codePoint == '{' {
					lexer.step()
					if lexer.rescanCloseBraceAsTemplateToken {
						lexer.Token = TTemplateMiddle
					} else {
						lexer.Token = TTemplateHead
					}
					return
				}
				continue
			}

		case quote:
			lexer.step()
			return
		}
		lexer.step()
	}
}

// The current code point is the character after a backslash in a string
func (lexer *Lexer) validateEscapeSequence() {
	escapeStart := lexer.end - 1

	switch lexer.codePoint {
	case -1:
		lexer.SyntaxError()

	case 'x':
		lexer.step()
		for j := 0; j < 2; j++ {
			if !isHexDigit(lexer.codePoint) {
				lexer.invalidEscape(escapeStart)
			}
			lexer.step()
		}

	case 'u':
		lexer.step()
		if lexer.codePoint == '{' {
			// Variable-length
			lexer.step()
			value := 0
			isFirst := true
			for lexer.codePoint != '}' {
				if !isHexDigit(lexer.codePoint) {
					lexer.invalidEscape(escapeStart)
				}
				value = value*16 + hexValue(lexer.codePoint)
				if value > utf8.MaxRune {
					lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(escapeStart)}, Len: int32(lexer.end - escapeStart)},
						"Code point out of bounds")
					panic(LexerPanic{})
				}
				isFirst = false
				lexer.step()
			}
			if isFirst {
				lexer.invalidEscape(escapeStart)
			}
			lexer.step()
		} else {
			// Fixed-length
			for j := 0; j < 4; j++ {
				if !isHexDigit(lexer.codePoint) {
					lexer.invalidEscape(escapeStart)
				}
				lexer.step()
			}
		}

	case '\r':
		// Handle Windows CRLF
		lexer.step()
		if lexer.codePoint == '\n' {
			lexer.step()
		}

	default:
		lexer.step()
	}
}

func (lexer *Lexer) invalidEscape(escapeStart int) {
	lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(escapeStart)}, Len: int32(lexer.end - escapeStart)},
		"Bad character escape sequence")
	panic(LexerPanic{})
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c + 10 - 'a')
	default:
		return int(c + 10 - 'A')
	}
}

type identifierKind uint8

const (
	normalIdentifier identifierKind = iota
	privateIdentifier
)

// This is an edge case that doesn't really exist in the wild, so it doesn't
// need to be as fast as possible. Escaped identifiers never resolve to a
// contextual keyword.
func (lexer *Lexer) scanIdentifierWithEscapes(kind identifierKind) (string, T) {
	sb := strings.Builder{}
	sb.WriteString(lexer.source.Contents[lexer.start:lexer.end])

	for {
		// Scan a unicode escape sequence. There is at least one because that's
		// what caused us to get on this slow path in the first place.
		if lexer.codePoint == '\\' {
			escapeStart := lexer.end
			lexer.step()
			if lexer.codePoint != 'u' {
				lexer.SyntaxError()
			}
			lexer.step()
			value := 0
			if lexer.codePoint == '{' {
				// Variable-length
				lexer.step()
				for lexer.codePoint != '}' {
					if !isHexDigit(lexer.codePoint) {
						lexer.SyntaxError()
					}
					value = value*16 + hexValue(lexer.codePoint)
					if value > utf8.MaxRune {
						lexer.invalidEscape(escapeStart)
					}
					lexer.step()
				}
				lexer.step()
			} else {
				// Fixed-length
				for j := 0; j < 4; j++ {
					if !isHexDigit(lexer.codePoint) {
						lexer.SyntaxError()
					}
					value = value*16 + hexValue(lexer.codePoint)
					lexer.step()
				}
			}
			sb.WriteRune(rune(value))
			continue
		}

		// Stop when we reach the end of the identifier
		if !IsIdentifierContinue(lexer.codePoint) {
			break
		}
		sb.WriteRune(lexer.codePoint)
		lexer.step()
	}

	// Even though it was escaped, it must still be a valid identifier
	text := sb.String()
	identifier := text
	if kind == privateIdentifier {
		identifier = identifier[1:] // Skip over the "#"
	}
	if !IsIdentifier(identifier) {
		lexer.addRangeError(lexer.Range(), fmt.Sprintf("Invalid identifier: %q", text))
		panic(LexerPanic{})
	}

	// Escaped keywords are not allowed to work as actual keywords, but they are
	// allowed wherever we allow identifiers or keywords. For example:
	//
	//   // This is an error (equivalent to "var var;")
	//   var \u0076\u0061\u0072;
	//
	//   // This is an fine (equivalent to "foo.var;")
	//   foo.\u0076\u0061\u0072;
	//
	if Keywords[text] != 0 {
		return text, TEscapedKeyword
	}
	return text, TIdentifier
}

func (lexer *Lexer) parseNumericLiteralOrDot() {
	// Number or dot
	first := lexer.codePoint
	lexer.step()

	// Dot without a digit after it
	if first == '.' && (lexer.codePoint < '0' || lexer.codePoint > '9') {
		// "..."
		if lexer.codePoint == '.' &&
			lexer.current < len(lexer.source.Contents) &&
			lexer.source.Contents[lexer.current] == '.' {
			lexer.step()
			lexer.step()
			lexer.Token = TDotDotDot
			return
		}

		// "."
		lexer.Token = TDot
		return
	}

	lastUnderscoreEnd := 0
	hasDotOrExponent := first == '.'
	isLegacyOctalLiteral := false
	base := 0

	// Assume this is a number, but potentially change to a bigint later
	lexer.Token = TNumericLiteral

	// Check for binary, octal, or hexadecimal literal
	if first == '0' {
		switch lexer.codePoint {
		case 'b', 'B':
			base = 2

		case 'o', 'O':
			base = 8

		case 'x', 'X':
			base = 16

		case '0', '1', '2', '3', '4', '5', '6', '7', '_':
			base = 8
			isLegacyOctalLiteral = true
		}
	}

	if base != 0 {
		// Integer literal
		isFirst := true
		if !isLegacyOctalLiteral {
			lexer.step()
		}

	integerLiteral:
		for {
			switch lexer.codePoint {
			case '_':
				// Cannot have multiple underscores in a row
				if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
					lexer.SyntaxError()
				}

				// The first digit must exist
				if isFirst || isLegacyOctalLiteral {
					lexer.SyntaxError()
				}

				lastUnderscoreEnd = lexer.end

			case '0', '1':

			case '2', '3', '4', '5', '6', '7':
				if base == 2 {
					lexer.SyntaxError()
				}

			case '8', '9':
				// Legacy octal literals may turn out to be a base 10 literal after all
				if !isLegacyOctalLiteral && base < 10 {
					lexer.SyntaxError()
				}

			case 'A', 'B', 'C', 'D', 'E', 'F', 'a', 'b', 'c', 'd', 'e', 'f':
				if base != 16 {
					lexer.SyntaxError()
				}

			default:
				// The first digit must exist
				if isFirst {
					lexer.SyntaxError()
				}

				break integerLiteral
			}

			lexer.step()
			isFirst = false
		}

		// Can't use a leading zero for bigint literals
		if lexer.codePoint == 'n' && isLegacyOctalLiteral {
			lexer.SyntaxError()
		}
	} else {
		// Floating-point literal
		isInvalidLegacyOctalLiteral := first == '0' && (lexer.codePoint == '8' || lexer.codePoint == '9')

		// Initial digits
		for {
			if lexer.codePoint < '0' || lexer.codePoint > '9' {
				if lexer.codePoint != '_' {
					break
				}

				// Cannot have multiple underscores in a row
				if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
					lexer.SyntaxError()
				}

				// Underscores are not allowed here
				if isInvalidLegacyOctalLiteral {
					lexer.SyntaxError()
				}

				lastUnderscoreEnd = lexer.end
			}
			lexer.step()
		}

		// Fractional digits
		if first != '.' && lexer.codePoint == '.' {
			// An underscore must not come last
			if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
				lexer.end--
				lexer.SyntaxError()
			}

			hasDotOrExponent = true
			lexer.step()
			if lexer.codePoint == '_' {
				lexer.SyntaxError()
			}
			for {
				if lexer.codePoint < '0' || lexer.codePoint > '9' {
					if lexer.codePoint != '_' {
						break
					}

					// Cannot have multiple underscores in a row
					if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
						lexer.SyntaxError()
					}

					lastUnderscoreEnd = lexer.end
				}
				lexer.step()
			}
		}

		// Exponent
		if lexer.codePoint == 'e' || lexer.codePoint == 'E' {
			// An underscore must not come last
			if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
				lexer.end--
				lexer.SyntaxError()
			}

			hasDotOrExponent = true
			lexer.step()
			if lexer.codePoint == '+' || lexer.codePoint == '-' {
				lexer.step()
			}
			if lexer.codePoint < '0' || lexer.codePoint > '9' {
				lexer.SyntaxError()
			}
			for {
				if lexer.codePoint < '0' || lexer.codePoint > '9' {
					if lexer.codePoint != '_' {
						break
					}

					// Cannot have multiple underscores in a row
					if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
						lexer.SyntaxError()
					}

					lastUnderscoreEnd = lexer.end
				}
				lexer.step()
			}
		}

		// The only bigint literal that can start with 0 is "0n"
		if lexer.codePoint == 'n' && !hasDotOrExponent && first == '0' && lexer.end-lexer.start > 1 {
			lexer.SyntaxError()
		}
	}

	// An underscore must not come last
	if lastUnderscoreEnd > 0 && lexer.end == lastUnderscoreEnd+1 {
		lexer.end--
		lexer.SyntaxError()
	}

	// Handle bigint literals after the underscore-at-end check above
	if lexer.codePoint == 'n' && !hasDotOrExponent {
		lexer.Token = TBigIntegerLiteral
		lexer.step()
	}

	// Identifiers can't occur immediately after numbers
	if IsIdentifierStart(lexer.codePoint) {
		lexer.SyntaxError()
	}
}

// The current token is "/" or "/=" in a position where an expression is
// expected. This rescans it as a regular expression literal.
func (lexer *Lexer) ScanRegExp() {
	validateAndStep := func() {
		if lexer.codePoint == '\\' {
			lexer.step()
		}

		switch lexer.codePoint {
		case '\r', '\n', 0x2028, 0x2029:
			// Newlines aren't allowed in regular expressions
			lexer.addError(lexer.Loc(), "Unterminated regular expression")
			panic(LexerPanic{})

		case -1: // This indicates the end of the file
			lexer.addError(lexer.Loc(), "Unterminated regular expression")
			panic(LexerPanic{})

		default:
			lexer.step()
		}
	}

	// "/=" has already consumed the "=" which is the first character of the body
	for {
		switch lexer.codePoint {
		case '/':
			lexer.step()
			for IsIdentifierContinue(lexer.codePoint) {
				switch lexer.codePoint {
				case 'd', 'g', 'i', 'm', 's', 'u', 'v', 'y':
					lexer.step()

				default:
					lexer.SyntaxError()
				}
			}
			lexer.Token = TRegExpLiteral
			return

		case '[':
			lexer.step()
			for lexer.codePoint != ']' {
				validateAndStep()
			}
			lexer.step()

		default:
			validateAndStep()
		}
	}
}

func (lexer *Lexer) RescanCloseBraceAsTemplateToken() {
	if lexer.Token != TCloseBrace {
		lexer.Expected(TCloseBrace)
	}

	lexer.rescanCloseBraceAsTemplateToken = true
	lexer.codePoint = '`'
	lexer.current = lexer.end
	lexer.end -= 1
	lexer.Next()
	lexer.rescanCloseBraceAsTemplateToken = false
}

func (lexer *Lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = -1
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func (lexer *Lexer) addError(loc logger.Loc, text string) {
	if !lexer.IsLogDisabled {
		lexer.log.AddError(&lexer.source, loc, text)
	}
}

func (lexer *Lexer) addRangeError(r logger.Range, text string) {
	if !lexer.IsLogDisabled {
		lexer.log.AddRangeError(&lexer.source, r, text)
	}
}
