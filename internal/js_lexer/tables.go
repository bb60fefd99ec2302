package js_lexer

import "unicode"

type T uint8

// If you add a new token, remember to add it to "tokenToString" too
const (
	TEndOfFile T = iota
	TSyntaxError

	// Literals
	TNoSubstitutionTemplateLiteral
	TNumericLiteral
	TStringLiteral
	TBigIntegerLiteral
	TRegExpLiteral

	// Pseudo-literals
	TTemplateHead
	TTemplateMiddle
	TTemplateTail

	// JSX
	TJSXTagStart // The "<" that starts an element or a closing tag
	TJSXTagEnd   // The ">" that ends an opening tag, a closing tag, or "/>"
	TJSXName
	TJSXText

	// Punctuation
	TAmpersand
	TAmpersandAmpersand
	TAsterisk
	TAsteriskAsterisk
	TAt
	TBar
	TBarBar
	TCaret
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TComma
	TDot
	TDotDotDot
	TEqualsEquals
	TEqualsEqualsEquals
	TEqualsGreaterThan
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TMinus
	TMinusMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPlus
	TPlusPlus
	TQuestion
	TQuestionDot
	TQuestionQuestion
	TSemicolon
	TSlash
	TTilde

	// Assignments
	TAmpersandAmpersandEquals
	TAmpersandEquals
	TAsteriskAsteriskEquals
	TAsteriskEquals
	TBarBarEquals
	TBarEquals
	TCaretEquals
	TEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TLessThanLessThanEquals
	TMinusEquals
	TPercentEquals
	TPlusEquals
	TQuestionQuestionEquals
	TSlashEquals

	// Class-private fields and methods
	TPrivateIdentifier

	// Identifiers
	TIdentifier     // Contextual keywords are identifiers too
	TEscapedKeyword // A keyword that has been escaped as an identifer

	// Reserved words
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TEnum
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TNew
	TNull
	TReturn
	TSuper
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TWith
)

func (t T) IsKeyword() bool {
	return t >= TBreak
}

func (t T) IsAssign() bool {
	return t >= TAmpersandAmpersandEquals && t <= TSlashEquals
}

var Keywords = map[string]T{
	"break":      TBreak,
	"case":       TCase,
	"catch":      TCatch,
	"class":      TClass,
	"const":      TConst,
	"continue":   TContinue,
	"debugger":   TDebugger,
	"default":    TDefault,
	"delete":     TDelete,
	"do":         TDo,
	"else":       TElse,
	"enum":       TEnum,
	"export":     TExport,
	"extends":    TExtends,
	"false":      TFalse,
	"finally":    TFinally,
	"for":        TFor,
	"function":   TFunction,
	"if":         TIf,
	"import":     TImport,
	"in":         TIn,
	"instanceof": TInstanceof,
	"new":        TNew,
	"null":       TNull,
	"return":     TReturn,
	"super":      TSuper,
	"switch":     TSwitch,
	"this":       TThis,
	"throw":      TThrow,
	"true":       TTrue,
	"try":        TTry,
	"typeof":     TTypeof,
	"var":        TVar,
	"void":       TVoid,
	"while":      TWhile,
	"with":       TWith,
}

var tokenToString = map[T]string{
	TEndOfFile:   "end of file",
	TSyntaxError: "syntax error",

	TNoSubstitutionTemplateLiteral: "template literal",
	TNumericLiteral:                "number",
	TStringLiteral:                 "string",
	TBigIntegerLiteral:             "bigint",
	TRegExpLiteral:                 "regular expression",

	TTemplateHead:   "template literal",
	TTemplateMiddle: "template literal",
	TTemplateTail:   "template literal",

	TJSXTagStart: "\"<\"",
	TJSXTagEnd:   "\">\"",
	TJSXName:     "JSX name",
	TJSXText:     "JSX text",

	TAmpersand:                         "\"&\"",
	TAmpersandAmpersand:                "\"&&\"",
	TAsterisk:                          "\"*\"",
	TAsteriskAsterisk:                  "\"**\"",
	TAt:                                "\"@\"",
	TBar:                               "\"|\"",
	TBarBar:                            "\"||\"",
	TCaret:                             "\"^\"",
	TCloseBrace:                        "\"}\"",
	TCloseBracket:                      "\"]\"",
	TCloseParen:                        "\")\"",
	TColon:                             "\":\"",
	TComma:                             "\",\"",
	TDot:                               "\".\"",
	TDotDotDot:                         "\"...\"",
	TEqualsEquals:                      "\"==\"",
	TEqualsEqualsEquals:                "\"===\"",
	TEqualsGreaterThan:                 "\"=>\"",
	TExclamation:                       "\"!\"",
	TExclamationEquals:                 "\"!=\"",
	TExclamationEqualsEquals:           "\"!==\"",
	TGreaterThan:                       "\">\"",
	TGreaterThanEquals:                 "\">=\"",
	TGreaterThanGreaterThan:            "\">>\"",
	TGreaterThanGreaterThanGreaterThan: "\">>>\"",
	TLessThan:                          "\"<\"",
	TLessThanEquals:                    "\"<=\"",
	TLessThanLessThan:                  "\"<<\"",
	TMinus:                             "\"-\"",
	TMinusMinus:                        "\"--\"",
	TOpenBrace:                         "\"{\"",
	TOpenBracket:                       "\"[\"",
	TOpenParen:                         "\"(\"",
	TPercent:                           "\"%\"",
	TPlus:                              "\"+\"",
	TPlusPlus:                          "\"++\"",
	TQuestion:                          "\"?\"",
	TQuestionDot:                       "\"?.\"",
	TQuestionQuestion:                  "\"??\"",
	TSemicolon:                         "\";\"",
	TSlash:                             "\"/\"",
	TTilde:                             "\"~\"",

	TAmpersandAmpersandEquals:                "\"&&=\"",
	TAmpersandEquals:                         "\"&=\"",
	TAsteriskAsteriskEquals:                  "\"**=\"",
	TAsteriskEquals:                          "\"*=\"",
	TBarBarEquals:                            "\"||=\"",
	TBarEquals:                               "\"|=\"",
	TCaretEquals:                             "\"^=\"",
	TEquals:                                  "\"=\"",
	TGreaterThanGreaterThanEquals:            "\">>=\"",
	TGreaterThanGreaterThanGreaterThanEquals: "\">>>=\"",
	TLessThanLessThanEquals:                  "\"<<=\"",
	TMinusEquals:                             "\"-=\"",
	TPercentEquals:                           "\"%=\"",
	TPlusEquals:                              "\"+=\"",
	TQuestionQuestionEquals:                  "\"??=\"",
	TSlashEquals:                             "\"/=\"",

	TPrivateIdentifier: "private identifier",
	TIdentifier:        "identifier",
	TEscapedKeyword:    "escaped keyword",

	TBreak:      "\"break\"",
	TCase:       "\"case\"",
	TCatch:      "\"catch\"",
	TClass:      "\"class\"",
	TConst:      "\"const\"",
	TContinue:   "\"continue\"",
	TDebugger:   "\"debugger\"",
	TDefault:    "\"default\"",
	TDelete:     "\"delete\"",
	TDo:         "\"do\"",
	TElse:       "\"else\"",
	TEnum:       "\"enum\"",
	TExport:     "\"export\"",
	TExtends:    "\"extends\"",
	TFalse:      "\"false\"",
	TFinally:    "\"finally\"",
	TFor:        "\"for\"",
	TFunction:   "\"function\"",
	TIf:         "\"if\"",
	TImport:     "\"import\"",
	TIn:         "\"in\"",
	TInstanceof: "\"instanceof\"",
	TNew:        "\"new\"",
	TNull:       "\"null\"",
	TReturn:     "\"return\"",
	TSuper:      "\"super\"",
	TSwitch:     "\"switch\"",
	TThis:       "\"this\"",
	TThrow:      "\"throw\"",
	TTrue:       "\"true\"",
	TTry:        "\"try\"",
	TTypeof:     "\"typeof\"",
	TVar:        "\"var\"",
	TVoid:       "\"void\"",
	TWhile:      "\"while\"",
	TWith:       "\"with\"",
}

func (t T) String() string {
	if text, ok := tokenToString[t]; ok {
		return text
	}
	return "unknown token"
}

// An identifier spelling that is only a keyword in certain positions. These
// are resolved by the lexer from the raw text of unescaped identifiers and
// interpreted by the parser depending on where they appear.
type ContextualKeyword uint8

const (
	ContextualNone ContextualKeyword = iota
	ContextualAbstract
	ContextualAccessor
	ContextualAs
	ContextualAssert
	ContextualAsserts
	ContextualAsync
	ContextualAwait
	ContextualChecks
	ContextualConstructor
	ContextualDeclare
	ContextualEnum
	ContextualExports
	ContextualFrom
	ContextualGet
	ContextualGlobal
	ContextualImplements
	ContextualInfer
	ContextualInterface
	ContextualIs
	ContextualKeyof
	ContextualMixins
	ContextualModule
	ContextualNamespace
	ContextualOf
	ContextualOpaque
	ContextualOut
	ContextualOverride
	ContextualPrivate
	ContextualProtected
	ContextualProto
	ContextualPublic
	ContextualReadonly
	ContextualRequire
	ContextualSatisfies
	ContextualSet
	ContextualStatic
	ContextualSymbol
	ContextualType
	ContextualUnique
	ContextualUsing
)

var ContextualKeywords = map[string]ContextualKeyword{
	"abstract":    ContextualAbstract,
	"accessor":    ContextualAccessor,
	"as":          ContextualAs,
	"assert":      ContextualAssert,
	"asserts":     ContextualAsserts,
	"async":       ContextualAsync,
	"await":       ContextualAwait,
	"checks":      ContextualChecks,
	"constructor": ContextualConstructor,
	"declare":     ContextualDeclare,
	"enum":        ContextualEnum,
	"exports":     ContextualExports,
	"from":        ContextualFrom,
	"get":         ContextualGet,
	"global":      ContextualGlobal,
	"implements":  ContextualImplements,
	"infer":       ContextualInfer,
	"interface":   ContextualInterface,
	"is":          ContextualIs,
	"keyof":       ContextualKeyof,
	"mixins":      ContextualMixins,
	"module":      ContextualModule,
	"namespace":   ContextualNamespace,
	"of":          ContextualOf,
	"opaque":      ContextualOpaque,
	"out":         ContextualOut,
	"override":    ContextualOverride,
	"private":     ContextualPrivate,
	"protected":   ContextualProtected,
	"proto":       ContextualProto,
	"public":      ContextualPublic,
	"readonly":    ContextualReadonly,
	"require":     ContextualRequire,
	"satisfies":   ContextualSatisfies,
	"set":         ContextualSet,
	"static":      ContextualStatic,
	"symbol":      ContextualSymbol,
	"type":        ContextualType,
	"unique":      ContextualUnique,
	"using":       ContextualUsing,
}

var contextualKeywordToString = func() []string {
	names := make([]string, ContextualUsing+1)
	for text, keyword := range ContextualKeywords {
		names[keyword] = text
	}
	return names
}()

func (k ContextualKeyword) String() string {
	if int(k) < len(contextualKeywordToString) {
		return contextualKeywordToString[k]
	}
	return ""
}

// Reserved words that can never be used as a binding in module code. This is
// used when deciding whether a TypeScript enum member name can also be
// declared as a local variable.
var ReservedWords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"export":     true,
	"extends":    true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"new":        true,
	"return":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"try":        true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
	"enum":       true,
	"implements": true,
	"interface":  true,
	"let":        true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"static":     true,
	"await":      true,
	"false":      true,
	"null":       true,
	"true":       true,
}

// The standard library has the Unicode categories that make up ID_Start and
// ID_Continue, so there is no need for generated tables.
var idStart = []*unicode.RangeTable{
	unicode.L,
	unicode.Nl,
	unicode.Other_ID_Start,
}

var idContinue = []*unicode.RangeTable{
	unicode.L,
	unicode.Nl,
	unicode.Other_ID_Start,
	unicode.Mn,
	unicode.Mc,
	unicode.Nd,
	unicode.Pc,
	unicode.Other_ID_Continue,
}
