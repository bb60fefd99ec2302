package js_ast

import (
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
)

// Every file is parsed into a flat array of tokens and a list of scopes. There
// is no syntax tree. Instead the parser annotates each token with enough
// information (its role, whether it is part of a type, and where optional
// chains and nullish coalescing expressions start and end) for the
// transforms to rewrite the file one token at a time.
//
// Token positions never change after the token is created. Only the
// annotation fields are written to after that, first by the parser and then
// by later passes such as the shadowed global analysis.

// Used for index fields that aren't pointing at anything
const NoIndex int32 = -1

type L int

// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type IdentifierRole uint8

const (
	RoleNone IdentifierRole = iota
	RoleAccess
	RoleExportAccess
	RoleTopLevelDeclaration
	RoleFunctionScopedDeclaration
	RoleBlockScopedDeclaration
	RoleObjectShorthandTopLevelDeclaration
	RoleObjectShorthandFunctionScopedDeclaration
	RoleObjectShorthandBlockScopedDeclaration
	RoleObjectShorthand

	// Any identifier bound in an import statement, e.g. both "a" and "b" from
	// "import a, * as b from './b'".
	RoleImportDeclaration

	// The "a" in "{a: 1}" or "{a() {}}"
	RoleObjectKey

	// The "a" in "import {a as b} from './c'"
	RoleImportAccess
)

var roleToString = []string{
	"",
	"Access",
	"ExportAccess",
	"TopLevelDeclaration",
	"FunctionScopedDeclaration",
	"BlockScopedDeclaration",
	"ObjectShorthandTopLevelDeclaration",
	"ObjectShorthandFunctionScopedDeclaration",
	"ObjectShorthandBlockScopedDeclaration",
	"ObjectShorthand",
	"ImportDeclaration",
	"ObjectKey",
	"ImportAccess",
}

func (role IdentifierRole) String() string {
	return roleToString[role]
}

type Token struct {
	// Byte offsets into the source
	Start int32
	End   int32

	Type              js_lexer.T
	ContextualKeyword js_lexer.ContextualKeyword

	// How many scopes deep this token was when it was recorded
	ScopeDepth int32

	// Tokens that are part of type syntax. These are removed by the TypeScript
	// and Flow transforms.
	IsType bool

	IdentifierRole IdentifierRole

	// Set by the shadowed global analysis for identifiers that refer to a local
	// declaration with the same name as an import
	ShadowsGlobal bool

	// Set by the token cursor for chain and nullish starts that contain an
	// "await" and must use the async helpers
	IsAsyncOperation bool

	// Ties related tokens together, e.g. the "(" and ")" of a call or the
	// "class" keyword and the braces of its body. NoIndex if not present.
	ContextID int32

	// For "export const a = 1, b = 2;" rewritten to CommonJS, the index of the
	// token after each initializer. NoIndex if not present.
	RHSEndIndex int32

	// A "class" or "function" keyword that starts an expression instead of a
	// declaration
	IsExpression bool

	// The number of "??" expressions that start or end at this token
	NumNullishCoalesceStarts int32
	NumNullishCoalesceEnds   int32

	// The first and last token of a member expression that contains "?."
	IsOptionalChainStart bool
	IsOptionalChainEnd   bool

	// For the "." or "?." or "[" or "(" of a subscript, the index of the first
	// token of the expression being subscripted. NoIndex if not present.
	SubscriptStartIndex int32

	// For a "??" token, the index of the first token of its left operand.
	// NoIndex if not present.
	NullishStartIndex int32
}

func NewToken(kind js_lexer.T, keyword js_lexer.ContextualKeyword, start int32, end int32, scopeDepth int32, isType bool) Token {
	return Token{
		Start:               start,
		End:                 end,
		Type:                kind,
		ContextualKeyword:   keyword,
		ScopeDepth:          scopeDepth,
		IsType:              isType,
		ContextID:           NoIndex,
		RHSEndIndex:         NoIndex,
		SubscriptStartIndex: NoIndex,
		NullishStartIndex:   NoIndex,
	}
}

// A range of tokens in which declarations are visible. Scopes are recorded
// when they end, so a list of scopes is sorted by "EndTokenIndex" and inner
// scopes always come before the scopes that contain them.
type Scope struct {
	StartTokenIndex int32
	EndTokenIndex   int32
	IsFunctionScope bool
}

func IsDeclaration(token *Token) bool {
	switch token.IdentifierRole {
	case RoleTopLevelDeclaration,
		RoleFunctionScopedDeclaration,
		RoleBlockScopedDeclaration,
		RoleObjectShorthandTopLevelDeclaration,
		RoleObjectShorthandFunctionScopedDeclaration,
		RoleObjectShorthandBlockScopedDeclaration:
		return true
	}
	return false
}

func IsNonTopLevelDeclaration(token *Token) bool {
	switch token.IdentifierRole {
	case RoleFunctionScopedDeclaration,
		RoleBlockScopedDeclaration,
		RoleObjectShorthandFunctionScopedDeclaration,
		RoleObjectShorthandBlockScopedDeclaration:
		return true
	}
	return false
}

func IsTopLevelDeclaration(token *Token) bool {
	switch token.IdentifierRole {
	case RoleTopLevelDeclaration,
		RoleObjectShorthandTopLevelDeclaration,
		RoleImportDeclaration:
		return true
	}
	return false
}

// Top-level declarations count as block scoped since the module scope is the
// innermost scope that contains them.
func IsBlockScopedDeclaration(token *Token) bool {
	switch token.IdentifierRole {
	case RoleTopLevelDeclaration,
		RoleBlockScopedDeclaration,
		RoleObjectShorthandTopLevelDeclaration,
		RoleObjectShorthandBlockScopedDeclaration:
		return true
	}
	return false
}

func IsFunctionScopedDeclaration(token *Token) bool {
	switch token.IdentifierRole {
	case RoleFunctionScopedDeclaration,
		RoleObjectShorthandFunctionScopedDeclaration:
		return true
	}
	return false
}

func IsObjectShorthandDeclaration(token *Token) bool {
	switch token.IdentifierRole {
	case RoleObjectShorthandTopLevelDeclaration,
		RoleObjectShorthandFunctionScopedDeclaration,
		RoleObjectShorthandBlockScopedDeclaration:
		return true
	}
	return false
}
