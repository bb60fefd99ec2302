package js_ast

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func TestNewToken(t *testing.T) {
	token := NewToken(js_lexer.TIdentifier, js_lexer.ContextualAs, 3, 5, 1, true)
	test.AssertDeepEqual(t, token, Token{
		Start:               3,
		End:                 5,
		Type:                js_lexer.TIdentifier,
		ContextualKeyword:   js_lexer.ContextualAs,
		ScopeDepth:          1,
		IsType:              true,
		ContextID:           NoIndex,
		RHSEndIndex:         NoIndex,
		SubscriptStartIndex: NoIndex,
		NullishStartIndex:   NoIndex,
	})
}

func TestRolePredicates(t *testing.T) {
	check := func(role IdentifierRole, declaration, nonTopLevel, topLevel, blockScoped, functionScoped, shorthand bool) {
		t.Helper()
		t.Run(role.String(), func(t *testing.T) {
			token := &Token{IdentifierRole: role}
			test.AssertEqual(t, IsDeclaration(token), declaration)
			test.AssertEqual(t, IsNonTopLevelDeclaration(token), nonTopLevel)
			test.AssertEqual(t, IsTopLevelDeclaration(token), topLevel)
			test.AssertEqual(t, IsBlockScopedDeclaration(token), blockScoped)
			test.AssertEqual(t, IsFunctionScopedDeclaration(token), functionScoped)
			test.AssertEqual(t, IsObjectShorthandDeclaration(token), shorthand)
		})
	}

	check(RoleAccess, false, false, false, false, false, false)
	check(RoleExportAccess, false, false, false, false, false, false)
	check(RoleTopLevelDeclaration, true, false, true, true, false, false)
	check(RoleFunctionScopedDeclaration, true, true, false, false, true, false)
	check(RoleBlockScopedDeclaration, true, true, false, true, false, false)
	check(RoleObjectShorthandTopLevelDeclaration, true, false, true, true, false, true)
	check(RoleObjectShorthandFunctionScopedDeclaration, true, true, false, false, true, true)
	check(RoleObjectShorthandBlockScopedDeclaration, true, true, false, true, false, true)
	check(RoleObjectShorthand, false, false, false, false, false, false)
	check(RoleImportDeclaration, false, false, true, false, false, false)
	check(RoleObjectKey, false, false, false, false, false, false)
	check(RoleImportAccess, false, false, false, false, false, false)
}
