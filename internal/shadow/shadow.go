package shadow

// An imported name can be shadowed by a local declaration in a nested scope.
// References inside that scope must not be rewritten as references to the
// import, so every identifier token in the shadowing scope with the same name
// is marked with "ShadowsGlobal".
//
// Scopes are recorded when they end, so the scope list is sorted by end
// index. Walking the tokens backward lets a single stack hold exactly the
// scopes that contain the current token.

import (
	"fmt"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
)

func IdentifyShadowedGlobals(source logger.Source, tokens []js_ast.Token, scopes []js_ast.Scope, globalNames map[string]bool) {
	if !HasShadowedGlobals(source, tokens, globalNames) {
		return
	}
	markShadowedGlobals(source, tokens, scopes, globalNames)
}

// A quick forward scan for any non-top-level declaration of a global name.
// If there is none, nothing can be shadowed and scopes don't need to be
// computed at all.
func HasShadowedGlobals(source logger.Source, tokens []js_ast.Token, globalNames map[string]bool) bool {
	for i := range tokens {
		token := &tokens[i]
		if token.Type == js_lexer.TIdentifier && !token.IsType && js_ast.IsNonTopLevelDeclaration(token) &&
			globalNames[source.Contents[token.Start:token.End]] {
			return true
		}
	}
	return false
}

func markShadowedGlobals(source logger.Source, tokens []js_ast.Token, scopes []js_ast.Scope, globalNames map[string]bool) {
	var scopeStack []js_ast.Scope
	scopeIndex := len(scopes) - 1

	for i := len(tokens) - 1; ; i-- {
		for len(scopeStack) > 0 && int(scopeStack[len(scopeStack)-1].StartTokenIndex) == i+1 {
			scopeStack = scopeStack[:len(scopeStack)-1]
		}
		for scopeIndex >= 0 && int(scopes[scopeIndex].EndTokenIndex) == i+1 {
			scopeStack = append(scopeStack, scopes[scopeIndex])
			scopeIndex--
		}

		// The loop runs one extra time so that every scope gets popped
		if i < 0 {
			break
		}

		// Only declarations inside some scope other than the module scope count
		token := &tokens[i]
		if len(scopeStack) <= 1 || token.IsType || token.Type != js_lexer.TIdentifier {
			continue
		}
		name := source.Contents[token.Start:token.End]
		if !globalNames[name] {
			continue
		}

		if js_ast.IsBlockScopedDeclaration(token) {
			markShadowedForScope(source, tokens, scopeStack[len(scopeStack)-1], name)
		} else if js_ast.IsFunctionScopedDeclaration(token) {
			// The module scope at the bottom of the stack stands in for the
			// function scope of top-level code
			stackIndex := len(scopeStack) - 1
			for stackIndex > 0 && !scopeStack[stackIndex].IsFunctionScope {
				stackIndex--
			}
			markShadowedForScope(source, tokens, scopeStack[stackIndex], name)
		}
	}

	if len(scopeStack) > 0 {
		panic(fmt.Sprintf("Internal error: %d scopes are still open after the shadowed global pass", len(scopeStack)))
	}
}

func markShadowedForScope(source logger.Source, tokens []js_ast.Token, scope js_ast.Scope, name string) {
	for i := scope.StartTokenIndex; i < scope.EndTokenIndex; i++ {
		token := &tokens[i]
		if (token.Type == js_lexer.TIdentifier || token.Type == js_lexer.TJSXName) &&
			source.Contents[token.Start:token.End] == name {
			token.ShadowsGlobal = true
		}
	}
}
