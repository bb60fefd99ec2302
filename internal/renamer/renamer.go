package renamer

import (
	"strconv"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/js_lexer"
	"github.com/tokenstrip/tokenstrip/internal/logger"
)

// Generated code (interop helpers, the optional chaining parameter, renamed
// catch bindings) needs identifiers that can't collide with anything in the
// file. Since there is no symbol table, every identifier that appears
// anywhere in the file is treated as taken regardless of scope.
type NameManager struct {
	// This is used as a set of used names. This also maps the name to the
	// last suffix number that collided with it. When a name collides with an
	// already-used name, it's renamed by incrementing a number at the end
	// until the name is unused. Saving the count here means subsequent
	// collisions start counting from where the previous collision ended.
	nameCounts map[string]uint32
}

func NewNameManager(source logger.Source, tokens []js_ast.Token) *NameManager {
	m := &NameManager{nameCounts: make(map[string]uint32)}
	for _, token := range tokens {
		if token.Type == js_lexer.TIdentifier {
			m.nameCounts[source.Contents[token.Start:token.End]] = 1
		}
	}
	return m
}

func (m *NameManager) IsUsed(name string) bool {
	_, ok := m.nameCounts[name]
	return ok
}

// Returns a name that isn't used yet and reserves it
func (m *NameManager) ClaimFreeName(name string) string {
	name = m.FindFreeName(name)
	m.nameCounts[name] = 1
	return name
}

// Returns a name that isn't used yet without reserving it. The first
// collision with "name" is called "name2".
func (m *NameManager) FindFreeName(name string) string {
	tries, ok := m.nameCounts[name]
	if !ok {
		return name
	}
	prefix := name
	for {
		tries++
		name = prefix + strconv.Itoa(int(tries))
		if !m.IsUsed(name) {
			break
		}
	}

	// Everything below "tries" is known to be used and names are never
	// released, so the next search can start here
	m.nameCounts[prefix] = tries - 1
	return name
}
