package renamer

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func managerForTest(t *testing.T, contents string) *NameManager {
	t.Helper()
	log := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	file, ok := js_parser.Parse(log, source, js_parser.Options{})
	if !ok {
		t.Fatalf("Failed to parse %q", contents)
	}
	return NewNameManager(source, file.Tokens)
}

func TestFindFreeName(t *testing.T) {
	m := managerForTest(t, "let _ = a._b; _2();")

	test.AssertEqual(t, m.FindFreeName("x"), "x")
	test.AssertEqual(t, m.FindFreeName("_"), "_3")
	test.AssertEqual(t, m.FindFreeName("_b"), "_b2")
	test.AssertEqual(t, m.FindFreeName("a"), "a2")

	// Finding doesn't reserve anything
	test.AssertEqual(t, m.FindFreeName("_"), "_3")
	test.AssertEqual(t, m.IsUsed("_3"), false)
}

func TestClaimFreeName(t *testing.T) {
	m := managerForTest(t, "const interopRequire = require('x');")

	test.AssertEqual(t, m.ClaimFreeName("interopRequire"), "interopRequire2")
	test.AssertEqual(t, m.ClaimFreeName("interopRequire"), "interopRequire3")
	test.AssertEqual(t, m.ClaimFreeName("_x"), "_x")
	test.AssertEqual(t, m.ClaimFreeName("_x"), "_x2")
	test.AssertEqual(t, m.IsUsed("interopRequire3"), true)
}

func TestStringsAreNotNames(t *testing.T) {
	m := managerForTest(t, "x = 'y' + `z` + /w/;")
	test.AssertEqual(t, m.FindFreeName("y"), "y")
	test.AssertEqual(t, m.FindFreeName("z"), "z")
	test.AssertEqual(t, m.FindFreeName("w"), "w")
	test.AssertEqual(t, m.FindFreeName("x"), "x2")
}

func TestClaimAfterSuffixedNames(t *testing.T) {
	m := managerForTest(t, "x + x2")
	test.AssertEqual(t, m.ClaimFreeName("x"), "x3")
	test.AssertEqual(t, m.ClaimFreeName("x"), "x4")
}
