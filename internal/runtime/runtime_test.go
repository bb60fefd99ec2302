package runtime

import (
	"strings"
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_parser"
	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/renamer"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func managerForTest(t *testing.T, contents string, dynamicImportFunction string) *Manager {
	t.Helper()
	log := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	file, ok := js_parser.Parse(log, source, js_parser.Options{})
	if !ok {
		t.Fatalf("Failed to parse %q", contents)
	}
	return NewManager(renamer.NewNameManager(source, file.Tokens), dynamicImportFunction)
}

func TestHelperNames(t *testing.T) {
	m := managerForTest(t, "let _interopRequireDefault = 1;", "")
	test.AssertEqual(t, m.Name(HelperInteropRequireDefault), "_interopRequireDefault2")
	test.AssertEqual(t, m.Name(HelperInteropRequireDefault), "_interopRequireDefault2")
	test.AssertEqual(t, m.Name(HelperNullishCoalesce), "_nullishCoalesce")
	test.AssertEqual(t, m.IsUsed(HelperOptionalChain), false)
}

func TestEmitNothing(t *testing.T) {
	m := managerForTest(t, "x", "")
	test.AssertEqual(t, m.Emit(), "")
}

func TestEmitOrderAndRename(t *testing.T) {
	m := managerForTest(t, "let _nullishCoalesce;", "")
	m.Name(HelperNullishCoalesce)
	m.Name(HelperInteropRequireDefault)
	test.AssertEqualWithDiff(t, m.Emit(),
		" function _interopRequireDefault(obj) { return obj && obj.__esModule ? obj : { default: obj }; }"+
			" function _nullishCoalesce2(lhs, rhsFn) { if (lhs != null) { return lhs; } else { return rhsFn(); } }")
}

func TestEmitDeleteHelpers(t *testing.T) {
	m := managerForTest(t, "x", "")
	m.Name(HelperOptionalChainDelete)
	code := m.Emit()
	test.AssertEqual(t, m.IsUsed(HelperOptionalChain), true)
	test.AssertEqual(t, strings.Contains(code, " function _optionalChain(ops) {"), true)
	test.AssertEqual(t, strings.HasSuffix(code,
		" function _optionalChainDelete(ops) { const result = _optionalChain(ops); return result == null ? true : result; }"), true)
}

func TestEmitRequire(t *testing.T) {
	m := managerForTest(t, "_createRequire", "")
	m.Name(HelperRequire)
	test.AssertEqualWithDiff(t, m.Emit(),
		` import {createRequire as _createRequire2} from "module"; const _require = _createRequire2(import.meta.url);`)
}

func TestEmitDynamicImport(t *testing.T) {
	m := managerForTest(t, "x", "loadModule")
	test.AssertEqual(t, m.Name(HelperDynamicImport), "_dynamicImport")
	test.AssertEqualWithDiff(t, m.Emit(),
		" function _dynamicImport(path) { return (loadModule)(path); }")
}
