package runtime

// This file contains the code of the helper functions that generated code can
// call. A helper is only emitted if some rewrite asked for its name, and each
// helper is emitted at most once per file.

import (
	"regexp"
	"strings"

	"github.com/tokenstrip/tokenstrip/internal/renamer"
)

type HelperName uint8

// The order here is the order in which helpers are emitted
const (
	HelperRequire HelperName = iota
	HelperInteropRequireWildcard
	HelperInteropRequireDefault
	HelperCreateNamedExportFrom
	HelperCreateStarExport
	HelperNullishCoalesce
	HelperAsyncNullishCoalesce
	HelperOptionalChain
	HelperAsyncOptionalChain
	HelperOptionalChainDelete
	HelperAsyncOptionalChainDelete
	HelperDynamicImport

	helperCount
)

var helperNameToString = [helperCount]string{
	"require",
	"interopRequireWildcard",
	"interopRequireDefault",
	"createNamedExportFrom",
	"createStarExport",
	"nullishCoalesce",
	"asyncNullishCoalesce",
	"optionalChain",
	"asyncOptionalChain",
	"optionalChainDelete",
	"asyncOptionalChainDelete",
	"dynamicImport",
}

func (h HelperName) String() string {
	return helperNameToString[h]
}

// Each template declares a function (or a binding) whose name is the first
// occurrence of the helper's own name. Upper-case placeholders refer to other
// names that are filled in when the helper is emitted.
var helperCode = [helperCount]string{
	HelperRequire: `
		import {createRequire as CREATE_REQUIRE_NAME} from "module";
		const require = CREATE_REQUIRE_NAME(import.meta.url);
	`,

	HelperInteropRequireWildcard: `
		function interopRequireWildcard(obj) {
			if (obj && obj.__esModule) {
				return obj;
			} else {
				var newObj = {};
				if (obj != null) {
					for (var key in obj) {
						if (Object.prototype.hasOwnProperty.call(obj, key)) {
							newObj[key] = obj[key];
						}
					}
				}
				newObj.default = obj;
				return newObj;
			}
		}
	`,

	HelperInteropRequireDefault: `
		function interopRequireDefault(obj) {
			return obj && obj.__esModule ? obj : { default: obj };
		}
	`,

	HelperCreateNamedExportFrom: `
		function createNamedExportFrom(obj, localName, importedName) {
			Object.defineProperty(exports, localName, {enumerable: true, configurable: true, get: () => obj[importedName]});
		}
	`,

	// The "default" and "__esModule" keys are never re-exported, and neither
	// is anything the file already exports itself
	HelperCreateStarExport: `
		function createStarExport(obj) {
			Object.keys(obj)
				.filter((key) => key !== "default" && key !== "__esModule")
				.forEach((key) => {
					if (exports.hasOwnProperty(key)) {
						return;
					}
					Object.defineProperty(exports, key, {enumerable: true, configurable: true, get: () => obj[key]});
				});
		}
	`,

	HelperNullishCoalesce: `
		function nullishCoalesce(lhs, rhsFn) {
			if (lhs != null) {
				return lhs;
			} else {
				return rhsFn();
			}
		}
	`,

	HelperAsyncNullishCoalesce: `
		async function asyncNullishCoalesce(lhs, rhsFn) {
			if (lhs != null) {
				return lhs;
			} else {
				return await rhsFn();
			}
		}
	`,

	// The argument is a flat list: the initial value followed by pairs of an
	// operation name and a function that applies that operation. Calls get a
	// function that calls the value with the right "this".
	HelperOptionalChain: `
		function optionalChain(ops) {
			let lastAccessLHS = undefined;
			let value = ops[0];
			let i = 1;
			while (i < ops.length) {
				const op = ops[i];
				const fn = ops[i + 1];
				i += 2;
				if ((op === 'optionalAccess' || op === 'optionalCall') && value == null) {
					return undefined;
				}
				if (op === 'access' || op === 'optionalAccess') {
					lastAccessLHS = value;
					value = fn(value);
				} else if (op === 'call' || op === 'optionalCall') {
					value = fn((...args) => value.call(lastAccessLHS, ...args));
					lastAccessLHS = undefined;
				}
			}
			return value;
		}
	`,

	HelperAsyncOptionalChain: `
		async function asyncOptionalChain(ops) {
			let lastAccessLHS = undefined;
			let value = ops[0];
			let i = 1;
			while (i < ops.length) {
				const op = ops[i];
				const fn = ops[i + 1];
				i += 2;
				if ((op === 'optionalAccess' || op === 'optionalCall') && value == null) {
					return undefined;
				}
				if (op === 'access' || op === 'optionalAccess') {
					lastAccessLHS = value;
					value = await fn(value);
				} else if (op === 'call' || op === 'optionalCall') {
					value = await fn((...args) => value.call(lastAccessLHS, ...args));
					lastAccessLHS = undefined;
				}
			}
			return value;
		}
	`,

	// "delete a?.b" is true when the chain short-circuits
	HelperOptionalChainDelete: `
		function optionalChainDelete(ops) {
			const result = OPTIONAL_CHAIN_NAME(ops);
			return result == null ? true : result;
		}
	`,

	HelperAsyncOptionalChainDelete: `
		async function asyncOptionalChainDelete(ops) {
			const result = await ASYNC_OPTIONAL_CHAIN_NAME(ops);
			return result == null ? true : result;
		}
	`,

	HelperDynamicImport: `
		function dynamicImport(path) {
			return (DYNAMIC_IMPORT_FUNCTION)(path);
		}
	`,
}

var whitespace = regexp.MustCompile(`\s+`)

// Allocates helper names on demand and emits the code for every helper that
// was asked for. There is one of these per file.
type Manager struct {
	names                 *renamer.NameManager
	dynamicImportFunction string
	helperNames           [helperCount]string
	createRequireName     string
}

func NewManager(names *renamer.NameManager, dynamicImportFunction string) *Manager {
	return &Manager{
		names:                 names,
		dynamicImportFunction: dynamicImportFunction,
	}
}

// Returns the name that generated code should use to call this helper. The
// first call for a given helper claims a free name based on "_<helper>".
func (m *Manager) Name(helper HelperName) string {
	if name := m.helperNames[helper]; name != "" {
		return name
	}
	name := m.names.ClaimFreeName("_" + helper.String())
	m.helperNames[helper] = name
	return name
}

func (m *Manager) IsUsed(helper HelperName) bool {
	return m.helperNames[helper] != ""
}

// Returns the code for every helper that was used, each preceded by a space
// and collapsed onto a single line so that line numbers in the rest of the
// file stay the same
func (m *Manager) Emit() string {
	// The delete helpers call the plain ones
	if m.IsUsed(HelperOptionalChainDelete) {
		m.Name(HelperOptionalChain)
	}
	if m.IsUsed(HelperAsyncOptionalChainDelete) {
		m.Name(HelperAsyncOptionalChain)
	}

	sb := strings.Builder{}
	for helper := HelperName(0); helper < helperCount; helper++ {
		name := m.helperNames[helper]
		if name == "" {
			continue
		}
		code := helperCode[helper]

		switch helper {
		case HelperOptionalChainDelete:
			code = strings.Replace(code, "OPTIONAL_CHAIN_NAME", m.helperNames[HelperOptionalChain], 1)

		case HelperAsyncOptionalChainDelete:
			code = strings.Replace(code, "ASYNC_OPTIONAL_CHAIN_NAME", m.helperNames[HelperAsyncOptionalChain], 1)

		case HelperRequire:
			if m.createRequireName == "" {
				m.createRequireName = m.names.ClaimFreeName("_createRequire")
			}
			code = strings.ReplaceAll(code, "CREATE_REQUIRE_NAME", m.createRequireName)

		case HelperDynamicImport:
			code = strings.Replace(code, "DYNAMIC_IMPORT_FUNCTION", m.dynamicImportFunction, 1)
		}

		code = strings.Replace(code, helper.String(), name, 1)
		sb.WriteByte(' ')
		sb.WriteString(strings.TrimSpace(whitespace.ReplaceAllString(code, " ")))
	}
	return sb.String()
}
