package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/test"
	"github.com/tokenstrip/tokenstrip/pkg/api"
)

func readFileForTest(files map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		if contents, ok := files[path]; ok {
			return []byte(contents), nil
		}
		return nil, fmt.Errorf("no such file")
	}
}

type runForTest struct {
	stdout bytes.Buffer
	log    logger.Log
	code   int
}

func (r *runForTest) errors() []string {
	var errors []string
	for _, msg := range r.log.Done() {
		errors = append(errors, msg.Text)
	}
	return errors
}

func runWithStdin(t *testing.T, stdin string, args ...string) *runForTest {
	t.Helper()
	r := &runForTest{log: logger.NewDeferLog()}
	r.code = run(context.Background(), args, environment{
		stdin:     strings.NewReader(stdin),
		stdout:    &r.stdout,
		readFile:  os.ReadFile,
		writeFile: writeFileCreatingDirectories,
		newLog:    func(logger.StderrOptions) logger.Log { return r.log },
	})
	return r
}

func expectParseError(t *testing.T, args []string, expected string) {
	t.Helper()
	t.Run(strings.Join(args, " "), func(t *testing.T) {
		t.Helper()
		_, err := parseArgs(args, readFileForTest(nil))
		if err == nil {
			t.Fatalf("Expected an error")
		}
		test.AssertEqualWithDiff(t, err.Error(), expected)
	})
}

func TestParseArgs(t *testing.T) {
	options, err := parseArgs([]string{
		"--transforms=typescript,imports",
		"--keep-unused-imports",
		"--enable-legacy-babel5-module-interop",
		"--dynamic-import-function=load",
		"--jobs=3",
		"--outdir=dist",
		"--log-level=debug",
		"a.ts", "b.ts",
	}, readFileForTest(nil))
	test.AssertEqual(t, err, nil)
	test.AssertDeepEqual(t, options.transform.Transforms, []api.TransformKind{api.TransformTypeScript, api.TransformImports})
	test.AssertEqual(t, options.transform.KeepUnusedImports, true)
	test.AssertEqual(t, options.transform.EnableLegacyBabel5ModuleInterop, true)
	test.AssertEqual(t, options.transform.DynamicImportFunction, "load")
	test.AssertEqual(t, options.jobs, 3)
	test.AssertEqual(t, options.outdir, "dist")
	test.AssertEqual(t, options.debugLog, true)
	test.AssertDeepEqual(t, options.files, []string{"a.ts", "b.ts"})

	expectParseError(t, []string{"--transforms=css"}, "Invalid transform: \"css\" (valid: jsx, typescript, flow, imports)")
	expectParseError(t, []string{"--jobs=0"}, "Invalid job count: \"0\"")
	expectParseError(t, []string{"--bundle"}, "Invalid flag: \"--bundle\"")
	expectParseError(t, []string{"a.ts", "b.ts"}, "Must use \"--outdir\" when there are multiple input files")
	expectParseError(t, []string{"--sourcemap"}, "Must use \"--sourcefile\" with \"--sourcemap\" when transforming stdin")
	expectParseError(t, []string{"--format-tokens", "--outdir=out", "a.ts"}, "Cannot use \"--format-tokens\" with \"--outdir\" or \"--sourcemap\"")
}

func TestParseArgsOptionsFile(t *testing.T) {
	files := map[string]string{
		"options.json": `{"transforms": ["flow"], "disableESTransforms": true, "jsxRuntime": "preserve"}`,
		"bad.json":     `{"transform": []}`,
	}

	// Flags override the file no matter where they appear
	options, err := parseArgs([]string{"--transforms=typescript", "--options=options.json"}, readFileForTest(files))
	test.AssertEqual(t, err, nil)
	test.AssertDeepEqual(t, options.transform.Transforms, []api.TransformKind{api.TransformTypeScript})
	test.AssertEqual(t, options.transform.DisableESTransforms, true)

	if _, err := parseArgs([]string{"--options=bad.json"}, readFileForTest(files)); err == nil {
		t.Fatalf("Expected unknown fields to be an error")
	}
	if _, err := parseArgs([]string{"--options=missing.json"}, readFileForTest(files)); err == nil {
		t.Fatalf("Expected a missing file to be an error")
	}
}

func TestRunStdin(t *testing.T) {
	r := runWithStdin(t, "let x: number = 1;", "--transforms=typescript")
	test.AssertEqual(t, r.code, 0)
	test.AssertEqualWithDiff(t, r.stdout.String(), "let x = 1;")

	r = runWithStdin(t, "let x = ;", "--sourcefile=in.js")
	test.AssertEqual(t, r.code, 1)
	test.AssertDeepEqual(t, r.errors(), []string{"Error transforming in.js: Unexpected \";\""})

	r = runWithStdin(t, "a;", "--sourcemap", "--sourcefile=in.js")
	test.AssertEqual(t, r.code, 0)
	if !strings.HasPrefix(r.stdout.String(), "a;\n//# sourceMappingURL=data:application/json;base64,") {
		t.Fatalf("Unexpected output %q", r.stdout.String())
	}
}

func TestRunUsageError(t *testing.T) {
	r := runWithStdin(t, "", "--bundle")
	test.AssertEqual(t, r.code, 2)
	test.AssertDeepEqual(t, r.errors(), []string{"Invalid flag: \"--bundle\""})
}

func TestRunStdinTerminal(t *testing.T) {
	r := &runForTest{log: logger.NewDeferLog()}
	r.code = run(context.Background(), nil, environment{
		stdin:           strings.NewReader(""),
		stdout:          &r.stdout,
		stdinIsTerminal: true,
		newLog:          func(logger.StderrOptions) logger.Log { return r.log },
	})
	test.AssertEqual(t, r.code, 1)
	test.AssertDeepEqual(t, r.errors(), []string{"No input files were given and stdin is a terminal"})
}

func TestRunFormatTokens(t *testing.T) {
	r := runWithStdin(t, "1;", "--format-tokens=json")
	test.AssertEqual(t, r.code, 0)
	test.AssertEqualWithDiff(t, r.stdout.String(),
		`[{"kind":"number","text":"1","start":0,"end":1,"contextId":-1,"rhsEndIndex":-1},`+
			`{"kind":"\";\"","text":";","start":1,"end":2,"contextId":-1,"rhsEndIndex":-1}]`+"\n")
}

func writeFilesForTest(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, contents := range files {
		if err := writeFileCreatingDirectories(filepath.Join(dir, path), []byte(contents)); err != nil {
			t.Fatal(err)
		}
	}
}

func readOutputForTest(t *testing.T, path string) string {
	t.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeFilesForTest(t, dir, map[string]string{
		"src/a.ts":     "export const a: number = 1;",
		"src/sub/b.ts": "let b: string = 'b';",
	})
	outdir := filepath.Join(dir, "out")

	r := runWithStdin(t, "", "--transforms=typescript", "--jobs=2", "--outdir="+outdir,
		filepath.Join(dir, "src/a.ts"), filepath.Join(dir, "src/sub/b.ts"))
	test.AssertEqual(t, r.code, 0)
	test.AssertEqual(t, len(r.errors()), 0)
	test.AssertEqualWithDiff(t, readOutputForTest(t, filepath.Join(outdir, "a.js")), "export const a = 1;")
	test.AssertEqualWithDiff(t, readOutputForTest(t, filepath.Join(outdir, "sub", "b.js")), "let b = 'b';")
}

func TestRunBatchSourceMap(t *testing.T) {
	dir := t.TempDir()
	writeFilesForTest(t, dir, map[string]string{
		"a.js": "a;",
		"b.js": "b;",
	})
	outdir := filepath.Join(dir, "out")

	r := runWithStdin(t, "", "--sourcemap", "--out-extension=.mjs", "--outdir="+outdir,
		filepath.Join(dir, "a.js"), filepath.Join(dir, "b.js"))
	test.AssertEqual(t, r.code, 0)
	test.AssertEqualWithDiff(t, readOutputForTest(t, filepath.Join(outdir, "a.mjs")),
		"a;\n//# sourceMappingURL=a.mjs.map\n")
	if !strings.Contains(readOutputForTest(t, filepath.Join(outdir, "b.mjs.map")), `"file":"b.mjs"`) {
		t.Fatalf("Expected the source map to name its output file")
	}
}

func TestRunBatchContinuesAfterErrors(t *testing.T) {
	dir := t.TempDir()
	writeFilesForTest(t, dir, map[string]string{
		"bad.js":  "let x = ;",
		"good.js": "try {} catch {}",
	})
	outdir := filepath.Join(dir, "out")
	bad := filepath.Join(dir, "bad.js")

	r := runWithStdin(t, "", "--outdir="+outdir, bad, filepath.Join(dir, "good.js"), filepath.Join(dir, "missing.js"))
	test.AssertEqual(t, r.code, 1)
	test.AssertEqualWithDiff(t, readOutputForTest(t, filepath.Join(outdir, "good.js")), "try {} catch (e) {}")

	errors := r.errors()
	test.AssertEqual(t, len(errors), 2)
	test.AssertEqualWithDiff(t, errors[0], fmt.Sprintf("Could not read %q: open %s: no such file or directory",
		filepath.Join(dir, "missing.js"), filepath.Join(dir, "missing.js")))
	test.AssertEqualWithDiff(t, errors[1], "Error transforming "+bad+": Unexpected \";\"")
}

func TestLowestCommonAncestorDirectory(t *testing.T) {
	check := func(paths []string, expected string) {
		t.Helper()
		test.AssertEqual(t, lowestCommonAncestorDirectory(paths), expected)
	}
	check(nil, "")
	check([]string{"/a/b/c.js"}, "/a/b")
	check([]string{"/a/b/c.js", "/a/b/d/e.js"}, "/a/b")
	check([]string{"/a/bc/c.js", "/a/b/d.js"}, "/a")

	test.AssertEqual(t, outputPath("out", "/a", "/a/b/c.ts", ".js"), filepath.Join("out", "b", "c.js"))
	test.AssertEqual(t, outputPath("out", "/a", "/x/c.ts", ".js"), filepath.Join("out", "c.js"))
}
