package logger_test

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/logger"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func TestComputeLineAndColumn(t *testing.T) {
	contents := "ab\ncd\r\nef\rgh"
	check := func(offset int, line int, column int, lineText string) {
		t.Helper()
		l, c, start, end := logger.ComputeLineAndColumn(contents, offset)
		test.AssertEqual(t, l, line)
		test.AssertEqual(t, c, column)
		test.AssertEqual(t, contents[start:end], lineText)
	}
	check(0, 0, 0, "ab")
	check(1, 0, 1, "ab")
	check(4, 1, 1, "cd")
	check(7, 2, 0, "ef")
	check(11, 3, 1, "gh")
	check(100, 3, 2, "gh")
}

func TestMsgString(t *testing.T) {
	source := logger.Source{PrettyPath: "file.ts", Contents: "let x = 1;\nlet y = @;\n"}
	log := logger.NewDeferLog()
	log.AddRangeError(&source, logger.Range{Loc: logger.Loc{Start: 19}, Len: 1}, "Unexpected \"@\"")
	msgs := log.Done()
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Location.Line, 2)
	test.AssertEqual(t, msgs[0].Location.Column, 8)

	text := msgs[0].String(logger.StderrOptions{IncludeSource: true}, logger.TerminalInfo{})
	test.AssertEqualWithDiff(t, text, "file.ts:2:8: error: Unexpected \"@\"\nlet y = @;\n        ^\n")
}

func TestDeferLogSortsMessages(t *testing.T) {
	source := logger.Source{PrettyPath: "a.js", Contents: "a\nb\n"}
	log := logger.NewDeferLog()
	log.AddWarning(&source, logger.Loc{Start: 2}, "second")
	log.AddError(&source, logger.Loc{Start: 0}, "first")
	test.AssertEqual(t, log.HasErrors(), true)
	msgs := log.Done()
	test.AssertEqual(t, msgs[0].Text, "first")
	test.AssertEqual(t, msgs[1].Text, "second")
}
