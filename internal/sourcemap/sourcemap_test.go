package sourcemap

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func TestVLQ(t *testing.T) {
	for _, value := range []int{0, 1, -1, 15, 16, -16, 1000, -123456} {
		encoded := encodeVLQ(nil, value)
		decoded, end := DecodeVLQ(encoded, 0)
		test.AssertEqual(t, decoded, value)
		test.AssertEqual(t, end, len(encoded))
	}
	test.AssertEqual(t, string(encodeVLQ(nil, 16)), "gB")
}

func tokensForTest(spans ...[2]int32) []js_ast.Token {
	tokens := make([]js_ast.Token, len(spans))
	for i, span := range spans {
		tokens[i] = js_ast.Token{Start: span[0], End: span[1]}
	}
	return tokens
}

func TestUnchangedOutput(t *testing.T) {
	contents := "a;\nb;"
	input := Input{
		Source:   test.SourceForTest(contents),
		Output:   []byte(contents),
		Tokens:   tokensForTest([2]int32{0, 1}, [2]int32{1, 2}, [2]int32{3, 4}, [2]int32{4, 5}),
		Mappings: []int32{0, 1, 3, 4},
	}
	test.AssertEqualWithDiff(t, string(EncodeMappings(ComputeMappings(input))), "AAAA,CAAC;AACD,CAAC")
}

func TestInsertedAndRemovedCode(t *testing.T) {
	// "x: T;" became "_x = x;" where the type was removed and a prefix was
	// inserted before the first token
	contents := "x: T;"
	input := Input{
		Source:   test.SourceForTest(contents),
		Output:   []byte("_x = x;"),
		Tokens:   tokensForTest([2]int32{0, 1}, [2]int32{1, 2}, [2]int32{3, 4}, [2]int32{4, 5}),
		Mappings: []int32{5, 6, 6, 6},
	}
	test.AssertDeepEqual(t, ComputeMappings(input), []Mapping{
		{GeneratedLine: 0, GeneratedColumn: 0, OriginalLine: 0, OriginalColumn: 0},
		{GeneratedLine: 0, GeneratedColumn: 6, OriginalLine: 0, OriginalColumn: 1},
	})
}

func TestUnwrittenTokensAreSkipped(t *testing.T) {
	contents := "a b"
	input := Input{
		Source:   test.SourceForTest(contents),
		Output:   []byte(" b"),
		Tokens:   tokensForTest([2]int32{0, 1}, [2]int32{2, 3}),
		Mappings: []int32{-1, 1},
	}
	test.AssertDeepEqual(t, ComputeMappings(input), []Mapping{
		{GeneratedLine: 0, GeneratedColumn: 0, OriginalLine: 0, OriginalColumn: 0},
		{GeneratedLine: 0, GeneratedColumn: 1, OriginalLine: 0, OriginalColumn: 2},
	})
}

func TestUTF16Columns(t *testing.T) {
	contents := "'😀';x"
	input := Input{
		Source:   test.SourceForTest(contents),
		Output:   []byte(contents),
		Tokens:   tokensForTest([2]int32{0, 6}, [2]int32{6, 7}, [2]int32{7, 8}),
		Mappings: []int32{0, 6, 7},
	}
	mappings := ComputeMappings(input)
	test.AssertEqual(t, len(mappings), 3)
	test.AssertEqual(t, mappings[1].GeneratedColumn, int32(4))
	test.AssertEqual(t, mappings[2].OriginalColumn, int32(5))
}

func TestDecodeMappings(t *testing.T) {
	mappings := []Mapping{
		{GeneratedLine: 0, GeneratedColumn: 3, OriginalLine: 0, OriginalColumn: 1},
		{GeneratedLine: 2, GeneratedColumn: 0, OriginalLine: 2, OriginalColumn: 0},
		{GeneratedLine: 2, GeneratedColumn: 40, OriginalLine: 2, OriginalColumn: 9},
	}
	decoded, ok := DecodeMappings(EncodeMappings(mappings))
	test.AssertEqual(t, ok, true)
	test.AssertDeepEqual(t, decoded, mappings)

	_, ok = DecodeMappings([]byte("A!"))
	test.AssertEqual(t, ok, false)
}

func TestGenerateJSON(t *testing.T) {
	contents := "a"
	json := Generate(Input{
		Source:           test.SourceForTest(contents),
		SourcePath:       "input.js",
		CompiledFilename: "output.js",
		Output:           []byte(contents),
		Tokens:           tokensForTest([2]int32{0, 1}),
		Mappings:         []int32{0},
	})
	test.AssertEqualWithDiff(t, string(json),
		`{"version":3,"file":"output.js","names":[],"sources":["input.js"],"mappings":"AAAA"}`)
}
