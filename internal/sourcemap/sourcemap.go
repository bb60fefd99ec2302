package sourcemap

// Transforms never move code between lines, so every generated line maps to
// the same line of the source. Each token that was written gets one mapping
// segment from its output column to its original column.

import (
	"bytes"
	"unicode/utf8"

	"github.com/go-json-experiment/json"
	"github.com/tokenstrip/tokenstrip/internal/js_ast"
	"github.com/tokenstrip/tokenstrip/internal/logger"
)

type Input struct {
	Source           logger.Source
	SourcePath       string
	CompiledFilename string

	// The generated code
	Output []byte

	// The output offset of each token or -1 for tokens that weren't written,
	// in the same order as the tokens
	Tokens   []js_ast.Token
	Mappings []int32
}

// The keys are in the order that other tools write them
type sourceMapJSON struct {
	Version  int      `json:"version"`
	File     string   `json:"file"`
	Names    []string `json:"names"`
	Sources  []string `json:"sources"`
	Mappings string   `json:"mappings"`
}

type Mapping struct {
	GeneratedLine   int32 // 0-based
	GeneratedColumn int32 // 0-based count of UTF-16 code units

	OriginalLine   int32 // 0-based
	OriginalColumn int32 // 0-based count of UTF-16 code units
}

func Generate(input Input) []byte {
	mappings := ComputeMappings(input)
	encoded, err := json.Marshal(sourceMapJSON{
		Version:  3,
		File:     input.CompiledFilename,
		Names:    []string{},
		Sources:  []string{input.SourcePath},
		Mappings: string(EncodeMappings(mappings)),
	})
	if err != nil {
		// Every field is a string or a slice of strings
		panic(err.Error())
	}
	return encoded
}

// Returns the mappings sorted by generated position. Every generated line
// that doesn't start with a token gets a mapping for its first column so that
// code inserted at the start of a line still points somewhere.
func ComputeMappings(input Input) []Mapping {
	tokens := input.Tokens
	code := input.Output
	sourceColumns := computeSourceColumns(input.Source.Contents, tokens)

	// Tokens that weren't written are skipped over
	tokenIndex := 0
	nextMappedToken := func() {
		for tokenIndex < len(tokens) && input.Mappings[tokenIndex] == -1 {
			tokenIndex++
		}
	}
	nextMappedToken()

	var result []Mapping
	add := func(line int32, generatedColumn int32, originalColumn int32) {
		// Consecutive segments on a line that point at the same place carry no
		// extra information
		if n := len(result); n > 0 {
			if prev := result[n-1]; prev.GeneratedLine == line && prev.OriginalLine == line && prev.OriginalColumn == originalColumn {
				return
			}
		}
		result = append(result, Mapping{
			GeneratedLine:   line,
			GeneratedColumn: generatedColumn,
			OriginalLine:    line,
			OriginalColumn:  originalColumn,
		})
	}

	line := int32(0)
	column := int32(0)
	atLineStart := true
	for i := 0; i <= len(code); {
		// Removed tokens are written as empty text, so several tokens can start
		// at the same offset. Only the first one is mapped.
		mappedHere := false
		for tokenIndex < len(tokens) && int(input.Mappings[tokenIndex]) <= i {
			if int(input.Mappings[tokenIndex]) == i && !mappedHere {
				add(line, column, sourceColumns[tokenIndex])
				atLineStart = false
				mappedHere = true
			}
			tokenIndex++
			nextMappedToken()
		}
		if atLineStart {
			add(line, 0, 0)
			atLineStart = false
		}
		if i == len(code) {
			break
		}

		c, width := utf8.DecodeRune(code[i:])
		i += width
		switch {
		case c == '\n':
			line++
			column = 0
			atLineStart = i < len(code)
		case c >= 0x10000:
			column += 2
		default:
			column++
		}
	}
	return result
}

// The column of each token's start within its line, in UTF-16 code units
func computeSourceColumns(contents string, tokens []js_ast.Token) []int32 {
	columns := make([]int32, len(tokens))
	column := int32(0)
	tokenIndex := 0
	for i := 0; i <= len(contents) && tokenIndex < len(tokens); {
		for tokenIndex < len(tokens) && int(tokens[tokenIndex].Start) <= i {
			columns[tokenIndex] = column
			tokenIndex++
		}
		if i == len(contents) {
			break
		}
		c, width := utf8.DecodeRuneInString(contents[i:])
		i += width
		switch {
		case c == '\n':
			column = 0
		case c >= 0x10000:
			column += 2
		default:
			column++
		}
	}
	return columns
}

// Mappings must be sorted by generated position. There is only one source
// and there are no names.
func EncodeMappings(mappings []Mapping) []byte {
	var encoded []byte
	prevGeneratedLine := int32(0)
	prevGeneratedColumn := int32(0)
	prevOriginalLine := int32(0)
	prevOriginalColumn := int32(0)

	for i, m := range mappings {
		if m.GeneratedLine != prevGeneratedLine {
			for prevGeneratedLine < m.GeneratedLine {
				encoded = append(encoded, ';')
				prevGeneratedLine++
			}
			prevGeneratedColumn = 0
		} else if i > 0 {
			encoded = append(encoded, ',')
		}

		encoded = encodeVLQ(encoded, int(m.GeneratedColumn-prevGeneratedColumn))
		encoded = encodeVLQ(encoded, 0)
		encoded = encodeVLQ(encoded, int(m.OriginalLine-prevOriginalLine))
		encoded = encodeVLQ(encoded, int(m.OriginalColumn-prevOriginalColumn))

		prevGeneratedColumn = m.GeneratedColumn
		prevOriginalLine = m.OriginalLine
		prevOriginalColumn = m.OriginalColumn
	}
	return encoded
}

// The inverse of "EncodeMappings"
func DecodeMappings(encoded []byte) ([]Mapping, bool) {
	var mappings []Mapping
	var generatedLine, generatedColumn, originalLine, originalColumn int32

	for i := 0; i < len(encoded); {
		switch encoded[i] {
		case ';':
			generatedLine++
			generatedColumn = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		var fields [4]int
		for f := range fields {
			if i >= len(encoded) || bytes.IndexByte(base64, encoded[i]) < 0 {
				return nil, false
			}
			fields[f], i = DecodeVLQ(encoded, i)
		}
		if fields[1] != 0 {
			return nil, false
		}
		generatedColumn += int32(fields[0])
		originalLine += int32(fields[2])
		originalColumn += int32(fields[3])
		mappings = append(mappings, Mapping{
			GeneratedLine:   generatedLine,
			GeneratedColumn: generatedColumn,
			OriginalLine:    originalLine,
			OriginalColumn:  originalColumn,
		})
	}
	return mappings, true
}

var base64 = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

// A single base 64 digit can contain 6 bits of data. For the base 64 variable
// length quantities we use in the source map format, the first bit is the sign,
// the next four bits are the actual value, and the 6th bit is the continuation
// bit. The continuation bit tells us whether there are more digits in this
// value following this digit.
//
//	Continuation
//	|    Sign
//	|    |
//	V    V
//	101011
func encodeVLQ(encoded []byte, value int) []byte {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		encoded = append(encoded, base64[digit])
		if vlq == 0 {
			return encoded
		}
	}
}

// Returns the value and the index after it
func DecodeVLQ(encoded []byte, start int) (int, int) {
	shift := 0
	vlq := 0
	for start < len(encoded) {
		index := bytes.IndexByte(base64, encoded[start])
		if index < 0 {
			break
		}
		vlq |= (index & 31) << shift
		start++
		shift += 5
		if (index & 32) == 0 {
			break
		}
	}

	value := vlq >> 1
	if (vlq & 1) != 0 {
		value = -value
	}
	return value, start
}
