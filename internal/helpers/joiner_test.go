package helpers_test

import (
	"testing"

	"github.com/tokenstrip/tokenstrip/internal/helpers"
	"github.com/tokenstrip/tokenstrip/internal/test"
)

func TestJoinerOffsets(t *testing.T) {
	j := helpers.Joiner{}
	test.AssertEqual(t, j.AddString("\"use strict\";"), uint32(0))
	test.AssertEqual(t, j.AddBytes([]byte(" a;")), uint32(13))
	test.AssertEqual(t, j.AddString(""), uint32(16))
	test.AssertEqual(t, j.AddString("\n"), uint32(16))
	test.AssertEqual(t, j.LastByte(), byte('\n'))
	test.AssertEqual(t, j.Length(), uint32(17))
	test.AssertEqual(t, string(j.Done()), "\"use strict\"; a;\n")
}

func TestJoinerSingleBytes(t *testing.T) {
	j := helpers.Joiner{}
	data := []byte("abc")
	j.AddBytes(data)
	out := j.Done()
	test.AssertEqual(t, &out[0], &data[0])
}
