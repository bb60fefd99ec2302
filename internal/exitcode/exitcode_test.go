package exitcode_test

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/multierr"

	"github.com/tokenstrip/tokenstrip/internal/exitcode"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New(""), 4)
	wrapped := fmt.Errorf("wrapping: %w", base)

	testCases := map[string]struct {
		error
		int
	}{
		"nil":      {nil, exitcode.Success},
		"default":  {errors.New(""), exitcode.Failure},
		"usage":    {exitcode.Set(errors.New(""), exitcode.Usage), exitcode.Usage},
		"wrapped":  {wrapped, 4},
		"combined": {multierr.Combine(errors.New("a"), exitcode.Set(errors.New("b"), exitcode.Usage)), exitcode.Usage},
		"failures": {multierr.Combine(errors.New("a"), errors.New("b")), exitcode.Failure},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.error
			want := tc.int
			got := exitcode.Get(err)
			if got != want {
				t.Errorf("%v: %d != %d", err, got, want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if exitcode.Set(nil, exitcode.Usage) != nil {
			t.Errorf("expected nil")
		}
	})
	t.Run("same-message", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, exitcode.Usage)
		got := err.Error()
		want := coder.Error()
		if got != want {
			t.Errorf("error message %q != %q", got, want)
		}
	})
	t.Run("keep-chain", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 3)

		if !errors.Is(coder, err) {
			t.Errorf("broken chain: %v is not %v", coder, err)
		}
	})
}
