package stream

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("tty gone")
}

func TestConsoleSource_Next(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		attempts int
		expected []int
		err      error
		inputErr bool
		prompts  int
	}{
		{
			name:     "well formed",
			input:    "61 10\n0\n",
			expected: []int{61, 10, 0},
			prompts:  3,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\t  42   \n",
			expected: []int{42},
			prompts:  1,
		},
		{
			name:     "malformed token is asked again",
			input:    "abc 5",
			expected: []int{5},
			prompts:  2,
		},
		{
			name:    "eof",
			input:   "",
			err:     ErrSourceClosed,
			prompts: 1,
		},
		{
			name:    "eof after malformed token",
			input:   "x",
			err:     ErrSourceClosed,
			prompts: 2,
		},
		{
			name:     "too many malformed tokens",
			input:    "a b c 4",
			attempts: 3,
			inputErr: true,
			prompts:  3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(tt *testing.T) {
			var out bytes.Buffer
			opts := []ConsoleOption{}
			if tc.attempts > 0 {
				opts = append(opts, WithInputAttempts(tc.attempts))
			}
			src := NewConsoleSource(strings.NewReader(tc.input), &out, opts...)

			var got []int
			var err error
			for i := 0; i < len(tc.expected); i++ {
				var v int
				v, err = src.Next(context.Background())
				if err != nil {
					break
				}
				got = append(got, v)
			}
			if len(tc.expected) == 0 {
				_, err = src.Next(context.Background())
			}

			if tc.inputErr {
				assert.True(tt, IsInputError(err), "expected an input error got : %v", err)
			} else {
				assert.Equal(tt, tc.err, err)
				assert.Equal(tt, tc.expected, got)
			}
			assert.Equal(tt, tc.prompts, strings.Count(out.String(), DefaultPrompt))
		})
	}
}

func TestConsoleSource_ReadFailure(t *testing.T) {
	src := NewConsoleSource(failingReader{}, nil)
	_, err := src.Next(context.Background())

	assert.Error(t, err)
	assert.NotEqual(t, ErrSourceClosed, err)
	assert.False(t, IsInputError(err))
}

func TestConsoleSource_DrivesEventLoop(t *testing.T) {
	var out bytes.Buffer
	src := NewConsoleSource(strings.NewReader("61\n10\n0\n"), &out, WithPrompt("> "))

	r := &recorder{}
	assert.NoError(t, RunEventLoop(context.Background(), src, r))
	assert.Equal(t, []int{61, 10, 0}, r.seen)
	assert.Equal(t, "> > > ", out.String())
}

func TestInputError(t *testing.T) {
	_, err := parseValue(" 1x ")
	var ie *InputError
	if assert.True(t, errors.As(err, &ie)) {
		assert.Equal(t, "1x", ie.Token)
		assert.Contains(t, ie.Error(), `"1x"`)
		assert.NotNil(t, errors.Unwrap(ie))
	}
}
