package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":            {`{"a":1}`, `{"a":1}`},
		"padded":           {"\n  [1,2]  \n", "[1,2]"},
		"json fence":       {"```json\n{\"a\":1}\n```", `{"a":1}`},
		"bare fence":       {"```\n[1]\n```\n", "[1]"},
		"unterminated":     {"```json", "```json"},
		"fence text after": {"```\nsummary text```", "summary text"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
