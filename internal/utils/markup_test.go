package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "What is 2+2?", "What is 2+2?"},
		{"bold", "<b>bold</b> text", "bold text"},
		{"nested", "<div><p>one</p><p>two</p></div>", "onetwo"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"script in body kept", "<p>a<script>x</script></p>", "ax"},
		{"head content dropped", "<title>t</title>body", "body"},
		{"comment dropped", "a<!-- hidden -->b", "ab"},
		{"lone angle bracket", "1 < 2", "1 < 2"},
		{"leading whitespace", "  spaced", "spaced"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripTags(tc.in))
		})
	}
}

func TestStripTagsIdempotentOnPlainText(t *testing.T) {
	for _, s := range []string{
		"hello world",
		"What is 2+2?",
		"line one\nline two",
		"3 > 2",
	} {
		once := StripTags(s)
		assert.Equal(t, s, once)
		assert.Equal(t, once, StripTags(once))
	}
}
