package runeio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	for _, tc := range []struct {
		in, out string
	}{
		{"plain", "plain"},
		{`a\nb`, "a\nb"},
		{`\q\t\\`, "\"\t\\"},
		{`\e\a\b\f\r`, "\\\a\b\f\r"},
		{`\z`, `\z`},
		{`end\`, `end\`},
	} {
		assert.Equal(t, tc.out, Unescape(tc.in), "Unescape(%q)", tc.in)
	}
}

func TestVisible(t *testing.T) {
	assert.Equal(t, "a^[b\n^@", Visible("a\x1bb\n\x00"))
	assert.Equal(t, "", CaretForm('x'))
	assert.Equal(t, "^?", CaretForm(0x7f))
}
