package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trims", "  hello \n", "hello"},
		{"collapses blank lines", "Hi Emma,\n\n\nHere you go.", "Hi Emma,\nHere you go."},
		{"blank line with spaces", "one\n   \n two", "one\n two"},
		{"indented bullets", "Items:\n   - a\n\t- b", "Items:\n- a\n- b"},
		{"bullets after blank line", "Items:\n\n- a\n\n- b", "Items:\n- a\n- b"},
		{"numbered items", "Steps:\n 1. a\n2. b\n  10. c", "Steps:\n1. a\n1. b\n1. c"},
		{"crlf blank lines", "a\r\n\r\nb", "a\r\nb"},
		{"crlf bullets", "Items:\r\n  - a\r\n\r\n- b", "Items:\r\n- a\r\n- b"},
		{"vertical tab blank line", "one\n\v\ntwo", "one\ntwo"},
		{"vertical tab indent", "Items:\n\v- a\n\v 2. b", "Items:\n- a\n1. b"},
		{"trailing vertical tab", "done\v", "done"},
		{"bold untouched", "**Total amount**: €30.00", "**Total amount**: €30.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Normalize(got))
		})
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	for _, seed := range []string{
		"",
		"Hi\n\n\n- a\n  - b\n\n3. c",
		"\n \n 12. x \n",
		"a\r\n\r\nb",
		"x\n\v\n- y\v",
		"  - leading bullet",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}
