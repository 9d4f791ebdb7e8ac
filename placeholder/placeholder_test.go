package placeholder

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"no placeholders", "plain text", nil},
		{"simple string", "Hello %s", []string{"%s"}},
		{"simple int", "Count: %d", []string{"%d"}},
		{"numbered", "Hello %1$s, you have %2$d", []string{"%1$s", "%2$d"}},
		{"numbered before simple", "%1$s and %d", []string{"%1$s", "%d"}},
		{"adjacent simple", "%s%d", []string{"%s", "%d"}},
		// %s followed by a digit is not counted.
		{"simple followed by digit", "%s2 items", nil},
		// %f and friends are not recognized placeholders.
		{"unsupported specifier", "ratio %f", nil},
		// Malformed text that matches neither pattern is content, not a token.
		{"bare percent", "100% done", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.text); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Extract(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		def      string
		other    string
		want     bool
	}{
		{"both empty", "", "", true},
		{"default empty", "", "Bonjour %s", false},
		{"other empty", "Hi %s", "", false},
		{"identical", "Hi %s", "Salut %s", true},
		{"reordered numbered", "Hello %1$s, you have %2$d", "%2$d için %1$s merhaba", true},
		{"type mismatch", "Hello %s", "Merhaba %d", false},
		{"count mismatch", "%s %s", "%s", false},
		// Numbered and simple forms of the same type are equivalent.
		{"numbered vs simple", "%1$s items", "%s elementos", true},
		{"no placeholders either side", "Hello", "Bonjour", true},
		// Unsupported specifiers are ignored on both sides.
		{"unsupported ignored", "%s at %f", "%f bei %s", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compare(tc.def, tc.other); got != tc.want {
				t.Errorf("Compare(%q, %q) = %v, want %v", tc.def, tc.other, got, tc.want)
			}
		})
	}
}
