// Package resxml parses textual Android strings.xml sources into key→text
// maps and reverses resource text escaping.
//
// Only top-level <string> elements with a non-empty name attribute are
// considered. Inline markup inside a value (e.g. a <b> span in the middle
// of a sentence) is flattened: the stored text is the concatenation, in
// document order, of the element's direct text, each child's text, and
// each child's tail text.
//
// Files inside an APK are usually binary-encoded (AAPT output), which this
// package cannot decode. Parse detects the binary magic prefix and reports
// a parse failure instead of feeding garbage to the XML decoder; callers
// skip the locale and continue.
package resxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrParse marks a resource source that could not be decoded as textual
// XML. It covers both malformed XML and detected binary encodings; the
// caller recovers by skipping the affected locale.
var ErrParse = errors.New("strings.xml parse failure")

// Binary-format magic prefixes emitted by AAPT.
var (
	binaryXMLMagic     = []byte{0x03, 0x00, 0x08, 0x00} // compiled XML chunk
	resourceTableMagic = []byte{0x02, 0x00, 0x0C, 0x00} // resources.arsc table
)

// IsBinary reports whether data starts with a known binary resource magic.
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, binaryXMLMagic) || bytes.HasPrefix(data, resourceTableMagic)
}

// Unescape converts raw resource text to the user-visible string.
//
// XML entities are decoded first, then Android string escapes. The escape
// order is fixed: the two-character sequences (\", \', \n, \t) must be
// rewritten before backslash collapsing, otherwise a literal \\n would
// turn into a newline instead of a backslash followed by n.
// The result is trimmed of leading and trailing whitespace.
func Unescape(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&apos;", "'")

	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, "'")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\\`, `\`)

	return strings.TrimSpace(s)
}

// ParseFile reads and parses a strings.xml file from disk.
func ParseFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{}, fmt.Errorf("reading %s: %w", path, err)
	}
	res, err := Parse(data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Parse parses textual strings.xml data into a key→text map. Malformed or
// binary-encoded input yields an empty map and an error wrapping ErrParse;
// it never panics or aborts the surrounding run.
func Parse(data []byte) (map[string]string, error) {
	result := map[string]string{}

	if IsBinary(data) {
		return result, fmt.Errorf("%w: binary-encoded resource", ErrParse)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return map[string]string{}, fmt.Errorf("%w: %v", ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				sawRoot = true
				continue
			}
			if depth != 2 {
				continue
			}
			if t.Name.Local != "string" {
				if err := dec.Skip(); err != nil {
					return map[string]string{}, fmt.Errorf("%w: %v", ErrParse, err)
				}
				depth--
				continue
			}
			name := attrValue(t, "name")
			text, err := collectText(dec)
			if err != nil {
				return map[string]string{}, fmt.Errorf("%w: reading <string name=%q>: %v", ErrParse, name, err)
			}
			depth--
			// Entries without a name are skipped silently.
			if name == "" {
				continue
			}
			result[name] = Unescape(text)

		case xml.EndElement:
			depth--
		}
	}

	if !sawRoot {
		return map[string]string{}, fmt.Errorf("%w: no root element", ErrParse)
	}

	return result, nil
}

// attrValue returns the value of the named attribute, or "".
func attrValue(elem xml.StartElement, name string) string {
	for _, attr := range elem.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// collectText reads until the matching close tag and concatenates every
// character-data token in document order. Because direct text, child text,
// and child tail text all surface as CharData events, this reconstructs
// text broken up by inline markup while dropping the markup itself.
func collectText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}
