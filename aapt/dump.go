package aapt

import (
	"regexp"
	"strings"

	"github.com/l10ntools/apkstrings/locale"
	"github.com/l10ntools/apkstrings/restable"
	"github.com/l10ntools/apkstrings/resxml"
)

// `aapt2 dump resources` line shapes consumed here:
//
//	type string
//	  resource 0x7f0f0010 string/app_name
//	    () "My App"
//	    (fr) "Mon App"
//
// The tool's exact output varies between versions; any line that matches
// neither shape is treated as non-data and skipped.
var (
	reResourceName = regexp.MustCompile(`string/(\S+)`)
	reConfigValue  = regexp.MustCompile(`^\(([^)]*)\)\s*"([^"]*)"`)
)

// ParseResourcesDump parses `aapt2 dump resources` output into a resource
// table. Only the string type section is consumed; an empty configuration
// qualifier denotes the default locale.
func ParseResourcesDump(output string) *restable.Table {
	tbl := restable.New()

	inStringSection := false
	currentKey := ""

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		if strings.Contains(line, "type string") {
			inStringSection = true
			continue
		}
		if inStringSection && strings.HasPrefix(line, "type ") && !strings.Contains(line, "string") {
			inStringSection = false
			continue
		}
		if !inStringSection {
			continue
		}

		if strings.HasPrefix(line, "resource ") && strings.Contains(line, "string/") {
			currentKey = ""
			if m := reResourceName.FindStringSubmatch(line); m != nil {
				currentKey = m[1]
			}
			continue
		}

		if currentKey != "" && strings.Contains(line, `"`) {
			if m := reConfigValue.FindStringSubmatch(line); m != nil {
				tag, value := m[1], m[2]
				if tag == "" {
					tag = locale.Default
				} else {
					tag = locale.Normalize(tag)
				}
				tbl.Set(currentKey, tag, value)
			}
		}
	}

	return tbl
}

// `aapt dump xmltree` announces a string element carrying its name
// attribute, with the text content on a later T: line:
//
//	E: string name="greet" (line=12)
//	  T: "Hi %s"
var (
	reTreeName = regexp.MustCompile(`name="([^"]+)"`)
	reTreeText = regexp.MustCompile(`T: "([^"]*)"`)
)

// ParseXMLTree parses `aapt dump xmltree` output for one strings.xml file
// into a key→text map. Values pass through resxml.Unescape, matching the
// raw-XML path. Lines matching neither shape are non-data and skipped.
func ParseXMLTree(output string) map[string]string {
	result := map[string]string{}

	currentKey := ""
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "E: string") && strings.Contains(line, "name=") {
			if m := reTreeName.FindStringSubmatch(line); m != nil {
				currentKey = m[1]
			}
			continue
		}
		if currentKey != "" && strings.Contains(line, "T:") {
			if m := reTreeText.FindStringSubmatch(line); m != nil {
				result[currentKey] = resxml.Unescape(m[1])
				currentKey = ""
			}
		}
	}

	return result
}
