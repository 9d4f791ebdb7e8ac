// Package config resolves run options for an extraction run.
//
// Precedence, lowest to highest: built-in defaults, apkstrings.yaml in the
// working directory, environment variables (a .env file is honored), then
// command-line flags. The locale allow-list can come from a plain-text
// file (one tag per line) or an inline comma-separated list; the inline
// list wins.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file.
const FileName = "apkstrings.yaml"

// Options holds the fully resolved settings for one run.
type Options struct {
	// ToolsDir is the directory containing the aapt/ tool subdirectory.
	ToolsDir string
	// AllowList is the ordered business locale list; nil means no filter.
	AllowList []string
	// OutputPath is the report file to write.
	OutputPath string
	// Format is "csv" or "excel".
	Format string
	// SkipTools disables the aapt strategies and uses raw XML parsing only.
	SkipTools bool
}

// File is the apkstrings.yaml schema.
type File struct {
	ToolsDir  string   `yaml:"tools_dir,omitempty"`
	Languages []string `yaml:"languages,omitempty"`
	Output    string   `yaml:"output,omitempty"`
	Format    string   `yaml:"format,omitempty"`
	SkipTools bool     `yaml:"skip_tools,omitempty"`
}

// LoadFile reads apkstrings.yaml from dir. A missing file is not an
// error; it returns nil.
func LoadFile(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// LoadEnv loads a .env file when present and returns environment-provided
// defaults. Recognized variables: APKSTRINGS_TOOLS_DIR.
func LoadEnv() *File {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return &File{
		ToolsDir: os.Getenv("APKSTRINGS_TOOLS_DIR"),
	}
}

// LoadLanguageFile parses a locale allow-list file: one tag per line,
// blank lines and lines starting with '#' ignored. A missing or empty
// file yields nil (no filter) with a warning, never a fatal error.
func LoadLanguageFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("cannot read language config, filter disabled")
		return nil
	}
	defer f.Close()

	var tags []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tags = append(tags, line)
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("error reading language config, filter disabled")
		return nil
	}
	if len(tags) == 0 {
		log.Warn().Str("path", path).Msg("language config is empty, filter disabled")
		return nil
	}
	return tags
}

// ParseLanguageList splits an inline comma-separated locale list,
// trimming whitespace and dropping empty items.
func ParseLanguageList(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
