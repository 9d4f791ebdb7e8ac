package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadLanguageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "languages.txt")
	content := `# business locales
default
zh-CN

en
  ja
# trailing comment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := LoadLanguageFile(path)
	want := []string{"default", "zh-CN", "en", "ja"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadLanguageFile = %v, want %v", got, want)
	}
}

func TestLoadLanguageFile_MissingIsNoFilter(t *testing.T) {
	if got := LoadLanguageFile(filepath.Join(t.TempDir(), "absent.txt")); got != nil {
		t.Errorf("missing file should disable the filter, got %v", got)
	}
}

func TestLoadLanguageFile_EmptyIsNoFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := LoadLanguageFile(path); got != nil {
		t.Errorf("empty file should disable the filter, got %v", got)
	}
}

func TestParseLanguageList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"default,zh-rCN,en,ja", []string{"default", "zh-rCN", "en", "ja"}},
		{" default , fr ", []string{"default", "fr"}},
		{",,", nil},
		{"", nil},
	}
	for _, tc := range tests {
		if got := ParseLanguageList(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseLanguageList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `tools_dir: /opt/android-tools
languages:
  - default
  - fr
format: csv
skip_tools: true
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(dir)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if f.ToolsDir != "/opt/android-tools" || f.Format != "csv" || !f.SkipTools {
		t.Errorf("File = %+v", f)
	}
	if !reflect.DeepEqual(f.Languages, []string{"default", "fr"}) {
		t.Errorf("Languages = %v", f.Languages)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	f, err := LoadFile(t.TempDir())
	if err != nil || f != nil {
		t.Errorf("LoadFile on missing file = %+v, %v; want nil, nil", f, err)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("tools_dir: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(dir); err == nil {
		t.Error("malformed yaml should error")
	}
}
