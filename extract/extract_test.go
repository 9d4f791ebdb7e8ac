package extract

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/l10ntools/apkstrings/restable"
)

// writeAPK builds a minimal APK (ZIP) with the given entries.
func writeAPK(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.apk")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := NewWorkspace()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWorkspace_ExtractRes(t *testing.T) {
	apk := writeAPK(t, map[string][]byte{
		"res/values/strings.xml":    []byte(`<resources><string name="a">A</string></resources>`),
		"res/values-fr/strings.xml": []byte(`<resources><string name="a">Ah</string></resources>`),
		"res/layout/main.xml":       []byte(`<layout/>`),
		"classes.dex":               []byte("dex"),
	})

	ws := newTestWorkspace(t)
	if err := ws.ExtractRes(apk); err != nil {
		t.Fatalf("ExtractRes: %v", err)
	}

	if _, err := os.Stat(filepath.Join(ws.ResDir(), "values", "strings.xml")); err != nil {
		t.Errorf("values/strings.xml not extracted: %v", err)
	}
	// Entries outside res/ stay in the archive.
	if _, err := os.Stat(filepath.Join(ws.Root(), "extracted", "classes.dex")); err == nil {
		t.Error("classes.dex should not be extracted")
	}
}

func TestWorkspace_CloseRemovesEverything(t *testing.T) {
	ws, err := NewWorkspace()
	if err != nil {
		t.Fatal(err)
	}
	root := ws.Root()
	if err := ws.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("workspace %s still exists", root)
	}
	// Close is idempotent.
	if err := ws.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWorkspace_StringFiles(t *testing.T) {
	apk := writeAPK(t, map[string][]byte{
		"res/values/strings.xml":        []byte(`<resources/>`),
		"res/values-fr/strings.xml":     []byte(`<resources/>`),
		"res/values-zh-rCN/strings.xml": []byte(`<resources/>`),
		// values dir without a string table is skipped.
		"res/values-de/colors.xml": []byte(`<resources/>`),
		// non-values dirs are ignored.
		"res/drawable/icon.png": []byte("png"),
	})

	ws := newTestWorkspace(t)
	if err := ws.ExtractRes(apk); err != nil {
		t.Fatal(err)
	}

	files := ws.StringFiles()
	var locales []string
	for _, lf := range files {
		locales = append(locales, lf.Locale)
	}
	want := []string{"default", "fr", "zh-CN"}
	if !reflect.DeepEqual(locales, want) {
		t.Errorf("locales = %v, want %v", locales, want)
	}
	if files[0].ResPath != "res/values/strings.xml" {
		t.Errorf("ResPath = %q", files[0].ResPath)
	}
}

func TestRawXMLStrategy(t *testing.T) {
	binaryXML := append([]byte{0x03, 0x00, 0x08, 0x00}, []byte("compiled")...)
	apk := writeAPK(t, map[string][]byte{
		"res/values/strings.xml":    []byte(`<resources><string name="greet">Hi %s</string></resources>`),
		"res/values-fr/strings.xml": []byte(`<resources><string name="greet">Bonjour %s</string></resources>`),
		// Binary-encoded table: skipped with a parse-failure warning, and
		// the locale is not registered as discovered.
		"res/values-de/strings.xml": binaryXML,
	})

	ws := newTestWorkspace(t)
	s := &RawXMLStrategy{APKPath: apk, Workspace: ws}
	tbl, err := s.Attempt(context.Background())
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}

	if v, _ := tbl.Get("greet", "default"); v != "Hi %s" {
		t.Errorf("default greet = %q", v)
	}
	if v, _ := tbl.Get("greet", "fr"); v != "Bonjour %s" {
		t.Errorf("fr greet = %q", v)
	}
	want := []string{"default", "fr"}
	if got := tbl.Locales(); !reflect.DeepEqual(got, want) {
		t.Errorf("Locales = %v, want %v (de must be skipped)", got, want)
	}
}

func TestRawXMLStrategy_EmptyLocaleStillDiscovered(t *testing.T) {
	apk := writeAPK(t, map[string][]byte{
		"res/values/strings.xml":    []byte(`<resources><string name="k">v</string></resources>`),
		"res/values-ja/strings.xml": []byte(`<resources></resources>`),
	})

	ws := newTestWorkspace(t)
	s := &RawXMLStrategy{APKPath: apk, Workspace: ws}
	tbl, err := s.Attempt(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"default", "ja"}
	if got := tbl.Locales(); !reflect.DeepEqual(got, want) {
		t.Errorf("Locales = %v, want %v", got, want)
	}
	if _, ok := tbl.Get("k", "ja"); ok {
		t.Error("ja should have no text for k")
	}
}

// ---------------------------------------------------------------------------
// Chain tests
// ---------------------------------------------------------------------------

type stubStrategy struct {
	name  string
	tbl   *restable.Table
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }
func (s *stubStrategy) Attempt(context.Context) (*restable.Table, error) {
	s.calls++
	return s.tbl, s.err
}

func populated() *restable.Table {
	tbl := restable.New()
	tbl.Set("k", "default", "v")
	return tbl
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	first := &stubStrategy{name: "first", tbl: populated()}
	second := &stubStrategy{name: "second", tbl: populated()}
	c := &Chain{strategies: []Strategy{first, second}}

	tbl, seen, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tbl.Empty() {
		t.Error("expected populated table")
	}
	if !reflect.DeepEqual(seen, []string{"default"}) {
		t.Errorf("seen = %v", seen)
	}
	if second.calls != 0 {
		t.Error("chain must short-circuit on the first non-empty result")
	}
}

func TestChain_FallsThroughOnFailureAndEmpty(t *testing.T) {
	failing := &stubStrategy{name: "failing", err: errors.New("tool exploded")}
	empty := &stubStrategy{name: "empty", tbl: restable.New()}
	last := &stubStrategy{name: "last", tbl: populated()}
	c := &Chain{strategies: []Strategy{failing, empty, last}}

	tbl, _, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tbl.Empty() || last.calls != 1 {
		t.Error("chain should reach the last strategy")
	}
}

func TestChain_AllEmpty(t *testing.T) {
	c := &Chain{strategies: []Strategy{
		&stubStrategy{name: "a", err: errors.New("boom")},
		&stubStrategy{name: "b", tbl: restable.New()},
	}}

	_, _, err := c.Run(context.Background())
	if !errors.Is(err, ErrEmptyExtraction) {
		t.Errorf("err = %v, want ErrEmptyExtraction", err)
	}
}

// A locale whose strings.xml cannot be decoded is absent from the table
// but still present in the seen set (its directory was scanned).
func TestChain_SeenIncludesUndecodableLocales(t *testing.T) {
	binaryXML := append([]byte{0x03, 0x00, 0x08, 0x00}, []byte("compiled")...)
	apk := writeAPK(t, map[string][]byte{
		"res/values/strings.xml":    []byte(`<resources><string name="greet">Hi %s</string></resources>`),
		"res/values-de/strings.xml": binaryXML,
	})

	ws := newTestWorkspace(t)
	c := NewChain(nil, apk, ws)
	tbl, seen, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Locales(); !reflect.DeepEqual(got, []string{"default"}) {
		t.Errorf("table locales = %v", got)
	}
	if !reflect.DeepEqual(seen, []string{"de", "default"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestChain_Idempotent(t *testing.T) {
	apk := writeAPK(t, map[string][]byte{
		"res/values/strings.xml":    []byte(`<resources><string name="greet">Hi %s</string></resources>`),
		"res/values-fr/strings.xml": []byte(`<resources><string name="greet">Bonjour %s</string></resources>`),
	})

	run := func() ([]string, []string) {
		ws := newTestWorkspace(t)
		c := NewChain(nil, apk, ws)
		tbl, _, err := c.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return tbl.Keys(), tbl.Locales()
	}

	k1, l1 := run()
	k2, l2 := run()
	if !reflect.DeepEqual(k1, k2) || !reflect.DeepEqual(l1, l2) {
		t.Errorf("runs differ: %v/%v vs %v/%v", k1, l1, k2, l2)
	}
}
