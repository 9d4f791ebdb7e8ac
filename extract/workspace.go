// Package extract obtains a populated resource table from an APK by trying
// a fixed chain of strategies: the compiled resource-table dump (aapt2),
// a per-file binary-XML dump (aapt), and finally a raw textual XML parse.
// The chain stops at the first strategy that yields a non-empty table.
package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/l10ntools/apkstrings/locale"
)

// Workspace is the scoped temporary directory for one extraction run.
// It is created at run start and must be removed on every exit path;
// callers defer Close immediately after New.
type Workspace struct {
	root      string
	extracted bool
}

// NewWorkspace creates a fresh temporary workspace.
func NewWorkspace() (*Workspace, error) {
	root, err := os.MkdirTemp("", "apkstrings-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{root: root}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// ResDir returns the directory holding the extracted res/ tree.
func (w *Workspace) ResDir() string {
	return filepath.Join(w.root, "extracted", "res")
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	if w.root == "" {
		return nil
	}
	err := os.RemoveAll(w.root)
	w.root = ""
	return err
}

// ExtractRes unpacks all res/ entries of the APK into the workspace.
// Entries that fail to extract are skipped; the strategies that need a
// file will simply not find it. Repeated calls are no-ops.
func (w *Workspace) ExtractRes(apkPath string) error {
	if w.extracted {
		return nil
	}

	r, err := zip.OpenReader(apkPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", apkPath, err)
	}
	defer r.Close()

	destRoot := filepath.Join(w.root, "extracted")
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "res/") || f.FileInfo().IsDir() {
			continue
		}
		if err := extractEntry(f, destRoot); err != nil {
			continue
		}
	}

	w.extracted = true
	return nil
}

// extractEntry writes one archive entry under destRoot, refusing paths
// that would escape it.
func extractEntry(f *zip.File, destRoot string) error {
	dest := filepath.Join(destRoot, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(dest, filepath.Clean(destRoot)+string(os.PathSeparator)) {
		return fmt.Errorf("entry %s escapes workspace", f.Name)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// LocaleFile locates one locale's strings.xml both on disk (extracted) and
// inside the archive (for the xmltree dump).
type LocaleFile struct {
	// Path is the extracted file on disk.
	Path string
	// ResPath is the archive-relative path ("res/values-fr/strings.xml").
	ResPath string
	// Locale is the normalized locale tag.
	Locale string
}

// StringFiles scans the first-level values* directories under the
// extracted res/ root and returns each strings.xml found, with its
// normalized locale tag. Directories without a strings.xml are skipped.
// The result is sorted by directory name for deterministic runs.
func (w *Workspace) StringFiles() []LocaleFile {
	entries, err := os.ReadDir(w.ResDir())
	if err != nil {
		return nil
	}

	var files []LocaleFile
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "values") {
			continue
		}
		path := filepath.Join(w.ResDir(), entry.Name(), "strings.xml")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		files = append(files, LocaleFile{
			Path:    path,
			ResPath: "res/" + entry.Name() + "/strings.xml",
			Locale:  locale.FromValuesDir(entry.Name()),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ResPath < files[j].ResPath })
	return files
}
