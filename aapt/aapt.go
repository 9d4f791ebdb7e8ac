// Package aapt wraps the Android SDK aapt and aapt2 command-line tools.
//
// Only two dump modes are consumed: `aapt2 dump resources` for the compiled
// resource table of a whole APK, and `aapt dump xmltree` for the decoded
// node tree of a single binary XML file inside the APK. Each invocation is
// synchronous and bounded by a per-call timeout; a timeout is reported the
// same way as a non-zero exit so callers fall through to the next
// extraction strategy instead of crashing.
package aapt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Per-call timeouts. The version probe should return almost instantly; the
// full resource dump walks the whole table and gets the longest budget.
const (
	ProbeTimeout        = 5 * time.Second
	ResourceDumpTimeout = 60 * time.Second
	XMLTreeTimeout      = 10 * time.Second
)

// ErrUnavailable indicates the tool binaries are missing or fail a basic
// invocation probe. Without working tools the compiled-table and xmltree
// strategies cannot run, so the caller treats this as fatal.
var ErrUnavailable = errors.New("aapt tools unavailable")

// Tools locates the aapt and aapt2 binaries under a tools directory.
// The expected layout is <dir>/aapt/aapt and <dir>/aapt/aapt2.
type Tools struct {
	AaptPath  string
	Aapt2Path string
}

// Locate builds tool paths under toolsDir without checking them; call
// Verify before first use.
func Locate(toolsDir string) *Tools {
	return &Tools{
		AaptPath:  filepath.Join(toolsDir, "aapt", "aapt"),
		Aapt2Path: filepath.Join(toolsDir, "aapt", "aapt2"),
	}
}

// Verify checks that both binaries exist and answer a `version` probe
// within ProbeTimeout. Any failure is reported as ErrUnavailable.
func (t *Tools) Verify(ctx context.Context) error {
	for _, path := range []string{t.AaptPath, t.Aapt2Path} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s not found", ErrUnavailable, path)
		}
		if _, err := t.run(ctx, ProbeTimeout, path, "version"); err != nil {
			return fmt.Errorf("%w: %s failed version probe: %v", ErrUnavailable, filepath.Base(path), err)
		}
	}
	return nil
}

// DumpResources runs `aapt2 dump resources <apk>` and returns its stdout.
func (t *Tools) DumpResources(ctx context.Context, apkPath string) (string, error) {
	return t.run(ctx, ResourceDumpTimeout, t.Aapt2Path, "dump", "resources", apkPath)
}

// DumpXMLTree runs `aapt dump xmltree <apk> <resPath>` for one binary XML
// entry inside the APK (e.g. "res/values-fr/strings.xml") and returns its
// stdout.
func (t *Tools) DumpXMLTree(ctx context.Context, apkPath, resPath string) (string, error) {
	return t.run(ctx, XMLTreeTimeout, t.AaptPath, "dump", "xmltree", apkPath, resPath)
}

// run executes one tool invocation with its own deadline. Timeouts and
// non-zero exits are both plain errors; the distinction only matters for
// the log line.
func (t *Tools) run(ctx context.Context, timeout time.Duration, path string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%s %s: timed out after %s", filepath.Base(path), strings.Join(args, " "), timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			log.Debug().Str("tool", filepath.Base(path)).Msg(msg)
		}
		return "", fmt.Errorf("%s %s: %w", filepath.Base(path), strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}
