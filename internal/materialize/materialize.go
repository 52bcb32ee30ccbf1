package materialize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"cargo-update-target-dylibs/internal/interpret"
	"cargo-update-target-dylibs/internal/platform"
)

// Actions recorded per library request.
const (
	ActionCopied  = "copied"
	ActionLinked  = "linked"
	ActionSkipped = "skipped"
)

// Outcome records what happened to one library request.
type Outcome struct {
	Name     string // library base name
	FileName string // platform file name probed for
	Source   string // file the library was materialized from, empty when skipped
	Action   string // "copied", "linked" or "skipped"
}

// Materializer copies resolved library files into one target directory.
type Materializer struct {
	targetDir string
	goos      string
}

// NewMaterializer creates a materializer for the target directory, using the
// running platform's library naming.
func NewMaterializer(targetDir string) *Materializer {
	return &Materializer{targetDir: targetDir, goos: runtime.GOOS}
}

// Run materializes every library into the target directory. A library whose
// file cannot be found under any of its search directories is skipped, since
// most linked names are system libraries that never need copying.
func (m *Materializer) Run(libs []interpret.Library) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(libs))
	for _, lib := range libs {
		fileName := platform.LibraryFileName(m.goos, lib.Name)
		source, err := m.resolve(fileName, lib.SearchDirs)
		if err != nil {
			return nil, err
		}

		out := Outcome{Name: lib.Name, FileName: fileName, Source: source, Action: ActionSkipped}
		if source != "" {
			action, err := m.copyEntry(source, make(map[string]bool))
			if err != nil {
				return nil, fmt.Errorf("failed to copy library '%s': %w", source, err)
			}
			out.Action = action
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// resolve finds the library file under the candidate directories, trying each
// directory itself and then the sibling bin convention some toolchains use.
// The first hit wins; no hit at all returns an empty path.
func (m *Materializer) resolve(fileName string, dirs []string) (string, error) {
	for _, dir := range dirs {
		srcPath := filepath.Join(dir, fileName)
		if fileExists(srcPath) {
			return srcPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no parent path for library '%s'", fileName)
		}
		altPath := filepath.Join(parent, "bin", fileName)
		if fileExists(altPath) {
			return altPath, nil
		}
	}
	return "", nil
}

// copyEntry materializes srcPath into the target directory under its base
// name, replacing any existing destination. A symlink source is recreated as
// a relative link after its target has been copied in, so the output
// directory stays relocatable; visited guards against link cycles.
func (m *Materializer) copyEntry(srcPath string, visited map[string]bool) (string, error) {
	if visited[srcPath] {
		return "", fmt.Errorf("symlink cycle at '%s'", srcPath)
	}
	visited[srcPath] = true

	dstPath := filepath.Join(m.targetDir, filepath.Base(srcPath))
	if err := os.Remove(dstPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove existing file: %w", err)
	}

	info, err := os.Lstat(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat source path: %w", err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		linkTarget, err := os.Readlink(srcPath)
		if err != nil {
			return "", fmt.Errorf("failed to read symlink: %w", err)
		}
		if !filepath.IsAbs(linkTarget) {
			linkTarget = filepath.Join(filepath.Dir(srcPath), linkTarget)
		}
		if _, err := m.copyEntry(linkTarget, visited); err != nil {
			return "", fmt.Errorf("failed to copy symlink target '%s': %w", linkTarget, err)
		}
		targetBase := filepath.Base(linkTarget)
		fmt.Printf("link %s -> %s\n", dstPath, targetBase)
		if err := os.Symlink(targetBase, dstPath); err != nil {
			return "", fmt.Errorf("failed to create symbolic link: %w", err)
		}
		return ActionLinked, nil

	case info.IsDir():
		return "", errors.New("source path is a directory")

	default:
		fmt.Printf("copy %s -> %s\n", srcPath, dstPath)
		if err := copyFile(srcPath, dstPath, info.Mode()); err != nil {
			return "", err
		}
		return ActionCopied, nil
	}
}

func copyFile(srcPath, dstPath string, mode os.FileMode) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	// The create mode is masked by the process umask; restore the source bits.
	if err := os.Chmod(dstPath, mode.Perm()); err != nil {
		dst.Close()
		return fmt.Errorf("failed to set destination permissions: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return dst.Close()
}

// fileExists follows symlinks, so a dangling or cyclic link counts as absent
// and falls through to the next candidate.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
