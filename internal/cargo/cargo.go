package cargo

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner invokes the cargo binary and captures its stdout. The child's stderr
// goes straight to the user's terminal so build diagnostics stay visible.
type Runner struct {
	bin   string
	extra []string
}

// NewRunner creates a runner for the given cargo binary and extra build
// arguments. An empty bin falls back to "cargo" on the PATH.
func NewRunner(bin string, extra []string) *Runner {
	if bin == "" {
		bin = "cargo"
	}
	return &Runner{bin: bin, extra: extra}
}

// Pkgid runs `cargo pkgid` and returns the identifier of the package in the
// current directory.
func (r *Runner) Pkgid() (string, error) {
	out, err := r.run("pkgid")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Build runs `cargo build` with JSON message output and returns raw stdout,
// one message per line.
func (r *Runner) Build(release bool) ([]byte, error) {
	return r.run(r.BuildArgs(release)...)
}

// BuildArgs assembles the argument list for the build invocation: the extra
// args first, then --release when asked for, then the fixed message-format
// tail.
func (r *Runner) BuildArgs(release bool) []string {
	args := []string{"build"}
	args = append(args, r.extra...)
	if release {
		args = append(args, "--release")
	}
	return append(args, "--quiet", "--message-format", "json")
}

func (r *Runner) run(args ...string) ([]byte, error) {
	cmd := exec.Command(r.bin, args...)
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("cargo %s failed: %w", args[0], err)
	}
	return output, nil
}
