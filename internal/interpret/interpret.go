package interpret

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// targetSubdir is appended to the artifact's directory: cargo places the
// shared objects a freshly built binary loads under target/<profile>/deps.
const targetSubdir = "deps"

// Library is a native library some build script linked, together with the
// directories its file may live in. Names may recur across packages; each
// occurrence is resolved independently.
type Library struct {
	Name       string
	SearchDirs []string
}

// Result is what interpreting one build run yields: where the designated
// package's artifact went and which libraries its dependencies linked.
type Result struct {
	TargetDir string
	Libraries []Library
}

// Interpreter folds a cargo build message stream into the target directory of
// one designated package plus the list of libraries to materialize there.
type Interpreter struct {
	pkgID string
}

// NewInterpreter creates an interpreter for the given package identifier, as
// returned by `cargo pkgid`.
func NewInterpreter(pkgID string) *Interpreter {
	return &Interpreter{pkgID: pkgID}
}

// Run consumes the whole message stream. Any malformed line aborts the run
// with its 1-based ordinal; a build-script message that declares libraries
// without search directories aborts naming the offending package. When the
// same package produces more than one artifact message, the first one wins.
func (it *Interpreter) Run(stream []byte) (*Result, error) {
	scanner := bufio.NewScanner(bytes.NewReader(stream))
	// Artifact messages easily exceed the default 64K token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var artifact *BuildMessage
	var libs []Library

	line := 0
	for scanner.Scan() {
		line++
		var msg BuildMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			return nil, fmt.Errorf("failed to parse build message %d: %w", line, err)
		}

		if msg.Reason == reasonCompilerArtifact && msg.PackageID == it.pkgID {
			if artifact == nil {
				m := msg
				artifact = &m
			}
			continue
		}
		if msg.Reason != reasonBuildScriptExecuted || msg.PackageID == "" || len(msg.LinkedLibs) == 0 {
			continue
		}
		if msg.LinkedPaths == nil {
			return nil, fmt.Errorf("missing paths for libraries in package '%s'", msg.PackageID)
		}
		if len(msg.LinkedPaths) == 0 {
			return nil, fmt.Errorf("no paths for libraries in package '%s'", msg.PackageID)
		}

		dirs := dedupeDirs(msg.LinkedPaths)
		for _, name := range msg.LinkedLibs {
			libs = append(libs, Library{Name: name, SearchDirs: dirs})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read build messages: %w", err)
	}

	targetDir, err := it.resolveTargetDir(artifact)
	if err != nil {
		return nil, err
	}

	return &Result{TargetDir: targetDir, Libraries: libs}, nil
}

// resolveTargetDir locates the designated package's output directory: the
// parent of its executable, or of an .rlib file when no executable was built.
func (it *Interpreter) resolveTargetDir(artifact *BuildMessage) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("no 'compiler-artifact' message found for package '%s'", it.pkgID)
	}

	artifactPath := artifact.Executable
	if artifactPath == "" {
		if artifact.Filenames == nil {
			return "", fmt.Errorf("missing filenames for package '%s'", it.pkgID)
		}
		for _, name := range artifact.Filenames {
			if strings.HasSuffix(name, ".rlib") {
				artifactPath = name
				break
			}
		}
		if artifactPath == "" {
			return "", fmt.Errorf("missing rlib file for package '%s'", it.pkgID)
		}
	}

	return filepath.Join(filepath.Dir(artifactPath), targetSubdir), nil
}

// dedupeDirs keeps the first occurrence of each directory so that lookup
// order is stable across runs.
func dedupeDirs(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
