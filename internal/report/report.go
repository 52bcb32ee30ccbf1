package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed run_report.schema.json
var runReportSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

type LibraryResult struct {
	Name     string `json:"name"`
	FileName string `json:"file_name"`
	Source   string `json:"source,omitempty"`
	Action   string `json:"action"`
}

type Summary struct {
	LibraryCount int `json:"library_count"`
	Copied       int `json:"copied"`
	Linked       int `json:"linked"`
	Skipped      int `json:"skipped"`
}

type RunReport struct {
	Version     string          `json:"version"`
	GeneratedAt string          `json:"generated_at"`
	PackageID   string          `json:"package_id"`
	TargetDir   string          `json:"target_dir"`
	ReleaseMode bool            `json:"release_mode"`
	Libraries   []LibraryResult `json:"libraries"`
	Summary     Summary         `json:"summary"`
}

func NewRunReport(pkgID, targetDir string, release bool) *RunReport {
	return &RunReport{
		Version:     "v1",
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		PackageID:   pkgID,
		TargetDir:   targetDir,
		ReleaseMode: release,
		Libraries:   []LibraryResult{},
	}
}

func (r *RunReport) AddLibrary(res LibraryResult) {
	if r == nil || strings.TrimSpace(res.Name) == "" {
		return
	}
	r.Libraries = append(r.Libraries, res)
}

func (r *RunReport) Finalize() {
	if r == nil {
		return
	}
	r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	s := Summary{LibraryCount: len(r.Libraries)}
	for _, lib := range r.Libraries {
		switch lib.Action {
		case "copied":
			s.Copied++
		case "linked":
			s.Linked++
		case "skipped":
			s.Skipped++
		}
	}
	r.Summary = s
}

func (r *RunReport) Save(path string) error {
	if r == nil {
		return nil
	}
	r.Finalize()
	if err := r.validateWithSchema(); err != nil {
		return fmt.Errorf("run report schema validation failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func (r *RunReport) validateWithSchema() error {
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile run report schema: %w", err)
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize run report: %w", err)
	}
	return schema.Validate(v)
}

func loadCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("run_report.schema.json", strings.NewReader(runReportSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("run_report.schema.json")
	})
	return compiledSchema, schemaErr
}
