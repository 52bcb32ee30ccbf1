package interpret

// Message reasons this tool acts on; every other reason is skipped.
const (
	reasonCompilerArtifact    = "compiler-artifact"
	reasonBuildScriptExecuted = "build-script-executed"
)

// BuildMessage is one line of `cargo build --message-format json` output.
// Only the fields this tool reads are declared; unknown fields are ignored.
// Slices stay nil when their field is absent, which matters for telling a
// missing linked_paths apart from an explicitly empty one.
type BuildMessage struct {
	Reason      string   `json:"reason"`       // message discriminator
	PackageID   string   `json:"package_id"`   // package that emitted the message
	LinkedLibs  []string `json:"linked_libs"`  // native library base names a build script linked
	LinkedPaths []string `json:"linked_paths"` // search directories declared for those libraries
	Executable  string   `json:"executable"`   // produced executable, when the artifact is a binary
	Filenames   []string `json:"filenames"`    // produced files, when the artifact is a library
}
