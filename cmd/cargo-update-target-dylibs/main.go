package main

import (
	"fmt"
	"log"
	"os"

	"cargo-update-target-dylibs/internal/cargo"
	"cargo-update-target-dylibs/internal/config"
	"cargo-update-target-dylibs/internal/interpret"
	"cargo-update-target-dylibs/internal/materialize"
	"cargo-update-target-dylibs/internal/report"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "cargo-update-target-dylibs",
		Short: "Copy dynamic libraries built for dependencies into the target directory",
		Long: `Builds the package in the current directory, reads the build messages cargo
emits, and copies (or symlinks) every dynamic library the build scripts of its
dependencies linked against into the target directory, next to the produced
binary. The binary can then run without a manually configured dynamic-library
search path.

Cargo workspaces are supported, but a particular package must be built; the
simplest way to pick one is to run inside that package's directory.

Extra arguments for ` + "`cargo build`" + ` can be supplied with the CARGO_ARGS and
CARGO_BUILD_ARGS environment variables or an update-target-dylibs.yaml file.`,
		// Cargo invokes external subcommands with the subcommand name as the
		// first argument.
		Args: cobra.MaximumNArgs(1),
		Run:  runUpdate,
	}
	releaseMode bool
	verbose     bool
	reportPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Danger.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&releaseMode, "release", false, "Build in release mode (passed through to `cargo build`)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Print package, argument and library diagnostics")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON run report to the given path")
}

func runUpdate(cmd *cobra.Command, args []string) {
	// 1. Load Configuration
	cfg, err := config.LoadConfig("update-target-dylibs.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	runner := cargo.NewRunner(cfg.Cargo.Bin, cfg.Cargo.BuildArgs)

	// 2. Resolve the package built in the current directory
	pkgID, err := runner.Pkgid()
	if err != nil {
		log.Fatalf("Failed to resolve current package: %v", err)
	}
	if verbose {
		color.Debug.Printf("this package = %s\n", pkgID)
		color.Debug.Printf("release mode = %v\n", releaseMode)
		color.Debug.Printf("cargo args = %v\n", runner.BuildArgs(releaseMode))
	}

	// 3. Build and capture the message stream
	fmt.Println("🚀 Building and collecting build messages...")
	stream, err := runner.Build(releaseMode)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	// 4. Interpret the stream
	res, err := interpret.NewInterpreter(pkgID).Run(stream)
	if err != nil {
		log.Fatalf("Failed to interpret build messages: %v", err)
	}
	if verbose {
		for _, lib := range res.Libraries {
			color.Debug.Printf("library found: %s %v\n", lib.Name, lib.SearchDirs)
		}
		color.Debug.Printf("target path = %s\n", res.TargetDir)
	}

	// 5. Materialize the libraries next to the artifact
	outcomes, err := materialize.NewMaterializer(res.TargetDir).Run(res.Libraries)
	if err != nil {
		log.Fatalf("Failed to update dynamic libraries: %v", err)
	}

	updated, skipped := 0, 0
	for _, o := range outcomes {
		if o.Action == materialize.ActionSkipped {
			skipped++
		} else {
			updated++
		}
	}

	// 6. Optional run report
	if reportPath != "" {
		rep := report.NewRunReport(pkgID, res.TargetDir, releaseMode)
		for _, o := range outcomes {
			rep.AddLibrary(report.LibraryResult{
				Name:     o.Name,
				FileName: o.FileName,
				Source:   o.Source,
				Action:   o.Action,
			})
		}
		if err := rep.Save(reportPath); err != nil {
			log.Fatalf("Failed to write run report: %v", err)
		}
		fmt.Printf("📊 Run report written to %s\n", reportPath)
	}

	fmt.Printf("✅ Updated %d dynamic libraries in %s (%d skipped)\n", updated, res.TargetDir, skipped)
}
