// Package main implements the pycpp CLI, grounded on the teacher's cobra
// command tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pycppx/pycpp/pkg/transpiler"
	"github.com/pycppx/pycpp/pkg/ui"
)

var version = "0.1.0-alpha"

func main() {
	rootCmd := &cobra.Command{
		Use:          "pycpp",
		Short:        "pycpp - a best-effort Python-to-C++ translator",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func translateCmd() *cobra.Command {
	var (
		outputDir string
		watch     bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file.py...]",
		Short: "Translate restricted-Python source files into a single C++ translation unit each",
		Long: `Translate reads one or more restricted-Python source files and writes a
main.cpp next to each (or into --output-dir), via the pipeline:
parse, analyze, finalize comment injection, emit.

Any construct the translator cannot faithfully express is preserved as a
commented block with a TODO explaining why, rather than aborting the file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args, outputDir, watch, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory to write main.cpp into (default: alongside each input file)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-translate whenever a watched input file changes")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each file's resolved configuration and watch events to stderr")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pycpp version",
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintVersion(version)
		},
	}
}

func runTranslate(files []string, outputDir string, watch, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck

	buildUI := ui.NewBuildOutput()
	buildUI.PrintHeader(version)
	buildUI.PrintBuildStart(len(files))

	for _, file := range files {
		if err := translateOne(file, outputDir, buildUI, logger); err != nil {
			buildUI.PrintSummary(false, err.Error())
			return err
		}
	}
	buildUI.PrintSummary(true, "")

	if !watch {
		return nil
	}
	return watchFiles(files, outputDir, buildUI, logger)
}

func translateOne(inputPath, outputDir string, buildUI *ui.BuildOutput, logger *zap.Logger) error {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	buildUI.PrintFileStart(inputPath, filepath.Join(dir, "main.cpp"))

	cfg, err := transpiler.LoadProjectConfig(inputPath)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger.Debug("resolved configuration",
		zap.String("file", inputPath),
		zap.String("include_style", string(cfg.Emitter.IncludeStyle)),
		zap.Bool("widen_int_to_float", cfg.Emitter.WidenIntToFloat),
	)

	tr := transpiler.NewWithConfig(cfg).WithOutput(buildUI)
	return tr.TranslateFile(inputPath, dir)
}

// watchFiles re-translates each input file whenever fsnotify reports it
// changed, until the process is interrupted (SPEC_FULL.md's --watch).
func watchFiles(files []string, outputDir string, buildUI *ui.BuildOutput, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, f := range files {
		dir := filepath.Dir(f)
		if watchedDirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watchedDirs[dir] = true
	}

	fmt.Println("watching for changes, press Ctrl+C to stop")
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !matchesAny(event.Name, files) {
				continue
			}
			logger.Info("change detected", zap.String("file", event.Name))
			if err := translateOne(event.Name, outputDir, buildUI, logger); err != nil {
				buildUI.PrintError(err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func matchesAny(name string, files []string) bool {
	for _, f := range files {
		if filepath.Clean(name) == filepath.Clean(f) {
			return true
		}
		if strings.EqualFold(filepath.Base(name), filepath.Base(f)) {
			return true
		}
	}
	return false
}
