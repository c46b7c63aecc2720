// Command mldsl-compile compiles DSL source against a normalized
// ApiMap into a flat Plan, optionally watching the source file and
// recompiling on every save.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/mldsl-tools/mldsl/internal/clicolor"
	"github.com/mldsl-tools/mldsl/internal/mconfig"
	"github.com/mldsl-tools/mldsl/internal/mldsl"
	"github.com/mldsl-tools/mldsl/internal/model"
)

func main() {
	var (
		apiPath  string
		srcPath  string
		outPath  string
		diagPath   string
		configPath string
		watch      bool
		noColor    bool
	)

	root := &cobra.Command{
		Use:           "mldsl-compile",
		Short:         "Compile DSL source into a flat Plan",
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clicolor.Apply(noColor)
			if apiPath == "" || srcPath == "" {
				return fmt.Errorf("--api and --src are required")
			}

			api, err := loadAPI(apiPath)
			if err != nil {
				return err
			}
			cfg, err := mconfig.MergeYAMLFile(mconfig.FromEnv(), configPath)
			if err != nil {
				return err
			}

			compileOnce := func() error {
				plan, err := compileFile(srcPath, api, cfg, outPath)
				if err != nil {
					fmt.Fprintln(os.Stderr, clicolor.Error("error:"), err)
					if diagPath != "" {
						if werr := writeDiagnostics(diagPath, err); werr != nil {
							fmt.Fprintln(os.Stderr, clicolor.Warn("warning:"), "failed to write diagnostics:", werr)
						}
					}
					return err
				}
				fmt.Println(clicolor.OK("compiled"), len(plan), "group(s)")
				return nil
			}

			if !watch {
				return compileOnce()
			}
			return watchAndCompile(srcPath, compileOnce)
		},
	}

	root.Flags().StringVar(&apiPath, "api", "", "path to the normalized ApiMap JSON")
	root.Flags().StringVar(&srcPath, "src", "", "path to the DSL source file")
	root.Flags().StringVar(&outPath, "out", "", "write the compiled Plan here instead of stdout")
	root.Flags().StringVar(&diagPath, "diagnostics", "", "write a zstd-compressed diagnostics log here on failure")
	root.Flags().StringVar(&configPath, "config", "", "optional YAML overlay for the environment knobs")
	root.Flags().BoolVar(&watch, "watch", false, "recompile automatically whenever --src changes")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadAPI(path string) (model.ApiMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var api model.ApiMap
	if err := json.Unmarshal(raw, &api); err != nil {
		return nil, fmt.Errorf("parsing ApiMap: %w", err)
	}
	return api, nil
}

func compileFile(srcPath string, api model.ApiMap, cfg mconfig.Config, outPath string) (model.Plan, error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}
	plan, err := mldsl.Compile(string(src), api, cfg)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, err
	}
	if outPath == "" {
		fmt.Println(string(out))
		return plan, nil
	}
	return plan, os.WriteFile(outPath, out, 0o644)
}

// writeDiagnostics records a compile failure as a zstd-compressed log
// entry, so repeated --watch failures don't grow an on-disk log
// unboundedly.
func writeDiagnostics(path string, cause error) error {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return err
	}
	if _, err := enc.Write([]byte(cause.Error() + "\n")); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// watchAndCompile recompiles whenever srcPath changes, in the teacher's
// fsnotify-watch idiom: one watcher on the containing directory
// (watching the file itself misses editors that replace-on-save rather
// than write-in-place), filtered down to events naming srcPath.
func watchAndCompile(srcPath string, compile func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := "."
	if idx := lastSlash(srcPath); idx >= 0 {
		dir = srcPath[:idx]
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	_ = compile()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != srcPath {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			_ = compile()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, clicolor.Warn("watch error:"), err)
		}
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
