// Command mldsl-extract reads a GUI dump file and writes its raw
// action catalog as JSON, the first stage of the pipeline.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mldsl-tools/mldsl/internal/clicolor"
	"github.com/mldsl-tools/mldsl/internal/mldsl"
)

func main() {
	var (
		dumpPath string
		outPath  string
		noColor  bool
	)

	root := &cobra.Command{
		Use:           "mldsl-extract",
		Short:         "Extract the raw action catalog from a GUI dump",
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clicolor.Apply(noColor)
			if dumpPath == "" {
				return fmt.Errorf("--dump is required")
			}

			records, err := mldsl.Extract(dumpPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, clicolor.Error("error:"), err)
				return err
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(outPath, out, 0o644)
		},
	}

	root.Flags().StringVar(&dumpPath, "dump", "", "path to the GUI dump file")
	root.Flags().StringVar(&outPath, "out", "", "write the catalog here instead of stdout")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
