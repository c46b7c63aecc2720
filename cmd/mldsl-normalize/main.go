// Command mldsl-normalize turns a raw action catalog (as produced by
// mldsl-extract) into a validated, alias-bearing ApiMap.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mldsl-tools/mldsl/internal/clicolor"
	"github.com/mldsl-tools/mldsl/internal/mldsl"
	"github.com/mldsl-tools/mldsl/internal/model"
)

func main() {
	var (
		inPath  string
		outPath string
		noColor bool
	)

	root := &cobra.Command{
		Use:           "mldsl-normalize",
		Short:         "Normalize a raw action catalog into an ApiMap",
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clicolor.Apply(noColor)
			if inPath == "" {
				return fmt.Errorf("--in is required")
			}

			raw, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}
			var records []model.ActionRecord
			if err := json.Unmarshal(raw, &records); err != nil {
				return fmt.Errorf("parsing catalog: %w", err)
			}

			api, err := mldsl.NormalizeAPI(records)
			if err != nil {
				fmt.Fprintln(os.Stderr, clicolor.Error("error:"), err)
				return err
			}

			out, err := json.MarshalIndent(api, "", "  ")
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

	root.Flags().StringVar(&inPath, "in", "", "path to the raw action catalog JSON")
	root.Flags().StringVar(&outPath, "out", "", "write the ApiMap here instead of stdout")
	root.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
