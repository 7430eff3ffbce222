package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"minutebook/internal/catalog"
	"minutebook/internal/compose"
)

var renderStrict bool

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render the preview of a module file without saving it",
	Long: `Render reads a module array from a YAML or JSON file ("-" for stdin)
and prints the preview text a template built from it would get.
With --strict the module keys must belong to the default catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Reject module keys outside the default catalog")
}

func runRender(cmd *cobra.Command, args []string) error {
	modules, err := readModules(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	if renderStrict {
		if err := compose.Validate(modules, catalog.DefaultKeys()); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), compose.Render(modules))
	return nil
}
