package cli

import (
	"fmt"

	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/mvp-joe/project-neo/internal/output"
	"github.com/spf13/cobra"
)

// noMatchMessage is printed when a lookup or search finds nothing.
const noMatchMessage = "No matching NEOs exist in the database."

var (
	inspectPdes string
	inspectName string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect one NEO by primary designation or by name",
	Long: `Inspect looks up a single near-Earth object by its primary designation or
its IAU name. Names are matched exactly and case-sensitively.

With --verbose every close approach of the object is listed as well.

Examples:
  neo inspect --pdes 433
  neo inspect --name Halley --verbose`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectPdes, "pdes", "p", "", "primary designation of the NEO")
	inspectCmd.Flags().StringVarP(&inspectName, "name", "n", "", "IAU name of the NEO")
	inspectCmd.MarkFlagsOneRequired("pdes", "name")
	inspectCmd.MarkFlagsMutuallyExclusive("pdes", "name")
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	db, err := s.loadDatabase(cmd.Context())
	if err != nil {
		return err
	}

	var (
		n  *neo.NearEarthObject
		ok bool
	)
	if inspectPdes != "" {
		n, ok = db.FindByDesignation(inspectPdes)
	} else {
		n, ok = db.FindByName(inspectName)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), noMatchMessage)
		return nil
	}

	return output.PrintNEO(cmd.OutOrStdout(), n, verbose)
}
