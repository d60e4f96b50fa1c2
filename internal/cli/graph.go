package cli

import (
	"fmt"

	"github.com/mvp-joe/project-neo/internal/graph"
	"github.com/spf13/cobra"
)

var (
	graphPdes    []string
	graphOutfile string
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the NEO to close-approach association graph",
	Long: `Graph writes the links between NEOs and their close approaches as a directed
graph. Potentially hazardous NEOs are drawn in red. The format follows the
extension of --outfile: .dot (Graphviz) or .json.

Without --pdes every NEO is included, which can be large.

Examples:
  neo graph --pdes 433 --pdes 99942 --outfile approaches.dot
  dot -Tsvg approaches.dot > approaches.svg`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringArrayVarP(&graphPdes, "pdes", "p", nil, "primary designation to include (repeatable)")
	graphCmd.Flags().StringVarP(&graphOutfile, "outfile", "o", "", "graph file to write (.dot or .json)")
	graphCmd.MarkFlagRequired("outfile")
}

func runGraph(cmd *cobra.Command, args []string) error {
	// Reject the format before loading any data
	storage, err := graph.NewStorage(graphOutfile)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	db, err := s.loadDatabase(cmd.Context())
	if err != nil {
		return err
	}

	g, err := graph.Build(db, graphPdes...)
	if err != nil {
		return err
	}

	if err := storage.Save(g); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Graph written: %s nodes, %s edges to %s\n",
			formatNumber(g.Order()), formatNumber(g.Size()), graphOutfile)
	}
	return nil
}
