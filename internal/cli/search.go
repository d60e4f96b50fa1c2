package cli

import (
	"fmt"

	"github.com/mvp-joe/project-neo/internal/search"
	"github.com/spf13/cobra"
)

var (
	searchGlob  bool
	searchLimit int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search TEXT",
	Short: "Find NEOs by partial name or designation",
	Long: `Search finds near-Earth objects when the exact designation or name is not
known. Text search matches words and prefixes and tolerates a small typo in
names; results are ranked by relevance. With --glob, TEXT is a shell pattern
(*, ?, [a-z]) matched case-sensitively against designations and names.

Examples:
  neo search apoph
  neo search --glob "2020 A*"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVarP(&searchGlob, "glob", "g", false, "treat TEXT as a glob pattern")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", search.DefaultLimit, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchLimit < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidLimit, searchLimit)
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

	idx, err := search.NewIndex(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("failed to build search index: %w", err)
	}
	defer idx.Close()

	var results []search.Result
	if searchGlob {
		results, err = idx.Glob(args[0], searchLimit)
	} else {
		results, err = idx.Search(cmd.Context(), args[0], searchLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, noMatchMessage)
		return nil
	}
	for _, r := range results {
		if searchGlob {
			fmt.Fprintln(out, r.NEO.FullName())
			continue
		}
		fmt.Fprintf(out, "%-40s %6.3f\n", r.NEO.FullName(), r.Score)
	}
	return nil
}
