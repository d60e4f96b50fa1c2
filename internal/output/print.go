package output

import (
	"fmt"
	"io"
	"iter"

	"github.com/mvp-joe/project-neo/internal/neo"
)

// Print writes the human-readable form of up to limit approaches, one per
// line. A limit of zero or less prints everything. It returns the number printed.
func Print(w io.Writer, approaches iter.Seq[*neo.CloseApproach], limit int) (int, error) {
	n := 0
	for a := range approaches {
		if _, err := fmt.Fprintln(w, a); err != nil {
			return n, err
		}
		n++
		// Stop before pulling another element from the source
		if limit > 0 && n >= limit {
			break
		}
	}
	return n, nil
}

// PrintNEO writes the NEO and, when verbose, each of its close approaches
// indented below it.
func PrintNEO(w io.Writer, n *neo.NearEarthObject, verbose bool) error {
	if _, err := fmt.Fprintln(w, n); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	for _, a := range n.Approaches() {
		if _, err := fmt.Fprintf(w, "- %s\n", a); err != nil {
			return err
		}
	}
	return nil
}
