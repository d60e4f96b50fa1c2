package cli

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/project-neo/internal/catalog"
	"github.com/mvp-joe/project-neo/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrInvalidLimit is returned for a negative --limit.
var ErrInvalidLimit = errors.New("limit must be a non-negative integer")

var (
	queryDate         string
	queryStartDate    string
	queryEndDate      string
	queryMinDistance  float64
	queryMaxDistance  float64
	queryMinVelocity  float64
	queryMaxVelocity  float64
	queryMinDiameter  float64
	queryMaxDiameter  float64
	queryHazardous    bool
	queryNotHazardous bool
	queryLimit        int
	queryOutfile      string
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query close approaches",
	Long: `Query streams the close approaches that satisfy every given filter, in the
order of the close-approach data.

Dates are UTC calendar days (YYYY-MM-DD). Distance is in au, velocity in km/s
and diameter in km; all bounds are inclusive. Diameter and hazard filters never
match approaches of unknown objects or objects with unknown diameter.

Without --outfile the first matches are printed (--limit, default from
config). With --outfile every match is written unless --limit is given; the
format follows the extension: .csv, .json, .yaml, .xlsx, .pdf, .db.
A limit of 0 means no limit.

Examples:
  neo query --date 2020-01-01
  neo query --start-date 2020-01-01 --end-date 2020-12-31 --hazardous --max-distance 0.05
  neo query --min-velocity 30 --outfile fast.csv`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	f := queryCmd.Flags()
	f.StringVarP(&queryDate, "date", "d", "", "only approaches on this date (YYYY-MM-DD)")
	f.StringVarP(&queryStartDate, "start-date", "s", "", "only approaches on or after this date (YYYY-MM-DD)")
	f.StringVarP(&queryEndDate, "end-date", "e", "", "only approaches on or before this date (YYYY-MM-DD)")
	f.Float64Var(&queryMinDistance, "min-distance", 0, "minimum approach distance in au")
	f.Float64Var(&queryMaxDistance, "max-distance", 0, "maximum approach distance in au")
	f.Float64Var(&queryMinVelocity, "min-velocity", 0, "minimum relative velocity in km/s")
	f.Float64Var(&queryMaxVelocity, "max-velocity", 0, "maximum relative velocity in km/s")
	f.Float64Var(&queryMinDiameter, "min-diameter", 0, "minimum NEO diameter in km")
	f.Float64Var(&queryMaxDiameter, "max-diameter", 0, "maximum NEO diameter in km")
	f.BoolVar(&queryHazardous, "hazardous", false, "only potentially hazardous NEOs")
	f.BoolVar(&queryNotHazardous, "not-hazardous", false, "only NEOs that are not potentially hazardous")
	f.IntVarP(&queryLimit, "limit", "l", 0, "maximum number of matches, 0 for all")
	f.StringVarP(&queryOutfile, "outfile", "o", "", "write matches to this file instead of stdout")

	queryCmd.MarkFlagsMutuallyExclusive("hazardous", "not-hazardous")
}

// queryRequest maps the flags onto a QueryRequest; only flags given on the
// command line become filters.
func queryRequest(cmd *cobra.Command) catalog.QueryRequest {
	req := catalog.QueryRequest{
		Date:      queryDate,
		StartDate: queryStartDate,
		EndDate:   queryEndDate,
	}

	floats := []struct {
		flag   string
		value  float64
		target **float64
	}{
		{"min-distance", queryMinDistance, &req.DistanceMin},
		{"max-distance", queryMaxDistance, &req.DistanceMax},
		{"min-velocity", queryMinVelocity, &req.VelocityMin},
		{"max-velocity", queryMaxVelocity, &req.VelocityMax},
		{"min-diameter", queryMinDiameter, &req.DiameterMin},
		{"max-diameter", queryMaxDiameter, &req.DiameterMax},
	}
	for _, f := range floats {
		if cmd.Flags().Changed(f.flag) {
			v := f.value
			*f.target = &v
		}
	}

	switch {
	case queryHazardous:
		v := true
		req.Hazardous = &v
	case queryNotHazardous:
		v := false
		req.Hazardous = &v
	}

	return req
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryLimit < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidLimit, queryLimit)
	}

	filters, err := queryRequest(cmd).Filters()
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	limit := queryLimit
	if !cmd.Flags().Changed("limit") && queryOutfile == "" {
		limit = s.cfg.Query.DefaultLimit
	}

	db, err := s.loadDatabase(cmd.Context())
	if err != nil {
		return err
	}

	cursor := db.Query(filters)

	if queryOutfile == "" {
		_, err := output.Print(cmd.OutOrStdout(), cursor.All(), limit)
		return err
	}

	n, err := output.WriteFile(cmd.Context(), queryOutfile, cursor.Limit(limit))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", queryOutfile, err)
	}

	s.logger.Debug("query written",
		zap.String("outfile", queryOutfile),
		zap.String("filters", filters.Key()),
		zap.Int("scanned", cursor.Scanned()),
		zap.Int("written", n))
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s close approaches to %s (scanned %s)\n",
			formatNumber(n), queryOutfile, formatNumber(cursor.Scanned()))
	}
	return nil
}
