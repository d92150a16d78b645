package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"golang.org/x/term"
)

const noValue = "-"

// wantsJSON reports whether w gets JSON: on request, or whenever w is not an
// interactive terminal.
func (c *cli) wantsJSON(w io.Writer) bool {
	if c.jsonOutput {
		return true
	}

	f, ok := w.(*os.File)

	return !ok || !term.IsTerminal(int(f.Fd()))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func printMembersTable(w io.Writer, views []model.MemberTeamView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tAGE\tTEAM")

	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", v.MemberID, orDash(v.Username), v.Age, orDash(v.TeamName))
	}

	return tw.Flush()
}

func printPageTable(w io.Writer, page queries.MembersPage) error {
	if err := printMembersTable(w, page.Items); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d members (offset %d, %d total, page %d of %d)\n",
		len(page.Items),
		page.Offset,
		page.TotalCount,
		currentPage(page),
		page.TotalPages(),
	)

	return err
}

func printSummaryTable(w io.Writer, summary model.AgeSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNT\tSUM\tAVG\tMIN\tMAX")
	fmt.Fprintf(tw, "%d\t%d\t%.2f\t%s\t%s\n", summary.Count, summary.Sum, summary.Avg, intOrDash(summary.Min), intOrDash(summary.Max))

	return tw.Flush()
}

func printTeamStatsTable(w io.Writer, stats []model.TeamAgeStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tMEMBERS\tAVG AGE")

	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", s.TeamName, s.Members, s.AvgAge)
	}

	return tw.Flush()
}

func currentPage(page queries.MembersPage) int {
	if page.Limit <= 0 {
		return 1
	}

	return page.Offset/page.Limit + 1
}

func orDash(s *string) string {
	if s == nil {
		return noValue
	}

	return *s
}

func intOrDash(v *int) string {
	if v == nil {
		return noValue
	}

	return strconv.Itoa(*v)
}
