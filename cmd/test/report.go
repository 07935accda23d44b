package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// summary counts results by kind.
type summary struct {
	total           int
	passed          int
	httpErrors      int
	transportErrors int
}

func summarize(results []caseResult) summary {
	s := summary{total: len(results)}
	for _, res := range results {
		switch res.Kind {
		case kindSuccess:
			s.passed++
		case kindHTTPError:
			s.httpErrors++
		default:
			s.transportErrors++
		}
	}
	return s
}

// renderSummary prints one row per case followed by the totals line.
func renderSummary(w io.Writer, results []caseResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no cases were run")
		return
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Suite", "#", "Case", "Outcome", "Status", "Duration"})
	table.SetAutoWrapText(false)
	for _, res := range results {
		table.Append([]string{
			string(res.Suite),
			strconv.Itoa(res.Index),
			res.Name,
			outcomeCell(res),
			statusCell(res),
			res.Duration.Truncate(time.Millisecond).String(),
		})
	}
	table.Render()

	s := summarize(results)
	fmt.Fprintf(w, "Totals  | Cases: %d | Passed: %d | HTTP errors: %d | Transport errors: %d\n",
		s.total, s.passed, s.httpErrors, s.transportErrors)
}

func outcomeCell(res caseResult) string {
	switch res.Kind {
	case kindSuccess:
		return "PASS"
	case kindHTTPError:
		return "FAIL " + shorten(res.Body, maxTableErrorLength)
	default:
		return "ERROR " + shorten(res.Err, maxTableErrorLength)
	}
}

func statusCell(res caseResult) string {
	if res.StatusCode == 0 {
		return "—"
	}
	return strconv.Itoa(res.StatusCode)
}
