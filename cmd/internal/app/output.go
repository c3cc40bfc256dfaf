package app

import (
	"fmt"
	"io"
	"time"
)

// WriteBodies writes successful response bodies in input order.
func WriteBodies(w io.Writer, results []Result) error {
	for _, r := range results {
		if r.Err != nil || len(r.Body) == 0 {
			continue
		}
		if _, err := w.Write(r.Body); err != nil {
			return err
		}
		if r.Body[len(r.Body)-1] != '\n' {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary writes one tab-separated line per URL:
// outcome, status, attempts, elapsed milliseconds, url and the error when there is one.
func WriteSummary(w io.Writer, results []Result) error {
	for _, r := range results {
		outcome := "OK"
		if r.Err != nil {
			outcome = "FAIL"
		}
		line := fmt.Sprintf("%s\t%d\t%d\t%d\t%s", outcome, r.StatusCode, r.Attempts, r.Elapsed.Round(time.Millisecond).Milliseconds(), r.URL)
		if r.Err != nil {
			line += "\t" + r.Err.Error()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
