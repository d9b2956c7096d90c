package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteSummaryCSV writes one line per test case: name, status, elapsed
// time and error message.
func WriteSummaryCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"testName", "status", "elapsedTimeMs", "errorMessage"}); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{e.TestName, e.Status, strconv.FormatInt(e.ElapsedTimeMs, 10), e.ErrorMessage}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableCSV writes one entry's value table: a header of time plus the
// signal names, then one record per executed row. Mismatched cells carry
// the expected value alongside the observation.
func WriteTableCSV(w io.Writer, entry Entry) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, entry.SignalNames...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, step := range entry.Timesteps {
		record := make([]string, 0, len(step.Signals)+1)
		record = append(record, step.Time)
		for _, pair := range step.Signals {
			record = append(record, cellText(pair))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(pair [2]string) string {
	if pair[0] == pair[1] {
		return pair[0]
	}
	return fmt.Sprintf("%s (expected %s)", pair[0], pair[1])
}
