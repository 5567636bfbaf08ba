package main

import (
	"fmt"
	"os"
	"time"

	"github.com/meshwar/roster/core/student"
)

// exportCSV writes the full roster to a CSV file, with the attendance column
// bound to the given date (today when omitted).
func (cli *commandLine) exportCSV(date, out string) error {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return err
	}

	records := cli.svc.All()
	if len(records) == 0 {
		return student.ErrEmptyRoster
	}

	filename, csvText := student.ExportView(records, date)
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, []byte(csvText), 0o644); err != nil {
		return err
	}

	fmt.Printf("exported %d students to %s\n", len(records), out)
	return nil
}
