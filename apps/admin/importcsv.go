package main

import (
	"fmt"
	"os"

	"github.com/meshwar/roster/core/student"
)

// importCSV replaces the whole roster with the file's records.
func (cli *commandLine) importCSV(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	records, err := student.ParseCSV(string(text))
	if err != nil {
		return err
	}

	cli.svc.ReplaceAll(records)
	fmt.Printf("imported %d students\n", len(records))
	return nil
}
