package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/meshwar/roster/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *student.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  importcsv -file FILE - replace the roster with the file's records")
	fmt.Println("  exportcsv [-date YYYY-MM-DD] [-out FILE] - write the roster to a CSV file")
	fmt.Println("  hashpassword - bcrypt-hash a password for the credentials config")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	importCmd := flag.NewFlagSet("importcsv", flag.ExitOnError)
	importFile := importCmd.String("file", "", "Path to the CSV file to import. Replaces all current records.")

	exportCmd := flag.NewFlagSet("exportcsv", flag.ExitOnError)
	exportDate := exportCmd.String("date", "", "Attendance date to export (YYYY-MM-DD). Defaults to today.")
	exportOut := exportCmd.String("out", "", "Output path. Defaults to the dated export filename in the current directory.")

	switch args[1] {
	case "importcsv":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importCSV(*importFile)
	case "exportcsv":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.exportCSV(*exportDate, *exportOut)
	case "hashpassword":
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			return errHelp
		}
		return cli.hashPassword(string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
