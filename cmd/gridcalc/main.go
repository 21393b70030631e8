// Command gridcalc evaluates, checks and converts gridcalc sheets stored as
// CSV or xlsx files.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/javajack/gridcalc"
)

var (
	encodingName string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "gridcalc",
	Short: "Evaluate and convert formula sheets",
	Long: `Operate on sheets stored as CSV (.csv) or Excel (.xlsx) files.

Cells starting with '=' are formulas: arithmetic (+ - * / ^), cell
references (A1), and the functions listed by 'gridcalc functions'.

Examples:
  gridcalc eval budget.csv
  gridcalc validate budget.csv
  gridcalc find budget.csv 'kind == "Formula" && number > 100'
  gridcalc convert budget.csv budget.xlsx`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&encodingName, "encoding", "", "Character encoding of CSV files, e.g. windows-1252 (default UTF-8)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log file operations and formula failures to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sheetOptions maps the persistent flags onto sheet options.
func sheetOptions() ([]gridcalc.Option, error) {
	var opts []gridcalc.Option
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, gridcalc.WithLogger(logger))
	}
	if encodingName != "" {
		enc, err := htmlindex.Get(encodingName)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", encodingName, err)
		}
		opts = append(opts, gridcalc.WithCSVEncoding(enc))
	}
	return opts, nil
}

// openSheet loads a CSV or xlsx file, chosen by extension.
func openSheet(path string) (*gridcalc.Sheet, error) {
	opts, err := sheetOptions()
	if err != nil {
		return nil, err
	}
	sheet := gridcalc.NewSheet(opts...)
	if isXLSX(path) {
		err = sheet.LoadXLSX(path)
	} else {
		err = sheet.LoadCSV(path)
	}
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// saveSheet writes a sheet as CSV or xlsx, chosen by extension.
func saveSheet(sheet *gridcalc.Sheet, path string) error {
	if isXLSX(path) {
		return sheet.SaveXLSX(path)
	}
	return sheet.SaveCSV(path)
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
