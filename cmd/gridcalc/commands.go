package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javajack/gridcalc"
)

var showFormulas bool

var evalCmd = &cobra.Command{
	Use:   "eval FILE",
	Short: "Print the display value of every cell as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := openSheet(args[0])
		if err != nil {
			return err
		}
		sheet.SetShowFormulas(showFormulas)
		return gridcalc.WriteCSV(cmd.OutOrStdout(), sheet.DisplayValues())
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe FILE",
	Short: "List every non-empty cell with its kind and value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := openSheet(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), sheet.Describe())
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Report formulas that fail or reference cells outside the grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := openSheet(args[0])
		if err != nil {
			return err
		}
		issues := sheet.Validate()
		errorCount := 0
		for _, issue := range issues {
			fmt.Fprintln(cmd.OutOrStdout(), issue)
			if issue.Severity == gridcalc.SeverityError {
				errorCount++
			}
		}
		if errorCount > 0 {
			return fmt.Errorf("%d formula(s) display %s", errorCount, gridcalc.ErrorText)
		}
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find FILE CONDITION",
	Short: "Print the address of every cell matching a condition",
	Long: `Print the address of every cell matching a boolean condition.

Variables: row, col (1-based), column, ref, raw, kind ("Empty", "Literal",
"Formula"), value (display text), number, numeric, failed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := openSheet(args[0])
		if err != nil {
			return err
		}
		found, err := sheet.Find(args[1])
		if err != nil {
			return err
		}
		for _, a := range found {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a, sheet.DisplayValue(a.Row, a.Col))
		}
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Convert between CSV and xlsx",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := openSheet(args[0])
		if err != nil {
			return err
		}
		return saveSheet(sheet, args[1])
	},
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the formula functions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(gridcalc.FunctionNames(), "\n"))
	},
}

func init() {
	evalCmd.Flags().BoolVar(&showFormulas, "formulas", false, "Print raw formulas instead of their results")
	rootCmd.AddCommand(evalCmd, describeCmd, validateCmd, findCmd, convertCmd, functionsCmd)
}
