package gridcalc_test

import (
	"fmt"

	"github.com/javajack/gridcalc"
)

func ExampleSheet() {
	sheet := gridcalc.NewSheet(gridcalc.WithSize(4, 2))
	sheet.SetRawCell(0, 0, "10")
	sheet.SetRawCell(1, 0, "20")
	sheet.SetRawCell(2, 0, "12.5")
	sheet.SetRawCell(3, 0, "=SUM(A1:A3)")
	sheet.SetRawCell(3, 1, "=A4/3")

	fmt.Println(sheet.DisplayValue(3, 0))
	fmt.Println(sheet.DisplayValue(3, 1))

	sheet.Undo()
	fmt.Println(sheet.RawCell(3, 1) == "")
	// Output:
	// 42.50
	// 14.17
	// true
}

func ExampleEvaluateExpression() {
	v, err := gridcalc.EvaluateExpression("2^3^2 - -1")
	fmt.Println(v, err)
	// Output: 513 <nil>
}

func ExampleSheet_Find() {
	sheet := gridcalc.NewSheet(gridcalc.WithSize(3, 1))
	sheet.SetRawCell(0, 0, "5")
	sheet.SetRawCell(1, 0, "=A1*40")
	sheet.SetRawCell(2, 0, "=A1/0")

	found, _ := sheet.Find(`kind == "Formula" && !failed`)
	fmt.Println(found)
	// Output: [A2]
}
