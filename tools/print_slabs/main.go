package main

import (
	"fmt"
	"os"

	calc "github.com/taxportal/filing-engine/internal/calculation"
	"github.com/taxportal/filing-engine/internal/config"
	"github.com/taxportal/filing-engine/internal/domain"
	money "github.com/taxportal/filing-engine/pkg/decimal"
)

// Prints old vs new regime tax for a ladder of incomes, using the built-in
// tables or the file given as the first argument.
func main() {
	var tables domain.RegimeTables
	if len(os.Args) > 1 {
		t, err := config.NewTableLoader().LoadFromFile(os.Args[1])
		if err != nil {
			panic(err)
		}
		tables = t
	}
	ay := ""
	if len(os.Args) > 2 {
		ay = os.Args[2]
	}
	engine := calc.NewEngine(tables, nil)

	// full old-regime deductions: 80C + 80CCD(1B) + 80D
	deductions := money.NewMoneyFromInt(225000)

	fmt.Printf("%12s %14s %14s %10s\n", "gross", "new", "old", "better")
	for gross := int64(500000); gross <= 5000000; gross += 250000 {
		g := money.NewMoneyFromInt(gross)
		n, err := engine.IncomeTax(g, domain.RegimeNew, money.Zero(), ay)
		if err != nil {
			panic(err)
		}
		o, err := engine.IncomeTax(g, domain.RegimeOld, deductions, ay)
		if err != nil {
			panic(err)
		}
		better := "new"
		if o.TotalTax.LessThan(n.TotalTax) {
			better = "old"
		}
		fmt.Printf("%12s %14s %14s %10s\n", g.Grouped(), n.TotalTax.Grouped(), o.TotalTax.Grouped(), better)
	}
}
