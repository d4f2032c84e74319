package main

import (
	"fmt"
	"os"

	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/pkg/dateutil"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: print_due_dates <assessment-year>   e.g. 2025-26")
		return
	}
	ay := os.Args[1]
	due, err := dateutil.ITRDueDate(ay)
	if err != nil {
		panic(err)
	}
	fmt.Printf("ITR  %s  due %s\n", ay, due.Format("2006-01-02"))

	start, err := dateutil.ParseAssessmentYear(ay)
	if err != nil {
		panic(err)
	}
	fy := dateutil.FormatYearPair(start - 1)

	for q := 1; q <= 4; q++ {
		printGST(domain.ReturnGSTR1, fmt.Sprintf("%s-Q%d", fy, q))
	}
	for _, m := range []string{"04", "05", "06", "07", "08", "09", "10", "11", "12", "01", "02", "03"} {
		year := start - 1
		if m < "04" {
			year = start
		}
		printGST(domain.ReturnGSTR3B, fmt.Sprintf("%d-%s", year, m))
	}
	for _, rt := range []domain.ReturnType{domain.ReturnGSTR4, domain.ReturnGSTR9, domain.ReturnGSTR9C} {
		printGST(rt, fy)
	}
}

func printGST(rt domain.ReturnType, period string) {
	p, err := dateutil.ParseReturnPeriod(period)
	if err != nil {
		panic(err)
	}
	due, err := dateutil.GSTDueDate(string(rt), p)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%-6s %-11s due %s\n", rt, period, due.Format("2006-01-02"))
}
