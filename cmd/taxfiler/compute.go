package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/internal/output"
)

func newIncomeCmd(a *app) *cobra.Command {
	var gross, deductions, regime, ay string
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Compute slab-wise income tax",
		Example: `  taxfiler income --gross 1000000
  taxfiler income --gross 1500000 --regime old --deductions 200000 --ay 2025-26`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseAmount("gross", gross)
			if err != nil {
				return err
			}
			d, err := parseAmount("deductions", deductions)
			if err != nil {
				return err
			}
			r, err := domain.ParseRegime(regime)
			if err != nil {
				return err
			}
			bd, err := a.engine.IncomeTax(g, r, d, ay)
			if err != nil {
				return err
			}
			return a.write(cmd, &output.Report{IncomeTax: bd})
		},
	}
	cmd.Flags().StringVar(&gross, "gross", "", "gross income")
	cmd.Flags().StringVar(&deductions, "deductions", "", "deductions claimed (old regime only)")
	cmd.Flags().StringVar(&regime, "regime", string(domain.RegimeNew), "tax regime: old or new")
	cmd.Flags().StringVar(&ay, "ay", "", "assessment year, e.g. 2025-26 (default latest table)")
	_ = cmd.MarkFlagRequired("gross")
	return cmd
}

func newGSTCmd(a *app) *cobra.Command {
	var amount, rate, mode string
	cmd := &cobra.Command{
		Use:   "gst",
		Short: "Compute GST with its CGST/SGST split",
		Example: `  taxfiler gst --amount 10000 --rate 18
  taxfiler gst --amount 11800 --rate 18 --mode inclusive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			r, err := decimal.NewFromString(rate)
			if err != nil {
				return domain.Newf(domain.CodeInvalidInput, "--rate: invalid percentage %q", rate)
			}
			m, err := domain.ParseGSTMode(mode)
			if err != nil {
				return err
			}
			bd, err := a.engine.GST(amt, r, m)
			if err != nil {
				return err
			}
			return a.write(cmd, &output.Report{GST: bd})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "amount")
	cmd.Flags().StringVar(&rate, "rate", "18", "GST rate in percent")
	cmd.Flags().StringVar(&mode, "mode", string(domain.GSTExclusive), "exclusive or inclusive")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
