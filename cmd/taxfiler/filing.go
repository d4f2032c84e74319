package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/taxportal/filing-engine/internal/domain"
	"github.com/taxportal/filing-engine/internal/lifecycle"
	"github.com/taxportal/filing-engine/internal/output"
	"github.com/taxportal/filing-engine/internal/service"
)

func newFilingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filing",
		Short: "Create and move ITR/GST filings through their lifecycle",
	}
	cmd.AddCommand(
		newFilingCreateCmd(a),
		newFilingShowCmd(a),
		newFilingItemsCmd(a),
		newFilingTransitionCmd(a),
		newFilingDeleteCmd(a),
		newFilingSheetCmd(a),
	)
	return cmd
}

// withService runs fn against a filing service and closes the store afterwards.
func (a *app) withService(cmd *cobra.Command, fn func(svc *service.FilingService) error) error {
	svc, closeFn, err := a.filingService(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}

func parseRate(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	r, err := decimal.NewFromString(s)
	if err != nil {
		return nil, domain.Newf(domain.CodeInvalidInput, "--rate: invalid percentage %q", s)
	}
	return &r, nil
}

func newFilingCreateCmd(a *app) *cobra.Command {
	var (
		kind, period, regime, returnType, rate string
		identity                               domain.Identity
		items                                  []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft filing",
		Example: `  taxfiler filing create --kind itr --period 2025-26 --pan ABCDE1234F --item salaryIncome=1200000
  taxfiler filing create --kind gst --period 2025-04 --gstin 27ABCDE1234F1Z5 --return-type GSTR3B --item b2bSales=500000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := domain.ParseKind(kind)
			if err != nil {
				return err
			}
			opts := lifecycle.DraftOptions{}
			if regime != "" {
				if opts.Regime, err = domain.ParseRegime(regime); err != nil {
					return err
				}
			}
			if returnType != "" {
				if opts.ReturnType, err = domain.ParseReturnType(returnType); err != nil {
					return err
				}
			}
			if opts.RatePercent, err = parseRate(rate); err != nil {
				return err
			}
			if opts.LineItems, err = parseItems(items); err != nil {
				return err
			}
			return a.withService(cmd, func(svc *service.FilingService) error {
				rec, err := svc.CreateDraft(cmd.Context(), k, period, identity, opts)
				if err != nil {
					return err
				}
				return a.write(cmd, &output.Report{Filing: rec})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&kind, "kind", "", "ITR or GST")
	f.StringVar(&period, "period", "", "assessment year (ITR) or return period (GST)")
	f.StringVar(&identity.PAN, "pan", "", "PAN (ITR)")
	f.StringVar(&identity.Aadhaar, "aadhaar", "", "Aadhaar (ITR)")
	f.StringVar(&identity.FullName, "name", "", "full name (ITR)")
	f.StringVar(&identity.GSTIN, "gstin", "", "GSTIN (GST)")
	f.StringVar(&identity.TradeName, "trade-name", "", "trade name (GST)")
	f.StringVar(&regime, "regime", "", "old or new (ITR, default new)")
	f.StringVar(&returnType, "return-type", "", "GSTR1, GSTR3B, GSTR4, GSTR9 or GSTR9C (GST)")
	f.StringVar(&rate, "rate", "", "GST rate in percent (GST, default 18)")
	f.StringArrayVar(&items, "item", nil, "line item as key=amount (repeatable)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newFilingShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a filing with its derived totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(svc *service.FilingService) error {
				rec, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.write(cmd, &output.Report{Filing: rec})
			})
		},
	}
}

// actorFlags are shared by every mutating filing command.
type actorFlags struct {
	role      string
	ifVersion int64
}

func (af *actorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&af.role, "role", string(domain.RoleFiler), "acting role: FILER, REVIEWER (CA) or ADMIN")
	cmd.Flags().Int64Var(&af.ifVersion, "if-version", 0, "fail unless the filing is at this version")
}

func newFilingItemsCmd(a *app) *cobra.Command {
	var (
		actor    actorFlags
		set      []string
		remove   []string
		regime   string
		rate     string
		override bool
	)
	cmd := &cobra.Command{
		Use:     "items <id>",
		Short:   "Change line items, regime or GST rate of a filing",
		Example: `  taxfiler filing items 5f0c... --set tdsDeducted=70000 --remove otherIncome`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(actor.role)
			if err != nil {
				return err
			}
			patch := lifecycle.LineItemPatch{Remove: remove, AdminOverride: override}
			if patch.Set, err = parseItems(set); err != nil {
				return err
			}
			if regime != "" {
				r, err := domain.ParseRegime(regime)
				if err != nil {
					return err
				}
				patch.Regime = &r
			}
			if patch.RatePercent, err = parseRate(rate); err != nil {
				return err
			}
			return a.withService(cmd, func(svc *service.FilingService) error {
				rec, err := svc.UpdateLineItems(cmd.Context(), args[0], role, patch, actor.ifVersion)
				if err != nil {
					return err
				}
				return a.write(cmd, &output.Report{Filing: rec})
			})
		},
	}
	actor.register(cmd)
	f := cmd.Flags()
	f.StringArrayVar(&set, "set", nil, "set a line item as key=amount (repeatable)")
	f.StringArrayVar(&remove, "remove", nil, "remove a line item (repeatable)")
	f.StringVar(&regime, "regime", "", "switch regime (ITR)")
	f.StringVar(&rate, "rate", "", "GST rate in percent (GST)")
	f.BoolVar(&override, "override", false, "admin override while under review")
	return cmd
}

func newFilingTransitionCmd(a *app) *cobra.Command {
	var (
		actor   actorFlags
		payload lifecycle.TransitionPayload
	)
	cmd := &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Move a filing to its next status",
		Example: `  taxfiler filing transition 5f0c... DOCUMENTS_PENDING
  taxfiler filing transition 5f0c... CA_ASSIGNED --role REVIEWER --assign ca-17
  taxfiler filing transition 5f0c... REJECTED --role CA --reason "PAN mismatch"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(actor.role)
			if err != nil {
				return err
			}
			target, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return a.withService(cmd, func(svc *service.FilingService) error {
				rec, err := svc.Transition(cmd.Context(), args[0], target, role, payload, actor.ifVersion)
				if err != nil {
					return err
				}
				return a.write(cmd, &output.Report{Filing: rec})
			})
		},
	}
	actor.register(cmd)
	f := cmd.Flags()
	f.StringVar(&payload.AcknowledgmentNo, "ack", "", "acknowledgment number (FILED)")
	f.StringVar(&payload.AssignedTo, "assign", "", "reviewer to assign (CA_ASSIGNED)")
	f.StringVar(&payload.Reason, "reason", "", "rejection reason (REJECTED)")
	f.StringVar(&payload.Remarks, "remarks", "", "remarks to append")
	return cmd
}

func newFilingDeleteCmd(a *app) *cobra.Command {
	var actor actorFlags
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft filing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(actor.role)
			if err != nil {
				return err
			}
			return a.withService(cmd, func(svc *service.FilingService) error {
				if err := svc.Delete(cmd.Context(), args[0], role, actor.ifVersion); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
	actor.register(cmd)
	return cmd
}

func newFilingSheetCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sheet <id>",
		Short: "Write the computation sheet PDF of a filing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if path == "" {
				path = args[0] + ".pdf"
			}
			return a.withService(cmd, func(svc *service.FilingService) error {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				if err := svc.Sheet(cmd.Context(), args[0], f); err != nil {
					f.Close()
					os.Remove(path)
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <id>.pdf)")
	return cmd
}
