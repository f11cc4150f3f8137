package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"echeck-gateway/internal/check"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	payer       string
	payee       string
	amount      string
	memo        string
	checkNumber string
	date        string
	bankName    string
	bankAddress string
	routing     string
	account     string
	fractional  string
	asJSON      bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Render the front and back of a check",
		Example: "  echeckctl render --payer \"Acme Supply\" --payee \"Jane Roe\" --amount 125.50 --routing 021000021 --account 123456789",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := renderInstrument(opts)
			if err != nil {
				return err
			}
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(inst)
			}
			writeInstrumentTable(cmd.OutOrStdout(), inst)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.payer, "payer", "", "Business name printed as the payer")
	f.StringVar(&opts.payee, "payee", "", "Recipient name")
	f.StringVar(&opts.amount, "amount", "", "Amount in dollars, e.g. 125.50")
	f.StringVar(&opts.memo, "memo", "", "Memo line")
	f.StringVar(&opts.checkNumber, "check", "", "Check number")
	f.StringVar(&opts.date, "date", "", "Issue date (YYYY-MM-DD), default today")
	f.StringVar(&opts.bankName, "bank", "", "Drawing bank name")
	f.StringVar(&opts.bankAddress, "bank-address", "", "Address printed under the payer")
	f.StringVar(&opts.routing, "routing", "", "Routing number")
	f.StringVar(&opts.account, "account", "", "Account number")
	f.StringVar(&opts.fractional, "fractional", "", "Fractional routing, e.g. 11-35/1210")
	f.BoolVar(&opts.asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func renderInstrument(opts renderOptions) (*check.Instrument, error) {
	amount, err := decimal.NewFromString(opts.amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", opts.amount)
	}

	issued := time.Now()
	if opts.date != "" {
		if issued, err = time.Parse("2006-01-02", opts.date); err != nil {
			return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", opts.date)
		}
	}

	return check.Render(opts.payer, check.Payment{
		Amount:        amount,
		RecipientName: opts.payee,
		Memo:          opts.memo,
		CheckNumber:   opts.checkNumber,
		IssuedAt:      issued,
	}, check.Account{
		BankName:          opts.bankName,
		BankAddress:       opts.bankAddress,
		RoutingNumber:     opts.routing,
		AccountNumber:     opts.account,
		FractionalRouting: opts.fractional,
	})
}

func writeInstrumentTable(w io.Writer, inst *check.Instrument) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Side", "Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	front := [][2]string{
		{"Payer", inst.PayerName},
		{"Payer address", inst.PayerAddress},
		{"Bank", inst.BankName},
		{"Fractional routing", inst.FractionalRouting},
		{"Check number", inst.CheckNumber},
		{"Date", inst.Date},
		{"Pay to the order of", inst.PayeeName},
		{"Amount", "$" + inst.Amount},
		{"Amount in words", inst.AmountInWords},
		{"Memo", inst.Memo},
		{"MICR", inst.MICRLine},
	}
	for _, row := range front {
		table.Append([]string{"front", row[0], row[1]})
	}

	back := [][2]string{
		{"Heading", inst.Endorsement.Heading},
		{"Payee", inst.Endorsement.PayeeName},
		{"Restriction", inst.Endorsement.Restriction},
		{"Notice", inst.Endorsement.Notice},
		{"Reserved", inst.Endorsement.Reserved},
	}
	for _, row := range back {
		table.Append([]string{"back", row[0], row[1]})
	}

	table.Render()
}
