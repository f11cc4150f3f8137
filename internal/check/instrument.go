package check

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Defaults applied when the issuer, payment or account leaves a field blank.
const (
	DefaultPayerName     = "Authorized Business Entity"
	DefaultPayeeName     = "Valued Recipient"
	DefaultPayerAddress  = "Authorized E-Check Issuer"
	DefaultBankName      = "Financial Institution"
	DefaultRoutingNumber = "000000000"
	DefaultAccountNumber = "000000000"
	DefaultCheckNumber   = "1001"
)

const (
	dateLayout       = "01/02/2006"
	memoDisplayLimit = 40
)

// Payment is the part of a sent transaction that appears on the instrument.
type Payment struct {
	Amount        decimal.Decimal
	RecipientName string
	Memo          string
	CheckNumber   string
	IssuedAt      time.Time
	SignatureData string // base64 raster, passed through untouched
}

// Account is the drawing bank account with its account number in clear.
type Account struct {
	BankName          string
	BankAddress       string
	RoutingNumber     string
	AccountNumber     string
	FractionalRouting string
}

// Instrument is the display-ready front and back of a check.
type Instrument struct {
	PayerName         string      `json:"payer_name"`
	PayerAddress      string      `json:"payer_address"`
	PayeeName         string      `json:"payee_name"`
	BankName          string      `json:"bank_name"`
	RoutingNumber     string      `json:"routing_number"`
	AccountNumber     string      `json:"account_number"`
	CheckNumber       string      `json:"check_number"`
	FractionalRouting string      `json:"fractional_routing,omitempty"`
	Date              string      `json:"date,omitempty"`
	Amount            string      `json:"amount"`
	AmountInWords     string      `json:"amount_in_words"`
	Memo              string      `json:"memo,omitempty"`
	SignatureData     string      `json:"signature_data,omitempty"`
	MICRLine          string      `json:"micr_line"`
	Endorsement       Endorsement `json:"endorsement"`
}

// Endorsement is the fixed back-of-check block.
type Endorsement struct {
	Heading     string `json:"heading"`
	PayeeName   string `json:"payee_name"`
	Restriction string `json:"restriction"`
	Notice      string `json:"notice"`
	Reserved    string `json:"reserved"`
}

// Render assembles the instrument view. Blank inputs fall back to the
// package defaults; the only failure is an amount AmountToWords rejects.
func Render(payerName string, p Payment, a Account) (*Instrument, error) {
	words, err := AmountToWords(p.Amount)
	if err != nil {
		return nil, err
	}

	payee := orDefault(p.RecipientName, DefaultPayeeName)
	routing := orDefault(a.RoutingNumber, DefaultRoutingNumber)
	account := orDefault(a.AccountNumber, DefaultAccountNumber)
	checkNumber := orDefault(p.CheckNumber, DefaultCheckNumber)

	inst := &Instrument{
		PayerName:         orDefault(payerName, DefaultPayerName),
		PayerAddress:      orDefault(a.BankAddress, DefaultPayerAddress),
		PayeeName:         payee,
		BankName:          orDefault(a.BankName, DefaultBankName),
		RoutingNumber:     routing,
		AccountNumber:     account,
		CheckNumber:       checkNumber,
		FractionalRouting: strings.TrimSpace(a.FractionalRouting),
		Amount:            FormatAmount(p.Amount),
		AmountInWords:     words,
		Memo:              TruncateMemo(p.Memo),
		SignatureData:     p.SignatureData,
		MICRLine:          MICRLine(checkNumber, routing, account),
		Endorsement: Endorsement{
			Heading:     "ENDORSE HERE",
			PayeeName:   payee,
			Restriction: "For Deposit Only",
			Notice:      "DO NOT WRITE, STAMP, OR SIGN BELOW THIS LINE",
			Reserved:    "RESERVED FOR FINANCIAL INSTITUTION USE",
		},
	}
	if !p.IssuedAt.IsZero() {
		inst.Date = p.IssuedAt.Format(dateLayout)
	}
	return inst, nil
}

// TruncateMemo shortens a memo to the width of the printed memo line.
func TruncateMemo(memo string) string {
	memo = strings.TrimSpace(memo)
	if utf8.RuneCountInString(memo) <= memoDisplayLimit {
		return memo
	}
	runes := []rune(memo)
	return strings.TrimSpace(string(runes[:memoDisplayLimit-1])) + "…"
}

// orDefault substitutes def for a blank value; non-blank values are kept verbatim.
func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
