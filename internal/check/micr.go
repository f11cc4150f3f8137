package check

// Sentinels used on the printed MICR line (Unicode OCR block).
const (
	SymbolTransit = "⑆" // ⑆ brackets the routing number
	SymbolAmount  = "⑇" // ⑇ brackets the encoded amount (bank use)
	SymbolOnUs    = "⑈" // ⑈ brackets the check number, ends the account field
)

// MICRLine formats the machine-readable line printed along the bottom of a
// check: ⑈check⑈ ⑆routing⑆ account⑈. Fields are emitted verbatim; empty
// fields keep their symbols so the printed spacing stays fixed.
func MICRLine(checkNumber, routingNumber, accountNumber string) string {
	return SymbolOnUs + checkNumber + SymbolOnUs +
		" " + SymbolTransit + routingNumber + SymbolTransit +
		" " + accountNumber + SymbolOnUs
}
