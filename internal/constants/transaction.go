package constants

const (
	// Date Layout
	DateFormat = "2006-01-02"

	// Decimal places amounts and exchange rates are quantized to before
	// they enter the ledger.
	AmountPlaces = 4
	RatePlaces   = 6
)
