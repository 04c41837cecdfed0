package ledger

// Context carries the per-call configuration the engine needs. The core
// never reads ambient state: the caller supplies the user's base currency
// explicitly with every engine call.
type Context struct {
	// BaseCurrency is the user's primary currency. All cross-currency
	// conversions resolve through it.
	BaseCurrency string
}
