package thing

// Kind names reported by the engine's counters.
const (
	// KindRequest is the kind name of Request values.
	KindRequest = "Request"

	// KindResponse is the kind name of Response values.
	KindResponse = "Response"

	// KindItem is the kind name of Item values.
	KindItem = "Item"
)

// Thing is the umbrella interface for values flowing through a pipeline
// chain. A pipeline receives one Thing and returns a replacement or an
// error; the engine only needs the kind name for bookkeeping.
type Thing interface {
	// Kind returns the kind name used for report counters.
	Kind() string
}
