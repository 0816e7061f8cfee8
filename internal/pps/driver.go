package pps

// ppsLine is the minimal interface the service needs from an edge-event
// GPIO line. The backend invokes the pulse callback passed at open time.
//
// Close should be best-effort and release the line for other consumers.
type ppsLine interface {
	Close() error
}
