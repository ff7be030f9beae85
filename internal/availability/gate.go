package availability

import "fmt"

// ClosedError is the expected, user-facing error returned when an order is
// submitted against a shop that is not currently open.  It carries the
// resolved status and message so handlers can render a specific reason
// without string-matching.
type ClosedError struct {
	Status  string // force_close | holiday | opens_later | closed
	Message string
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("store closed (%s): %s", e.Status, e.Message)
}

// Gate enforces the "closed shops cannot receive orders" rule.  It returns
// a *ClosedError when the verdict is not open and nil otherwise.  The order
// creation path must call this before persisting anything, regardless of
// what the client UI showed.
func Gate(st Status) error {
	if st.IsOpen {
		return nil
	}
	return &ClosedError{Status: st.Status, Message: st.Message}
}
