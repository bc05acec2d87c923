package loxerrors

// unwrapInterface is the shape errors.Unwrap looks for.
// The errors package checks for it by assertion and does not export it.
type unwrapInterface interface {
	Unwrap() error
}
