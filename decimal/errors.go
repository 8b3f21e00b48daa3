package decimal

import "errors"

// Sentinel causes carried by *Error. Match them with errors.Is.
var (
	ErrInvalidLiteral    = errors.New("invalid decimal literal")
	ErrPrecisionOverflow = errors.New("value exceeds precision")
	ErrInvalidScale      = errors.New("invalid precision/scale")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrShapeMismatch     = errors.New("precision/scale mismatch")
	ErrInvalidOperand    = errors.New("invalid operand")
)

// Error is the dedicated error kind for the decimal engine. It is distinct from
// validation issues because the engine is usable on its own.
type Error struct {
	Op    string // operation that failed, e.g. "div" or "parse"
	Input string // offending literal or operands, best-effort
	Err   error  // one of the sentinels above
}

func (e *Error) Error() string {
	msg := "decimal: " + e.Op + ": " + e.Err.Error()
	if e.Input != "" {
		msg += " (" + e.Input + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, input string, err error) *Error {
	return &Error{Op: op, Input: input, Err: err}
}

// IsDecimalError reports whether err is (or wraps) a *Error.
func IsDecimalError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
