package kernel

import "fmt"

// ErrorKind classifies the fatal error conditions the core can raise:
// confinement violations, duplicate registration, unauthorized resolve,
// and dispatch to a missing vat are all fatal to the turn that triggered
// them. Dead-letter delivery is deliberately not a kind here: it is
// non-fatal and is reported as a promise rejection, never as an error
// return.
type ErrorKind uint8

const (
	// ErrConfinementViolation: outbound-mapping an id the vat was never
	// granted, or calling get_outbound on an untranslated identifier.
	ErrConfinementViolation ErrorKind = iota
	// ErrDuplicateRegistration: c_list.add on an already-present id.
	ErrDuplicateRegistration
	// ErrUnauthorizedResolve: resolve called by a non-decider, or on an
	// already-resolved promise.
	ErrUnauthorizedResolve
	// ErrMissingVat: dispatch addressed to an unregistered VatId.
	ErrMissingVat
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfinementViolation:
		return "confinement violation"
	case ErrDuplicateRegistration:
		return "duplicate registration"
	case ErrUnauthorizedResolve:
		return "unauthorized resolve"
	case ErrMissingVat:
		return "missing vat"
	default:
		return "unknown error"
	}
}

// FatalError is returned for any of the four fatal conditions above. The
// core never attempts to recover from one itself: the caller (the
// scheduler, a syscall, or the controller driving it) decides whether to
// halt the offending vat or the whole process.
type FatalError struct {
	Kind   ErrorKind
	Detail string
}

func (e *FatalError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}
