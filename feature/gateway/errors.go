package gateway

import "library-rental/core/errs"

// domainError carries the stable error code into the GraphQL error
// extensions, where clients dispatch on it (e.g. UNAUTHENTICATED).
type domainError struct {
	err error
}

func (e *domainError) Error() string { return e.err.Error() }

func (e *domainError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": errs.Code(e.err)}
}

// wrapErr tags resolver errors with their domain code. Nil stays nil.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return &domainError{err: err}
}
