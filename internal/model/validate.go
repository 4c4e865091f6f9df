package model

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateProxy enforces the record invariant: non-empty name/server, port in
// range, supported type. Decoders call it before returning a record so a
// malformed one is never constructed.
func ValidateProxy(p Proxy) error {
	return validate.Struct(p)
}
