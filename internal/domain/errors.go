package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the content repository.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. adults below one, malformed booking date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrIncompleteCustomerInfo is returned by the checkout serializer when any of
// the required contact fields (name, hotel, contact, email) is empty.
// Checkout must not proceed and the itinerary must be left untouched.
var ErrIncompleteCustomerInfo = errors.New("incomplete customer info")

// ErrTranslationMissing is returned when neither the requested locale nor the
// fallback locale has a translation for an entity. Services treat the entity
// as not displayable and wrap ErrNotFound alongside it.
var ErrTranslationMissing = errors.New("translation missing")

// ErrMalformedDate marks an availability date that could not be parsed.
// The affected record is dropped; the error never reaches a caller.
var ErrMalformedDate = errors.New("malformed date")
