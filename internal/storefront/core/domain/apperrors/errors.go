// Package apperrors defines the error taxonomy of the order API.
//
// Request errors carry the (scope, code, name) triple rendered into the
// {"errors": {scope: {code, name}}} envelope. The name strings are the ones
// the upstream shop services use, so they are kept verbatim (in French).
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an order id does not exist.
var ErrNotFound = errors.New("not found")

// ErrUpstreamUnavailable marks a payment request that never completed
// (network failure or timeout). The charge is not retried.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Code classifies a client-caused request failure.
type Code string

const (
	CodeMissingFields  Code = "missing-fields"
	CodeOutOfInventory Code = "out-of-inventory"
	CodeAlreadyPaid    Code = "already-paid"
)

// RequestError is a 422-class failure attributable to the client's input or
// to the order's current state. Scope is either "product" or "order".
type RequestError struct {
	Scope string
	Code  Code
	Name  string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Code, e.Scope, e.Name)
}

// MissingProductFields reports an order creation payload without a valid
// product id and quantity.
func MissingProductFields() *RequestError {
	return &RequestError{
		Scope: "product",
		Code:  CodeMissingFields,
		Name:  "La création d'une commande nécessite un produit",
	}
}

// MissingOrderFields reports an incomplete customer-information payload or an
// update payload that is neither customer information nor a credit card.
func MissingOrderFields() *RequestError {
	return &RequestError{
		Scope: "order",
		Code:  CodeMissingFields,
		Name:  "Il manque un ou plusieurs champs qui sont obligatoires",
	}
}

// CustomerInfoRequired reports a payment attempted before the order carries
// complete customer information, or alongside a customer-information payload.
func CustomerInfoRequired() *RequestError {
	return &RequestError{
		Scope: "order",
		Code:  CodeMissingFields,
		Name:  "Les informations du client sont nécessaire avant d'appliquer une carte de crédit",
	}
}

// OutOfInventory reports an order creation against an unknown or
// out-of-stock product.
func OutOfInventory() *RequestError {
	return &RequestError{
		Scope: "product",
		Code:  CodeOutOfInventory,
		Name:  "Le produit demandé n'est pas en inventaire",
	}
}

// AlreadyPaid reports a payment attempted on a settled order.
func AlreadyPaid() *RequestError {
	return &RequestError{
		Scope: "order",
		Code:  CodeAlreadyPaid,
		Name:  "La commande a déjà été payée.",
	}
}

// GatewayError carries a non-success response from the payment processor.
// The remote processor is the authority on payment failures: its status and
// body are forwarded to the caller untouched, never reinterpreted locally.
type GatewayError struct {
	StatusCode int
	Body       map[string]any
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway returned status %d", e.StatusCode)
}
