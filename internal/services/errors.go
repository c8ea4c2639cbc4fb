package services

import "errors"

var (
	// ErrCredentialNotFound means the id does not resolve to a credential row.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialFinalized means the row already left pending for a
	// different terminal state than the requested one.
	ErrCredentialFinalized = errors.New("credential already finalized")

	// ErrPaymentNotFound means no payment matches the callback's request id.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrGatewayUnavailable means the mobile-money charge could not be
	// requested; the application row is retained as pending.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
