package contract

import "errors"

var (
	ErrContractNotFound       = errors.New("contract not found")
	ErrNoActiveContract       = errors.New("department has no active contract")
	ErrActiveContractOverlap  = errors.New("department already has an active contract in that window")
	ErrResourceNotFound       = errors.New("contract resource not found")
	ErrResourceAlreadyExists  = errors.New("employee is already a resource on this contract")
	ErrNegativeBillingRate    = errors.New("billing rate must not be negative")
)
