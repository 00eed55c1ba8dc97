package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a balance mutation would take an account
// below zero without the caller requesting a negative-balance allowance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrUnauthorized indicates a missing or invalid credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates an authenticated caller lacks a required role.
var ErrForbidden = errors.New("forbidden")

// ErrConcurrencyExhausted indicates the mutation engine gave up retrying a
// contended operation. The identical request is safe to retry because the
// idempotency key guarantees it is applied at most once.
var ErrConcurrencyExhausted = errors.New("concurrency retry budget exhausted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
