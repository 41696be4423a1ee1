package common

import "errors"

// Sentinel errors shared across stores and the book core. Callers match
// them with errors.Is; stores wrap them with context via fmt.Errorf("%w").
var (
	// ErrNotFound means the referenced contact does not exist in the
	// source. An existing contact id with an empty display name header is
	// treated the same way on point lookups.
	ErrNotFound = errors.New("contact not found")

	// ErrPermissionDenied means the source refused access to contact
	// data. Bulk listings swallow it and degrade to an empty result;
	// everything else surfaces it.
	ErrPermissionDenied = errors.New("contact store access denied")

	// ErrInvalidAddress means a value failed wallet address validation.
	// It is returned before any store write happens.
	ErrInvalidAddress = errors.New("invalid wallet address")
)
