package entities

import "errors"

// Error taxonomy for the generation pipeline. Callers match with errors.Is;
// everything else is wrapped context around one of these sentinels.
var (
	// ErrInvalidTenantID means sanitization produced an empty or rejected
	// identifier. No storage handle may be opened for it.
	ErrInvalidTenantID = errors.New("invalid tenant id")

	// ErrGeneration means the generation service failed or returned text that
	// could not be repaired into the expected JSON shape.
	ErrGeneration = errors.New("generation service error")

	// ErrValidation means a generated record violates a structural rule and
	// was rejected before persistence.
	ErrValidation = errors.New("validation error")

	// ErrDuplicatePactKey means the store's uniqueness constraint on the
	// canonical faction pair fired. Treated as "already exists", not a failure.
	ErrDuplicatePactKey = errors.New("pact already exists for faction pair")

	// ErrStorage covers any other persistence failure.
	ErrStorage = errors.New("storage error")
)
