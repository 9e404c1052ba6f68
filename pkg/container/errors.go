package container

// errors.go mirrors pkg/config.go's sentinel errors: constructor-time
// validation failures are returned, never panicked, leaving the fail-fast
// halts in internal/objrt.Halt for the invariant violations spec.md §7
// lists as non-recoverable (bogus-object, uninitialized-runtime, ...).
//
// © 2025 hashkernel authors. MIT License.

import "errors"

var (
	// ErrInvalidCapacity is returned when a negative capacity hint is
	// supplied to a constructor.
	ErrInvalidCapacity = errors.New("hashkernel: capacity hint must be >= 0")

	// ErrIncompatibleFlags is returned when WithProbeFamily selects a value
	// other than zero, LinearHashing, DoubleHashing or ExponentialHashing.
	ErrIncompatibleFlags = errors.New("hashkernel: incompatible engine flags for this shape")
)
