package control

import "errors"

// Error kinds surfaced by the control loop and its reconfiguration port.
// Callers outside this package match these with errors.Is to decide
// policy (httpapi maps ErrConfigurationRejected to a 422 response).
var (
	// ErrInvalidMode indicates Mode and OperationMode were found in a
	// combination that should be unreachable. It is fatal.
	ErrInvalidMode = errors.New("control: invalid mode/operation_mode combination")

	// ErrConfigurationRejected is returned by ApplyConfig when the
	// proposed Configuration fails validation. Configuration and the
	// regulator are left unmodified.
	ErrConfigurationRejected = errors.New("control: configuration rejected")
)
