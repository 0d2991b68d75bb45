package model

// State represents the lifecycle position of a single download request
type State string

const (
	// StateIdle means the request was created but nothing ran yet
	StateIdle State = "Idle"

	// StateMetadataFetched means the engine returned video metadata
	StateMetadataFetched State = "MetadataFetched"

	// StateFormatResolved means a format was chosen for the request
	StateFormatResolved State = "FormatResolved"

	// StateTransferring means the engine is downloading or post-processing
	StateTransferring State = "Transferring"

	// StateCompleted means the output file was located and sized
	StateCompleted State = "Completed"

	// StateFailed means the request stopped with an error
	StateFailed State = "Failed"
)

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// IsActive returns true while the request is between start and a terminal state
func (s State) IsActive() bool {
	return s == StateMetadataFetched || s == StateFormatResolved || s == StateTransferring
}

// IsFinished returns true if the request reached a terminal state
func (s State) IsFinished() bool {
	return s == StateCompleted || s == StateFailed
}
