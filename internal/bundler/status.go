package bundler

// BuildStatus represents the state of a packaging run
type BuildStatus string

const (
	// StatusPending means the run is validated but not started
	StatusPending BuildStatus = "Pending"

	// StatusRunning means the bundler process is executing
	StatusRunning BuildStatus = "Running"

	// StatusSucceeded means the bundler exited zero
	StatusSucceeded BuildStatus = "Succeeded"

	// StatusFailed means the bundler exited non-zero or could not run
	StatusFailed BuildStatus = "Failed"

	// StatusCanceled means the run was interrupted before completion
	StatusCanceled BuildStatus = "Canceled"
)

// String returns the string representation of BuildStatus
func (s BuildStatus) String() string {
	return string(s)
}

// IsFinished returns true if the run reached a terminal state
func (s BuildStatus) IsFinished() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCanceled
}
