package params

import "time"

const (
	// DefaultReviewBlockLimit is the trailing window, in blocks, the Review
	// scheduler revisits on every idle head-poll.
	DefaultReviewBlockLimit = 10

	// DefaultComprehensiveReviewBlockLimit is the longer trailing window
	// revisited every DefaultComprehensiveReviewCountMod'th idle poll.
	DefaultComprehensiveReviewBlockLimit = 100

	// DefaultComprehensiveReviewCountMod selects which review window runs:
	// counter % DefaultComprehensiveReviewCountMod == 0 triggers the
	// comprehensive (long) window.
	DefaultComprehensiveReviewCountMod = 10
)

const (
	// DefaultShortReviewSleep follows a short-window review pass.
	DefaultShortReviewSleep = 2500 * time.Millisecond

	// DefaultLongReviewSleep follows a comprehensive-window review pass.
	DefaultLongReviewSleep = 15000 * time.Millisecond

	// DefaultFatalExitSleep is held before a fatal fetch error terminates
	// the process, to avoid tight crash loops under a process supervisor.
	DefaultFatalExitSleep = 2500 * time.Millisecond

	// DefaultPersistFailureSleep is held before a failed persist
	// transaction terminates the process.
	DefaultPersistFailureSleep = 1000 * time.Millisecond
)
