package domain

// SubmissionState tracks the single terminal action of the wizard.
// Transitions are idle -> submitting -> succeeded, or submitting -> idle on failure.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSucceeded  SubmissionState = "succeeded"
)
