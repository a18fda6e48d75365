package entities

// StepStatus is the outcome of one promotion step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepResult records how a named step of the tag-and-promote sequence ended.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

// StepObserver receives progress for each promotion step as it finishes.
type StepObserver func(result StepResult)
