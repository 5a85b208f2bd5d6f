package domain

import (
	"fmt"
	"strings"
)

// Outcome is the result an action ends with.
type Outcome string

const (
	Pass Outcome = "pass"
	Fail Outcome = "fail"
)

// RunResult is the Success/Failure view of an Outcome.
type RunResult = Outcome

const (
	Success RunResult = Pass
	Failure RunResult = Fail
)

// IsPass reports whether o is Pass.
func (o Outcome) IsPass() bool { return o == Pass }

// Invert swaps Pass and Fail.
func (o Outcome) Invert() Outcome {
	if o == Pass {
		return Fail
	}
	return Pass
}

// Valid reports whether o is Pass or Fail.
func (o Outcome) Valid() bool {
	return o == Pass || o == Fail
}

// OutcomeOf maps a boolean to an Outcome.
func OutcomeOf(ok bool) Outcome {
	if ok {
		return Pass
	}
	return Fail
}

// ParseOutcome accepts the spellings used in definition files.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "success", "ok", "true":
		return Pass, nil
	case "fail", "failure", "false":
		return Fail, nil
	}
	return "", fmt.Errorf("invalid outcome %q", s)
}
