package sandbox

import (
	"fmt"

	sdkerrors "cosmossdk.io/errors"
)

var (
	codespace        = "sandbox"
	ErrChainMismatch = sdkerrors.Register(codespace, 1, "node serves a different chain")
	ErrCounterparty  = sdkerrors.Register(codespace, 2, "invalid counterparty")
)

// Stage names the step of a workflow that failed.
type Stage string

const (
	StageConfig     Stage = "config"
	StageCredential Stage = "credential"
	StageConnect    Stage = "connect"
	StageQuery      Stage = "query"
	StageBuild      Stage = "build"
	StageSubmit     Stage = "submit"
)

// StageError tags an error with the stage it happened in. The underlying error stays reachable
// through errors.Is and errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
