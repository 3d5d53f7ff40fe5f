package pipeline

import "fmt"

// State is a position in the flow state machine. Transitions are strictly
// sequential: Idle, Fetching, ValidatingEnvelope, Decrypting, Parsing,
// ValidatingRecords, Forwarding, then Succeeded or Failed.
type State string

const (
	StateIdle               State = "idle"
	StateFetching           State = "fetching"
	StateValidatingEnvelope State = "validating_envelope"
	StateDecrypting         State = "decrypting"
	StateParsing            State = "parsing"
	StateValidatingRecords  State = "validating_records"
	StateForwarding         State = "forwarding"
	StateSucceeded          State = "succeeded"
	StateFailed             State = "failed"
)

// Stage names the pipeline stage a failure is attributed to.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageEnvelope Stage = "envelope"
	StageDecrypt  Stage = "decrypt"
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StageForward  Stage = "forward"
)

// StageError attributes a flow failure to the stage that produced it.
// Later stages never ran.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the originating error.
func (e *StageError) Unwrap() error {
	return e.Err
}
