package mirror

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State is where a selection ended up.
type State string

// Selection states. The rule-based result always exists first; a remote
// candidate can only replace it after validation.
const (
	StateRuleBasedComputed = "rule_based_computed"
	StateRemoteRequested   = "remote_requested"
	StateRemoteValidated   = "remote_validated"
	StateRemoteRejected    = "remote_rejected"
)

const (
	eventRequestRemote = "request_remote"
	eventAccept        = "accept"
	eventReject        = "reject"
)

// selection tracks one Analyze call through the states above.
type selection struct {
	interpreter *statekit.Interpreter[selectionContext]
}

type selectionContext struct {
	Provider string
}

func newSelection(provider string) (*selection, error) {
	builder := statekit.NewMachine[selectionContext]("result-selection").
		WithInitial(StateRuleBasedComputed).
		WithContext(selectionContext{Provider: provider})

	builder.State(StateRuleBasedComputed).
		On(eventRequestRemote).Target(StateRemoteRequested).
		Done()

	builder.State(StateRemoteRequested).
		On(eventAccept).Target(StateRemoteValidated).
		On(eventReject).Target(StateRemoteRejected).
		Done()

	builder.State(StateRemoteValidated).Done()
	builder.State(StateRemoteRejected).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build selection machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &selection{interpreter: interpreter}, nil
}

// send applies an event and reports whether the state changed.
func (s *selection) send(event string) bool {
	before := s.current()
	s.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	return s.current() != before
}

func (s *selection) current() State {
	return State(s.interpreter.State().Value)
}
