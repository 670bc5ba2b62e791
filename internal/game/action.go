package game

import "fmt"

// InputRequest describes what the pending action needs from the host.
// Kind names the InputResponse kind the action accepts.
type InputRequest interface {
	Kind() string
}

// InputResponse is the host's answer to an InputRequest.
type InputResponse interface {
	Kind() string
}

// Action is one role's (or the game's) contribution to a phase.
//
// Actions hold only names and RoleRefs, never player or role values, so
// the same action stays valid against every later snapshot.
type Action interface {
	// Name identifies the action, e.g. "werewolf" or "day_vote".
	Name() string

	// Actor is the acting player, or "" for actions issued by the game.
	Actor() string

	// InputRequest describes the input the action needs in s.
	InputRequest(s *State) (InputRequest, error)

	// Transform applies resp to s and returns the resulting state.
	Transform(s *State, resp InputResponse) (*State, error)
}

// TypedAction is an action over its own concrete request and response
// types. Wrap it with Typed to get an Action.
type TypedAction[Req InputRequest, Resp InputResponse] interface {
	Request(s *State) (Req, error)
	Apply(s *State, resp Resp) (*State, error)
}

// Typed adapts a TypedAction. Transform fails with
// INCOMPATIBLE_INPUT_TYPE when the response is not a Resp.
func Typed[Req InputRequest, Resp InputResponse](name, actor string, impl TypedAction[Req, Resp]) Action {
	return &typedAction[Req, Resp]{name: name, actor: actor, impl: impl}
}

type typedAction[Req InputRequest, Resp InputResponse] struct {
	name  string
	actor string
	impl  TypedAction[Req, Resp]
}

func (a *typedAction[Req, Resp]) Name() string { return a.name }
func (a *typedAction[Req, Resp]) Actor() string { return a.actor }

func (a *typedAction[Req, Resp]) InputRequest(s *State) (InputRequest, error) {
	return a.impl.Request(s)
}

func (a *typedAction[Req, Resp]) Transform(s *State, resp InputResponse) (*State, error) {
	typed, ok := resp.(Resp)
	if !ok {
		var want Resp
		got := "<nil>"
		if resp != nil {
			got = fmt.Sprintf("%T", resp)
		}
		return nil, &GameError{
			Code:    ErrCodeIncompatibleInput,
			Message: fmt.Sprintf("action %s requires %T, got %s", a.name, want, got),
			State:   s.actionState,
			Player:  a.actor,
			Details: map[string]string{
				"expected": fmt.Sprintf("%T", want),
				"actual":   got,
			},
		}
	}
	return a.impl.Apply(s, typed)
}
