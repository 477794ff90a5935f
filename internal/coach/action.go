package coach

import (
	"fmt"
	"strings"
)

// Action is the user's verdict on an email.
type Action int

const (
	// ActionReport flags the email as phishing.
	ActionReport Action = iota
	// ActionAllow flags the email as legitimate.
	ActionAllow
)

// IsPhishing reports whether the action claims the email is phishing.
func (a Action) IsPhishing() bool {
	return a == ActionReport
}

// Label is the user turn text recorded for the action.
func (a Action) Label() string {
	if a.IsPhishing() {
		return "Flag as Phishing"
	}
	return "Flag as Legitimate"
}

func (a Action) String() string {
	if a.IsPhishing() {
		return "report"
	}
	return "allow"
}

// ParseAction converts command-line input into an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "report", "phishing", "phish":
		return ActionReport, nil
	case "allow", "legit", "legitimate":
		return ActionAllow, nil
	}
	return 0, fmt.Errorf("%w: %q (want report or allow)", ErrUnknownAction, s)
}
