package core

// Confirmer gates every mutating step on a yes/no answer. It can be
// backed by an interactive prompt, the auto-confirm mode, or a scripted
// test double.
type Confirmer interface {
	// Confirm asks the question and reports the answer. An error means
	// the answer could not be obtained, not that the user said no.
	Confirm(prompt string) (bool, error)
}

// AutoConfirm answers yes to everything. Selected by the --yes flag.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) (bool, error) { return true, nil }
