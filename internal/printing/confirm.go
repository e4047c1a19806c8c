package printing

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfirmationRequired is returned when confirmation is needed but prompting is not possible
	ErrConfirmationRequired = errors.New("confirmation required: use --yes flag in non-interactive mode")

	// ErrAborted is returned when the user declines a confirmation
	ErrAborted = errors.New("aborted")
)

// Confirm asks a yes/no question. The default answer is no.
// AssumeYes answers yes without prompting; a non-interactive printer without it
// returns ErrConfirmationRequired.
func (p *Printer) Confirm(question string) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if !p.Interactive {
		return false, ErrConfirmationRequired
	}

	reader := p.answers()
	for {
		_, _ = fmt.Fprint(p.Out, p.question.Render(questionPrefix)+question+" [y/N]: ")

		reply, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(reply))
		switch answer {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		if err != nil {
			return false, err
		}
		p.line("Please answer 'y' or 'n'.")
	}
}

// ConfirmOrAbort is Confirm returning ErrAborted when the answer is no
func (p *Printer) ConfirmOrAbort(question string) error {
	ok, err := p.Confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// answers returns the reader shared by all prompts, so input buffered by one
// prompt is still available to the next
func (p *Printer) answers() *bufio.Reader {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	return p.reader
}
