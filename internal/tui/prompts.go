package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInteractiveDisabled is returned when a prompt is needed but stdin is not a terminal
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

// PromptConfirm asks a yes/no question, defaulting to no
func PromptConfirm(_ context.Context, question string) (bool, error) {
	if !IsTTY() {
		return false, ErrInteractiveDisabled
	}

	answer := false
	prompt := &survey.Confirm{
		Message: question,
		Default: false,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, fmt.Errorf("canceled")
		}
		return false, err
	}
	return answer, nil
}
