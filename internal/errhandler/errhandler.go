package errhandler

import (
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
)

// IsCancellation reports whether the error is the user backing out of an
// interactive prompt rather than a real failure.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, huh.ErrUserAborted) {
		return true
	}
	return strings.Contains(err.Error(), "interrupt")
}

// Handle prints the error. Prompt cancellations render as a warning and
// report a clean exit; everything else is an error exit.
func Handle(err error) (exitCode int) {
	if IsCancellation(err) {
		pterm.Warning.Println("Operation cancelled")
		return 0
	}

	pterm.Error.Println(capitalize(err.Error()))
	return 1
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
