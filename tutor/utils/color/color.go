// historytutor/tutor/utils/color/color.go
package color

import (
	"github.com/fatih/color"
)

var (
	promptColor     = color.New(color.FgCyan, color.Bold)
	infoColor       = color.New(color.FgGreen)
	warningColor    = color.New(color.FgYellow, color.Bold)
	errorColor      = color.New(color.FgRed, color.Bold)
	tutorColor      = color.New(color.FgHiYellow, color.Bold)
	studentColor    = color.New(color.FgHiBlue, color.Bold)
	suggestionColor = color.New(color.FgMagenta)
	creditsColor    = color.New(color.FgHiGreen, color.Bold)
	titleColor      = color.New(color.FgYellow, color.Bold, color.Underline)
	faintColor      = color.New(color.Faint)
)

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorWarning(s string) string {
	return warningColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

// ColorTutor labels assistant turns.
func ColorTutor(s string) string {
	return tutorColor.Sprint(s)
}

func ColorStudent(s string) string {
	return studentColor.Sprint(s)
}

func ColorSuggestion(s string) string {
	return suggestionColor.Sprint(s)
}

func ColorCredits(s string) string {
	return creditsColor.Sprint(s)
}

func ColorTitle(s string) string {
	return titleColor.Sprint(s)
}

func ColorFaint(s string) string {
	return faintColor.Sprint(s)
}

// Disable turns colouring off, e.g. for --no-color.
func Disable() {
	color.NoColor = true
}
