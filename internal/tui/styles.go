package tui

import "github.com/charmbracelet/lipgloss"

// Palette, as 256-colour codes.
const (
	colorAlarm   = "196" // red
	colorOK      = "42"  // green
	colorCaution = "226" // yellow
	colorPrompt  = "205" // pink
	colorField   = "86"  // cyan
	colorFaint   = "240" // dark gray
)

// bannerPadding is the horizontal padding inside the alarm banner.
const bannerPadding = 2

// PromptArrow leads the confirmation heading.
const PromptArrow = "▶ "

func bold(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AlarmStyle frames the message shown when the system clock could not be
// put back.
func AlarmStyle() lipgloss.Style {
	return bold(colorAlarm).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(colorAlarm)).
		Padding(0, bannerPadding)
}

// ErrorStyle is used for per-file and configuration failures.
func ErrorStyle() lipgloss.Style { return bold(colorAlarm) }

// WarningStyle is used for skipped files and drift warnings.
func WarningStyle() lipgloss.Style { return bold(colorCaution) }

// SuccessStyle is used for the run summary when nothing failed.
func SuccessStyle() lipgloss.Style { return bold(colorOK) }

// TitleStyle is the confirmation prompt heading.
func TitleStyle() lipgloss.Style { return bold(colorPrompt) }

// LabelStyle marks field names such as "file" and "ctime".
func LabelStyle() lipgloss.Style { return bold(colorField) }

// DimStyle is used for key hints and suggestions.
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorFaint))
}

func RenderAlarm(text string) string   { return AlarmStyle().Render(text) }
func RenderError(text string) string   { return ErrorStyle().Render(text) }
func RenderWarning(text string) string { return WarningStyle().Render(text) }
func RenderSuccess(text string) string { return SuccessStyle().Render(text) }
func RenderTitle(text string) string   { return TitleStyle().Render(text) }
func RenderLabel(text string) string   { return LabelStyle().Render(text) }
func RenderDim(text string) string     { return DimStyle().Render(text) }
