//nolint:varnamelen // Test files use idiomatic short variable names (g, etc.)
package tui_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/touch-ctime/internal/tui"
)

func TestRenderFunctionsKeepText(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	for _, render := range []func(string) string{
		tui.RenderAlarm,
		tui.RenderDim,
		tui.RenderError,
		tui.RenderLabel,
		tui.RenderSuccess,
		tui.RenderTitle,
		tui.RenderWarning,
	} {
		g.Expect(render("ctime")).Should(ContainSubstring("ctime"))
	}
}

func TestAlarmIsFramed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	banner := tui.RenderAlarm("SYSTEM CLOCK NOT RESTORED")

	g.Expect(strings.Count(banner, "\n")).To(Equal(2))
	g.Expect(tui.AlarmStyle().GetBorderStyle()).To(Equal(lipgloss.DoubleBorder()))
}

func TestStylesUseDistinctColors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(tui.ErrorStyle().GetForeground()).NotTo(Equal(tui.WarningStyle().GetForeground()))
	g.Expect(tui.SuccessStyle().GetForeground()).NotTo(Equal(tui.ErrorStyle().GetForeground()))
	g.Expect(tui.LabelStyle().GetBold()).To(BeTrue())
	g.Expect(tui.DimStyle().GetBold()).To(BeFalse())
}
