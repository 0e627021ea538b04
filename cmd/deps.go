package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kartoza/kartoza-mini-recorder/internal/deps"
	"github.com/spf13/cobra"
)

var (
	depsOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	depsMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("#E95420"))
	depsSubtle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9A9EA0"))
	depsAccent  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BCD4"))
	depsHeading = lipgloss.NewStyle().Bold(true)
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Check the external tools the recorder uses",
	Long: `Report which external tools are installed.

ffmpeg (and xrandr on Linux) are needed to record. The rest add save
dialogs, desktop notifications and sounds, and are skipped when absent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		required, optional := deps.CheckAll()

		var b strings.Builder
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-16s %s\n", depsHeading.Render("Platform"), depsAccent.Render(platformName()))
		fmt.Fprintf(&b, "%-16s %s\n\n", depsHeading.Render("Capture"), depsAccent.Render(captureMethod()))

		missing := writeDepsSection(&b, "Needed to record", required, depsMissing.Render("missing"))
		writeDepsSection(&b, "Extras", optional, depsSubtle.Render("not installed"))

		if missing == 0 {
			b.WriteString(depsOK.Render("Ready to record.") + "\n")
		} else {
			b.WriteString(depsMissing.Render(fmt.Sprintf("%d needed tool(s) missing; install them and run this again.", missing)) + "\n")
		}

		fmt.Fprint(cmd.OutOrStdout(), b.String())
		return nil
	},
}

// writeDepsSection lists results under title and returns how many are absent
func writeDepsSection(b *strings.Builder, title string, results []deps.CheckResult, absent string) int {
	if len(results) == 0 {
		return 0
	}

	b.WriteString(depsHeading.Render(title) + "\n")
	count := 0
	for _, r := range results {
		where := absent
		if r.Available {
			where = depsSubtle.Render(r.Path)
		} else {
			count++
		}
		mark := depsOK.Render("✓")
		if !r.Available {
			mark = depsMissing.Render("✗")
		}
		fmt.Fprintf(b, "  %s %-12s %s\n", mark, r.Dependency.Name, where)
		fmt.Fprintf(b, "    %s\n", depsSubtle.Render(r.Dependency.Description))
	}
	b.WriteString("\n")
	return count
}

func platformName() string {
	target := deps.DetectOS()
	if target == deps.OSLinux {
		return fmt.Sprintf("%s (%s)", target, deps.GetDisplayServerName())
	}
	return string(target)
}

// captureMethod names the ffmpeg input used on this platform
func captureMethod() string {
	switch deps.DetectOS() {
	case deps.OSDarwin:
		return "ffmpeg avfoundation"
	case deps.OSWindows:
		return "ffmpeg gdigrab"
	}

	switch deps.DetectDisplayServer() {
	case deps.DisplayServerWayland:
		return "ffmpeg x11grab through XWayland (native Wayland capture is not supported)"
	case deps.DisplayServerX11:
		return "ffmpeg x11grab"
	default:
		return "unknown display server"
	}
}
