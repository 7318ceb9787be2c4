// Package ui provides styled CLI output for the pycpp driver, grounded on
// the teacher's lipgloss-based build reporter.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pycppx/pycpp/pkg/diag"
)

// Color palette.
var (
	colorPrimary = lipgloss.Color("#56C3F4") // Cyan
	colorSuccess = lipgloss.Color("#5AF78E") // Green
	colorWarning = lipgloss.Color("#F7DC6F") // Yellow
	colorError   = lipgloss.Color("#FF6B9D") // Pink/Red
	colorMuted   = lipgloss.Color("#6C7086") // Gray

	colorText   = lipgloss.Color("#CDD6F4") // Light text
	colorSubtle = lipgloss.Color("#7F849C") // Subtle text
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2).
			MarginBottom(1)

	styleVersion = lipgloss.NewStyle().
			Foreground(colorSubtle).
			Italic(true)

	styleSection = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginTop(1)

	styleFileInput = lipgloss.NewStyle().
			Foreground(colorText)

	styleFileOutput = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	styleStepLabel = lipgloss.NewStyle().
			Foreground(colorText).
			Width(12).
			Align(lipgloss.Left)

	styleStepTime = lipgloss.NewStyle().
			Foreground(colorSubtle).
			Italic(true)

	styleSnippet = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleIndent = lipgloss.NewStyle().
			PaddingLeft(2)
)

// BuildOutput manages the build output display for one `pycpp translate`
// invocation, across possibly several input files.
type BuildOutput struct {
	startTime  time.Time
	translated int
	degraded   int
}

// NewBuildOutput starts a new build report, timed from this call.
func NewBuildOutput() *BuildOutput {
	return &BuildOutput{startTime: time.Now()}
}

// PrintHeader prints the tool banner.
func (b *BuildOutput) PrintHeader(version string) {
	header := styleHeader.Render("pycpp")
	versionBadge := styleVersion.Render("v" + version)
	fmt.Println(header + " " + versionBadge)
}

// PrintBuildStart announces how many source files will be translated.
func (b *BuildOutput) PrintBuildStart(fileCount int) {
	var msg string
	if fileCount == 1 {
		msg = "Translating 1 file"
	} else {
		msg = fmt.Sprintf("Translating %d files", fileCount)
	}
	fmt.Println(styleSection.Render(msg))
}

// PrintFileStart announces the input/output pair about to be translated.
func (b *BuildOutput) PrintFileStart(inputPath, outputPath string) {
	input := styleFileInput.Render(inputPath)
	arrow := styleMuted.Render("->")
	output := styleFileOutput.Render(outputPath)
	fmt.Printf("  %s %s %s\n", input, arrow, output)
}

// PrintDiagnostics renders every degraded-translation Finding with its
// source snippet, and tallies it against the build's running totals.
func (b *BuildOutput) PrintDiagnostics(findings []diag.Finding, raw []string) {
	for _, f := range findings {
		b.degraded++
		label := styleStepLabel.Foreground(colorWarning).Bold(true).Render("degraded:") + " " + f.Reason
		fmt.Println(styleIndent.Render(label))
		snippet := diag.Snippet(raw, f.Line, f.EndLine)
		fmt.Println(styleIndent.Render(styleSnippet.Render(snippet)))
	}
}

// AddTranslated records count additional statements translated cleanly,
// for the final summary's ratio.
func (b *BuildOutput) AddTranslated(count int) {
	b.translated += count
}

// PrintSummary prints the final build summary line.
func (b *BuildOutput) PrintSummary(success bool, errorMsg string) {
	elapsed := time.Since(b.startTime)
	fmt.Println()

	if !success {
		line := styleError.Render("build failed")
		if errorMsg != "" {
			line += "\n" + styleError.Render("  error: ") + errorMsg
		}
		fmt.Println(line)
		return
	}

	total := b.translated + b.degraded
	ratio := ""
	if total > 0 {
		ratio = fmt.Sprintf(" (%d/%d statements translated, %d degraded)", b.translated, total, b.degraded)
	}
	fmt.Printf("%s%s %s\n",
		styleSuccess.Render("done"),
		ratio,
		styleStepTime.Render(formatDuration(elapsed)),
	)
}

// PrintError prints a standalone error line, used for I/O failures the
// driver reports without aborting the batch.
func (b *BuildOutput) PrintError(msg string) {
	fmt.Println(styleIndent.Render(styleError.Render("error: ") + msg))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// PrintVersion prints `pycpp version` output.
func PrintVersion(version string) {
	fmt.Println(styleHeader.Render("pycpp"))
	fmt.Printf("  %s %s\n", styleMuted.Render("version:"), styleSuccess.Render(version))
}
