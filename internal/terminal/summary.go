// Package terminal renders sessions for the command line and runs the
// interactive terminal editor.
package terminal

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kikiluvv/trimlab/internal/compose"
	"github.com/kikiluvv/trimlab/internal/media"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827"))
)

type row struct {
	label string
	value string
}

func renderRows(rows []row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(r.label), valueStyle.Render(r.value)))
	}
	return infoStyle.Render(strings.Join(lines, "\n"))
}

// RenderAsset summarizes a loaded source.
func RenderAsset(asset *media.SourceAsset) string {
	rows := []row{
		{"File:", filepath.Base(asset.URI)},
		{"Duration:", FormatClock(asset.Duration.Seconds())},
	}

	if video, ok := asset.VideoTrack(); ok {
		rows = append(rows,
			row{"Video:", fmt.Sprintf("%s %s @ %.2f fps", video.Codec, video.NaturalSize, video.FrameRate)},
			row{"Orientation:", media.ClassifyOrientation(video.Transform).String()},
		)
	} else {
		rows = append(rows, row{"Video:", "none"})
	}

	audio := "none"
	if tracks := asset.TracksOf(media.KindAudio); len(tracks) > 0 {
		audio = fmt.Sprintf("%d track(s), %s", len(tracks), tracks[0].Codec)
	}
	rows = append(rows, row{"Audio:", audio})

	return renderRows(rows)
}

// RenderOutput summarizes a composed output.
func RenderOutput(out *compose.Output) string {
	return renderRows([]row{
		{"Source:", filepath.Base(out.Source)},
		{"Window:", fmt.Sprintf("%s - %s", FormatClock(out.Window.Start.Seconds()), FormatClock(out.Window.End().Seconds()))},
		{"Duration:", FormatClock(out.Duration().Seconds())},
		{"Render:", fmt.Sprintf("%s @ %.0f fps", out.Render.RenderSize, out.Render.FrameRate())},
		{"Filter:", out.Render.Processor.Name()},
		{"Rotation:", fmt.Sprintf("%s (%d°)", out.Orientation, out.Orientation.Rotation())},
	})
}

// RenderError formats err for display.
func RenderError(err error) string {
	return ErrorStyle.Render("✗ " + err.Error())
}

// FormatClock converts seconds to MM:SS.mmm
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds*1000 + 0.5)
	minutes := millis / 60000
	millis -= minutes * 60000
	return fmt.Sprintf("%02d:%02d.%03d", minutes, millis/1000, millis%1000)
}
