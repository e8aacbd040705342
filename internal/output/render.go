package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/linguist/internal/history"
	"github.com/ShayCichocki/linguist/pkg/models"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultWidth is the layout width used when the terminal width is unknown.
const DefaultWidth = 100

// ParseFormat parses a format name case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// RenderRun writes a single-provider result.
func RenderRun(w io.Writer, out *models.TaskRunOutput, f Format) error {
	if f != FormatText {
		return encode(w, out, f)
	}

	header := fmt.Sprintf("%s · %s · %s · ~%d tokens",
		out.Provider.DisplayName(), out.Model, formatLatency(out.LatencyMs), out.TokenEstimate)
	if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
		return err
	}
	for _, r := range out.Results {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", labelStyle.Render(r.Language.Name), r.Text); err != nil {
			return err
		}
	}
	return nil
}

// RenderCompare writes a compare result. Text output lays the provider cards
// out side by side within width.
func RenderCompare(w io.Writer, out *models.CompareRunOutput, f Format, width int) error {
	if f != FormatText {
		return encode(w, out, f)
	}
	if width <= 0 {
		width = DefaultWidth
	}

	n := len(out.Entries)
	if n == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}

	cardWidth := width / n
	stacked := cardWidth < 30
	if stacked {
		cardWidth = width
	}

	cards := make([]string, n)
	for i, e := range out.Entries {
		cards[i] = NewProviderCard(e, cardWidth).View()
	}

	var body string
	if stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	if _, err := fmt.Fprintln(w, body); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("~%d tokens", out.TokenEstimate)))
	return err
}

// RenderHistory writes a list of history entries, one per line.
func RenderHistory(w io.Writer, entries []history.Entry, f Format) error {
	if f != FormatText {
		return encode(w, entries, f)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history yet.")
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %-7s  %-8s  %-20s  %s",
			labelStyle.Render(e.ID),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Kind, e.Mode, e.Provider, truncate(e.InputText, 40))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistoryEntry writes one stored entry with its decoded output.
func RenderHistoryEntry(w io.Writer, e *history.Entry, f Format, width int) error {
	if f != FormatText {
		return encode(w, e, f)
	}

	fmt.Fprintf(w, "%s %s (%s, %s)\n", labelStyle.Render("Entry"), e.ID, e.Kind, e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%s\n%s\n\n", labelStyle.Render("Input"), e.InputText)

	switch e.Kind {
	case history.KindCompare:
		out, err := e.CompareOutput()
		if err != nil {
			return err
		}
		return RenderCompare(w, out, f, width)
	default:
		out, err := e.RunOutput()
		if err != nil {
			return err
		}
		return RenderRun(w, out, f)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// encode writes v as JSON or YAML. YAML goes through JSON first so both
// formats share field names.
func encode(w io.Writer, v any, f Format) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if f == FormatJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return enc.Close()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
