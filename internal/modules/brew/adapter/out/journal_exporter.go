package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"brewlog/internal/modules/brew/domain"
	brewout "brewlog/internal/modules/brew/port/out"
	"brewlog/internal/platform/markdown"
	"brewlog/internal/platform/slug"
)

const (
	journalBegin = "<!-- brewlog:begin -->"
	journalEnd   = "<!-- brewlog:end -->"
)

// MarkdownJournalExporter writes one brew-day note per session under
// <root>/journal/<yyyy>/<mm>/. Re-exporting rewrites the frontmatter and the
// generated block only; anything the brewer wrote around it is kept.
type MarkdownJournalExporter struct {
	root string
}

func NewMarkdownJournalExporter(root string) brewout.JournalExporter {
	return &MarkdownJournalExporter{root: root}
}

func (e *MarkdownJournalExporter) Export(_ context.Context, session domain.Session) (string, error) {
	date := session.CreatedAt
	dir := filepath.Join(e.root, "journal", date.Format("2006"), date.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("20060102"), slug.Make(session.Name))
	path := filepath.Join(dir, name)

	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             session.ID,
		"name":           session.Name,
		"style":          session.Style,
		"created_at":     date.Format("2006-01-02T15:04:05Z07:00"),
		"current_phase":  string(session.CurrentPhase),
		"step":           session.CurrentPhase.Step(),
		"timer_running":  session.TimerIsRunning,
	}
	if session.TimerDurationMinutes != nil {
		meta["timer_duration_minutes"] = *session.TimerDurationMinutes
	}
	if session.TimerRemainingSeconds != nil {
		meta["timer_remaining_seconds"] = *session.TimerRemainingSeconds
	}
	if session.TimerEndTime != nil {
		meta["timer_end_time"] = *session.TimerEndTime
	}

	note, err := loadNote(path, session)
	if err != nil {
		return "", err
	}
	note.Meta = meta
	note.ReplaceBlock(journalBegin, journalEnd, journalBody(session))
	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func loadNote(path string, session domain.Session) (markdown.Note, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return markdown.Note{Body: fmt.Sprintf("# %s\n", session.Name)}, nil
	}
	if err != nil {
		return markdown.Note{}, fmt.Errorf("read journal note: %w", err)
	}
	note, err := markdown.Parse(string(raw))
	if err != nil {
		return markdown.Note{}, fmt.Errorf("parse journal note %s: %w", path, err)
	}
	return note, nil
}

func journalBody(session domain.Session) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "- Style: %s\n- Phase: %s (step %d of %d)\n", session.Style, session.CurrentPhase, session.CurrentPhase.Step(), len(domain.PhaseOrder))
	for _, phase := range session.RecordedPhases() {
		data := session.Data[phase]
		fmt.Fprintf(&b, "\n## %s\n\n", phase)
		for _, field := range domain.FieldsFor(phase) {
			if field == domain.FieldNotes {
				continue
			}
			value := data.Value(field)
			if value == "" {
				continue
			}
			line := fmt.Sprintf("- %s: %s", field.Label(), value)
			if field.Temperature() {
				if converted := domain.ConvertTemperature(value, data.Unit()); converted != "" {
					line += fmt.Sprintf(" %s (%s)", data.Unit(), converted)
				}
			}
			b.WriteString(line + "\n")
		}
		if phase == domain.PhaseMashing {
			fmt.Fprintf(&b, "- Total Water: %s L\n", data.TotalWater())
		}
		if strings.TrimSpace(data.Notes) != "" {
			fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(data.Notes))
		}
	}
	return b.String()
}
