package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

type detectMode int

const (
	detectModeInput detectMode = iota
	detectModeResults
	detectModeConfirm
)

var detectSources = []string{api.SourceGeneral, api.SourceEmail, api.SourceWhatsApp}

// Detect pastes free-form text (or an email, or a WhatsApp export) into the
// detection endpoint and turns confirmed suggestions into real tasks.
type Detect struct {
	client *api.Client
	store  *query.Store
	userID int64
	width  int
	height int

	input   textarea.Model
	source  int
	mode    detectMode
	results []api.DetectedTask
	cursor  int
	loading bool
	err     error
	message string
}

func NewDetect(client *api.Client, store *query.Store, userID int64) *Detect {
	input := textarea.New()
	input.Placeholder = "Paste text, an email, or a chat export..."
	input.SetWidth(70)
	input.SetHeight(8)
	input.CharLimit = 10000

	return &Detect{
		client: client,
		store:  store,
		userID: userID,
		input:  input,
	}
}

func (d *Detect) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.input.SetWidth(max(40, width-10))
}

type detectResultMsg struct {
	results []api.DetectedTask
	err     error
}

type detectCreatedMsg struct {
	title string
	err   error
}

func (d *Detect) Init() tea.Cmd {
	d.mode = detectModeInput
	d.message = ""
	d.input.Focus()
	return textarea.Blink
}

func (d *Detect) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detectResultMsg:
		d.loading = false
		d.err = msg.err
		if msg.err == nil {
			d.results = msg.results
			d.cursor = 0
			d.mode = detectModeResults
		}
		return nil

	case detectCreatedMsg:
		d.loading = false
		if msg.err != nil {
			d.err = msg.err
			d.mode = detectModeResults
			return nil
		}
		d.message = fmt.Sprintf("Created task '%s'", truncate(msg.title, 40))
		d.mode = detectModeResults
		return nil

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	if d.mode == detectModeInput {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return cmd
	}
	return nil
}

func (d *Detect) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch d.mode {
	case detectModeInput:
		switch msg.String() {
		case "ctrl+s":
			text := strings.TrimSpace(d.input.Value())
			if text == "" {
				d.err = fmt.Errorf("nothing to analyze")
				return nil
			}
			d.err = nil
			d.loading = true
			source := detectSources[d.source]
			return func() tea.Msg {
				resp, err := d.client.DetectTasks(context.Background(), text, source)
				if err != nil {
					return detectResultMsg{err: err}
				}
				return detectResultMsg{results: resp.DetectedTasks}
			}
		case "ctrl+t":
			d.source = (d.source + 1) % len(detectSources)
			return nil
		case "esc":
			return Navigate("dashboard")
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return cmd

	case detectModeResults:
		switch msg.String() {
		case "up", "k":
			if d.cursor > 0 {
				d.cursor--
			}
		case "down", "j":
			if d.cursor < len(d.results)-1 {
				d.cursor++
			}
		case "enter":
			if len(d.results) > 0 {
				d.mode = detectModeConfirm
			}
		case "b", "esc":
			d.mode = detectModeInput
			d.message = ""
			d.input.Focus()
			return textarea.Blink
		case "q":
			return Navigate("dashboard")
		}
		return nil

	case detectModeConfirm:
		switch msg.String() {
		case "y", "Y":
			return d.createTask(d.results[d.cursor])
		case "n", "N", "esc":
			d.mode = detectModeResults
		}
		return nil
	}
	return nil
}

// createTask promotes a suggestion into a real task. A missing estimated
// deadline falls back to one week out.
func (d *Detect) createTask(suggestion api.DetectedTask) tea.Cmd {
	d.mode = detectModeResults
	d.loading = true

	deadline := time.Now().UTC().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	if suggestion.EstimatedDeadline != nil && *suggestion.EstimatedDeadline != "" {
		deadline = *suggestion.EstimatedDeadline
	}
	priority := suggestion.Priority
	if priority == "" {
		priority = api.PriorityMedium
	}

	in := api.CreateTask{
		Title:       suggestion.Title,
		Description: suggestion.Description,
		Status:      api.StatusPending,
		Priority:    priority,
		AssignedTo:  d.userID,
		Deadline:    deadline,
	}
	createdBy := d.userID
	return func() tea.Msg {
		_, err := query.Mutate(context.Background(), d.store,
			func(ctx context.Context) (*api.Task, error) {
				return d.client.CreateTask(ctx, in, createdBy)
			}, "tasks")
		return detectCreatedMsg{title: suggestion.Title, err: err}
	}
}

func confidenceStyle(confidence float64) string {
	label := fmt.Sprintf("%.0f%%", confidence*100)
	switch {
	case confidence >= 0.8:
		return SuccessStyle.Render(label)
	case confidence >= 0.6:
		return WarningStyle.Render(label)
	default:
		return ErrorStyle.Render(label)
	}
}

func (d *Detect) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TASK DETECTION"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Analyzing...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render("Detection failed. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(d.err.Error()))
		b.WriteString("\n\n")
	}
	if d.message != "" {
		b.WriteString(SuccessStyle.Render(d.message))
		b.WriteString("\n\n")
	}

	switch d.mode {
	case detectModeInput:
		b.WriteString(SubtitleStyle.Render("Source: " + detectSources[d.source]))
		b.WriteString("\n\n")
		b.WriteString(d.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[ctrl+s] Analyze  [ctrl+t] Source  [esc] Back"))

	case detectModeResults, detectModeConfirm:
		if len(d.results) == 0 {
			b.WriteString(DimStyle.Render("No tasks detected in the text."))
			b.WriteString("\n\n")
		}
		for i, r := range d.results {
			cursor := "  "
			style := NormalStyle
			if i == d.cursor {
				cursor = "> "
				style = SelectedStyle
			}
			deadline := "no deadline"
			if r.EstimatedDeadline != nil && *r.EstimatedDeadline != "" {
				deadline = "due " + formatStamp(*r.EstimatedDeadline)
			}
			b.WriteString(style.Render(fmt.Sprintf("%s%s [%s]", cursor, truncate(r.Title, 45), r.Priority)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", confidenceStyle(r.Confidence), DimStyle.Render(deadline)))
			if i == d.cursor && r.Description != "" {
				b.WriteString(DimStyle.Render("    " + truncate(r.Description, 70)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")

		if d.mode == detectModeConfirm {
			b.WriteString(WarningStyle.Render(fmt.Sprintf(
				"Create task '%s'? (y/n)", truncate(d.results[d.cursor].Title, 40))))
			b.WriteString("\n")
		} else {
			b.WriteString(HelpStyle.Render("[enter] Create task  [b] New text  [q] Back"))
		}
	}

	return b.String()
}
