package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

// Performance shows the team summary alongside the per-user evaluation list.
type Performance struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	team        *api.TeamPerformanceSummary
	evaluations []api.PerformanceEvaluation
	cursor      int

	loading bool
	err     error
}

func NewPerformance(client *api.Client, store *query.Store) *Performance {
	return &Performance{client: client, store: store}
}

func (p *Performance) SetSize(width, height int) {
	p.width = width
	p.height = height
}

type performanceDataMsg struct {
	team        *api.TeamPerformanceSummary
	evaluations []api.PerformanceEvaluation
	err         error
}

func (p *Performance) Init() tea.Cmd {
	p.loading = true
	return p.loadData
}

func (p *Performance) loadData() tea.Msg {
	ctx := context.Background()

	team, err := query.Fetch(ctx, p.store, query.NewKey("team-performance"),
		func(ctx context.Context) (*api.TeamPerformanceSummary, error) {
			return p.client.GetTeamPerformanceSummary(ctx)
		})
	if err != nil {
		return performanceDataMsg{err: err}
	}

	evaluations, err := query.Fetch(ctx, p.store, query.NewKey("evaluations"),
		func(ctx context.Context) ([]api.PerformanceEvaluation, error) {
			return p.client.ListEvaluations(ctx, api.EvaluationFilter{Limit: 200})
		})
	if err != nil {
		return performanceDataMsg{err: err}
	}

	return performanceDataMsg{team: team, evaluations: evaluations}
}

func (p *Performance) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case performanceDataMsg:
		p.loading = false
		p.err = msg.err
		if msg.err == nil {
			p.team = msg.team
			p.evaluations = msg.evaluations
			if p.cursor >= len(p.evaluations) {
				p.cursor = max(0, len(p.evaluations)-1)
			}
		}
		return nil

	case RefreshMsg:
		return p.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.evaluations)-1 {
				p.cursor++
			}
		case "enter":
			if len(p.evaluations) > 0 {
				return NavigateWithUser("userdetail", p.evaluations[p.cursor].UserID)
			}
		case "r":
			p.store.Invalidate("team-performance")
			p.store.Invalidate("evaluations")
			return p.Init()
		case "q", "esc":
			return Navigate("dashboard")
		}
	}
	return nil
}

func (p *Performance) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("PERFORMANCE"))
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if p.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load performance data. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(p.err.Error()))
		b.WriteString("\n\n")
		return b.String()
	}

	if p.team != nil {
		b.WriteString(SubtitleStyle.Render("Team summary"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  Users: %d   Tasks: %d   Completed: %d\n",
			p.team.TotalUsers, p.team.TotalTasks, p.team.TasksCompleted))
		b.WriteString(fmt.Sprintf("  Average rating: %.1f   On-time rate: %.0f%%\n",
			p.team.AverageRating, p.team.OnTimeCompletionRate*100))
		b.WriteString("\n")
	}

	b.WriteString(SubtitleStyle.Render("Evaluations"))
	b.WriteString("\n")
	if len(p.evaluations) == 0 {
		b.WriteString(DimStyle.Render("  No evaluations recorded."))
		b.WriteString("\n")
	}
	for i, e := range p.evaluations {
		cursor := "  "
		style := NormalStyle
		if i == p.cursor {
			cursor = "> "
			style = SelectedStyle
		}
		line := fmt.Sprintf("%suser %d: %d done (%d on time), rating %s",
			cursor, e.UserID, e.TasksCompletedTotal, e.TasksCompletedOnTime, e.OverallRating)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(HelpStyle.Render("[enter] User detail  [r] Refresh  [q] Back"))
	return b.String()
}
