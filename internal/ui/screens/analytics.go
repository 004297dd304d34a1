package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

var trendPeriods = []string{"weekly", "monthly", "quarterly"}

// Analytics shows workload patterns and created-vs-completed trends.
type Analytics struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	patterns []api.AnalyticsPattern
	trends   []api.TrendPoint
	period   int

	loading bool
	err     error
}

func NewAnalytics(client *api.Client, store *query.Store) *Analytics {
	return &Analytics{client: client, store: store}
}

func (a *Analytics) SetSize(width, height int) {
	a.width = width
	a.height = height
}

type analyticsDataMsg struct {
	patterns []api.AnalyticsPattern
	trends   []api.TrendPoint
	err      error
}

func (a *Analytics) Init() tea.Cmd {
	a.loading = true
	return a.loadData
}

func (a *Analytics) loadData() tea.Msg {
	ctx := context.Background()
	period := trendPeriods[a.period]

	patterns, err := query.Fetch(ctx, a.store, query.NewKey("analytics-patterns"),
		func(ctx context.Context) ([]api.AnalyticsPattern, error) {
			return a.client.GetAnalyticsPatterns(ctx)
		})
	if err != nil {
		return analyticsDataMsg{err: err}
	}

	trends, err := query.Fetch(ctx, a.store, query.NewKey("analytics-trends", period),
		func(ctx context.Context) ([]api.TrendPoint, error) {
			return a.client.GetAnalyticsTrends(ctx, period)
		})
	if err != nil {
		return analyticsDataMsg{err: err}
	}

	return analyticsDataMsg{patterns: patterns, trends: trends}
}

func (a *Analytics) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		a.loading = false
		a.err = msg.err
		if msg.err == nil {
			a.patterns = msg.patterns
			a.trends = msg.trends
		}
		return nil

	case RefreshMsg:
		return a.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			a.period = (a.period + 1) % len(trendPeriods)
			a.loading = true
			return a.loadData
		case "r":
			a.store.Invalidate("analytics-patterns")
			a.store.Invalidate("analytics-trends")
			return a.Init()
		case "q", "esc":
			return Navigate("dashboard")
		}
	}
	return nil
}

func (a *Analytics) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ANALYTICS"))
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if a.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load analytics. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(a.err.Error()))
		b.WriteString("\n\n")
		return b.String()
	}

	b.WriteString(SubtitleStyle.Render("Patterns"))
	b.WriteString("\n")
	if len(a.patterns) == 0 {
		b.WriteString(DimStyle.Render("  No patterns detected yet."))
		b.WriteString("\n")
	}
	for _, p := range a.patterns {
		b.WriteString(fmt.Sprintf("  %s %s\n", confidenceStyle(p.Confidence), p.Pattern))
		if p.Description != "" {
			b.WriteString(DimStyle.Render("    " + truncate(p.Description, 70)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(SubtitleStyle.Render("Trends · " + trendPeriods[a.period]))
	b.WriteString("\n")
	if len(a.trends) == 0 {
		b.WriteString(DimStyle.Render("  No trend data."))
		b.WriteString("\n")
	}
	for _, t := range a.trends {
		b.WriteString(fmt.Sprintf("  %-12s created %-4d completed %-4d %s\n",
			t.Period, t.Created, t.Completed, sparkbar(t.Completed, t.Created)))
	}
	b.WriteString("\n")

	b.WriteString(HelpStyle.Render("[p] Period  [r] Refresh  [q] Back"))
	return b.String()
}

// sparkbar renders a crude completion bar for a trend row.
func sparkbar(completed, created int64) string {
	if created <= 0 {
		return ""
	}
	filled := int(float64(completed) / float64(created) * 10)
	if filled > 10 {
		filled = 10
	}
	return SuccessStyle.Render(strings.Repeat("█", filled)) + DimStyle.Render(strings.Repeat("░", 10-filled))
}
