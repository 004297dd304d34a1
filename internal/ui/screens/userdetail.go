package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

// UserDetail shows one user with their tasks and performance summary.
type UserDetail struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	userID    int64
	user      *api.User
	tasks     []api.Task
	summary   *api.UserPerformanceSummary
	analytics *api.UserAnalytics
	loading   bool
	err       error
}

func NewUserDetail(client *api.Client, store *query.Store) *UserDetail {
	return &UserDetail{client: client, store: store}
}

func (d *UserDetail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

func (d *UserDetail) SetUser(userID int64) {
	d.userID = userID
}

type userDetailMsg struct {
	user      *api.User
	tasks     []api.Task
	summary   *api.UserPerformanceSummary
	analytics *api.UserAnalytics
	err       error
}

func (d *UserDetail) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *UserDetail) loadData() tea.Msg {
	ctx := context.Background()
	enabled := d.userID != 0

	user, err := query.FetchIf(ctx, d.store, enabled, query.NewKey("user", d.userID),
		func(ctx context.Context) (*api.User, error) {
			return d.client.GetUser(ctx, d.userID)
		})
	if err != nil {
		return userDetailMsg{err: err}
	}

	tasks, err := query.FetchIf(ctx, d.store, enabled, query.NewKey("user-tasks", d.userID),
		func(ctx context.Context) ([]api.Task, error) {
			return d.client.ListUserTasks(ctx, d.userID)
		})
	if err != nil {
		return userDetailMsg{user: user, err: err}
	}

	// The summary is computed by the backend and may not exist yet for new
	// users; that is not an error worth blocking the page on.
	summary, _ := query.FetchIf(ctx, d.store, enabled, query.NewKey("user-performance-summary", d.userID),
		func(ctx context.Context) (*api.UserPerformanceSummary, error) {
			return d.client.GetUserPerformanceSummary(ctx, d.userID)
		})

	// Same treatment for the analytics breakdown.
	analytics, _ := query.FetchIf(ctx, d.store, enabled, query.NewKey("user-analytics", d.userID),
		func(ctx context.Context) (*api.UserAnalytics, error) {
			return d.client.GetUserAnalytics(ctx, d.userID)
		})

	return userDetailMsg{user: user, tasks: tasks, summary: summary, analytics: analytics}
}

func (d *UserDetail) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case userDetailMsg:
		d.loading = false
		d.err = msg.err
		d.user = msg.user
		d.tasks = msg.tasks
		d.summary = msg.summary
		d.analytics = msg.analytics
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return Navigate("users")
		case "r":
			d.store.InvalidateKey(query.NewKey("user", d.userID))
			d.store.InvalidateKey(query.NewKey("user-tasks", d.userID))
			d.store.InvalidateKey(query.NewKey("user-performance-summary", d.userID))
			d.store.InvalidateKey(query.NewKey("user-analytics", d.userID))
			return d.Init()
		}
	}
	return nil
}

func (d *UserDetail) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("USER DETAIL"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load user. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(d.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[r] Retry  [q] Back"))
		return b.String()
	}

	if d.user != nil {
		status := "active"
		if !d.user.IsActive {
			status = "inactive"
		}
		b.WriteString(fmt.Sprintf("%s (%s)\n", d.user.Name, d.user.Username))
		b.WriteString(DimStyle.Render(fmt.Sprintf("%s · %s · %s · %s",
			d.user.Email, d.user.Role, d.user.Department, status)))
		b.WriteString("\n\n")
	}

	if d.summary != nil {
		b.WriteString(SubtitleStyle.Render("Performance"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  Completed: %d (%d on time)  Avg completion: %.1fh  Rating: %s\n\n",
			d.summary.TasksCompletedTotal,
			d.summary.TasksCompletedOnTime,
			d.summary.AverageTaskCompletionTime,
			d.summary.OverallRating))
	}

	if d.analytics != nil && len(d.analytics.TasksByStatus) > 0 {
		b.WriteString(SubtitleStyle.Render("Workload"))
		b.WriteString("\n  ")
		for _, status := range []string{api.StatusPending, api.StatusInProgress, api.StatusCompleted, api.StatusCancelled} {
			if n := d.analytics.TasksByStatus[status]; n > 0 {
				b.WriteString(fmt.Sprintf("%s: %d  ", status, n))
			}
		}
		b.WriteString(fmt.Sprintf("\n  Completion rate: %.0f%%\n\n", d.analytics.CompletionRate*100))
	}

	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Tasks (%d)", len(d.tasks))))
	b.WriteString("\n")
	if len(d.tasks) == 0 {
		b.WriteString(DimStyle.Render("  No tasks."))
		b.WriteString("\n")
	}
	for _, t := range d.tasks {
		b.WriteString(fmt.Sprintf("  [%s/%s] %s\n", t.Status, t.Priority, truncate(t.Title, 60)))
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[r] Refresh  [q] Back"))
	return b.String()
}
