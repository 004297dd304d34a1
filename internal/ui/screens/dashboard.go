package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

// Dashboard is the landing screen: entity counts, the most recent tasks, and
// the navigation menu into the other screens.
type Dashboard struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	users         []api.User
	tasks         []api.Task
	conversations []api.Conversation

	cursor  int
	loading bool
	err     error
}

var dashboardMenu = []struct {
	label  string
	screen string
}{
	{"Users", "users"},
	{"Tasks", "tasks"},
	{"Conversations", "conversations"},
	{"Notes", "notes"},
	{"Task detection", "detect"},
	{"Performance", "performance"},
	{"Analytics", "analytics"},
}

func NewDashboard(client *api.Client, store *query.Store) *Dashboard {
	return &Dashboard{client: client, store: store}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	users         []api.User
	tasks         []api.Task
	conversations []api.Conversation
	err           error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	ctx := context.Background()

	users, err := query.Fetch(ctx, d.store, query.NewKey("users"),
		func(ctx context.Context) ([]api.User, error) {
			return d.client.ListUsers(ctx, api.UserFilter{Limit: 200})
		})
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	tasks, err := query.Fetch(ctx, d.store, query.NewKey("tasks"),
		func(ctx context.Context) ([]api.Task, error) {
			return d.client.ListTasks(ctx, api.TaskFilter{Limit: 500})
		})
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	conversations, err := query.Fetch(ctx, d.store, query.NewKey("conversations"),
		func(ctx context.Context) ([]api.Conversation, error) {
			return d.client.ListConversations(ctx, api.ConversationFilter{Limit: 200})
		})
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	return dashboardDataMsg{users: users, tasks: tasks, conversations: conversations}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		if msg.err == nil {
			d.users = msg.users
			d.tasks = msg.tasks
			d.conversations = msg.conversations
		}
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if d.cursor > 0 {
				d.cursor--
			}
		case "down", "j":
			if d.cursor < len(dashboardMenu)-1 {
				d.cursor++
			}
		case "enter":
			return Navigate(dashboardMenu[d.cursor].screen)
		case "r":
			d.store.Invalidate("users")
			d.store.Invalidate("tasks")
			d.store.Invalidate("conversations")
			return d.Init()
		}
	}
	return nil
}

// recentTasks returns the tail of the task list, newest first.
func (d *Dashboard) recentTasks(n int) []api.Task {
	out := make([]api.Task, len(d.tasks))
	copy(out, d.tasks)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TASKDECK"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load dashboard. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(d.err.Error()))
		b.WriteString("\n\n")
	} else {
		var pending, inProgress int
		for _, t := range d.tasks {
			switch t.Status {
			case api.StatusPending:
				pending++
			case api.StatusInProgress:
				inProgress++
			}
		}
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf(
			"%d users · %d tasks (%d pending, %d in progress) · %d conversations",
			len(d.users), len(d.tasks), pending, inProgress, len(d.conversations))))
		b.WriteString("\n\n")
	}

	for i, item := range dashboardMenu {
		cursor := "  "
		style := NormalStyle
		if i == d.cursor {
			cursor = "> "
			style = SelectedStyle
		}
		b.WriteString(style.Render(cursor + item.label))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if recent := d.recentTasks(5); len(recent) > 0 {
		b.WriteString(SubtitleStyle.Render("Recent tasks"))
		b.WriteString("\n")
		for _, t := range recent {
			b.WriteString(fmt.Sprintf("  #%d [%s] %s\n", t.ID, t.Status, truncate(t.Title, 50)))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[enter] Open  [r] Refresh  [q] Quit"))
	return b.String()
}
