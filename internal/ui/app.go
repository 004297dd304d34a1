package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/config"
	"github.com/jmvargas/taskdeck/internal/query"
	"github.com/jmvargas/taskdeck/internal/ui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenUsers
	ScreenUserDetail
	ScreenTasks
	ScreenTaskForm
	ScreenConversations
	ScreenChat
	ScreenNotes
	ScreenDetect
	ScreenPerformance
	ScreenAnalytics
)

type App struct {
	client        *api.Client
	store         *query.Store
	cfg           *config.Config
	currentScreen Screen
	width         int
	height        int

	// Screen models
	dashboard     *screens.Dashboard
	users         *screens.Users
	userDetail    *screens.UserDetail
	tasks         *screens.Tasks
	taskForm      *screens.TaskForm
	conversations *screens.Conversations
	chat          *screens.ChatView
	notes         *screens.Notes
	detect        *screens.Detect
	performance   *screens.Performance
	analytics     *screens.Analytics
}

func NewApp(client *api.Client, store *query.Store, cfg *config.Config) *App {
	return &App{
		client:        client,
		store:         store,
		cfg:           cfg,
		currentScreen: ScreenDashboard,
	}
}

func (a *App) Init() tea.Cmd {
	a.dashboard = screens.NewDashboard(a.client, a.store)
	a.users = screens.NewUsers(a.client, a.store)
	a.userDetail = screens.NewUserDetail(a.client, a.store)
	a.tasks = screens.NewTasks(a.client, a.store)
	a.taskForm = screens.NewTaskForm(a.client, a.store, a.cfg.DefaultUserID)
	a.conversations = screens.NewConversations(a.client, a.store, a.cfg.DefaultUserID)
	a.chat = screens.NewChatView(a.client, a.store, a.cfg.DefaultUserID, a.cfg.Model)
	a.notes = screens.NewNotes(a.client, a.store, a.cfg.DefaultUserID)
	a.detect = screens.NewDetect(a.client, a.store, a.cfg.DefaultUserID)
	a.performance = screens.NewPerformance(a.client, a.store)
	a.analytics = screens.NewAnalytics(a.client, a.store)

	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.users.SetSize(msg.Width, msg.Height)
		a.userDetail.SetSize(msg.Width, msg.Height)
		a.tasks.SetSize(msg.Width, msg.Height)
		a.taskForm.SetSize(msg.Width, msg.Height)
		a.conversations.SetSize(msg.Width, msg.Height)
		a.chat.SetSize(msg.Width, msg.Height)
		a.notes.SetSize(msg.Width, msg.Height)
		a.detect.SetSize(msg.Width, msg.Height)
		a.performance.SetSize(msg.Width, msg.Height)
		a.analytics.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	// Update current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenUsers:
		cmd = a.users.Update(msg)
	case ScreenUserDetail:
		cmd = a.userDetail.Update(msg)
	case ScreenTasks:
		cmd = a.tasks.Update(msg)
	case ScreenTaskForm:
		cmd = a.taskForm.Update(msg)
	case ScreenConversations:
		cmd = a.conversations.Update(msg)
	case ScreenChat:
		cmd = a.chat.Update(msg)
	case ScreenNotes:
		cmd = a.notes.Update(msg)
	case ScreenDetect:
		cmd = a.detect.Update(msg)
	case ScreenPerformance:
		cmd = a.performance.Update(msg)
	case ScreenAnalytics:
		cmd = a.analytics.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		return a, a.dashboard.Init()
	case "users":
		a.currentScreen = ScreenUsers
		return a, a.users.Init()
	case "userdetail":
		if msg.UserID == nil {
			return a, nil
		}
		a.currentScreen = ScreenUserDetail
		a.userDetail.SetUser(*msg.UserID)
		return a, a.userDetail.Init()
	case "tasks":
		a.currentScreen = ScreenTasks
		return a, a.tasks.Init()
	case "taskform":
		a.currentScreen = ScreenTaskForm
		a.taskForm.SetTask(msg.TaskID)
		return a, a.taskForm.Init()
	case "conversations":
		a.currentScreen = ScreenConversations
		return a, a.conversations.Init()
	case "chat":
		a.currentScreen = ScreenChat
		if msg.ConversationID != nil {
			a.chat.SetConversation(*msg.ConversationID)
		} else {
			a.chat.SetConversation(0)
		}
		return a, a.chat.Init()
	case "notes":
		a.currentScreen = ScreenNotes
		return a, a.notes.Init()
	case "detect":
		a.currentScreen = ScreenDetect
		return a, a.detect.Init()
	case "performance":
		a.currentScreen = ScreenPerformance
		return a, a.performance.Init()
	case "analytics":
		a.currentScreen = ScreenAnalytics
		return a, a.analytics.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenUsers:
		content = a.users.View()
	case ScreenUserDetail:
		content = a.userDetail.View()
	case ScreenTasks:
		content = a.tasks.View()
	case ScreenTaskForm:
		content = a.taskForm.View()
	case ScreenConversations:
		content = a.conversations.View()
	case ScreenChat:
		content = a.chat.View()
	case ScreenNotes:
		content = a.notes.View()
	case ScreenDetect:
		content = a.detect.View()
	case ScreenPerformance:
		content = a.performance.View()
	case ScreenAnalytics:
		content = a.analytics.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(client *api.Client, store *query.Store, cfg *config.Config) error {
	app := NewApp(client, store, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
