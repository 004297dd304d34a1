package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

type usersMode int

const (
	usersModeList usersMode = iota
	usersModeSearch
	usersModeAdd
	usersModeEdit
	usersModeDelete
)

const (
	userFieldUsername = iota
	userFieldEmail
	userFieldName
	userFieldRole
	userFieldDepartment
	userFieldCount
)

type Users struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	users   []api.User
	cursor  int
	mode    usersMode
	inputs  []textinput.Model
	focus   int
	search  textinput.Model
	loading bool
	err     error
}

func NewUsers(client *api.Client, store *query.Store) *Users {
	inputs := make([]textinput.Model, userFieldCount)
	for i, placeholder := range []string{"Username", "Email", "Name", "Role", "Department"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 100
		ti.Width = 40
		inputs[i] = ti
	}

	search := textinput.New()
	search.Placeholder = "Search users"
	search.CharLimit = 100
	search.Width = 40

	return &Users{
		client: client,
		store:  store,
		inputs: inputs,
		search: search,
	}
}

func (u *Users) SetSize(width, height int) {
	u.width = width
	u.height = height
}

type usersDataMsg struct {
	users []api.User
	err   error
}

func (u *Users) Init() tea.Cmd {
	u.loading = true
	u.mode = usersModeList
	return u.loadData
}

func (u *Users) loadData() tea.Msg {
	users, err := query.Fetch(context.Background(), u.store, query.NewKey("users"),
		func(ctx context.Context) ([]api.User, error) {
			return u.client.ListUsers(ctx, api.UserFilter{Limit: 200})
		})
	return usersDataMsg{users: users, err: err}
}

func (u *Users) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case usersDataMsg:
		u.loading = false
		u.err = msg.err
		u.users = msg.users
		if u.cursor >= len(u.visible()) {
			u.cursor = max(0, len(u.visible())-1)
		}
		return nil

	case RefreshMsg:
		return u.Init()

	case tea.KeyMsg:
		return u.handleKey(msg)
	}

	switch u.mode {
	case usersModeAdd, usersModeEdit:
		var cmd tea.Cmd
		u.inputs[u.focus], cmd = u.inputs[u.focus].Update(msg)
		return cmd
	case usersModeSearch:
		var cmd tea.Cmd
		u.search, cmd = u.search.Update(msg)
		return cmd
	}

	return nil
}

// visible applies the client-side substring filter over the fetched page. It
// does not claim completeness beyond what the list request returned.
func (u *Users) visible() []api.User {
	q := strings.ToLower(strings.TrimSpace(u.search.Value()))
	if q == "" {
		return u.users
	}
	var out []api.User
	for _, user := range u.users {
		if strings.Contains(strings.ToLower(user.Username), q) ||
			strings.Contains(strings.ToLower(user.Name), q) ||
			strings.Contains(strings.ToLower(user.Email), q) ||
			strings.Contains(strings.ToLower(user.Role), q) ||
			strings.Contains(strings.ToLower(user.Department), q) {
			out = append(out, user)
		}
	}
	return out
}

func (u *Users) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch u.mode {
	case usersModeList:
		return u.handleListKey(msg)
	case usersModeSearch:
		return u.handleSearchKey(msg)
	case usersModeAdd, usersModeEdit:
		return u.handleFormKey(msg)
	case usersModeDelete:
		return u.handleDeleteKey(msg)
	}
	return nil
}

func (u *Users) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if u.cursor > 0 {
			u.cursor--
		}
	case "down", "j":
		if u.cursor < len(u.visible())-1 {
			u.cursor++
		}
	case "/":
		u.mode = usersModeSearch
		u.search.Focus()
	case "a":
		u.mode = usersModeAdd
		for i := range u.inputs {
			u.inputs[i].SetValue("")
			u.inputs[i].Blur()
		}
		u.focus = 0
		u.inputs[0].Focus()
	case "e":
		if users := u.visible(); len(users) > 0 {
			user := users[u.cursor]
			u.mode = usersModeEdit
			u.inputs[userFieldUsername].SetValue(user.Username)
			u.inputs[userFieldEmail].SetValue(user.Email)
			u.inputs[userFieldName].SetValue(user.Name)
			u.inputs[userFieldRole].SetValue(user.Role)
			u.inputs[userFieldDepartment].SetValue(user.Department)
			for i := range u.inputs {
				u.inputs[i].Blur()
			}
			u.focus = 0
			u.inputs[0].Focus()
		}
	case "d":
		if len(u.visible()) > 0 {
			u.mode = usersModeDelete
		}
	case "enter":
		if users := u.visible(); len(users) > 0 {
			return NavigateWithUser("userdetail", users[u.cursor].ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (u *Users) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		u.mode = usersModeList
		u.search.Blur()
		u.cursor = 0
		return nil
	}
	var cmd tea.Cmd
	u.search, cmd = u.search.Update(msg)
	return cmd
}

func (u *Users) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		u.inputs[u.focus].Blur()
		u.focus = (u.focus + 1) % len(u.inputs)
		u.inputs[u.focus].Focus()
		return nil
	case "shift+tab", "up":
		u.inputs[u.focus].Blur()
		u.focus = (u.focus - 1 + len(u.inputs)) % len(u.inputs)
		u.inputs[u.focus].Focus()
		return nil
	case "enter":
		return u.submitForm()
	case "esc":
		u.mode = usersModeList
		u.inputs[u.focus].Blur()
		return nil
	}
	var cmd tea.Cmd
	u.inputs[u.focus], cmd = u.inputs[u.focus].Update(msg)
	return cmd
}

func (u *Users) submitForm() tea.Cmd {
	username := strings.TrimSpace(u.inputs[userFieldUsername].Value())
	email := strings.TrimSpace(u.inputs[userFieldEmail].Value())
	name := strings.TrimSpace(u.inputs[userFieldName].Value())
	role := strings.TrimSpace(u.inputs[userFieldRole].Value())
	department := strings.TrimSpace(u.inputs[userFieldDepartment].Value())

	// Validation failures never reach the network.
	if username == "" || email == "" {
		u.err = fmt.Errorf("username and email are required")
		return nil
	}

	mode := u.mode
	u.mode = usersModeList
	u.inputs[u.focus].Blur()

	if mode == usersModeAdd {
		return func() tea.Msg {
			_, err := query.Mutate(context.Background(), u.store,
				func(ctx context.Context) (*api.User, error) {
					return u.client.CreateUser(ctx, api.CreateUser{
						Username:   username,
						Email:      email,
						Name:       name,
						Role:       role,
						Department: department,
						IsActive:   true,
					})
				}, "users")
			if err != nil {
				return usersDataMsg{err: err}
			}
			return RefreshMsg{}
		}
	}

	id := u.visible()[u.cursor].ID
	return func() tea.Msg {
		_, err := query.MutateKey(context.Background(), u.store,
			func(ctx context.Context) (*api.User, error) {
				return u.client.UpdateUser(ctx, id, api.UpdateUser{
					Username:   &username,
					Email:      &email,
					Name:       &name,
					Role:       &role,
					Department: &department,
				})
			}, query.NewKey("user", id), "users")
		if err != nil {
			return usersDataMsg{err: err}
		}
		return RefreshMsg{}
	}
}

func (u *Users) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		user := u.visible()[u.cursor]
		u.mode = usersModeList
		return func() tea.Msg {
			_, err := query.Mutate(context.Background(), u.store,
				func(ctx context.Context) (struct{}, error) {
					return struct{}{}, u.client.DeleteUser(ctx, user.ID)
				}, "users")
			if err != nil {
				return usersDataMsg{err: err}
			}
			return RefreshMsg{}
		}
	case "n", "N", "esc":
		u.mode = usersModeList
	}
	return nil
}

func (u *Users) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("USERS"))
	b.WriteString("\n\n")

	if u.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if u.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load users. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(u.err.Error()))
		b.WriteString("\n\n")
	}

	if u.mode == usersModeAdd || u.mode == usersModeEdit {
		header := "New user:"
		if u.mode == usersModeEdit {
			header = "Edit user:"
		}
		b.WriteString(header + "\n")
		for _, in := range u.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Save  [esc] Cancel"))
		return b.String()
	}

	if u.mode == usersModeDelete {
		user := u.visible()[u.cursor]
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Deactivate user '%s'? (y/n)", user.Username,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if u.mode == usersModeSearch || u.search.Value() != "" {
		b.WriteString("Search: " + u.search.View())
		b.WriteString("\n\n")
	}

	users := u.visible()
	if len(users) == 0 {
		b.WriteString(DimStyle.Render("No users found."))
		b.WriteString("\n\n")
	} else {
		for i, user := range users {
			cursor := "  "
			style := NormalStyle
			if i == u.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			active := ""
			if !user.IsActive {
				active = " (inactive)"
			}
			line := fmt.Sprintf("%s%s <%s> %s/%s%s",
				cursor, user.Username, user.Email, user.Role, user.Department, active)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[/] Search  [a] Add  [e] Edit  [d] Deactivate  [enter] Detail  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
