package screens

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

// TaskForm creates a new task or edits an existing one. Validation runs
// before any request leaves the client: the deadline must parse and must not
// be in the past.
type TaskForm struct {
	client *api.Client
	store  *query.Store
	userID int64
	width  int
	height int

	taskID  *int64
	loaded  *api.Task
	inputs  []textinput.Model
	focus   int
	loading bool
	err     error
}

const (
	taskFieldTitle = iota
	taskFieldDescription
	taskFieldStatus
	taskFieldPriority
	taskFieldAssignedTo
	taskFieldDeadline
	taskFieldCount
)

func NewTaskForm(client *api.Client, store *query.Store, userID int64) *TaskForm {
	inputs := make([]textinput.Model, taskFieldCount)
	placeholders := []string{
		"Title",
		"Description",
		"Status (pending/in_progress/completed/cancelled)",
		"Priority (low/medium/high/urgent)",
		"Assigned to (user ID)",
		"Deadline (YYYY-MM-DD or RFC 3339)",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 200
		inputs[i].Width = 50
	}
	inputs[taskFieldTitle].Focus()

	return &TaskForm{
		client: client,
		store:  store,
		userID: userID,
		inputs: inputs,
	}
}

func (f *TaskForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// SetTask switches the form into edit mode for the given task, or back to
// create mode when id is nil.
func (f *TaskForm) SetTask(id *int64) {
	f.taskID = id
	f.loaded = nil
	f.err = nil
	f.resetInputs()
}

func (f *TaskForm) resetInputs() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = taskFieldTitle
	f.inputs[taskFieldTitle].Focus()
}

type taskFormLoadedMsg struct {
	task *api.Task
	err  error
}

type taskFormSavedMsg struct {
	err error
}

func (f *TaskForm) Init() tea.Cmd {
	if f.taskID == nil {
		f.loading = false
		return textinput.Blink
	}
	f.loading = true
	id := *f.taskID
	return func() tea.Msg {
		task, err := query.Fetch(context.Background(), f.store, query.NewKey("task", id),
			func(ctx context.Context) (*api.Task, error) {
				return f.client.GetTask(ctx, id)
			})
		return taskFormLoadedMsg{task: task, err: err}
	}
}

func (f *TaskForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case taskFormLoadedMsg:
		f.loading = false
		f.err = msg.err
		if msg.err == nil {
			f.loaded = msg.task
			f.fillFrom(msg.task)
		}
		return nil

	case taskFormSavedMsg:
		f.loading = false
		if msg.err != nil {
			f.err = msg.err
			return nil
		}
		return Navigate("tasks")

	case tea.KeyMsg:
		return f.handleKey(msg)
	}

	return f.updateFocused(msg)
}

func (f *TaskForm) fillFrom(task *api.Task) {
	f.inputs[taskFieldTitle].SetValue(task.Title)
	f.inputs[taskFieldDescription].SetValue(task.Description)
	f.inputs[taskFieldStatus].SetValue(task.Status)
	f.inputs[taskFieldPriority].SetValue(task.Priority)
	f.inputs[taskFieldAssignedTo].SetValue(strconv.FormatInt(task.AssignedTo, 10))
	f.inputs[taskFieldDeadline].SetValue(task.Deadline)
}

func (f *TaskForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *TaskForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + 1) % taskFieldCount
		f.inputs[f.focus].Focus()
		return nil
	case "shift+tab", "up":
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + taskFieldCount - 1) % taskFieldCount
		f.inputs[f.focus].Focus()
		return nil
	case "enter":
		return f.submit()
	case "esc":
		return Navigate("tasks")
	}
	return f.updateFocused(msg)
}

func (f *TaskForm) submit() tea.Cmd {
	title := strings.TrimSpace(f.inputs[taskFieldTitle].Value())
	deadline := strings.TrimSpace(f.inputs[taskFieldDeadline].Value())

	if title == "" {
		f.err = fmt.Errorf("title is required")
		return nil
	}
	// The not-in-the-past rule only applies when creating: an overdue task has
	// a past deadline by definition and must stay editable.
	if f.taskID == nil {
		if err := ValidateDeadline(deadline, time.Now()); err != nil {
			f.err = err
			return nil
		}
	} else if err := CheckDeadlineFormat(deadline); err != nil {
		f.err = err
		return nil
	}

	assignedTo, err := strconv.ParseInt(strings.TrimSpace(f.inputs[taskFieldAssignedTo].Value()), 10, 64)
	if err != nil {
		f.err = fmt.Errorf("assigned to must be a user ID")
		return nil
	}

	description := strings.TrimSpace(f.inputs[taskFieldDescription].Value())
	status := strings.TrimSpace(f.inputs[taskFieldStatus].Value())
	priority := strings.TrimSpace(f.inputs[taskFieldPriority].Value())
	if status == "" {
		status = api.StatusPending
	}
	if priority == "" {
		priority = api.PriorityMedium
	}

	f.err = nil
	f.loading = true

	if f.taskID == nil {
		in := api.CreateTask{
			Title:       title,
			Description: description,
			Status:      status,
			Priority:    priority,
			AssignedTo:  assignedTo,
			Deadline:    deadline,
		}
		createdBy := f.userID
		return func() tea.Msg {
			_, err := query.Mutate(context.Background(), f.store,
				func(ctx context.Context) (*api.Task, error) {
					return f.client.CreateTask(ctx, in, createdBy)
				}, "tasks")
			return taskFormSavedMsg{err: err}
		}
	}

	id := *f.taskID
	in := api.UpdateTask{
		Title:       &title,
		Description: &description,
		Status:      &status,
		Priority:    &priority,
		AssignedTo:  &assignedTo,
		Deadline:    &deadline,
	}
	return func() tea.Msg {
		_, err := query.MutateKey(context.Background(), f.store,
			func(ctx context.Context) (*api.Task, error) {
				return f.client.UpdateTask(ctx, id, in)
			}, query.NewKey("task", id), "tasks")
		return taskFormSavedMsg{err: err}
	}
}

func (f *TaskForm) View() string {
	var b strings.Builder

	if f.taskID == nil {
		b.WriteString(TitleStyle.Render("NEW TASK"))
	} else {
		b.WriteString(TitleStyle.Render(fmt.Sprintf("EDIT TASK #%d", *f.taskID)))
	}
	b.WriteString("\n\n")

	if f.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if f.err != nil {
		b.WriteString(ErrorStyle.Render(f.err.Error()))
		b.WriteString("\n\n")
	}

	labels := []string{"Title", "Description", "Status", "Priority", "Assigned to", "Deadline"}
	for i, in := range f.inputs {
		b.WriteString(NormalStyle.Render(labels[i] + ":"))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Save  [esc] Cancel"))
	return b.String()
}
