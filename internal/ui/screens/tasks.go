package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/query"
)

const tasksPageSize = 10

type tasksMode int

const (
	tasksModeList tasksMode = iota
	tasksModeFilter
	tasksModeSearch
	tasksModeDetail
	tasksModeDelete
)

var statusCycle = []string{"", api.StatusPending, api.StatusInProgress, api.StatusCompleted, api.StatusCancelled}
var priorityCycle = []string{"", api.PriorityLow, api.PriorityMedium, api.PriorityHigh, api.PriorityUrgent}

// taskFilters are applied client-side over the fetched page of tasks; they are
// not a substitute for server-side filtering.
type taskFilters struct {
	status         string
	priority       string
	deadlineBefore string
	deadlineAfter  string
	createdBefore  string
	createdAfter   string
}

type Tasks struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	tasks   []api.Task
	cursor  int
	page    int
	mode    tasksMode
	filters taskFilters

	filterInputs []textinput.Model
	filterFocus  int

	search        textinput.Model
	searchResults []api.Task
	searchActive  bool

	detail  *api.Task
	similar []api.Task

	loading bool
	err     error
}

const (
	taskFilterDeadlineBefore = iota
	taskFilterDeadlineAfter
	taskFilterCreatedBefore
	taskFilterCreatedAfter
	taskFilterCount
)

func NewTasks(client *api.Client, store *query.Store) *Tasks {
	inputs := make([]textinput.Model, taskFilterCount)
	placeholders := []string{
		"Deadline before (YYYY-MM-DD)",
		"Deadline after (YYYY-MM-DD)",
		"Created before (YYYY-MM-DD)",
		"Created after (YYYY-MM-DD)",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 25
		inputs[i].Width = 30
	}

	search := textinput.New()
	search.Placeholder = "Semantic search query"
	search.CharLimit = 200
	search.Width = 50

	return &Tasks{
		client:       client,
		store:        store,
		page:         1,
		filterInputs: inputs,
		search:       search,
	}
}

func (t *Tasks) SetSize(width, height int) {
	t.width = width
	t.height = height
}

type tasksDataMsg struct {
	tasks []api.Task
	err   error
}

type taskDetailMsg struct {
	task    *api.Task
	similar []api.Task
	err     error
}

type taskSearchMsg struct {
	tasks []api.Task
	err   error
}

func (t *Tasks) Init() tea.Cmd {
	t.loading = true
	t.mode = tasksModeList
	return t.loadData
}

func (t *Tasks) loadData() tea.Msg {
	tasks, err := query.Fetch(context.Background(), t.store, query.NewKey("tasks"),
		func(ctx context.Context) ([]api.Task, error) {
			return t.client.ListTasks(ctx, api.TaskFilter{Limit: 500})
		})
	return tasksDataMsg{tasks: tasks, err: err}
}

func (t *Tasks) loadDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		task, err := query.Fetch(ctx, t.store, query.NewKey("task", id),
			func(ctx context.Context) (*api.Task, error) {
				return t.client.GetTask(ctx, id)
			})
		if err != nil {
			return taskDetailMsg{err: err}
		}
		similar, err := query.Fetch(ctx, t.store, query.NewKey("similar-tasks", id, 5),
			func(ctx context.Context) ([]api.Task, error) {
				return t.client.ListSimilarTasks(ctx, id, 5)
			})
		return taskDetailMsg{task: task, similar: similar, err: err}
	}
}

func (t *Tasks) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tasksDataMsg:
		t.loading = false
		t.err = msg.err
		t.tasks = msg.tasks
		t.clampCursor()
		return nil

	case taskDetailMsg:
		t.err = msg.err
		t.detail = msg.task
		t.similar = msg.similar
		return nil

	case taskSearchMsg:
		t.loading = false
		t.err = msg.err
		if msg.err == nil {
			t.searchResults = msg.tasks
			t.searchActive = true
			t.page = 1
			t.cursor = 0
		}
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	switch t.mode {
	case tasksModeFilter:
		return t.updateFilterInputs(msg)
	case tasksModeSearch:
		var cmd tea.Cmd
		t.search, cmd = t.search.Update(msg)
		return cmd
	}
	return nil
}

// filtered applies the client-side filters over the fetched tasks (or the
// semantic search results while a search is active).
func (t *Tasks) filtered() []api.Task {
	source := t.tasks
	if t.searchActive {
		source = t.searchResults
	}

	dlBefore := parseFilterDate(t.filters.deadlineBefore)
	dlAfter := parseFilterDate(t.filters.deadlineAfter)
	crBefore := parseFilterDate(t.filters.createdBefore)
	crAfter := parseFilterDate(t.filters.createdAfter)

	var out []api.Task
	for _, task := range source {
		if t.filters.status != "" && task.Status != t.filters.status {
			continue
		}
		if t.filters.priority != "" && task.Priority != t.filters.priority {
			continue
		}
		if !inRange(task.Deadline, dlAfter, dlBefore) {
			continue
		}
		if !inRange(task.CreatedAt, crAfter, crBefore) {
			continue
		}
		out = append(out, task)
	}
	return out
}

func parseFilterDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	v, err := parseDeadline(value)
	if err != nil {
		return time.Time{}
	}
	return v
}

// inRange checks an RFC 3339 stamp against optional bounds. An unset bound is
// open; an unparseable stamp fails a bounded check.
func inRange(stamp string, after, before time.Time) bool {
	if after.IsZero() && before.IsZero() {
		return true
	}
	v, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return false
	}
	if !after.IsZero() && v.Before(after) {
		return false
	}
	if !before.IsZero() && v.After(before) {
		return false
	}
	return true
}

// pageOf slices the current page out of the filtered result.
func (t *Tasks) pageOf(filtered []api.Task) []api.Task {
	start, end := PageSlice(len(filtered), t.page, tasksPageSize)
	return filtered[start:end]
}

func (t *Tasks) clampCursor() {
	visible := t.pageOf(t.filtered())
	if t.cursor >= len(visible) {
		t.cursor = max(0, len(visible)-1)
	}
}

func (t *Tasks) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch t.mode {
	case tasksModeList:
		return t.handleListKey(msg)
	case tasksModeFilter:
		return t.handleFilterKey(msg)
	case tasksModeSearch:
		return t.handleSearchKey(msg)
	case tasksModeDetail:
		return t.handleDetailKey(msg)
	case tasksModeDelete:
		return t.handleDeleteKey(msg)
	}
	return nil
}

func (t *Tasks) handleListKey(msg tea.KeyMsg) tea.Cmd {
	visible := t.pageOf(t.filtered())

	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(visible)-1 {
			t.cursor++
		}
	case "left", "h":
		if t.page > 1 {
			t.page--
			t.cursor = 0
		}
	case "right", "l":
		if t.page < pageCount(len(t.filtered()), tasksPageSize) {
			t.page++
			t.cursor = 0
		}
	case "s":
		t.filters.status = cycleValue(statusCycle, t.filters.status)
		t.page = 1
		t.cursor = 0
	case "p":
		t.filters.priority = cycleValue(priorityCycle, t.filters.priority)
		t.page = 1
		t.cursor = 0
	case "f":
		t.mode = tasksModeFilter
		t.filterFocus = 0
		values := []string{
			t.filters.deadlineBefore, t.filters.deadlineAfter,
			t.filters.createdBefore, t.filters.createdAfter,
		}
		for i := range t.filterInputs {
			t.filterInputs[i].SetValue(values[i])
			t.filterInputs[i].Blur()
		}
		t.filterInputs[0].Focus()
	case "/":
		t.mode = tasksModeSearch
		t.search.SetValue("")
		t.search.Focus()
	case "c":
		t.filters = taskFilters{}
		t.searchActive = false
		t.page = 1
		t.cursor = 0
	case "a":
		return Navigate("taskform")
	case "e":
		if len(visible) > 0 {
			return NavigateWithTask("taskform", visible[t.cursor].ID)
		}
	case "d":
		if len(visible) > 0 {
			t.mode = tasksModeDelete
		}
	case "enter":
		if len(visible) > 0 {
			t.mode = tasksModeDetail
			t.detail = nil
			t.similar = nil
			return t.loadDetail(visible[t.cursor].ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func cycleValue(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (t *Tasks) updateFilterInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.filterInputs[t.filterFocus], cmd = t.filterInputs[t.filterFocus].Update(msg)
	return cmd
}

func (t *Tasks) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		t.filterInputs[t.filterFocus].Blur()
		t.filterFocus = (t.filterFocus + 1) % taskFilterCount
		t.filterInputs[t.filterFocus].Focus()
		return nil
	case "shift+tab", "up":
		t.filterInputs[t.filterFocus].Blur()
		t.filterFocus = (t.filterFocus + taskFilterCount - 1) % taskFilterCount
		t.filterInputs[t.filterFocus].Focus()
		return nil
	case "enter":
		t.filters.deadlineBefore = strings.TrimSpace(t.filterInputs[taskFilterDeadlineBefore].Value())
		t.filters.deadlineAfter = strings.TrimSpace(t.filterInputs[taskFilterDeadlineAfter].Value())
		t.filters.createdBefore = strings.TrimSpace(t.filterInputs[taskFilterCreatedBefore].Value())
		t.filters.createdAfter = strings.TrimSpace(t.filterInputs[taskFilterCreatedAfter].Value())
		t.mode = tasksModeList
		t.page = 1
		t.cursor = 0
		return nil
	case "esc":
		t.mode = tasksModeList
		return nil
	}
	return t.updateFilterInputs(msg)
}

func (t *Tasks) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		queryText := strings.TrimSpace(t.search.Value())
		t.mode = tasksModeList
		t.search.Blur()
		if queryText == "" {
			return nil
		}
		t.loading = true
		return func() tea.Msg {
			tasks, err := t.client.SearchTasks(context.Background(), queryText, 50)
			return taskSearchMsg{tasks: tasks, err: err}
		}
	case "esc":
		t.mode = tasksModeList
		t.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	return cmd
}

func (t *Tasks) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		t.mode = tasksModeList
	}
	return nil
}

func (t *Tasks) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		visible := t.pageOf(t.filtered())
		task := visible[t.cursor]
		t.mode = tasksModeList
		return func() tea.Msg {
			_, err := query.Mutate(context.Background(), t.store,
				func(ctx context.Context) (struct{}, error) {
					return struct{}{}, t.client.DeleteTask(ctx, task.ID)
				}, "tasks")
			if err != nil {
				return tasksDataMsg{err: err}
			}
			return RefreshMsg{}
		}
	case "n", "N", "esc":
		t.mode = tasksModeList
	}
	return nil
}

func (t *Tasks) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TASKS"))
	b.WriteString("\n\n")

	if t.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load tasks. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(t.err.Error()))
		b.WriteString("\n\n")
	}

	switch t.mode {
	case tasksModeFilter:
		b.WriteString("Date filters:\n")
		for _, in := range t.filterInputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Apply  [esc] Cancel"))
		return b.String()

	case tasksModeSearch:
		b.WriteString("Semantic search:\n")
		b.WriteString(t.search.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Search  [esc] Cancel"))
		return b.String()

	case tasksModeDetail:
		return t.detailView(&b)

	case tasksModeDelete:
		visible := t.pageOf(t.filtered())
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete task '%s'? (y/n)", truncate(visible[t.cursor].Title, 50),
		)))
		b.WriteString("\n")
		return b.String()
	}

	if active := t.activeFilterLine(); active != "" {
		b.WriteString(SubtitleStyle.Render(active))
		b.WriteString("\n")
	}

	filtered := t.filtered()
	visible := t.pageOf(filtered)

	if len(visible) == 0 {
		b.WriteString(DimStyle.Render("No tasks found matching your filters."))
		b.WriteString("\n\n")
	} else {
		for i, task := range visible {
			cursor := "  "
			style := NormalStyle
			if i == t.cursor {
				cursor = "> "
				style = SelectedStyle
			}
			line := fmt.Sprintf("%s#%d [%s/%s] %s  %s",
				cursor, task.ID, task.Status, task.Priority,
				truncate(task.Title, 45), DimStyle.Render("due "+formatStamp(task.Deadline)))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("Page %d/%d (%d tasks)",
			t.page, pageCount(len(filtered), tasksPageSize), len(filtered))))
		b.WriteString("\n")
	}

	help := "[s] Status  [p] Priority  [f] Dates  [/] Search  [c] Clear  [a] Add  [e] Edit  [d] Delete  [enter] Detail  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (t *Tasks) activeFilterLine() string {
	var parts []string
	if t.filters.status != "" {
		parts = append(parts, "status="+t.filters.status)
	}
	if t.filters.priority != "" {
		parts = append(parts, "priority="+t.filters.priority)
	}
	if t.filters.deadlineBefore != "" {
		parts = append(parts, "deadline<="+t.filters.deadlineBefore)
	}
	if t.filters.deadlineAfter != "" {
		parts = append(parts, "deadline>="+t.filters.deadlineAfter)
	}
	if t.filters.createdBefore != "" {
		parts = append(parts, "created<="+t.filters.createdBefore)
	}
	if t.filters.createdAfter != "" {
		parts = append(parts, "created>="+t.filters.createdAfter)
	}
	if t.searchActive {
		parts = append(parts, "semantic results")
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filters: " + strings.Join(parts, "  ")
}

func (t *Tasks) detailView(b *strings.Builder) string {
	if t.detail == nil {
		b.WriteString("Loading...\n")
		return b.String()
	}

	task := t.detail
	b.WriteString(fmt.Sprintf("#%d %s\n", task.ID, task.Title))
	b.WriteString(DimStyle.Render(fmt.Sprintf("%s · %s · assigned to %d · created by %d · due %s",
		task.Status, task.Priority, task.AssignedTo, task.CreatedBy, formatStamp(task.Deadline))))
	b.WriteString("\n\n")
	if task.Description != "" {
		b.WriteString(task.Description)
		b.WriteString("\n\n")
	}

	if len(t.similar) > 0 {
		b.WriteString(SubtitleStyle.Render("Similar tasks"))
		b.WriteString("\n")
		for _, s := range t.similar {
			b.WriteString(fmt.Sprintf("  #%d %s\n", s.ID, truncate(s.Title, 60)))
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[q] Back to list"))
	return b.String()
}
