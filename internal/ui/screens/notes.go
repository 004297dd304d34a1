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

const notesPageSize = 10

type notesMode int

const (
	notesModeList notesMode = iota
	notesModeSearch
	notesModeAdd
	notesModeDelete
)

// Notes lists, searches, creates, and deletes notes. Unlike the task list,
// pagination happens server-side here; the page and query are part of the
// cache key.
type Notes struct {
	client *api.Client
	store  *query.Store
	userID int64
	width  int
	height int

	page       *api.NotesPage
	pageNumber int
	queryText  string
	cursor     int
	mode       notesMode

	searchInput textinput.Model
	textInput   textinput.Model

	loading bool
	err     error
}

func NewNotes(client *api.Client, store *query.Store, userID int64) *Notes {
	search := textinput.New()
	search.Placeholder = "Search notes"
	search.CharLimit = 120
	search.Width = 40

	text := textinput.New()
	text.Placeholder = "Note text"
	text.CharLimit = 500
	text.Width = 60

	return &Notes{
		client:      client,
		store:       store,
		userID:      userID,
		pageNumber:  1,
		searchInput: search,
		textInput:   text,
	}
}

func (n *Notes) SetSize(width, height int) {
	n.width = width
	n.height = height
}

type notesDataMsg struct {
	page *api.NotesPage
	err  error
}

func (n *Notes) Init() tea.Cmd {
	n.loading = true
	n.mode = notesModeList
	return n.loadData
}

func (n *Notes) loadData() tea.Msg {
	ctx := context.Background()
	pageNumber, queryText := n.pageNumber, n.queryText

	var page *api.NotesPage
	var err error
	if queryText != "" {
		page, err = query.Fetch(ctx, n.store, query.NewKey("notes-search", queryText, pageNumber),
			func(ctx context.Context) (*api.NotesPage, error) {
				return n.client.SearchNotes(ctx, queryText, pageNumber, notesPageSize)
			})
	} else {
		page, err = query.Fetch(ctx, n.store, query.NewKey("notes", pageNumber),
			func(ctx context.Context) (*api.NotesPage, error) {
				return n.client.ListNotes(ctx, pageNumber, notesPageSize)
			})
	}
	return notesDataMsg{page: page, err: err}
}

func (n *Notes) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notesDataMsg:
		n.loading = false
		n.err = msg.err
		if msg.err == nil {
			n.page = msg.page
			if n.cursor >= len(n.page.Notes) {
				n.cursor = max(0, len(n.page.Notes)-1)
			}
		}
		return nil

	case RefreshMsg:
		return n.Init()

	case tea.KeyMsg:
		return n.handleKey(msg)
	}

	switch n.mode {
	case notesModeSearch:
		var cmd tea.Cmd
		n.searchInput, cmd = n.searchInput.Update(msg)
		return cmd
	case notesModeAdd:
		var cmd tea.Cmd
		n.textInput, cmd = n.textInput.Update(msg)
		return cmd
	}
	return nil
}

func (n *Notes) totalPages() int {
	if n.page == nil {
		return 1
	}
	return pageCount(n.page.Total, notesPageSize)
}

func (n *Notes) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch n.mode {
	case notesModeSearch:
		switch msg.String() {
		case "enter":
			n.queryText = strings.TrimSpace(n.searchInput.Value())
			n.pageNumber = 1
			n.cursor = 0
			n.mode = notesModeList
			n.loading = true
			return n.loadData
		case "esc":
			n.mode = notesModeList
			return nil
		}
		var cmd tea.Cmd
		n.searchInput, cmd = n.searchInput.Update(msg)
		return cmd

	case notesModeAdd:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(n.textInput.Value())
			if text == "" {
				n.err = fmt.Errorf("note text is required")
				return nil
			}
			n.err = nil
			n.mode = notesModeList
			n.loading = true
			userID := n.userID
			return func() tea.Msg {
				_, err := query.Mutate(context.Background(), n.store,
					func(ctx context.Context) (*api.Note, error) {
						return n.client.CreateNote(ctx, api.CreateNote{Text: text, UserID: userID})
					}, "notes", "notes-search")
				if err != nil {
					return notesDataMsg{err: err}
				}
				return RefreshMsg{}
			}
		case "esc":
			n.mode = notesModeList
			return nil
		}
		var cmd tea.Cmd
		n.textInput, cmd = n.textInput.Update(msg)
		return cmd

	case notesModeDelete:
		switch msg.String() {
		case "y", "Y":
			note := n.page.Notes[n.cursor]
			n.mode = notesModeList
			n.loading = true
			return func() tea.Msg {
				_, err := query.Mutate(context.Background(), n.store,
					func(ctx context.Context) (struct{}, error) {
						return struct{}{}, n.client.DeleteNote(ctx, note.ID)
					}, "notes", "notes-search")
				if err != nil {
					return notesDataMsg{err: err}
				}
				return RefreshMsg{}
			}
		case "n", "N", "esc":
			n.mode = notesModeList
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if n.cursor > 0 {
			n.cursor--
		}
	case "down", "j":
		if n.page != nil && n.cursor < len(n.page.Notes)-1 {
			n.cursor++
		}
	case "left", "h":
		if n.pageNumber > 1 {
			n.pageNumber--
			n.cursor = 0
			n.loading = true
			return n.loadData
		}
	case "right", "l":
		if n.pageNumber < n.totalPages() {
			n.pageNumber++
			n.cursor = 0
			n.loading = true
			return n.loadData
		}
	case "/":
		n.mode = notesModeSearch
		n.searchInput.SetValue(n.queryText)
		n.searchInput.Focus()
		return textinput.Blink
	case "c":
		if n.queryText != "" {
			n.queryText = ""
			n.pageNumber = 1
			n.cursor = 0
			n.loading = true
			return n.loadData
		}
	case "a":
		n.mode = notesModeAdd
		n.textInput.SetValue("")
		n.textInput.Focus()
		return textinput.Blink
	case "d":
		if n.page != nil && len(n.page.Notes) > 0 {
			n.mode = notesModeDelete
		}
	case "r":
		n.store.Invalidate("notes")
		n.store.Invalidate("notes-search")
		return n.Init()
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (n *Notes) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("NOTES"))
	b.WriteString("\n\n")

	if n.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if n.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load notes. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(n.err.Error()))
		b.WriteString("\n\n")
	}

	switch n.mode {
	case notesModeSearch:
		b.WriteString("Search:\n")
		b.WriteString(n.searchInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Search  [esc] Cancel"))
		return b.String()

	case notesModeAdd:
		b.WriteString("New note:\n")
		b.WriteString(n.textInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()

	case notesModeDelete:
		note := n.page.Notes[n.cursor]
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Delete note '%s'? (y/n)", truncate(note.Text, 50))))
		b.WriteString("\n")
		return b.String()
	}

	if n.queryText != "" {
		b.WriteString(SubtitleStyle.Render("Search: " + n.queryText))
		b.WriteString("\n")
	}

	if n.page == nil || len(n.page.Notes) == 0 {
		b.WriteString(DimStyle.Render("No notes found."))
		b.WriteString("\n\n")
	} else {
		for i, note := range n.page.Notes {
			cursor := "  "
			style := NormalStyle
			if i == n.cursor {
				cursor = "> "
				style = SelectedStyle
			}
			line := fmt.Sprintf("%s#%d %s  %s", cursor, note.ID,
				truncate(note.Text, 55), DimStyle.Render(formatStamp(note.CreatedAt)))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("Page %d/%d (%d notes)",
			n.pageNumber, n.totalPages(), n.page.Total)))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[/] Search  [c] Clear  [a] Add  [d] Delete  [←/→] Page  [r] Refresh  [q] Back"))
	return b.String()
}
