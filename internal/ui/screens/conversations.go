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

type conversationsMode int

const (
	conversationsModeList conversationsMode = iota
	conversationsModeAdd
)

type Conversations struct {
	client *api.Client
	store  *query.Store
	userID int64
	width  int
	height int

	conversations []api.Conversation
	cursor        int
	mode          conversationsMode
	titleInput    textinput.Model

	loading bool
	err     error
}

func NewConversations(client *api.Client, store *query.Store, userID int64) *Conversations {
	title := textinput.New()
	title.Placeholder = "Conversation title"
	title.CharLimit = 120
	title.Width = 40

	return &Conversations{
		client:     client,
		store:      store,
		userID:     userID,
		titleInput: title,
	}
}

func (c *Conversations) SetSize(width, height int) {
	c.width = width
	c.height = height
}

type conversationsDataMsg struct {
	conversations []api.Conversation
	err           error
}

type conversationCreatedMsg struct {
	conversation *api.Conversation
	err          error
}

func (c *Conversations) Init() tea.Cmd {
	c.loading = true
	c.mode = conversationsModeList
	return c.loadData
}

func (c *Conversations) loadData() tea.Msg {
	conversations, err := query.Fetch(context.Background(), c.store, query.NewKey("conversations"),
		func(ctx context.Context) ([]api.Conversation, error) {
			return c.client.ListConversations(ctx, api.ConversationFilter{Limit: 200})
		})
	return conversationsDataMsg{conversations: conversations, err: err}
}

func (c *Conversations) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case conversationsDataMsg:
		c.loading = false
		c.err = msg.err
		c.conversations = msg.conversations
		if c.cursor >= len(c.conversations) {
			c.cursor = max(0, len(c.conversations)-1)
		}
		return nil

	case conversationCreatedMsg:
		c.loading = false
		if msg.err != nil {
			c.err = msg.err
			return nil
		}
		return NavigateWithConversation("chat", msg.conversation.ID)

	case RefreshMsg:
		return c.Init()

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	if c.mode == conversationsModeAdd {
		var cmd tea.Cmd
		c.titleInput, cmd = c.titleInput.Update(msg)
		return cmd
	}
	return nil
}

func (c *Conversations) handleKey(msg tea.KeyMsg) tea.Cmd {
	if c.mode == conversationsModeAdd {
		switch msg.String() {
		case "enter":
			title := strings.TrimSpace(c.titleInput.Value())
			if title == "" {
				c.err = fmt.Errorf("title is required")
				return nil
			}
			c.err = nil
			c.loading = true
			c.mode = conversationsModeList
			userID := c.userID
			return func() tea.Msg {
				conversation, err := query.Mutate(context.Background(), c.store,
					func(ctx context.Context) (*api.Conversation, error) {
						return c.client.CreateConversation(ctx, userID, title)
					}, "conversations")
				return conversationCreatedMsg{conversation: conversation, err: err}
			}
		case "esc":
			c.mode = conversationsModeList
			return nil
		}
		var cmd tea.Cmd
		c.titleInput, cmd = c.titleInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < len(c.conversations)-1 {
			c.cursor++
		}
	case "a":
		c.mode = conversationsModeAdd
		c.titleInput.SetValue("")
		c.titleInput.Focus()
		return textinput.Blink
	case "r":
		c.store.Invalidate("conversations")
		return c.Init()
	case "enter":
		if len(c.conversations) > 0 {
			return NavigateWithConversation("chat", c.conversations[c.cursor].ID)
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (c *Conversations) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("CONVERSATIONS"))
	b.WriteString("\n\n")

	if c.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if c.err != nil {
		b.WriteString(ErrorStyle.Render("Failed to load conversations. Please try again."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(c.err.Error()))
		b.WriteString("\n\n")
	}

	if c.mode == conversationsModeAdd {
		b.WriteString("New conversation:\n")
		b.WriteString(c.titleInput.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Create  [esc] Cancel"))
		return b.String()
	}

	if len(c.conversations) == 0 {
		b.WriteString(DimStyle.Render("No conversations yet. Press [a] to start one."))
		b.WriteString("\n\n")
	} else {
		for i, conv := range c.conversations {
			cursor := "  "
			style := NormalStyle
			if i == c.cursor {
				cursor = "> "
				style = SelectedStyle
			}
			line := fmt.Sprintf("%s#%d %s  %s", cursor, conv.ID,
				truncate(conv.Title, 45), DimStyle.Render(formatStamp(conv.CreatedAt)))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[enter] Open chat  [a] New  [r] Refresh  [q] Back"))
	return b.String()
}
