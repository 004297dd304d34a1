package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/chat"
	"github.com/jmvargas/taskdeck/internal/query"
)

// ChatView drives one conversation. Sent messages appear immediately as
// pending and are reconciled against the server reply; a failed send removes
// the pending entry and restores the input so nothing is lost.
type ChatView struct {
	client *api.Client
	store  *query.Store
	width  int
	height int

	session        *chat.Session
	conversationID int64
	input          textinput.Model

	sending bool
	loading bool
	err     error
}

func NewChatView(client *api.Client, store *query.Store, userID int64, model string) *ChatView {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.CharLimit = 2000
	input.Width = 60

	return &ChatView{
		client:  client,
		store:   store,
		session: chat.NewSession(client, userID, model),
		input:   input,
	}
}

func (v *ChatView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = max(20, width-10)
}

// SetConversation points the view at a stored conversation; 0 starts a fresh
// assistant thread.
func (v *ChatView) SetConversation(id int64) {
	v.conversationID = id
	v.err = nil
}

type chatHistoryMsg struct {
	conversationID int64
	messages       []api.Message
	err            error
}

type chatSentMsg struct {
	restore string
	err     error
}

func (v *ChatView) Init() tea.Cmd {
	v.input.Focus()
	if v.conversationID == 0 {
		v.loading = false
		return textinput.Blink
	}
	v.loading = true
	id := v.conversationID
	return func() tea.Msg {
		messages, err := query.Fetch(context.Background(), v.store, query.NewKey("messages", id),
			func(ctx context.Context) ([]api.Message, error) {
				return v.client.ListMessages(ctx, id, 0, 200)
			})
		return chatHistoryMsg{conversationID: id, messages: messages, err: err}
	}
}

func (v *ChatView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case chatHistoryMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.session.Load(msg.conversationID, msg.messages)
		}
		return nil

	case chatSentMsg:
		v.sending = false
		if msg.err != nil {
			v.err = msg.err
			v.input.SetValue(msg.restore)
			return nil
		}
		v.err = nil
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return v.send()
		case "esc":
			return Navigate("conversations")
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *ChatView) send() tea.Cmd {
	if v.sending {
		return nil
	}
	content := strings.TrimSpace(v.input.Value())
	if content == "" {
		return nil
	}
	v.input.SetValue("")
	v.sending = true
	v.err = nil

	session := v.session
	conversationID := v.conversationID
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if conversationID != 0 {
			_, err = session.SendMessage(ctx, conversationID, content)
			if err == nil {
				v.store.InvalidateKey(query.NewKey("messages", conversationID))
			}
		} else {
			_, err = session.Turn(ctx, content)
			if err == nil {
				v.store.Invalidate("conversations")
			}
		}
		if err != nil {
			return chatSentMsg{restore: content, err: err}
		}
		return chatSentMsg{}
	}
}

func (v *ChatView) View() string {
	var b strings.Builder

	title := "CHAT"
	if v.conversationID != 0 {
		title = fmt.Sprintf("CHAT · conversation #%d", v.conversationID)
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if v.err != nil {
		b.WriteString(ErrorStyle.Render("Message failed to send."))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(v.err.Error()))
		b.WriteString("\n\n")
	}

	entries := v.session.Messages()
	if len(entries) == 0 {
		b.WriteString(DimStyle.Render("No messages yet."))
		b.WriteString("\n\n")
	}
	for _, e := range entries {
		speaker := "assistant"
		style := NormalStyle
		if e.Message.IsUserMessage {
			speaker = "you"
			style = SelectedStyle
		}
		suffix := ""
		if e.State == chat.PendingLocal {
			suffix = DimStyle.Render(" (sending...)")
		}
		b.WriteString(style.Render(fmt.Sprintf("%s: %s", speaker, e.Message.Content)))
		b.WriteString(suffix)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	in, out, thought := v.session.Usage()
	b.WriteString(DimStyle.Render(fmt.Sprintf("tokens in %s · out %s · thought %s",
		FormatTokens(in), FormatTokens(out), FormatTokens(thought))))
	b.WriteString("\n\n")

	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[enter] Send  [esc] Back"))
	return b.String()
}
