package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/trazo/pkg/diary"
)

// Chat styles
var (
	chatBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	chatUserStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	chatDiaryStyle  = lipgloss.NewStyle().Foreground(colorWhite).PaddingLeft(2)
	chatErrorStyle  = lipgloss.NewStyle().Foreground(colorRed).PaddingLeft(2)
	chatImageStyle  = lipgloss.NewStyle().Foreground(colorGreen).PaddingLeft(2)
)

// historyLimit bounds how many exchanges the transcript keeps.
const historyLimit = 50

// =============================================================================
// ChatModel - Interactive diary conversation
// =============================================================================

// chatLine is one exchange in the transcript.
type chatLine struct {
	user  string
	reply diary.Reply
	err   error
}

// replyMsg carries the diary's answer back into the model.
type replyMsg struct {
	input string
	reply diary.Reply
	err   error
}

// ChatModel is the bubbletea model for the terminal diary.
type ChatModel struct {
	Diary     *diary.Diary
	SessionID string

	ctx     context.Context
	vp      viewport.Model
	ti      textinput.Model
	history []chatLine
	pending string
	width   int
	height  int
	ready   bool
}

// NewChatModel creates a chat model bound to one session.
func NewChatModel(ctx context.Context, d *diary.Diary, sessionID string) *ChatModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "😊 🌊 … o /imagen, /rio"
	ti.CharLimit = 0
	ti.Focus()

	return &ChatModel{
		Diary:     d,
		SessionID: sessionID,
		ctx:       ctx,
		ti:        ti,
		width:     80,
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ChatModel) send(text string) tea.Cmd {
	ctx, d, id := m.ctx, m.Diary, m.SessionID
	return func() tea.Msg {
		reply, err := d.Handle(ctx, id, text)
		return replyMsg{input: text, reply: reply, err: err}
	}
}

func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	cmds = append(cmds, cmd)
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.ti.Value())
			if text == "" || m.pending != "" {
				break
			}
			m.ti.Reset()
			m.pending = text
			m.refresh()
			cmds = append(cmds, m.send(text))
		}

	case replyMsg:
		m.pending = ""
		if msg.err == nil && msg.reply.SessionID != "" {
			m.SessionID = msg.reply.SessionID
		}
		m.history = append(m.history, chatLine{user: msg.input, reply: msg.reply, err: msg.err})
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
		m.refresh()
	}
	return m, tea.Batch(cmds...)
}

// layout sizes the transcript to leave room for the header and the input.
func (m *ChatModel) layout() {
	m.ti.Width = max(m.width-4, 10)
	m.vp.Width = max(m.width-2, 10)
	m.vp.Height = max(m.height-7, 3)
}

// refresh recomposes the transcript and scrolls to the newest exchange.
func (m *ChatModel) refresh() {
	m.vp.SetContent(m.transcript())
	m.vp.GotoBottom()
}

func (m *ChatModel) transcript() string {
	var b strings.Builder
	wrap := lipgloss.NewStyle().Width(max(m.vp.Width-4, 20))
	for _, line := range m.history {
		b.WriteString(chatUserStyle.Render("tú  ") + line.user + "\n")
		switch {
		case line.err != nil:
			b.WriteString(chatErrorStyle.Render(wrap.Render(line.err.Error())))
		case strings.HasPrefix(line.reply.Text, "⚠️"):
			b.WriteString(chatDiaryStyle.Render(StyleWarning.Render(wrap.Render(line.reply.Text))))
		default:
			b.WriteString(chatDiaryStyle.Render(wrap.Render(line.reply.Text)))
		}
		if line.reply.Image != nil {
			b.WriteString("\n")
			b.WriteString(chatImageStyle.Render(iconArrow + " " + line.reply.Image.Location))
		}
		b.WriteString("\n\n")
	}
	if m.pending != "" {
		b.WriteString(chatUserStyle.Render("tú  ") + m.pending + "\n")
		b.WriteString(StyleDim.Render("  pensando…"))
	}
	return b.String()
}

func (m *ChatModel) View() string {
	if !m.ready {
		return "Iniciando…"
	}
	header := StyleTitle.Render("Diario Intuitivo") + "  " + StyleDim.Render("sesión "+m.SessionID)
	help := StyleDim.Render("emojis para tu río · /imagen para el trazo · /rio para el río · esc para salir")
	return header + "\n" + help + "\n" +
		chatBorderStyle.Render(m.vp.View()) + "\n" +
		chatBorderStyle.Render(m.ti.View())
}
