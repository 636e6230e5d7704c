// Package playground is an interactive terminal view that converts the
// typed text with several option sets as you type.
package playground

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jusunglee/pinyin/internal/pinyin"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// Runner is the part of *pinyin.Converter the playground needs.
type Runner interface {
	Run(ctx context.Context, op pinyin.Operation, s, delimiter string, opts pinyin.Options) (pinyin.Result, error)
}

type view struct {
	label string
	op    pinyin.Operation
	opts  pinyin.Options
}

// views are rendered top to bottom for every input.
var views = []view{
	{"tone", pinyin.OpPhrase, pinyin.Options{Tone: true}},
	{"plain", pinyin.OpPhrase, pinyin.Options{NoTone: true}},
	{"ascii tone", pinyin.OpPhrase, pinyin.Options{ASCIITone: true, UmlautV: true}},
	{"abbr", pinyin.OpAbbr, pinyin.Options{}},
	{"permalink", pinyin.OpPermalink, pinyin.Options{}},
	{"sentence", pinyin.OpSentence, pinyin.SentenceDefaults},
}

type row struct {
	label string
	value string
}

type resultsMsg struct {
	seq  int
	rows []row
	err  error
}

type model struct {
	ctx      context.Context
	conv     Runner
	input    textinput.Model
	nameMode bool
	seq      int
	rows     []row
	err      error
	width    int
}

func New(ctx context.Context, conv Runner) model {
	ti := textinput.New()
	ti.Placeholder = "输入汉字"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 50

	return model{ctx: ctx, conv: conv, input: ti}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.nameMode = !m.nameMode
			m.seq++
			return m, m.convert()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case resultsMsg:
		if msg.seq == m.seq {
			m.rows, m.err = msg.rows, msg.err
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.seq++
		return m, tea.Batch(cmd, m.convert())
	}
	return m, cmd
}

// convert renders every view for the current input off the update loop.
// Replies for older inputs are dropped by seq.
func (m model) convert() tea.Cmd {
	ctx, conv, seq, text, nameMode := m.ctx, m.conv, m.seq, m.input.Value(), m.nameMode
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return resultsMsg{seq: seq}
		}
		rows := make([]row, 0, len(views))
		for _, v := range views {
			opts := v.opts
			if nameMode {
				opts = opts.With(pinyin.NameDefaults)
			}
			res, err := conv.Run(ctx, v.op, text, v.op.DefaultDelimiter(), opts)
			if err != nil {
				return resultsMsg{seq: seq, err: fmt.Errorf("%s: %w", v.label, err)}
			}
			value := res.Text
			if v.op.Tokenized() {
				value = strings.Join(res.Tokens, " ")
			}
			rows = append(rows, row{label: v.label, value: value})
		}
		return resultsMsg{seq: seq, rows: rows}
	}
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Pinyin Playground"))
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n\n")

	mode := "text"
	if m.nameMode {
		mode = "name"
	}
	s.WriteString(dimStyle.Render("mode: ") + modeStyle.Render(mode))
	s.WriteString("\n\n")

	var body strings.Builder
	switch {
	case m.err != nil:
		body.WriteString(errorStyle.Render(m.err.Error()))
	case len(m.rows) == 0:
		body.WriteString(dimStyle.Render("start typing"))
	default:
		for i, r := range m.rows {
			if i > 0 {
				body.WriteString("\n")
			}
			body.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value))
		}
	}
	s.WriteString(boxStyle.Render(body.String()))
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("tab: toggle name mode • esc: quit"))
	s.WriteString("\n")
	return s.String()
}

// Run starts the playground and blocks until the user quits.
func Run(ctx context.Context, conv Runner) error {
	p := tea.NewProgram(New(ctx, conv), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
