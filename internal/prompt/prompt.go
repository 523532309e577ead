// Package prompt runs small terminal forms on bubbletea. Each field re-asks
// until its answer validates.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when input ends or the user cancels before the form
// is complete.
var ErrAborted = errors.New("input closed before a valid answer")

// field is one question. submit validates the trimmed answer and returns the
// next field, or nil when the form is done.
type field struct {
	label  string
	secret bool
	submit func(answer string) (*field, error)
}

// form is the bubbletea model driving a chain of fields.
type form struct {
	field    *field
	input    []rune
	err      error
	answered []string
	aborted  bool
}

func newForm(first *field) *form {
	return &form{field: first}
}

func (m *form) Init() tea.Cmd { return nil }

func (m *form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.field == nil {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyCtrlJ:
		return m.submit()
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
	return m, nil
}

func (m *form) submit() (tea.Model, tea.Cmd) {
	answer := strings.TrimSpace(string(m.input))
	m.input = m.input[:0]
	next, err := m.field.submit(answer)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.answered = append(m.answered, fmt.Sprintf("%s: %s", m.field.label, m.field.echo(answer)))
	m.err = nil
	m.field = next
	if next == nil {
		return m, tea.Quit
	}
	return m, nil
}

func (m *form) View() string {
	var b strings.Builder
	for _, line := range m.answered {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if m.field == nil || m.aborted {
		return b.String()
	}
	fmt.Fprintf(&b, "%s: %s\n", m.field.label, m.field.echo(string(m.input)))
	if m.err != nil {
		fmt.Fprintf(&b, "  %v\n", m.err)
	}
	return b.String()
}

func (f *field) echo(s string) string {
	if f.secret {
		return strings.Repeat("*", len([]rune(s)))
	}
	return s
}

type Prompter struct {
	in  io.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// run drives the form from first until it completes.
func (p *Prompter) run(ctx context.Context, first *field) error {
	m := newForm(first)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(terminalInput(p.in)),
		tea.WithOutput(p.out))
	if _, err := prog.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("run form: %w", err)
	}
	if m.aborted || m.field != nil {
		return ErrAborted
	}
	return nil
}

// Password asks for a non-empty secret without echoing it.
func (p *Prompter) Password(ctx context.Context, label string) (string, error) {
	var password string
	err := p.run(ctx, &field{label: label, secret: true, submit: func(s string) (*field, error) {
		if s == "" {
			return nil, errors.New("password cannot be empty")
		}
		password = s
		return nil, nil
	}})
	return password, err
}

// terminalInput passes a terminal through so bubbletea can put it in raw
// mode. Any other reader gets a trailing ctrl+d so the form ends at EOF.
func terminalInput(r io.Reader) io.Reader {
	if f, ok := r.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return f
		}
	}
	return &eofReader{r: r}
}

type eofReader struct {
	r    io.Reader
	done bool
}

func (e *eofReader) Read(b []byte) (int, error) {
	if e.done {
		return 0, io.EOF
	}
	n, err := e.r.Read(b)
	if errors.Is(err, io.EOF) && n < len(b) {
		b[n] = 0x04
		e.done = true
		return n + 1, nil
	}
	return n, err
}
