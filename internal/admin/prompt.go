package admin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the operator's input ends before an answer.
var ErrNoInput = errors.New("no input: EOF when reading a line")

// Prompter asks the operator for a yes/no decision and a secret.
type Prompter interface {
	Confirm(question string) (bool, error)
	Secret(label string) (string, error)
}

func isYes(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == "s"
}

// ConsolePrompter reads answers line by line from in. When in is a terminal,
// secrets are read without echo.
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer

	fd           int
	terminal     bool
	readPassword func(fd int) ([]byte, error)
}

func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	p := &ConsolePrompter{
		in:           bufio.NewReader(in),
		out:          out,
		readPassword: term.ReadPassword,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.terminal = true
	}
	return p
}

func (p *ConsolePrompter) Confirm(question string) (bool, error) {
	fmt.Fprint(p.out, question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func (p *ConsolePrompter) Secret(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.terminal {
		b, err := p.readPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// readLine returns the next line without its terminator. A final line without
// a newline still counts; EOF before any byte is ErrNoInput.
func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ScriptedPrompter replays canned answers in order. Prompts are echoed to Out
// when it is set, so transcripts read like a console session.
type ScriptedPrompter struct {
	Answers []string
	Out     io.Writer

	asked []string
}

func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Answers: answers}
}

func (p *ScriptedPrompter) Confirm(question string) (bool, error) {
	answer, err := p.next(question)
	if err != nil {
		return false, err
	}
	return isYes(answer), nil
}

func (p *ScriptedPrompter) Secret(label string) (string, error) {
	answer, err := p.next(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Asked lists the prompts shown so far.
func (p *ScriptedPrompter) Asked() []string {
	return p.asked
}

func (p *ScriptedPrompter) next(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if p.Out != nil {
		fmt.Fprint(p.Out, prompt)
	}
	if len(p.Answers) == 0 {
		return "", ErrNoInput
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	if p.Out != nil {
		fmt.Fprintln(p.Out, answer)
	}
	return answer, nil
}
