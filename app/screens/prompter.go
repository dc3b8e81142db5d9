package screens

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads one line of console input per prompt.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	styles  styles
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Prompter{scanner: scanner, out: out, styles: newStyles(out)}
}

// ReadLine prints "> " and returns the next line without its line ending.
// It returns io.EOF once the input is exhausted.
func (p *Prompter) ReadLine() (string, error) {
	fmt.Fprint(p.out, "> ")
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// Ask prints message on its own line and reads the answer.
func (p *Prompter) Ask(message string) (string, error) {
	fmt.Fprintln(p.out, message)
	return p.ReadLine()
}

// AskNonEmpty asks until the trimmed answer is not empty.
func (p *Prompter) AskNonEmpty(message, retry string) (string, error) {
	answer, err := p.Ask(message)
	for err == nil && strings.TrimSpace(answer) == "" {
		answer, err = p.Ask(p.styles.Warning.Render(retry))
	}
	return strings.TrimSpace(answer), err
}

// Select reads until the input is one of valid. Menus are printed by the
// caller; invalid input only reprints the error.
func (p *Prompter) Select(valid []string) (string, error) {
	for {
		selection, err := p.ReadLine()
		if err != nil {
			return "", err
		}
		for _, v := range valid {
			if selection == v {
				return selection, nil
			}
		}
		fmt.Fprintln(p.out, p.styles.Error.Render(fmt.Sprintf(
			"%q is an invalid selection, please enter a valid selection from the menu above.", selection)))
	}
}
