// Package console is the text front end: it prompts on the terminal,
// drives AccountService from the menu and renders results.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console reads lines and secrets from in and writes to out. It satisfies
// service.Prompter.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	ttyFd int
	tty   bool
}

func New(in io.Reader, out io.Writer) *Console {
	c := &Console{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.ttyFd = int(f.Fd())
		c.tty = true
	}
	return c
}

// ReadLine prints prompt and returns the next input line without its line
// ending. A final line lacking a newline is still returned; io.EOF is
// reported only when nothing was read.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret reads a line without echo when attached to a terminal.
func (c *Console) ReadSecret(prompt string) (string, error) {
	if !c.tty {
		return c.ReadLine(prompt)
	}
	fmt.Fprint(c.out, prompt)
	b, err := term.ReadPassword(c.ttyFd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Console) Notify(message string) {
	fmt.Fprintln(c.out, message)
}
