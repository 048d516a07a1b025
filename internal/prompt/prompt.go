// Package prompt reads sign-in details from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Credentials is what the agent asks for before signing in.
type Credentials struct {
	Email        string
	Password     string
	Confirmation string
}

// Prompter asks questions on w and reads answers from in. fd is the file
// descriptor behind in; when it is a terminal passwords are read without
// echo, otherwise they are read as plain lines.
type Prompter struct {
	in  *bufio.Reader
	fd  int
	out io.Writer
}

func New(in io.Reader, fd int, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), fd: fd, out: out}
}

// Line prints label and returns the next input line with surrounding
// space trimmed. A final line without a newline is still returned.
func (p *Prompter) Line(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label+": "); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prints label and reads a password.
func (p *Prompter) Password(label string) (string, error) {
	if !isTerminal(p.fd) {
		return p.Line(label)
	}
	if _, err := fmt.Fprint(p.out, label+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	s := string(pw)
	clear(pw)
	return s, nil
}

// Credentials asks for email and password, and for a confirmation too when
// signUp is set.
func (p *Prompter) Credentials(signUp bool) (Credentials, error) {
	var c Credentials
	var err error
	if c.Email, err = p.Line("Email"); err != nil {
		return c, err
	}
	if c.Password, err = p.Password("Password"); err != nil {
		return c, err
	}
	if signUp {
		if c.Confirmation, err = p.Password("Confirm password"); err != nil {
			return c, err
		}
	}
	return c, nil
}
