// Package prompt reads answers to interactive questions line by line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned once the input is exhausted.
var ErrNoInput = errors.New("prompt: input exhausted")

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question on its own line and returns the next input line with
// surrounding whitespace removed.
func (p *Prompter) Ask(question string) (string, error) {
	if question != "" {
		_, _ = fmt.Fprintln(p.out, question)
	}
	return p.readLine()
}

// Until asks question and keeps reading lines, printing retry after each
// rejected one, until parse accepts a line. There is no retry limit; it only
// gives up when the input runs out.
func Until[T any](p *Prompter, question, retry string, parse func(string) (T, bool)) (T, error) {
	line, err := p.Ask(question)
	for {
		if err != nil {
			var zero T
			return zero, err
		}
		if v, ok := parse(line); ok {
			return v, nil
		}
		if retry != "" {
			_, _ = fmt.Fprintln(p.out, retry)
		}
		line, err = p.readLine()
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
