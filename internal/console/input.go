package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrNotANumber = errors.New("not a number")

// Input reads caretaker lines from one stream. The menu and the guessing game
// share it, so answers and menu choices never race for bytes.
type Input struct {
	r   *bufio.Reader
	out io.Writer
}

func NewInput(r io.Reader, out io.Writer) *Input {
	return &Input{r: bufio.NewReader(r), out: out}
}

// Line prints prompt and returns the next line without its line ending.
// A final line without a newline is returned; io.EOF means nothing was left.
func (in *Input) Line(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(in.out, PromptStyle.Render(prompt)+" ")
	}
	line, err := in.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Int asks until the caretaker types a whole number. Only a read error ends it.
func (in *Input) Int(prompt string) (int, error) {
	for {
		line, err := in.Line(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(in.out, WarnStyle.Render("please enter a whole number"))
	}
}

// Answer reads one game answer. Unlike Int it does not re-prompt: a malformed
// answer bores the creature.
func (in *Input) Answer(prompt string) (int, error) {
	line, err := in.Line(prompt)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(line)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return n, nil
}
