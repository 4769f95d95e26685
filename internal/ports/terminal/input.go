package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"president/internal/app"
	"president/internal/domain"
)

// CommandKind is what the human asked for at the prompt.
type CommandKind int

const (
	CommandPlay CommandKind = iota
	CommandPass
	CommandHelp
	CommandQuit
)

type Command struct {
	Kind CommandKind
	Card domain.Card
}

var ErrEmptyInput = errors.New("empty input")

// HelpText lists the accepted inputs.
const HelpText = `Enter a card to play it: 7h, 10s, qd, jr (red joker), or #3 for the third card in your hand.
"pass" passes, "help" shows this text, "quit" leaves the match.`

// ParseCommand interprets one line typed at the prompt. Card inputs must name a card in hand.
func ParseCommand(line string, hand []domain.Card) (Command, error) {
	in := strings.ToLower(strings.TrimSpace(line))
	switch in {
	case "":
		return Command{}, ErrEmptyInput
	case "pass", "p":
		return Command{Kind: CommandPass}, nil
	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	}

	if strings.HasPrefix(in, "#") {
		n, err := strconv.Atoi(in[1:])
		if err != nil || n < 1 || n > len(hand) {
			return Command{}, fmt.Errorf("no card at position %q", in[1:])
		}
		return Command{Kind: CommandPlay, Card: hand[n-1]}, nil
	}

	card, err := domain.ParseCard(in)
	if err != nil {
		return Command{}, err
	}
	for _, c := range hand {
		if c == card {
			return Command{Kind: CommandPlay, Card: card}, nil
		}
	}
	return Command{}, fmt.Errorf("%s is not in your hand", card)
}

// Prompter asks the human for their next move.
type Prompter interface {
	Prompt(s app.Snapshot) (string, error)
}

// LinePrompter reads one line per move, for piped input and tests.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *LinePrompter) Prompt(s app.Snapshot) (string, error) {
	fmt.Fprint(p.out, "Your move> ")
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// InteractivePrompter uses the pterm text input on a real terminal.
type InteractivePrompter struct{}

func (InteractivePrompter) Prompt(s app.Snapshot) (string, error) {
	text := "Your move"
	if len(s.Legal) == 0 {
		text = "Nothing playable, type pass"
	}
	return pterm.DefaultInteractiveTextInput.WithDefaultText(text).Show()
}
