package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ledger/internal/core"
)

// BirthDateLayout is the dd-mm-yyyy form customers type their birth date in.
const BirthDateLayout = "02-01-2006"

// maxAnswerBytes bounds a single answer. Longer lines are consumed and
// refused.
const maxAnswerBytes = 4096

var errAnswerTooLong = errors.New("answer too long")

// prompter reads one answer per line.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the trimmed answer, or io.EOF once input
// is exhausted. An over-long answer is discarded and the question repeated.
func (p *prompter) ask(question string) (string, error) {
	for {
		fmt.Fprint(p.out, question)
		line, err := p.readLine()
		if errors.Is(err, errAnswerTooLong) {
			fmt.Fprintf(p.out, "\n@@@ Input too long, at most %d characters @@@\n", maxAnswerBytes)
			continue
		}
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

// readLine returns the next line without its terminator. The whole line is
// always consumed, even when it exceeds maxAnswerBytes.
func (p *prompter) readLine() (string, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := p.in.ReadLine()
		if err != nil {
			return "", err
		}
		if !tooLong {
			line = append(line, chunk...)
			tooLong = len(line) > maxAnswerBytes
		}
		if isPrefix {
			continue
		}
		if tooLong {
			return "", errAnswerTooLong
		}
		return string(line), nil
	}
}

// askAmount re-prompts until the answer parses as a decimal amount. Sign is
// not checked here; the account decides whether an amount is acceptable.
func (p *prompter) askAmount(question string) (core.Money, error) {
	for {
		answer, err := p.ask(question)
		if err != nil {
			return core.Money{}, err
		}
		amount, err := core.ParseAmount(answer)
		if err == nil {
			return amount, nil
		}
		if !errors.Is(err, core.ErrMalformedAmount) {
			return core.Money{}, err
		}
		fmt.Fprintf(p.out, "\n@@@ %q is not a valid amount, use a number such as 100.50 @@@\n", answer)
	}
}

// askBirthDate re-prompts until the answer is a dd-mm-yyyy date in the past.
// An empty answer is accepted.
func (p *prompter) askBirthDate(question string, now time.Time) (string, error) {
	for {
		answer, err := p.ask(question)
		if err != nil || answer == "" {
			return answer, err
		}
		d, err := time.Parse(BirthDateLayout, answer)
		if err == nil && d.Before(now) {
			return answer, nil
		}
		fmt.Fprintln(p.out, "\n@@@ Invalid date, use dd-mm-yyyy @@@")
	}
}
