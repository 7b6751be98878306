// Package console turns the operator's terminal into a command stream for
// the session loop: one line per trigger, no shared state with the network
// side.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ZelenyMartin/quiz-server/internal/app"
)

// Reader parses line-oriented operator input and feeds the session.
type Reader struct {
	session *app.Session
	in      io.Reader
	out     io.Writer
}

// NewReader wires operator input from in and prompts/help to out.
func NewReader(session *app.Session, in io.Reader, out io.Writer) *Reader {
	return &Reader{session: session, in: in, out: out}
}

// Run consumes operator lines until input ends or the session terminates.
// "start" begins the quiz; "y", "next" or "advance" move to the next
// question; anything else prints a reminder.
func (r *Reader) Run() {
	fmt.Fprintln(r.out, `type "start" to begin the quiz`)
	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "Proceed [y/N]: ")
		if !scanner.Scan() {
			return
		}

		var cmd app.Command
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "start":
			cmd = app.Start{}
		case "y", "yes", "next", "advance":
			cmd = app.Advance{}
		default:
			continue
		}

		if err := r.session.Send(cmd); err != nil {
			return
		}
	}
}
