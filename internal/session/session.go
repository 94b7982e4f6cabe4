// Package session drives a field interactively from line-oriented commands.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-odds/internal/logger"
	"github.com/yourusername/race-odds/internal/models"
	"github.com/yourusername/race-odds/internal/report"
	"github.com/yourusername/race-odds/internal/service"
)

const helpText = `Commands:
  add [label]      add a runner with the default weight
  remove <i>       remove runner i
  set <i> <w>      set runner i's weight (clamped to the allowed range)
  show             print the current field
  help             print this help
  quit             leave the session
`

// ErrUnknownCommand is returned for input that is not a command.
var ErrUnknownCommand = errors.New("unknown command")

// Session reads commands, applies them to a field and prints the field
// after every change.
type Session struct {
	ID        uuid.UUID
	service   *service.FieldService
	logger    *logger.FieldLogger
	out       io.Writer
	format    report.Format
	precision int
}

// New creates a session writing reports to out. log should already carry
// the session id, see NewLogger.
func New(id uuid.UUID, svc *service.FieldService, log *logger.FieldLogger, out io.Writer, format report.Format, precision int) *Session {
	return &Session{
		ID:        id,
		service:   svc,
		logger:    log,
		out:       out,
		format:    format,
		precision: precision,
	}
}

// NewLogger returns a field logger tagged with a fresh session id, to be
// shared by the session and the field service it drives.
func NewLogger(base *logrus.Logger) (uuid.UUID, *logger.FieldLogger) {
	id := uuid.New()
	return id, logger.NewFieldLogger(base).WithSession(id.String())
}

// Run processes commands from in until quit, end of input or ctx is done.
// Command errors are printed and the session continues. Cancelling ctx
// ends the session even while a read is blocked; the pending read is
// abandoned.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.logger.Info("Session started")
	defer s.logger.Info("Session ended")

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.show(); err != nil {
		return err
	}

	// Stops the reader once the session ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(s.out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case next, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-readErr
			}
			line = next
		}

		quit, err := s.Execute(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// Execute applies one command line. It reports whether the session should
// end.
func (s *Session) Execute(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err := fmt.Fprint(s.out, helpText)
		return false, err
	case "show", "ls":
		return false, s.show()
	case "add":
		runner, err := s.service.AddRunner(strings.Join(args, " "))
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "added %s\n", runner.Label)
		return false, s.show()
	case "remove", "rm", "delete":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: remove <i>")
		}
		index, err := parseIndex(args[0])
		if err != nil {
			return false, err
		}
		runner, err := s.service.RemoveRunner(index)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "removed %s\n", runner.Label)
		return false, s.show()
	case "set":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: set <i> <w>")
		}
		index, err := parseIndex(args[0])
		if err != nil {
			return false, err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return false, fmt.Errorf("%w: %q", models.ErrWeightNotNumeric, args[1])
		}
		applied, err := s.service.SetWeight(index, value)
		if err != nil {
			return false, err
		}
		if applied != value {
			fmt.Fprintf(s.out, "weight adjusted to %s\n", report.Fixed(applied, 2))
		}
		return false, s.show()
	default:
		return false, fmt.Errorf("%w %q (try help)", ErrUnknownCommand, cmd)
	}
}

func (s *Session) show() error {
	if err := report.Render(s.out, s.service.Evaluation(), s.format, s.precision); err != nil {
		return err
	}
	if !s.service.CanAdd() {
		fmt.Fprintln(s.out, "maximum runners reached")
	}
	if !s.service.CanRemove() {
		fmt.Fprintln(s.out, "minimum runners reached")
	}
	return nil
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("runner index %q is not an integer", arg)
	}
	return index, nil
}
