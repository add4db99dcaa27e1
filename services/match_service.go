package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/agent-tournament/models"
)

// DefaultRefereeCommand launches the course referee through uv.
const DefaultRefereeCommand = "uv run cs4341-referee"

// MatchRequest is one pairing to play.
type MatchRequest struct {
	Game        models.GameKind
	CompetitorA string
	CompetitorB string
	Settings    models.GameSettings
}

// MatchRunner plays a single match. Execution problems are reported on the
// outcome; the error return is reserved for conditions that must abort the
// tournament.
type MatchRunner interface {
	RunMatch(ctx context.Context, req MatchRequest) (models.MatchOutcome, error)
}

// CommandExecutor runs a process to completion and captures both streams.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args []string) (stdout, stderr string, err error)
}

type execCommandExecutor struct{}

func NewExecCommandExecutor() CommandExecutor {
	return &execCommandExecutor{}
}

func (e *execCommandExecutor) Execute(ctx context.Context, name string, args []string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

type RefereeRunnerConfig struct {
	// Command is split on whitespace into the program and its leading args.
	Command string
	// Deadline bounds a whole referee process; zero means no bound.
	Deadline time.Duration
}

type refereeRunner struct {
	program      string
	leadingArgs  []string
	deadline     time.Duration
	competitors  map[string]models.Competitor
	executor     CommandExecutor
	interpreters map[models.GameKind]ResultInterpreter
	logger       *slog.Logger
}

func NewRefereeRunner(
	cfg RefereeRunnerConfig,
	competitors map[string]models.Competitor,
	executor CommandExecutor,
	logger *slog.Logger,
) (MatchRunner, error) {
	fields := strings.Fields(cfg.Command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultRefereeCommand)
	}

	interpreters := make(map[models.GameKind]ResultInterpreter, len(gameSignals))
	for kind := range gameSignals {
		interp, err := InterpreterFor(kind)
		if err != nil {
			return nil, err
		}
		interpreters[kind] = interp
	}

	return &refereeRunner{
		program:      fields[0],
		leadingArgs:  fields[1:],
		deadline:     cfg.Deadline,
		competitors:  competitors,
		executor:     executor,
		interpreters: interpreters,
		logger:       logger,
	}, nil
}

func (r *refereeRunner) RunMatch(ctx context.Context, req MatchRequest) (models.MatchOutcome, error) {
	interpret, ok := r.interpreters[req.Game]
	if !ok {
		return models.MatchOutcome{}, fmt.Errorf("%w: %s", ErrUnsupportedGame, req.Game)
	}
	a, ok := r.competitors[req.CompetitorA]
	if !ok {
		return models.MatchOutcome{}, fmt.Errorf("%w: %q", ErrUnknownCompetitor, req.CompetitorA)
	}
	b, ok := r.competitors[req.CompetitorB]
	if !ok {
		return models.MatchOutcome{}, fmt.Errorf("%w: %q", ErrUnknownCompetitor, req.CompetitorB)
	}

	args := append(append([]string(nil), r.leadingArgs...), BuildRefereeArgs(req.Game, a.Command, b.Command, req.Settings)...)
	r.logger.Debug("executing referee",
		slog.String("command", r.program+" "+strings.Join(args, " ")),
	)

	runCtx := ctx
	if r.deadline > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.deadline)
		defer cancel()
	}

	stdout, stderr, execErr := r.executor.Execute(runCtx, r.program, args)

	r.logger.Debug("referee stdout", slog.String("stdout", stdout))
	if stderr != "" {
		r.logger.Warn("referee stderr", slog.String("stderr", stderr))
	}

	outcome := interpret(stdout, stderr, req.CompetitorA, req.CompetitorB)
	if execErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			execErr = fmt.Errorf("referee exceeded %s: %w", r.deadline, execErr)
		}
		msg := fmt.Sprintf("%v: %v", ErrMatchExecution, execErr)
		if outcome.Error != "" && outcome.Error != noResultMessage {
			msg += "; " + outcome.Error
		}
		outcome = models.MatchOutcome{
			CompetitorA: req.CompetitorA,
			CompetitorB: req.CompetitorB,
			Error:       msg,
		}
	}

	return outcome, nil
}

// BuildRefereeArgs renders the referee command line for one match. Unset
// timeout, port, debug and random-assignment are omitted; unset visual is
// rendered as --no-visual.
func BuildRefereeArgs(game models.GameKind, commandA, commandB string, settings models.GameSettings) []string {
	args := []string{
		string(game),
		"--player1", commandA,
		"--player2", commandB,
	}

	if settings.Timeout != nil {
		args = append(args, "--timeout", strconv.Itoa(*settings.Timeout))
	}

	visual := settings.Visual != nil && *settings.Visual
	args = append(args, boolFlag("visual", visual))

	if settings.RandomAssignment != nil {
		args = append(args, boolFlag("random-assignment", *settings.RandomAssignment))
	}
	if settings.Debug != nil {
		args = append(args, boolFlag("debug", *settings.Debug))
	}
	if settings.Port != nil {
		args = append(args, "--port", strconv.Itoa(*settings.Port))
	}
	return args
}

func boolFlag(name string, on bool) string {
	if on {
		return "--" + name
	}
	return "--no-" + name
}
