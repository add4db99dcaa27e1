package services

import (
	"errors"

	"github.com/Dosada05/agent-tournament/brackets"
	"github.com/Dosada05/agent-tournament/models"
)

// Errors shared by the tournament services.
var (
	// Fatal before any match is played.
	ErrUnsupportedGame = models.ErrUnsupportedGame

	// Fatal: a pairing references a competitor with no launch command.
	ErrUnknownCompetitor = errors.New("unknown competitor")

	// Recorded on the outcome, excluded from scoring; the round continues.
	ErrMatchExecution = errors.New("match execution failed")

	// Logged as a warning; the finals proceed with whoever is left.
	ErrDegradedAdvancement = errors.New("degraded advancement")

	// Fatal: every match must be durably recorded.
	ErrPersistence = errors.New("failed to persist tournament results")

	ErrInvalidGroups           = brackets.ErrInvalidGroups
	ErrInsufficientCompetitors = brackets.ErrInsufficientCompetitors
)
