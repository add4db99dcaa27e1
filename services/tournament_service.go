package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Dosada05/agent-tournament/brackets"
	"github.com/Dosada05/agent-tournament/models"
	"github.com/Dosada05/agent-tournament/repositories"
	"golang.org/x/sync/errgroup"
)

// finalistCount is how many competitors the last regular round sends on.
const finalistCount = 4

// Reporter receives human-facing results as the tournament progresses.
type Reporter interface {
	RoundCompleted(ctx context.Context, report models.RoundReport) error
	TournamentCompleted(ctx context.Context, summary models.TournamentSummary) error
}

type TournamentConfig struct {
	RunID string
	// MaxParallelGroups bounds how many groups of a round play at once.
	// Values below one run groups sequentially.
	MaxParallelGroups int
}

type TournamentService struct {
	def      models.TournamentDefinition
	runner   MatchRunner
	schedule brackets.ScheduleGenerator
	results  repositories.ResultRepository
	reporter Reporter
	shuffler brackets.Shuffler
	tracker  *StandingsTracker
	bracket  *models.Bracket
	cfg      TournamentConfig
	logger   *slog.Logger

	// mu serialises ledger appends and sink writes so the sink sees
	// outcomes in completion order.
	mu       sync.Mutex
	degraded string
}

func NewTournamentService(
	def models.TournamentDefinition,
	runner MatchRunner,
	results repositories.ResultRepository,
	reporter Reporter,
	shuffler brackets.Shuffler,
	cfg TournamentConfig,
	logger *slog.Logger,
) (*TournamentService, error) {
	if _, err := InterpreterFor(def.Game); err != nil {
		return nil, err
	}
	if err := def.Format.Validate(); err != nil {
		return nil, err
	}
	if len(def.Competitors) == 0 {
		return nil, fmt.Errorf("%w: no competitors configured", ErrInsufficientCompetitors)
	}
	if len(def.Groups) > 0 {
		if err := brackets.ValidatePredefinedGroups(def.Groups, def.CompetitorIDs(), def.PermissiveGroups); err != nil {
			return nil, err
		}
	}
	if cfg.MaxParallelGroups < 1 {
		cfg.MaxParallelGroups = 1
	}

	return &TournamentService{
		def:      def,
		runner:   runner,
		schedule: brackets.NewRoundRobinGenerator(),
		results:  results,
		reporter: reporter,
		shuffler: shuffler,
		tracker:  NewStandingsTracker(NewScoringPolicy(def.Format.Scoring)),
		bracket:  models.NewBracket(),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Bracket exposes the tournament state, mainly for inspection after Run.
func (s *TournamentService) Bracket() *models.Bracket {
	return s.bracket
}

func (s *TournamentService) Standings() *StandingsTracker {
	return s.tracker
}

// Run plays the whole bracket and returns the final placements.
func (s *TournamentService) Run(ctx context.Context) (models.Placements, error) {
	format := s.def.Format
	s.logger.Info("starting tournament",
		slog.String("run_id", s.cfg.RunID),
		slog.String("game", string(s.def.Game)),
		slog.Int("competitors", len(s.def.Competitors)),
		slog.String("rounds", strings.Join(format.RoundNames(), " -> ")),
	)

	if err := s.results.WriteHeader(ctx); err != nil {
		return models.Placements{}, fmt.Errorf("%w: write header: %w", ErrPersistence, err)
	}

	groups, err := brackets.FormGroups(s.def.CompetitorIDs(), s.def.Groups, format.Rounds[0].Groups, format.Partition, s.shuffler)
	if err != nil {
		return models.Placements{}, fmt.Errorf("failed to form first round groups: %w", err)
	}
	if len(s.def.Groups) > 0 {
		s.logger.Info("using predefined groups")
	}

	var standings []models.GroupStandings
	for i, spec := range format.Rounds {
		if i > 0 {
			prev := format.Rounds[i-1]
			groups, err = brackets.NextRoundGroups(standings, prev.AdvancePerGroup(), spec, format.Partition, s.shuffler)
			if err != nil {
				return models.Placements{}, fmt.Errorf("failed to set up %s: %w", spec.Name, err)
			}
		}

		standings, err = s.RunRound(ctx, spec.Name, groups)
		if err != nil {
			return models.Placements{}, err
		}
	}

	finals, err := brackets.SetupFinals(brackets.MergeRanked(standings))
	if err != nil {
		return models.Placements{}, fmt.Errorf("failed to set up %s: %w", format.FinalRound, err)
	}
	if finals.Degraded {
		s.degraded = finals.Reason
		s.logger.Warn("finals are short-handed",
			slog.Any("error", fmt.Errorf("%w: %s", ErrDegradedAdvancement, finals.Reason)),
		)
	}

	finalStandings, err := s.RunRound(ctx, format.FinalRound, finals.Groups)
	if err != nil {
		return models.Placements{}, err
	}

	placements := brackets.FinalPlacements(finalStandings)
	summary, err := s.summary(placements)
	if err != nil {
		return placements, err
	}
	if err := s.reporter.TournamentCompleted(ctx, summary); err != nil {
		return placements, fmt.Errorf("%w: final report: %w", ErrPersistence, err)
	}

	s.logger.Info("tournament completed",
		slog.String("champion", placements.Champion),
		slog.String("runner_up", placements.RunnerUp),
		slog.Int("matches", summary.MatchCount()),
	)
	return placements, nil
}

// RunRound plays every pairing of every group, records each outcome, then
// scores the round and reports its standings.
func (s *TournamentService) RunRound(ctx context.Context, round string, groups []models.Group) ([]models.GroupStandings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.bracket.BeginRound(round, groups); err != nil {
		return nil, err
	}
	if err := s.tracker.BeginRound(round, groups); err != nil {
		return nil, err
	}

	s.logger.Info("starting round",
		slog.String("round", round),
		slog.Int("groups", len(groups)),
		slog.String("schedule", s.schedule.GetName()),
	)
	for _, g := range groups {
		s.logger.Info("group", slog.String("round", round), slog.String("group", g.Name), slog.String("members", strings.Join(g.Members, ", ")))
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.MaxParallelGroups)
	for _, g := range groups {
		eg.Go(func() error {
			return s.runGroup(egCtx, round, g)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := s.bracket.CompleteRound(round); err != nil {
		return nil, err
	}
	state, _ := s.bracket.Round(round)
	scored, err := s.tracker.Update(round, state.Outcomes)
	if err != nil {
		return nil, err
	}

	standings, err := s.tracker.Standings(round)
	if err != nil {
		return nil, err
	}

	report := models.RoundReport{
		Round:     round,
		Final:     round == s.def.Format.FinalRound,
		Standings: standings,
		Advancing: s.advancing(round, standings),
	}
	if err := s.reporter.RoundCompleted(ctx, report); err != nil {
		return nil, fmt.Errorf("%w: %s standings: %w", ErrPersistence, round, err)
	}

	s.logger.Info("round completed",
		slog.String("round", round),
		slog.Int("matches", len(state.Outcomes)),
		slog.Int("scored", scored),
	)
	return standings, nil
}

func (s *TournamentService) runGroup(ctx context.Context, round string, group models.Group) error {
	s.logger.Info("running matches", slog.String("round", round), slog.String("group", group.Name))

	pairings, err := s.schedule.GenerateSchedule(ctx, group)
	if err != nil {
		return fmt.Errorf("failed to schedule %s %s: %w", round, group.Name, err)
	}

	for _, p := range pairings {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Info("match",
			slog.String("round", round),
			slog.String("group", group.Name),
			slog.Int("game", p.Sequence),
			slog.String("player1", p.CompetitorA),
			slog.String("player2", p.CompetitorB),
		)

		outcome, err := s.runner.RunMatch(ctx, MatchRequest{
			Game:        s.def.Game,
			CompetitorA: p.CompetitorA,
			CompetitorB: p.CompetitorB,
			Settings:    s.def.Settings,
		})
		if err != nil {
			return fmt.Errorf("%s %s game %d: %w", round, group.Name, p.Sequence, err)
		}
		if err := ctx.Err(); err != nil {
			// The referee was killed by cancellation; its outcome means nothing.
			return err
		}

		outcome.Round = round
		outcome.Group = group.Name
		outcome.Sequence = p.Sequence
		if err := s.record(ctx, outcome); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentService) record(ctx context.Context, outcome models.MatchOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bracket.AppendOutcome(outcome); err != nil {
		return err
	}
	if err := s.results.Save(ctx, outcome); err != nil {
		return fmt.Errorf("%w: %s %s game %d: %w", ErrPersistence, outcome.Round, outcome.Group, outcome.Sequence, err)
	}

	if !outcome.Scored() {
		s.logger.Warn("match produced no result",
			slog.String("round", outcome.Round),
			slog.String("group", outcome.Group),
			slog.Int("game", outcome.Sequence),
			slog.Any("error", fmt.Errorf("%w: %s", ErrMatchExecution, outcome.Error)),
		)
		return nil
	}
	s.logger.Info("match result",
		slog.String("player1", outcome.CompetitorA),
		slog.String("player2", outcome.CompetitorB),
		slog.String("winner", outcome.Winner),
		slog.Bool("draw", outcome.IsDraw),
	)
	return nil
}

func (s *TournamentService) advancing(round string, standings []models.GroupStandings) []string {
	rounds := s.def.Format.Rounds
	for i, spec := range rounds {
		if spec.Name != round {
			continue
		}
		if i == len(rounds)-1 {
			ranked := brackets.MergeRanked(standings)
			ids := make([]string, 0, finalistCount)
			for _, st := range ranked[:min(finalistCount, len(ranked))] {
				ids = append(ids, st.Competitor)
			}
			return ids
		}
		return brackets.SelectAdvancing(standings, spec.AdvancePerGroup())
	}
	return nil
}

func (s *TournamentService) summary(placements models.Placements) (models.TournamentSummary, error) {
	summary := models.TournamentSummary{
		RunID:      s.cfg.RunID,
		Game:       s.def.Game,
		Overall:    s.tracker.Overall(),
		Placements: placements,
		Degraded:   s.degraded,
	}
	for _, state := range s.bracket.Rounds() {
		standings, err := s.tracker.Standings(state.Name)
		if err != nil {
			return summary, err
		}
		summary.Rounds = append(summary.Rounds, models.RoundSummary{
			Name:      state.Name,
			Groups:    state.Groups,
			Standings: standings,
			Outcomes:  state.SortedOutcomes(),
		})
	}
	return summary, nil
}

