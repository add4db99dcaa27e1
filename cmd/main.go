package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	mathrand "math/rand"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/Dosada05/agent-tournament/config"
	"github.com/Dosada05/agent-tournament/db"
	"github.com/Dosada05/agent-tournament/models"
	"github.com/Dosada05/agent-tournament/reports"
	"github.com/Dosada05/agent-tournament/repositories"
	"github.com/Dosada05/agent-tournament/services"
	"github.com/Dosada05/agent-tournament/storage"
	"github.com/Dosada05/agent-tournament/utils"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tournament",
		Usage:     "run a multi-round elimination tournament between game-playing agents",
		ArgsUsage: "[definition.yaml]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug output"},
			&cli.BoolFlag{Name: "no-log", Usage: "disable logging"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to load configuration: %v", err), 1)
			}
			logger := newLogger(stderr, cfg.LogFormat, logLevel(c))

			definitionPath := c.Args().First()
			if definitionPath == "" {
				definitionPath = cfg.DefinitionPath
			}
			def, err := config.LoadDefinition(definitionPath)
			if err != nil {
				logger.Error("failed to load tournament definition", slog.String("path", definitionPath), slog.Any("error", err))
				return cli.Exit(err.Error(), 1)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runTournament(ctx, cfg, def, stdout, logger); err != nil {
				logger.Error("tournament failed", slog.Any("error", err))
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check a tournament definition without playing any match",
				ArgsUsage: "[definition.yaml]",
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return cli.Exit(fmt.Sprintf("failed to load configuration: %v", err), 1)
					}
					definitionPath := c.Args().First()
					if definitionPath == "" {
						definitionPath = cfg.DefinitionPath
					}
					def, err := config.LoadDefinition(definitionPath)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					printDefinition(stdout, def)
					return nil
				},
			},
		},
	}
}

// levelSilent is above every level slog emits.
const levelSilent = slog.Level(1 << 10)

type logFlags interface {
	Bool(name string) bool
}

func logLevel(c logFlags) slog.Level {
	switch {
	case c.Bool("no-log"):
		return levelSilent
	case c.Bool("quiet"):
		return slog.LevelError
	case c.Bool("debug"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	if level >= levelSilent {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// resolveSeed returns the configured seed, or a fresh random one.
func resolveSeed(def models.TournamentDefinition) (int64, error) {
	if def.Seed != nil {
		return *def.Seed, nil
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}

func runTournament(ctx context.Context, cfg *config.Config, def models.TournamentDefinition, stdout io.Writer, logger *slog.Logger) error {
	runID := uuid.NewString()
	seed, err := resolveSeed(def)
	if err != nil {
		return err
	}
	logger = logger.With(slog.String("run_id", runID))
	logger.Info("shuffle seed resolved", slog.Int64("seed", seed))

	csvResults, err := repositories.NewCSVResultRepository(cfg.ResultsPath)
	if err != nil {
		return err
	}
	sinks := []repositories.ResultRepository{csvResults}
	reporters := []services.Reporter{reports.NewTextReporter(stdout, cfg.ResultsPath)}
	if cfg.WorkbookPath != "" {
		reporters = append(reporters, reports.NewWorkbookReporter(cfg.WorkbookPath))
	}
	if cfg.ChartPath != "" {
		reporters = append(reporters, reports.NewChartReporter(cfg.ChartPath))
	}

	if cfg.DatabaseURL != "" {
		dbConn, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			csvResults.Close()
			return err
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
		sinks = append(sinks, repositories.NewPostgresResultRepository(dbConn, runID, def.Game))
		reporters = append(reporters, reports.NewStandingsReporter(repositories.NewPostgresStandingRepository(dbConn, runID)))
	}

	results := repositories.NewMultiResultRepository(sinks...)
	defer func() {
		if err := results.Close(); err != nil {
			logger.Error("failed to close result sinks", slog.Any("error", err))
		}
	}()

	runner, err := services.NewRefereeRunner(services.RefereeRunnerConfig{
		Command:  cfg.RefereeCommand,
		Deadline: cfg.MatchDeadline,
	}, def.Competitors, services.NewExecCommandExecutor(), logger)
	if err != nil {
		return err
	}

	svc, err := services.NewTournamentService(
		def,
		runner,
		results,
		reports.NewMultiReporter(reporters...),
		mathrand.New(mathrand.NewSource(seed)),
		services.TournamentConfig{RunID: runID, MaxParallelGroups: cfg.MaxParallelGroups},
		logger,
	)
	if err != nil {
		return err
	}

	if _, err := svc.Run(ctx); err != nil {
		return err
	}

	if cfg.ArtifactStorageEnabled() {
		publishArtifacts(ctx, cfg, def, runID, logger)
	}
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DatabaseTimeout, logger)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}
	logger.Info("database connection established")
	return dbConn, nil
}

// publishArtifacts uploads the run's files. A failed upload does not fail
// the run; the local files remain.
func publishArtifacts(ctx context.Context, cfg *config.Config, def models.TournamentDefinition, runID string, logger *slog.Logger) {
	uploader, err := storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
		AccountID:       cfg.R2AccountID,
		Endpoint:        cfg.R2Endpoint,
		Region:          cfg.R2Region,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Warn("artifact storage unavailable", slog.Any("error", err))
		return
	}

	prefix := path.Join(cfg.ArtifactPrefix, utils.Slug(string(def.Game)))
	paths := []string{cfg.ResultsPath, cfg.WorkbookPath, cfg.ChartPath}
	if _, err := storage.PublishArtifacts(ctx, uploader, prefix, runID, paths, logger); err != nil {
		logger.Warn("failed to publish artifacts", slog.Any("error", err))
	}
}

func printDefinition(w io.Writer, def models.TournamentDefinition) {
	fmt.Fprintf(w, "Game: %s\n", def.Game)
	fmt.Fprintf(w, "Competitors: %d\n", len(def.Competitors))
	if len(def.Groups) > 0 {
		fmt.Fprintf(w, "Predefined groups: %d\n", len(def.Groups))
	}
	fmt.Fprintf(w, "Partition: %s\n", def.Format.Partition)
	fmt.Fprintf(w, "Scoring: win %.1f, draw %.1f\n", def.Format.Scoring.WinPoints, def.Format.Scoring.DrawPoints)
	for _, r := range def.Format.Rounds {
		fmt.Fprintf(w, "  %s: %d group(s), top %d advance\n", r.Name, r.Groups, r.AdvancePerGroup())
	}
	fmt.Fprintf(w, "  %s\n", def.Format.FinalRound)
}
