package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tamago/caretaker/internal/clock"
	"github.com/tamago/caretaker/internal/config"
	"github.com/tamago/caretaker/internal/console"
	"github.com/tamago/caretaker/internal/core/event"
	coresys "github.com/tamago/caretaker/internal/core/system"
	"github.com/tamago/caretaker/internal/creature"
	"github.com/tamago/caretaker/internal/data"
	"github.com/tamago/caretaker/internal/dispatch"
	"github.com/tamago/caretaker/internal/instance"
	"github.com/tamago/caretaker/internal/persist"
	"github.com/tamago/caretaker/internal/registry"
	"github.com/tamago/caretaker/internal/scripting"
	"github.com/tamago/caretaker/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "config/tamago.toml"

var (
	flagConfig string
	flagCount  int
	flagSeed   uint64
)

var rootCmd = &cobra.Command{
	Use:   "tamago",
	Short: "Take care of a handful of virtual creatures",
	Long: `Hatch a few creatures and keep them alive.

Every creature ages and gets dirty on its own. Feed it, give it a bath,
play a number game with it, or check on everyone from the menu. The
session ends when you quit or when nobody is left alive.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file (default $TAMAGO_CONFIG or "+defaultConfigPath+")")
	rootCmd.Flags().IntVarP(&flagCount, "count", "n", 0, "number of creatures (0 = use config, or ask)")
	rootCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "seed for reproducible durations and games (0 = random)")
}

// loadConfig resolves the config path. Only the implicit default path may be
// missing.
func loadConfig() (*config.Config, error) {
	path, optional := flagConfig, false
	if path == "" {
		path = os.Getenv("TAMAGO_CONFIG")
	}
	if path == "" {
		path, optional = defaultConfigPath, true
	}
	return config.Load(path, optional)
}

func run(cmd *cobra.Command, _ []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagCount > 0 {
		cfg.Caretaker.Count = flagCount
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. One caretaker per data directory
	lock, err := instance.Acquire(cfg.Paths.LockFile)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	session := uuid.NewString()
	log.Info("caretaker starting", zap.String("session", session))

	// 4. Data and rules
	foods, err := data.LoadFoodTable(filepath.Join(cfg.Paths.DataDir, "yaml", "food_list.yaml"))
	if err != nil {
		return fmt.Errorf("load food table: %w", err)
	}
	log.Debug("food table loaded", zap.Int("count", foods.Count()))

	engine, err := scripting.NewEngine(cfg.Paths.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	var rng clock.Rand = clock.Global()
	if flagSeed != 0 {
		rng = clock.Seeded(flagSeed)
	}

	// 5. Event bus and systems
	bus := event.NewBus()
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	stats := system.NewLifetimeTracker(bus)

	var journal *system.JournalSystem
	if cfg.Journal.Enabled {
		dbCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Journal, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		err = persist.RunMigrations(dbCtx, db.Pool, log)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		journal = system.NewJournalSystem(bus, persist.NewJournalRepo(db), session, cfg.Journal.FlushInterval, log)
		runner.Register(journal)
		log.Info("lifecycle journal enabled")
	}

	// 6. Creatures
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := &creature.Deps{
		Lifecycle:  cfg.Lifecycle,
		OperandMax: cfg.Play.OperandMax,
		Clock:      clock.Real(),
		Rand:       rng,
		Challenge:  engine.MakeChallenge,
		Bus:        bus,
		Log:        log,
	}
	reg := registry.New(ctx, deps, registry.Options{
		IDPrefix:    cfg.Caretaker.IDPrefix,
		EatDuration: engine.EatingDuration,
	})

	runnerCtx, stopRunner := context.WithCancel(context.Background())
	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		runner.Loop(runnerCtx, cfg.Lifecycle.TickInterval)
	}()

	// 7. Menu. Reads from stdin cannot be interrupted, so a signal does not
	// wait for the menu goroutine.
	out := cmd.OutOrStdout()
	printer := console.NewPrinter(cfg.Console.Language)
	menu := console.NewMenu(
		console.NewInput(cmd.InOrStdin(), out),
		out,
		reg,
		dispatch.New(reg, data.FoodMenu{Table: foods, Rand: rng}, log),
		printer,
		log,
	)

	done := make(chan error, 1)
	go func() { done <- care(ctx, menu, reg, cfg.Caretaker.Count) }()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		fmt.Fprintln(out)
		log.Info("received shutdown signal")
	}

	// 8. Shutdown
	fmt.Fprintln(out, "Saying goodbye to everyone...")
	reg.Shutdown()
	stopRunner()
	<-runnerDone

	if journal != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := journal.Flush(flushCtx); err != nil {
			log.Warn("final journal flush failed", zap.Error(err))
		}
		cancel()
		written, pending, dropped := journal.Counts()
		log.Info("journal closed",
			zap.Int("written", written),
			zap.Int("lost", pending+dropped))
	}

	console.WriteSummary(out, printer, stats.Summary())
	return runErr
}

// care hatches the population and runs the menu until it ends.
func care(ctx context.Context, menu *console.Menu, reg *registry.Registry, count int) error {
	if count <= 0 {
		n, err := menu.AskCount()
		if err != nil {
			return fmt.Errorf("read creature count: %w", err)
		}
		count = n
	}
	if _, err := reg.Populate(count); err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	return menu.Run(ctx)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
