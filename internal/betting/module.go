package betting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/stakeboard/stakeboard/internal/core"
	"github.com/stakeboard/stakeboard/internal/cron"
	"github.com/stakeboard/stakeboard/internal/keylock"
	"github.com/stakeboard/stakeboard/internal/leaderboard"
	"github.com/stakeboard/stakeboard/internal/session"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Engine{})
}

// Config holds betting engine configuration.
type Config struct {
	// SessionTTL is the sliding inactivity window for sessions. The purge
	// sweep runs at this same period unless PurgeSchedule overrides it.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// LeaderboardDepth is the number of top stakes reported per offer.
	LeaderboardDepth int `yaml:"leaderboard_depth"`

	// PurgeSchedule optionally overrides the purge job's cron expression.
	PurgeSchedule string `yaml:"purge_schedule"`
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.SessionTTL <= 0 {
		c.SessionTTL = 10 * time.Minute
	}
	if c.LeaderboardDepth <= 0 {
		c.LeaderboardDepth = 20
	}
}

// Engine is the betting core module. It owns the session store, the
// leaderboard cache, the shared lock registry, and the purge scheduler,
// and publishes them as services for the gateway to resolve.
type Engine struct {
	config Config
	logger *slog.Logger

	locks     *keylock.Registry
	sessions  *session.Store
	board     *leaderboard.Cache
	stakes    *Service
	scheduler *cron.Scheduler
}

// ModuleInfo implements core.Module.
func (e *Engine) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "betting.engine",
		New: func() core.Module { return &Engine{} },
	}
}

// Configure implements core.Configurable.
func (e *Engine) Configure(node *yaml.Node) error {
	if err := node.Decode(&e.config); err != nil {
		return err
	}
	e.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (e *Engine) Provision(ctx *core.AppContext) error {
	e.logger = ctx.Logger
	e.config.defaults()

	// One lock registry shared by the store and the cache so session and
	// stake operations for the same customer serialize against each other.
	e.locks = keylock.NewRegistry()
	e.sessions = session.NewStore(e.config.SessionTTL, e.locks)
	e.board = leaderboard.NewCache(e.config.LeaderboardDepth, e.locks)
	e.stakes = NewService(e.sessions, e.board, e.logger)

	e.scheduler = cron.NewScheduler(e.logger)
	if err := e.scheduler.RegisterJob(&cron.SessionPurgeJob{
		Store:        e.sessions,
		TTL:          e.config.SessionTTL,
		Logger:       e.logger,
		ScheduleExpr: e.config.PurgeSchedule,
	}); err != nil {
		return err
	}

	ctx.RegisterService("betting.sessions", e.sessions)
	ctx.RegisterService("betting.leaderboard", e.board)
	ctx.RegisterService("betting.stakes", e.stakes)

	e.logger.Info("betting engine provisioned",
		"session_ttl", e.config.SessionTTL,
		"leaderboard_depth", e.config.LeaderboardDepth)
	return nil
}

// Validate implements core.Validator.
func (e *Engine) Validate() error {
	if e.config.SessionTTL <= 0 {
		return errors.New("betting: session_ttl must be positive")
	}
	if e.config.LeaderboardDepth <= 0 {
		return errors.New("betting: leaderboard_depth must be positive")
	}
	return nil
}

// Start implements core.Starter. It begins the periodic purge sweep.
func (e *Engine) Start() error {
	return e.scheduler.Start()
}

// Stop implements core.Stopper.
func (e *Engine) Stop(ctx context.Context) error {
	return e.scheduler.Stop(ctx)
}
