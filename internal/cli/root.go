package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/achievements"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/config"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/render"
	"github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// Announcer delivers newly earned badges to the user
type Announcer interface {
	AnnounceBadges(earned []achievements.Earned) int
}

type Context struct {
	Store    storage.Provider
	Config   config.Config
	UserID   string
	Out      io.Writer
	Now      func() time.Time
	Notifier Announcer
	Keyring  *keyring.Credentials
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Clock returns the current time, honouring an injected clock.
func (c *Context) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Credentials returns the keyring entry for the configured account.
func (c *Context) Credentials() *keyring.Credentials {
	if c.Keyring == nil {
		c.Keyring = keyring.New(c.Config.KeyringAccount)
	}
	return c.Keyring
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) Renderer() *render.Renderer {
	return render.New(c.out())
}

// Location returns the timezone from the stored settings.
func (c *Context) Location() (*time.Location, string, error) {
	settings, err := c.Store.GetSettings(c.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := calendar.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, "", err
	}
	return loc, settings.Timezone, nil
}

// Report builds a stats report in the user's timezone.
func (c *Context) Report() (stats.Report, *time.Location, error) {
	loc, _, err := c.Location()
	if err != nil {
		return stats.Report{}, nil, err
	}
	b := stats.NewBuilder(stats.WithClock(c.Clock), stats.WithLocation(loc))
	rep, err := b.BuildReport(c.Store, c.UserID)
	if err != nil {
		return stats.Report{}, nil, err
	}
	return rep, loc, nil
}

func (c *Context) Achievements() (*achievements.Service, error) {
	_, tz, err := c.Location()
	if err != nil {
		return nil, err
	}
	return achievements.NewService(c.Store, achievements.WithClock(c.Clock), achievements.WithTimezone(tz)), nil
}

// Reconcile recomputes stats, reconciles badges and announces the new ones.
// Badges that could not be saved come back as a *errors.PartialError.
func (c *Context) Reconcile() (achievements.Result, error) {
	rep, _, err := c.Report()
	if err != nil {
		return achievements.Result{}, err
	}
	svc, err := c.Achievements()
	if err != nil {
		return achievements.Result{}, err
	}
	res, err := svc.Evaluate(c.UserID, rep.Stats)
	if err != nil {
		return achievements.Result{}, err
	}

	if len(res.NewlyEarned) > 0 {
		c.Printf("%s", c.Renderer().NewlyEarned(res.NewlyEarned))
		if c.Notifier != nil {
			c.Notifier.AnnounceBadges(res.NewlyEarned)
		}
	}
	if len(res.Failed) > 0 {
		return res, &apperrors.PartialError{Op: "saving achievements", Failed: res.FailedIDs()}
	}
	return res, nil
}

// ResolveHabit finds a habit by exact id or case-insensitive name.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	h, err := c.Store.GetHabit(c.UserID, ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	h, err = c.Store.GetHabitByName(c.UserID, ref)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("no habit named %q: %w", ref, storage.ErrNotFound)
	}
	return h, err
}

// IsSQLite reports whether the store is file backed
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks PostgreSQL when a connection string is configured in the
// environment or keyring, otherwise the SQLite file from the config.
func OpenStore(cfg config.Config, creds *keyring.Credentials) (storage.Provider, error) {
	connStr, source, err := creds.Resolve()
	if err != nil {
		return nil, err
	}
	if source == keyring.SourceNone {
		return sqlite.NewStore(cfg.DBPath), nil
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) && source == keyring.SourceKeyring {
			// the keyring is an acceptable home for a password
			logger.Debug("using keyring connection string with embedded credentials")
		} else {
			return nil, fmt.Errorf("%s connection string: %w", source, err)
		}
	}
	logger.Debug("using postgres store", "source", source)
	return postgres.New(connStr), nil
}
