// Package notifier announces newly earned badges through the desktop tray
// app, falling back to the terminal when the tray is not running.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/achievements"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray process owns the lockfile
var ErrTrayNotRunning = errors.New(constants.TrayProcessPrefix + " is not running")

type WebhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	BadgeID    string `json:"badge_id,omitempty"`
	Rarity     string `json:"rarity,omitempty"`
	DurationMs uint32 `json:"duration_ms"`
}

type Notifier struct {
	out        io.Writer
	enabled    bool
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

type Option func(*Notifier)

// WithOutput sets where terminal fallbacks are printed
func WithOutput(w io.Writer) Option {
	return func(n *Notifier) { n.out = w }
}

// WithEnabled turns delivery on or off. Disabled notifiers drop every event.
func WithEnabled(enabled bool) Option {
	return func(n *Notifier) { n.enabled = enabled }
}

func WithRetry(retries int, delay time.Duration) Option {
	return func(n *Notifier) {
		n.retries = max(retries, 1)
		n.retryDelay = delay
	}
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		out:        os.Stdout,
		enabled:    true,
		client:     &http.Client{Timeout: 2 * time.Second},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// AnnounceBadges delivers one notification per earned badge. Tray failures
// fall back to a terminal line; the returned count is how many reached the tray.
func (n *Notifier) AnnounceBadges(earned []achievements.Earned) int {
	if !n.enabled || len(earned) == 0 {
		return 0
	}

	port, secret, trayErr := n.locateTray()
	if trayErr != nil {
		logger.Debug("tray unavailable, using terminal", "error", trayErr)
	}

	delivered := 0
	for _, e := range earned {
		payload := badgePayload(e)
		if trayErr == nil {
			err := n.sendWithRetry(port, secret, payload)
			if err == nil {
				delivered++
				continue
			}
			logger.Warn("failed to deliver badge notification", "badge", e.Badge.ID, "error", err)
		}
		fmt.Fprintf(n.out, "%s %s: %s\n", e.Badge.Emoji, payload.Title, payload.Text)
	}
	return delivered
}

// Notify sends free text to the tray only.
func (n *Notifier) Notify(text string) error {
	port, secret, err := n.locateTray()
	if err != nil {
		return err
	}
	return n.sendWithRetry(port, secret, WebhookPayload{
		Title:      constants.AppName,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

func badgePayload(e achievements.Earned) WebhookPayload {
	return WebhookPayload{
		Title:      "Badge earned: " + e.Badge.Title,
		Text:       e.Badge.Description,
		BadgeID:    e.Badge.ID,
		Rarity:     string(e.Badge.Rarity),
		DurationMs: constants.NotificationDurationMs,
	}
}

func (n *Notifier) locateTray() (string, string, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return "", "", err
	}
	return findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
}

func (n *Notifier) sendWithRetry(port, secret string, payload WebhookPayload) error {
	var err error
	for attempt := 1; attempt <= n.retries; attempt++ {
		if err = n.send(port, secret, payload); err == nil {
			return nil
		}
		if attempt < n.retries {
			time.Sleep(n.retryDelay)
		}
	}
	return err
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// the tray may relocate its lockfile
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if json.Unmarshal(data, &store) == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}

	return trayConfigDir, nil
}

// findAndValidateTrayProcess parses a "port|pid|secret" lockfile and checks
// the pid still belongs to the tray.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayProcessPrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.TrayProcessPrefix, process.Executable())
	}

	return port, secret, nil
}

func (n *Notifier) send(port, secret string, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Habitual-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
