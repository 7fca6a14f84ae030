package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // Single user, no credentials (default)
	AuthModeToken AuthMode = "token" // Bearer API tokens looked up in the users table
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		Covers
		Auth
		Tasks
		Scheduler
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Storage struct {
		Dir          string        // Root for uploaded and generated files
		FetchTimeout time.Duration // Timeout for downloading remote cover images
	}
	Covers struct {
		Width      int
		Height     int
		FontSize   float64
		FontPaths  []string // TTF files tried in order before the embedded font
		Background string
		Foreground string
	}
	Auth struct {
		Mode          AuthMode
		DefaultUserID uint // Owner used for every request when Mode is none
		BcryptCost    int

		// Rate limiting for the token exchange endpoint
		MaxLoginAttempts int
		RateLimitWindow  time.Duration
		LockoutDuration  time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		BackfillBatch   int // Max cover tasks enqueued by one backfill run
	}
	Scheduler struct {
		CoverBackfillEnabled  bool
		CoverBackfillSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("storage_dir", DefaultStorageDir)
	v.SetDefault("storage_fetch_timeout", "15s")

	v.SetDefault("cover_width", DefaultCoverWidth)
	v.SetDefault("cover_height", DefaultCoverHeight)
	v.SetDefault("cover_font_size", DefaultCoverFontSize)
	v.SetDefault("cover_font_paths", strings.Join(DefaultCoverFontPaths, ","))
	v.SetDefault("cover_background", DefaultCoverBackground)
	v.SetDefault("cover_foreground", DefaultCoverForeground)

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("default_user_id", 1)
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_backfill_batch", 500)

	v.SetDefault("cover_backfill_enabled", false)
	v.SetDefault("cover_backfill_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			Dir:          v.GetString("STORAGE_DIR"),
			FetchTimeout: v.GetDuration("STORAGE_FETCH_TIMEOUT"),
		},
		Covers: Covers{
			Width:      v.GetInt("COVER_WIDTH"),
			Height:     v.GetInt("COVER_HEIGHT"),
			FontSize:   v.GetFloat64("COVER_FONT_SIZE"),
			FontPaths:  splitList(v.GetString("COVER_FONT_PATHS")),
			Background: v.GetString("COVER_BACKGROUND"),
			Foreground: v.GetString("COVER_FOREGROUND"),
		},
		Auth: Auth{
			Mode:          AuthMode(v.GetString("AUTH_MODE")),
			DefaultUserID: v.GetUint("DEFAULT_USER_ID"),
			BcryptCost:    v.GetInt("AUTH_BCRYPT_COST"),

			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			BackfillBatch:   v.GetInt("TASK_BACKFILL_BATCH"),
		},
		Scheduler: Scheduler{
			CoverBackfillEnabled:  v.GetBool("COVER_BACKFILL_ENABLED"),
			CoverBackfillSchedule: v.GetString("COVER_BACKFILL_SCHEDULE"),
		},
	}
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
