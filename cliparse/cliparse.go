package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	TokenSecret  string
	IPHashSalt   string

	OTPExpiry       time.Duration
	OTPMaxAttempts  int
	ResendCooldown  time.Duration
	LockoutAttempts int
	LockoutDuration time.Duration
	TokenTTL        time.Duration

	// Zero values leave that side of the voting window unbounded
	VotingOpens  time.Time
	VotingCloses time.Time

	DevMode bool
	Seed    bool
}

// VotingOpen reports whether now falls inside the configured window
func (c Config) VotingOpen(now time.Time) bool {
	if !c.VotingOpens.IsZero() && now.Before(c.VotingOpens) {
		return false
	}
	if !c.VotingCloses.IsZero() && !now.Before(c.VotingCloses) {
		return false
	}
	return true
}

// LoadDotEnv loads the nearest .env file (cwd, then up to two parents).
// Variables already in the environment win.
func LoadDotEnv() string {
	for _, p := range []string{".env", filepath.Join("..", ".env"), filepath.Join("..", "..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// ParseFlags validates flags and fills defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("online-voting", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")

	fs.BoolVar(&cfg.DevMode, "dev", false, "Expose OTP codes in responses")
	fs.BoolVar(&cfg.Seed, "seed", false, "Seed demo constituencies and candidates")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "online-voting.db"
	}

	// Secrets - MUST be provided
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	var err error
	if cfg.OTPExpiry, err = envMinutes("OTP_EXPIRY_MINUTES", 10); err != nil {
		return Config{}, err
	}
	if cfg.LockoutDuration, err = envMinutes("LOCKOUT_MINUTES", 30); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = envMinutes("TOKEN_TTL_MINUTES", 60); err != nil {
		return Config{}, err
	}
	if cfg.OTPMaxAttempts, err = envInt("OTP_MAX_ATTEMPTS", 3); err != nil {
		return Config{}, err
	}
	if cfg.LockoutAttempts, err = envInt("LOCKOUT_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	cfg.ResendCooldown = 60 * time.Second

	if cfg.VotingOpens, err = envTime("VOTING_OPENS"); err != nil {
		return Config{}, err
	}
	if cfg.VotingCloses, err = envTime("VOTING_CLOSES"); err != nil {
		return Config{}, err
	}
	if !cfg.VotingOpens.IsZero() && !cfg.VotingCloses.IsZero() && !cfg.VotingCloses.After(cfg.VotingOpens) {
		return Config{}, errors.New("VOTING_CLOSES must be after VOTING_OPENS")
	}

	if !cfg.DevMode {
		cfg.DevMode = envBool("DEV_MODE")
	}
	if !cfg.Seed {
		cfg.Seed = envBool("SEED")
	}

	return cfg, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envMinutes(key string, def int) (time.Duration, error) {
	n, err := envInt(key, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}

func envTime(key string) (time.Time, error) {
	s := os.Getenv(key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s env variable (want RFC3339)", key)
	}
	return t.UTC(), nil
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
