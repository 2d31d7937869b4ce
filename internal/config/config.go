// Package config loads binary configuration from ROOMTALK_* environment
// variables and lets command-line flags override them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Client configures cmd/client.
type Client struct {
	ServerURL     string        `env:"ROOMTALK_SERVER_URL"     envDefault:"ws://localhost:8080/ws"`
	Room          string        `env:"ROOMTALK_ROOM"           envDefault:"general"`
	PrefsPath     string        `env:"ROOMTALK_PREFS_PATH"`
	TypingTimeout time.Duration `env:"ROOMTALK_TYPING_TIMEOUT" envDefault:"2s"`
	Milestones    []int         `env:"ROOMTALK_MILESTONES"     envDefault:"10,25,50,100" envSeparator:","`
	ReconnectMin  time.Duration `env:"ROOMTALK_RECONNECT_MIN"  envDefault:"500ms"`
	ReconnectMax  time.Duration `env:"ROOMTALK_RECONNECT_MAX"  envDefault:"10s"`
	QueueSize     int           `env:"ROOMTALK_QUEUE_SIZE"     envDefault:"64"`
	LogLevel      string        `env:"ROOMTALK_LOG_LEVEL"      envDefault:"warn"`
	LogFile       string        `env:"ROOMTALK_LOG_FILE"`
}

// Server configures cmd/server.
type Server struct {
	Addr          string `env:"ROOMTALK_ADDR"           envDefault:":8080"`
	HistoryLimit  int    `env:"ROOMTALK_HISTORY_LIMIT"  envDefault:"50"`
	RedisAddr     string `env:"ROOMTALK_REDIS_ADDR"`
	RedisPassword string `env:"ROOMTALK_REDIS_PASSWORD"`
	RedisDB       int    `env:"ROOMTALK_REDIS_DB"       envDefault:"0"`
	QueueSize     int    `env:"ROOMTALK_QUEUE_SIZE"     envDefault:"64"`
	LogLevel      string `env:"ROOMTALK_LOG_LEVEL"      envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseClient parses environment and flags into a Client config.
func ParseClient(fs *flag.FlagSet, args []string) (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}

	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "server URL (ws://host:port/ws or tcp://host:port)")
	fs.StringVar(&cfg.Room, "room", cfg.Room, "room to join")
	fs.StringVar(&cfg.PrefsPath, "prefs", cfg.PrefsPath, "preference database path")
	fs.DurationVar(&cfg.TypingTimeout, "typing-timeout", cfg.TypingTimeout, "quiet period before typing stops")
	fs.Func("milestones", "comma-separated message counts to celebrate", func(v string) error {
		ms, err := parseInts(v)
		if err != nil {
			return err
		}
		cfg.Milestones = ms
		return nil
	})
	fs.DurationVar(&cfg.ReconnectMin, "reconnect-min", cfg.ReconnectMin, "initial reconnect delay")
	fs.DurationVar(&cfg.ReconnectMax, "reconnect-max", cfg.ReconnectMax, "maximum reconnect delay")
	fs.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "outgoing frame buffer")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file; the chat screen owns the terminal, so logs are dropped when empty")
	if err := parseArgs(fs, args); err != nil {
		return Client{}, err
	}
	if err := cfg.validate(); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// ParseServer parses environment and flags into a Server config.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}

	fs.StringVar(&cfg.Addr, "port", cfg.Addr, "address to listen on for both TCP and WebSocket (e.g., :8080)")
	fs.IntVar(&cfg.HistoryLimit, "history", cfg.HistoryLimit, "messages kept per room")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for room history; empty keeps history in memory")
	fs.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database number")
	fs.IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "outgoing frame buffer per client")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := parseArgs(fs, args); err != nil {
		return Server{}, err
	}
	if cfg.HistoryLimit <= 0 {
		return Server{}, fmt.Errorf("history limit must be positive, got %d", cfg.HistoryLimit)
	}
	return cfg, nil
}

func parseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

func (c Client) validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return errors.New("server URL is required")
	}
	if c.ReconnectMin <= 0 || c.ReconnectMax < c.ReconnectMin {
		return fmt.Errorf("invalid reconnect range %s..%s", c.ReconnectMin, c.ReconnectMax)
	}
	return nil
}

func parseInts(v string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid milestone %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}
