// Package commands implements the ifunny command-line interface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/Sternrassler/ifunny-client/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Date    string `json:"built"   yaml:"built"`
}

// app is the state shared by the commands of one invocation.
type app struct {
	v        *viper.Viper
	settings Settings
	logger   zerolog.Logger
	redis    *redis.Client
}

// flag name -> settings key
var boundFlags = map[string]string{
	"config":     "config",
	"token":      "token",
	"api":        "api",
	"output":     "output",
	"log-level":  "log_level",
	"redis-addr": "redis_addr",
}

// NewRootCommand builds the ifunny command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "ifunny",
		Short: "iFunny private API client",
		Long: `A command-line client for the iFunny private API.

Settings are read from flags, IFUNNY_* environment variables (a .env file
in the working directory is loaded first) and $HOME/.ifunny/config.yml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is $HOME/.ifunny/config.yml)")
	pf.StringP("token", "t", "", "bearer token")
	pf.StringP("api", "a", "", "API base URL (default "+client.DefaultBaseURL+")")
	pf.StringP("output", "o", formatTable, "output format (table, json, yaml)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("redis-addr", "", "Redis address for the lookup cache, e.g. localhost:6379")

	for flag, key := range boundFlags {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newVersionCommand(a, info),
		newAccountCommand(a),
		newUserCommand(a),
		newPostCommand(a),
		newListCommand(a),
		newListsCommand(a),
		newFeedCommand(a),
		newUploadCommand(a),
		newSmileCommand(a),
		newUnsmileCommand(a),
		newTokenCommand(a),
		newServeCommand(a),
	)

	return root
}

// init loads the config file and environment, validates the merged
// settings and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	path, err := a.configPath()
	if err != nil {
		return err
	}

	a.v.SetConfigFile(path)
	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix("IFUNNY")
	a.v.AutomaticEnv()
	for key, value := range settingDefaults {
		a.v.SetDefault(key, value)
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := a.v.Unmarshal(&s); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s

	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	logCfg := logging.Config{Level: level, Pretty: true, Output: cmd.ErrOrStderr()}
	if err := logCfg.Validate(); err != nil {
		return err
	}
	logging.Setup(logCfg)
	a.logger = logging.NewLogger("ifunny-cli")

	return nil
}

// configPath is the --config value, else $HOME/.ifunny/config.yml.
func (a *app) configPath() (string, error) {
	if path := a.v.GetString("config"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".ifunny", "config.yml"), nil
}

// clientConfig turns the settings into a client configuration.
func (a *app) clientConfig() (client.Config, error) {
	s := a.settings
	if s.Token == "" {
		return client.Config{}, fmt.Errorf("%w: pass --token, set IFUNNY_TOKEN or run 'ifunny token set'", client.ErrMissingToken)
	}

	cfg := client.DefaultConfig(s.Token)
	if s.API != "" {
		cfg.BaseURL = s.API
	}
	if s.UserAgent != "" {
		cfg.UserAgent = s.UserAgent
	}
	if s.MaxPageSize > 0 {
		cfg.MaxPageSize = s.MaxPageSize
	}
	cfg.RequestsPerMinute = s.RequestsPerMinute
	cfg.Burst = s.Burst

	if s.RedisAddr != "" {
		if a.redis == nil {
			a.redis = redis.NewClient(&redis.Options{Addr: s.RedisAddr})
		}
		cfg.Redis = a.redis
	}

	return cfg, nil
}

// api builds the API for the current settings. Redis, when configured,
// must be reachable.
func (a *app) api(ctx context.Context) (*ifunny.API, error) {
	cfg, err := a.clientConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := cfg.Redis.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", a.settings.RedisAddr, err)
		}
		a.logger.Debug().Str("addr", a.settings.RedisAddr).Msg("Lookup cache enabled")
	}

	api, err := ifunny.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return api.WithLogger(a.logger), nil
}

func (a *app) close() error {
	if a.redis == nil {
		return nil
	}
	err := a.redis.Close()
	a.redis = nil
	return err
}
