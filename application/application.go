package application

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	blog "github.com/lk2023060901/blitz/pkg/log"
	"github.com/lk2023060901/blitz/pkg/serializer"
	bviper "github.com/lk2023060901/blitz/pkg/util/viper"
)

const (
	// DefaultConfigPath is used when neither env nor CLI names a config file.
	DefaultConfigPath = "./blitz.yaml"
	// ConfigPathEnv overrides DefaultConfigPath.
	ConfigPathEnv = "BLITZ_CONFIG_FILE_PATH"
)

// Application is the runtime container for the blitz tools.
// It owns configuration, loggers and the configured serializer.
type Application struct {
	cfg        *bviper.Config
	configPath string
	loggers    map[string]*zap.Logger
	serializer *serializer.Serializer
}

// New creates a new Application instance.
func New() *Application {
	return &Application{}
}

// Run loads .env files, configuration and logging, then builds the serializer.
//
// The config file path is resolved with the following priority:
//  1. Default: ./blitz.yaml (optional, skipped when missing)
//  2. Env: BLITZ_CONFIG_FILE_PATH
//  3. CLI: --config <path> or --config=<path>
func (a *Application) Run(args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.initLogging(); err != nil {
		return err
	}

	var sc serializer.Config
	if err := a.cfg.UnmarshalKey("serializer", &sc); err != nil {
		return fmt.Errorf("decode serializer config: %w", err)
	}
	s, err := serializer.NewFromConfig(sc)
	if err != nil {
		return fmt.Errorf("build serializer: %w", err)
	}
	a.serializer = s

	blog.Info("application started",
		blog.FieldModule("application"),
		zap.String("config", a.configPath),
		zap.String("fallback", s.Fallback().Marker().String()),
		zap.Bool("verifyStaged", s.VerifyStaged()))
	return nil
}

// Close releases resources owned by the application.
func (a *Application) Close() {
	if a.serializer != nil {
		a.serializer.Close()
	}
	_ = blog.Sync()
}

// Config returns the loaded configuration.
func (a *Application) Config() *bviper.Config {
	return a.cfg
}

// ConfigPath returns the config file that was loaded, empty when none was found.
func (a *Application) ConfigPath() string {
	return a.configPath
}

// Serializer returns the serializer built from the "serializer" section.
func (a *Application) Serializer() *serializer.Serializer {
	return a.serializer
}

// Logger returns a named logger created from configuration.
// If the name is unknown, it falls back to the global logger.
func (a *Application) Logger(name string) *zap.Logger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return blog.Module(name)
}

// loadConfig resolves config file path and loads it via viper wrapper.
func (a *Application) loadConfig(args []string) (*bviper.Config, error) {
	configPath := DefaultConfigPath
	explicit := false

	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		configPath = envPath
		explicit = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value after --config")
			}
			configPath = args[i+1]
			explicit = true
			i++
			continue
		}
		if val, ok := strings.CutPrefix(arg, "--config="); ok && val != "" {
			configPath = val
			explicit = true
		}
	}

	cfg := bviper.New()
	cfg.SetDefault("serializer.fallback", "msgpack")
	cfg.SetDefault("logging.level", "info")
	cfg.SetDefault("logging.format", blog.FormatConsole)
	cfg.SetDefault("logging.stdout", true)

	if _, err := os.Stat(configPath); err != nil && !explicit {
		return cfg, nil
	}
	if err := cfg.LoadFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file %q: %w", configPath, err)
	}
	a.configPath = configPath
	return cfg, nil
}

// initLogging initializes the global logger from the "logging" section and
// module loggers from "loggers".
//
// Example:
//
//	logging:
//	  level: info
//	  format: json
//	loggers:
//	  bench:
//	    level: debug
//	    file:
//	      rootpath: ./logs
//	      filename: bench.log
func (a *Application) initLogging() error {
	var global blog.Config
	if err := a.cfg.UnmarshalKey("logging", &global); err != nil {
		return err
	}
	logger, props, err := blog.InitLogger(&global)
	if err != nil {
		return fmt.Errorf("init global logger: %w", err)
	}
	blog.ReplaceGlobals(logger, props)

	raw := make(map[string]blog.Config)
	if err := a.cfg.UnmarshalKey("loggers", &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	a.loggers = make(map[string]*zap.Logger, len(raw))
	for name, lc := range raw {
		cfgCopy := lc
		lg, _, err := blog.InitLogger(&cfgCopy)
		if err != nil {
			return fmt.Errorf("init module logger %q: %w", name, err)
		}
		a.loggers[name] = lg.With(blog.FieldModule(name))
	}
	return nil
}
