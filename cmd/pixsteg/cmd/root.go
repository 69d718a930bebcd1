package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spacemeshos/smutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/pixsteg/config"
)

var (
	// Version is the version of the binary.
	Version = "0.0.0"

	// Commit is the commit hash of the binary.
	Commit = ""
)

const (
	defaultConfigFileName = "config.toml"
	envPrefix             = "PIXSTEG"
)

var defaultHomeDir = filepath.Join(smutil.GetUserHomeDirectory(), ".pixsteg")

// app is the state shared by all commands of one invocation.
type app struct {
	vip *viper.Viper

	configFile string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{vip: viper.New(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "pixsteg",
		Short: "Hide bits in the low-order bits of image pixels",
		Long: `pixsteg embeds a payload into the least-significant bits of selected color
channels of a sparse grid of pixels, and recovers it later.

Embedding and extraction must use the same sparseness, greed and channels.`,
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	def := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "",
		fmt.Sprintf("Path to configuration file (default %s)", filepath.Join(defaultHomeDir, defaultConfigFileName)))
	flags.StringVar(&a.logLevel, "log-level", zapcore.InfoLevel.String(),
		"Log level (debug, info, warn, error)")
	flags.Int("sparseness", def.Sparseness, "Pixel stride in both axes")
	flags.Int("greed", def.Greed, "Number of low-order bits overwritten per channel")
	flags.String("channels", def.Channels, "Channels to use per pixel, e.g. B or GRB; order and repetitions matter")

	for _, name := range []string{"sparseness", "greed", "channels"} {
		if err := a.vip.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		newEmbedCmd(a),
		newExtractCmd(a),
		newCapacityCmd(a),
		newScanCmd(a),
		newCoverCmd(),
		newInfoCmd(),
	)
	return rootCmd
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup() error {
	level, err := zapcore.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger, err := newLogger(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger.Debug("config loaded", zap.Stringer("config", cfg))
	return nil
}

// loadConfig merges, by decreasing priority, command line flags, PIXSTEG_*
// environment variables, the config file and the defaults.
func (a *app) loadConfig() (*config.Config, error) {
	vip := a.vip
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	if err := a.loadConfigFile(); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) loadConfigFile() error {
	fileLocation := filepath.Join(defaultHomeDir, defaultConfigFileName)
	if a.configFile != "" {
		fileLocation = smutil.GetCanonicalPath(a.configFile)
	} else if _, err := os.Stat(fileLocation); os.IsNotExist(err) {
		// The default config file is optional.
		return nil
	}

	a.vip.SetConfigFile(fileLocation)
	if err := a.vip.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	a.logger.Debug("config file read", zap.String("path", fileLocation))
	return nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
