package config

import (
	"os"
	"path/filepath"

	"github.com/emberchain/emberd/infrastructure/logger"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultLogLevel       = "info"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "emberd.log"
	defaultErrLogFilename = "emberd_err.log"

	defaultMempoolMaximumMass         = 64 * 1024 * 1024
	defaultMinimumRelayTransactionFee = 1000
)

// DefaultHomeDir is the default home directory for emberd.
var DefaultHomeDir = defaultHomeDir()

func defaultHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".emberd"
	}
	return filepath.Join(homeDir, ".emberd")
}

// Flags defines the configuration options for emberd.
type Flags struct {
	HomeDir  string `short:"b" long:"homedir" description:"Directory to store block chain data and logs"`
	LogLevel string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	NoLogFiles bool `long:"nologfiles" description:"Disable logging to the rotating log files"`

	MempoolMaximumMass         uint64 `long:"maxmempoolmass" description:"Maximum total mass of transactions kept in the mempool"`
	MinimumRelayTransactionFee uint64 `long:"minrelaytxfee" description:"The minimum fee, in spark per kilomass, for a transaction to be accepted into the mempool"`

	NetworkFlags
}

// Config defines the parsed configuration options for emberd.
type Config struct {
	*Flags
}

func defaultFlags() *Flags {
	return &Flags{
		HomeDir:                    DefaultHomeDir,
		LogLevel:                   defaultLogLevel,
		MempoolMaximumMass:         defaultMempoolMaximumMass,
		MinimumRelayTransactionFee: defaultMinimumRelayTransactionFee,
	}
}

// DataDir returns the directory the block database is stored in
func (cfg *Config) DataDir() string {
	return filepath.Join(cfg.HomeDir, defaultDataDirname, cfg.ActiveNetParams.Name)
}

// LogDir returns the directory log files are written into
func (cfg *Config) LogDir() string {
	return filepath.Join(cfg.HomeDir, defaultLogDirname, cfg.ActiveNetParams.Name)
}

// LoadConfig initializes and parses the config using command line options.
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}
	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	logLevel, ok := logger.LevelFromString(cfg.LogLevel)
	if !ok {
		return nil, errors.Errorf("the specified loglevel %q is invalid", cfg.LogLevel)
	}

	if cfg.NoLogFiles {
		logger.InitLogStdout(logLevel)
	} else {
		err = os.MkdirAll(cfg.LogDir(), 0700)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create log directory %s", cfg.LogDir())
		}
		logger.InitLog(
			filepath.Join(cfg.LogDir(), defaultLogFilename),
			filepath.Join(cfg.LogDir(), defaultErrLogFilename))
	}
	logger.SetLogLevels(logLevel)

	return cfg, nil
}
