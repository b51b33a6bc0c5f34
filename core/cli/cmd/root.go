package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hyperterse/sqlgeneric/core/cli/internal"
	"github.com/hyperterse/sqlgeneric/core/config"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
)

// version stores the version string, set via SetVersion()
var version = "dev"

// SetVersion sets the version string (called from main.init())
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version string
func GetVersion() string {
	return version
}

var (
	configFile  string
	requestFile string
	format      string
	port        int
	logLevel    int
	verbose     bool
	logTags     string
	logFile     bool
	showVersion bool

	// appConfig is loaded before any subcommand runs
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "sqlgeneric",
	Short:             "sqlgeneric\nRun stored SQL templates against PostgreSQL, SQL Server and Oracle",
	SilenceUsage:      true,
	SilenceErrors:     true, // Errors are already logged, suppress Cobra's error output
	PersistentPreRunE: prepareEnvironment,
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:          "completion [bash|zsh|fish|powershell]",
	Short:        "Generate shell completion script",
	Hidden:       true,
	ValidArgs:    []string{"bash", "zsh", "fish", "powershell"},
	Args:         cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(completionCmd)
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Print the installed version and exit")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to the handler config file (default: ./sqlgeneric.yaml when present)")
	flags.IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG (overrides config)")
	flags.BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
	flags.StringVar(&logTags, "log-tags", "", "Filter logs by tags (comma-separated, use -tag to exclude). Overrides SQLGENERIC_LOG_TAGS env var")
	flags.BoolVar(&logFile, "log-file", false, "Stream logs to file in /tmp/.sqlgeneric/logs/")

	// Root command should only print help.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		}
		return cmd.Help()
	}
}

// prepareEnvironment loads env files and the config, then configures logging
func prepareEnvironment(cmd *cobra.Command, _ []string) error {
	log := logging.New("cli")

	envDir := ""
	if configFile != "" {
		envDir = filepath.Dir(configFile)
	}
	LoadEnvFiles(envDir)

	cfg, err := config.Load(configFile)
	if err != nil {
		return logging.WithTag("config", err)
	}
	appConfig = cfg

	logging.SetLogLevel(internal.ResolveLogLevel(verbose, logLevel, cfg))
	if filter := internal.ResolveLogTags(logTags, cfg); filter != "" {
		logging.SetTagFilter(filter)
	}
	if logFile || cfg.Log.File {
		filePath, err := logging.SetLogFile()
		if err != nil {
			return fmt.Errorf("failed to initialize log file: %w", err)
		}
		log.Infof("Log file: %s", filePath)
	}
	return nil
}

// LoadEnvFiles attempts to load .env files from multiple locations.
// It tries each location in order and stops at the first successful load.
// Priority order:
// 1. From the provided directory (if not empty)
// 2. From the current working directory
// 3. From the directory containing the executable binary
// System environment variables always take precedence over .env file values.
func LoadEnvFiles(fromDir string) {
	envFiles := []string{".env.local", ".env.development", ".env"}

	if fromDir != "" {
		for _, envFile := range envFiles {
			if err := godotenv.Load(filepath.Join(fromDir, envFile)); err == nil {
				return
			}
		}
	}

	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			return
		}
	}

	if execPath, err := os.Executable(); err == nil {
		if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = realPath
		}
		execDir := filepath.Dir(execPath)
		for _, envFile := range envFiles {
			if err := godotenv.Load(filepath.Join(execDir, envFile)); err == nil {
				return
			}
		}
	}
}
