package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudpeel/wafsync/internal/logs"
	"github.com/cloudpeel/wafsync/internal/message"
	"github.com/cloudpeel/wafsync/pkg/config"
)

var (
	cfgFile     string
	projectFile string
	quietFlag   bool
	noColorFlag bool
	logLevel    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wafsync",
	Short: "wafsync keeps an AWS WAF web ACL attached to a deployed API Gateway stage.",
	Long: `wafsync runs inside a deployment lifecycle: before packaging it annotates
the generated CloudFormation template so the REST API id lands in stack
outputs, and after a successful deploy it attaches or detaches the
configured web ACL to match the project configuration.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		message.SetQuiet(quietFlag)
		if noColorFlag || !isatty.IsTerminal(os.Stdout.Fd()) {
			message.SetNoColor(true)
		}
		logs.ConsoleLogger(parseLogLevel(logLevel))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.wafsync.yaml)")
	rootCmd.PersistentFlags().StringVarP(&projectFile, "file", "f", "", "project configuration file (default is ./wafsync.yml)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".wafsync" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wafsync")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadProject loads the project configuration for a subcommand, letting the
// tool-level viper config supply profile/region defaults when the project
// file leaves them out.
func loadProject() (*config.Config, error) {
	cfg, err := config.Load(projectFile)
	if err != nil {
		return nil, err
	}

	if cfg.Profile == "" {
		cfg.Profile = viper.GetString("profile")
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
