package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pders01/packpick/internal/config"
	"github.com/pders01/packpick/internal/logging"
)

var (
	cfgFile string
	verbose bool
	link    string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "packpick",
	Short: "Pick peon-ping sound packs and get a matching install command",
	Long: `packpick browses the peon-ping pack registry and keeps three things in sync:
  - the set of packs you picked
  - a shareable link (#packs=all, #packs=none, #packs=a,b,c)
  - the install command for curl or Homebrew

Pass a shared link with --link to start from someone else's selection.`,
	SilenceUsage: true,
}

func Execute() {
	defer func() { _ = logger.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/packpick/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&link, "link", "", "shared link or #packs= fragment to restore the selection from")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "packpick")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("packpick")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	configErr := viper.ReadInConfig()

	l, err := logging.New(config.GetLogLevel(), verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = l

	if configErr == nil {
		logger.Debug("using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

// stdout returns where a command prints its results
func stdout(cmd *cobra.Command) io.Writer {
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return os.Stdout
}
