package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scoutstrap/scoutstrap/internal/core"
	"github.com/scoutstrap/scoutstrap/internal/ui"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var (
	flagYes      bool
	flagCheck    bool
	flagVerbose  bool
	flagSettings string
)

var rootCmd = &cobra.Command{
	Use:   "scoutstrap",
	Short: "Install the Docker Scout CLI plugin and register it with docker",
	Long: `Scoutstrap installs the docker-scout CLI plugin for the current user.

It resolves the latest release, downloads the artifact for this
machine's architecture, installs it under ~/.docker/scout, and adds
that directory to cliPluginsExtraDirs in ~/.docker/config.json so the
docker CLI discovers the plugin. Every change is confirmed first and
the config file is backed up before it is modified. Re-running is safe:
already-satisfied steps are skipped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := core.LoadSettings(flagSettings)
		if err != nil {
			return err
		}

		platform, err := core.Probe()
		if err != nil {
			return err
		}

		var confirm core.Confirmer = ui.Interactive()
		if flagYes || settings.AutoConfirm {
			confirm = core.AutoConfirm{}
		}

		pipeline := core.NewPipeline(settings, platform, confirm, ui.NewConsole())
		pipeline.CheckOnly = flagCheck
		return pipeline.Run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scoutstrap %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to every confirmation prompt")
	rootCmd.Flags().BoolVar(&flagCheck, "check", false, "Report what would change without changing anything")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&flagSettings, "settings", "", "Path to a settings file (default ~/.scoutstrap.yaml)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
