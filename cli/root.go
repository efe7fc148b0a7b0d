package cli

import (
	"os"

	"clementus360/wellness-sessions/client"
	"clementus360/wellness-sessions/config"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

type app struct {
	cfg   *config.ClientConfig
	creds *client.Credentials
	api   *client.Client
}

// NewRootCmd builds the sessionctl command tree around cfg. Flags override
// the values loaded from the environment.
func NewRootCmd(cfg *config.ClientConfig) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "sessionctl",
		Short: "sessionctl - browse, write and publish wellness sessions",
		Long: `sessionctl talks to the wellness sessions API. Public sessions can be
listed without signing in; everything else needs a token in SESSIONCTL_TOKEN
or --token.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.creds = client.NewCredentials(a.cfg.Token)
			a.api = client.New(a.cfg.APIURL, a.creds)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the sessions API")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "bearer token of the signed-in user")

	rootCmd.AddCommand(
		a.listCmd(),
		a.mineCmd(),
		a.showCmd(),
		a.draftCmd(),
		a.publishCmd(),
		a.deleteCmd(),
		a.editCmd(),
		a.devTokenCmd(),
	)
	return rootCmd
}

// Execute loads the client configuration and runs the command line.
func Execute() error {
	config.LoadEnv()
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	config.InitLogger(cfg.LogLevel)

	rootCmd := NewRootCmd(cfg)
	rootCmd.SetIn(os.Stdin)
	return rootCmd.Execute()
}
