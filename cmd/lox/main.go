// Command lox is a local, passphrase-protected password vault with optional
// blob synchronization to a remote store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loxvault/lox/internal/config"
	"github.com/loxvault/lox/internal/creds"
	"github.com/loxvault/lox/internal/vault"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app bundles the wired core passed to every command.
type app struct {
	manager *vault.Manager
	chain   *creds.Chain
	logger  *zap.Logger
}

func main() {
	var (
		vaultPath string
		verbose   bool
	)

	root := &cobra.Command{
		Use:           "lox",
		Short:         "local encrypted password vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vaultPath, "vault", "", "vault file path (default: config dir)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	a := &app{}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger := zap.NewNop()
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}
		path := vaultPath
		if path == "" {
			path = config.VaultPath()
		}
		a.logger = logger
		a.manager = vault.NewManager(vault.NewFile(path, logger), logger)
		a.chain = creds.DefaultChain(logger)
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a.logger != nil {
			_ = a.logger.Sync()
		}
	}

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newGetCmd(a),
		newListCmd(a),
		newUpdateCmd(a),
		newRemoveCmd(a),
		newGenerateCmd(),
		newInfoCmd(a),
		newSetupCmd(a),
		newCredsClearCmd(a),
		newPushCmd(a),
		newPullCmd(a),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		// Short, non-technical line; secrets never appear in error paths.
		fmt.Fprintf(os.Stderr, "lox: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lox %s (%s)\n", version, buildDate)
		},
	}
}
