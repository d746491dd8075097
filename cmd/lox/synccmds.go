package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loxvault/lox/internal/model"
	"github.com/loxvault/lox/internal/remote"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "store sync credentials in the most secure available backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := promptLine("Role identifier: ")
			if err != nil {
				return err
			}
			accessKey, err := promptPassphrase("Access key: ")
			if err != nil {
				return err
			}
			secretKey, err := promptPassphrase("Secret key: ")
			if err != nil {
				return err
			}
			region, err := promptLine("Region: ")
			if err != nil {
				return err
			}

			rec := &model.StoredCredential{
				RoleIdentifier: role,
				AccessKey:      accessKey,
				SecretKey:      secretKey,
				Region:         region,
			}
			if !rec.Complete() {
				return fmt.Errorf("all fields are required")
			}
			if err := a.chain.Store(rec); err != nil {
				return err
			}
			fmt.Printf("Credentials stored (%s backend).\n", a.chain.UsedBackend())
			return nil
		},
	}
}

func newCredsClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "creds-clear",
		Short: "remove sync credentials from every backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.chain.Clear() {
				return fmt.Errorf("some backends could not be cleared")
			}
			fmt.Println("Credentials cleared.")
			return nil
		},
	}
}

// syncService wires the sync boundary. The blob store is a shared directory;
// a cloud transport can be swapped in behind the same interface.
func syncService(a *app, dir string) (*remote.Service, error) {
	if dir == "" {
		return nil, fmt.Errorf("no sync target: pass --dir")
	}
	return remote.NewService(a.manager.File(), remote.NewDirStore(dir), a.chain, a.logger), nil
}

func newPushCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "push",
		Short: "upload the encrypted vault to the sync target",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := syncService(a, dir)
			if err != nil {
				return err
			}
			if err := svc.Push(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Vault pushed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "sync target directory")
	return cmd
}

func newPullCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "replace the local vault with the latest synced copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := syncService(a, dir)
			if err != nil {
				return err
			}
			if err := svc.Pull(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Vault pulled.")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "sync target directory")
	return cmd
}
