package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/howeyc/gopass"
	"github.com/spf13/cobra"

	"github.com/loxvault/lox/internal/model"
	"github.com/loxvault/lox/internal/passgen"
)

// promptPassphrase reads the vault passphrase without echo.
func promptPassphrase(prompt string) (string, error) {
	pw, err := gopass.GetPasswdPrompt(prompt, true, os.Stdin, os.Stdout)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

var stdin = bufio.NewReader(os.Stdin)

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "create a new empty vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := promptPassphrase("Choose a passphrase: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassphrase("Confirm passphrase: ")
			if err != nil {
				return err
			}
			if pass != confirm {
				return fmt.Errorf("passphrases do not match")
			}

			created, err := a.manager.Init(pass)
			if err != nil {
				return err
			}
			if !created {
				fmt.Println("A vault already exists; nothing to do.")
				return nil
			}
			fmt.Println("Vault created.")
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		username string
		url      string
		notes    string
		generate bool
		length   int
	)
	cmd := &cobra.Command{
		Use:   "add <service>",
		Short: "add a credential for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			pass, err := promptPassphrase("Passphrase: ")
			if err != nil {
				return err
			}

			var secret string
			if generate {
				opts := passgen.DefaultOptions()
				opts.Length = length
				secret, err = passgen.Generate(opts)
				if err != nil {
					return err
				}
			} else {
				secret, err = promptPassphrase(fmt.Sprintf("Password for %s: ", name))
				if err != nil {
					return err
				}
			}

			cred := model.Credential{Password: secret, Username: username, URL: url, Notes: notes}
			if err := a.manager.AddEntry(pass, name, cred); err != nil {
				return err
			}
			fmt.Printf("Added %s.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for the service")
	cmd.Flags().StringVar(&url, "url", "", "service URL")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "generate the password")
	cmd.Flags().IntVarP(&length, "length", "l", 16, "generated password length")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var (
		copyToClipboard bool
		show            bool
	)
	cmd := &cobra.Command{
		Use:   "get <service>",
		Short: "retrieve a stored password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			pass, err := promptPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
			pw, ok, err := a.manager.GetPassword(pass, name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no entry for %q", name)
			}
			if copyToClipboard {
				if err := clipboard.WriteAll(pw); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Printf("Password for %s copied to clipboard.\n", name)
				return nil
			}
			if show {
				fmt.Println(pw)
				return nil
			}
			return fmt.Errorf("refusing to print the password; use --show or --copy")
		},
	}
	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "copy the password to the clipboard")
	cmd.Flags().BoolVar(&show, "show", false, "print the password to stdout")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored service names",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := promptPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
			names, err := a.manager.ListNames(pass)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("Vault is empty.")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		username string
		url      string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "update <service>",
		Short: "replace the credential for a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			pass, err := promptPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
			secret, err := promptPassphrase(fmt.Sprintf("New password for %s: ", name))
			if err != nil {
				return err
			}
			cred := model.Credential{Password: secret, Username: username, URL: url, Notes: notes}
			if err := a.manager.UpdateEntry(pass, name, cred); err != nil {
				return err
			}
			fmt.Printf("Updated %s.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for the service")
	cmd.Flags().StringVar(&url, "url", "", "service URL")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <service>",
		Aliases: []string{"delete"},
		Short:   "remove a credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			pass, err := promptPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
			removed, err := a.manager.DeleteEntry(pass, name)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("No entry for %s.\n", name)
				return nil
			}
			fmt.Printf("Removed %s.\n", name)
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		length     int
		noSymbols  bool
		noDigits   bool
		noUpper    bool
		allowAlike bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a random password",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passgen.Generate(passgen.Options{
				Length:         length,
				Lowercase:      true,
				Uppercase:      !noUpper,
				Digits:         !noDigits,
				Symbols:        !noSymbols,
				ExcludeSimilar: !allowAlike,
			})
			if err != nil {
				return err
			}
			fmt.Println(pw)
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "l", 16, "password length")
	cmd.Flags().BoolVar(&noSymbols, "no-symbols", false, "exclude symbols")
	cmd.Flags().BoolVar(&noDigits, "no-digits", false, "exclude digits")
	cmd.Flags().BoolVar(&noUpper, "no-uppercase", false, "exclude uppercase letters")
	cmd.Flags().BoolVar(&allowAlike, "allow-similar", false, "allow easily confused characters (0O1lI)")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "show vault file information",
		Run: func(cmd *cobra.Command, args []string) {
			info := a.manager.File().Info()
			fmt.Printf("path:     %s\n", info.Path)
			fmt.Printf("exists:   %v\n", info.Exists)
			if info.Exists {
				fmt.Printf("size:     %d bytes\n", info.Size)
				fmt.Printf("modified: %s\n", info.Modified.Format("2006-01-02 15:04:05"))
			}
		},
	}
}
