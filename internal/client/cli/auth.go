package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// readSecret prompts on w and reads a line from the terminal without echo.
func readSecret(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(b), nil
}

func newAuthCommand(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the saved access token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "token [token]",
		Short: "Save a bearer token issued by the identity provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token []byte
			if len(args) == 1 {
				token = []byte(args[0])
			} else {
				var err error
				if token, err = readSecret(cmd.OutOrStdout(), "Access token: "); err != nil {
					return err
				}
			}
			if len(token) == 0 {
				return errors.New("empty token")
			}
			if err := get().meta.Set(cmd.Context(), common.AccessTokenKey, token); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Success("Token saved"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "forget",
		Short: "Remove the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().meta.Delete(cmd.Context(), common.AccessTokenKey); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Silent("Token removed"))
			return nil
		},
	})

	return cmd
}
