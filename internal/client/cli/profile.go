package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/netx"
	"github.com/spf13/cobra"
)

// uploadToPresignedURL is a test seam.
var uploadToPresignedURL = netx.UploadToPresignedURL

func newProfileCommand(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change profile settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(cmd, get())
		},
	})

	var name, currency string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change display name or currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileSet(cmd, get(), name, currency)
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&currency, "currency", "", "ISO currency code, e.g. EUR")
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload an avatar image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileAvatar(cmd, get(), args[0])
		},
	})

	return cmd
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func runProfileShow(cmd *cobra.Command, app *App) error {
	p, err := app.api.Profile(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if p == nil {
		_, _ = fmt.Fprintln(out, Silent("No profile yet."))
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", Header("Name:    "), orDash(p.DisplayName))
	_, _ = fmt.Fprintf(out, "%s %s\n", Header("Currency:"), orDash(&p.Currency))
	_, _ = fmt.Fprintf(out, "%s %s\n", Header("Avatar:  "), orDash(p.AvatarURL))
	return nil
}

// current returns the stored profile or an empty one.
func current(cmd *cobra.Command, app *App) (models.Profile, error) {
	p, err := app.api.Profile(cmd.Context())
	if err != nil {
		return models.Profile{}, err
	}
	if p == nil {
		return models.Profile{}, nil
	}
	return *p, nil
}

func runProfileSet(cmd *cobra.Command, app *App, name, currency string) error {
	if name == "" && currency == "" {
		return fmt.Errorf("nothing to change: pass --name and/or --currency")
	}

	p, err := current(cmd, app)
	if err != nil {
		return err
	}
	if name != "" {
		p.DisplayName = &name
	}
	if currency != "" {
		p.Currency = currency
	}

	if _, err := app.api.UpdateProfile(cmd.Context(), p); err != nil {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Error("Could not save profile"))
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Success("Profile saved"))
	return nil
}

func runProfileAvatar(cmd *cobra.Command, app *App, path string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	contentType := http.DetectContentType(data)

	key, url, err := app.api.RequestAvatarUpload(ctx, contentType)
	if err != nil {
		return fmt.Errorf("request upload url: %w", err)
	}
	if err := uploadToPresignedURL(ctx, url, data, contentType); err != nil {
		return err
	}

	p, err := current(cmd, app)
	if err != nil {
		return err
	}
	p.AvatarURL = &key
	if _, err := app.api.UpdateProfile(ctx, p); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), Success("Avatar uploaded"))
	return nil
}
