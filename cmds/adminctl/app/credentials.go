package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/admin/pkg/forms"
)

type Credentials struct {
	cmd *cobra.Command

	mainopts *Options
	form     forms.Credentials
}

func NewCredentials(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials <options>",
		Short: "update the api credentials used for integrations",
	}
	TweakCommand(cmd)

	c := &Credentials{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.form.ApiKey, "api-key", "k", "", "api key")
	flags.StringVarP(&c.form.SecretKey, "secret-key", "x", "", "secret key")
	flags.StringVarP(&c.form.WebhookURL, "webhook-url", "w", "", "webhook url")
	return cmd
}

func (c *Credentials) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	if err := forms.Validate(&c.form); err != nil {
		return err
	}
	err := c.mainopts.Service().UpdateCredentials(ctx, c.form.Body())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "credentials updated\n")
	return nil
}
