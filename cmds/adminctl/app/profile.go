package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type Profile struct {
	cmd *cobra.Command

	mainopts *Options
	output   string
}

func NewProfile(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <options>",
		Short: "show the profile of the logged-in administrator",
	}
	TweakCommand(cmd)

	c := &Profile{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "output format (json, yaml)")
	return cmd
}

func (c *Profile) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	format, err := CheckOutput(c.output)
	if err != nil {
		return err
	}
	p, err := c.mainopts.Service().Profile(ctx)
	if err != nil {
		return err
	}
	if format != OUTPUT_TABLE {
		return PrintData(c.cmd.OutOrStdout(), format, p)
	}
	phone := p.Phone
	if phone == "" {
		phone = p.PhoneNumber
	}
	PrintLines(c.cmd.OutOrStdout(), []string{"FIELD", "VALUE"}, [][]string{
		{"Name", dash(p.FullName)},
		{"Email", dash(p.Email)},
		{"Phone", dash(phone)},
		{"Company", dash(p.Company)},
		{"Bio", dash(p.Bio)},
	})
	return nil
}
