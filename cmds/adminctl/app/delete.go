package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/utils"
)

type Delete struct {
	cmd *cobra.Command

	mainopts *Options
	all      bool
	filemode bool
}

func NewDelete(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <kind> {<id>} <options>",
		Short: "delete records",
	}
	TweakCommand(cmd)

	c := &Delete{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	flags := cmd.Flags()
	flags.BoolVarP(&c.all, "all", "A", false, "all records of the kind")
	flags.BoolVarP(&c.filemode, "file", "f", false, "arguments are manifest files")
	return cmd
}

type ref struct {
	kind *admin.Kind
	id   string
}

func (r ref) String() string {
	return r.kind.Name + "/" + r.id
}

func (c *Delete) Run(ctx context.Context, args []string) error {
	if c.filemode {
		return HandleManifests(c.cmd, c.mainopts, args, func(multi bool, index int, file string, m envelope.Record) error {
			k, err := admin.LookupKind(m.GetString(FIELD_KIND))
			if err != nil {
				return IndexError(c.cmd, multi, index, file, "invalid manifest", err)
			}
			if m.GetId() == "" {
				return IndexError(c.cmd, multi, index, file, "invalid manifest", fmt.Errorf("id required"))
			}
			return c.delete(ctx, ref{k, m.GetId()})
		})
	}

	if len(args) < 1 {
		return fmt.Errorf("kind required")
	}
	k, err := admin.LookupKind(args[0])
	if err != nil {
		return err
	}

	var list []ref
	if len(args) > 1 {
		list = utils.TransformSlice(args[1:], func(id string) ref { return ref{k, id} })
	} else {
		if !c.all {
			return fmt.Errorf("no record specified")
		}
		records, err := c.mainopts.Service().List(ctx, k)
		if err != nil {
			return err
		}
		list = utils.TransformSlice(records, func(r envelope.Record) ref { return ref{k, r.GetId()} })
	}

	var cmderr error
	for _, r := range list {
		if err := c.delete(ctx, r); err != nil {
			cmderr = err
		}
	}
	return cmderr
}

func (c *Delete) delete(ctx context.Context, r ref) error {
	err := c.mainopts.Service().Delete(ctx, r.kind, r.id)
	if err != nil {
		fmt.Fprintf(c.cmd.ErrOrStderr(), "%s: %s\n", r, apierror.Message(err))
		return fmt.Errorf("deletion failed for some resources")
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s: deleted\n", r)
	return nil
}
