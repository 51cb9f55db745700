package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/filter"
	"github.com/mandelsoft/admin/pkg/screen"
)

type Get struct {
	cmd *cobra.Command

	mainopts *Options
	sort     string
	output   string
	search   string
	status   string
}

func NewGet(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [<kind> {<id>}] <options>",
		Short: "get records of a kind",
		Long: `
Without arguments the known kinds are listed. With a kind all records
of this kind are listed, optionally filtered by a search term and a
status. Additional arguments select dedicated records by id.
`,
	}
	TweakCommand(cmd)

	c := &Get{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.sort, "sort", "S", "", "sort field")
	flags.StringVarP(&c.output, "output", "o", "", "output format (json, yaml)")
	flags.StringVarP(&c.search, "search", "q", "", "search term")
	flags.StringVarP(&c.status, "status", "", string(filter.STATUS_ALL), "status filter (all, active, inactive)")
	return cmd
}

func (c *Get) Run(ctx context.Context, args []string) error {
	format, err := CheckOutput(c.output)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return c.printKinds(format)
	}

	k, err := admin.LookupKind(args[0])
	if err != nil {
		return err
	}
	mode, err := filter.ParseStatusMode(c.status)
	if err != nil {
		return err
	}

	field := ""
	if c.sort != "" {
		field, err = sortField(k, c.sort)
		if err != nil {
			return err
		}
	}

	// partially failed gets still print the found records
	var list []envelope.Record
	if len(args) > 1 {
		list, err = c.getRecords(ctx, k, args[1:])
	} else {
		list, err = c.listRecords(ctx, k, mode)
	}
	if err != nil && len(list) == 0 {
		return err
	}

	if field != "" {
		list = filter.Sort(list, field)
	}
	perr := PrintRecords(c.cmd.OutOrStdout(), format, k, list)
	if err != nil {
		return err
	}
	return perr
}

func (c *Get) listRecords(ctx context.Context, k *admin.Kind, mode filter.StatusMode) ([]envelope.Record, error) {
	scr := screen.ForKind(c.mainopts.Service(), k)
	st, err := scr.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if st.IsFailed() {
		return nil, fmt.Errorf("%s", st.Message)
	}
	list := scr.View(c.search, mode)
	log.Debug("{{shown}} of {{total}} {{kind}} selected", "shown", len(list), "total", len(st.Items), "kind", k.Name)
	return list, nil
}

func (c *Get) getRecords(ctx context.Context, k *admin.Kind, ids []string) ([]envelope.Record, error) {
	var cmderr error
	var list []envelope.Record
	for _, id := range ids {
		r, err := c.mainopts.Service().Get(ctx, k, id)
		if err != nil {
			fmt.Fprintf(c.cmd.ErrOrStderr(), "%s/%s: %s\n", k.Name, id, apierror.Message(err))
			cmderr = fmt.Errorf("get failed for some resources")
			continue
		}
		list = append(list, r)
	}
	return list, cmderr
}

func (c *Get) printKinds(format string) error {
	if format != OUTPUT_TABLE {
		return PrintData(c.cmd.OutOrStdout(), format, admin.KindNames())
	}
	var rows [][]string
	for _, k := range admin.Kinds() {
		rows = append(rows, []string{k.Name, strings.Join(k.Aliases, ","), k.ListPath})
	}
	PrintLines(c.cmd.OutOrStdout(), []string{"KIND", "ALIASES", "PATH"}, rows)
	return nil
}

// sortField accepts a record field or a column title.
func sortField(k *admin.Kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, col := range columns(k) {
		if strings.EqualFold(col.Title, name) || col.Field == name {
			return col.Field, nil
		}
	}
	for _, f := range k.Fields {
		if f == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", name)
}
