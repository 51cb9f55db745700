package app

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/forms"
	"github.com/mandelsoft/admin/pkg/utils"
)

const (
	FIELD_KIND  = "kind"
	FIELD_ITEMS = "items"
)

type Apply struct {
	cmd *cobra.Command

	mainopts *Options
	files    []string
}

func NewApply(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <options>",
		Short: "create or update records from manifest files",
		Long: `
A manifest is a yaml document with a kind, an optional id and the
fields of the record. Alternatively it contains a list of such
documents in the field items. Manifests without id are created,
the others are updated if they differ from the stored record.
`,
	}
	TweakCommand(cmd)

	c := &Apply{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	flags := cmd.Flags()
	flags.StringSliceVarP(&c.files, "file", "f", nil, "manifest file (- for stdin)")
	return cmd
}

func (c *Apply) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	if len(c.files) == 0 {
		return fmt.Errorf("at least one manifest file required")
	}
	return HandleManifests(c.cmd, c.mainopts, c.files, func(multi bool, index int, file string, m envelope.Record) error {
		return c.apply(ctx, multi, index, file, m)
	})
}

func (c *Apply) apply(ctx context.Context, multi bool, index int, file string, m envelope.Record) error {
	k, err := admin.LookupKind(m.GetString(FIELD_KIND))
	if err != nil {
		return IndexError(c.cmd, multi, index, file, "invalid manifest", err)
	}
	id := m.GetId()
	fields := m.Copy()
	delete(fields, FIELD_KIND)
	delete(fields, envelope.FIELD_ID)

	body, err := forms.Body(k.Name, fields)
	if err != nil {
		return IndexError(c.cmd, multi, index, file, "invalid "+k.Name, err)
	}

	svc := c.mainopts.Service()
	if id == "" {
		r, err := svc.Create(ctx, k, body)
		if err != nil {
			return IndexError(c.cmd, multi, index, file, "cannot create "+k.Name, err)
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s/%s: created\n", k.Name, r.GetId())
		return nil
	}

	cur, err := svc.Get(ctx, k, id)
	if err != nil {
		return IndexError(c.cmd, multi, index, file, fmt.Sprintf("cannot get %s/%s", k.Name, id), err)
	}
	same, err := Unchanged(k, cur, body)
	if err != nil {
		return IndexError(c.cmd, multi, index, file, "cannot compare "+k.Name, err)
	}
	if same {
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s/%s: unchanged\n", k.Name, id)
		return nil
	}
	_, err = svc.Update(ctx, k, id, body)
	if err != nil {
		return IndexError(c.cmd, multi, index, file, fmt.Sprintf("cannot update %s/%s", k.Name, id), err)
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s/%s: updated\n", k.Name, id)
	return nil
}

// Unchanged compares the relevant fields of a request body
// with the stored record.
func Unchanged(k *admin.Kind, cur envelope.Record, body map[string]any) (bool, error) {
	var fields []string
	for f := range body {
		if slices.Contains(k.Fields, f) {
			fields = append(fields, f)
		}
	}
	a, err := utils.HashFields(cur, fields)
	if err != nil {
		return false, err
	}
	b, err := utils.HashFields(body, fields)
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// ManifestHandler processes a single manifest. multi indicates
// that the manifest is part of a list.
type ManifestHandler func(multi bool, index int, file string, m envelope.Record) error

// HandleManifests reads the given files and calls the handler for
// every contained manifest. Failures are reported and processing
// continues with the next manifest.
func HandleManifests(cmd *cobra.Command, opts *Options, files []string, h ManifestHandler) error {
	var cmderr error

	for _, f := range files {
		var data []byte
		var err error

		if f == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = vfs.ReadFile(opts.fs, f)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cannot read file %q: %s\n", f, err.Error())
			cmderr = ErrSomeFailed
			continue
		}

		var m map[string]interface{}
		err = yaml.Unmarshal(data, &m)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cannot unmarshal file %q: %s\n", f, err.Error())
			cmderr = ErrSomeFailed
			continue
		}

		var items []envelope.Record
		multi := isList(m)
		if multi {
			for _, o := range m[FIELD_ITEMS].([]interface{}) {
				items = append(items, envelope.Record(o.(map[string]interface{})))
			}
		} else {
			items = []envelope.Record{envelope.Record(m)}
		}

		for i, o := range items {
			if err := h(multi, i, f, o); err != nil {
				cmderr = err
			}
		}
	}
	return cmderr
}

func isList(m map[string]interface{}) bool {
	if len(m) != 1 || m[FIELD_ITEMS] == nil {
		return false
	}

	if l, ok := m[FIELD_ITEMS].([]interface{}); !ok {
		return false
	} else {
		for _, e := range l {
			if _, ok := e.(map[string]interface{}); !ok {
				return false
			}
		}
	}
	return true
}

var ErrSomeFailed = fmt.Errorf("apply failed for some resources")

func IndexError(c *cobra.Command, multi bool, index int, file string, msg string, err error) error {
	if multi {
		fmt.Fprintf(c.ErrOrStderr(), "%s for resource %d in %q: %s\n", msg, index+1, file, apierror.Message(err))
	} else {
		fmt.Fprintf(c.ErrOrStderr(), "%s for %q: %s\n", msg, file, apierror.Message(err))
	}
	return ErrSomeFailed
}
