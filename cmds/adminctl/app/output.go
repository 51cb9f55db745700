package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/envelope"
	"github.com/mandelsoft/admin/pkg/utils"
)

const (
	OUTPUT_TABLE = ""
	OUTPUT_JSON  = "json"
	OUTPUT_YAML  = "yaml"
)

func TweakCommand(cmd *cobra.Command) {
	cmd.DisableFlagsInUseLine = true
	cmd.TraverseChildren = true
}

func CheckOutput(o string) (string, error) {
	o = strings.ToLower(strings.TrimSpace(o))
	switch o {
	case OUTPUT_TABLE, OUTPUT_JSON, OUTPUT_YAML:
		return o, nil
	}
	return "", fmt.Errorf("invalid output format %q (use json or yaml)", o)
}

// PrintData prints data as json or yaml.
func PrintData(w io.Writer, format string, data any) error {
	var out []byte
	var err error
	switch format {
	case OUTPUT_JSON:
		out, err = json.Marshal(data)
	default:
		out, err = yaml.Marshal(data)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", strings.TrimSuffix(string(out), "\n"))
	return nil
}

// PrintRecords prints a record list in the requested format.
func PrintRecords(w io.Writer, format string, k *admin.Kind, list []envelope.Record) error {
	if format != OUTPUT_TABLE {
		return PrintData(w, format, &envelope.List{Items: list})
	}
	return PrintTable(w, columns(k), list)
}

func columns(k *admin.Kind) []admin.Column {
	cols := k.Columns
	if k.HasStatus() {
		cols = append(cols[:len(cols):len(cols)], admin.Column{Title: "STATUS", Field: k.StatusField})
	}
	return cols
}

func PrintTable(w io.Writer, cols []admin.Column, list []envelope.Record) error {
	if len(list) == 0 {
		fmt.Fprintf(w, "no resource found\n")
		return nil
	}
	titles := utils.TransformSlice(cols, func(c admin.Column) string { return c.Title })
	rows := utils.TransformSlice(list, func(r envelope.Record) []string {
		return utils.TransformSlice(cols, func(c admin.Column) string { return cell(r, c.Field) })
	})
	PrintLines(w, titles, rows)
	return nil
}

func PrintLines(w io.Writer, titles []string, rows [][]string) {
	max := make([]int, len(titles))
	for i, s := range titles {
		max[i] = len(s)
	}
	for _, cols := range rows {
		for i, s := range cols {
			if max[i] < len(s) {
				max[i] = len(s)
			}
		}
	}

	f := formatString(max)
	printLine(w, titles, f)
	for _, cols := range rows {
		printLine(w, cols, f)
	}
}

func cell(r envelope.Record, field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return "-"
	}
	if b, ok := v.(bool); ok {
		if b {
			return "active"
		}
		return "inactive"
	}
	return r.GetString(field)
}

func printLine(w io.Writer, cols []string, msg string) {
	fmt.Fprintf(w, "%s\n", strings.TrimRight(fmt.Sprintf(msg, utils.TransformSlice(cols, func(s string) any { return s })...), " "))
}

func formatString(max []int) string {
	msg := ""
	for _, l := range max {
		msg += fmt.Sprintf("%%-%ds ", l)
	}
	return msg[:len(msg)-1]
}
