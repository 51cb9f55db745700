package app

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/gobwas/ws"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/client"
	"github.com/mandelsoft/admin/watch"
)

const PATH_WATCH = "/watch"

type Watch struct {
	cmd *cobra.Command

	mainopts *Options
	output   string
}

func NewWatch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch {<kind>} <options>",
		Short: "watch record changes",
	}
	TweakCommand(cmd)

	c := &Watch{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(cmd.Context(), args) }
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "output format (json, yaml)")
	return cmd
}

func (c *Watch) Run(ctx context.Context, args []string) error {
	format, err := CheckOutput(c.output)
	if err != nil {
		return err
	}
	var kinds []string
	for _, a := range args {
		k, err := admin.LookupKind(a)
		if err != nil {
			return err
		}
		kinds = append(kinds, k.Name)
	}

	address, err := WatchURL(c.mainopts.server)
	if err != nil {
		return err
	}
	s, err := Consume(ctx, c.cmd.OutOrStdout(), format, address, c.mainopts.token, kinds)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", address, err)
	}
	return s.Wait()
}

// WatchURL provides the websocket address for a server url.
func WatchURL(server string) (string, error) {
	u, err := url.Parse(client.NormalizeURL(server))
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s%s%s", scheme, u.Host, strings.TrimSuffix(u.Path, "/"), PATH_WATCH), nil
}

func Consume(ctx context.Context, w io.Writer, format string, address string, token string, kinds []string) (watch.Syncher, error) {
	var dialers []ws.Dialer
	if token != "" {
		dialers = append(dialers, watch.BearerDialer(token))
	}
	c := watch.NewClient(address, dialers...)

	registration := watch.Request{Kinds: kinds}
	return c.Register(ctx, registration, &handler{w: w, format: format})
}

type handler struct {
	lock   sync.Mutex
	w      io.Writer
	format string
}

func (h *handler) HandleEvent(e watch.Event) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.format != OUTPUT_TABLE {
		PrintData(h.w, h.format, e)
		return
	}
	fmt.Fprintf(h.w, "%s/%s: %s\n", e.Kind, e.Id, e.Op)
}
