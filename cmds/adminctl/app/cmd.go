package app

import (
	"fmt"
	"os"
	"time"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/client"
	"github.com/mandelsoft/admin/pkg/utils"
)

const (
	ENV_SERVER = "ADMIN_SERVER"
	ENV_TOKEN  = "ADMIN_TOKEN"

	DEFAULT_SERVER = "http://localhost:8080"
)

type Options struct {
	server  string
	token   string
	level   string
	rate    float64
	timeout time.Duration
	fs      vfs.FileSystem

	service *admin.Service
}

func (o *Options) Service() *admin.Service {
	if o.service == nil {
		c := client.New(o.server, client.BearerToken(o.token),
			client.WithTimeout(o.timeout),
			client.WithRateLimit(o.rate, 1),
		)
		o.service = admin.NewService(c)
	}
	return o.service
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs:      utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
		timeout: 30 * time.Second,
	}

	cfg := GetConfig(opts.fs, os.LookupEnv)
	opts.server = *cfg.Server
	if cfg.Token != nil {
		opts.token = *cfg.Token
	}
	if cfg.RateLimit != nil {
		opts.rate = *cfg.RateLimit
	}

	maincmd := &cobra.Command{
		Use:   "adminctl <options> <cmd> <args>",
		Short: "manage the admin dashboard entities",
		Long: `
This command can be used to inspect and manipulate the users, plans,
products, trade styles, trade strategies and categories managed
by the admin API.
`,
		Run:              nil,
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configureLogging()
		},
	}

	flags := maincmd.PersistentFlags()

	flags.StringVarP(&opts.server, "server", "s", opts.server, "admin API server")
	flags.StringVarP(&opts.token, "token", "t", opts.token, "bearer token")
	flags.StringVarP(&opts.level, "log-level", "L", "", "log level")
	flags.Float64VarP(&opts.rate, "rate", "r", opts.rate, "request rate limit per second")
	flags.DurationVarP(&opts.timeout, "timeout", "", opts.timeout, "request timeout")

	maincmd.AddCommand(NewGet(opts))
	maincmd.AddCommand(NewApply(opts))
	maincmd.AddCommand(NewDelete(opts))
	maincmd.AddCommand(NewDashboard(opts))
	maincmd.AddCommand(NewProfile(opts))
	maincmd.AddCommand(NewCredentials(opts))
	maincmd.AddCommand(NewWatch(opts))
	return maincmd
}

func (o *Options) configureLogging() error {
	if o.level == "" {
		return nil
	}
	l, err := logging.ParseLevel(o.level)
	if err != nil {
		return fmt.Errorf("invalid log level %q", o.level)
	}
	logging.DefaultContext().AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("admin")))
	return nil
}
