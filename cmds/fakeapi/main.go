package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/spf13/pflag"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/ctxutil"
	"github.com/mandelsoft/admin/pkg/fakeapi"
	"github.com/mandelsoft/admin/pkg/healthz"
	"github.com/mandelsoft/admin/pkg/server"
	"github.com/mandelsoft/admin/pkg/service"
)

func Error(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

func main() {
	var port int
	var token string = os.Getenv("ADMIN_TOKEN")
	var level string = "info"
	var database string
	var amount int
	var seed int64
	var envelopes []string
	var interval time.Duration

	flags := pflag.NewFlagSet("fakeapi", pflag.ExitOnError)

	flags.IntVarP(&port, "port", "p", 8080, "server port")
	flags.StringVarP(&token, "token", "t", token, "accepted bearer token (empty disables authentication)")
	flags.StringVarP(&level, "log-level", "L", level, "log level")
	flags.StringVarP(&database, "database", "d", "", "directory for persisting the records")
	flags.IntVarP(&amount, "seed", "n", 0, "number of random records per kind for an empty database")
	flags.Int64VarP(&seed, "random-seed", "r", time.Now().UnixNano(), "seed for random records")
	flags.DurationVarP(&interval, "save-interval", "i", time.Minute, "interval for saving the database")
	flags.StringSliceVarP(&envelopes, "envelope", "e", nil, "list envelope per kind (<kind>=<field>, empty field for bare lists)")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		Error("invalid arguments: %s", err)
	}

	l, err := logging.ParseLevel(level)
	if err != nil {
		Error("invalid log level %q", level)
	}
	lctx := logging.DefaultContext()
	lctx.AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("admin")))

	store := fakeapi.NewStore()
	if database != "" {
		err = store.Load(osfs.OsFs, database)
		if err != nil {
			Error("cannot load database %q: %s", database, err)
		}
	}
	if amount > 0 && len(store.Kinds()) == 0 {
		log.Info("seeding {{amount}} records per kind", "amount", amount, "seed", seed)
		store.Seed(amount, seed)
	}

	api := fakeapi.New(store, token)
	for _, e := range envelopes {
		kind, field, _ := strings.Cut(e, "=")
		k, err := admin.LookupKind(kind)
		if err != nil {
			Error("invalid envelope %q: %s", e, err)
		}
		api.SetEnvelope(k.Name, strings.TrimSpace(field))
	}
	if token == "" {
		log.Info("authentication disabled")
	}

	health := healthz.New()

	srv := server.NewServer(port)
	srv.Handle("/healthz", health)
	srv.Handle("/", api)

	ctx := ctxutil.CancelContext(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		ctxutil.Cancel(ctx)
	}()

	save := func(context.Context) error {
		err := store.Save(osfs.OsFs, database)
		if err == nil {
			health.Tick("persistence")
		}
		return err
	}

	reg := service.NewServices(ctx)
	reg.Add(service.New("server", func(ctx context.Context) error {
		return srv.ListenAndServeContext(ctx, 10*time.Second)
	}))
	if database != "" && interval > 0 {
		health.Start("persistence", interval)
		reg.Add(service.Periodic("persistence", interval, save))
	}

	err = reg.Wait()
	api.Hub().Close()
	if err != nil {
		Error("%s", err)
	}
	if database != "" {
		err = store.Save(osfs.OsFs, database)
		if err != nil {
			Error("cannot save database %q: %s", database, err)
		}
		log.Info("saved database {{path}}", "path", database)
	}
}
