package app_test

import (
	. "github.com/mandelsoft/admin/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/admin/cmds/adminctl/app"
	"github.com/mandelsoft/admin/pkg/utils"
)

func env(values map[string]string) app.LookupFunc {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

var _ = Describe("config", func() {
	It("defaults the server", func() {
		fs := Must(TestFileSystem(nil))
		cfg := app.GetConfig(fs, env(nil))
		Expect(*cfg.Server).To(Equal(app.DEFAULT_SERVER))
		Expect(cfg.Token).To(BeNil())
	})

	It("reads the config file with substitutions", func() {
		fs := Must(TestFileSystem(map[string]string{
			"/.adminctl": "server: https://${HOST}:8443\ntoken: ${SECRET}\nrateLimit: 5\n",
			"/.env":      "HOST=admin.example.com\nSECRET=from-dotenv\n",
		}))
		cfg := app.GetConfig(fs, env(map[string]string{"SECRET": "from-env"}))
		Expect(*cfg.Server).To(Equal("https://admin.example.com:8443"))
		Expect(*cfg.Token).To(Equal("from-env"))
		Expect(*cfg.RateLimit).To(Equal(5.0))
	})

	It("prefers environment settings", func() {
		fs := Must(TestFileSystem(map[string]string{
			"/.adminctl": "server: http://file\n",
			"/.env":      "ADMIN_TOKEN=dotenv\n",
		}))
		cfg := app.GetConfig(fs, env(map[string]string{app.ENV_SERVER: "http://env"}))
		Expect(*cfg.Server).To(Equal("http://env"))
		Expect(*cfg.Token).To(Equal("dotenv"))
	})

	It("ignores invalid files", func() {
		fs := Must(TestFileSystem(map[string]string{
			"/.adminctl": "server: [",
		}))
		Expect(*app.GetConfig(fs, env(nil)).Server).To(Equal(app.DEFAULT_SERVER))
	})

	It("merges configs", func() {
		cfg := &app.Config{Server: utils.Pointer("a")}
		app.MergeConfig(cfg, &app.Config{Token: utils.Pointer("t")})
		app.MergeConfig(cfg, nil)
		Expect(*cfg.Server).To(Equal("a"))
		Expect(*cfg.Token).To(Equal("t"))
	})
})

var _ = Describe("watch url", func() {
	It("maps schemes", func() {
		Expect(Must(app.WatchURL("http://localhost:8080/"))).To(Equal("ws://localhost:8080/watch"))
		Expect(Must(app.WatchURL("admin.example.com/api"))).To(Equal("wss://admin.example.com/api/watch"))
	})
})
