package app_test

import (
	"bytes"
	"net/http/httptest"
	"strings"

	. "github.com/mandelsoft/admin/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/admin/cmds/adminctl/app"
	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/fakeapi"
)

const TOKEN = "token"

var _ = Describe("adminctl", func() {
	var api *fakeapi.API
	var srv *httptest.Server
	var fs vfs.FileSystem
	var out, errout *bytes.Buffer

	run := func(args ...string) error {
		cmd := app.New(fs)
		cmd.SetOut(out)
		cmd.SetErr(errout)
		cmd.SetIn(strings.NewReader(""))
		cmd.SetArgs(append([]string{"-s", srv.URL, "-t", TOKEN}, args...))
		return cmd.Execute()
	}

	BeforeEach(func() {
		api = fakeapi.New(fakeapi.NewStore(), TOKEN)
		srv = httptest.NewServer(api)
		fs = Must(TestFileSystem(nil))
		out = bytes.NewBuffer(nil)
		errout = bytes.NewBuffer(nil)

		api.Store().Create(admin.KIND_PLANS, fakeapi.Record{"name": "Gold", "amount": 900, "interval": "month", "trial_days": 7, "active": true})
		api.Store().Create(admin.KIND_PLANS, fakeapi.Record{"name": "Silver", "amount": 500, "interval": "year", "trial_days": 0, "active": false})
	})

	AfterEach(func() {
		api.Hub().Close()
		srv.Close()
	})

	Context("get", func() {
		It("lists kinds", func() {
			MustBeSuccessful(run("get"))
			Expect(out.String()).To(HavePrefix("KIND       ALIASES"))
			Expect(out.String()).To(ContainSubstring("plans      plan,subscription_plans   /payment/plans/all/\n"))
		})

		It("prints a table", func() {
			MustBeSuccessful(run("get", "plans"))
			Expect("\n" + out.String()).To(Equal(`
ID NAME   AMOUNT INTERVAL TRIAL STATUS
1  Gold   900    month    7     active
2  Silver 500    year     0     inactive
`))
		})

		It("filters", func() {
			MustBeSuccessful(run("get", "plan", "--status", "inactive"))
			Expect(out.String()).To(ContainSubstring("Silver"))
			Expect(out.String()).NotTo(ContainSubstring("Gold"))

			out.Reset()
			MustBeSuccessful(run("get", "plan", "-q", "GOL"))
			Expect(out.String()).To(ContainSubstring("Gold"))
			Expect(out.String()).NotTo(ContainSubstring("Silver"))

			out.Reset()
			MustBeSuccessful(run("get", "plan", "-q", "none"))
			Expect(out.String()).To(Equal("no resource found\n"))
		})

		It("sorts", func() {
			MustBeSuccessful(run("get", "plans", "-S", "amount"))
			Expect(strings.Index(out.String(), "Silver")).To(BeNumerically("<", strings.Index(out.String(), "Gold")))
		})

		It("prints yaml", func() {
			MustBeSuccessful(run("get", "plans", "2", "-o", "yaml"))
			Expect(out.String()).To(ContainSubstring("items:\n- active: false\n"))
			Expect(out.String()).To(ContainSubstring("  name: Silver\n"))
		})

		It("reports partially failed gets", func() {
			err := run("get", "plans", "1", "7")
			Expect(err).To(MatchError("get failed for some resources"))
			Expect(out.String()).To(ContainSubstring("Gold"))
			Expect(errout.String()).To(Equal("plans/7: Not found.\n"))
		})

		It("reports unknown kinds", func() {
			Expect(run("get", "orders")).To(MatchError(admin.ErrUnknownKind))
		})

		It("reports failed lists", func() {
			api.Fail("/payment/plans/all/", 403, `{"detail":"nope"}`)
			Expect(run("get", "plans")).To(MatchError(apierror.MSG_FORBIDDEN))
		})

		It("reports unauthorized access", func() {
			cmd := app.New(fs)
			cmd.SetOut(out)
			cmd.SetArgs([]string{"-s", srv.URL, "-t", "wrong", "get", "plans"})
			err := cmd.Execute()
			Expect(apierror.Message(err)).To(Equal(apierror.MSG_UNAUTHORIZED))
		})
	})

	Context("apply", func() {
		It("creates, keeps and updates", func() {
			MustBeSuccessful(vfs.WriteFile(fs, "/plan.yaml", []byte(`
kind: plans
name: Bronze
amount: 2.5
`), 0o600))
			MustBeSuccessful(run("apply", "-f", "/plan.yaml"))
			Expect(out.String()).To(Equal("plans/3: created\n"))
			Expect(Must(api.Store().Get(admin.KIND_PLANS, 3))["amount"]).To(Equal(float64(250)))

			MustBeSuccessful(vfs.WriteFile(fs, "/plan.yaml", []byte(`
kind: plans
id: 3
name: Bronze
amount: 2.5
`), 0o600))
			out.Reset()
			MustBeSuccessful(run("apply", "-f", "/plan.yaml"))
			Expect(out.String()).To(Equal("plans/3: unchanged\n"))

			MustBeSuccessful(vfs.WriteFile(fs, "/plan.yaml", []byte(`
kind: plans
id: 3
name: Bronze
amount: 3
`), 0o600))
			out.Reset()
			MustBeSuccessful(run("apply", "-f", "/plan.yaml"))
			Expect(out.String()).To(Equal("plans/3: updated\n"))
			Expect(Must(api.Store().Get(admin.KIND_PLANS, 3))["amount"]).To(Equal(float64(300)))
		})

		It("handles lists and continues after failures", func() {
			MustBeSuccessful(vfs.WriteFile(fs, "/list.yaml", []byte(`
items:
- kind: category
  name: Skincare
- kind: category
  description: no name
- kind: orders
- kind: style
  name: Scalping
`), 0o600))
			err := run("apply", "-f", "/list.yaml")
			Expect(err).To(MatchError(app.ErrSomeFailed))
			Expect(out.String()).To(Equal("categories/1: created\nstyles/1: created\n"))
			Expect(errout.String()).To(ContainSubstring(`invalid categories for resource 2 in "/list.yaml": name: This field is required.`))
			Expect(errout.String()).To(ContainSubstring(`invalid manifest for resource 3 in "/list.yaml": unknown kind "orders"`))
		})

		It("validates manifests locally", func() {
			MustBeSuccessful(vfs.WriteFile(fs, "/user.yaml", []byte(`
kind: users
email: ""
`), 0o600))
			Expect(run("apply", "-f", "/user.yaml")).To(MatchError(app.ErrSomeFailed))
			Expect(errout.String()).To(Equal(`invalid users for "/user.yaml": email: This field is required.` + "\n"))
		})

		It("reports missing files", func() {
			Expect(run("apply", "-f", "/missing.yaml")).To(MatchError(app.ErrSomeFailed))
			Expect(errout.String()).To(HavePrefix(`cannot read file "/missing.yaml"`))
		})
	})

	Context("delete", func() {
		It("deletes records", func() {
			err := run("delete", "plans", "1", "9")
			Expect(err).To(MatchError("deletion failed for some resources"))
			Expect(out.String()).To(Equal("plans/1: deleted\n"))
			Expect(errout.String()).To(Equal("plans/9: Not found.\n"))
			Expect(api.Store().List(admin.KIND_PLANS)).To(HaveLen(1))
		})

		It("deletes all records", func() {
			MustBeSuccessful(run("delete", "plans", "--all"))
			Expect(api.Store().List(admin.KIND_PLANS)).To(BeEmpty())
		})

		It("requires records", func() {
			MustFailWithMessage(run("delete", "plans"), "no record specified")
		})
	})

	Context("fixed endpoints", func() {
		It("shows the dashboard", func() {
			MustBeSuccessful(run("dashboard"))
			Expect(out.String()).To(ContainSubstring("Subscription plans    2\n"))
			Expect(out.String()).To(ContainSubstring("no recent users\n"))
		})

		It("shows the profile", func() {
			MustBeSuccessful(run("profile", "-o", "json"))
			Expect(out.String()).To(MatchJSON(`{"id":1,"full_name":"Admin User","email":"admin@example.com"}`))
		})

		It("updates credentials", func() {
			MustBeSuccessful(run("credentials", "-k", "key", "-x", "secret"))
			Expect(out.String()).To(Equal("credentials updated\n"))
			Expect(api.Credentials().GetString("secret_key")).To(Equal("secret"))
		})

		It("validates credentials locally", func() {
			MustFailWithMessage(run("credentials", "-k", "key"), "secret_key: This field is required.")
			Expect(api.Credentials()).To(BeNil())
		})
	})

	It("rejects invalid output formats", func() {
		Expect(run("get", "plans", "-o", "xml")).To(MatchError(`invalid output format "xml" (use json or yaml)`))
	})
})
