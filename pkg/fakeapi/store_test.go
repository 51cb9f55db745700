package fakeapi_test

import (
	. "github.com/mandelsoft/admin/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/fakeapi"
)

var _ = Describe("store", func() {
	var store *fakeapi.Store

	BeforeEach(func() {
		store = fakeapi.NewStore()
	})

	It("assigns ids", func() {
		a := store.Create(admin.KIND_PLANS, fakeapi.Record{"name": "Gold"})
		b := store.Create(admin.KIND_PLANS, fakeapi.Record{"name": "Silver"})
		Expect(a.GetId()).To(Equal("1"))
		Expect(b.GetId()).To(Equal("2"))
		Expect(a["created_at"]).NotTo(BeEmpty())

		list := store.List(admin.KIND_PLANS)
		Expect(list).To(HaveLen(2))
		Expect(list[1].GetString("name")).To(Equal("Silver"))
	})

	It("hands out copies", func() {
		store.Create(admin.KIND_PLANS, fakeapi.Record{"name": "Gold"})
		r := Must(store.Get(admin.KIND_PLANS, 1))
		r["name"] = "changed"
		Expect(Must(store.Get(admin.KIND_PLANS, 1)).GetString("name")).To(Equal("Gold"))
	})

	It("merges updates", func() {
		c := store.Create(admin.KIND_STYLES, fakeapi.Record{"name": "Scalp", "description": "fast"})
		r := Must(store.Update(admin.KIND_STYLES, 1, fakeapi.Record{"description": "slow", "id": 7.0, "created_at": "x"}))
		Expect(r.GetString("name")).To(Equal("Scalp"))
		Expect(r.GetString("description")).To(Equal("slow"))
		Expect(r.GetId()).To(Equal("1"))
		Expect(r["created_at"]).To(Equal(c["created_at"]))
	})

	It("reports unknown records", func() {
		_, err := store.Get(admin.KIND_USERS, 3)
		Expect(err).To(MatchError(fakeapi.ErrNotFound))
		_, err = store.Update(admin.KIND_USERS, 3, fakeapi.Record{})
		Expect(err).To(MatchError(fakeapi.ErrNotFound))
		Expect(store.Delete(admin.KIND_USERS, 3)).To(MatchError(fakeapi.ErrNotFound))
	})

	It("parses ids", func() {
		Expect(Must(fakeapi.ParseId("12"))).To(Equal(int64(12)))
		_, err := fakeapi.ParseId("list")
		Expect(err).To(HaveOccurred())
		_, err = fakeapi.ParseId("0")
		Expect(err).To(HaveOccurred())
	})

	It("seeds reproducibly", func() {
		store.Seed(3, 42)
		other := fakeapi.NewStore()
		other.Seed(3, 42)
		for _, k := range admin.KindNames() {
			Expect(store.List(k)).To(HaveLen(3))
			Expect(names(store.List(k))).To(Equal(names(other.List(k))))
		}
		Expect(store.List(fakeapi.KIND_SUBSCRIPTIONS)).To(HaveLen(3))
	})

	Context("persistence", func() {
		var fs vfs.FileSystem

		BeforeEach(func() {
			fs = memoryfs.New()
		})

		It("saves and loads", func() {
			store.Create(admin.KIND_PLANS, fakeapi.Record{"name": "Gold", "amount": 900})
			store.Create(admin.KIND_PLANS, fakeapi.Record{"name": "Silver"})
			MustBeSuccessful(store.Delete(admin.KIND_PLANS, 1))
			MustBeSuccessful(store.Save(fs, "/data"))
			Expect(vfs.FileExists(fs, "/data/plans.yaml")).To(BeTrue())

			loaded := fakeapi.NewStore()
			MustBeSuccessful(loaded.Load(fs, "/data"))
			list := loaded.List(admin.KIND_PLANS)
			Expect(list).To(HaveLen(1))
			Expect(list[0].GetId()).To(Equal("2"))

			r := loaded.Create(admin.KIND_PLANS, fakeapi.Record{"name": "Bronze"})
			Expect(r.GetId()).To(Equal("3"))
		})

		It("accepts a missing directory", func() {
			MustBeSuccessful(store.Load(fs, "/none"))
			Expect(store.Kinds()).To(BeEmpty())
		})

		It("rejects invalid ids", func() {
			MustBeSuccessful(vfs.WriteFile(fs, "/plans.yaml", []byte("- name: x\n"), 0o600))
			Expect(store.Load(fs, "/")).To(MatchError(`plans: invalid id ""`))
		})
	})
})

func names(list []fakeapi.Record) []string {
	var r []string
	for _, e := range list {
		r = append(r, e.GetString("name")+e.GetString("email"))
	}
	return r
}
