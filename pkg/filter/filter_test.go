package filter_test

import (
	"github.com/go-test/deep"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/admin/pkg/filter"
)

var plans = []filter.Record{
	{"id": 1.0, "name": "Gold", "description": "Monthly premium", "active": true},
	{"id": 2.0, "name": "Silver", "description": "Basic access", "active": false},
	{"id": 10.0, "name": "Trial", "description": nil},
}

var _ = Describe("filter", func() {
	Context("search", func() {
		It("matches substrings ignoring case", func() {
			r := filter.Search(plans, "PREM", "name", "description")
			Expect(deep.Equal(r, plans[:1])).To(BeNil())
		})

		It("matches any field", func() {
			Expect(filter.Search(plans, "i", "name")).To(HaveLen(2))
		})

		It("keeps everything for an empty term", func() {
			Expect(filter.Search(plans, "  ", "name")).To(Equal(plans))
		})

		It("ignores missing fields", func() {
			Expect(filter.Search(plans, "access", "category")).To(BeEmpty())
		})
	})

	Context("status", func() {
		It("filters active", func() {
			Expect(filter.Status(plans, "active", filter.STATUS_ACTIVE)).To(Equal(plans[:1]))
		})

		It("filters inactive", func() {
			Expect(filter.Status(plans, "active", filter.STATUS_INACTIVE)).To(Equal(plans[1:]))
		})

		It("provides empty lists without matches", func() {
			r := filter.Status([]filter.Record{{"is_active": false}}, "is_active", filter.STATUS_ACTIVE)
			Expect(r).NotTo(BeNil())
			Expect(r).To(BeEmpty())
			Expect(filter.Query{StatusField: "active", Status: filter.STATUS_ACTIVE}.Apply(plans[1:])).To(Equal([]filter.Record{}))
		})

		It("parses modes", func() {
			Expect(filter.ParseStatusMode("")).To(Equal(filter.STATUS_ALL))
			Expect(filter.ParseStatusMode("Active")).To(Equal(filter.STATUS_ACTIVE))
			_, err := filter.ParseStatusMode("pending")
			Expect(err).To(HaveOccurred())
		})

		It("counts", func() {
			Expect(filter.Count(plans, "active")).To(Equal(1))
		})
	})

	It("sorts numerically", func() {
		r := filter.Sort([]filter.Record{plans[2], plans[1], plans[0]}, "id")
		Expect(r).To(Equal(plans))
	})

	It("sorts numbers before other values", func() {
		list := []filter.Record{
			{"id": "b"}, {"id": 10.0}, {"id": "a"}, {"id": 2.0}, {"id": nil},
		}
		r := filter.Sort(list, "id")
		Expect(r).To(Equal([]filter.Record{
			{"id": 2.0}, {"id": 10.0}, {"id": nil}, {"id": "a"}, {"id": "b"},
		}))
	})

	It("combines queries", func() {
		q := filter.Query{Term: "s", Fields: []string{"name", "description"}, StatusField: "active", Status: filter.STATUS_INACTIVE}
		Expect(q.Apply(plans)).To(Equal(plans[1:2]))
	})
})
