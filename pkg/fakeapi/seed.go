package fakeapi

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/goombaio/namegenerator"

	"github.com/mandelsoft/admin/pkg/admin"
)

var subscriptionStates = []string{"active", "trialing", "pending", "canceled"}

// Seed fills the store with n random records per kind.
// The same seed provides the same data.
func (s *Store) Seed(n int, seed int64) {
	gen := namegenerator.NewNameGenerator(seed)
	rnd := rand.New(rand.NewSource(seed))

	title := func() string {
		parts := strings.Split(gen.Generate(), "-")
		for i, p := range parts {
			if p != "" {
				parts[i] = strings.ToUpper(p[:1]) + p[1:]
			}
		}
		return strings.Join(parts, " ")
	}

	for i := 0; i < n; i++ {
		name := gen.Generate()
		s.Create(admin.KIND_USERS, Record{
			"full_name":    title(),
			"email":        name + "@example.com",
			"phone_number": fmt.Sprintf("+1 555 %04d", rnd.Intn(10000)),
			"is_active":    rnd.Intn(4) != 0,
		})
		s.Create(admin.KIND_PLANS, Record{
			"name":           title(),
			"amount":         (rnd.Intn(50) + 1) * 100,
			"interval":       []string{"month", "year"}[rnd.Intn(2)],
			"interval_count": 1,
			"description":    "Plan " + gen.Generate(),
			"trial_days":     rnd.Intn(3) * 7,
			"active":         rnd.Intn(3) != 0,
		})
		s.Create(admin.KIND_PRODUCTS, Record{
			"name":            title(),
			"description":     "Product " + gen.Generate(),
			"category":        []string{"Skincare", "Makeup", "Haircare"}[rnd.Intn(3)],
			"price":           fmt.Sprintf("%d.%02d", rnd.Intn(100), rnd.Intn(100)),
			"discount_price":  nil,
			"type_of_product": "Skin",
			"is_active":       rnd.Intn(2) == 0,
		})
		s.Create(admin.KIND_STYLES, Record{
			"name":        title(),
			"description": "Style " + gen.Generate(),
		})
		s.Create(admin.KIND_STRATEGIES, Record{
			"name":        title(),
			"description": "Strategy " + gen.Generate(),
		})
		s.Create(admin.KIND_CATEGORIES, Record{
			"name":        title(),
			"description": "Category " + gen.Generate(),
			"is_active":   rnd.Intn(4) != 0,
		})
		s.Create(KIND_SUBSCRIPTIONS, Record{
			"user":       name + "@example.com",
			"plan":       title(),
			"status":     subscriptionStates[rnd.Intn(len(subscriptionStates))],
			"auto_renew": rnd.Intn(2) == 0,
		})
	}
}
