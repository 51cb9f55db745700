package admin

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	KIND_USERS      = "users"
	KIND_PLANS      = "plans"
	KIND_PRODUCTS   = "products"
	KIND_STYLES     = "styles"
	KIND_STRATEGIES = "strategies"
	KIND_CATEGORIES = "categories"
)

const (
	PATH_DASHBOARD   = "/auth/dashboard/"
	PATH_PROFILE     = "/auth/user/"
	PATH_CREDENTIALS = "/auth/update-credentials/"
)

var ErrUnknownKind = fmt.Errorf("unknown kind")

// Column describes a table column for a record field.
type Column struct {
	Title string
	Field string
}

// Kind describes the endpoints and the presentation of
// one entity type of the admin API.
type Kind struct {
	Name    string
	Aliases []string

	ListPath   string
	CreatePath string
	// ItemPath is a format string taking the record id.
	ItemPath string
	// Envelope keys tried after the standard ones.
	Envelope []string

	SearchFields []string
	StatusField  string
	Columns      []Column
	// Fields relevant for update comparison.
	Fields []string
}

func (k *Kind) Item(id string) string {
	return fmt.Sprintf(k.ItemPath, url.PathEscape(id))
}

func (k *Kind) HasStatus() bool {
	return k.StatusField != ""
}

var kinds = []*Kind{
	{
		Name:         KIND_USERS,
		Aliases:      []string{"user", "u"},
		ListPath:     "/auth/user/list/",
		CreatePath:   "/auth/user/list/",
		ItemPath:     "/auth/user/%s/",
		Envelope:     []string{"users"},
		SearchFields: []string{"full_name", "email"},
		StatusField:  "is_active",
		Columns: []Column{
			{"ID", "id"}, {"NAME", "full_name"}, {"EMAIL", "email"}, {"PHONE", "phone_number"},
		},
		Fields: []string{"full_name", "email", "phone_number", "is_active"},
	},
	{
		Name:         KIND_PLANS,
		Aliases:      []string{"plan", "subscription_plans"},
		ListPath:     "/payment/plans/all/",
		CreatePath:   "/payment/plans/",
		ItemPath:     "/payment/plans/%s/",
		SearchFields: []string{"name", "description"},
		StatusField:  "active",
		Columns: []Column{
			{"ID", "id"}, {"NAME", "name"}, {"AMOUNT", "amount"}, {"INTERVAL", "interval"}, {"TRIAL", "trial_days"},
		},
		Fields: []string{"name", "amount", "interval", "interval_count", "description", "trial_days", "active"},
	},
	{
		Name:         KIND_PRODUCTS,
		Aliases:      []string{"product"},
		ListPath:     "/shop/products/list/",
		CreatePath:   "/shop/products/",
		ItemPath:     "/shop/products/%s/",
		SearchFields: []string{"name", "description", "category"},
		StatusField:  "is_active",
		Columns: []Column{
			{"ID", "id"}, {"NAME", "name"}, {"CATEGORY", "category"}, {"PRICE", "price"}, {"TYPE", "type_of_product"},
		},
		Fields: []string{"name", "description", "category", "price", "discount_price", "type_of_product", "is_active"},
	},
	{
		Name:         KIND_STYLES,
		Aliases:      []string{"style", "trade-styles"},
		ListPath:     "/ai/trade/styles/",
		CreatePath:   "/ai/trade/styles/",
		ItemPath:     "/ai/trade/styles/%s/",
		Envelope:     []string{"styles"},
		SearchFields: []string{"name", "description"},
		Columns: []Column{
			{"ID", "id"}, {"NAME", "name"}, {"DESCRIPTION", "description"},
		},
		Fields: []string{"name", "description"},
	},
	{
		Name:         KIND_STRATEGIES,
		Aliases:      []string{"strategy", "trade-strategies"},
		ListPath:     "/ai/trade/strategies/",
		CreatePath:   "/ai/trade/strategies/",
		ItemPath:     "/ai/trade/strategies/%s/",
		Envelope:     []string{"strategies"},
		SearchFields: []string{"name", "description"},
		Columns: []Column{
			{"ID", "id"}, {"NAME", "name"}, {"DESCRIPTION", "description"},
		},
		Fields: []string{"name", "description"},
	},
	{
		Name:         KIND_CATEGORIES,
		Aliases:      []string{"category", "cat"},
		ListPath:     "/shop/categories/",
		CreatePath:   "/shop/categories/",
		ItemPath:     "/shop/categories/%s/",
		SearchFields: []string{"name", "description"},
		StatusField:  "is_active",
		Columns: []Column{
			{"ID", "id"}, {"NAME", "name"}, {"DESCRIPTION", "description"},
		},
		Fields: []string{"name", "description", "is_active"},
	},
}

// Kinds lists all known kinds in catalog order.
func Kinds() []*Kind {
	return slices.Clone(kinds)
}

func KindNames() []string {
	names := sets.New[string]()
	for _, k := range kinds {
		names.Insert(k.Name)
	}
	return sets.List(names)
}

// LookupKind finds a kind by name or alias, case-insensitive.
func LookupKind(name string) (*Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		if k.Name == n || slices.Contains(k.Aliases, n) {
			return k, nil
		}
	}
	return nil, fmt.Errorf("%w %q (use one of %s)", ErrUnknownKind, name, strings.Join(KindNames(), ", "))
}
