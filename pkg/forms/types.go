package forms

import (
	"math"
)

type User struct {
	FullName    string `json:"full_name" validate:"max=150"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
	IsActive    bool   `json:"is_active"`
}

func (u *User) Body() map[string]any {
	return map[string]any{
		"full_name":    u.FullName,
		"email":        u.Email,
		"phone_number": u.PhoneNumber,
		"is_active":    u.IsActive,
	}
}

// Plan is a subscription plan. The amount is given in currency
// units and sent in cents.
type Plan struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Amount        float64 `json:"amount" validate:"min=0"`
	Interval      string  `json:"interval" validate:"oneof=day week month year"`
	IntervalCount int     `json:"interval_count" validate:"min=1"`
	Description   string  `json:"description"`
	TrialDays     int     `json:"trial_days" validate:"min=0"`
	Active        bool    `json:"active"`
}

func NewPlan() *Plan {
	return &Plan{
		Interval:      "month",
		IntervalCount: 1,
		Active:        true,
	}
}

func (p *Plan) Cents() int64 {
	return int64(math.Round(p.Amount * 100))
}

func (p *Plan) Body() map[string]any {
	return map[string]any{
		"name":           p.Name,
		"amount":         p.Cents(),
		"interval":       p.Interval,
		"interval_count": p.IntervalCount,
		"description":    p.Description,
		"trial_days":     p.TrialDays,
		"active":         p.Active,
	}
}

type Product struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         string  `json:"price" validate:"omitempty,numeric"`
	DiscountPrice *string `json:"discount_price" validate:"omitempty,numeric"`
	TypeOfProduct string  `json:"type_of_product"`
	IsActive      bool    `json:"is_active"`
}

func (p *Product) Body() map[string]any {
	m := map[string]any{
		"name":            p.Name,
		"description":     p.Description,
		"category":        p.Category,
		"type_of_product": p.TypeOfProduct,
		"is_active":       p.IsActive,
	}
	if p.Price != "" {
		m["price"] = p.Price
	}
	if p.DiscountPrice != nil {
		m["discount_price"] = *p.DiscountPrice
	}
	return m
}

// Style is used for trade styles and trade strategies.
type Style struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

func (s *Style) Body() map[string]any {
	return map[string]any{
		"name":        s.Name,
		"description": s.Description,
	}
}

type Category struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (c *Category) Body() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"is_active":   c.IsActive,
	}
}

// Credentials are the api credentials for external integrations.
type Credentials struct {
	ApiKey     string `json:"api_key" validate:"required"`
	SecretKey  string `json:"secret_key" validate:"required"`
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`
}

func (c *Credentials) Body() map[string]any {
	return map[string]any{
		"api_key":     c.ApiKey,
		"secret_key":  c.SecretKey,
		"webhook_url": c.WebhookURL,
	}
}
