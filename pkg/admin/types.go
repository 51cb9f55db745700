package admin

import (
	"github.com/mandelsoft/admin/pkg/utils"
)

// Summary is the aggregate delivered by the dashboard endpoint.
type Summary struct {
	TotalUsers                int64          `json:"total_users"`
	TotalActiveUsers          int64          `json:"total_active_users"`
	RecentUsers               []RecentUser   `json:"recent_users"`
	TotalSubscriptions        int64          `json:"total_subscriptions"`
	TotalPendingSubscriptions int64          `json:"total_pending_subscriptions"`
	TotalTrialSubscriptions   int64          `json:"total_trial_subscriptions"`
	TotalActiveSubscriptions  int64          `json:"total_active_subscriptions"`
	TotalSubscriptionPlans    int64          `json:"total_subscription_plans"`
	RecentSubscriptions       []Subscription `json:"recent_subscriptions_data"`
}

type RecentUser struct {
	Id          int64  `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	IsActive    bool   `json:"is_active"`
}

// DisplayName falls back to N/A like the dashboard does.
func (u *RecentUser) DisplayName() string {
	if u.FullName == "" {
		return "N/A"
	}
	return u.FullName
}

type Subscription struct {
	Id        int64           `json:"id"`
	User      string          `json:"user"`
	Plan      string          `json:"plan"`
	Status    string          `json:"status"`
	AutoRenew bool            `json:"auto_renew"`
	CreatedAt utils.Timestamp `json:"created_at"`
}

// Profile is the account of the logged-in administrator.
type Profile struct {
	Id          int64  `json:"id,omitempty"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Company     string `json:"company,omitempty"`
	Bio         string `json:"bio,omitempty"`
}
