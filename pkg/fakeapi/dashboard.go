package fakeapi

import (
	"errors"
	"net/http"
	"slices"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/forms"
	"github.com/mandelsoft/admin/pkg/utils"
)

// RECENT is the number of recent entries shown on the dashboard.
const RECENT = 5

func (a *API) dashboard() *admin.Summary {
	users := a.store.List(admin.KIND_USERS)
	subs := a.store.List(KIND_SUBSCRIPTIONS)

	s := &admin.Summary{
		TotalUsers:             int64(len(users)),
		TotalSubscriptions:     int64(len(subs)),
		TotalSubscriptionPlans: int64(len(a.store.List(admin.KIND_PLANS))),
		RecentUsers:            []admin.RecentUser{},
		RecentSubscriptions:    []admin.Subscription{},
	}
	for _, u := range users {
		if u.GetBool("is_active") {
			s.TotalActiveUsers++
		}
	}
	for _, r := range subs {
		switch r.GetString("status") {
		case "active":
			s.TotalActiveSubscriptions++
		case "pending":
			s.TotalPendingSubscriptions++
		case "trialing":
			s.TotalTrialSubscriptions++
		}
	}

	// most recent first, records are ordered by id
	slices.Reverse(users)
	slices.Reverse(subs)
	for _, u := range users[:min(RECENT, len(users))] {
		s.RecentUsers = append(s.RecentUsers, admin.RecentUser{
			Id:          u.GetInt("id"),
			FullName:    u.GetString("full_name"),
			Email:       u.GetString("email"),
			PhoneNumber: u.GetString("phone_number"),
			IsActive:    u.GetBool("is_active"),
		})
	}
	for _, r := range subs[:min(RECENT, len(subs))] {
		ts, _ := utils.ParseTimestamp(r.GetString("created_at"))
		s.RecentSubscriptions = append(s.RecentSubscriptions, admin.Subscription{
			Id:        r.GetInt("id"),
			User:      r.GetString("user"),
			Plan:      r.GetString("plan"),
			Status:    r.GetString("status"),
			AutoRenew: r.GetBool("auto_renew"),
			CreatedAt: ts,
		})
	}
	return s
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.lock.Lock()
		p := a.profile.Copy()
		a.lock.Unlock()
		a.respond(w, http.StatusOK, p)
	case http.MethodPatch, http.MethodPut:
		fields, fail := readFields(r)
		if fail != nil {
			a.respond(w, http.StatusBadRequest, fail)
			return
		}
		a.lock.Lock()
		for k, v := range fields {
			if k != "id" {
				a.profile[k] = v
			}
		}
		p := a.profile.Copy()
		a.lock.Unlock()
		a.respond(w, http.StatusOK, p)
	default:
		a.only(w, r, http.MethodGet, nil)
	}
}

func (a *API) updateCredentials(r *http.Request) (int, any) {
	fields, fail := readFields(r)
	if fail != nil {
		return http.StatusBadRequest, fail
	}
	c := &forms.Credentials{}
	err := forms.Fill(c, fields)
	if err == nil {
		err = forms.Validate(c)
	}
	if err != nil {
		var ferrs apierror.FieldErrors
		if errors.As(err, &ferrs) {
			return http.StatusBadRequest, ferrs.Fields()
		}
		return http.StatusBadRequest, detail(err.Error())
	}
	a.lock.Lock()
	a.credentials = Record(c.Body())
	a.lock.Unlock()
	return http.StatusOK, map[string]any{"message": "Credentials updated successfully."}
}
