// Package fakeapi implements the admin REST API in memory.
// It imitates the observable behaviour of the real backend:
// bearer authentication, varying list envelopes and field
// validation errors.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/mandelsoft/admin/pkg/admin"
	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/watch"
)

const PATH_WATCH = "/watch"

const (
	MSG_NO_CREDENTIALS = "Authentication credentials were not provided."
	MSG_INVALID_TOKEN  = "Given token not valid for any token type"
	MSG_NOT_FOUND      = "Not found."
	MSG_REQUIRED       = "This field is required."
)

// ENVELOPE_BARE delivers lists as plain json arrays. Any other
// envelope is the name of the field wrapping the list.
const ENVELOPE_BARE = ""

// DefaultEnvelopes mirrors the mixture of list shapes of the
// real backend.
var DefaultEnvelopes = map[string]string{
	admin.KIND_USERS:      ENVELOPE_BARE,
	admin.KIND_PLANS:      ENVELOPE_BARE,
	admin.KIND_PRODUCTS:   "results",
	admin.KIND_STYLES:     "data",
	admin.KIND_STRATEGIES: "strategies",
	admin.KIND_CATEGORIES: "results",
}

// required names the mandatory field per kind.
var required = map[string]string{
	admin.KIND_USERS: "email",
}

type failure struct {
	status int
	body   []byte
}

// API is the http handler of the fake backend.
type API struct {
	store     *Store
	token     string
	envelopes map[string]string
	hub       *watch.Hub

	lock        sync.Mutex
	profile     Record
	credentials Record
	failures    map[string]failure
}

var _ http.Handler = (*API)(nil)

// New creates the api. An empty token disables authentication.
func New(store *Store, token string) *API {
	envs := map[string]string{}
	for k, v := range DefaultEnvelopes {
		envs[k] = v
	}
	return &API{
		store:     store,
		token:     token,
		envelopes: envs,
		hub:       watch.NewHub(),
		profile: Record{
			"id":        1,
			"full_name": "Admin User",
			"email":     "admin@example.com",
		},
		failures: map[string]failure{},
	}
}

func (a *API) Store() *Store {
	return a.store
}

func (a *API) Hub() *watch.Hub {
	return a.hub
}

// SetEnvelope sets the list envelope used for a kind.
func (a *API) SetEnvelope(kind, env string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.envelopes[kind] = env
}

// Fail forces the given response for a path until Recover is called.
func (a *API) Fail(path string, status int, body string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.failures[path] = failure{status, []byte(body)}
}

func (a *API) Recover(path string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	delete(a.failures, path)
}

// Credentials provides the last stored api credentials.
func (a *API) Credentials() Record {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.credentials == nil {
		return nil
	}
	return a.credentials.Copy()
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if !strings.HasSuffix(path, "/") && path != PATH_WATCH {
		path += "/"
	}

	if path == PATH_WATCH {
		if !a.authorized(w, r) {
			return
		}
		a.hub.ServeHTTP(w, r)
		return
	}

	a.lock.Lock()
	f, failed := a.failures[path]
	a.lock.Unlock()
	if failed {
		log.Debug("forced failure for {{path}}", "path", path, "status", f.status)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		w.Write(f.body)
		return
	}

	if !a.authorized(w, r) {
		return
	}

	switch path {
	case admin.PATH_DASHBOARD:
		a.only(w, r, http.MethodGet, func() (int, any) { return http.StatusOK, a.dashboard() })
		return
	case admin.PATH_PROFILE:
		a.handleProfile(w, r)
		return
	case admin.PATH_CREDENTIALS:
		a.only(w, r, http.MethodPost, func() (int, any) { return a.updateCredentials(r) })
		return
	}

	for _, k := range admin.Kinds() {
		if path != k.ListPath && path != k.CreatePath {
			continue
		}
		switch {
		case r.Method == http.MethodGet && path == k.ListPath:
			a.respond(w, http.StatusOK, a.list(k))
		case r.Method == http.MethodPost && path == k.CreatePath:
			status, body := a.create(k, r)
			a.respond(w, status, body)
		default:
			a.only(w, r, http.MethodGet, nil)
		}
		return
	}
	for _, k := range admin.Kinds() {
		prefix := strings.TrimSuffix(k.ItemPath, "%s/")
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimSuffix(path[len(prefix):], "/")
		if strings.Contains(rest, "/") {
			continue
		}
		id, err := ParseId(rest)
		if err != nil {
			continue
		}
		a.handleItem(w, r, k, id)
		return
	}
	a.respond(w, http.StatusNotFound, detail(MSG_NOT_FOUND))
}

func (a *API) authorized(w http.ResponseWriter, r *http.Request) bool {
	if a.token == "" {
		return true
	}
	h := r.Header.Get("Authorization")
	if h == "" {
		a.respond(w, http.StatusUnauthorized, detail(MSG_NO_CREDENTIALS))
		return false
	}
	if h != "Bearer "+a.token {
		a.respond(w, http.StatusUnauthorized, apierror.Fields{
			{Name: "detail", Value: MSG_INVALID_TOKEN},
			{Name: "code", Value: "token_not_valid"},
		})
		return false
	}
	return true
}

func (a *API) only(w http.ResponseWriter, r *http.Request, method string, f func() (int, any)) {
	if r.Method != method || f == nil {
		w.Header().Set("Allow", method)
		a.respond(w, http.StatusMethodNotAllowed, detail(fmt.Sprintf("Method %q not allowed.", r.Method)))
		return
	}
	status, body := f()
	a.respond(w, status, body)
}

func (a *API) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	if body == nil {
		w.WriteHeader(status)
		return
	}
	data, err := json.Marshal(body)
	if err != nil {
		log.LogError(err, "cannot marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	w.Write(data)
}

func detail(msg string) apierror.Fields {
	return apierror.Fields{{Name: "detail", Value: msg}}
}

func (a *API) list(k *admin.Kind) any {
	list := a.store.List(k.Name)
	a.lock.Lock()
	env := a.envelopes[k.Name]
	a.lock.Unlock()

	switch env {
	case ENVELOPE_BARE:
		return list
	case "results":
		return apierror.Fields{
			{Name: "count", Value: len(list)},
			{Name: "next", Value: nil},
			{Name: "previous", Value: nil},
			{Name: "results", Value: list},
		}
	default:
		return map[string]any{env: list}
	}
}

func (a *API) handleItem(w http.ResponseWriter, r *http.Request, k *admin.Kind, id int64) {
	switch r.Method {
	case http.MethodGet:
		rec, err := a.store.Get(k.Name, id)
		if err != nil {
			a.respond(w, http.StatusNotFound, detail(MSG_NOT_FOUND))
			return
		}
		a.respond(w, http.StatusOK, rec)
	case http.MethodPatch, http.MethodPut:
		fields, fail := readFields(r)
		if fail != nil {
			a.respond(w, http.StatusBadRequest, fail)
			return
		}
		if errs := validate(k, fields, r.Method == http.MethodPut); errs != nil {
			a.respond(w, http.StatusBadRequest, errs)
			return
		}
		rec, err := a.store.Update(k.Name, id, fields)
		if err != nil {
			a.respond(w, http.StatusNotFound, detail(MSG_NOT_FOUND))
			return
		}
		a.hub.Trigger(watch.Event{Kind: k.Name, Id: rec.GetId(), Op: watch.OP_UPDATED})
		a.respond(w, http.StatusOK, rec)
	case http.MethodDelete:
		if err := a.store.Delete(k.Name, id); err != nil {
			a.respond(w, http.StatusNotFound, detail(MSG_NOT_FOUND))
			return
		}
		a.hub.Trigger(watch.Event{Kind: k.Name, Id: fmt.Sprint(id), Op: watch.OP_DELETED})
		a.respond(w, http.StatusNoContent, nil)
	default:
		w.Header().Set("Allow", "GET, PATCH, PUT, DELETE")
		a.respond(w, http.StatusMethodNotAllowed, detail(fmt.Sprintf("Method %q not allowed.", r.Method)))
	}
}

func (a *API) create(k *admin.Kind, r *http.Request) (int, any) {
	fields, fail := readFields(r)
	if fail != nil {
		return http.StatusBadRequest, fail
	}
	if errs := validate(k, fields, true); errs != nil {
		return http.StatusBadRequest, errs
	}
	rec := a.store.Create(k.Name, fields)
	a.hub.Trigger(watch.Event{Kind: k.Name, Id: rec.GetId(), Op: watch.OP_CREATED})
	return http.StatusCreated, rec
}

func readFields(r *http.Request) (Record, any) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, detail(err.Error())
	}
	var fields Record
	err = json.Unmarshal(data, &fields)
	if err != nil || fields == nil {
		var serr *json.SyntaxError
		if errors.As(err, &serr) {
			return nil, detail(fmt.Sprintf("JSON parse error - %s", serr.Error()))
		}
		return nil, apierror.Fields{{Name: "non_field_errors", Value: []string{"Invalid data. Expected a dictionary."}}}
	}
	return fields, nil
}

// validate checks the mandatory field. For partial updates only
// present fields are checked.
func validate(k *admin.Kind, fields Record, complete bool) apierror.Fields {
	name := required[k.Name]
	if name == "" {
		name = "name"
	}
	v, ok := fields[name]
	if !ok && !complete {
		return nil
	}
	if s, isString := v.(string); !ok || !isString || strings.TrimSpace(s) == "" {
		msg := MSG_REQUIRED
		if ok && !isString {
			msg = "Not a valid string."
		} else if ok {
			msg = "This field may not be blank."
		}
		return apierror.Fields{{Name: name, Value: []string{msg}}}
	}
	return nil
}
