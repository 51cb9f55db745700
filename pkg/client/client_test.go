package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/mandelsoft/admin/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/admin/pkg/apierror"
	"github.com/mandelsoft/admin/pkg/client"
	"github.com/mandelsoft/admin/pkg/envelope"
)

type recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type backend struct {
	lock     sync.Mutex
	requests []recorded
	status   int
	body     string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	b.lock.Lock()
	b.requests = append(b.requests, recorded{r.Method, r.URL.Path, r.Header.Clone(), string(data)})
	status, body := b.status, b.body
	b.lock.Unlock()
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (b *backend) respond(status int, body string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.status, b.body = status, body
}

func (b *backend) last() recorded {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.requests[len(b.requests)-1]
}

type token struct {
	lock  sync.Mutex
	value string
}

func (t *token) Token() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.value
}

var _ = Describe("client", func() {
	var ctx context.Context
	var be *backend
	var srv *httptest.Server

	BeforeEach(func() {
		ctx = context.Background()
		be = &backend{status: 200, body: "[]"}
		srv = httptest.NewServer(be)
	})

	AfterEach(func() {
		srv.Close()
	})

	Context("urls", func() {
		It("normalizes base urls", func() {
			Expect(client.NormalizeURL("api.example.com/")).To(Equal("https://api.example.com"))
			Expect(client.NormalizeURL(" http://localhost:8080// ")).To(Equal("http://localhost:8080"))
			Expect(client.NormalizeURL("https://x")).To(Equal("https://x"))
		})

		It("joins paths", func() {
			c := client.New("http://host/", nil)
			Expect(c.URL("/auth/user/")).To(Equal("http://host/auth/user/"))
			Expect(c.URL("auth/user/")).To(Equal("http://host/auth/user/"))
		})
	})

	It("sends credentials and headers", func() {
		c := client.New(srv.URL, client.BearerToken("abc"))
		MustBeSuccessful(c.Post(ctx, "/payment/plans/", map[string]any{"name": "Gold"}, nil))
		r := be.last()
		Expect(r.Method).To(Equal("POST"))
		Expect(r.Path).To(Equal("/payment/plans/"))
		Expect(r.Header.Get("Authorization")).To(Equal("Bearer abc"))
		Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(r.Header.Get(client.HEADER_REQUEST_ID)).NotTo(BeEmpty())
		Expect(r.Body).To(MatchJSON(`{"name":"Gold"}`))
	})

	It("omits empty credentials", func() {
		c := client.New(srv.URL, client.NoCredentials)
		MustBeSuccessful(c.Get(ctx, "/auth/user/", nil))
		Expect(be.last().Header.Values("Authorization")).To(BeEmpty())
	})

	It("evaluates credentials per request", func() {
		t := &token{value: "first"}
		c := client.New(srv.URL, t)
		MustBeSuccessful(c.Get(ctx, "/auth/user/", nil))
		Expect(be.last().Header.Get("Authorization")).To(Equal("Bearer first"))
		t.lock.Lock()
		t.value = "second"
		t.lock.Unlock()
		MustBeSuccessful(c.Get(ctx, "/auth/user/", nil))
		Expect(be.last().Header.Get("Authorization")).To(Equal("Bearer second"))
	})

	It("uses new request ids", func() {
		c := client.New(srv.URL, nil)
		MustBeSuccessful(c.Delete(ctx, "/shop/categories/1/"))
		first := be.last().Header.Get(client.HEADER_REQUEST_ID)
		MustBeSuccessful(c.Delete(ctx, "/shop/categories/1/"))
		Expect(be.last().Header.Get(client.HEADER_REQUEST_ID)).NotTo(Equal(first))
	})

	Context("lists", func() {
		It("unwraps envelopes", func() {
			c := client.New(srv.URL, nil)
			be.respond(200, `{"count":1,"results":[{"id":1,"name":"Lipstick"}]}`)
			Expect(Must(c.List(ctx, "/shop/products/list/"))).To(Equal([]envelope.Record{{"id": 1.0, "name": "Lipstick"}}))

			be.respond(200, `{"styles":[{"id":2}]}`)
			Expect(Must(c.List(ctx, "/ai/trade/styles/", "styles"))).To(Equal([]envelope.Record{{"id": 2.0}}))
		})

		It("provides empty lists for unknown shapes", func() {
			c := client.New(srv.URL, nil)
			be.respond(200, `{"styles":[{"id":2}]}`)
			Expect(Must(c.List(ctx, "/ai/trade/styles/"))).To(BeEmpty())
			be.respond(200, ``)
			Expect(Must(c.List(ctx, "/ai/trade/styles/"))).To(BeEmpty())
		})
	})

	Context("errors", func() {
		It("normalizes error responses", func() {
			c := client.New(srv.URL, nil)
			be.respond(400, `{"name":["This field is required."],"amount":["A valid integer is required."]}`)
			err := c.Post(ctx, "/payment/plans/", map[string]any{}, nil)
			Expect(err).To(MatchError("name: This field is required.; amount: A valid integer is required."))
			Expect(apierror.StatusOf(err)).To(Equal(400))
		})

		It("uses fixed messages for authorization failures", func() {
			c := client.New(srv.URL, nil)
			be.respond(401, `{"detail":"Authentication credentials were not provided."}`)
			err := c.Get(ctx, "/auth/dashboard/", nil)
			Expect(err).To(MatchError(apierror.MSG_UNAUTHORIZED))
			Expect(apierror.IsUnauthorized(err)).To(BeTrue())

			be.respond(403, ``)
			Expect(c.Get(ctx, "/auth/dashboard/", nil)).To(MatchError(apierror.MSG_FORBIDDEN))
		})

		It("falls back to the status", func() {
			c := client.New(srv.URL, nil)
			be.respond(502, ``)
			Expect(c.Get(ctx, "/auth/dashboard/", nil)).To(MatchError("request failed with status 502"))
		})

		It("reports network errors", func() {
			c := client.New(srv.URL, nil)
			srv.Close()
			err := c.Get(ctx, "/auth/dashboard/", nil)
			var nerr *apierror.NetworkError
			Expect(errors.As(err, &nerr)).To(BeTrue())
			Expect(err).To(MatchError(apierror.MSG_NETWORK))
			Expect(apierror.StatusOf(err)).To(Equal(0))
		})

		It("reports undecodable success responses", func() {
			c := client.New(srv.URL, nil)
			be.respond(200, `<html>`)
			var out map[string]any
			err := c.Get(ctx, "/auth/user/", &out)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(HavePrefix("cannot decode response of GET /auth/user/"))
		})
	})

	Context("options", func() {
		It("times out", func() {
			slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer slow.Close()
			c := client.New(slow.URL, nil, client.WithTimeout(50*time.Millisecond))
			Expect(c.Get(ctx, "/", nil)).To(MatchError(apierror.MSG_NETWORK))
		})

		It("limits the request rate", func() {
			c := client.New(srv.URL, nil, client.WithRateLimit(20, 1))
			start := time.Now()
			for i := 0; i < 3; i++ {
				MustBeSuccessful(c.Get(ctx, "/auth/user/", nil))
			}
			Expect(time.Since(start)).To(BeNumerically(">=", 90*time.Millisecond))
		})

		It("uses a dedicated http client", func() {
			h := &http.Client{Transport: roundTripper(func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("refused")
			})}
			c := client.New(srv.URL, nil, client.WithHTTPClient(h))
			err := c.Get(ctx, "/", nil)
			var nerr *apierror.NetworkError
			Expect(errors.As(err, &nerr)).To(BeTrue())
			Expect(nerr.Detail()).To(ContainSubstring("refused"))
		})
	})
})

type roundTripper func(r *http.Request) (*http.Response, error)

func (f roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
