package apierror_test

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/admin/pkg/apierror"
)

var _ = Describe("normalization", func() {
	Context("rules", func() {
		It("keeps strings", func() {
			Expect(apierror.Normalize("plain text", 400)).To(Equal("plain text"))
			Expect(apierror.Normalize("plain text", 401)).To(Equal("plain text"))
		})

		It("uses fixed authorization messages", func() {
			body := map[string]any{"detail": "token expired"}
			Expect(apierror.Normalize(body, 401)).To(Equal(apierror.MSG_UNAUTHORIZED))
			Expect(apierror.Normalize(nil, 401)).To(Equal(apierror.MSG_UNAUTHORIZED))
			Expect(apierror.Normalize(body, 403)).To(Equal(apierror.MSG_FORBIDDEN))
		})

		It("prefers detail over message", func() {
			Expect(apierror.Normalize(map[string]any{"message": "m", "detail": "d"}, 400)).To(Equal("d"))
			Expect(apierror.Normalize(map[string]any{"message": "m", "name": []any{"x"}}, 400)).To(Equal("m"))
		})

		It("skips empty messages", func() {
			Expect(apierror.Normalize(apierror.DecodePayload([]byte(`{"detail":null,"email":["required"]}`)), 400)).To(Equal("email: required"))
			Expect(apierror.Normalize(apierror.DecodePayload([]byte(`{"message":"","name":["blank"]}`)), 400)).To(Equal("name: blank"))
			Expect(apierror.Normalize(map[string]any{"detail": "  ", "message": "m"}, 400)).To(Equal("m"))
			Expect(apierror.Normalize(map[string]any{"detail": nil, "error": " ", "count": 1.0}, 500)).To(Equal("request failed with status 500"))
		})

		It("uses the last duplicate key", func() {
			Expect(apierror.Normalize(apierror.DecodePayload([]byte(`{"detail":"first","detail":"second"}`)), 400)).To(Equal("second"))
		})

		It("uses string error fields", func() {
			Expect(apierror.Normalize(map[string]any{"error": "invalid key"}, 400)).To(Equal("invalid key"))
		})

		It("joins field errors", func() {
			body := map[string]any{
				"email": []any{"required"},
				"name":  []any{"too short", "invalid"},
			}
			Expect(apierror.Normalize(body, 400)).To(Equal("email: required; name: too short, invalid"))
		})

		It("skips fields which are no string lists", func() {
			body := map[string]any{
				"count": 3.0,
				"name":  []any{"invalid"},
				"mixed": []any{"a", 1.0},
			}
			Expect(apierror.Normalize(body, 400)).To(Equal("name: invalid"))
		})

		It("falls back", func() {
			Expect(apierror.Normalize(nil, 0)).To(Equal("request failed"))
			Expect(apierror.Normalize(map[string]any{"count": 1.0}, 500)).To(Equal("request failed with status 500"))
			Expect(apierror.Normalize([]any{"x"}, 502)).To(Equal("request failed with status 502"))
		})
	})

	Context("decoded payloads", func() {
		It("keeps the server field order", func() {
			p := apierror.DecodePayload([]byte(`{"name":["too short"],"email":["required","invalid"]}`))
			Expect(apierror.Normalize(p, 400)).To(Equal("name: too short; email: required, invalid"))
		})

		It("decodes strings", func() {
			Expect(apierror.DecodePayload([]byte(`"quota exceeded"`))).To(Equal("quota exceeded"))
			Expect(apierror.DecodePayload([]byte(`<html>Bad Gateway</html>`))).To(Equal("<html>Bad Gateway</html>"))
			Expect(apierror.DecodePayload(nil)).To(BeNil())
		})

		It("marshals fields in order", func() {
			p := apierror.DecodePayload([]byte(`{"b":1,"a":["x"]}`))
			Expect(p).To(BeAssignableToTypeOf(apierror.Fields{}))
			Expect(p.(apierror.Fields).MarshalJSON()).To(Equal([]byte(`{"b":1,"a":["x"]}`)))
		})
	})

	Context("field errors", func() {
		It("renders like server validation errors", func() {
			errs := apierror.FieldErrors{}
			errs.Add("name", "required")
			errs.Add("amount", "must be at least 0")
			Expect(errs.Error()).To(Equal("amount: must be at least 0; name: required"))
			Expect(apierror.Message(fmt.Errorf("apply: %w", errs))).To(Equal("amount: must be at least 0; name: required"))
		})
	})

	Context("errors", func() {
		It("converts responses", func() {
			r := &http.Response{
				StatusCode: http.StatusBadRequest,
				Body:       io.NopCloser(bytes.NewReader([]byte(`{"detail":"Not found."}`))),
			}
			err := apierror.FromResponse(r)
			Expect(err.Status).To(Equal(400))
			Expect(err.Error()).To(Equal("Not found."))
			Expect(apierror.StatusOf(fmt.Errorf("get: %w", err))).To(Equal(400))
		})

		It("describes network errors", func() {
			err := &apierror.NetworkError{Err: fmt.Errorf("connection refused")}
			Expect(apierror.Message(err)).To(Equal(apierror.MSG_NETWORK))
			Expect(err.Detail()).To(ContainSubstring("connection refused"))
			Expect(apierror.StatusOf(err)).To(Equal(0))
		})
	})
})
