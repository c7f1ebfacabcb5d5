package middlewares_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RedHatInsights/connector-conformance/internal/controller"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/middlewares"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var knownOwner = domain.Owner{UID: uuid.MustParse("2a06c2f7-8da9-4046-91ea-240f88a5d000"), ID: "local-user"}

type stubOwnerResolver struct {
	seen controller.OwnerHeaders
}

func (r *stubOwnerResolver) ResolveOwner(ctx context.Context, log *logrus.Entry, headers controller.OwnerHeaders) (domain.Owner, error) {
	r.seen = headers

	switch {
	case headers.JwtSub == knownOwner.UID.String():
		return knownOwner, nil
	case headers.JwtSub != "":
		return domain.Owner{}, controller.ErrNotFound
	case headers.OwnerID == string(knownOwner.ID):
		return knownOwner, nil
	case headers.OwnerID != "":
		return domain.Owner{}, controller.ErrNotFound
	default:
		return domain.Owner{}, controller.ErrUnauthenticated
	}
}

var _ = Describe("Owner resolution", func() {
	var (
		req      *http.Request
		resolver *stubOwnerResolver
		omw      *middlewares.OwnerMiddleware
		reached  bool
		handler  http.Handler
	)

	BeforeEach(func() {
		resolver = &stubOwnerResolver{}
		omw = &middlewares.OwnerMiddleware{Resolver: resolver}
		reached = false

		handler = omw.ResolveOwner(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			reached = true
			owner, ok := middlewares.GetOwner(req.Context())
			Expect(ok).To(BeTrue())
			Expect(owner).To(Equal(knownOwner))
		}))

		r, err := http.NewRequest("GET", "/v1alpha/connectors", nil)
		Expect(err).ShouldNot(HaveOccurred())
		req = r
	})

	It("Should pass the owner along for a registered jwt-sub", func() {
		req.Header.Add("jwt-sub", knownOwner.UID.String())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
		Expect(resolver.seen.JwtSub).To(Equal(knownOwner.UID.String()))
	})

	It("Should pass the owner along for a registered owner-id", func() {
		req.Header.Add("owner-id", "local-user")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})

	It("Should return 404 for an unknown jwt-sub", func() {
		req.Header.Add("jwt-sub", uuid.NewString())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusNotFound))
		Expect(reached).To(BeFalse())

		var body map[string]interface{}
		Expect(json.Unmarshal(rr.Body.Bytes(), &body)).Should(Succeed())
		Expect(body["status"]).To(Equal(float64(http.StatusNotFound)))
	})

	It("Should return 401 without identity headers", func() {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusUnauthorized))
		Expect(reached).To(BeFalse())
	})

	It("Should forward the identity header to the resolver", func() {
		req.Header.Add("x-rh-identity", "eyJpZGVudGl0eSI6e319")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		Expect(resolver.seen.Identity).To(Equal("eyJpZGVudGl0eSI6e319"))
	})
})
