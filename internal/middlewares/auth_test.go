package middlewares_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RedHatInsights/connector-conformance/internal/middlewares"
	"github.com/redhatinsights/platform-go-middlewares/identity"
)

const (
	TOKEN_HEADER_CLIENT_NAME   = middlewares.PSKClientIdHeader
	TOKEN_HEADER_PSK_NAME      = middlewares.PSKHeader
	authFailure                = "Authentication failed"
	IDENTITY_HEADER_NAME       = "x-rh-identity"
	ASSOCIATE_IDENTITY_HEADER  = "eyJpZGVudGl0eSI6IHsiYWNjb3VudF9udW1iZXIiOiAiMDAwMDAwMiIsICJpbnRlcm5hbCI6IHsib3JnX2lkIjogIjAwMDAwMSJ9LCAidHlwZSI6ICJBc3NvY2lhdGUifX0="
	BASIC_USER_IDENTITY_HEADER = "eyJpZGVudGl0eSI6IHsiYWNjb3VudF9udW1iZXIiOiAiMDAwMDAwMiIsICJpbnRlcm5hbCI6IHsib3JnX2lkIjogIjAwMDAwMSJ9LCAidHlwZSI6ICJiYXNpYyJ9fQ=="
)

func GetTestHandler(expectPrincipal bool, expectedName string) http.HandlerFunc {
	fn := func(rw http.ResponseWriter, req *http.Request) {
		principal, ok := middlewares.GetPrincipal(req.Context())
		Expect(ok).To(Equal(expectPrincipal))
		if expectPrincipal {
			Expect(principal.GetName()).To(Equal(expectedName))
		}
	}

	return http.HandlerFunc(fn)
}

func boiler(req *http.Request, expectedStatusCode int, expectedBody string, expectPrincipal bool, expectedName string, amw *middlewares.AdminAuthMiddleware) {
	rr := httptest.NewRecorder()
	handler := amw.Authenticate(GetTestHandler(expectPrincipal, expectedName))
	handler.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(expectedStatusCode))
	Expect(rr.Body.String()).To(Equal(expectedBody))
}

var _ = Describe("Admin auth", func() {
	var (
		req *http.Request
		amw *middlewares.AdminAuthMiddleware
	)

	BeforeEach(func() {
		knownSecrets := make(map[string]interface{})
		knownSecrets["test_client_1"] = "12345"
		amw = &middlewares.AdminAuthMiddleware{Secrets: knownSecrets, IdentityAuth: identity.EnforceIdentity}

		r, err := http.NewRequest("GET", "/v1alpha/admin/connectors", nil)
		if err != nil {
			panic("Test error unable to get new request")
		}
		req = r
	})

	Describe("Using token authentication", func() {
		Context("With no missing token auth headers", func() {
			It("Should return 200 when the key is correct", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_1")
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "12345")

				boiler(req, 200, "", true, "test_client_1", amw)
			})

			It("Should return a 401 when the key is incorrect", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_1")
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "678910")

				boiler(req, 401, authFailure+"\n", true, "", amw)
			})

			It("Should return a 401 when the client id is unknown", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_nil")
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "12345")

				boiler(req, 401, authFailure+"\n", true, "", amw)
			})
		})

		Context("With missing token auth headers", func() {
			It("Should return 401 when the client id header is missing", func() {
				req.Header.Add(TOKEN_HEADER_PSK_NAME, "12345")

				boiler(req, 401, authFailure+"\n", true, "", amw)
			})

			It("Should return 401 when the psk header is missing", func() {
				req.Header.Add(TOKEN_HEADER_CLIENT_NAME, "test_client_1")

				boiler(req, 401, authFailure+"\n", true, "", amw)
			})
		})
	})

	Describe("Using identity header authentication", func() {
		It("Should return 200 for an Associate identity", func() {
			req.Header.Add(IDENTITY_HEADER_NAME, ASSOCIATE_IDENTITY_HEADER)

			boiler(req, 200, "", true, "", amw)
		})

		It("Should return 401 for a non Associate identity", func() {
			req.Header.Add(IDENTITY_HEADER_NAME, BASIC_USER_IDENTITY_HEADER)

			boiler(req, 401, authFailure+"\n", true, "", amw)
		})
	})

	Describe("Without configured secrets", func() {
		It("Should let every request through", func() {
			amw = &middlewares.AdminAuthMiddleware{}

			boiler(req, 200, "", false, "", amw)
		})
	})
})
