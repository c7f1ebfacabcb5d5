package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gorilla/mux"
)

var _ = Describe("OpenAPI", func() {

	serveSpec := func(specFile string, path string) *httptest.ResponseRecorder {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		Expect(err).NotTo(HaveOccurred())

		rr := httptest.NewRecorder()

		apiMux := mux.NewRouter()
		NewApiSpecServer(apiMux, URL_BASE_PATH, specFile).Routes()
		apiMux.ServeHTTP(rr, req)

		return rr
	}

	Describe("Serve openapi.json", func() {
		Context("Without a spec file override", func() {
			It("Should return the embedded document on both paths", func() {
				for _, path := range []string{"/openapi.json", URL_BASE_PATH + "/openapi.json"} {
					rr := serveSpec("", path)
					Expect(rr.Code).To(Equal(http.StatusOK))
					Expect(rr.Body.Bytes()).To(Equal(embeddedApiSpec))
				}
			})

			It("Should describe the connector paths", func() {
				rr := serveSpec("", "/openapi.json")

				var doc struct {
					Paths map[string]interface{} `json:"paths"`
				}
				Expect(json.Unmarshal(rr.Body.Bytes(), &doc)).To(Succeed())
				Expect(doc.Paths).To(HaveKey("/connectors"))
			})
		})

		Context("With a valid spec file", func() {
			It("Should return the file contents", func() {
				rr := serveSpec("api.spec.json", "/openapi.json")

				Expect(rr.Code).To(Equal(http.StatusOK))

				expectedBytes, err := os.ReadFile("api.spec.json")
				Expect(err).NotTo(HaveOccurred())
				Expect(rr.Body.Bytes()).To(Equal(expectedBytes))
			})
		})

		Context("With an invalid path to the api spec file", func() {
			It("Should return a 404", func() {
				rr := serveSpec("invalid-file-name", "/openapi.json")
				Expect(rr.Code).To(Equal(http.StatusNotFound))
			})
		})
	})
})
