package api

import (
	"encoding/json"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/middlewares"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/gorilla/mux"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const adminConnectorsEndpoint = URL_BASE_PATH + "/admin/connectors"

var _ = Describe("AdminServer", func() {

	Context("Without service to service credentials", func() {

		var router *mux.Router

		BeforeEach(func() {
			router = newTestRouter(config.GetConfig())
		})

		It("Should start with an empty connector list", func() {
			rr := doRequest(router, http.MethodGet, adminConnectorsEndpoint, "", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var list protocol.ListConnectorsAdminResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &list)).To(Succeed())
			Expect(list.Connectors).To(BeEmpty())
			Expect(list.TotalSize).To(BeZero())
			Expect(list.NextPageToken).To(BeEmpty())
		})

		It("Should list and look up the connectors of every owner", func() {
			ownerHeaders := map[string]string{"owner-id": string(localUser.ID)}
			otherHeaders := map[string]string{"owner-id": string(otherUser.ID)}

			body := `{"id": "shared-name", "connector_definition_name": "connector-definitions/source-http"}`
			Expect(doRequest(router, http.MethodPost, connectorsEndpoint, body, ownerHeaders).Code).To(Equal(http.StatusCreated))

			rr := doRequest(router, http.MethodPost, connectorsEndpoint, body, otherHeaders)
			Expect(rr.Code).To(Equal(http.StatusCreated))
			var created protocol.CreateConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &created)).To(Succeed())

			rr = doRequest(router, http.MethodGet, adminConnectorsEndpoint, "", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var list protocol.ListConnectorsAdminResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &list)).To(Succeed())
			Expect(list.TotalSize).To(Equal(int64(2)))
			Expect(list.Connectors).To(HaveLen(2))

			rr = doRequest(router, http.MethodGet, adminConnectorsEndpoint+"/"+created.Connector.UID+"/lookUp", "", nil)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var lookedUp protocol.LookUpConnectorAdminResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &lookedUp)).To(Succeed())
			Expect(lookedUp.Connector.Owner).To(Equal(otherUser.Permalink()))
		})

		It("Should return 404 for an unknown uid", func() {
			rr := doRequest(router, http.MethodGet, adminConnectorsEndpoint+"/0b0b7a0e-52a4-4e26-8f7f-c2bd1cbd0c1f/lookUp", "", nil)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("With service to service credentials", func() {

		var router *mux.Router

		BeforeEach(func() {
			cfg := config.GetConfig()
			cfg.ServiceToServiceCredentials = map[string]interface{}{"pipeline": "12345"}
			router = newTestRouter(cfg)
		})

		It("Should reject a request without credentials", func() {
			rr := doRequest(router, http.MethodGet, adminConnectorsEndpoint, "", nil)
			Expect(rr.Code).To(Equal(http.StatusUnauthorized))
		})

		It("Should accept a valid pre-shared key", func() {
			headers := map[string]string{
				middlewares.PSKClientIdHeader: "pipeline",
				middlewares.PSKHeader:         "12345",
			}
			rr := doRequest(router, http.MethodGet, adminConnectorsEndpoint, "", headers)
			Expect(rr.Code).To(Equal(http.StatusOK))
		})

		It("Should accept an associate identity", func() {
			headers := map[string]string{IDENTITY_HEADER_NAME: buildAssociateIdentityHeader("jdoe@example.com")}
			rr := doRequest(router, http.MethodGet, adminConnectorsEndpoint, "", headers)
			Expect(rr.Code).To(Equal(http.StatusOK))
		})

		It("Should reject a customer identity", func() {
			headers := map[string]string{IDENTITY_HEADER_NAME: buildIdentityHeader("1979710", "User")}
			rr := doRequest(router, http.MethodGet, adminConnectorsEndpoint, "", headers)
			Expect(rr.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
