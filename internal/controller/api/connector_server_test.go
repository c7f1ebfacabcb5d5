package api

import (
	"encoding/json"
	"net/http"

	"github.com/RedHatInsights/connector-conformance/internal/config"
	"github.com/RedHatInsights/connector-conformance/internal/domain"
	"github.com/RedHatInsights/connector-conformance/internal/protocol"

	"github.com/gorilla/mux"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	connectorsEndpoint  = URL_BASE_PATH + "/connectors"
	definitionsEndpoint = URL_BASE_PATH + "/connector-definitions"
	webhookBody         = `{"id": "webhook", "connector_definition_name": "connector-definitions/destination-webhook", "description": "hook", "configuration": {"endpoint": "http://localhost:1", "api_key": "secret"}}`
)

var _ = Describe("ConnectorServer", func() {

	var (
		router       *mux.Router
		ownerHeaders map[string]string
		otherHeaders map[string]string
	)

	createWebhook := func() protocol.Connector {
		rr := doRequest(router, http.MethodPost, connectorsEndpoint, webhookBody, ownerHeaders)
		Expect(rr.Code).To(Equal(http.StatusCreated))

		var response protocol.CreateConnectorResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &response)).To(Succeed())
		return response.Connector
	}

	BeforeEach(func() {
		router = newTestRouter(config.GetConfig())
		ownerHeaders = map[string]string{"owner-id": string(localUser.ID)}
		otherHeaders = map[string]string{"jwt-sub": otherUser.UID.String()}
	})

	Describe("Resolving the owner of a request", func() {
		It("Should act as the default owner when there are no identity headers", func() {
			rr := doRequest(router, http.MethodPost, connectorsEndpoint, webhookBody, nil)
			Expect(rr.Code).To(Equal(http.StatusCreated))

			var created protocol.CreateConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &created)).To(Succeed())
			Expect(created.Connector.Owner).To(Equal(localUser.Permalink()))

			rr = doRequest(router, http.MethodGet, connectorsEndpoint+"/"+created.Connector.ID, "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))

			rr = doRequest(router, http.MethodDelete, connectorsEndpoint+"/"+created.Connector.ID, "", nil)
			Expect(rr.Code).To(Equal(http.StatusNoContent))
		})

		It("Should reject a request without identity headers when no default owner is configured", func() {
			cfg := config.GetConfig()
			cfg.DefaultOwnerId = ""
			router = newTestRouter(cfg)

			rr := doRequest(router, http.MethodGet, connectorsEndpoint, "", nil)
			Expect(rr.Code).To(Equal(http.StatusUnauthorized))
		})

		It("Should report an unregistered jwt-sub as not found", func() {
			rr := doRequest(router, http.MethodGet, connectorsEndpoint, "", map[string]string{"jwt-sub": "5e8ddc9c-5e1f-4a8b-9f3e-3d6e35c5b2f0"})
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("Should accept an x-rh-identity header", func() {
			rr := doRequest(router, http.MethodGet, connectorsEndpoint, "", map[string]string{IDENTITY_HEADER_NAME: buildIdentityHeader("1979710", "User")})
			Expect(rr.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("Creating a connector", func() {
		It("Should return 201 with the full view and masked credentials", func() {
			connector := createWebhook()

			Expect(connector.Name).To(Equal("connectors/webhook"))
			Expect(connector.Owner).To(Equal(localUser.Permalink()))
			Expect(connector.State).To(Equal(string(domain.StateDisconnected)))
			Expect(connector.Configuration).To(HaveKeyWithValue("api_key", domain.CredentialMask))
			Expect(connector.ConnectorDefinitionDetail).NotTo(BeNil())
		})

		It("Should return 409 for a duplicate id", func() {
			createWebhook()

			rr := doRequest(router, http.MethodPost, connectorsEndpoint, webhookBody, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusConflict))
		})

		It("Should return 404 for an unknown definition", func() {
			body := `{"id": "nope", "connector_definition_name": "connector-definitions/unknown"}`
			rr := doRequest(router, http.MethodPost, connectorsEndpoint, body, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("Should return 400 when required fields are missing", func() {
			rr := doRequest(router, http.MethodPost, connectorsEndpoint, `{"description": "no id"}`, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("Should return 400 for an invalid id", func() {
			body := `{"id": "Not-Valid", "connector_definition_name": "connector-definitions/source-http"}`
			rr := doRequest(router, http.MethodPost, connectorsEndpoint, body, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Reading connectors", func() {
		It("Should null the heavyweight fields in the basic view", func() {
			createWebhook()

			rr := doRequest(router, http.MethodGet, connectorsEndpoint+"/webhook", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var raw map[string]map[string]interface{}
			Expect(json.Unmarshal(rr.Body.Bytes(), &raw)).To(Succeed())
			Expect(raw["connector"]).To(HaveKeyWithValue("configuration", BeNil()))
			Expect(raw["connector"]).To(HaveKeyWithValue("connector_definition_detail", BeNil()))
		})

		It("Should return the same record from get, list and lookUp", func() {
			created := createWebhook()

			rr := doRequest(router, http.MethodGet, connectorsEndpoint+"/webhook?view=VIEW_FULL", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var got protocol.GetConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &got)).To(Succeed())

			rr = doRequest(router, http.MethodGet, connectorsEndpoint+"?view=VIEW_FULL", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var list protocol.ListConnectorsResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &list)).To(Succeed())
			Expect(list.TotalSize).To(Equal(int64(1)))
			Expect(list.NextPageToken).To(BeEmpty())
			Expect(list.Connectors).To(HaveLen(1))
			Expect(list.Connectors[0]).To(Equal(got.Connector))

			rr = doRequest(router, http.MethodGet, connectorsEndpoint+"/"+created.UID+"/lookUp?view=VIEW_FULL", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var lookedUp protocol.LookUpConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &lookedUp)).To(Succeed())
			Expect(lookedUp.Connector).To(Equal(got.Connector))
		})

		It("Should reject an unknown view", func() {
			rr := doRequest(router, http.MethodGet, connectorsEndpoint+"?view=VIEW_EVERYTHING", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("Should reject a malformed page size", func() {
			rr := doRequest(router, http.MethodGet, connectorsEndpoint+"?page_size=ten", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("Should reject an unsupported filter", func() {
			rr := doRequest(router, http.MethodGet, connectorsEndpoint+"?filter=description%3Dhook", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Mutating connectors", func() {
		It("Should walk the connector through its lifecycle", func() {
			created := createWebhook()

			rr := doRequest(router, http.MethodPost, connectorsEndpoint+"/webhook/connect", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var connected protocol.ConnectConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &connected)).To(Succeed())
			Expect(connected.Connector.State).To(Equal(string(domain.StateConnected)))

			rr = doRequest(router, http.MethodPost, connectorsEndpoint+"/webhook/disconnect", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var disconnected protocol.DisconnectConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &disconnected)).To(Succeed())
			Expect(disconnected.Connector.State).To(Equal(string(domain.StateDisconnected)))

			rr = doRequest(router, http.MethodPatch, connectorsEndpoint+"/webhook?update_mask=description", `{"description": "updated"}`, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var updated protocol.UpdateConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &updated)).To(Succeed())
			Expect(updated.Connector.Description).To(Equal("updated"))
			Expect(updated.Connector.UID).To(Equal(created.UID))

			rr = doRequest(router, http.MethodPost, connectorsEndpoint+"/webhook/testConnection", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var tested protocol.TestConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &tested)).To(Succeed())
			Expect(tested.State).To(Equal(string(domain.StateConnected)))

			rr = doRequest(router, http.MethodPost, connectorsEndpoint+"/webhook/rename", `{"new_connector_id": "hook"}`, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusOK))
			var renamed protocol.RenameConnectorResponse
			Expect(json.Unmarshal(rr.Body.Bytes(), &renamed)).To(Succeed())
			Expect(renamed.Connector.Name).To(Equal("connectors/hook"))
			Expect(renamed.Connector.UID).To(Equal(created.UID))

			rr = doRequest(router, http.MethodDelete, connectorsEndpoint+"/hook", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusNoContent))
			Expect(rr.Body.Len()).To(Equal(0))

			rr = doRequest(router, http.MethodGet, connectorsEndpoint+"/hook", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusNotFound))
		})

		It("Should reject an update mask naming an immutable field", func() {
			createWebhook()

			rr := doRequest(router, http.MethodPatch, connectorsEndpoint+"/webhook?update_mask=id", `{"description": "updated"}`, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})

		It("Should return 409 when renaming onto a taken id", func() {
			createWebhook()
			body := `{"id": "taken", "connector_definition_name": "connector-definitions/source-http"}`
			Expect(doRequest(router, http.MethodPost, connectorsEndpoint, body, ownerHeaders).Code).To(Equal(http.StatusCreated))

			rr := doRequest(router, http.MethodPost, connectorsEndpoint+"/webhook/rename", `{"new_connector_id": "taken"}`, ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("Accessing a connector with a foreign identity", func() {
		It("Should report every operation as not found", func() {
			created := createWebhook()

			requests := []struct {
				method string
				path   string
				body   string
			}{
				{http.MethodGet, connectorsEndpoint + "/webhook", ""},
				{http.MethodPatch, connectorsEndpoint + "/webhook", `{"description": "stolen"}`},
				{http.MethodDelete, connectorsEndpoint + "/webhook", ""},
				{http.MethodPost, connectorsEndpoint + "/webhook/connect", ""},
				{http.MethodPost, connectorsEndpoint + "/webhook/disconnect", ""},
				{http.MethodPost, connectorsEndpoint + "/webhook/rename", `{"new_connector_id": "stolen"}`},
				{http.MethodPost, connectorsEndpoint + "/webhook/testConnection", ""},
				{http.MethodGet, connectorsEndpoint + "/" + created.UID + "/lookUp", ""},
			}

			for _, r := range requests {
				rr := doRequest(router, r.method, r.path, r.body, otherHeaders)
				Expect(rr.Code).To(Equal(http.StatusNotFound), "%s %s", r.method, r.path)
			}

			rr := doRequest(router, http.MethodDelete, connectorsEndpoint+"/webhook", "", ownerHeaders)
			Expect(rr.Code).To(Equal(http.StatusNoContent))
		})
	})
})

var _ = Describe("ConnectorDefinitionServer", func() {

	var router *mux.Router

	BeforeEach(func() {
		router = newTestRouter(config.GetConfig())
	})

	It("Should page through the catalog without gaps", func() {
		rr := doRequest(router, http.MethodGet, definitionsEndpoint, "", nil)
		Expect(rr.Code).To(Equal(http.StatusOK))
		var all protocol.ListConnectorDefinitionsResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &all)).To(Succeed())
		Expect(all.TotalSize).To(BeNumerically(">=", 2))

		rr = doRequest(router, http.MethodGet, definitionsEndpoint+"?page_size=1", "", nil)
		var first protocol.ListConnectorDefinitionsResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &first)).To(Succeed())
		Expect(first.ConnectorDefinitions).To(HaveLen(1))
		Expect(first.TotalSize).To(Equal(all.TotalSize))
		Expect(first.NextPageToken).NotTo(BeEmpty())

		rr = doRequest(router, http.MethodGet, definitionsEndpoint+"?page_size=1&page_token="+first.NextPageToken, "", nil)
		var second protocol.ListConnectorDefinitionsResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &second)).To(Succeed())
		Expect(second.ConnectorDefinitions).To(HaveLen(1))

		Expect(first.ConnectorDefinitions[0]).To(Equal(all.ConnectorDefinitions[0]))
		Expect(second.ConnectorDefinitions[0]).To(Equal(all.ConnectorDefinitions[1]))
	})

	It("Should only return the spec in the full view", func() {
		rr := doRequest(router, http.MethodGet, definitionsEndpoint+"/destination-webhook", "", nil)
		Expect(rr.Code).To(Equal(http.StatusOK))
		var basic protocol.GetConnectorDefinitionResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &basic)).To(Succeed())
		Expect(basic.ConnectorDefinition.Spec).To(BeNil())

		rr = doRequest(router, http.MethodGet, definitionsEndpoint+"/destination-webhook?view=VIEW_FULL", "", nil)
		Expect(rr.Code).To(Equal(http.StatusOK))
		var full protocol.GetConnectorDefinitionResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &full)).To(Succeed())
		Expect(full.ConnectorDefinition.Spec).To(HaveKey("connection_specification"))
	})

	It("Should filter by connector type", func() {
		rr := doRequest(router, http.MethodGet, definitionsEndpoint+"?filter=connector_type%3DCONNECTOR_TYPE_SOURCE", "", nil)
		Expect(rr.Code).To(Equal(http.StatusOK))
		var sources protocol.ListConnectorDefinitionsResponse
		Expect(json.Unmarshal(rr.Body.Bytes(), &sources)).To(Succeed())
		Expect(sources.ConnectorDefinitions).NotTo(BeEmpty())
		for _, def := range sources.ConnectorDefinitions {
			Expect(def.ConnectorType).To(Equal(string(domain.ConnectorTypeSource)))
		}
	})

	It("Should return 404 for an unknown definition", func() {
		rr := doRequest(router, http.MethodGet, definitionsEndpoint+"/source-nothing", "", nil)
		Expect(rr.Code).To(Equal(http.StatusNotFound))
	})
})
