package conformance

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RedHatInsights/connector-conformance/internal/protocol"
)

const restAPIPrefix = "/v1alpha"

type RestBinding struct {
	publicURL  string
	privateURL string
	admin      Identity
	client     *http.Client
}

func NewRestBinding(publicURL, privateURL string, admin Identity, tlsConfig *tls.Config, timeout time.Duration) *RestBinding {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	return &RestBinding{
		publicURL:  strings.TrimSuffix(publicURL, "/"),
		privateURL: strings.TrimSuffix(privateURL, "/"),
		admin:      admin,
		client:     &http.Client{Transport: transport, Timeout: timeout},
	}
}

func (b *RestBinding) Name() string {
	return RestBindingName
}

func (b *RestBinding) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

func listQuery(pageSize int32, pageToken, view, filter string) url.Values {
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(int(pageSize)))
	if pageToken != "" {
		query.Set("page_token", pageToken)
	}
	if view != "" {
		query.Set("view", view)
	}
	if filter != "" {
		query.Set("filter", filter)
	}
	return query
}

func viewQuery(view string) url.Values {
	query := url.Values{}
	if view != "" {
		query.Set("view", view)
	}
	return query
}

func (b *RestBinding) ListConnectorDefinitions(ctx context.Context, identity Identity, req protocol.ListConnectorDefinitionsRequest) (protocol.ListConnectorDefinitionsResponse, Outcome, error) {
	var resp protocol.ListConnectorDefinitionsResponse
	outcome, err := b.do(ctx, http.MethodGet, b.publicURL, "connector-definitions", listQuery(req.PageSize, req.PageToken, req.View, req.Filter), identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) GetConnectorDefinition(ctx context.Context, identity Identity, req protocol.GetConnectorDefinitionRequest) (protocol.GetConnectorDefinitionResponse, Outcome, error) {
	var resp protocol.GetConnectorDefinitionResponse
	outcome, err := b.do(ctx, http.MethodGet, b.publicURL, req.Name, viewQuery(req.View), identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) ListConnectors(ctx context.Context, identity Identity, req protocol.ListConnectorsRequest) (protocol.ListConnectorsResponse, Outcome, error) {
	var resp protocol.ListConnectorsResponse
	outcome, err := b.do(ctx, http.MethodGet, b.publicURL, "connectors", listQuery(req.PageSize, req.PageToken, req.View, req.Filter), identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) GetConnector(ctx context.Context, identity Identity, req protocol.GetConnectorRequest) (protocol.GetConnectorResponse, Outcome, error) {
	var resp protocol.GetConnectorResponse
	outcome, err := b.do(ctx, http.MethodGet, b.publicURL, req.Name, viewQuery(req.View), identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) CreateConnector(ctx context.Context, identity Identity, req protocol.CreateConnectorRequest) (protocol.CreateConnectorResponse, Outcome, error) {
	var resp protocol.CreateConnectorResponse
	outcome, err := b.do(ctx, http.MethodPost, b.publicURL, "connectors", nil, identity, req.Connector, &resp)
	return resp, outcome, err
}

func (b *RestBinding) UpdateConnector(ctx context.Context, identity Identity, req protocol.UpdateConnectorRequest) (protocol.UpdateConnectorResponse, Outcome, error) {
	query := url.Values{}
	if req.UpdateMask != "" {
		query.Set("update_mask", req.UpdateMask)
	}

	var resp protocol.UpdateConnectorResponse
	outcome, err := b.do(ctx, http.MethodPatch, b.publicURL, req.Name, query, identity, req.Connector, &resp)
	return resp, outcome, err
}

func (b *RestBinding) DeleteConnector(ctx context.Context, identity Identity, req protocol.DeleteConnectorRequest) (Outcome, error) {
	return b.do(ctx, http.MethodDelete, b.publicURL, req.Name, nil, identity, nil, nil)
}

func (b *RestBinding) RenameConnector(ctx context.Context, identity Identity, req protocol.RenameConnectorRequest) (protocol.RenameConnectorResponse, Outcome, error) {
	body := protocol.RenameConnectorRequest{NewConnectorID: req.NewConnectorID}

	var resp protocol.RenameConnectorResponse
	outcome, err := b.do(ctx, http.MethodPost, b.publicURL, req.Name+"/rename", nil, identity, body, &resp)
	return resp, outcome, err
}

func (b *RestBinding) LookUpConnector(ctx context.Context, identity Identity, req protocol.LookUpConnectorRequest) (protocol.LookUpConnectorResponse, Outcome, error) {
	var resp protocol.LookUpConnectorResponse
	outcome, err := b.do(ctx, http.MethodGet, b.publicURL, req.Permalink+"/lookUp", viewQuery(req.View), identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) ConnectConnector(ctx context.Context, identity Identity, req protocol.ConnectConnectorRequest) (protocol.ConnectConnectorResponse, Outcome, error) {
	var resp protocol.ConnectConnectorResponse
	outcome, err := b.do(ctx, http.MethodPost, b.publicURL, req.Name+"/connect", nil, identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) DisconnectConnector(ctx context.Context, identity Identity, req protocol.DisconnectConnectorRequest) (protocol.DisconnectConnectorResponse, Outcome, error) {
	var resp protocol.DisconnectConnectorResponse
	outcome, err := b.do(ctx, http.MethodPost, b.publicURL, req.Name+"/disconnect", nil, identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) TestConnector(ctx context.Context, identity Identity, req protocol.TestConnectorRequest) (protocol.TestConnectorResponse, Outcome, error) {
	var resp protocol.TestConnectorResponse
	outcome, err := b.do(ctx, http.MethodPost, b.publicURL, req.Name+"/testConnection", nil, identity, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) ListConnectorsAdmin(ctx context.Context, req protocol.ListConnectorsAdminRequest) (protocol.ListConnectorsAdminResponse, Outcome, error) {
	var resp protocol.ListConnectorsAdminResponse
	outcome, err := b.do(ctx, http.MethodGet, b.privateURL, "admin/connectors", listQuery(req.PageSize, req.PageToken, req.View, req.Filter), b.admin, nil, &resp)
	return resp, outcome, err
}

func (b *RestBinding) LookUpConnectorAdmin(ctx context.Context, req protocol.LookUpConnectorAdminRequest) (protocol.LookUpConnectorAdminResponse, Outcome, error) {
	var resp protocol.LookUpConnectorAdminResponse
	outcome, err := b.do(ctx, http.MethodGet, b.privateURL, "admin/"+req.Permalink+"/lookUp", viewQuery(req.View), b.admin, nil, &resp)
	return resp, outcome, err
}

type restErrorResponse struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (b *RestBinding) do(ctx context.Context, method, baseURL, path string, query url.Values, identity Identity, in interface{}, out interface{}) (Outcome, error) {
	target := baseURL + restAPIPrefix + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return Outcome{}, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Outcome{}, fmt.Errorf("building %s %s request: %w", method, path, err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range identity {
		req.Header.Set(name, value)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	outcome := Outcome{Status: resp.StatusCode, Body: data}

	if resp.StatusCode >= http.StatusMultipleChoices {
		var errResp restErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Detail != "" {
			outcome.Message = errResp.Detail
		} else {
			outcome.Message = strings.TrimSpace(string(data))
		}
		return outcome, nil
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return outcome, fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}

	return outcome, nil
}
