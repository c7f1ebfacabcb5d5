package protocol

import (
	"time"
)

// ConnectorDefinition is the wire form of a connector definition.  Spec is null in the BASIC view.
type ConnectorDefinition struct {
	Name             string                 `json:"name"`
	UID              string                 `json:"uid"`
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	DocumentationURL string                 `json:"documentation_url"`
	ConnectorType    string                 `json:"connector_type"`
	Spec             map[string]interface{} `json:"spec"`
	CreateTime       time.Time              `json:"create_time"`
	UpdateTime       time.Time              `json:"update_time"`
}

// Connector is the wire form of a connector.  Configuration and ConnectorDefinitionDetail are null
// in the BASIC view.
type Connector struct {
	Name                      string                 `json:"name"`
	UID                       string                 `json:"uid"`
	ID                        string                 `json:"id"`
	Owner                     string                 `json:"user"`
	ConnectorDefinitionName   string                 `json:"connector_definition_name"`
	ConnectorType             string                 `json:"connector_type"`
	Description               string                 `json:"description"`
	Configuration             map[string]interface{} `json:"configuration"`
	State                     string                 `json:"state"`
	Tombstone                 bool                   `json:"tombstone"`
	CreateTime                time.Time              `json:"create_time"`
	UpdateTime                time.Time              `json:"update_time"`
	ConnectorDefinitionDetail *ConnectorDefinition   `json:"connector_definition_detail"`
}

// ConnectorInput is the body of a create request
type ConnectorInput struct {
	ID                      string                 `json:"id" validate:"required"`
	ConnectorDefinitionName string                 `json:"connector_definition_name" validate:"required"`
	Description             string                 `json:"description,omitempty"`
	Configuration           map[string]interface{} `json:"configuration,omitempty"`
}

// ConnectorPatch is the body of an update request
type ConnectorPatch struct {
	Description   *string                `json:"description,omitempty"`
	Configuration map[string]interface{} `json:"configuration,omitempty"`
}

type ListConnectorDefinitionsRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	View      string `json:"view,omitempty"`
	Filter    string `json:"filter,omitempty"`
}

type ListConnectorDefinitionsResponse struct {
	ConnectorDefinitions []ConnectorDefinition `json:"connector_definitions"`
	NextPageToken        string                `json:"next_page_token"`
	TotalSize            int64                 `json:"total_size"`
}

type GetConnectorDefinitionRequest struct {
	Name string `json:"name"`
	View string `json:"view,omitempty"`
}

type GetConnectorDefinitionResponse struct {
	ConnectorDefinition ConnectorDefinition `json:"connector_definition"`
}

type ListConnectorsRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	View      string `json:"view,omitempty"`
	Filter    string `json:"filter,omitempty"`
}

type ListConnectorsResponse struct {
	Connectors    []Connector `json:"connectors"`
	NextPageToken string      `json:"next_page_token"`
	TotalSize     int64       `json:"total_size"`
}

type GetConnectorRequest struct {
	Name string `json:"name"`
	View string `json:"view,omitempty"`
}

type GetConnectorResponse struct {
	Connector Connector `json:"connector"`
}

type CreateConnectorRequest struct {
	Connector ConnectorInput `json:"connector"`
}

type CreateConnectorResponse struct {
	Connector Connector `json:"connector"`
}

// UpdateConnectorRequest carries a comma separated update mask, the JSON form of a field mask
type UpdateConnectorRequest struct {
	Name       string         `json:"name"`
	Connector  ConnectorPatch `json:"connector"`
	UpdateMask string         `json:"update_mask,omitempty"`
}

type UpdateConnectorResponse struct {
	Connector Connector `json:"connector"`
}

type DeleteConnectorRequest struct {
	Name string `json:"name"`
}

type DeleteConnectorResponse struct {
}

type RenameConnectorRequest struct {
	Name           string `json:"name"`
	NewConnectorID string `json:"new_connector_id" validate:"required"`
}

type RenameConnectorResponse struct {
	Connector Connector `json:"connector"`
}

type LookUpConnectorRequest struct {
	Permalink string `json:"permalink"`
	View      string `json:"view,omitempty"`
}

type LookUpConnectorResponse struct {
	Connector Connector `json:"connector"`
}

type ConnectConnectorRequest struct {
	Name string `json:"name"`
}

type ConnectConnectorResponse struct {
	Connector Connector `json:"connector"`
}

type DisconnectConnectorRequest struct {
	Name string `json:"name"`
}

type DisconnectConnectorResponse struct {
	Connector Connector `json:"connector"`
}

type TestConnectorRequest struct {
	Name string `json:"name"`
}

type TestConnectorResponse struct {
	State string `json:"state"`
}

type ListConnectorsAdminRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	View      string `json:"view,omitempty"`
	Filter    string `json:"filter,omitempty"`
}

type ListConnectorsAdminResponse struct {
	Connectors    []Connector `json:"connectors"`
	NextPageToken string      `json:"next_page_token"`
	TotalSize     int64       `json:"total_size"`
}

type LookUpConnectorAdminRequest struct {
	Permalink string `json:"permalink"`
	View      string `json:"view,omitempty"`
}

type LookUpConnectorAdminResponse struct {
	Connector Connector `json:"connector"`
}
