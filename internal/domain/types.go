package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConnectorType string

const (
	ConnectorTypeUnspecified ConnectorType = "CONNECTOR_TYPE_UNSPECIFIED"
	ConnectorTypeSource      ConnectorType = "CONNECTOR_TYPE_SOURCE"
	ConnectorTypeDestination ConnectorType = "CONNECTOR_TYPE_DESTINATION"
)

func (ct ConnectorType) String() string {
	return string(ct)
}

func (ct ConnectorType) Valid() bool {
	return ct == ConnectorTypeSource || ct == ConnectorTypeDestination
}

type View string

const (
	ViewUnspecified View = "VIEW_UNSPECIFIED"
	ViewBasic       View = "VIEW_BASIC"
	ViewFull        View = "VIEW_FULL"
)

// ParseView maps the wire value of a view onto a View.  An empty value means BASIC.
func ParseView(v string) (View, bool) {
	switch View(v) {
	case "", ViewUnspecified, ViewBasic:
		return ViewBasic, true
	case ViewFull:
		return ViewFull, true
	default:
		return ViewUnspecified, false
	}
}

func (v View) IsFull() bool {
	return v == ViewFull
}

type State string

const (
	StateUnspecified  State = "STATE_UNSPECIFIED"
	StateDisconnected State = "STATE_DISCONNECTED"
	StateConnected    State = "STATE_CONNECTED"
	StateError        State = "STATE_ERROR"
)

func (s State) String() string {
	return string(s)
}

type ConnectorID string

func (cid ConnectorID) String() string {
	return string(cid)
}

type OwnerID string

func (oid OwnerID) String() string {
	return string(oid)
}

type Owner struct {
	UID uuid.UUID
	ID  OwnerID
}

// Permalink is the owner reference stored on every connector
func (o Owner) Permalink() string {
	return OwnerPermalink(o.UID)
}

// Configuration is the opaque key/value payload of a connector
type Configuration map[string]interface{}

// DefinitionSpec is the specification payload of a connector definition
type DefinitionSpec map[string]interface{}

type ConnectorDefinition struct {
	UID              uuid.UUID
	ID               string
	Title            string
	DocumentationURL string
	ConnectorType    ConnectorType
	Spec             DefinitionSpec
	CreateTime       time.Time
	UpdateTime       time.Time
}

func (cd ConnectorDefinition) Name() string {
	return ConnectorDefinitionName(cd.ID)
}

type Connector struct {
	UID                    uuid.UUID
	ID                     ConnectorID
	Owner                  string
	ConnectorDefinitionUID uuid.UUID
	ConnectorDefinitionID  string
	ConnectorType          ConnectorType
	Description            string
	Configuration          Configuration
	State                  State
	Tombstone              bool
	CreateTime             time.Time
	UpdateTime             time.Time
	ConnectorDefinition    *ConnectorDefinition
}

func (c Connector) Name() string {
	return ConnectorName(c.ID)
}

func (c Connector) Permalink() string {
	return ConnectorPermalink(c.UID)
}

// Page is one page of a list call
type Page[T any] struct {
	Items         []T
	TotalSize     int64
	NextPageToken string
}

type ListParams struct {
	Filter    string
	PageSize  int
	PageToken string
	View      View
}
