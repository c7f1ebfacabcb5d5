package protocol

import (
	"strings"

	"github.com/RedHatInsights/connector-conformance/internal/domain"
)

func FromConnectorDefinition(def domain.ConnectorDefinition, view domain.View) ConnectorDefinition {
	wire := ConnectorDefinition{
		Name:             def.Name(),
		UID:              def.UID.String(),
		ID:               def.ID,
		Title:            def.Title,
		DocumentationURL: def.DocumentationURL,
		ConnectorType:    string(def.ConnectorType),
		CreateTime:       def.CreateTime,
		UpdateTime:       def.UpdateTime,
	}

	if view.IsFull() {
		wire.Spec = map[string]interface{}{}
		for k, v := range def.Spec {
			wire.Spec[k] = v
		}
	}

	return wire
}

func FromConnectorDefinitions(defs []domain.ConnectorDefinition, view domain.View) []ConnectorDefinition {
	wire := make([]ConnectorDefinition, 0, len(defs))
	for _, def := range defs {
		wire = append(wire, FromConnectorDefinition(def, view))
	}
	return wire
}

func FromConnector(c domain.Connector, view domain.View) Connector {
	wire := Connector{
		Name:                    c.Name(),
		UID:                     c.UID.String(),
		ID:                      string(c.ID),
		Owner:                   c.Owner,
		ConnectorDefinitionName: domain.ConnectorDefinitionName(c.ConnectorDefinitionID),
		ConnectorType:           string(c.ConnectorType),
		Description:             c.Description,
		State:                   string(c.State),
		Tombstone:               c.Tombstone,
		CreateTime:              c.CreateTime,
		UpdateTime:              c.UpdateTime,
	}

	if !view.IsFull() {
		return wire
	}

	wire.Configuration = map[string]interface{}{}
	for k, v := range c.Configuration {
		wire.Configuration[k] = v
	}

	if c.ConnectorDefinition != nil {
		detail := FromConnectorDefinition(*c.ConnectorDefinition, domain.ViewFull)
		wire.ConnectorDefinitionDetail = &detail
	}

	return wire
}

func FromConnectors(connectors []domain.Connector, view domain.View) []Connector {
	wire := make([]Connector, 0, len(connectors))
	for _, c := range connectors {
		wire = append(wire, FromConnector(c, view))
	}
	return wire
}

// ParseUpdateMask splits the comma separated JSON form of a field mask
func ParseUpdateMask(mask string) []string {
	var paths []string
	for _, path := range strings.Split(mask, ",") {
		path = strings.TrimSpace(path)
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}
