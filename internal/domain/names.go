package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	ConnectorCollection           = "connectors"
	ConnectorDefinitionCollection = "connector-definitions"
	OwnerCollection               = "users"
)

var ErrInvalidResourceName = errors.New("invalid resource name")

var connectorIDPattern = regexp.MustCompile(`^[a-z_][-a-z_0-9]{0,62}$`)

func ConnectorName(id ConnectorID) string {
	return ConnectorCollection + "/" + string(id)
}

func ConnectorPermalink(uid uuid.UUID) string {
	return ConnectorCollection + "/" + uid.String()
}

func ConnectorDefinitionName(id string) string {
	return ConnectorDefinitionCollection + "/" + id
}

func OwnerPermalink(uid uuid.UUID) string {
	return OwnerCollection + "/" + uid.String()
}

// ParseResourceName returns the id in a "{collection}/{id}" resource name.  A bare id is accepted as is.
func ParseResourceName(collection string, name string) (string, error) {
	id := name
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		if name[:idx] != collection {
			return "", ErrInvalidResourceName
		}
		id = name[idx+1:]
	}

	if id == "" {
		return "", ErrInvalidResourceName
	}

	return id, nil
}

func ParseConnectorName(name string) (ConnectorID, error) {
	id, err := ParseResourceName(ConnectorCollection, name)
	return ConnectorID(id), err
}

func ParseConnectorDefinitionName(name string) (string, error) {
	return ParseResourceName(ConnectorDefinitionCollection, name)
}

func ParseConnectorPermalink(permalink string) (uuid.UUID, error) {
	id, err := ParseResourceName(ConnectorCollection, permalink)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(id)
}

func ValidConnectorID(id ConnectorID) bool {
	return connectorIDPattern.MatchString(string(id))
}
