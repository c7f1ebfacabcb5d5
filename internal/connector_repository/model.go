package connector_repository

import (
	"time"
)

type Owner struct {
	UID        string    `gorm:"column:uid;primaryKey"`
	ID         string    `gorm:"column:id;uniqueIndex"`
	CreateTime time.Time `gorm:"column:create_time"`
}

func (Owner) TableName() string {
	return "owners"
}

type ConnectorDefinition struct {
	UID              string    `gorm:"column:uid;primaryKey"`
	ID               string    `gorm:"column:id;uniqueIndex"`
	Title            string    `gorm:"column:title"`
	DocumentationURL string    `gorm:"column:documentation_url"`
	ConnectorType    string    `gorm:"column:connector_type;index"`
	Spec             string    `gorm:"column:spec"`
	CreateTime       time.Time `gorm:"column:create_time"`
	UpdateTime       time.Time `gorm:"column:update_time"`
}

func (ConnectorDefinition) TableName() string {
	return "connector_definitions"
}

type Connector struct {
	UID                    string    `gorm:"column:uid;primaryKey"`
	ID                     string    `gorm:"column:id;uniqueIndex:connectors_owner_id_idx"`
	Owner                  string    `gorm:"column:owner;uniqueIndex:connectors_owner_id_idx"`
	ConnectorDefinitionUID string    `gorm:"column:connector_definition_uid"`
	ConnectorType          string    `gorm:"column:connector_type;index"`
	Description            string    `gorm:"column:description"`
	Configuration          string    `gorm:"column:configuration"`
	State                  string    `gorm:"column:state"`
	Tombstone              bool      `gorm:"column:tombstone"`
	CreateTime             time.Time `gorm:"column:create_time"`
	UpdateTime             time.Time `gorm:"column:update_time"`
}

func (Connector) TableName() string {
	return "connectors"
}
