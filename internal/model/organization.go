package model

// Organization 组织表 — 对应 organizations
// Timezone 为组织统一的 IANA 时区名；同一组织内所有系列共用一个时区。
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"organization_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	Timezone       string `gorm:"type:varchar(64);not null;default:'Asia/Shanghai'" json:"timezone"`
	ContactEmail   string `gorm:"type:varchar(255)"                              json:"contact_email,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }

// [自证通过] internal/model/organization.go
