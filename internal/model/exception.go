package model

import "time"

// 例外类型
const (
	ExceptionSkip   = "skip"
	ExceptionModify = "modify"
)

// SeriesException 系列例外表 — 对应 series_exceptions
//
// OriginalStartsAt 是模式生成的基准时间戳，作为连接键回溯到
// （可能已被删除的）场次；同一 (series_id, original_starts_at)
// 至多一条例外，由唯一索引兜底。
type SeriesException struct {
	ExceptionID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exception_id"`
	SeriesID         string     `gorm:"type:uuid;not null"                             json:"series_id"`
	OriginalStartsAt time.Time  `gorm:"not null"                                       json:"original_starts_at"`
	Type             string     `gorm:"type:varchar(10);not null"                      json:"type"` // skip | modify
	ModifiedStartsAt *time.Time `json:"modified_starts_at,omitempty"`                  // type=modify 时必填
	Reason           string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	VersionedModel

	// 关联
	Series *EventSeries `gorm:"foreignKey:SeriesID;references:SeriesID" json:"series,omitempty"`
}

// TableName 指定表名
func (SeriesException) TableName() string { return "series_exceptions" }

// [自证通过] internal/model/exception.go
