package dto

import "volunhub/backend/internal/recurrence"

// ── 活动系列模块 DTO ──

// PatternRequest 重复模式请求体
// 语义校验（锚点互斥、星期范围等）由 recurrence.Validate 统一负责，
// binding 只拦截结构性缺失。
type PatternRequest struct {
	Frequency       string `json:"frequency"        binding:"required"`
	Interval        int    `json:"interval"         binding:"required"`
	Weekdays        []int  `json:"weekdays"`
	MonthDay        int    `json:"month_day"`
	WeekPos         int    `json:"week_pos"`
	PosWeekday      int    `json:"pos_weekday"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

// ToPattern 转换为核心模式值对象
func (r *PatternRequest) ToPattern() recurrence.Pattern {
	return recurrence.Pattern{
		Frequency:       r.Frequency,
		Interval:        r.Interval,
		Weekdays:        r.Weekdays,
		MonthDay:        r.MonthDay,
		WeekPos:         r.WeekPos,
		PosWeekday:      r.PosWeekday,
		DurationMinutes: r.DurationMinutes,
	}
}

// CreateSeriesRequest 创建系列请求
type CreateSeriesRequest struct {
	Title            string         `json:"title"             binding:"required,max=200"`
	Pattern          PatternRequest `json:"pattern"           binding:"required"`
	StartsAt         string         `json:"starts_at"         binding:"required"` // 组织时区的本地时间
	OccurrenceCount  int            `json:"occurrence_count"  binding:"required"`
	RoleRequirements map[string]int `json:"role_requirements"`
}

// PatternResponse 重复模式回显
type PatternResponse struct {
	Frequency       string `json:"frequency"`
	Interval        int    `json:"interval"`
	Weekdays        []int  `json:"weekdays,omitempty"`
	MonthDay        int    `json:"month_day,omitempty"`
	WeekPos         int    `json:"week_pos,omitempty"`
	PosWeekday      int    `json:"pos_weekday,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

// SeriesResponse 系列信息响应
type SeriesResponse struct {
	ID               string               `json:"id"`
	OrganizationID   string               `json:"organization_id"`
	Title            string               `json:"title"`
	Pattern          PatternResponse      `json:"pattern"`
	StartsAt         string               `json:"starts_at"`
	OccurrenceCount  int                  `json:"occurrence_count"`
	RoleRequirements map[string]int       `json:"role_requirements,omitempty"`
	Summary          string               `json:"summary"`
	CreatedAt        string               `json:"created_at"`
	Occurrences      []OccurrenceResponse `json:"occurrences,omitempty"`
}

// CreateSeriesResponse 创建系列响应
type CreateSeriesResponse struct {
	Series             SeriesResponse `json:"series"`
	OccurrencesCreated int            `json:"occurrences_created"`
}

// DeleteSeriesResponse 删除系列响应（级联清理计数）
type DeleteSeriesResponse struct {
	OccurrencesRemoved int64 `json:"occurrences_removed"`
	ExceptionsRemoved  int64 `json:"exceptions_removed"`
}

// [自证通过] internal/dto/series.go
