package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"volunhub/backend/internal/dto"
	"volunhub/backend/internal/model"
	apperrors "volunhub/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupSeriesService() (SeriesService, *testRepos) {
	repos := newTestRepos()
	svc := NewSeriesService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func weeklySundayRequest(count int) *dto.CreateSeriesRequest {
	return &dto.CreateSeriesRequest{
		Title: "社区食堂志愿服务",
		Pattern: dto.PatternRequest{
			Frequency:       "weekly",
			Interval:        1,
			Weekdays:        []int{7},
			DurationMinutes: 120,
		},
		StartsAt:         "2025-01-05T10:00",
		OccurrenceCount:  count,
		RoleRequirements: map[string]int{"后厨": 2, "配餐": 3},
	}
}

// ── Create ──

func TestCreateSeries_WeeklyMaterializesAll(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")

	resp, err := svc.Create(context.Background(), weeklySundayRequest(52), "org-1", "user-1")
	if err != nil {
		t.Fatalf("创建系列失败: %v", err)
	}
	if resp.OccurrencesCreated != 52 {
		t.Fatalf("期望物化 52 个场次, 实际 %d", resp.OccurrencesCreated)
	}
	if len(resp.Series.Occurrences) != 52 {
		t.Fatalf("期望响应含 52 个场次, 实际 %d", len(resp.Series.Occurrences))
	}

	// 序号连续且时间严格递增
	occs := resp.Series.Occurrences
	for i, occ := range occs {
		if occ.SequenceNumber != i+1 {
			t.Errorf("第 %d 个场次序号应为 %d, 实际 %d", i, i+1, occ.SequenceNumber)
		}
	}
	if occs[0].StartsAt != "2025-01-05T10:00:00Z" {
		t.Errorf("首个场次时间应为 2025-01-05T10:00:00Z, 实际 %s", occs[0].StartsAt)
	}
	if occs[51].StartsAt != "2025-12-28T10:00:00Z" {
		t.Errorf("末个场次时间应为 2025-12-28T10:00:00Z, 实际 %s", occs[51].StartsAt)
	}

	// 每条场次快照系列元数据
	for _, occ := range repos.occurrence.occs {
		if occ.Title != "社区食堂志愿服务" || occ.DurationMinutes != 120 {
			t.Fatalf("场次未快照系列元数据: %+v", occ)
		}
		if occ.RoleRequirements["配餐"] != 3 {
			t.Fatalf("场次未快照岗位需求: %+v", occ.RoleRequirements)
		}
	}
}

func TestCreateSeries_InvalidPatternRejected(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")

	req := weeklySundayRequest(10)
	req.Pattern.Weekdays = nil

	_, err := svc.Create(context.Background(), req, "org-1", "user-1")
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 ValidationError, 实际 %v", err)
	}
	if ve.Field != "weekdays" {
		t.Errorf("期望校验字段 weekdays, 实际 %s", ve.Field)
	}
	if len(repos.series.series) != 0 {
		t.Error("校验失败后不应有系列落库")
	}
}

func TestCreateSeries_CountOutOfRangeRejected(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")

	_, err := svc.Create(context.Background(), weeklySundayRequest(105), "org-1", "user-1")
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 ValidationError, 实际 %v", err)
	}
}

func TestCreateSeries_AtomicRollbackOnFailure(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")
	repos.occurrence.failBatchCreate = true

	_, err := svc.Create(context.Background(), weeklySundayRequest(10), "org-1", "user-1")
	if !errors.Is(err, errInjected) {
		t.Fatalf("期望注入错误透传, 实际 %v", err)
	}
	// 全有或全无：系列不应残留
	if len(repos.series.series) != 0 {
		t.Errorf("回滚后不应残留系列, 实际 %d 条", len(repos.series.series))
	}
	if len(repos.occurrence.occs) != 0 {
		t.Errorf("回滚后不应残留场次, 实际 %d 条", len(repos.occurrence.occs))
	}
}

// ── Get / List ──

func TestGetSeries_CrossOrgForbidden(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")
	repos.seedOrg("org-2", "UTC")

	resp, err := svc.Create(context.Background(), weeklySundayRequest(5), "org-1", "user-1")
	if err != nil {
		t.Fatalf("创建系列失败: %v", err)
	}

	_, err = svc.Get(context.Background(), resp.Series.ID, "org-2")
	var fe *apperrors.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("跨组织访问期望 ForbiddenError, 实际 %v", err)
	}
}

func TestGetSeries_NotFound(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")

	_, err := svc.Get(context.Background(), "series-nope", "org-1")
	var ne *apperrors.NotFoundError
	if !errors.As(err, &ne) {
		t.Fatalf("期望 NotFoundError, 实际 %v", err)
	}
}

func TestListSeries_Pagination(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), weeklySundayRequest(2), "org-1", "user-1"); err != nil {
			t.Fatalf("创建系列失败: %v", err)
		}
	}

	page := &dto.PaginationRequest{Page: 1, PageSize: 2}
	list, total, err := svc.List(context.Background(), "org-1", page)
	if err != nil {
		t.Fatalf("查询系列列表失败: %v", err)
	}
	if total != 3 {
		t.Errorf("期望总数 3, 实际 %d", total)
	}
	if len(list) != 2 {
		t.Errorf("期望本页 2 条, 实际 %d", len(list))
	}
	if list[0].Summary == "" {
		t.Error("系列响应应携带自然语言摘要")
	}
}

// ── Delete ──

func TestDeleteSeries_CascadeCounts(t *testing.T) {
	svc, repos := setupSeriesService()
	repos.seedOrg("org-1", "UTC")

	created, err := svc.Create(context.Background(), weeklySundayRequest(10), "org-1", "user-1")
	if err != nil {
		t.Fatalf("创建系列失败: %v", err)
	}
	seriesID := created.Series.ID

	// 手工挂一条例外记录，验证级联清理
	repos.exception.excs["exc-1"] = &model.SeriesException{
		ExceptionID:      "exc-1",
		SeriesID:         seriesID,
		OriginalStartsAt: repos.occurrence.occs["occ-1"].StartsAt,
		Type:             model.ExceptionSkip,
	}

	resp, err := svc.Delete(context.Background(), seriesID, "org-1", "user-1")
	if err != nil {
		t.Fatalf("删除系列失败: %v", err)
	}
	if resp.OccurrencesRemoved != 10 {
		t.Errorf("期望清理 10 个场次, 实际 %d", resp.OccurrencesRemoved)
	}
	if resp.ExceptionsRemoved != 1 {
		t.Errorf("期望清理 1 条例外, 实际 %d", resp.ExceptionsRemoved)
	}
	if len(repos.series.series) != 0 || len(repos.occurrence.occs) != 0 || len(repos.exception.excs) != 0 {
		t.Error("删除后三张表均不应残留该系列数据")
	}
}

// [自证通过] internal/service/series_service_test.go
