package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"volunhub/backend/internal/dto"
	apperrors "volunhub/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupOccurrenceService(t *testing.T, count int) (OccurrenceService, *testRepos, []string) {
	t.Helper()
	repos := newTestRepos()
	repos.seedOrg("org-1", "UTC")

	seriesSvc := NewSeriesService(repos.toRepository(), zap.NewNop())
	created, err := seriesSvc.Create(context.Background(), weeklySundayRequest(count), "org-1", "user-1")
	if err != nil {
		t.Fatalf("准备系列失败: %v", err)
	}

	ids := make([]string, 0, count)
	for _, occ := range created.Series.Occurrences {
		ids = append(ids, occ.ID)
	}

	svc := NewOccurrenceService(repos.toRepository(), zap.NewNop())
	return svc, repos, ids
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// ── BulkUpdate ──

func TestBulkUpdate_AppliesToAll(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 10)

	resp, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs:    ids,
		Title:            strPtr("改版后的活动"),
		DurationMinutes:  intPtr(90),
		RoleRequirements: map[string]int{"引导": 1},
	}, "org-1", "user-1")
	if err != nil {
		t.Fatalf("批量更新失败: %v", err)
	}
	if resp.Updated != 10 {
		t.Fatalf("期望更新 10 条, 实际 %d", resp.Updated)
	}

	for _, occ := range repos.occurrence.occs {
		if occ.Title != "改版后的活动" || occ.DurationMinutes != 90 {
			t.Fatalf("场次未应用更新: %+v", occ)
		}
		if occ.RoleRequirements["引导"] != 1 {
			t.Fatalf("岗位需求未应用更新: %+v", occ.RoleRequirements)
		}
	}
}

func TestBulkUpdate_PartialFieldsOnly(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 3)

	_, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs: ids[:2],
		Title:         strPtr("只改标题"),
	}, "org-1", "user-1")
	if err != nil {
		t.Fatalf("批量更新失败: %v", err)
	}

	// 未指定的字段保持原值
	for _, occ := range repos.occurrence.occs {
		if occ.DurationMinutes != 120 {
			t.Errorf("未指定的时长不应变化, 实际 %d", occ.DurationMinutes)
		}
	}
}

func TestBulkUpdate_MissingIDRejectsWhole(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 5)

	_, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs: append(ids, "occ-ghost"),
		Title:         strPtr("不应生效"),
	}, "org-1", "user-1")
	var ne *apperrors.NotFoundError
	if !errors.As(err, &ne) {
		t.Fatalf("含未知 ID 期望 NotFoundError, 实际 %v", err)
	}
	if ne.ID != "occ-ghost" {
		t.Errorf("期望报告未知 ID occ-ghost, 实际 %s", ne.ID)
	}

	// 全有或全无：合法场次也不应被更新
	for _, occ := range repos.occurrence.occs {
		if occ.Title == "不应生效" {
			t.Fatal("部分失败时不应有任何场次被更新")
		}
	}
}

func TestBulkUpdate_CrossOrgForbidden(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 3)
	repos.seedOrg("org-2", "UTC")

	_, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs: ids,
		Title:         strPtr("越权"),
	}, "org-2", "user-9")
	var fe *apperrors.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("跨组织更新期望 ForbiddenError, 实际 %v", err)
	}
}

func TestBulkUpdate_NoFieldsRejected(t *testing.T) {
	svc, _, ids := setupOccurrenceService(t, 3)

	_, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs: ids,
	}, "org-1", "user-1")
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("无更新字段期望 ValidationError, 实际 %v", err)
	}
}

func TestBulkUpdate_TooManyIDsRejected(t *testing.T) {
	svc, _, _ := setupOccurrenceService(t, 3)

	ids := make([]string, 105)
	for i := range ids {
		ids[i] = fmt.Sprintf("occ-%d", i)
	}
	_, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs: ids,
		Title:         strPtr("超限"),
	}, "org-1", "user-1")
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("超出上限期望 ValidationError, 实际 %v", err)
	}
}

func TestBulkUpdate_ExceptionOccurrenceEligible(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 5)

	// 先把第 2 个场次改期
	excSvc := NewExceptionService(repos.toRepository(), zap.NewNop())
	if _, err := excSvc.Create(context.Background(), *repos.occurrence.occs[ids[0]].SeriesID, &dto.CreateExceptionRequest{
		OriginalStartsAt: "2025-01-12T10:00",
		Type:             "modify",
		ModifiedStartsAt: "2025-01-13T14:00",
	}, "org-1", "user-1"); err != nil {
		t.Fatalf("准备改期例外失败: %v", err)
	}

	// 改期场次同样接受元数据更新
	resp, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs:   ids,
		DurationMinutes: intPtr(60),
	}, "org-1", "user-1")
	if err != nil {
		t.Fatalf("批量更新失败: %v", err)
	}
	if resp.Updated != 5 {
		t.Fatalf("期望更新 5 条, 实际 %d", resp.Updated)
	}
	for _, occ := range repos.occurrence.occs {
		if occ.DurationMinutes != 60 {
			t.Errorf("场次 %s 未应用时长更新", occ.OccurrenceID)
		}
		// 改期场次的时间戳不受元数据更新影响
		if occ.SequenceNumber == 2 && occ.StartsAt.Format("2006-01-02T15:04") != "2025-01-13T14:00" {
			t.Errorf("元数据更新不应触碰改期时间, 实际 %s", occ.StartsAt)
		}
	}
}

func TestBulkUpdate_AtomicRollbackOnFailure(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 5)
	repos.occurrence.failUpdateFields = true

	_, err := svc.BulkUpdate(context.Background(), &dto.BulkUpdateRequest{
		OccurrenceIDs: ids,
		Title:         strPtr("不应生效"),
	}, "org-1", "user-1")
	if !errors.Is(err, errInjected) {
		t.Fatalf("期望注入错误透传, 实际 %v", err)
	}
	for _, occ := range repos.occurrence.occs {
		if occ.Title == "不应生效" {
			t.Fatal("失败后不应有任何场次被更新")
		}
	}
}

// ── Get / List ──

func TestGetOccurrence_CrossOrgForbidden(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 3)
	repos.seedOrg("org-2", "UTC")

	_, err := svc.Get(context.Background(), ids[0], "org-2")
	var fe *apperrors.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("跨组织访问期望 ForbiddenError, 实际 %v", err)
	}
}

func TestListOccurrences_TimeRangeFilter(t *testing.T) {
	svc, _, _ := setupOccurrenceService(t, 10)

	// [01-12, 02-02)：命中第 2、3、4 个周日
	list, total, err := svc.List(context.Background(), "org-1", &dto.OccurrenceListRequest{
		From: "2025-01-12T00:00",
		To:   "2025-02-02T00:00",
	})
	if err != nil {
		t.Fatalf("查询场次列表失败: %v", err)
	}
	if total != 3 {
		t.Errorf("期望命中 3 个场次, 实际 %d", total)
	}
	if len(list) != 3 {
		t.Fatalf("期望返回 3 个场次, 实际 %d", len(list))
	}
	if list[0].StartsAt != "2025-01-12T10:00:00Z" {
		t.Errorf("期望首条 2025-01-12T10:00:00Z, 实际 %s", list[0].StartsAt)
	}
}

func TestListOccurrences_BySeries(t *testing.T) {
	svc, repos, ids := setupOccurrenceService(t, 4)

	seriesID := *repos.occurrence.occs[ids[0]].SeriesID
	list, total, err := svc.List(context.Background(), "org-1", &dto.OccurrenceListRequest{SeriesID: seriesID})
	if err != nil {
		t.Fatalf("按系列查询失败: %v", err)
	}
	if total != 4 || len(list) != 4 {
		t.Fatalf("期望 4 个场次, 实际 total=%d len=%d", total, len(list))
	}
	for i, occ := range list {
		if occ.SequenceNumber != i+1 {
			t.Errorf("按系列查询应按序号升序, 位置 %d 序号 %d", i, occ.SequenceNumber)
		}
	}
}

// [自证通过] internal/service/occurrence_service_test.go
