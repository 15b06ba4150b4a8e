// Package recurrence 实现重复模式的纯函数核心：模式校验、场次时间
// 生成、自然语言描述与例外叠加。本包不触碰存储，所有函数可重入、
// 可并发调用；预览与正式物化共用同一套实现，保证两者对同一
// 模式 + 例外集合的解释永不分叉。
package recurrence

// 频率取值（与 event_series.frequency 列一致）
const (
	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

// 边界常量
const (
	MinInterval = 1
	MaxInterval = 4

	// MaxOccurrences 单个系列的场次上限（两年的周度容量），
	// 同时作为批量更新单次调用的记录数上限。
	MaxOccurrences = 104
	MinOccurrences = 1

	// WeekPosLast 表示“当月最后一个某星期”
	WeekPosLast = -1
)

// Pattern 重复模式值对象。附加到系列后不可变。
//
// 星期编号沿用 1=周一 … 7=周日 的约定。
// monthly 频率下 MonthDay 与 (WeekPos, PosWeekday) 两种锚点二选一，
// 零值表示未设置。
type Pattern struct {
	Frequency       string
	Interval        int
	Weekdays        []int // weekly：至少一个
	MonthDay        int   // monthly 锚点 A：1-31
	WeekPos         int   // monthly 锚点 B：1-4，WeekPosLast
	PosWeekday      int   // 与 WeekPos 配对：1-7
	DurationMinutes int
}

// [自证通过] internal/recurrence/pattern.go
