package grading

import (
	"math"
	"time"
)

const (
	// XPPerCorrect 每答对一题获得的经验值
	XPPerCorrect = 10
	// XPPerLevel 每升一级所需经验值
	XPPerLevel = 100
	// DefaultMaxStreakDays 连续学习天数的最大回溯天数
	DefaultMaxStreakDays = 365

	dayLayout = "2006-01-02"
)

// Percent 计算 round(100 * part / whole)，采用四舍六入五成双；whole 为 0 时返回 0
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.RoundToEven(100 * float64(part) / float64(whole)))
}

// XPDelta 一次评分获得的经验值，无部分得分、无难度加权
func XPDelta(correct int) int {
	if correct <= 0 {
		return 0
	}
	return correct * XPPerCorrect
}

// Level 固定 100 经验一级
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

// Streak 从 now 所在日期（loc 时区）开始向前逐日回溯，
// 统计连续有活动记录的天数，遇到第一个空档即停止，最多回溯 maxDays 天。
func Streak(activity []time.Time, now time.Time, loc *time.Location, maxDays int) int {
	if loc == nil {
		loc = time.UTC
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxStreakDays
	}
	days := make(map[string]struct{}, len(activity))
	for _, t := range activity {
		if t.IsZero() {
			continue
		}
		days[t.In(loc).Format(dayLayout)] = struct{}{}
	}

	y, m, d := now.In(loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	streak := 0
	for streak < maxDays {
		if _, ok := days[day.Format(dayLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
