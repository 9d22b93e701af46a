package cache

import (
	"time"
)

// refreshLocation is the timezone of the exchange directory refresh.
const refreshLocation = "America/New_York"

// TimeUntilNext8AM は次の午前8時（ニューヨーク時間）までの期間を返します。
func TimeUntilNext8AM() time.Duration {
	loc, err := time.LoadLocation(refreshLocation)
	if err != nil {
		loc = time.UTC
	}
	return timeUntilNextHour(time.Now().In(loc), 8)
}

// timeUntilNextHour は now から次の hour 時00分までの期間を返します。
func timeUntilNextHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())

	// 今日の指定時刻が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
