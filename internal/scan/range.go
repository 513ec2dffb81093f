package scan

import "time"

// 요일별 스캔 확장 일수 (time.Weekday 인덱스: Sunday=0)
// 왜 요일별로 다른가: 주말은 거래일이 아니므로, "배당락일까지 최소 영업일
// 4일 이상 남은 종목"을 놓치지 않기 위해 목/금/주말에는 범위를 더 확장한다.
//   일 +5  월 +4  화 +4  수 +4  목 +5  금 +5  토 +6
var weekdayScanDays = [7]int{5, 4, 4, 4, 5, 5, 6}

// CalculateScanRange returns the inclusive [start, end] ex-dividend scan
// window for a given date. Pure and total over all calendar dates.
func CalculateScanRange(today time.Time) (time.Time, time.Time) {
	days := weekdayScanDays[int(today.Weekday())]
	return today, today.AddDate(0, 0, days)
}

// CalculateScanRangeWithOverride applies a manual day-count override.
// 양수 오버라이드가 있으면 요일 테이블을 무시하고 [today, today+override]를 쓴다.
func CalculateScanRangeWithOverride(today time.Time, overrideDays int) (time.Time, time.Time) {
	if overrideDays > 0 {
		return today, today.AddDate(0, 0, overrideDays)
	}
	return CalculateScanRange(today)
}
