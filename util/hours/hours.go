// Package hours reads the free-text opening hours stored with a location.
package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const NotAvailable = "Hours not available"

type Status struct {
	IsOpen    bool   `json:"isOpen"`
	AllDay    bool   `json:"allDay,omitempty"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

var (
	rangeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*([AaPp][Mm])?\s*[\x{2013}\x{2014}~-]\s*(\d{1,2}):(\d{2})\s*([AaPp][Mm])?`)

	allDayMarkers = []string{"open 24 hours", "24 hours", "24小時", "24 小時", "24小时", "全天"}
	closedMarkers = []string{"closed", "休"}

	englishDays = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	chineseDays = [7][]string{
		{"星期日", "星期天", "週日", "周日"},
		{"星期一", "週一", "周一"},
		{"星期二", "週二", "周二"},
		{"星期三", "週三", "周三"},
		{"星期四", "週四", "周四"},
		{"星期五", "週五", "周五"},
		{"星期六", "週六", "周六"},
	}

	normalizer = strings.NewReplacer("\u202f", " ", "\u2009", " ", "\u00a0", " ", "\uff0c", ",")
)

// Today picks the line for now's weekday out of a provider weekday list,
// which is ordered Monday first.
func Today(weekdayText []string, now time.Time) string {
	idx := (int(now.Weekday()) + 6) % 7
	if idx >= len(weekdayText) || strings.TrimSpace(weekdayText[idx]) == "" {
		return NotAvailable
	}
	return weekdayText[idx]
}

type span struct {
	open, close int
}

func (s span) contains(minute int) bool {
	if s.close <= s.open {
		return minute >= s.open || minute < s.close
	}
	return minute >= s.open && minute < s.close
}

// Evaluate reports whether a place is open at now according to text. It
// returns nil when the text says nothing usable about today.
func Evaluate(text string, now time.Time) *Status {
	text = normalizer.Replace(strings.TrimSpace(text))
	if text == "" || text == NotAvailable {
		return nil
	}

	today, ok := todaySegments(text, now.Weekday())
	if !ok {
		return nil
	}

	lower := strings.ToLower(today)
	for _, m := range allDayMarkers {
		if strings.Contains(lower, m) {
			return &Status{IsOpen: true, AllDay: true}
		}
	}

	spans := parseSpans(today)
	if len(spans) == 0 {
		for _, m := range closedMarkers {
			if strings.Contains(lower, m) {
				return &Status{IsOpen: false}
			}
		}
		return nil
	}

	minute := now.Hour()*60 + now.Minute()
	for _, s := range spans {
		if s.contains(minute) {
			return &Status{IsOpen: true, OpenTime: clock(s.open), CloseTime: clock(s.close)}
		}
	}
	return &Status{IsOpen: false, OpenTime: clock(spans[0].open), CloseTime: clock(spans[0].close)}
}

// todaySegments returns the part of text that applies to day. Text without any
// day names is taken to describe every day.
func todaySegments(text string, day time.Weekday) (string, bool) {
	segments := strings.Split(text, ",")

	anyDay := false
	for _, seg := range segments {
		if _, ok := dayPrefix(seg); ok {
			anyDay = true
			break
		}
	}
	if !anyDay {
		return text, true
	}

	var (
		collected []string
		inToday   bool
	)
	for _, seg := range segments {
		if d, ok := dayPrefix(seg); ok {
			inToday = d == day
		}
		if inToday {
			collected = append(collected, seg)
		}
	}
	if len(collected) == 0 {
		return "", false
	}
	return strings.Join(collected, ","), true
}

func dayPrefix(segment string) (time.Weekday, bool) {
	seg := strings.ToLower(strings.TrimSpace(segment))
	for i, name := range englishDays {
		if strings.HasPrefix(seg, name) {
			return time.Weekday(i), true
		}
	}
	for i, names := range chineseDays {
		for _, name := range names {
			if strings.HasPrefix(seg, name) {
				return time.Weekday(i), true
			}
		}
	}
	return 0, false
}

func parseSpans(text string) []span {
	var spans []span
	for _, m := range rangeRe.FindAllStringSubmatch(text, -1) {
		openMeridiem, closeMeridiem := strings.ToLower(m[3]), strings.ToLower(m[6])
		if openMeridiem == "" {
			openMeridiem = closeMeridiem
		}
		open, ok1 := minutes(m[1], m[2], openMeridiem)
		closing, ok2 := minutes(m[4], m[5], closeMeridiem)
		if !ok1 || !ok2 {
			continue
		}
		spans = append(spans, span{open: open, close: closing})
	}
	return spans
}

func minutes(hh, mm, meridiem string) (int, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, false
	}

	switch meridiem {
	case "am":
		if h < 1 || h > 12 {
			return 0, false
		}
		if h == 12 {
			h = 0
		}
	case "pm":
		if h < 1 || h > 12 {
			return 0, false
		}
		if h != 12 {
			h += 12
		}
	default:
		if h > 24 || (h == 24 && m != 0) {
			return 0, false
		}
		if h == 24 {
			h = 0
		}
	}
	return h*60 + m, true
}

func clock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
