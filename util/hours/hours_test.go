package hours

import (
	"testing"
	"time"
)

// 2025-12-01 is a Monday.
func at(day int, clock string) time.Time {
	t, _ := time.Parse("15:04", clock)
	return time.Date(2025, 12, day, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func TestToday(t *testing.T) {
	week := []string{
		"Monday: 9:00 AM – 5:00 PM",
		"Tuesday: 9:00 AM – 5:00 PM",
		"Wednesday: Closed",
		"Thursday: 9:00 AM – 5:00 PM",
		"Friday: 9:00 AM – 9:00 PM",
		"Saturday: 10:00 AM – 9:00 PM",
		"Sunday: 10:00 AM – 6:00 PM",
	}

	testCases := []struct {
		name string
		text []string
		now  time.Time
		want string
	}{
		{"monday first", week, at(1, "12:00"), week[0]},
		{"wednesday", week, at(3, "12:00"), week[2]},
		{"sunday is last", week, at(7, "12:00"), week[6]},
		{"missing text", nil, at(1, "12:00"), NotAvailable},
		{"short list", week[:2], at(5, "12:00"), NotAvailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Today(tc.text, tc.now); got != tc.want {
				t.Errorf("Today() = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		now       time.Time
		wantNil   bool
		open      bool
		allDay    bool
		openTime  string
		closeTime string
	}{
		{
			name: "chinese line open",
			text: "星期一: 09:00 – 17:00",
			now:  at(1, "10:30"),
			open: true, openTime: "09:00", closeTime: "17:00",
		},
		{
			name: "chinese line closed reports first range",
			text: "星期一: 09:00 – 17:00",
			now:  at(1, "18:00"),
			open: false, openTime: "09:00", closeTime: "17:00",
		},
		{
			name: "second range of the day",
			text: "星期一: 11:00 – 14:00, 17:00 – 21:00, 星期二: 11:00 – 21:00",
			now:  at(1, "18:15"),
			open: true, openTime: "17:00", closeTime: "21:00",
		},
		{
			name: "other day ranges are ignored",
			text: "星期一: 11:00 – 14:00, 星期二: 08:00 – 22:00",
			now:  at(2, "21:00"),
			open: true, openTime: "08:00", closeTime: "22:00",
		},
		{
			name: "english twelve hour clock",
			text: "Monday: 11:00 AM – 2:00 PM, 5:00 – 10:00 PM",
			now:  at(1, "21:59"),
			open: true, openTime: "17:00", closeTime: "22:00",
		},
		{
			name: "narrow spaces from the provider",
			text: "Monday: 9:00\u202fAM\u2009\u2013\u20095:00\u202fPM",
			now:  at(1, "16:00"),
			open: true, openTime: "09:00", closeTime: "17:00",
		},
		{
			name: "crosses midnight",
			text: "Friday: 18:00 – 02:00",
			now:  at(5, "01:30"),
			open: true, openTime: "18:00", closeTime: "02:00",
		},
		{
			name: "no day names applies to today",
			text: "08:00-20:00",
			now:  at(3, "07:59"),
			open: false, openTime: "08:00", closeTime: "20:00",
		},
		{
			name: "open all day",
			text: "Monday: Open 24 hours",
			now:  at(1, "03:00"),
			open: true, allDay: true,
		},
		{
			name: "chinese all day",
			text: "星期一: 24 小時營業",
			now:  at(1, "03:00"),
			open: true, allDay: true,
		},
		{
			name: "closed today",
			text: "Wednesday: Closed",
			now:  at(3, "12:00"),
			open: false,
		},
		{
			name: "chinese rest day",
			text: "星期三: 休息",
			now:  at(3, "12:00"),
			open: false,
		},
		{name: "empty", text: "", now: at(1, "12:00"), wantNil: true},
		{name: "not available", text: NotAvailable, now: at(1, "12:00"), wantNil: true},
		{name: "today missing", text: "Tuesday: 9:00 AM – 5:00 PM", now: at(1, "12:00"), wantNil: true},
		{name: "no ranges", text: "Monday: call ahead", now: at(1, "12:00"), wantNil: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.text, tc.now)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("Evaluate(%q) = %+v; want nil", tc.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Evaluate(%q) = nil", tc.text)
			}
			if got.IsOpen != tc.open || got.AllDay != tc.allDay {
				t.Errorf("Evaluate(%q) open=%v allDay=%v; want open=%v allDay=%v", tc.text, got.IsOpen, got.AllDay, tc.open, tc.allDay)
			}
			if got.OpenTime != tc.openTime || got.CloseTime != tc.closeTime {
				t.Errorf("Evaluate(%q) range %s-%s; want %s-%s", tc.text, got.OpenTime, got.CloseTime, tc.openTime, tc.closeTime)
			}
		})
	}
}
