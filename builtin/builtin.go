// Package builtin implements the engine's date/time built-in predicates.
// Every predicate here works purely in UTC.
package builtin

import (
	"time"

	"bitbucket.org/creachadair/stringset"

	"github.com/kbagents/miniprolog/ast"
	"github.com/kbagents/miniprolog/subst"
	"github.com/kbagents/miniprolog/unify"
)

// names is the registry of recognized built-in predicate names, mirrored
// after the teacher's well-known-symbol registry but reduced to the set
// this engine actually implements.
var names = stringset.New(
	"date_time_stamp",
	"stamp_date_time",
	"get_time",
	"current_time",
	"weekday",
	"day_of_week_name",
	"format_time",
)

// IsBuiltin reports whether p names one of the recognized built-in
// predicates (irrespective of arity; arity mismatches are handled by
// Eval, which simply yields no solutions).
func IsBuiltin(p ast.Predicate) bool {
	return names.Contains(p.Name)
}

// Names lists every built-in predicate name, for kb.ListPredicates-style
// introspection.
func Names() []string {
	return names.Elements()
}

// Eval evaluates a built-in goal under s, returning every substitution
// that satisfies it (0 or 1, since none of these predicates are
// nondeterministic) and reports whether the goal name was recognized at
// all, distinguishing "no solutions" from "not a built-in."
func Eval(p ast.Predicate, s subst.Subst) (solutions []subst.Subst, recognized bool) {
	switch p.Name {
	case "date_time_stamp":
		return dateTimeStamp(p, s), true
	case "stamp_date_time":
		return stampDateTime(p, s), true
	case "get_time", "current_time":
		return getTime(p, s), true
	case "weekday":
		return weekday(p, s), true
	case "day_of_week_name":
		return dayOfWeekName(p, s), true
	case "format_time":
		return formatTime(p, s), true
	default:
		return nil, false
	}
}

func numericArg(s subst.Subst, t ast.Term) (float64, bool) {
	c, ok := s.Apply(t).(ast.Const)
	if !ok || !c.IsNumeric() {
		return 0, false
	}
	v, err := c.NumericValue()
	if err != nil {
		return 0, false
	}
	return v, true
}

func unifyOne(a, b ast.Term, s subst.Subst) []subst.Subst {
	if ns, ok := unify.Unify(a, b, s); ok {
		return []subst.Subst{ns}
	}
	return nil
}

// dateTimeStamp implements date_time_stamp(+DateTime, -TimeStamp), where
// DateTime is date(Year, Month, Day, Hour, Min, Sec, _, _, _). Fails (no
// solutions) on out-of-range components, matching the reference
// implementation's catch of construction errors.
func dateTimeStamp(p ast.Predicate, s subst.Subst) []subst.Subst {
	if len(p.Args) != 2 {
		return nil
	}
	dateTerm, ok := s.Apply(p.Args[0]).(ast.Predicate)
	if !ok || dateTerm.Name != "date" || len(dateTerm.Args) < 6 {
		return nil
	}
	var nums [6]int
	for i := 0; i < 6; i++ {
		v, ok := numericArg(s, dateTerm.Args[i])
		if !ok {
			return nil
		}
		nums[i] = int(v)
	}
	year, month, day, hour, minute, second := nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]
	if !validCalendarDate(year, month, day) {
		return nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return nil
	}
	dt := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	ts := ast.NewNumberFromFloat(float64(dt.Unix()))
	return unifyOne(p.Args[1], ts, s)
}

// stampDateTime implements stamp_date_time(+TimeStamp, -DateTime,
// +TimeZone). Only UTC is supported; the TimeZone argument is accepted
// but never examined, so any term is allowed there.
func stampDateTime(p ast.Predicate, s subst.Subst) []subst.Subst {
	if len(p.Args) != 3 {
		return nil
	}
	tsValue, ok := numericArg(s, p.Args[0])
	if !ok {
		return nil
	}
	dt := time.Unix(int64(tsValue), 0).UTC()
	weekday := isoWeekday(dt.Weekday())
	yearDay := dt.YearDay()
	dateStruct := ast.NewPredicate("date",
		ast.NewNumberFromFloat(float64(dt.Year())),
		ast.NewNumberFromFloat(float64(dt.Month())),
		ast.NewNumberFromFloat(float64(dt.Day())),
		ast.NewNumberFromFloat(float64(dt.Hour())),
		ast.NewNumberFromFloat(float64(dt.Minute())),
		ast.NewNumberFromFloat(float64(dt.Second())),
		ast.NewNumberFromFloat(float64(weekday)),
		ast.NewNumberFromFloat(float64(yearDay)),
		ast.NewNumberFromFloat(0),
	)
	return unifyOne(p.Args[1], dateStruct, s)
}

// nowFunc is indirected for deterministic testing.
var nowFunc = time.Now

// getTime implements get_time(-TimeStamp) and its alias current_time/1.
func getTime(p ast.Predicate, s subst.Subst) []subst.Subst {
	if len(p.Args) != 1 {
		return nil
	}
	ts := ast.NewNumberFromFloat(float64(nowFunc().UTC().Unix()))
	return unifyOne(p.Args[0], ts, s)
}

// weekday implements weekday(+Year, +Month, +Day, -WeekDay), 1=Monday
// through 7=Sunday (ISO 8601). Fails on out-of-range components.
func weekday(p ast.Predicate, s subst.Subst) []subst.Subst {
	if len(p.Args) != 4 {
		return nil
	}
	y, ok1 := numericArg(s, p.Args[0])
	m, ok2 := numericArg(s, p.Args[1])
	d, ok3 := numericArg(s, p.Args[2])
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	year, month, day := int(y), int(m), int(d)
	if !validCalendarDate(year, month, day) {
		return nil
	}
	dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	wd := ast.NewNumberFromFloat(float64(isoWeekday(dt.Weekday())))
	return unifyOne(p.Args[3], wd, s)
}

var weekdayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// dayOfWeekName implements day_of_week_name(+WeekDay, -Name), converting
// an ISO weekday number (1=Monday..7=Sunday) to its lowercase English
// name. This is a domain-stack extra, not part of the original predicate
// table, added alongside the other date/time built-ins.
func dayOfWeekName(p ast.Predicate, s subst.Subst) []subst.Subst {
	if len(p.Args) != 2 {
		return nil
	}
	v, ok := numericArg(s, p.Args[0])
	if !ok {
		return nil
	}
	idx := int(v)
	if idx < 1 || idx > 7 {
		return nil
	}
	name := ast.NewAtom(weekdayNames[idx-1])
	return unifyOne(p.Args[1], name, s)
}

// formatTime implements format_time(+TimeStamp, -Text), rendering a Unix
// timestamp as an RFC3339 string constant in UTC.
func formatTime(p ast.Predicate, s subst.Subst) []subst.Subst {
	if len(p.Args) != 2 {
		return nil
	}
	tsValue, ok := numericArg(s, p.Args[0])
	if !ok {
		return nil
	}
	dt := time.Unix(int64(tsValue), 0).UTC()
	text := ast.NewString(dt.Format(time.RFC3339))
	return unifyOne(p.Args[1], text, s)
}

// isoWeekday converts Go's Sunday=0..Saturday=6 to ISO 8601's
// Monday=1..Sunday=7.
func isoWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// validCalendarDate rejects component combinations that time.Date would
// silently normalize (e.g. month 13, or day 30 in February) by
// re-rendering and comparing, so that builtin calls fail rather than
// succeed against a rolled-over date.
func validCalendarDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	dt := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return dt.Year() == year && int(dt.Month()) == month && dt.Day() == day
}
