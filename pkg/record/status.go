package record

import (
	"math"
	"strings"
)

// Status is the outcome of an inspection item
type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail"
	StatusNA   Status = "N/A"
)

// ParseStatus maps a free-form status onto Pass, Fail or N/A.
// Anything unrecognised, including the empty string, is N/A.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pass", "passed", "ok":
		return StatusPass
	case "fail", "failed":
		return StatusFail
	default:
		return StatusNA
	}
}

// Normalize returns the closed-enum form of s
func (s Status) Normalize() Status {
	return ParseStatus(string(s))
}

// Arabic returns the Arabic label for the status
func (s Status) Arabic() string {
	switch s.Normalize() {
	case StatusPass:
		return "ناجح"
	case StatusFail:
		return "راسب"
	default:
		return "غير منطبق"
	}
}

// Tally counts item outcomes
type Tally struct {
	Pass int
	Fail int
	NA   int
}

// Add counts one item with status s
func (t *Tally) Add(s Status) {
	switch s.Normalize() {
	case StatusPass:
		t.Pass++
	case StatusFail:
		t.Fail++
	default:
		t.NA++
	}
}

// Total is the number of items counted
func (t Tally) Total() int {
	return t.Pass + t.Fail + t.NA
}

// PassRate is round(Pass / (Pass+Fail) * 100). N/A items are excluded from the
// denominator and the rate is 0 when nothing passed or failed.
func (t Tally) PassRate() int {
	decided := t.Pass + t.Fail
	if decided == 0 {
		return 0
	}
	return int(math.Round(float64(t.Pass) / float64(decided) * 100))
}

// Summarize tallies every item of the inspection
func (r *Inspection) Summarize() Tally {
	var t Tally
	for _, a := range r.Areas {
		for _, it := range a.Items {
			t.Add(it.Status)
		}
	}
	return t
}
