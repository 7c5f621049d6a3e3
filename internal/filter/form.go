package filter

import (
	"sync"
	"time"
)

// Form holds one history view's raw filter inputs and its committed range.
type Form struct {
	mu        sync.Mutex
	date      string
	fromTime  string
	toTime    string
	committed Range
}

// Inputs is the raw, uncommitted state of a Form.
type Inputs struct {
	Date     string `json:"date"`
	FromTime string `json:"fromTime"`
	ToTime   string `json:"toTime"`
}

// Complete reports whether all three inputs are present.
func (in Inputs) Complete() bool {
	return in.Date != "" && in.FromTime != "" && in.ToTime != ""
}

// Set replaces the raw inputs without touching the committed range.
func (f *Form) Set(in Inputs) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.date, f.fromTime, f.toTime = in.Date, in.FromTime, in.ToTime
}

// Inputs returns the current raw inputs.
func (f *Form) Inputs() Inputs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Inputs{Date: f.date, FromTime: f.fromTime, ToTime: f.toTime}
}

// Range returns the committed range.
func (f *Form) Range() Range {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

// Commit builds a range from the current inputs. It is a no-op returning false when
// any input is empty. A construction error leaves the committed range unchanged.
// When Commit returns true the caller resets its page index to 0.
func (f *Form) Commit(loc *time.Location) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in := Inputs{Date: f.date, FromTime: f.fromTime, ToTime: f.toTime}
	if !in.Complete() {
		return false, nil
	}
	r, err := Build(in.Date, in.FromTime, in.ToTime, loc)
	if err != nil {
		return false, err
	}
	f.committed = r
	return true, nil
}

// Reset clears the inputs and the committed range.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.date, f.fromTime, f.toTime = "", "", ""
	f.committed = Range{}
}
