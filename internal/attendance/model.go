package attendance

import (
	"strings"
	"time"
)

// Status is the closed set of attendance states. The empty value means
// nothing has been recorded yet.
type Status string

const (
	StatusUnset   Status = ""
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// ParseStatus accepts the four states case-insensitively.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case StatusUnset, StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Record is the current state of one (student, date) cell.
type Record struct {
	StudentID string `json:"student_id" db:"student_id"`
	Date      string `json:"date" db:"date"`
	Status    Status `json:"status" db:"status"`
	Reason    string `json:"reason" db:"reason"`
	Justified bool   `json:"justified" db:"justified"`
}

// Normalize clears absence details from any record that is not an absence.
func (r Record) Normalize() Record {
	if r.Status != StatusAbsent {
		r.Reason = ""
		r.Justified = false
	}
	return r
}

func defaultRecord(studentID, date string) Record {
	return Record{StudentID: studentID, Date: date, Status: StatusUnset}
}

// Change is published after every successful write.
type Change struct {
	Record
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

// Summary aggregates a student's history. Registered counts every stored
// row, including rows whose status was reset to unset.
type Summary struct {
	Registered int `json:"registered"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
}

// Summarize counts records by status.
func Summarize(records []Record) Summary {
	sum := Summary{Registered: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLate:
			sum.Late++
		}
	}
	return sum
}
