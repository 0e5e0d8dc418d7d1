// Package grid assembles the weekly attendance grid and the per-student
// detail view from the roster and the attendance store. It holds no state:
// the displayed week and the selected student arrive as arguments, and every
// call re-reads storage.
package grid

import (
	"context"
	"time"

	"rollbook/internal/apperror"
	"rollbook/internal/attendance"
	"rollbook/internal/roster"
)

// Roster is the read side of the roster registry.
type Roster interface {
	List(ctx context.Context) ([]roster.Student, error)
	Get(ctx context.Context, id string) (*roster.Student, error)
}

// Records is the read side of the attendance service.
type Records interface {
	GetRecord(ctx context.Context, studentID, date string) (attendance.Record, error)
	GetHistory(ctx context.Context, studentID string) ([]attendance.Record, error)
}

// Week names the days of one displayed week.
type Week struct {
	Monday   string `json:"monday"`
	Sunday   string `json:"sunday"`
	Tuesday  string `json:"tuesday"`
	Thursday string `json:"thursday"`
	Prev     string `json:"prev"`
	Next     string `json:"next"`
}

// NewWeek builds the week containing day.
func NewWeek(day time.Time) Week {
	monday := attendance.MondayOf(day)
	tue, thu := attendance.WeekDays(monday)
	return Week{
		Monday:   attendance.FormatDate(monday),
		Sunday:   attendance.FormatDate(monday.AddDate(0, 0, 6)),
		Tuesday:  attendance.FormatDate(tue),
		Thursday: attendance.FormatDate(thu),
		Prev:     attendance.FormatDate(monday.AddDate(0, 0, -7)),
		Next:     attendance.FormatDate(monday.AddDate(0, 0, 7)),
	}
}

// Row is one student's line in the grid.
type Row struct {
	Student  roster.Student    `json:"student"`
	Tuesday  attendance.Record `json:"tuesday"`
	Thursday attendance.Record `json:"thursday"`
}

type WeekView struct {
	Week Week  `json:"week"`
	Rows []Row `json:"rows"`
}

// StudentDetail backs the detail dialog: the selected week's two cells,
// lifetime counts and the full history table.
type StudentDetail struct {
	Student  roster.Student      `json:"student"`
	Week     Week                `json:"week"`
	Tuesday  attendance.Record   `json:"tuesday"`
	Thursday attendance.Record   `json:"thursday"`
	Summary  attendance.Summary  `json:"summary"`
	History  []attendance.Record `json:"history"`
}

type Builder struct {
	roster  Roster
	records Records
}

func NewBuilder(r Roster, records Records) *Builder {
	return &Builder{roster: r, records: records}
}

// WeekView returns the grid for the week containing day, one row per
// student in roster order.
func (b *Builder) WeekView(ctx context.Context, day time.Time) (WeekView, error) {
	week := NewWeek(day)
	students, err := b.roster.List(ctx)
	if err != nil {
		return WeekView{}, err
	}

	rows := make([]Row, 0, len(students))
	for _, s := range students {
		tue, thu, err := b.cells(ctx, s.ID, week)
		if err != nil {
			return WeekView{}, err
		}
		rows = append(rows, Row{Student: s, Tuesday: tue, Thursday: thu})
	}
	return WeekView{Week: week, Rows: rows}, nil
}

// StudentDetail returns the detail view for one student.
func (b *Builder) StudentDetail(ctx context.Context, studentID string, day time.Time) (StudentDetail, error) {
	s, err := b.roster.Get(ctx, studentID)
	if err != nil {
		return StudentDetail{}, err
	}
	if s == nil {
		return StudentDetail{}, apperror.NotFound("student not found")
	}

	week := NewWeek(day)
	tue, thu, err := b.cells(ctx, s.ID, week)
	if err != nil {
		return StudentDetail{}, err
	}
	history, err := b.records.GetHistory(ctx, s.ID)
	if err != nil {
		return StudentDetail{}, err
	}
	if history == nil {
		history = []attendance.Record{}
	}

	return StudentDetail{
		Student:  *s,
		Week:     week,
		Tuesday:  tue,
		Thursday: thu,
		Summary:  attendance.Summarize(history),
		History:  history,
	}, nil
}

func (b *Builder) cells(ctx context.Context, studentID string, week Week) (tue, thu attendance.Record, err error) {
	if tue, err = b.records.GetRecord(ctx, studentID, week.Tuesday); err != nil {
		return
	}
	thu, err = b.records.GetRecord(ctx, studentID, week.Thursday)
	return
}
