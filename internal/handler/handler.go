// Package handler exposes the roster, the attendance store and the grid views
// over HTTP.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollbook/internal/apperror"
	"rollbook/internal/attendance"
	"rollbook/internal/grid"
	"rollbook/internal/roster"
)

type Roster interface {
	List(ctx context.Context) ([]roster.Student, error)
}

type Attendance interface {
	GetRecord(ctx context.Context, studentID, date string) (attendance.Record, error)
	UpsertRecord(ctx context.Context, studentID, date string, status attendance.Status, reason string, justified bool) error
}

type Views interface {
	WeekView(ctx context.Context, day time.Time) (grid.WeekView, error)
	StudentDetail(ctx context.Context, studentID string, day time.Time) (grid.StudentDetail, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

type Handler struct {
	roster    Roster
	records   Attendance
	views     Views
	startWeek time.Time
	checks    map[string]HealthCheck
	log       *zap.Logger
}

// New builds a handler. startWeek is the week shown when a request names
// none; the zero time means the week of the current date.
func New(r Roster, records Attendance, views Views, startWeek time.Time, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		roster:    r,
		records:   records,
		views:     views,
		startWeek: startWeek,
		checks:    map[string]HealthCheck{},
		log:       logger,
	}
}

// AddCheck registers a dependency probed by /healthz.
func (h *Handler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// Register mounts all routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.GET("/students", h.ListStudents)
	api.GET("/weeks", h.WeekView)
	api.GET("/students/:id/attendance/:date", h.GetRecord)
	api.PUT("/students/:id/attendance/:date", h.UpsertRecord)
	api.GET("/students/:id/detail", h.StudentDetail)
}

func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK
	for name, check := range h.checks {
		ok := check(c.Request.Context())
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	c.JSON(status, body)
}

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

func (h *Handler) WeekView(c *gin.Context) {
	day, err := h.week(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	view, err := h.views.WeekView(c.Request.Context(), day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.records.GetRecord(c.Request.Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type upsertRequest struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Justified bool   `json:"justified"`
}

// UpsertRecord applies one edit and answers with the stored record as it
// reads back after the write.
func (h *Handler) UpsertRecord(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.Wrap(err, apperror.CodeInvalidInput, "malformed request body", http.StatusBadRequest))
		return
	}
	status, ok := attendance.ParseStatus(req.Status)
	if !ok {
		h.writeError(c, apperror.Constraint("status", "status must be one of present, absent, late or empty"))
		return
	}

	ctx := c.Request.Context()
	id, date := c.Param("id"), c.Param("date")
	if err := h.records.UpsertRecord(ctx, id, date, status, req.Reason, req.Justified); err != nil {
		h.writeError(c, err)
		return
	}
	rec, err := h.records.GetRecord(ctx, id, date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) StudentDetail(c *gin.Context) {
	day, err := h.week(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	detail, err := h.views.StudentDetail(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// week reads the optional ?week= query. Any day of the week is accepted.
func (h *Handler) week(c *gin.Context) (time.Time, error) {
	raw := c.Query("week")
	if raw == "" {
		if h.startWeek.IsZero() {
			return time.Now(), nil
		}
		return h.startWeek, nil
	}
	day, err := attendance.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperror.Constraint("week", "week must be a YYYY-MM-DD date")
	}
	return day, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	appErr := apperror.As(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
	}

	body := gin.H{"code": appErr.Code, "message": appErr.Message}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{"error": body})
}
