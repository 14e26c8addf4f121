package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
)

type visitService interface {
	CheckIn(ctx context.Context, req *domain.CheckInRequest) (*domain.Visit, error)
	ListVisits(ctx context.Context, query *domain.VisitQuery) ([]domain.Visit, error)
}

type checkInRequest struct {
	locationInput
	CustomerID     string  `json:"customer_id"`
	UserID         string  `json:"user_id"`
	EventType      string  `json:"event_type"`
	AccuracyMeters float64 `json:"accuracy_meters"`
	DeviceID       string  `json:"device_id"`
	ClientEventID  string  `json:"client_event_id"`
	Timestamp      int64   `json:"timestamp"`
}

type visitResponse struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customer_id"`
	UserID         string            `json:"user_id"`
	EventType      string            `json:"event_type"`
	Latitude       float64           `json:"latitude"`
	Longitude      float64           `json:"longitude"`
	Coordinates    string            `json:"coordinates"`
	AccuracyMeters float64           `json:"accuracy_meters"`
	Geofence       *geofenceResponse `json:"geofence,omitempty"`
	Flagged        bool              `json:"flagged"`
	Timestamp      int64             `json:"timestamp"`
}

type VisitHandler struct {
	visitSvc visitService
}

func NewVisitHandler(visitSvc visitService) *VisitHandler {
	return &VisitHandler{visitSvc: visitSvc}
}

func (h *VisitHandler) Register(r *gin.RouterGroup) {
	r.POST("/visits/check-in", h.CheckIn)
	r.GET("/visits", h.ListVisits)
}

func (h *VisitHandler) CheckIn(c *gin.Context) {
	var body checkInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	loc, err := body.resolve()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &domain.CheckInRequest{
		TenantID:       c.Param("tenant"),
		CustomerID:     body.CustomerID,
		UserID:         body.UserID,
		EventType:      domain.VisitEventType(body.EventType),
		Location:       loc,
		AccuracyMeters: body.AccuracyMeters,
		DeviceID:       body.DeviceID,
		ClientEventID:  body.ClientEventID,
	}
	if body.Timestamp > 0 {
		req.OccurredAt = time.Unix(body.Timestamp, 0)
	}

	v, err := h.visitSvc.CheckIn(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toVisitResponse(v))
}

func (h *VisitHandler) ListVisits(c *gin.Context) {
	start, err := parseUnixQuery(c, "start")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := parseUnixQuery(c, "end")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}

	visits, err := h.visitSvc.ListVisits(c.Request.Context(), &domain.VisitQuery{
		TenantID: c.Param("tenant"),
		UserID:   c.Query("user_id"),
		Start:    start,
		End:      end,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]visitResponse, len(visits))
	for i := range visits {
		results[i] = toVisitResponse(&visits[i])
	}
	c.JSON(http.StatusOK, results)
}

func toVisitResponse(v *domain.Visit) visitResponse {
	return visitResponse{
		ID:             v.ID,
		CustomerID:     v.CustomerID,
		UserID:         v.UserID,
		EventType:      string(v.EventType),
		Latitude:       v.Location.Latitude,
		Longitude:      v.Location.Longitude,
		Coordinates:    geo.FormatCoordinates(v.Location),
		AccuracyMeters: v.AccuracyMeters,
		Geofence:       toGeofenceResponse(v.Geofence),
		Flagged:        v.Flagged(),
		Timestamp:      v.OccurredAt.Unix(),
	}
}
