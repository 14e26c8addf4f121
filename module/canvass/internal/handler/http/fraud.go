package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/canvass/module/canvass/domain"
)

type fraudService interface {
	Analyze(ctx context.Context, query *domain.FraudQuery) (*domain.FraudReport, error)
}

type FraudHandler struct {
	fraudSvc fraudService
}

func NewFraudHandler(fraudSvc fraudService) *FraudHandler {
	return &FraudHandler{fraudSvc: fraudSvc}
}

func (h *FraudHandler) Register(r *gin.RouterGroup) {
	r.GET("/fraud", h.Analyze)
}

func (h *FraudHandler) Analyze(c *gin.Context) {
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

	report, err := h.fraudSvc.Analyze(c.Request.Context(), &domain.FraudQuery{
		TenantID: c.Param("tenant"),
		UserID:   c.Query("user_id"),
		Start:    start,
		End:      end,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
