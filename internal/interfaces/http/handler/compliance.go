package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerdesk/backend/internal/domain/compliance"
	"github.com/ledgerdesk/backend/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// ComplianceHandler serves compliance period helpers
type ComplianceHandler struct {
	BaseHandler
}

// NewComplianceHandler creates a new ComplianceHandler
func NewComplianceHandler() *ComplianceHandler {
	return &ComplianceHandler{}
}

// PeriodLabelQuery is the query of the period label endpoint
type PeriodLabelQuery struct {
	Frequency string `form:"frequency" binding:"required"`
	Start     string `form:"start" binding:"required"`
}

// PeriodLabelResponse describes one compliance period
type PeriodLabelResponse struct {
	Frequency string `json:"frequency" example:"quarterly"`
	Label     string `json:"label" example:"Q2 2025"`
	Start     string `json:"start" example:"2025-04-01"`
	End       string `json:"end" example:"2025-07-01"`
}

// PeriodLabel godoc
// @ID           getCompliancePeriodLabel
// @Summary      Label a compliance period
// @Description  end is exclusive. Yearly periods not starting in January are labelled as fiscal years.
// @Tags         compliance
// @Produce      json
// @Param        frequency query string true "weekly, monthly, quarterly, half_yearly, yearly or one_time"
// @Param        start     query string true "Period start, YYYY-MM-DD"
// @Success      200 {object} APIResponse[PeriodLabelResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /compliance/period-label [get]
func (h *ComplianceHandler) PeriodLabel(c *gin.Context) {
	var q PeriodLabelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	start, err := time.Parse(dateLayout, q.Start)
	if err != nil {
		h.HandleError(c, shared.NewValidationError("start", "Must be a date in YYYY-MM-DD format"))
		return
	}

	freq := compliance.Frequency(q.Frequency)
	label, err := compliance.FormatPeriod(freq, start)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	end, err := compliance.PeriodEnd(freq, start)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PeriodLabelResponse{
		Frequency: q.Frequency,
		Label:     label,
		Start:     start.Format(dateLayout),
		End:       end.Format(dateLayout),
	})
}
