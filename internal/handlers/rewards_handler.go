package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retailrewards/rewards-backend/internal/reports"
	"github.com/retailrewards/rewards-backend/internal/rewards"
	"github.com/retailrewards/rewards-backend/internal/services"
	"github.com/retailrewards/rewards-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RewardsHandler handles reward summary requests
type RewardsHandler struct {
	rewardsService services.RewardsService
	logger         *logrus.Logger
}

// NewRewardsHandler creates a new RewardsHandler
func NewRewardsHandler(rewardsService services.RewardsService, logger *logrus.Logger) *RewardsHandler {
	return &RewardsHandler{
		rewardsService: rewardsService,
		logger:         logger,
	}
}

// GetCustomerRewards handles GET /api/rewards/customer/:customerId
func (h *RewardsHandler) GetCustomerRewards(c *gin.Context) {
	customerID, err := utils.ParseID(c.Param("customerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid customer ID", map[string]string{"customerId": err.Error()})
		return
	}

	start, end, custom, ok := h.window(c)
	if !ok {
		return
	}

	var summary *rewards.Summary
	if custom {
		summary, err = h.rewardsService.GetCustomerRewardsInRange(c.Request.Context(), customerID, start, end)
	} else {
		summary, err = h.rewardsService.GetCustomerRewards(c.Request.Context(), customerID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAllCustomerRewards handles GET /api/rewards/customers
func (h *RewardsHandler) GetAllCustomerRewards(c *gin.Context) {
	summaries, ok := h.allSummaries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// ExportCustomerRewards handles GET /api/rewards/customers/export
func (h *RewardsHandler) ExportCustomerRewards(c *gin.Context) {
	summaries, ok := h.allSummaries(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("rewards-%s.xlsx", time.Now().UTC().Format(utils.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := reports.WriteRewardsWorkbook(c.Writer, summaries); err != nil {
		h.logger.WithError(err).Error("Failed to write rewards workbook")
	}
}

func (h *RewardsHandler) allSummaries(c *gin.Context) ([]rewards.Summary, bool) {
	start, end, custom, ok := h.window(c)
	if !ok {
		return nil, false
	}

	var summaries []rewards.Summary
	var err error
	if custom {
		summaries, err = h.rewardsService.GetAllCustomerRewardsInRange(c.Request.Context(), start, end)
	} else {
		summaries, err = h.rewardsService.GetAllCustomerRewards(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	if summaries == nil {
		summaries = []rewards.Summary{}
	}
	return summaries, true
}

// window reads the optional from/to query parameters. Both must be given
// together; custom is false when neither is present.
func (h *RewardsHandler) window(c *gin.Context) (start, end time.Time, custom, ok bool) {
	from, hasFrom := c.GetQuery("from")
	to, hasTo := c.GetQuery("to")
	if !hasFrom && !hasTo {
		return start, end, false, true
	}

	fields := map[string]string{}
	if !hasFrom {
		fields["from"] = "from is required when to is given"
	}
	if !hasTo {
		fields["to"] = "to is required when from is given"
	}
	var err error
	if hasFrom {
		if start, err = utils.ParseDate(from); err != nil {
			fields["from"] = err.Error()
		}
	}
	if hasTo {
		if end, err = utils.ParseDate(to); err != nil {
			fields["to"] = err.Error()
		}
	}
	if len(fields) > 0 {
		abortWithError(c, http.StatusBadRequest, "Validation failed", fields)
		return start, end, false, false
	}
	return start, end, true, true
}
