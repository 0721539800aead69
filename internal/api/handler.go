package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/rgehrsitz/hcnav/internal/output"
	"github.com/shopspring/decimal"
)

// Handler serves the navigator API over a single session.
type Handler struct {
	engine      *calculation.Engine
	ref         domain.ReferenceData
	session     *Session
	defaultTerm int
}

// NewHandler creates a handler. defaultTerm is used for payment plans that
// do not name a term.
func NewHandler(engine *calculation.Engine, ref domain.ReferenceData, session *Session, defaultTerm int) *Handler {
	if defaultTerm < 1 {
		defaultTerm = 12
	}
	return &Handler{engine: engine, ref: ref, session: session, defaultTerm: defaultTerm}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, api *echo.Group) {
	e.GET("/health", h.Health)

	api.POST("/estimate", h.Estimate)
	api.GET("/procedures", h.SearchProcedures)
	api.GET("/procedures/:cpt/providers", h.CompareProviders)

	api.GET("/benefits", h.GetBenefits)
	api.PUT("/benefits", h.PutBenefits)

	api.GET("/bills", h.ListBills)
	api.GET("/bills/total", h.BillTotals)
	api.POST("/bills/:id/negotiate", h.NegotiateBill)
	api.POST("/bills/:id/resolve", h.ResolveBill)
	api.POST("/bills/:id/review", h.ReviewBill)

	api.POST("/payment-plans", h.CreatePaymentPlan)
	api.GET("/payment-plans/latest", h.LatestPaymentPlan)

	api.POST("/assistance/match", h.MatchAssistance)
}

// toHTTPError maps domain errors onto status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, domain.ErrInvariantViolation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	case errors.Is(err, domain.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// -- Estimates --

// EstimateRequest prices either a gross cost or a procedure by CPT code.
// Benefits default to the session's accumulator.
type EstimateRequest struct {
	GrossCost *decimal.Decimal           `json:"gross_cost,omitempty"`
	CPTCode   string                     `json:"cpt_code,omitempty"`
	Benefits  *domain.BenefitAccumulator `json:"benefits,omitempty"`
}

// EstimateResponse holds the breakdown and, for procedures, the range.
type EstimateResponse struct {
	Estimate domain.CostSharingBreakdown `json:"estimate"`
	Range    *domain.EstimateRange       `json:"range,omitempty"`
}

func (h *Handler) Estimate(c echo.Context) error {
	var req EstimateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	acc := h.session.Benefits()
	if req.Benefits != nil {
		acc = *req.Benefits
	}

	var resp EstimateResponse
	switch {
	case req.CPTCode != "":
		quote, err := h.ref.FindProcedure(req.CPTCode)
		if err != nil {
			return toHTTPError(err)
		}
		rng, err := h.engine.CostSharing.EstimateRange(acc, quote)
		if err != nil {
			return toHTTPError(err)
		}
		resp.Range = &rng
		if resp.Estimate, err = h.engine.CostSharing.Breakdown(acc, quote.AvgCost); err != nil {
			return toHTTPError(err)
		}
	case req.GrossCost != nil:
		b, err := h.engine.CostSharing.Breakdown(acc, *req.GrossCost)
		if err != nil {
			return toHTTPError(err)
		}
		resp.Estimate = b
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "gross_cost or cpt_code is required")
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchProcedures lists every procedure when q is empty.
func (h *Handler) SearchProcedures(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusOK, h.ref.Procedures)
	}
	matches := calculation.SearchProcedures(h.ref.Procedures, q)
	if matches == nil {
		matches = []domain.ProcedureQuote{}
	}
	return c.JSON(http.StatusOK, matches)
}

func (h *Handler) CompareProviders(c echo.Context) error {
	quote, err := h.ref.FindProcedure(c.Param("cpt"))
	if err != nil {
		return toHTTPError(err)
	}
	rows, err := h.engine.CostSharing.CompareProviders(h.session.Benefits(), quote, h.ref.Providers)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// -- Benefits --

// BenefitsResponse adds progress percentages to the accumulator.
type BenefitsResponse struct {
	domain.BenefitAccumulator
	DeductibleProgress   decimal.Decimal `json:"deductible_progress"`
	OutOfPocketProgress  decimal.Decimal `json:"out_of_pocket_progress"`
	RemainingDeductible  decimal.Decimal `json:"remaining_deductible"`
	RemainingOutOfPocket decimal.Decimal `json:"remaining_out_of_pocket"`
}

func benefitsResponse(acc domain.BenefitAccumulator) BenefitsResponse {
	return BenefitsResponse{
		BenefitAccumulator:   acc,
		DeductibleProgress:   acc.DeductibleProgress(),
		OutOfPocketProgress:  acc.OutOfPocketProgress(),
		RemainingDeductible:  acc.RemainingDeductible(),
		RemainingOutOfPocket: acc.RemainingOutOfPocket(),
	}
}

func (h *Handler) GetBenefits(c echo.Context) error {
	return c.JSON(http.StatusOK, benefitsResponse(h.session.Benefits()))
}

func (h *Handler) PutBenefits(c echo.Context) error {
	var acc domain.BenefitAccumulator
	if err := c.Bind(&acc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.session.SetBenefits(acc); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, benefitsResponse(acc))
}

// -- Bills --

func totals(bills []domain.BillRecord) output.BillTotals {
	return output.BillTotals{
		Outstanding: calculation.TotalOutstanding(bills),
		Savings:     calculation.TotalSavings(bills),
		Count:       len(bills),
	}
}

func (h *Handler) ListBills(c echo.Context) error {
	bills := h.session.Bills()
	if status := c.QueryParam("status"); status != "" {
		want := domain.BillStatus(status)
		if !want.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status "+status)
		}
		filtered := make([]domain.BillRecord, 0, len(bills))
		for _, b := range bills {
			if b.Status == want {
				filtered = append(filtered, b)
			}
		}
		bills = filtered
	}
	return c.JSON(http.StatusOK, bills)
}

func (h *Handler) BillTotals(c echo.Context) error {
	return c.JSON(http.StatusOK, totals(h.session.Bills()))
}

func (h *Handler) NegotiateBill(c echo.Context) error {
	return h.updateBill(c, h.engine.Bills.Negotiate)
}

func (h *Handler) ResolveBill(c echo.Context) error {
	return h.updateBill(c, h.engine.Bills.MarkResolved)
}

func (h *Handler) ReviewBill(c echo.Context) error {
	return h.updateBill(c, h.engine.Bills.MarkForReview)
}

func (h *Handler) updateBill(c echo.Context, op func([]domain.BillRecord, string) ([]domain.BillRecord, error)) error {
	id := c.Param("id")
	bills, err := h.session.UpdateBills(func(current []domain.BillRecord) ([]domain.BillRecord, error) {
		return op(current, id)
	})
	if err != nil {
		return toHTTPError(err)
	}
	for _, b := range bills {
		if b.ID == id {
			return c.JSON(http.StatusOK, b)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "bill not found")
}

// -- Payment plans --

// PaymentPlanRequest asks for a plan. A missing total means the session's
// outstanding balance; a missing term means the configured default.
type PaymentPlanRequest struct {
	Total      *decimal.Decimal `json:"total,omitempty"`
	TermMonths *int             `json:"term_months,omitempty"`
}

func (h *Handler) CreatePaymentPlan(c echo.Context) error {
	var req PaymentPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	total := calculation.TotalOutstanding(h.session.Bills())
	if req.Total != nil {
		total = *req.Total
	}
	term := h.defaultTerm
	if req.TermMonths != nil {
		term = *req.TermMonths
	}

	plan, err := h.engine.Plans.Generate(total, term)
	if err != nil {
		return toHTTPError(err)
	}
	h.session.SetLastPlan(plan)
	return c.JSON(http.StatusCreated, plan)
}

func (h *Handler) LatestPaymentPlan(c echo.Context) error {
	plan, ok := h.session.LastPlan()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no payment plan generated yet")
	}
	return c.JSON(http.StatusOK, plan)
}

// -- Assistance --

func (h *Handler) MatchAssistance(c echo.Context) error {
	var applicant domain.Applicant
	if err := c.Bind(&applicant); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	programs, err := h.engine.Assistance.Match(&applicant)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, programs)
}
