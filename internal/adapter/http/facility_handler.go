package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"warehouse-facility/internal/usecase/facility"
)

type FacilityHandler struct{ uc *facility.Usecase }

func NewFacilityHandler(uc *facility.Usecase) *FacilityHandler { return &FacilityHandler{uc: uc} }

type instantiateFacilityReq struct {
	BindName     string `json:"bind_name"     validate:"required"`
	ContractName string `json:"contract_name" validate:"required"`
	Facility     struct {
		Originator      string `json:"originator"       validate:"required"`
		Warehouse       string `json:"warehouse"        validate:"required"`
		EscrowMarker    string `json:"escrow_marker"    validate:"required"`
		MarkerDenom     string `json:"marker_denom"     validate:"required,denom"`
		StablecoinDenom string `json:"stablecoin_denom" validate:"required,denom"`
		// Rates arrive as decimal strings, e.g. "75.125" = 75.125%.
		AdvanceRate string `json:"advance_rate" validate:"required"`
		PaydownRate string `json:"paydown_rate" validate:"required"`
	} `json:"facility"`
}

func (h *FacilityHandler) Instantiate(c echo.Context) error {
	caller, ok := callerAddress(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderCallerAddress})
	}
	var req instantiateFacilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	advanceRate, err := decimal.NewFromString(req.Facility.AdvanceRate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "advance_rate", Message: "must be a decimal percentage"}},
		})
	}
	paydownRate, err := decimal.NewFromString(req.Facility.PaydownRate)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "paydown_rate", Message: "must be a decimal percentage"}},
		})
	}

	dto, err := h.uc.Instantiate(c.Request().Context(), caller, facility.InstantiateInput{
		BindName:        req.BindName,
		ContractName:    req.ContractName,
		Originator:      req.Facility.Originator,
		Warehouse:       req.Facility.Warehouse,
		EscrowMarker:    req.Facility.EscrowMarker,
		MarkerDenom:     req.Facility.MarkerDenom,
		StablecoinDenom: req.Facility.StablecoinDenom,
		AdvanceRate:     advanceRate,
		PaydownRate:     paydownRate,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FacilityHandler) GetContractInfo(c echo.Context) error {
	dto, err := h.uc.GetContractInfo(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *FacilityHandler) GetFacilityInfo(c echo.Context) error {
	dto, err := h.uc.GetFacilityInfo(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
