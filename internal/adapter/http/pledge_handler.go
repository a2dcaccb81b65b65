package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"warehouse-facility/internal/usecase/pledge"
)

type PledgeHandler struct{ uc *pledge.Usecase }

func NewPledgeHandler(uc *pledge.Usecase) *PledgeHandler { return &PledgeHandler{uc: uc} }

type proposeAssetReq struct {
	ID    string `json:"id"    validate:"required,uuid"`
	Value int64  `json:"value" validate:"required,gt=0"`
}

type proposePledgeReq struct {
	ID               string            `json:"id"                 validate:"required,uuid"`
	Assets           []proposeAssetReq `json:"assets"             validate:"required,min=1,dive"`
	AssetMarkerDenom string            `json:"asset_marker_denom" validate:"required,denom"`
	TotalAdvance     int64             `json:"total_advance"      validate:"required,gt=0"`
}

type acceptPledgeReq struct {
	Funds struct {
		Denom  string `json:"denom"  validate:"required,denom"`
		Amount int64  `json:"amount" validate:"required,gt=0"`
	} `json:"funds"`
}

func (h *PledgeHandler) ProposePledge(c echo.Context) error {
	caller, ok := callerAddress(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderCallerAddress})
	}
	var req proposePledgeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := pledge.ProposeInput{
		PledgeID:         req.ID,
		AssetMarkerDenom: req.AssetMarkerDenom,
		TotalAdvance:     req.TotalAdvance,
	}
	for _, a := range req.Assets {
		in.Assets = append(in.Assets, pledge.AssetInput{ID: a.ID, Value: a.Value})
	}

	dto, err := h.uc.Propose(c.Request().Context(), caller, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PledgeHandler) AcceptPledge(c echo.Context) error {
	caller, ok := callerAddress(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderCallerAddress})
	}
	pledgeID := c.Param("pledge_id")
	var req acceptPledgeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Accept(c.Request().Context(), caller, pledgeID, pledge.Funds{
		Denom:  req.Funds.Denom,
		Amount: req.Funds.Amount,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PledgeHandler) CancelPledge(c echo.Context) error {
	return h.transition(c, h.uc.Cancel)
}

func (h *PledgeHandler) ExecutePledge(c echo.Context) error {
	return h.transition(c, h.uc.Execute)
}

func (h *PledgeHandler) ClosePledge(c echo.Context) error {
	return h.transition(c, h.uc.Close)
}


// transition handles the body-less lifecycle messages (cancel, execute,
// close): caller header + path param in, pledge record out.
func (h *PledgeHandler) transition(
	c echo.Context,
	fn func(ctx context.Context, caller, pledgeID string) (*pledge.PledgeDTO, error),
) error {
	caller, ok := callerAddress(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderCallerAddress})
	}
	dto, err := fn(c.Request().Context(), caller, c.Param("pledge_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PledgeHandler) GetPledge(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("pledge_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PledgeHandler) ListPledgeIDs(c echo.Context) error {
	ids, err := h.uc.ListIDs(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(http.StatusOK, ids)
}

func (h *PledgeHandler) ListPledges(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
