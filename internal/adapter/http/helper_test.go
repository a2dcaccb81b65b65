package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	facilityDomain "warehouse-facility/internal/domain/facility"
	pledgeDomain "warehouse-facility/internal/domain/pledge"
	"warehouse-facility/internal/domain/uow"
	"warehouse-facility/internal/testutil/facilitymock"
	"warehouse-facility/internal/testutil/pledgemock"
	"warehouse-facility/internal/testutil/registrymock"
	"warehouse-facility/internal/testutil/uowmock"
	facilityUC "warehouse-facility/internal/usecase/facility"
	pledgeUC "warehouse-facility/internal/usecase/pledge"
)

const (
	adminAddr      = "addr-admin"
	originatorAddr = "addr-originator"
	warehouseAddr  = "addr-warehouse"
	escrowAddr     = "addr-escrow"

	pledgeID1 = "5f464eb8-7d84-4c31-9d1e-000000000001"
	assetID1  = "11111111-1111-4111-8111-111111111111"
	assetID2  = "22222222-2222-4222-8222-222222222222"
)

func testFacility() *facilityDomain.Facility {
	return &facilityDomain.Facility{
		FacilityID:      "0f79b1e04a1c4c5f9012aabbccddeeff",
		BindName:        "facility.test",
		ContractName:    "test warehouse facility",
		Admin:           adminAddr,
		Originator:      originatorAddr,
		Warehouse:       warehouseAddr,
		EscrowMarker:    escrowAddr,
		MarkerDenom:     "facility.test.marker",
		StablecoinDenom: "omni.usd",
		AdvanceRate:     decimal.RequireFromString("75.125"),
		PaydownRate:     decimal.RequireFromString("76.125"),
	}
}

func proposedPledge() *pledgeDomain.Pledge {
	return &pledgeDomain.Pledge{
		ID:               1,
		PledgeID:         pledgeID1,
		AssetMarkerDenom: "test.denom.pool1",
		TotalAdvance:     29_298_750,
		State:            pledgeDomain.StateProposed,
		StateUpdatedAt:   time.Now().UTC(),
		Assets: []pledgeDomain.Asset{
			{AssetID: assetID1, Value: 12_000_000},
			{AssetID: assetID2, Value: 27_000_000},
		},
	}
}

// env wires handlers, real usecases and stateful mocks behind an echo
// instance, mirroring the route table in cmd/api.
type env struct {
	e   *echo.Echo
	reg *registrymock.Registry

	facility *facilityDomain.Facility
	pledges  map[string]*pledgeDomain.Pledge
	order    []string
}

func newEnv(t *testing.T, f *facilityDomain.Facility, seed ...*pledgeDomain.Pledge) *env {
	t.Helper()
	ev := &env{
		reg:      &registrymock.Registry{},
		facility: f,
		pledges:  map[string]*pledgeDomain.Pledge{},
	}
	for _, p := range seed {
		ev.pledges[p.PledgeID] = p
		ev.order = append(ev.order, p.PledgeID)
	}

	facRepo := &facilitymock.Repo{
		CreateFn: func(ctx context.Context, nf *facilityDomain.Facility) error {
			ev.facility = nf
			return nil
		},
		GetFn: func(ctx context.Context) (*facilityDomain.Facility, error) {
			if ev.facility == nil {
				return nil, facilityDomain.ErrNotFound
			}
			return ev.facility, nil
		},
	}

	lookup := func(ctx context.Context, pledgeID string) (*pledgeDomain.Pledge, error) {
		p, ok := ev.pledges[pledgeID]
		if !ok {
			return nil, pledgeDomain.ErrNotFound
		}
		return p, nil
	}
	plRepo := &pledgemock.Repo{
		CreateFn: func(ctx context.Context, p *pledgeDomain.Pledge) error {
			ev.pledges[p.PledgeID] = p
			ev.order = append(ev.order, p.PledgeID)
			return nil
		},
		GetByPledgeIDFn:          lookup,
		GetByPledgeIDForUpdateFn: lookup,
		SaveFn: func(ctx context.Context, p *pledgeDomain.Pledge) error {
			ev.pledges[p.PledgeID] = p
			return nil
		},
		ListIDsFn: func(ctx context.Context) ([]string, error) { return ev.order, nil },
		ListFn: func(ctx context.Context) ([]pledgeDomain.Pledge, error) {
			out := make([]pledgeDomain.Pledge, 0, len(ev.order))
			for _, id := range ev.order {
				out = append(out, *ev.pledges[id])
			}
			return out, nil
		},
		ListActiveByAssetIDsFn: func(ctx context.Context, assetIDs []string) ([]pledgeDomain.Pledge, error) {
			var out []pledgeDomain.Pledge
			for _, id := range ev.order {
				p := ev.pledges[id]
				if !p.State.Active() {
					continue
				}
				for _, a := range p.Assets {
					for _, want := range assetIDs {
						if a.AssetID == want {
							out = append(out, *p)
						}
					}
				}
			}
			return out, nil
		},
	}

	u := uowmock.Passthrough(uow.Repos{Facilities: facRepo, Pledges: plRepo, Registry: ev.reg})

	e := echo.New()
	e.Validator = NewValidator()

	fh := NewFacilityHandler(facilityUC.NewUsecase(facRepo, u))
	ph := NewPledgeHandler(pledgeUC.NewUsecase(plRepo, u))

	e.GET("/health", NewHandler().Health)
	e.POST("/facility", fh.Instantiate)
	e.GET("/facility", fh.GetFacilityInfo)
	e.GET("/contract-info", fh.GetContractInfo)
	e.POST("/pledges", ph.ProposePledge)
	e.POST("/pledges/:pledge_id/accept", ph.AcceptPledge)
	e.POST("/pledges/:pledge_id/cancel", ph.CancelPledge)
	e.POST("/pledges/:pledge_id/execute", ph.ExecutePledge)
	e.POST("/pledges/:pledge_id/close", ph.ClosePledge)
	e.GET("/pledges", ph.ListPledges)
	e.GET("/pledges/ids", ph.ListPledgeIDs)
	e.GET("/pledges/:pledge_id", ph.GetPledge)

	ev.e = e
	return ev
}

func (ev *env) do(t *testing.T, method, path, caller string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if caller != "" {
		req.Header.Set(HeaderCallerAddress, caller)
	}
	rec := httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return out
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
