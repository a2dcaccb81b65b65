package http

import (
	"encoding/json"
	"net/http"
	"testing"

	pledgeDomain "warehouse-facility/internal/domain/pledge"
	registryDomain "warehouse-facility/internal/domain/registry"
	pledgeUC "warehouse-facility/internal/usecase/pledge"
)

func proposeBody() map[string]any {
	return map[string]any{
		"id": pledgeID1,
		"assets": []map[string]any{
			{"id": assetID1, "value": 12_000_000},
			{"id": assetID2, "value": 27_000_000},
		},
		"asset_marker_denom": "test.denom.pool1",
		"total_advance":      29_298_750,
	}
}

func acceptBody() map[string]any {
	return map[string]any{
		"funds": map[string]any{"denom": "omni.usd", "amount": 29_298_750},
	}
}

func TestProposePledge(t *testing.T) {
	ev := newEnv(t, testFacility())

	rec := ev.do(t, http.MethodPost, "/pledges", originatorAddr, proposeBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var dto pledgeUC.PledgeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.PledgeID != pledgeID1 || dto.State != "proposed" || dto.TotalAdvance != 29_298_750 {
		t.Errorf("unexpected pledge: %+v", dto)
	}
	if len(ev.reg.Batches) != 1 {
		t.Errorf("registry batches: %d, want 1", len(ev.reg.Batches))
	}
}

func TestProposePledge_Unauthorized(t *testing.T) {
	ev := newEnv(t, testFacility())
	rec := ev.do(t, http.MethodPost, "/pledges", warehouseAddr, proposeBody())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestProposePledge_InvalidUUID(t *testing.T) {
	ev := newEnv(t, testFacility())
	body := proposeBody()
	body["id"] = "not-a-uuid"
	rec := ev.do(t, http.MethodPost, "/pledges", originatorAddr, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decodeErr(t, rec)
	if !containsFieldMsg(resp.Details, "ID", "uuid") {
		t.Errorf("details = %+v", resp.Details)
	}
}

func TestProposePledge_AdvanceMismatch(t *testing.T) {
	ev := newEnv(t, testFacility())
	body := proposeBody()
	body["total_advance"] = 29_298_751
	rec := ev.do(t, http.MethodPost, "/pledges", originatorAddr, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestProposePledge_DuplicateID(t *testing.T) {
	ev := newEnv(t, testFacility(), proposedPledge())
	rec := ev.do(t, http.MethodPost, "/pledges", originatorAddr, proposeBody())
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAcceptPledge(t *testing.T) {
	ev := newEnv(t, testFacility(), proposedPledge())

	rec := ev.do(t, http.MethodPost, "/pledges/"+pledgeID1+"/accept", warehouseAddr, acceptBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var dto pledgeUC.PledgeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.State != "accepted" {
		t.Errorf("state = %q", dto.State)
	}
	ops := ev.reg.Ops()
	if len(ops) != 1 || ops[0].Kind != registryDomain.OpDeposit || ops[0].To != escrowAddr {
		t.Errorf("ops = %+v", ops)
	}
}

func TestAcceptPledge_FundingMismatch(t *testing.T) {
	ev := newEnv(t, testFacility(), proposedPledge())
	body := map[string]any{
		"funds": map[string]any{"denom": "omni.usd", "amount": 29_298_749},
	}
	rec := ev.do(t, http.MethodPost, "/pledges/"+pledgeID1+"/accept", warehouseAddr, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAcceptPledge_NotFound(t *testing.T) {
	ev := newEnv(t, testFacility())
	rec := ev.do(t, http.MethodPost, "/pledges/"+pledgeID1+"/accept", warehouseAddr, acceptBody())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAcceptPledge_Unauthorized(t *testing.T) {
	ev := newEnv(t, testFacility(), proposedPledge())
	rec := ev.do(t, http.MethodPost, "/pledges/"+pledgeID1+"/accept", originatorAddr, acceptBody())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	cases := []struct {
		name   string
		action string
		caller string
		state  pledgeDomain.State
		code   int
		want   string
	}{
		{"cancel proposed", "cancel", originatorAddr, pledgeDomain.StateProposed, http.StatusOK, "cancelled"},
		{"cancel accepted", "cancel", originatorAddr, pledgeDomain.StateAccepted, http.StatusOK, "cancelled"},
		{"cancel executed", "cancel", originatorAddr, pledgeDomain.StateExecuted, http.StatusConflict, ""},
		{"execute accepted", "execute", originatorAddr, pledgeDomain.StateAccepted, http.StatusOK, "executed"},
		{"execute proposed", "execute", originatorAddr, pledgeDomain.StateProposed, http.StatusConflict, ""},
		{"execute as warehouse", "execute", warehouseAddr, pledgeDomain.StateAccepted, http.StatusForbidden, ""},
		{"close executed", "close", originatorAddr, pledgeDomain.StateExecuted, http.StatusOK, "closed"},
		{"close accepted", "close", originatorAddr, pledgeDomain.StateAccepted, http.StatusConflict, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := proposedPledge()
			p.State = tc.state
			ev := newEnv(t, testFacility(), p)

			rec := ev.do(t, http.MethodPost, "/pledges/"+pledgeID1+"/"+tc.action, tc.caller, nil)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tc.code, rec.Body.String())
			}
			if tc.want == "" {
				return
			}
			var dto pledgeUC.PledgeDTO
			if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if dto.State != tc.want {
				t.Errorf("state = %q, want %q", dto.State, tc.want)
			}
		})
	}
}

func TestTransition_MissingCallerHeader(t *testing.T) {
	ev := newEnv(t, testFacility(), proposedPledge())
	rec := ev.do(t, http.MethodPost, "/pledges/"+pledgeID1+"/cancel", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetPledge(t *testing.T) {
	ev := newEnv(t, testFacility(), proposedPledge())

	rec := ev.do(t, http.MethodGet, "/pledges/"+pledgeID1, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var dto pledgeUC.PledgeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dto.Assets) != 2 || dto.Assets[0].ID != assetID1 {
		t.Errorf("assets = %+v", dto.Assets)
	}

	rec = ev.do(t, http.MethodGet, "/pledges/99999999-9999-4999-8999-999999999999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListPledgeIDs_EmptyIsArray(t *testing.T) {
	ev := newEnv(t, testFacility())
	rec := ev.do(t, http.MethodGet, "/pledges/ids", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestListPledges(t *testing.T) {
	p2 := proposedPledge()
	p2.PledgeID = "5f464eb8-7d84-4c31-9d1e-000000000002"
	p2.Assets = []pledgeDomain.Asset{{AssetID: "33333333-3333-4333-8333-333333333333", Value: 4_000_000}}
	p2.TotalAdvance = 3_005_000
	p2.State = pledgeDomain.StateClosed

	ev := newEnv(t, testFacility(), proposedPledge(), p2)
	rec := ev.do(t, http.MethodGet, "/pledges", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var dtos []pledgeUC.PledgeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dtos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dtos) != 2 || dtos[0].PledgeID != pledgeID1 || dtos[1].State != "closed" {
		t.Errorf("pledges = %+v", dtos)
	}
}

func TestHealth(t *testing.T) {
	ev := newEnv(t, nil)
	rec := ev.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
