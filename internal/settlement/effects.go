// Package settlement translates validated pledge transitions into the
// ordered registry operation batches that settle them. Emitters are pure;
// the unit of work applies the batch atomically with the state write.
package settlement

import (
	"github.com/shopspring/decimal"

	"warehouse-facility/internal/domain/facility"
	"warehouse-facility/internal/domain/pledge"
	"warehouse-facility/internal/domain/registry"
)

var escrowAccess = []string{
	registry.AccessAdmin,
	registry.AccessBurn,
	registry.AccessDelete,
	registry.AccessDeposit,
	registry.AccessMint,
	registry.AccessTransfer,
	registry.AccessWithdraw,
}

// FacilityMarkerSupply is the fixed total supply of the fractional-ownership
// marker: 10^(scale+2), so a rate like 75.125 (scale 3) yields a supply of
// 100000 and the rate split lands on whole units.
func FacilityMarkerSupply(f *facility.Facility) int64 {
	scale := int32(0)
	if f.AdvanceRate.Exponent() < 0 {
		scale = -f.AdvanceRate.Exponent()
	}
	supply := int64(1)
	for i := int32(0); i < scale+2; i++ {
		supply *= 10
	}
	return supply
}

// Instantiate creates and activates the facility marker, then distributes
// the supply between the counterparties weighted by the advance rate
// (warehouse gets the rate share, originator the remainder).
func Instantiate(f *facility.Facility) []registry.Op {
	supply := FacilityMarkerSupply(f)
	toWarehouse := f.AdvanceRate.
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(supply)).
		Round(0).
		IntPart()
	toOriginator := supply - toWarehouse

	return []registry.Op{
		{Kind: registry.OpBindName, Name: f.BindName, To: f.EscrowMarker},
		{Kind: registry.OpCreateMarker, Denom: f.MarkerDenom, Amount: supply},
		{Kind: registry.OpGrantAccess, Denom: f.MarkerDenom, To: f.EscrowMarker, Access: escrowAccess},
		{Kind: registry.OpFinalizeMarker, Denom: f.MarkerDenom},
		{Kind: registry.OpActivateMarker, Denom: f.MarkerDenom},
		{Kind: registry.OpWithdraw, Denom: f.MarkerDenom, Amount: toWarehouse, To: f.Warehouse},
		{Kind: registry.OpWithdraw, Denom: f.MarkerDenom, Amount: toOriginator, To: f.Originator},
	}
}

// Propose creates the asset-pool marker for the pledge and lands the pool
// token in the facility escrow account.
func Propose(f *facility.Facility, p *pledge.Pledge) []registry.Op {
	return []registry.Op{
		{Kind: registry.OpCreateMarker, Denom: p.AssetMarkerDenom, Amount: 1},
		{Kind: registry.OpGrantAccess, Denom: p.AssetMarkerDenom, To: f.EscrowMarker, Access: escrowAccess},
		{Kind: registry.OpFinalizeMarker, Denom: p.AssetMarkerDenom},
		{Kind: registry.OpActivateMarker, Denom: p.AssetMarkerDenom},
		{Kind: registry.OpWithdraw, Denom: p.AssetMarkerDenom, Amount: 1, To: f.EscrowMarker},
	}
}

// Accept books the warehouse's attached advance into facility escrow. The
// funding check has already passed; the funds arrive with the message, so
// this is a custody deposit rather than a ledger-to-ledger send.
func Accept(f *facility.Facility, p *pledge.Pledge) []registry.Op {
	return []registry.Op{
		{Kind: registry.OpDeposit, Denom: f.StablecoinDenom, Amount: p.TotalAdvance, From: f.Warehouse, To: f.EscrowMarker},
	}
}

// Cancel unwinds exactly the escrow that exists at cancellation time: the
// advance refund only when the pledge reached accepted, and always the
// collateral return followed by retirement of the asset-pool marker.
func Cancel(f *facility.Facility, p *pledge.Pledge, fromAccepted bool) []registry.Op {
	var ops []registry.Op
	if fromAccepted {
		ops = append(ops, registry.Op{
			Kind: registry.OpSend, Denom: f.StablecoinDenom, Amount: p.TotalAdvance, From: f.EscrowMarker, To: f.Warehouse,
		})
	}
	ops = append(ops,
		registry.Op{Kind: registry.OpTransfer, Denom: p.AssetMarkerDenom, Amount: 1, From: f.EscrowMarker, To: f.Originator},
		registry.Op{Kind: registry.OpCancelMarker, Denom: p.AssetMarkerDenom},
		registry.Op{Kind: registry.OpDestroyMarker, Denom: p.AssetMarkerDenom},
	)
	return ops
}

// Execute settles an accepted pledge: the advance leaves escrow for the
// originator, the collateral token is stamped as encumbered, and facility
// marker tokens equal to the advance are minted and split between the
// counterparties (originator gets the advance-rate share).
func Execute(f *facility.Facility, p *pledge.Pledge) []registry.Op {
	toOriginator := f.AdvanceAmount(p.TotalAdvance)
	toWarehouse := p.TotalAdvance - toOriginator

	return []registry.Op{
		{Kind: registry.OpSend, Denom: f.StablecoinDenom, Amount: p.TotalAdvance, From: f.EscrowMarker, To: f.Originator},
		{Kind: registry.OpAttachAttribute, Denom: p.AssetMarkerDenom, Name: EncumbranceName(f), Attribute: p.PledgeID},
		{Kind: registry.OpMint, Denom: f.MarkerDenom, Amount: p.TotalAdvance},
		{Kind: registry.OpWithdraw, Denom: f.MarkerDenom, Amount: toOriginator, To: f.Originator},
		{Kind: registry.OpWithdraw, Denom: f.MarkerDenom, Amount: toWarehouse, To: f.Warehouse},
	}
}

// Close releases the encumbrance stamped at execution.
func Close(f *facility.Facility, p *pledge.Pledge) []registry.Op {
	return []registry.Op{
		{Kind: registry.OpRemoveAttribute, Denom: p.AssetMarkerDenom, Name: EncumbranceName(f), Attribute: p.PledgeID},
	}
}

// EncumbranceName is the attribute name under which pledged collateral is
// recorded on the asset-pool marker.
func EncumbranceName(f *facility.Facility) string {
	return f.BindName + ".pledged"
}
