// Package registry declares the token-registry capability the facility
// settles against. Implementations must apply an op batch in order, all or
// nothing, inside the enclosing unit of work.
package registry

import (
	"context"
	"errors"
)

var ErrOperationFailed = errors.New("registry operation failed")

type OpKind string

const (
	OpBindName        OpKind = "bind_name"
	OpCreateMarker    OpKind = "create_marker"
	OpGrantAccess     OpKind = "grant_access"
	OpFinalizeMarker  OpKind = "finalize_marker"
	OpActivateMarker  OpKind = "activate_marker"
	OpWithdraw        OpKind = "withdraw"
	OpTransfer        OpKind = "transfer"
	OpSend            OpKind = "send"
	// OpDeposit records funds attached to a message arriving in custody.
	// Credits To without debiting a ledger account; From is provenance only.
	OpDeposit OpKind = "deposit"
	OpMint            OpKind = "mint"
	OpAttachAttribute OpKind = "attach_attribute"
	OpRemoveAttribute OpKind = "remove_attribute"
	OpCancelMarker    OpKind = "cancel_marker"
	OpDestroyMarker   OpKind = "destroy_marker"
)

// Marker access grants, mirroring the host registry's privilege model.
const (
	AccessAdmin    = "admin"
	AccessBurn     = "burn"
	AccessDelete   = "delete"
	AccessDeposit  = "deposit"
	AccessMint     = "mint"
	AccessTransfer = "transfer"
	AccessWithdraw = "withdraw"
)

// Op is one external registry operation. Which fields are meaningful
// depends on Kind.
type Op struct {
	Kind   OpKind   `json:"kind"`
	Denom  string   `json:"denom,omitempty"`
	Amount int64    `json:"amount,omitempty"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Name   string   `json:"name,omitempty"`
	Access []string `json:"access,omitempty"`

	// Attribute payload for attach/remove ops.
	Attribute string `json:"attribute,omitempty"`
}

// Registry applies a batch of settlement operations. An error from any op
// must abort the batch and the enclosing transaction; partial application
// must never be observable.
type Registry interface {
	Apply(ctx context.Context, ops []Op) error
}
