// Package registry provides a ledger-backed implementation of the token
// registry capability. Holdings, markers, grants, attributes and name
// bindings live in the same database as the pledge store, so a settlement
// batch commits or rolls back with the transition that produced it.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "warehouse-facility/internal/domain/registry"

	"gorm.io/gorm"
)

type MarkerStatus string

const (
	MarkerStatusCreated   MarkerStatus = "created"
	MarkerStatusFinalized MarkerStatus = "finalized"
	MarkerStatusActive    MarkerStatus = "active"
	MarkerStatusCancelled MarkerStatus = "cancelled"
	MarkerStatusDestroyed MarkerStatus = "destroyed"
)

type Marker struct {
	ID        uint64       `gorm:"primaryKey;column:id"`
	Denom     string       `gorm:"size:64;uniqueIndex:ux_markers_denom"`
	Supply    int64        `gorm:"column:supply"`
	Status    MarkerStatus `gorm:"size:16"`
	CreatedAt time.Time    `gorm:"autoCreateTime"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime"`
}

func (Marker) TableName() string { return "registry_markers" }

type Holding struct {
	ID      uint64 `gorm:"primaryKey;column:id"`
	Denom   string `gorm:"size:64;uniqueIndex:ux_holdings_denom_account,priority:1"`
	Account string `gorm:"size:128;uniqueIndex:ux_holdings_denom_account,priority:2"`
	Amount  int64  `gorm:"column:amount"`
}

func (Holding) TableName() string { return "registry_holdings" }

type Grant struct {
	ID      uint64 `gorm:"primaryKey;column:id"`
	Denom   string `gorm:"size:64;uniqueIndex:ux_grants_denom_account,priority:1"`
	Account string `gorm:"size:128;uniqueIndex:ux_grants_denom_account,priority:2"`
	Access  string `gorm:"size:128"` // comma-separated grant names
}

func (Grant) TableName() string { return "registry_grants" }

type Attribute struct {
	ID    uint64 `gorm:"primaryKey;column:id"`
	Denom string `gorm:"size:64;index:idx_attributes_denom"`
	Name  string `gorm:"size:128"`
	Value string `gorm:"size:128"`
}

func (Attribute) TableName() string { return "registry_attributes" }

type NameBinding struct {
	ID      uint64 `gorm:"primaryKey;column:id"`
	Name    string `gorm:"size:128;uniqueIndex:ux_names_name"`
	Account string `gorm:"size:128"`
}

func (NameBinding) TableName() string { return "registry_names" }

// Models lists every table the ledger registry owns, for migration wiring.
func Models() []any {
	return []any{&Marker{}, &Holding{}, &Grant{}, &Attribute{}, &NameBinding{}}
}

// Ledger applies settlement op batches against the shared database. Bind it
// to a transaction to make a batch atomic with the caller's writes.
type Ledger struct{ db *gorm.DB }

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{db: db} }

// markerAccount is the registry-internal account that custodies a marker's
// undistributed supply.
func markerAccount(denom string) string { return "marker/" + denom }

func (l *Ledger) Apply(ctx context.Context, ops []domain.Op) error {
	for i, op := range ops {
		if err := l.apply(ctx, op); err != nil {
			return fmt.Errorf("%w: op %d (%s %s): %v", domain.ErrOperationFailed, i, op.Kind, op.Denom, err)
		}
	}
	return nil
}

func (l *Ledger) apply(ctx context.Context, op domain.Op) error {
	switch op.Kind {
	case domain.OpBindName:
		return l.db.WithContext(ctx).Create(&NameBinding{Name: op.Name, Account: op.To}).Error

	case domain.OpCreateMarker:
		if err := l.db.WithContext(ctx).Create(&Marker{
			Denom:  op.Denom,
			Supply: op.Amount,
			Status: MarkerStatusCreated,
		}).Error; err != nil {
			return err
		}
		return l.credit(ctx, op.Denom, markerAccount(op.Denom), op.Amount)

	case domain.OpGrantAccess:
		return l.db.WithContext(ctx).Create(&Grant{
			Denom:   op.Denom,
			Account: op.To,
			Access:  strings.Join(op.Access, ","),
		}).Error

	case domain.OpFinalizeMarker:
		return l.setMarkerStatus(ctx, op.Denom, MarkerStatusCreated, MarkerStatusFinalized)

	case domain.OpActivateMarker:
		return l.setMarkerStatus(ctx, op.Denom, MarkerStatusFinalized, MarkerStatusActive)

	case domain.OpWithdraw:
		return l.move(ctx, op.Denom, markerAccount(op.Denom), op.To, op.Amount)

	case domain.OpTransfer, domain.OpSend:
		return l.move(ctx, op.Denom, op.From, op.To, op.Amount)

	case domain.OpDeposit:
		if op.Amount < 0 {
			return errors.New("negative amount")
		}
		return l.credit(ctx, op.Denom, op.To, op.Amount)

	case domain.OpMint:
		res := l.db.WithContext(ctx).Model(&Marker{}).
			Where("denom = ? AND status = ?", op.Denom, MarkerStatusActive).
			Update("supply", gorm.Expr("supply + ?", op.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("marker not active")
		}
		return l.credit(ctx, op.Denom, markerAccount(op.Denom), op.Amount)

	case domain.OpAttachAttribute:
		return l.db.WithContext(ctx).Create(&Attribute{
			Denom: op.Denom,
			Name:  op.Name,
			Value: op.Attribute,
		}).Error

	case domain.OpRemoveAttribute:
		res := l.db.WithContext(ctx).
			Where("denom = ? AND name = ? AND value = ?", op.Denom, op.Name, op.Attribute).
			Delete(&Attribute{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("attribute not found")
		}
		return nil

	case domain.OpCancelMarker:
		return l.setMarkerStatus(ctx, op.Denom, MarkerStatusActive, MarkerStatusCancelled)

	case domain.OpDestroyMarker:
		return l.setMarkerStatus(ctx, op.Denom, MarkerStatusCancelled, MarkerStatusDestroyed)

	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
}

func (l *Ledger) setMarkerStatus(ctx context.Context, denom string, from, to MarkerStatus) error {
	res := l.db.WithContext(ctx).Model(&Marker{}).
		Where("denom = ? AND status = ?", denom, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("marker not in %q status", from)
	}
	return nil
}

func (l *Ledger) credit(ctx context.Context, denom, account string, amount int64) error {
	var h Holding
	err := l.db.WithContext(ctx).
		Where("denom = ? AND account = ?", denom, account).
		First(&h).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return l.db.WithContext(ctx).Create(&Holding{Denom: denom, Account: account, Amount: amount}).Error
	case err != nil:
		return err
	}
	return l.db.WithContext(ctx).Model(&h).Update("amount", gorm.Expr("amount + ?", amount)).Error
}

func (l *Ledger) move(ctx context.Context, denom, from, to string, amount int64) error {
	if amount < 0 {
		return errors.New("negative amount")
	}
	if amount == 0 {
		return nil
	}
	res := l.db.WithContext(ctx).Model(&Holding{}).
		Where("denom = ? AND account = ? AND amount >= ?", denom, from, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("insufficient funds: %s at %s", denom, from)
	}
	return l.credit(ctx, denom, to, amount)
}

// Balance reads an account's holding of a denom. Query helper for tests
// and reconciliation tooling.
func (l *Ledger) Balance(ctx context.Context, denom, account string) (int64, error) {
	var h Holding
	err := l.db.WithContext(ctx).
		Where("denom = ? AND account = ?", denom, account).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}
