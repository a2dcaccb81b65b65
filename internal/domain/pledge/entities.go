package pledge

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type State string

const (
	StateProposed  State = "proposed"
	StateAccepted  State = "accepted"
	StateCancelled State = "cancelled"
	StateExecuted  State = "executed"
	StateClosed    State = "closed"
)

// Terminal reports whether no further transition is reachable from s.
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateClosed
}

// Active reports whether the pledge still encumbers its assets for the
// purpose of the double-pledging check.
func (s State) Active() bool {
	return s == StateProposed || s == StateAccepted
}

var (
	ErrNotFound             = errors.New("pledge not found")
	ErrDuplicatePledge      = errors.New("pledge already exists")
	ErrInvalidState         = errors.New("transition not permitted from current pledge state")
	ErrUnauthorized         = errors.New("caller is not authorized for this action")
	ErrInvalidAdvanceAmount = errors.New("total advance does not match recomputed value")
	ErrFundingMismatch      = errors.New("attached funds do not match required advance")
	ErrEmptyAssetSet        = errors.New("pledge must include at least one asset")
	ErrInvalidAssetValue    = errors.New("asset values must be strictly positive")
	ErrAssetAlreadyPledged  = errors.New("one or more assets are already pledged")
)

// Pledge is a single proposed-and-settled credit draw against a declared
// set of collateral assets. Records are never physically deleted; terminal
// pledges are retained for audit and listing queries.
type Pledge struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	PledgeID string `gorm:"size:36;uniqueIndex:ux_pledges_pledge_id" json:"pledge_id"`

	// AssetMarkerDenom is the token representing the pooled collateral for
	// this pledge.
	AssetMarkerDenom string `gorm:"size:64" json:"asset_marker_denom"`

	// TotalAdvance is the advance owed by the warehouse, in minor units of
	// the facility stablecoin.
	TotalAdvance int64 `gorm:"column:total_advance" json:"total_advance"`

	State          State     `gorm:"type:enum('proposed','accepted','cancelled','executed','closed');default:'proposed'" json:"state"`
	StateUpdatedAt time.Time `gorm:"autoCreateTime" json:"state_updated_at"`

	Assets []Asset `gorm:"foreignKey:PledgeRef;references:ID" json:"assets"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Pledge) TableName() string { return "pledges" }

// Asset is one collateral asset declared in a pledge, with its declared
// value in minor units.
type Asset struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	PledgeRef uint64 `gorm:"column:pledge_ref;index" json:"-"`
	AssetID   string `gorm:"size:36;index:idx_pledge_assets_asset_id" json:"id"`
	Value     int64  `gorm:"column:value" json:"value"`
}

func (Asset) TableName() string { return "pledge_assets" }

// TotalValue sums the declared collateral values.
func (p *Pledge) TotalValue() int64 {
	var total int64
	for _, a := range p.Assets {
		total += a.Value
	}
	return total
}
