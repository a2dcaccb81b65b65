package facility

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// ContractType identifies this deployment in contract-info queries.
	ContractType = "smart-contracts.warehouse-facility"
	// ContractVersion is bumped on schema or behavior changes.
	ContractVersion = "0.2.0"
)

var (
	ErrNotFound      = errors.New("facility not found")
	ErrAlreadyExists = errors.New("facility already instantiated")
)

// Facility is the bilateral credit agreement between the originator and the
// warehouse. Exactly one row exists per deployment; every field except the
// rates is immutable after instantiation.
type Facility struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"-"`
	FacilityID   string `gorm:"size:32;uniqueIndex:ux_facilities_facility_id" json:"facility_id"`
	BindName     string `gorm:"size:128" json:"bind_name"`
	ContractName string `gorm:"size:128" json:"contract_name"`
	Admin        string `gorm:"size:128" json:"admin"`

	Originator string `gorm:"size:128" json:"originator"`
	Warehouse  string `gorm:"size:128" json:"warehouse"`

	// EscrowMarker is the account that custodies pledged collateral tokens
	// and escrowed stablecoin for this facility.
	EscrowMarker    string `gorm:"size:128" json:"escrow_marker"`
	MarkerDenom     string `gorm:"size:64" json:"marker_denom"`
	StablecoinDenom string `gorm:"size:64" json:"stablecoin_denom"`

	// Percentages, e.g. 75.125 means 75.125%. Never float64.
	AdvanceRate decimal.Decimal `gorm:"type:decimal(8,4)" json:"advance_rate"`
	PaydownRate decimal.Decimal `gorm:"type:decimal(8,4)" json:"paydown_rate"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Facility) TableName() string { return "facilities" }

// AdvanceAmount applies the facility advance rate to a collateral value in
// minor units, rounding half away from zero. The engine recomputes advances
// with this rule; caller-supplied values must match exactly.
func (f *Facility) AdvanceAmount(totalValue int64) int64 {
	return decimal.NewFromInt(totalValue).
		Mul(f.AdvanceRate).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
