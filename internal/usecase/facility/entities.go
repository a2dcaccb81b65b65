package facility

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InstantiateInput struct {
	BindName     string `json:"bind_name"`
	ContractName string `json:"contract_name"`

	Originator      string          `json:"originator"`
	Warehouse       string          `json:"warehouse"`
	EscrowMarker    string          `json:"escrow_marker"`
	MarkerDenom     string          `json:"marker_denom"`
	StablecoinDenom string          `json:"stablecoin_denom"`
	AdvanceRate     decimal.Decimal `json:"advance_rate"`
	PaydownRate     decimal.Decimal `json:"paydown_rate"`
}

type FacilityDTO struct {
	FacilityID      string          `json:"facility_id"`
	BindName        string          `json:"bind_name"`
	ContractName    string          `json:"contract_name"`
	Originator      string          `json:"originator"`
	Warehouse       string          `json:"warehouse"`
	EscrowMarker    string          `json:"escrow_marker"`
	MarkerDenom     string          `json:"marker_denom"`
	StablecoinDenom string          `json:"stablecoin_denom"`
	AdvanceRate     decimal.Decimal `json:"advance_rate"`
	PaydownRate     decimal.Decimal `json:"paydown_rate"`
	CreatedAt       time.Time       `json:"created_at"`
}

type ContractInfoDTO struct {
	Admin           string      `json:"admin"`
	BindName        string      `json:"bind_name"`
	ContractName    string      `json:"contract_name"`
	ContractType    string      `json:"contract_type"`
	ContractVersion string      `json:"contract_version"`
	Facility        FacilityDTO `json:"facility"`
}

// InvalidFieldsError names every instantiate field that failed validation,
// so a misconfigured deployment can be fixed in one pass.
type InvalidFieldsError struct {
	Fields []string
}

func (e *InvalidFieldsError) Error() string {
	return fmt.Sprintf("invalid fields: %v", e.Fields)
}
