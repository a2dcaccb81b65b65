package pledge

import "time"

type AssetInput struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

type ProposeInput struct {
	PledgeID         string       `json:"id"`
	Assets           []AssetInput `json:"assets"`
	AssetMarkerDenom string       `json:"asset_marker_denom"`
	TotalAdvance     int64        `json:"total_advance"`
}

// Funds is the stablecoin attached to an accept_pledge message.
type Funds struct {
	Denom  string `json:"denom"`
	Amount int64  `json:"amount"`
}

type AssetDTO struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

type PledgeDTO struct {
	PledgeID         string     `json:"pledge_id"`
	Assets           []AssetDTO `json:"assets"`
	AssetMarkerDenom string     `json:"asset_marker_denom"`
	TotalAdvance     int64      `json:"total_advance"`
	State            string     `json:"state"`
	StateUpdatedAt   time.Time  `json:"state_updated_at"`
	CreatedAt        time.Time  `json:"created_at"`
}
