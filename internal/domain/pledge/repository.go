package pledge

import "context"

type Repository interface {
	// Create persists a new pledge with its assets.
	Create(ctx context.Context, p *Pledge) error

	// GetByPledgeID loads a pledge and its assets by public id.
	GetByPledgeID(ctx context.Context, pledgeID string) (*Pledge, error)

	// GetByPledgeIDForUpdate loads a pledge under a row lock for a
	// state transition.
	GetByPledgeIDForUpdate(ctx context.Context, pledgeID string) (*Pledge, error)

	// Save persists changes to an existing pledge.
	Save(ctx context.Context, p *Pledge) error

	// ListIDs returns all pledge ids in creation order.
	ListIDs(ctx context.Context) ([]string, error)

	// List returns all pledges with assets, in creation order.
	List(ctx context.Context) ([]Pledge, error)

	// ListActiveByAssetIDs returns pledges in proposed or accepted state
	// that reference any of the given asset ids.
	ListActiveByAssetIDs(ctx context.Context, assetIDs []string) ([]Pledge, error)
}
