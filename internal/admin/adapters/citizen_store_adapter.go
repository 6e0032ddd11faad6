package adapters

import (
	"context"

	"residency/internal/admin/types"
	citizenmodels "residency/internal/citizen/models"
	id "residency/pkg/domain"
)

// CitizenStore is the interface that citizen stores implement.
type CitizenStore interface {
	FindByID(ctx context.Context, citizenID id.CitizenID) (*citizenmodels.Citizen, error)
}

// CitizenStoreAdapter adapts a citizen store to admin's CitizenReader interface.
type CitizenStoreAdapter struct {
	store CitizenStore
}

func NewCitizenStoreAdapter(store CitizenStore) *CitizenStoreAdapter {
	return &CitizenStoreAdapter{store: store}
}

// FindByID returns a citizen by ID mapped to the admin type.
func (a *CitizenStoreAdapter) FindByID(ctx context.Context, citizenID id.CitizenID) (*types.AdminCitizen, error) {
	citizen, err := a.store.FindByID(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	return mapCitizen(citizen), nil
}

func mapCitizen(c *citizenmodels.Citizen) *types.AdminCitizen {
	out := &types.AdminCitizen{
		ID:                      c.ID,
		Level:                   string(c.Level),
		PostalCode:              c.PostalCode,
		VerifiedAt:              c.VerifiedAt,
		ManualReviewRequestedAt: c.ManualReviewRequestedAt,
		CreatedAt:               c.CreatedAt,
	}
	if c.Document != nil {
		out.DocumentType = string(c.Document.Type)
		out.DocumentHash = c.Document.Hash()
	}
	return out
}
