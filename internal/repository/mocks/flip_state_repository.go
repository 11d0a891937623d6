package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nastiaetstesha/metadeck/internal/domain"
)

// FlipStateRepository is a mock type for the repository.FlipStateRepository
// interface.
type FlipStateRepository struct {
	mock.Mock
}

func (m *FlipStateRepository) Get(ctx context.Context, roomID uuid.UUID) (domain.FlipMap, error) {
	ret := m.Called(ctx, roomID)

	var r0 domain.FlipMap
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domain.FlipMap)
	}
	return r0, ret.Error(1)
}

func (m *FlipStateRepository) Set(ctx context.Context, roomID uuid.UUID, flips domain.FlipMap) error {
	ret := m.Called(ctx, roomID, flips)
	return ret.Error(0)
}

func (m *FlipStateRepository) Clear(ctx context.Context, roomID uuid.UUID) error {
	ret := m.Called(ctx, roomID)
	return ret.Error(0)
}
