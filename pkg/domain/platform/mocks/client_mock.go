package mocks

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Me(ctx context.Context, accessToken string) (*platform.Account, error) {
	args := m.Called(ctx, accessToken)
	acc, ok := args.Get(0).(*platform.Account)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *platform.Account, got %T", args.Get(0))
	}
	return acc, args.Error(1)
}

func (m *Client) Followers(ctx context.Context, accessToken, accountID string) ([]platform.Account, error) {
	args := m.Called(ctx, accessToken, accountID)
	accounts, ok := args.Get(0).([]platform.Account)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []platform.Account, got %T", args.Get(0))
	}
	return accounts, args.Error(1)
}

func (m *Client) Following(ctx context.Context, accessToken, accountID string) ([]platform.Account, error) {
	args := m.Called(ctx, accessToken, accountID)
	accounts, ok := args.Get(0).([]platform.Account)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []platform.Account, got %T", args.Get(0))
	}
	return accounts, args.Error(1)
}

func (m *Client) RemoveFollower(ctx context.Context, accessToken, accountID, followerID string) error {
	args := m.Called(ctx, accessToken, accountID, followerID)
	return args.Error(0)
}
