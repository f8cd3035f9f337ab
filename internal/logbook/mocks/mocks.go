// Package mocks provides testify mocks for the logbook collaborator
// interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pretzelday/daylog/internal/logbook"
)

// RemoteStore is a mock for logbook.RemoteStore.
type RemoteStore struct {
	mock.Mock
}

func (m *RemoteStore) Push(ctx context.Context, dateKey string, e logbook.Entry) (string, error) {
	args := m.Called(ctx, dateKey, e)
	return args.String(0), args.Error(1)
}

func (m *RemoteStore) Update(ctx context.Context, dateKey string, e logbook.Entry) error {
	args := m.Called(ctx, dateKey, e)
	return args.Error(0)
}

func (m *RemoteStore) Remove(ctx context.Context, dateKey string, e logbook.Entry) error {
	args := m.Called(ctx, dateKey, e)
	return args.Error(0)
}

func (m *RemoteStore) Subscribe(ctx context.Context, dateKey string, fn func(logbook.Change)) (logbook.Subscription, error) {
	args := m.Called(ctx, dateKey, fn)
	if sub, ok := args.Get(0).(logbook.Subscription); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}

// Mirror is a mock for logbook.Mirror.
type Mirror struct {
	mock.Mock
}

func (m *Mirror) Load(dateKey string) ([]*logbook.Entry, error) {
	args := m.Called(dateKey)
	if entries, ok := args.Get(0).([]*logbook.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Mirror) Save(dateKey string, entries []*logbook.Entry) error {
	args := m.Called(dateKey, entries)
	return args.Error(0)
}

// Subscription is a mock for logbook.Subscription.
type Subscription struct {
	mock.Mock
}

func (m *Subscription) Cancel() {
	m.Called()
}
