package mocks

import (
	"context"

	"github.com/nbenliogludev/go-testcase-generator/internal/browser"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotter is a mock type for the browser.Snapshotter type
type MockSnapshotter struct {
	mock.Mock
}

// Snapshot provides a mock function with given fields: ctx, url
func (_m *MockSnapshotter) Snapshot(ctx context.Context, url string) (*browser.PageSnapshot, error) {
	ret := _m.Called(ctx, url)
	snap, _ := ret.Get(0).(*browser.PageSnapshot)
	return snap, ret.Error(1)
}

// Close provides a mock function with no fields
func (_m *MockSnapshotter) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

func NewMockSnapshotter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSnapshotter {
	m := &MockSnapshotter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ browser.Snapshotter = (*MockSnapshotter)(nil)
