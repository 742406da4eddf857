package mocks

import (
	"context"

	"github.com/nbenliogludev/go-testcase-generator/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockLLMClient is a mock type for the llm.Client type
type MockLLMClient struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, prompt
func (_m *MockLLMClient) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	ret := _m.Called(ctx, prompt)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, llm.Prompt) string); ok {
		r0 = rf(ctx, prompt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(string)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, llm.Prompt) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockLLMClient) Provider() string { return "mock" }
func (_m *MockLLMClient) Model() string    { return "mock-model" }

// NewMockLLMClient creates a new instance of MockLLMClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockLLMClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLLMClient {
	m := &MockLLMClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ llm.Client = (*MockLLMClient)(nil)
