package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatvault-ai/chatvault/core"
)

var _ Model = (*MockModel)(nil)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("hello", "hi there")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: "instructions"},
			{Role: core.RoleUser, Content: "hello"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)
}

func TestMockModel_KeysOnLastUserMessage(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("second", "reply to second")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{
			{Role: core.RoleUser, Content: "first"},
			{Role: core.RoleAssistant, Content: "reply to first"},
			{Role: core.RoleUser, Content: "second"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "reply to second", resp.Content)
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel("test-model")

	resp, err := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleUser, Content: "anything"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", resp.Content)
}

func TestMockModel_FailWith(t *testing.T) {
	m := NewMockModel("test-model")
	m.FailWith(errors.New("rate limited"))

	_, err := m.Generate(context.Background(), Request{})
	require.Error(t, err)
}

func TestMockModel_RecordsRequests(t *testing.T) {
	m := NewMockModel("test-model")
	_, _ = m.Generate(context.Background(), Request{Instructions: "a"})
	_, _ = m.Generate(context.Background(), Request{Instructions: "b"})

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "a", reqs[0].Instructions)
	assert.Equal(t, "b", reqs[1].Instructions)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model")
	assert.Equal(t, Info{Name: "test-model", Provider: "mock"}, m.Info())
}
