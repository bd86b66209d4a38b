package llm

import (
	"errors"
	"net/http"
	"testing"

	"github.com/entrhq/pyforge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStream(t *testing.T) {
	stream := make(chan *StreamChunk, 4)
	stream <- &StreamChunk{Role: "assistant"}
	stream <- &StreamChunk{Content: "print("}
	stream <- &StreamChunk{Content: "1)"}
	stream <- &StreamChunk{Finished: true}
	close(stream)

	msg, err := CollectStream(stream)
	require.NoError(t, err)
	assert.Equal(t, types.RoleAssistant, msg.Role)
	assert.Equal(t, "print(1)", msg.Content)
}

func TestCollectStreamError(t *testing.T) {
	stream := make(chan *StreamChunk, 2)
	stream <- &StreamChunk{Content: "partial"}
	stream <- &StreamChunk{Error: errors.New("connection reset")}
	close(stream)

	_, err := CollectStream(stream)
	assert.EqualError(t, err, "connection reset")
}

func TestAPIErrorAuthFailure(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: http.StatusUnauthorized}).IsAuthFailure())
	assert.True(t, (&APIError{StatusCode: http.StatusForbidden}).IsAuthFailure())
	assert.False(t, (&APIError{StatusCode: http.StatusInternalServerError}).IsAuthFailure())

	err := &APIError{Provider: "openai", StatusCode: 429, Body: "slow down"}
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "slow down")
}
