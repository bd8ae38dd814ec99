package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *ResponsesClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewResponsesClient("sk-test", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestCompleteSendsResponsesRequest(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody responsesRequest
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id":"resp_1","status":"completed","output_text":"\n\nDear team,\nHire me.\n"}`))
	})

	text, err := client.Complete(context.Background(), "the prompt")
	require.NoError(t, err)

	assert.Equal(t, "\n\nDear team,\nHire me.\n", text, "model text is returned verbatim")
	assert.Equal(t, "/responses", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-5-nano", gotBody.Model)
	assert.Equal(t, "low", gotBody.Reasoning.Effort)
	assert.Equal(t, llm.CoverLetterInstructions, gotBody.Instructions)
	assert.Equal(t, "the prompt", gotBody.Input)
}

func TestCompleteJoinsOutputContentParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id":"resp_2","status":"completed",
			"output":[
				{"type":"reasoning","content":[]},
				{"type":"message","content":[
					{"type":"output_text","text":"First part. "},
					{"type":"refusal","text":"ignored"},
					{"type":"output_text","text":"Second part."}
				]}
			],
			"usage":{"input_tokens":10,"output_tokens":5,"total_tokens":15}
		}`))
	})

	text, err := client.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "First part. Second part.", text)
}

func TestCompleteServerErrorIsModelInvocation(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"busy","type":"server_error"}}`))
		})

		_, err := client.Complete(context.Background(), "p")
		require.Error(t, err)
		assert.True(t, errors.Is(err, llm.ErrModelInvocation), "status %d: %v", status, err)
		assert.Contains(t, err.Error(), "busy")
	}
}

func TestCompleteNonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := client.Complete(context.Background(), "p")
	require.ErrorIs(t, err, llm.ErrModelInvocation)
	assert.Contains(t, err.Error(), "502")
}

func TestCompleteMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := client.Complete(context.Background(), "p")
	require.ErrorIs(t, err, llm.ErrModelInvocation)
}

func TestCompleteBlankOutputIsEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"resp_3","status":"incomplete","output":[{"type":"message","content":[{"type":"output_text","text":"   \n"}]}]}`))
	})

	_, err := client.Complete(context.Background(), "p")
	require.ErrorIs(t, err, llm.ErrEmptyResponse)
	assert.False(t, errors.Is(err, llm.ErrModelInvocation))
}

func TestCompleteTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := client.Complete(context.Background(), "p")
	require.ErrorIs(t, err, llm.ErrModelInvocation)
	assert.True(t, strings.Contains(err.Error(), "openai request timeout"), err.Error())
}

func TestNewResponsesClientRequiresKey(t *testing.T) {
	_, err := NewResponsesClient("  ")
	require.Error(t, err)
}
