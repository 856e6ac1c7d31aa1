package ai

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Is it detective fiction?"}}]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "test-model")
	reply, err := client.Complete(context.Background(), []models.Message{
		{Role: models.RoleSystem, Content: "You are a quiz host."},
		{Role: models.RoleUser, Content: "Game Start."},
	})

	require.NoError(t, err)
	require.Equal(t, "Is it detective fiction?", reply)
}

func TestClient_Complete_connectionRefused(t *testing.T) {
	// Grab a port nothing listens on.
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	client := NewClient("test-key", "http://"+addr, "test-model")
	_, err = client.Complete(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "hello"},
	})

	require.ErrorIs(t, err, ErrUnreachable)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: ErrTimeout,
		},
		{
			name: "wrapped deadline exceeded",
			err:  fmt.Errorf("request: %w", context.DeadlineExceeded),
			want: ErrTimeout,
		},
		{
			name: "op error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.NewSentinel("connection refused")},
			want: ErrUnreachable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestClassify_otherErrorsAreAnnotated(t *testing.T) {
	sentinel := errors.NewSentinel("bad request")
	classified := classify(sentinel)

	require.ErrorIs(t, classified, sentinel)
	require.NotErrorIs(t, classified, ErrTimeout)
	require.NotErrorIs(t, classified, ErrUnreachable)
}
