package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	stream := ": connected\n\n" +
		"id:0\ndata:{\"room\":\"lobby\",\"username\":\"alice\",\"message\":\"hi\"}\n\n" +
		": keepalive\n\n" +
		"id: 1\nevent: message\ndata: line one\ndata: line two\n\n" +
		"id:2\n\n"

	var got []RawEvent
	err := ReadEvents(strings.NewReader(stream), func(ev RawEvent) error {
		got = append(got, ev)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "0", got[0].ID)
	assert.JSONEq(t, `{"room":"lobby","username":"alice","message":"hi"}`, got[0].Data)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "message", got[1].Event)
	assert.Equal(t, "line one\nline two", got[1].Data)
}

func TestReadEvents_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := ReadEvents(strings.NewReader("data:a\n\ndata:b\n\n"), func(RawEvent) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "lobby", r.PostForm.Get("room"))
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "hello there", r.PostForm.Get("message"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithTimeout(time.Second))
	require.NoError(t, c.Send(context.Background(), "lobby", "alice", "hello there"))
}

func TestClient_SendValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"code":"invalid_message","message":"invalid message: room must be at most 30 characters","fields":{"room":"must be at most 30 characters"}}`)
	}))
	defer srv.Close()

	err := New(srv.URL).Send(context.Background(), strings.Repeat("r", 31), "alice", "hi")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "invalid_message", apiErr.Code)
	assert.Contains(t, apiErr.Fields, "room")
	assert.Contains(t, err.Error(), "422")
}

func TestClient_SendPlainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := New(srv.URL).Send(context.Background(), "lobby", "alice", "hi")
	assert.EqualError(t, err, "server returned 503 Service Unavailable")
}

func TestClient_Stats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"subscribers":2,"sequence":5,"capacity":1024,"rooms":{"lobby":3,"ops":2}}`)
	}))
	defer srv.Close()

	s, err := New(srv.URL).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Subscribers)
	assert.Equal(t, uint64(5), s.Sequence)
	assert.Equal(t, map[string]uint64{"lobby": 3, "ops": 2}, s.Rooms)

	var buf bytes.Buffer
	require.NoError(t, WriteStatsTable(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "SUBSCRIBERS  2")
	assert.Less(t, strings.Index(out, "lobby"), strings.Index(out, "ops"))
}

func TestClient_Tail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": connected\n\n")
		fmt.Fprint(w, "id:0\ndata:{\"room\":\"lobby\",\"username\":\"alice\",\"message\":\"hi\"}\n\n")
		fmt.Fprint(w, "id:1\ndata:{\"room\":\"ops\",\"username\":\"\",\"message\":\"deploy\"}\n\n")
	}))
	defer srv.Close()

	var lines []string
	err := New(srv.URL).Tail(context.Background(), func(ev Event) error {
		lines = append(lines, ev.ID+" "+FormatLine(ev))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0 [lobby] alice: hi",
		"1 [ops] anonymous: deploy",
	}, lines)
}

func TestClient_TailBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "id:3\ndata:not json\n\n")
	}))
	defer srv.Close()

	err := New(srv.URL).Tail(context.Background(), func(Event) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), `decode event "3"`)
}

func TestClient_TailCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": connected\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := New(srv.URL).Tail(ctx, func(Event) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
