package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBotAPI serves a fixed batch of updates once, then empty batches, and
// collects everything sent through sendMessage.
type fakeBotAPI struct {
	mu      sync.Mutex
	updates []Update
	served  bool
	sent    []sendMessageRequest
	sentCh  chan sendMessageRequest
}

func newFakeBotAPI(updates []Update) *fakeBotAPI {
	return &fakeBotAPI{
		updates: updates,
		sentCh:  make(chan sendMessageRequest, 16),
	}
}

func (f *fakeBotAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			f.mu.Lock()
			var batch []Update
			if !f.served {
				batch = f.updates
				f.served = true
			}
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(updatesResponse{OK: true, Result: batch})
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var req sendMessageRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.sent = append(f.sent, req)
			f.mu.Unlock()
			f.sentCh <- req
			w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	})
}

type handlerFunc func(ctx context.Context, userID int64, text string) string

func (h handlerFunc) HandleMessage(ctx context.Context, userID int64, text string) string {
	return h(ctx, userID, text)
}

func textUpdate(updateID int, userID, chatID int64, text string) Update {
	return Update{
		UpdateID: updateID,
		Message: &Message{
			MessageID: updateID,
			From:      &User{ID: userID},
			Chat:      Chat{ID: chatID},
			Text:      text,
		},
	}
}

func runPoller(t *testing.T, api *fakeBotAPI, h Handler) (cancel context.CancelFunc, done chan struct{}) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client := NewClient("TEST-TOKEN", 0)
	client.baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done = make(chan struct{})
	go func() {
		defer close(done)
		_ = NewPoller(client, h, 0).Run(ctx)
	}()
	return cancel, done
}

func waitSent(t *testing.T, api *fakeBotAPI) sendMessageRequest {
	t.Helper()
	select {
	case req := <-api.sentCh:
		return req
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for sendMessage")
		return sendMessageRequest{}
	}
}

func TestPoller_RoutesMessagesAndReplies(t *testing.T) {
	api := newFakeBotAPI([]Update{
		textUpdate(1, 42, 420, "hello"),
		{UpdateID: 2}, // no message, ignored
		textUpdate(3, 43, 430, "/list"),
	})

	var mu sync.Mutex
	var seen []string
	handler := handlerFunc(func(_ context.Context, userID int64, text string) string {
		mu.Lock()
		seen = append(seen, text)
		mu.Unlock()
		return "reply to " + text
	})

	cancel, done := runPoller(t, api, handler)
	defer cancel()

	first := waitSent(t, api)
	second := waitSent(t, api)

	assert.Equal(t, int64(420), first.ChatID)
	assert.Equal(t, "reply to hello", first.Text)
	assert.Equal(t, int64(430), second.ChatID)
	assert.Equal(t, "reply to /list", second.Text)

	mu.Lock()
	assert.Equal(t, []string{"hello", "/list"}, seen)
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestPoller_PanicInHandlerYieldsGenericReply(t *testing.T) {
	api := newFakeBotAPI([]Update{
		textUpdate(1, 42, 420, "boom"),
	})

	handler := handlerFunc(func(_ context.Context, _ int64, _ string) string {
		panic("handler exploded")
	})

	cancel, done := runPoller(t, api, handler)
	defer cancel()

	sent := waitSent(t, api)
	assert.Equal(t, genericErrorReply, sent.Text)
	assert.Equal(t, int64(420), sent.ChatID)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not survive the panic")
	}
}

func TestPoller_StopsOnCancel(t *testing.T) {
	api := newFakeBotAPI(nil)
	cancel, done := runPoller(t, api, handlerFunc(func(_ context.Context, _ int64, _ string) string {
		return ""
	}))

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestPoller_AdvancesOffset(t *testing.T) {
	// Served batch carries update ids 5 and 6; a correct poller asks for 7 next.
	api := newFakeBotAPI([]Update{
		textUpdate(5, 1, 1, "a"),
		textUpdate(6, 1, 1, "b"),
	})

	var mu sync.Mutex
	offsets := map[string]bool{}
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getUpdates") {
			mu.Lock()
			offsets[r.URL.Query().Get("offset")] = true
			mu.Unlock()
		}
		api.handler().ServeHTTP(w, r)
	})
	srv := httptest.NewServer(wrapped)
	defer srv.Close()

	client := NewClient("TEST-TOKEN", 0)
	client.baseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewPoller(client, handlerFunc(func(_ context.Context, _ int64, _ string) string {
			return "ok"
		}), 0).Run(ctx)
	}()

	waitSent(t, api)
	waitSent(t, api)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return offsets["7"]
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
