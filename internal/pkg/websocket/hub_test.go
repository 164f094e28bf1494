package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func fakeClient(hub *Hub, clubID, userID string, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer), clubID: clubID, userID: userID, logger: zerolog.Nop()}
}

func TestHub_BroadcastReachesOnlyTheClub(t *testing.T) {
	hub := startHub(t)
	a := fakeClient(hub, "c1", "u1", 4)
	b := fakeClient(hub, "c2", "u2", 4)
	require.True(t, hub.attach(a))
	require.True(t, hub.attach(b))
	require.Eventually(t, func() bool { return hub.ClientsCount("c1") == 1 && hub.ClientsCount("c2") == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(&Frame{Type: FrameMessage, ClubID: "c1", ID: "m1", Content: "hello"})

	select {
	case raw := <-a.send:
		var f Frame
		require.NoError(t, json.Unmarshal(raw, &f))
		assert.Equal(t, "m1", f.ID)
		assert.Equal(t, FrameMessage, f.Type)
	case <-time.After(time.Second):
		t.Fatal("frame not delivered")
	}
	assert.Empty(t, b.send)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	slow := fakeClient(hub, "c1", "u1", 0)
	require.True(t, hub.attach(slow))
	require.Eventually(t, func() bool { return hub.ClientsCount("c1") == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(&Frame{Type: FrameDeleted, ClubID: "c1", ID: "m1"})

	assert.Eventually(t, func() bool { return hub.ClientsCount("c1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_AttachAfterStop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() { hub.Run(ctx); close(stopped) }()
	cancel()
	<-stopped

	assert.False(t, hub.attach(fakeClient(hub, "c1", "u1", 1)))
}

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostFromSocket(ctx context.Context, clubID, userID, content string) error {
	return m.Called(ctx, clubID, userID, content).Error(0)
}

func TestMessageHandler_PersistsInbound(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	poster := new(mockPoster)
	done := make(chan struct{})
	poster.On("PostFromSocket", mock.Anything, "c1", "u1", "hi").Return(nil).Run(func(mock.Arguments) { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewMessageHandler(hub, poster, zerolog.Nop()).Start(ctx)

	hub.inbound <- &Frame{Type: FrameMessage, ClubID: "c1", SenderID: "u1", Content: "hi"}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("message not persisted")
	}
	poster.AssertExpectations(t)
}

func TestDecodeInbound(t *testing.T) {
	tests := map[string]string{
		`{"content":"line one\nline two"}`: "line one\nline two",
		"plain text\nwith a break":         "plain text\nwith a break",
		"  padded  ":                        "padded",
		`{"other":"x"}`:                     "",
		"":                                  "",
	}
	for raw, want := range tests {
		assert.Equal(t, want, decodeInbound([]byte(raw)), raw)
	}
}

type knownClubs map[string]bool

func (k knownClubs) Exists(_ context.Context, id string) (bool, error) {
	return k[id], nil
}

func TestHandler_OneFramePerMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	h := NewHandler(hub, knownClubs{"c1": true}, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/clubs/:id/ws", func(c *gin.Context) { c.Set("userID", "u1") }, h.HandleConnection)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/clubs/c1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientsCount("c1") == 1 }, time.Second, 5*time.Millisecond)

	for _, id := range []string{"m1", "m2", "m3"} {
		hub.Broadcast(&Frame{Type: FrameMessage, ClubID: "c1", ID: id, Content: "burst"})
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for _, want := range []string{"m1", "m2", "m3"} {
		kind, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		var f Frame
		require.NoError(t, json.Unmarshal(raw, &f), string(raw))
		assert.Equal(t, want, f.ID)
	}
}

func TestHandler_UnknownClub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(startHub(t), knownClubs{}, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/clubs/:id/ws", func(c *gin.Context) { c.Set("userID", "u1") }, h.HandleConnection)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clubs/c9/ws", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
