package registry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/iaros/concierge/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.New(logging.Config{Service: "test", Level: "error"})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// dialConn spins up a real gorilla websocket pair against an in-process
// httptest server. It returns the server-side conn (what Registry holds,
// mirroring handleEvents' upgrade) and the client-side conn (what the test
// reads broadcasts from), so Registry is exercised against the actual
// *websocket.Conn type instead of a fake.
func dialConn(t *testing.T) (server, client *websocket.Conn, cleanup func()) {
	t.Helper()
	serverConnCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConnCh <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	serverConn := <-serverConnCh

	return serverConn, clientConn, func() {
		clientConn.Close()
		serverConn.Close()
		srv.Close()
	}
}

func TestConnectAndDisconnectTrackCount(t *testing.T) {
	r := New(testLogger())
	serverConn, _, cleanup := dialConn(t)
	defer cleanup()

	r.Connect(serverConn, "user-1")
	require.Equal(t, 1, r.ConnectionCount("user-1"))

	r.Disconnect(serverConn, "user-1")
	require.Equal(t, 0, r.ConnectionCount("user-1"))
}

func TestConnectWithEmptyUserIDUsesAnonBucket(t *testing.T) {
	r := New(testLogger())
	serverConn, _, cleanup := dialConn(t)
	defer cleanup()

	r.Connect(serverConn, "")
	require.Equal(t, 1, r.ConnectionCount(AnonKey))
}

func TestBroadcastDeliversToTargetUserOnly(t *testing.T) {
	r := New(testLogger())
	serverA, clientA, cleanupA := dialConn(t)
	defer cleanupA()
	serverB, clientB, cleanupB := dialConn(t)
	defer cleanupB()

	r.Connect(serverA, "user-a")
	r.Connect(serverB, "user-b")

	r.Broadcast(map[string]string{"type": "deal_alert"}, "user-a")

	clientA.SetReadDeadline(time.Now().Add(time.Second))
	var payload map[string]string
	require.NoError(t, clientA.ReadJSON(&payload))
	require.Equal(t, "deal_alert", payload["type"])

	clientB.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var other map[string]string
	require.Error(t, clientB.ReadJSON(&other))
}
