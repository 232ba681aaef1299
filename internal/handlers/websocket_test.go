package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"kitchenlog/internal/models"
	"kitchenlog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestWebSocket_ElapsedStream(t *testing.T) {
	st, clk := newTestStation(t, &memLog{})
	st.SetStaff("Bob")
	cook, _ := st.Create("Wings")
	st.Start(cook.ID)

	r := gin.New()
	h := NewHandler(&service.Service{Station: st}, nil, nil)
	r.GET("/ws/elapsed", h.wsElapsed)

	srv := httptest.NewServer(r)
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/elapsed"
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	type envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}

	// Read initial active set
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	var active []models.CookView
	if env.Type != "active" || json.Unmarshal(env.Data, &active) != nil || len(active) != 1 || active[0].Display != "00:00" {
		t.Fatalf("bad initial envelope: %s %s", env.Type, env.Data)
	}

	// One tick
	if err := clk.WaitAdvance(time.Second, time.Second, 1); err != nil {
		t.Fatalf("WaitAdvance: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read tick: %v", err)
	}
	var views []models.ElapsedView
	if env.Type != "elapsed" || json.Unmarshal(env.Data, &views) != nil || len(views) != 1 || views[0].Display != "00:01" {
		t.Fatalf("bad tick envelope: %s %s", env.Type, env.Data)
	}
}
