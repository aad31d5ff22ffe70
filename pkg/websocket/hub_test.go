package websocket

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/models"
)

func TestPublishResultDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBacklog*2; i++ {
			hub.PublishResult(models.ResultSummary{File: "r.json"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("PublishResult blocked with nobody draining the hub")
	}
	if len(hub.broadcast) != broadcastBacklog {
		t.Fatalf("backlog = %d, want %d", len(hub.broadcast), broadcastBacklog)
	}

	var msg struct {
		Type string               `json:"type"`
		Data models.ResultSummary `json:"data"`
	}
	if err := json.Unmarshal(<-hub.broadcast, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "resultSaved" || msg.Data.File != "r.json" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestServeResultsFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: hub.ServeResults}
	go server.Serve(ln)
	defer ln.Close()

	dialer := websocket.Dialer{
		NetDial: func(network, addr string) (net.Conn, error) { return ln.Dial() },
	}
	conn, _, err := dialer.Dial("ws://quiz.test/ws/results", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello Message
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("hello type = %q", hello.Type)
	}

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.PublishResult(models.ResultSummary{File: "results_20240101T000000Z_abcdef01.json", Total: 1, MaxScore: 2, Percent: 50})

	var msg struct {
		Type string               `json:"type"`
		Data models.ResultSummary `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read result: %v", err)
	}
	if msg.Type != "resultSaved" || msg.Data.Percent != 50 || msg.Data.File != "results_20240101T000000Z_abcdef01.json" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestServeResultsRejectsForeignOrigin(t *testing.T) {
	hub := NewHub(zap.NewNop())

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: hub.ServeResults}
	go server.Serve(ln)
	defer ln.Close()

	dialer := websocket.Dialer{
		NetDial: func(network, addr string) (net.Conn, error) { return ln.Dial() },
	}
	header := map[string][]string{"Origin": {"http://evil.example"}}
	_, resp, err := dialer.Dial("ws://quiz.test/ws/results", header)
	if err == nil {
		t.Fatalf("foreign origin accepted")
	}
	if resp != nil && resp.StatusCode != fasthttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}
