package monitoring

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

// A client tearing down after the hub has shut down must not block on the
// unregister channel; the same holds for a late register from ServeWS.
func TestHubShutdownUnblocksClients(t *testing.T) {
	h := NewHub(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	cancel()

	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not shut down")
	}

	finished := make(chan struct{})
	go func() {
		c := &client{send: make(chan []byte, 1)}
		h.unregisterClient(c)
		if h.registerClient(c) {
			t.Error("registerClient accepted a client after shutdown")
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("client registration paths blocked after shutdown")
	}

	// Publish must stay non-blocking regardless of hub state.
	for i := 0; i < cap(h.broadcast)+1; i++ {
		h.Publish(Event{Type: "prediction", Disease: "diabetes"})
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	h := NewHub(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := &client{send: make(chan []byte, 1)}
	if !h.registerClient(c) {
		t.Fatal("registerClient refused a client on a running hub")
	}

	h.Publish(Event{Type: "prediction", Disease: "heart", Probability: 0.9, RiskLevel: "High"})

	select {
	case msg := <-c.send:
		if len(msg) == 0 {
			t.Fatal("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}

	h.unregisterClient(c)
}
