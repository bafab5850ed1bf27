package reqctx

import (
	"context"
	"testing"
)

func TestClientRoundTrip(t *testing.T) {
	if _, ok := Client(context.Background()); ok {
		t.Fatal("expected no client in a bare context")
	}

	ctx := WithClient(context.Background(), ClientInfo{IP: "10.0.0.7", UserAgent: "curl/8", RequestID: "abc"})
	got, ok := Client(ctx)
	if !ok || got.IP != "10.0.0.7" || got.UserAgent != "curl/8" || got.RequestID != "abc" {
		t.Fatalf("unexpected client: %+v ok=%v", got, ok)
	}
}
