package natsutil

import (
	"testing"

	"github.com/nats-io/nats.go"
)

func TestHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	c := (*headerCarrier)(msg)

	if got := c.Get("traceparent"); got != "" {
		t.Fatalf("Get on empty headers = %q", got)
	}
	if keys := c.Keys(); len(keys) != 0 {
		t.Fatalf("Keys on empty headers = %v", keys)
	}

	c.Set("traceparent", "00-abc-def-01")
	if got := c.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("Get = %q", got)
	}

	keys := c.Keys()
	if len(keys) != 1 || keys[0] != "Traceparent" {
		t.Fatalf("Keys = %v", keys)
	}

	// Header must be visible on the underlying message.
	if msg.Header.Get("traceparent") != "00-abc-def-01" {
		t.Fatal("carrier must write through to the message headers")
	}
}
