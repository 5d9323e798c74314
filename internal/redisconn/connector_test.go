package redisconn

import (
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/planloop/planloop/internal/logger"
)

func testOptions(addr string) Options {
	return Options{
		Addr:           addr,
		ConnectTimeout: 500 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        100 * time.Millisecond,
		PingTimeout:    100 * time.Millisecond,
		DialTimeout:    100 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := New(testOptions(mr.Addr()), logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = client.Close() }()
}

func TestNewFailsAfterTimeout(t *testing.T) {
	// Nothing listens here.
	_, err := New(testOptions("127.0.0.1:1"), logger.Nop())
	if err == nil {
		t.Fatal("New() should fail when the mirror store is unreachable")
	}
	if !strings.Contains(err.Error(), "unavailable") {
		t.Errorf("New() error = %v, want an unavailable error", err)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero connect timeout", func(o *Options) { o.ConnectTimeout = 0 }},
		{"zero retry interval", func(o *Options) { o.RetryInterval = 0 }},
		{"zero max wait", func(o *Options) { o.MaxWait = 0 }},
		{"zero ping timeout", func(o *Options) { o.PingTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("localhost:6379")
			tt.mutate(&opts)
			if _, err := New(opts, logger.Nop()); err == nil {
				t.Error("New() should reject invalid options")
			}
		})
	}
}
