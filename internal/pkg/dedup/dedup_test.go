package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestDedup(t *testing.T, ttl time.Duration) (*Deduplicator, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Fatalf("close redis: %v", err)
		}
	})
	return NewDeduplicator(rdb, ttl), s
}

func TestDeduplicator_Claim(t *testing.T) {
	d, _ := newTestDedup(t, time.Minute)
	ctx := context.Background()

	dup, err := d.Claim(ctx, "profile-a", "add-prod-001")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if dup {
		t.Fatalf("expected first claim to be fresh")
	}

	dup, err = d.Claim(ctx, "profile-a", "add-prod-001")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if !dup {
		t.Fatalf("expected second claim to be duplicate")
	}

	dup, err = d.Claim(ctx, "profile-b", "add-prod-001")
	if err != nil {
		t.Fatalf("other scope: %v", err)
	}
	if dup {
		t.Fatalf("scopes must not share keys")
	}
}

func TestDeduplicator_WindowAndRelease(t *testing.T) {
	d, s := newTestDedup(t, time.Minute)
	ctx := context.Background()

	if _, err := d.Claim(ctx, "p", "k"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	s.FastForward(2 * time.Minute)
	dup, err := d.Claim(ctx, "p", "k")
	if err != nil || dup {
		t.Fatalf("expected claim after window to be fresh, dup=%v err=%v", dup, err)
	}

	if err := d.Release(ctx, "p", "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	dup, err = d.Claim(ctx, "p", "k")
	if err != nil || dup {
		t.Fatalf("expected claim after release to be fresh, dup=%v err=%v", dup, err)
	}
}

func TestDeduplicator_EmptyKeyNeverDuplicate(t *testing.T) {
	d, _ := newTestDedup(t, 0)
	for i := 0; i < 2; i++ {
		dup, err := d.Claim(context.Background(), "p", "")
		if err != nil || dup {
			t.Fatalf("empty key must not dedup, dup=%v err=%v", dup, err)
		}
	}
}
