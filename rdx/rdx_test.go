package rdx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	old := Conn
	Conn = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Conn = old })
	return mr
}

func TestGetJSONMiss(t *testing.T) {
	useTestRedis(t)

	var dest []string
	if GetJSON(context.Background(), "recipes:all", &dest) {
		t.Error("empty cache reported a hit")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	SetJSON(ctx, "recipes:all", []string{"r1", "r2"}, DefaultTTL)

	var got []string
	if !GetJSON(ctx, "recipes:all", &got) {
		t.Fatal("expected a hit after SetJSON")
	}
	if len(got) != 2 || got[0] != "r1" || got[1] != "r2" {
		t.Errorf("got %v, want [r1 r2]", got)
	}
}

func TestGetJSONBadPayloadIsMiss(t *testing.T) {
	mr := useTestRedis(t)
	mr.Set("recipes:all", "not json")

	var dest []string
	if GetJSON(context.Background(), "recipes:all", &dest) {
		t.Error("undecodable payload reported a hit")
	}
}

func TestInvalidateWildcard(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	SetJSON(ctx, "recipes:all", "a", time.Minute)
	SetJSON(ctx, "recipes:detail:r1", "b", time.Minute)
	SetJSON(ctx, "users:profile:u1", "c", time.Minute)

	Invalidate(ctx, "recipes:*")

	var dest string
	if GetJSON(ctx, "recipes:all", &dest) || GetJSON(ctx, "recipes:detail:r1", &dest) {
		t.Error("recipes keys survived invalidation")
	}
	if !GetJSON(ctx, "users:profile:u1", &dest) {
		t.Error("unrelated key was invalidated")
	}
}

func TestNilConnIsNoOp(t *testing.T) {
	old := Conn
	Conn = nil
	defer func() { Conn = old }()

	ctx := context.Background()
	var dest string
	if GetJSON(ctx, "recipes:all", &dest) {
		t.Error("nil client reported a hit")
	}
	SetJSON(ctx, "recipes:all", "a", time.Minute)
	Invalidate(ctx, "recipes:*")
}
