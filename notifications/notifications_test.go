package notifications

import (
	"context"
	"testing"
	"time"
)

func TestStartConsumerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		StartConsumer(ctx, NewHub())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StartConsumer did not return after cancel")
	}
}

func TestSleepOrDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepOrDone(ctx, time.Minute) {
		t.Error("cancelled context should report done")
	}

	if !sleepOrDone(context.Background(), time.Millisecond) {
		t.Error("elapsed sleep should report not-done")
	}
}
