package notify_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/notify"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegistry_RegisterAndNotify(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "basic register and notify", id: "screen-123"},
		{name: "id with special chars", id: "screen+with+special@chars#123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := notify.NewRegistry()

			waitCh, cancel := registry.Register(tt.id)
			if registry.Count() != 1 {
				t.Errorf("Expected count=1 after register, got %d", registry.Count())
			}

			go func() {
				time.Sleep(10 * time.Millisecond)
				registry.Notify(tt.id)
			}()

			select {
			case <-waitCh:
			case <-time.After(1 * time.Second):
				t.Fatal("Timeout waiting for notification")
			}

			cancel()
			if registry.Count() != 0 {
				t.Errorf("Expected count=0 after cancel, got %d", registry.Count())
			}
		})
	}
}

func TestRegistry_NotifyBeforeRegister(t *testing.T) {
	registry := notify.NewRegistry()
	id := "early-notification"

	// Notify with nobody waiting is a no-op
	registry.Notify(id)

	waitCh, cancel := registry.Register(id)
	defer cancel()

	select {
	case <-waitCh:
		t.Fatal("Should not have received notification from early Notify call")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegistry_OnlyNotifiedScreenWakes(t *testing.T) {
	registry := notify.NewRegistry()

	wait1, cancel1 := registry.Register("screen-1")
	wait2, cancel2 := registry.Register("screen-2")
	defer cancel1()
	defer cancel2()

	registry.Notify("screen-2")

	select {
	case <-wait2:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("screen-2 should have been notified")
	}

	select {
	case <-wait1:
		t.Fatal("screen-1 should not have been notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegistry_SeveralWaitersOnOneScreen(t *testing.T) {
	registry := notify.NewRegistry()

	wait1, cancel1 := registry.Register("screen")
	wait2, cancel2 := registry.Register("screen")
	defer cancel1()
	defer cancel2()

	if registry.Count() != 2 {
		t.Errorf("Expected count=2, got %d", registry.Count())
	}

	registry.Notify("screen")
	for i, ch := range []<-chan struct{}{wait1, wait2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("waiter %d not woken", i)
		}
	}
}

func TestRegistry_CancelIsIdempotent(t *testing.T) {
	registry := notify.NewRegistry()

	_, cancel := registry.Register("screen")
	cancel()
	cancel()

	if registry.Count() != 0 {
		t.Errorf("Expected count=0, got %d", registry.Count())
	}
}

func TestRegistry_ConcurrentRegisterNotify(t *testing.T) {
	registry := notify.NewRegistry()

	const numGoroutines = 50
	var (
		wg    sync.WaitGroup
		ready sync.WaitGroup
	)
	wg.Add(numGoroutines)
	ready.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		id := fmt.Sprintf("screen-%d", i)
		go func(id string) {
			defer wg.Done()
			waitCh, cancel := registry.Register(id)
			defer cancel()
			ready.Done()

			select {
			case <-waitCh:
			case <-time.After(2 * time.Second):
				t.Errorf("Timeout waiting for notification on %s", id)
			}
		}(id)
	}

	ready.Wait()
	for i := 0; i < numGoroutines; i++ {
		registry.Notify(fmt.Sprintf("screen-%d", i))
	}
	wg.Wait()

	if registry.Count() != 0 {
		t.Errorf("Expected count=0 after concurrent test, got %d", registry.Count())
	}
}

func TestRegistry_WaitReturnsImmediatelyWhenSettled(t *testing.T) {
	registry := notify.NewRegistry()

	start := time.Now()
	woken := registry.Wait(context.Background(), "screen", time.Second, func() bool { return false })
	if woken {
		t.Error("Wait should not report a notification")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Wait blocked although nothing was pending")
	}
}

func TestRegistry_WaitWokenByNotify(t *testing.T) {
	registry := notify.NewRegistry()

	go func() {
		for registry.Count() == 0 {
			time.Sleep(time.Millisecond)
		}
		registry.Notify("screen")
	}()

	if !registry.Wait(context.Background(), "screen", 2*time.Second, func() bool { return true }) {
		t.Fatal("Wait should have been woken by Notify")
	}
	if registry.Count() != 0 {
		t.Errorf("Expected count=0 after Wait, got %d", registry.Count())
	}
}

func TestRegistry_WaitTimesOut(t *testing.T) {
	registry := notify.NewRegistry()

	if registry.Wait(context.Background(), "screen", 20*time.Millisecond, func() bool { return true }) {
		t.Fatal("Wait should have timed out")
	}
}

func TestRegistry_WaitHonoursContext(t *testing.T) {
	registry := notify.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if registry.Wait(ctx, "screen", time.Second, func() bool { return true }) {
		t.Fatal("Wait should have returned on a cancelled context")
	}
}
