package suggest

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	var mu sync.Mutex
	var fetched []string

	s := New(func(ctx context.Context, prefix string, limit int) ([]string, error) {
		mu.Lock()
		fetched = append(fetched, prefix)
		mu.Unlock()
		return []string{prefix + "!"}, nil
	}, func(query string, results []string) {})
	s.Delay = 30 * time.Millisecond

	s.SetQuery("f")
	s.SetQuery("fi")
	s.SetQuery("fig")

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fetched) != 1 || fetched[0] != "fig" {
		t.Errorf("fetched = %v, want only the final query", fetched)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var delivered []string

	s := New(func(ctx context.Context, prefix string, limit int) ([]string, error) {
		if prefix == "slow" {
			<-release
		}
		return []string{prefix}, nil
	}, func(query string, results []string) {
		mu.Lock()
		delivered = append(delivered, query)
		mu.Unlock()
	})
	s.Delay = 10 * time.Millisecond

	s.SetQuery("slow")
	time.Sleep(50 * time.Millisecond) // let the slow fetch start

	s.SetQuery("fresh")
	time.Sleep(50 * time.Millisecond) // fresh fetch completes

	close(release) // slow response finally arrives, must be dropped
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 1 || delivered[0] != "fresh" {
		t.Errorf("delivered = %v, want only [fresh]", delivered)
	}
}

func TestEmptyQueryClearsImmediately(t *testing.T) {
	cleared := make(chan struct{}, 1)
	s := New(func(ctx context.Context, prefix string, limit int) ([]string, error) {
		t.Error("fetch called for empty query")
		return nil, nil
	}, func(query string, results []string) {
		if query == "" && results == nil {
			cleared <- struct{}{}
		}
	})
	s.Delay = 10 * time.Millisecond

	s.SetQuery("")
	select {
	case <-cleared:
	case <-time.After(time.Second):
		t.Fatal("empty query did not clear")
	}
}

func TestStopCancelsPending(t *testing.T) {
	s := New(func(ctx context.Context, prefix string, limit int) ([]string, error) {
		t.Error("fetch ran after Stop")
		return nil, nil
	}, func(query string, results []string) {})
	s.Delay = 20 * time.Millisecond

	s.SetQuery("fig")
	s.Stop()
	time.Sleep(100 * time.Millisecond)
}
