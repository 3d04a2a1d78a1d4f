package stream

import (
	"context"
	"slices"
	"testing"
	"time"
)

func divideByTwo(n int) int {
	return n / 2
}

func isNonZero(n int) bool {
	return n != 0
}

func TestStream1(t *testing.T) {
	data := []int{0, 2, 4, 6, 8}
	ctx := context.Background()
	myStream := Slice(ctx, data)
	result := Collect(ctx,
		Transform(ctx, divideByTwo,
			Filter(ctx, isNonZero,
				myStream)))

	if !slices.Equal([]int{1, 2, 3, 4}, result) {
		t.Errorf("Expected [1, 2, 3, 4], got %v", result)
	}
}

func TestStream2(t *testing.T) {
	data := []int{0, 2, 4, 6, 8}
	ctx := context.Background()
	s := Slice(ctx, data)
	tf := Transform(ctx, divideByTwo, s)
	f := Filter(ctx, isNonZero, tf)
	result := Collect(ctx, f)

	if !slices.Equal([]int{1, 2, 3, 4}, result) {
		t.Errorf("Expected [1, 2, 3, 4], got %v", result)
	}
}

func TestFlatten(t *testing.T) {
	ctx := context.Background()
	data := [][]int{{0, 1}, {}, {2}, {3, 4, 5}}
	result := Collect(ctx, Flatten(ctx, Slice(ctx, data)))
	if !slices.Equal([]int{0, 1, 2, 3, 4, 5}, result) {
		t.Errorf("Expected [0 1 2 3 4 5], got %v", result)
	}
}

func TestSliceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// An unread channel must still close once the context is done.
	s := Slice(ctx, []int{1, 2, 3})
	select {
	case <-time.After(time.Second):
		t.Fatal("Expected stream to close on cancelled context")
	case _, ok := <-s:
		if ok {
			// Select may pick the send; drain the rest.
			for range s {
			}
		}
	}
}

func TestTickMeter(t *testing.T) {
	m := NewTickMeter("Test meter", "things", "bytes", time.Hour)
	defer m.Stop()
	m.Mark("a", 1, 10)
	m.Mark("b", 46, 0)
	if v := m.Count(); v != 47 {
		t.Fatalf("have %d want %d", v, 47)
	}
	if v := m.Extra(); v != 10 {
		t.Fatalf("have %d want %d", v, 10)
	}
	m.Stop()
	m.Stop()
}
