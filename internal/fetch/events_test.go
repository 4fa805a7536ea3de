package fetch

import (
	"fmt"
	"testing"

	"github.com/nao1215/sitediff/internal/model"
)

// TestPublisherDeliversInOrder tests plain buffered delivery.
func TestPublisherDeliversInOrder(t *testing.T) {
	t.Parallel()

	p := NewPublisher(8)
	for i := 0; i < 3; i++ {
		p.Publish(Event{Path: fmt.Sprintf("/p%d", i), Side: model.SideBefore, Outcome: OutcomeFetched})
	}
	p.Close()

	var got []string
	for e := range p.Events() {
		got = append(got, e.Path)
	}

	want := []string{"/p0", "/p1", "/p2"}
	if len(got) != len(want) {
		t.Fatalf("received %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestPublisherDropsOldest tests that a full buffer sheds the oldest
// event instead of blocking the publisher.
func TestPublisherDropsOldest(t *testing.T) {
	t.Parallel()

	p := NewPublisher(2)

	// No consumer: the third publish must not block, and must evict /p0.
	p.Publish(Event{Path: "/p0", Outcome: OutcomeFetched})
	p.Publish(Event{Path: "/p1", Outcome: OutcomeFetched})
	p.Publish(Event{Path: "/p2", Outcome: OutcomeFetched})
	p.Close()

	var got []string
	for e := range p.Events() {
		got = append(got, e.Path)
	}

	if len(got) != 2 {
		t.Fatalf("received %d events, want 2", len(got))
	}
	if got[0] != "/p1" || got[1] != "/p2" {
		t.Errorf("events = %v, want [/p1 /p2]", got)
	}
}

// TestPublisherNilSafety tests that absent publishers are no-ops.
func TestPublisherNilSafety(t *testing.T) {
	t.Parallel()

	var p *Publisher
	p.Publish(Event{Path: "/"})
	p.Close()
}

// TestPublisherPublishAfterClose tests that late publishes are dropped
// silently instead of panicking on a closed channel.
func TestPublisherPublishAfterClose(t *testing.T) {
	t.Parallel()

	p := NewPublisher(2)
	p.Close()
	p.Publish(Event{Path: "/late"})
	p.Close() // double close is also a no-op

	if _, ok := <-p.Events(); ok {
		t.Error("expected closed empty channel")
	}
}
