package trace_test

import (
	"testing"
	"time"

	"github.com/sorablue/boltwire/trace"
)

func TestNPlus1BelowThreshold(t *testing.T) {
	t.Parallel()
	d := trace.NewNPlus1Detector(5, time.Second, 10*time.Second)
	now := time.Now()
	q := "MATCH (n:User) WHERE n.id = $id RETURN n"

	for i := range 4 {
		r := d.Record(q, now.Add(time.Duration(i)*100*time.Millisecond))
		if r.Matched {
			t.Fatal("unexpected match before threshold")
		}
		if r.Alert != nil {
			t.Fatal("unexpected alert before threshold")
		}
	}
}

func TestNPlus1AtThreshold(t *testing.T) {
	t.Parallel()
	d := trace.NewNPlus1Detector(5, time.Second, 10*time.Second)
	now := time.Now()
	q := "MATCH (n:User) WHERE n.id = $id RETURN n"

	for i := range 4 {
		d.Record(q, now.Add(time.Duration(i)*100*time.Millisecond))
	}

	r := d.Record(q, now.Add(400*time.Millisecond))
	if !r.Matched {
		t.Fatal("expected matched at threshold")
	}
	if r.Alert == nil {
		t.Fatal("expected alert on first crossing")
	}
	if r.Alert.Count != 5 {
		t.Fatalf("alert count = %d, want 5", r.Alert.Count)
	}
}

func TestNPlus1Cooldown(t *testing.T) {
	t.Parallel()
	d := trace.NewNPlus1Detector(3, time.Second, 10*time.Second)
	now := time.Now()
	q := "MATCH (n:User) RETURN n"

	for i := range 2 {
		d.Record(q, now.Add(time.Duration(i)*10*time.Millisecond))
	}
	first := d.Record(q, now.Add(40*time.Millisecond))
	if first.Alert == nil {
		t.Fatal("expected alert on first crossing")
	}

	second := d.Record(q, now.Add(50*time.Millisecond))
	if second.Alert != nil {
		t.Fatal("expected no alert within cooldown")
	}
	if !second.Matched {
		t.Fatal("expected Matched true throughout cooldown")
	}
}

func TestNPlus1WindowEviction(t *testing.T) {
	t.Parallel()
	d := trace.NewNPlus1Detector(3, 100*time.Millisecond, time.Second)
	now := time.Now()
	q := "MATCH (n:User) RETURN n"

	d.Record(q, now)
	d.Record(q, now.Add(50*time.Millisecond))
	r := d.Record(q, now.Add(500*time.Millisecond))
	if r.Matched {
		t.Fatal("expected old occurrences to be evicted from the window")
	}
}

func TestNPlus1EmptyStatementIgnored(t *testing.T) {
	t.Parallel()
	d := trace.NewNPlus1Detector(1, time.Second, time.Second)
	r := d.Record("", time.Now())
	if r.Matched || r.Alert != nil {
		t.Fatal("empty statement must never match or alert")
	}
}
