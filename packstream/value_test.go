package packstream_test

import (
	"testing"

	"github.com/sorablue/boltwire/packstream"
)

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()

	values := []packstream.Value{
		packstream.NewNull(),
		packstream.NewBool(true),
		packstream.NewBool(false),
		packstream.NewInt(0),
		packstream.NewInt(-16),
		packstream.NewInt(127),
		packstream.NewInt(-129),
		packstream.NewInt(32767),
		packstream.NewInt(-2147483648),
		packstream.NewInt(1 << 40),
		packstream.NewFloat(3.14159),
		packstream.NewBytes([]byte{1, 2, 3, 4}),
		packstream.NewString(""),
		packstream.NewString("hello, bolt"),
		packstream.NewList([]packstream.Value{packstream.NewInt(1), packstream.NewString("x")}),
		packstream.NewMap(map[string]packstream.Value{
			"a": packstream.NewInt(1),
			"b": packstream.NewString("two"),
		}),
		packstream.NewNode(packstream.Node{
			ID:         7,
			Labels:     []string{"Person", "Employee"},
			Properties: map[string]packstream.Value{"name": packstream.NewString("Ada")},
		}),
		packstream.NewRelationship(packstream.Relationship{
			ID: 1, StartID: 2, EndID: 3, Type: "KNOWS",
			Properties: map[string]packstream.Value{"since": packstream.NewInt(2020)},
		}),
		packstream.NewPath(packstream.Path{
			Nodes: []packstream.Node{{ID: 1}, {ID: 2}},
			Rels:  []packstream.UnboundRelationship{{ID: 9, Type: "KNOWS"}},
			Sequence: []int64{1, 1},
		}),
		packstream.NewDate(packstream.Date{DaysSinceEpoch: 19345}),
		packstream.NewDuration(packstream.Duration{Months: 1, Days: 2, Seconds: 3, Nanos: 4}),
		packstream.NewPoint2D(packstream.Point2D{SRID: 4326, X: 1.5, Y: -2.5}),
	}

	for i, v := range values {
		w := packstream.NewWriteCursor()
		if err := packstream.WriteValue(w, v); err != nil {
			t.Fatalf("value %d: WriteValue: %v", i, err)
		}
		r := packstream.NewCursor(w.Bytes())
		got, err := packstream.ReadValue(r)
		if err != nil {
			t.Fatalf("value %d: ReadValue: %v", i, err)
		}
		if !got.Equal(v) {
			t.Fatalf("value %d: round trip mismatch: got %+v, want %+v", i, got, v)
		}
		if r.Len() != 0 {
			t.Fatalf("value %d: %d trailing bytes after decode", i, r.Len())
		}
	}
}

func TestValueAccessorsRejectWrongKind(t *testing.T) {
	t.Parallel()

	v := packstream.NewInt(42)
	if _, ok := v.Str(); ok {
		t.Fatal("Str() ok on an Integer value")
	}
	if _, ok := v.Bool(); ok {
		t.Fatal("Bool() ok on an Integer value")
	}
	i, ok := v.Int()
	if !ok || i != 42 {
		t.Fatalf("Int() = %d, %v, want 42, true", i, ok)
	}
}

func TestEqualTreatsNilAndEmptyAsEqual(t *testing.T) {
	t.Parallel()

	if !packstream.NewList(nil).Equal(packstream.NewList([]packstream.Value{})) {
		t.Fatal("nil list should equal empty list")
	}
	if !packstream.NewMap(nil).Equal(packstream.NewMap(map[string]packstream.Value{})) {
		t.Fatal("nil map should equal empty map")
	}
	if !packstream.NewBytes(nil).Equal(packstream.NewBytes([]byte{})) {
		t.Fatal("nil bytes should equal empty bytes")
	}

	a := packstream.NewNode(packstream.Node{ID: 1})
	b := packstream.NewNode(packstream.Node{ID: 1, Labels: []string{}, Properties: map[string]packstream.Value{}})
	if !a.Equal(b) {
		t.Fatal("Node with nil Labels/Properties should equal one with empty Labels/Properties")
	}

	c := packstream.NewUnboundRelationship(packstream.UnboundRelationship{ID: 9, Type: "KNOWS"})
	d := packstream.NewUnboundRelationship(packstream.UnboundRelationship{
		ID: 9, Type: "KNOWS", Properties: map[string]packstream.Value{},
	})
	if !c.Equal(d) {
		t.Fatal("UnboundRelationship with nil Properties should equal one with empty Properties")
	}
}

func TestMapEqualIgnoresKeyOrder(t *testing.T) {
	t.Parallel()

	a := packstream.NewMap(map[string]packstream.Value{
		"x": packstream.NewInt(1),
		"y": packstream.NewInt(2),
	})
	b := packstream.NewMap(map[string]packstream.Value{
		"y": packstream.NewInt(2),
		"x": packstream.NewInt(1),
	})
	if !a.Equal(b) {
		t.Fatal("maps built in different key order should be Equal")
	}
}
