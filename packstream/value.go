package packstream

import (
	"bytes"
	"reflect"
)

// Kind discriminates the closed set of Bolt value variants. Decoding is a
// flat switch over the marker byte into one of these kinds — there is no
// virtual dispatch or per-kind interface.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindBytes
	KindString
	KindList
	KindMap
	KindNode
	KindRelationship
	KindUnboundRelationship
	KindPath
	KindDate
	KindTime
	KindLocalTime
	KindLocalDateTime
	KindDateTimeOffset
	KindDateTimeZoneID
	KindDuration
	KindPoint2D
	KindPoint3D
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBytes:
		return "Bytes"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindNode:
		return "Node"
	case KindRelationship:
		return "Relationship"
	case KindUnboundRelationship:
		return "UnboundRelationship"
	case KindPath:
		return "Path"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindLocalTime:
		return "LocalTime"
	case KindLocalDateTime:
		return "LocalDateTime"
	case KindDateTimeOffset:
		return "DateTimeOffset"
	case KindDateTimeZoneID:
		return "DateTimeZoneID"
	case KindDuration:
		return "Duration"
	case KindPoint2D:
		return "Point2D"
	case KindPoint3D:
		return "Point3D"
	}
	return "Unknown"
}

// Value is a tagged union over every Bolt value kind. The zero Value is
// KindNull. Values are immutable after construction; List and Map payloads
// should not be mutated through an aliased slice/map after being wrapped.
type Value struct {
	kind Kind
	raw  any
}

// Kind returns the value's variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// NewNull returns the Null value.
func NewNull() Value { return Value{kind: KindNull} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: KindBoolean, raw: b} }

// NewInt wraps a signed 64-bit integer. See writeInt in encode.go for the
// canonical-width marker rule applied on encode.
func NewInt(i int64) Value { return Value{kind: KindInteger, raw: i} }

// NewFloat wraps an IEEE-754 binary64.
func NewFloat(f float64) Value { return Value{kind: KindFloat, raw: f} }

// NewBytes wraps a raw byte slice.
func NewBytes(b []byte) Value { return Value{kind: KindBytes, raw: b} }

// NewString wraps a UTF-8 string.
func NewString(s string) Value { return Value{kind: KindString, raw: s} }

// NewList wraps an ordered sequence of Values.
func NewList(items []Value) Value { return Value{kind: KindList, raw: items} }

// NewMap wraps a String-keyed mapping to Values.
func NewMap(m map[string]Value) Value { return Value{kind: KindMap, raw: m} }

// NewNode wraps a Node.
func NewNode(n Node) Value { return Value{kind: KindNode, raw: n} }

// NewRelationship wraps a Relationship.
func NewRelationship(r Relationship) Value { return Value{kind: KindRelationship, raw: r} }

// NewUnboundRelationship wraps an UnboundRelationship.
func NewUnboundRelationship(u UnboundRelationship) Value {
	return Value{kind: KindUnboundRelationship, raw: u}
}

// NewPath wraps a Path.
func NewPath(p Path) Value { return Value{kind: KindPath, raw: p} }

// NewDate wraps a Date.
func NewDate(d Date) Value { return Value{kind: KindDate, raw: d} }

// NewTime wraps a Time.
func NewTime(t Time) Value { return Value{kind: KindTime, raw: t} }

// NewLocalTime wraps a LocalTime.
func NewLocalTime(t LocalTime) Value { return Value{kind: KindLocalTime, raw: t} }

// NewLocalDateTime wraps a LocalDateTime.
func NewLocalDateTime(t LocalDateTime) Value { return Value{kind: KindLocalDateTime, raw: t} }

// NewDateTimeOffset wraps a DateTimeOffset.
func NewDateTimeOffset(t DateTimeOffset) Value { return Value{kind: KindDateTimeOffset, raw: t} }

// NewDateTimeZoneID wraps a DateTimeZoneID.
func NewDateTimeZoneID(t DateTimeZoneID) Value { return Value{kind: KindDateTimeZoneID, raw: t} }

// NewDuration wraps a Duration.
func NewDuration(d Duration) Value { return Value{kind: KindDuration, raw: d} }

// NewPoint2D wraps a Point2D.
func NewPoint2D(p Point2D) Value { return Value{kind: KindPoint2D, raw: p} }

// NewPoint3D wraps a Point3D.
func NewPoint3D(p Point3D) Value { return Value{kind: KindPoint3D, raw: p} }

// Bool returns the boolean payload and whether v is KindBoolean.
func (v Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok && v.kind == KindBoolean
}

// Int returns the integer payload and whether v is KindInteger.
func (v Value) Int() (int64, bool) {
	i, ok := v.raw.(int64)
	return i, ok && v.kind == KindInteger
}

// Float returns the float payload and whether v is KindFloat.
func (v Value) Float() (float64, bool) {
	f, ok := v.raw.(float64)
	return f, ok && v.kind == KindFloat
}

// Bytes returns the byte-slice payload and whether v is KindBytes.
func (v Value) Bytes() ([]byte, bool) {
	b, ok := v.raw.([]byte)
	return b, ok && v.kind == KindBytes
}

// Str returns the string payload and whether v is KindString.
func (v Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok && v.kind == KindString
}

// List returns the element slice and whether v is KindList.
func (v Value) List() ([]Value, bool) {
	l, ok := v.raw.([]Value)
	return l, ok && v.kind == KindList
}

// Map returns the key-value mapping and whether v is KindMap.
func (v Value) Map() (map[string]Value, bool) {
	m, ok := v.raw.(map[string]Value)
	return m, ok && v.kind == KindMap
}

// Node returns the Node payload and whether v is KindNode.
func (v Value) Node() (Node, bool) {
	n, ok := v.raw.(Node)
	return n, ok && v.kind == KindNode
}

// Relationship returns the Relationship payload and whether v is
// KindRelationship.
func (v Value) Relationship() (Relationship, bool) {
	r, ok := v.raw.(Relationship)
	return r, ok && v.kind == KindRelationship
}

// UnboundRelationship returns the UnboundRelationship payload and whether v
// is KindUnboundRelationship.
func (v Value) UnboundRelationship() (UnboundRelationship, bool) {
	u, ok := v.raw.(UnboundRelationship)
	return u, ok && v.kind == KindUnboundRelationship
}

// Path returns the Path payload and whether v is KindPath.
func (v Value) Path() (Path, bool) {
	p, ok := v.raw.(Path)
	return p, ok && v.kind == KindPath
}

// Date returns the Date payload and whether v is KindDate.
func (v Value) Date() (Date, bool) {
	d, ok := v.raw.(Date)
	return d, ok && v.kind == KindDate
}

// Time returns the Time payload and whether v is KindTime.
func (v Value) Time() (Time, bool) {
	t, ok := v.raw.(Time)
	return t, ok && v.kind == KindTime
}

// LocalTime returns the LocalTime payload and whether v is KindLocalTime.
func (v Value) LocalTime() (LocalTime, bool) {
	t, ok := v.raw.(LocalTime)
	return t, ok && v.kind == KindLocalTime
}

// LocalDateTime returns the LocalDateTime payload and whether v is
// KindLocalDateTime.
func (v Value) LocalDateTime() (LocalDateTime, bool) {
	t, ok := v.raw.(LocalDateTime)
	return t, ok && v.kind == KindLocalDateTime
}

// DateTimeOffset returns the DateTimeOffset payload and whether v is
// KindDateTimeOffset.
func (v Value) DateTimeOffset() (DateTimeOffset, bool) {
	t, ok := v.raw.(DateTimeOffset)
	return t, ok && v.kind == KindDateTimeOffset
}

// DateTimeZoneID returns the DateTimeZoneID payload and whether v is
// KindDateTimeZoneID.
func (v Value) DateTimeZoneID() (DateTimeZoneID, bool) {
	t, ok := v.raw.(DateTimeZoneID)
	return t, ok && v.kind == KindDateTimeZoneID
}

// Duration returns the Duration payload and whether v is KindDuration.
func (v Value) Duration() (Duration, bool) {
	d, ok := v.raw.(Duration)
	return d, ok && v.kind == KindDuration
}

// Point2D returns the Point2D payload and whether v is KindPoint2D.
func (v Value) Point2D() (Point2D, bool) {
	p, ok := v.raw.(Point2D)
	return p, ok && v.kind == KindPoint2D
}

// Point3D returns the Point3D payload and whether v is KindPoint3D.
func (v Value) Point3D() (Point3D, bool) {
	p, ok := v.raw.(Point3D)
	return p, ok && v.kind == KindPoint3D
}

// Equal reports structural equality. Map comparison is insensitive to key
// order since the underlying representation is already a Go map. A nil and
// an empty slice/map at any level are equal: decoding never produces a nil
// List/Map/Labels, but a caller-constructed Value may, and the distinction
// carries no structural meaning.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBytes:
		a, _ := v.Bytes()
		b, _ := other.Bytes()
		return bytes.Equal(a, b)
	case KindList:
		a, _ := v.List()
		b, _ := other.List()
		return equalValueSlices(a, b)
	case KindMap:
		a, _ := v.Map()
		b, _ := other.Map()
		return equalValueMaps(a, b)
	case KindNode:
		a, _ := v.Node()
		b, _ := other.Node()
		return equalNodes(a, b)
	case KindRelationship:
		a, _ := v.Relationship()
		b, _ := other.Relationship()
		return a.ID == b.ID && a.StartID == b.StartID && a.EndID == b.EndID &&
			a.Type == b.Type && equalValueMaps(a.Properties, b.Properties)
	case KindUnboundRelationship:
		a, _ := v.UnboundRelationship()
		b, _ := other.UnboundRelationship()
		return equalUnboundRelationships(a, b)
	case KindPath:
		a, _ := v.Path()
		b, _ := other.Path()
		return equalNodeSlices(a.Nodes, b.Nodes) &&
			equalUnboundRelationshipSlices(a.Rels, b.Rels) &&
			equalInt64Slices(a.Sequence, b.Sequence)
	default:
		return reflect.DeepEqual(v.raw, other.raw)
	}
}

func equalValueSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalValueMaps(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInt64Slices(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalNodes(a, b Node) bool {
	return a.ID == b.ID && equalStringSlices(a.Labels, b.Labels) && equalValueMaps(a.Properties, b.Properties)
}

func equalUnboundRelationships(a, b UnboundRelationship) bool {
	return a.ID == b.ID && a.Type == b.Type && equalValueMaps(a.Properties, b.Properties)
}

func equalNodeSlices(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNodes(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalUnboundRelationshipSlices(a, b []UnboundRelationship) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalUnboundRelationships(a[i], b[i]) {
			return false
		}
	}
	return true
}
