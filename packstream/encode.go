package packstream

import "math"

// WriteValue encodes v onto c using the narrowest marker its payload allows.
// Integers, strings, byte arrays, lists, and maps all have multiple valid
// wire encodings; callers that decode whatever was written must tolerate any
// width (see ReadValue), but this package only ever emits the canonical one.
func WriteValue(c *Cursor, v Value) error {
	switch v.kind {
	case KindNull:
		c.WriteByte(markerNull)
		return nil
	case KindBoolean:
		b, _ := v.Bool()
		if b {
			c.WriteByte(markerTrue)
		} else {
			c.WriteByte(markerFalse)
		}
		return nil
	case KindInteger:
		i, _ := v.Int()
		return writeInt(c, i)
	case KindFloat:
		f, _ := v.Float()
		c.WriteByte(markerFloat64)
		c.WriteFloat64(f)
		return nil
	case KindBytes:
		b, _ := v.Bytes()
		return writeBytes(c, b)
	case KindString:
		s, _ := v.Str()
		return writeString(c, s)
	case KindList:
		l, _ := v.List()
		return writeList(c, l)
	case KindMap:
		m, _ := v.Map()
		return writeMap(c, m)
	case KindNode:
		n, _ := v.Node()
		return writeNode(c, n)
	case KindRelationship:
		r, _ := v.Relationship()
		return writeRelationship(c, r)
	case KindUnboundRelationship:
		u, _ := v.UnboundRelationship()
		return writeUnboundRelationship(c, u)
	case KindPath:
		p, _ := v.Path()
		return writePath(c, p)
	case KindDate:
		d, _ := v.Date()
		if err := WriteStructureHeader(c, 1, SigDate); err != nil {
			return err
		}
		return writeInt(c, d.DaysSinceEpoch)
	case KindTime:
		t, _ := v.Time()
		if err := WriteStructureHeader(c, 2, SigTime); err != nil {
			return err
		}
		if err := writeInt(c, t.NanoOfDay); err != nil {
			return err
		}
		return writeInt(c, t.OffsetSeconds)
	case KindLocalTime:
		t, _ := v.LocalTime()
		if err := WriteStructureHeader(c, 1, SigLocalTime); err != nil {
			return err
		}
		return writeInt(c, t.NanoOfDay)
	case KindLocalDateTime:
		t, _ := v.LocalDateTime()
		if err := WriteStructureHeader(c, 2, SigLocalDateTime); err != nil {
			return err
		}
		if err := writeInt(c, t.EpochSeconds); err != nil {
			return err
		}
		return writeInt(c, t.Nanos)
	case KindDateTimeOffset:
		t, _ := v.DateTimeOffset()
		if err := WriteStructureHeader(c, 3, SigDateTimeOffset); err != nil {
			return err
		}
		if err := writeInt(c, t.EpochSeconds); err != nil {
			return err
		}
		if err := writeInt(c, t.Nanos); err != nil {
			return err
		}
		return writeInt(c, t.OffsetSeconds)
	case KindDateTimeZoneID:
		t, _ := v.DateTimeZoneID()
		if err := WriteStructureHeader(c, 3, SigDateTimeZoneID); err != nil {
			return err
		}
		if err := writeInt(c, t.EpochSeconds); err != nil {
			return err
		}
		if err := writeInt(c, t.Nanos); err != nil {
			return err
		}
		return writeString(c, t.ZoneID)
	case KindDuration:
		d, _ := v.Duration()
		if err := WriteStructureHeader(c, 4, SigDuration); err != nil {
			return err
		}
		if err := writeInt(c, d.Months); err != nil {
			return err
		}
		if err := writeInt(c, d.Days); err != nil {
			return err
		}
		if err := writeInt(c, d.Seconds); err != nil {
			return err
		}
		return writeInt(c, d.Nanos)
	case KindPoint2D:
		p, _ := v.Point2D()
		if err := WriteStructureHeader(c, 3, SigPoint2D); err != nil {
			return err
		}
		if err := writeInt(c, p.SRID); err != nil {
			return err
		}
		c.WriteByte(markerFloat64)
		c.WriteFloat64(p.X)
		c.WriteByte(markerFloat64)
		c.WriteFloat64(p.Y)
		return nil
	case KindPoint3D:
		p, _ := v.Point3D()
		if err := WriteStructureHeader(c, 4, SigPoint3D); err != nil {
			return err
		}
		if err := writeInt(c, p.SRID); err != nil {
			return err
		}
		c.WriteByte(markerFloat64)
		c.WriteFloat64(p.X)
		c.WriteByte(markerFloat64)
		c.WriteFloat64(p.Y)
		c.WriteByte(markerFloat64)
		c.WriteFloat64(p.Z)
		return nil
	}
	return errInvalidMarker(0)
}

func writeInt(c *Cursor, i int64) error {
	switch {
	case i >= -16 && i <= 127:
		c.WriteByte(byte(int8(i)))
	case i >= math.MinInt8 && i <= math.MaxInt8:
		c.WriteByte(markerInt8)
		c.WriteInt8(int8(i))
	case i >= math.MinInt16 && i <= math.MaxInt16:
		c.WriteByte(markerInt16)
		c.WriteInt16(int16(i))
	case i >= math.MinInt32 && i <= math.MaxInt32:
		c.WriteByte(markerInt32)
		c.WriteInt32(int32(i))
	default:
		c.WriteByte(markerInt64)
		c.WriteInt64(i)
	}
	return nil
}

func writeBytes(c *Cursor, b []byte) error {
	n := len(b)
	switch {
	case n <= 0xFF:
		c.WriteByte(markerBytes8)
		c.WriteByte(byte(n))
	case n <= 0xFFFF:
		c.WriteByte(markerBytes16)
		c.WriteUint16(uint16(n))
	case n <= 0xFFFFFFFF:
		c.WriteByte(markerBytes32)
		c.WriteUint32(uint32(n))
	default:
		return errLengthOverflow(nil)
	}
	c.WriteBytes(b)
	return nil
}

func writeString(c *Cursor, s string) error {
	n := len(s)
	switch {
	case n < tinyMaxCount+1:
		c.WriteByte(tinyStringMask | byte(n))
	case n <= 0xFF:
		c.WriteByte(markerString8)
		c.WriteByte(byte(n))
	case n <= 0xFFFF:
		c.WriteByte(markerString16)
		c.WriteUint16(uint16(n))
	case n <= 0xFFFFFFFF:
		c.WriteByte(markerString32)
		c.WriteUint32(uint32(n))
	default:
		return errLengthOverflow(nil)
	}
	c.WriteBytes([]byte(s))
	return nil
}

func writeList(c *Cursor, items []Value) error {
	n := len(items)
	switch {
	case n < tinyMaxCount+1:
		c.WriteByte(tinyListMask | byte(n))
	case n <= 0xFF:
		c.WriteByte(markerList8)
		c.WriteByte(byte(n))
	case n <= 0xFFFF:
		c.WriteByte(markerList16)
		c.WriteUint16(uint16(n))
	case n <= 0xFFFFFFFF:
		c.WriteByte(markerList32)
		c.WriteUint32(uint32(n))
	default:
		return errLengthOverflow(nil)
	}
	for _, item := range items {
		if err := WriteValue(c, item); err != nil {
			return err
		}
	}
	return nil
}

func writeMap(c *Cursor, m map[string]Value) error {
	n := len(m)
	switch {
	case n < tinyMaxCount+1:
		c.WriteByte(tinyMapMask | byte(n))
	case n <= 0xFF:
		c.WriteByte(markerMap8)
		c.WriteByte(byte(n))
	case n <= 0xFFFF:
		c.WriteByte(markerMap16)
		c.WriteUint16(uint16(n))
	case n <= 0xFFFFFFFF:
		c.WriteByte(markerMap32)
		c.WriteUint32(uint32(n))
	default:
		return errLengthOverflow(nil)
	}
	for k, val := range m {
		if err := writeString(c, k); err != nil {
			return err
		}
		if err := WriteValue(c, val); err != nil {
			return err
		}
	}
	return nil
}

func writeNode(c *Cursor, n Node) error {
	if err := WriteStructureHeader(c, 3, SigNode); err != nil {
		return err
	}
	if err := writeInt(c, n.ID); err != nil {
		return err
	}
	labels := make([]Value, len(n.Labels))
	for i, l := range n.Labels {
		labels[i] = NewString(l)
	}
	if err := writeList(c, labels); err != nil {
		return err
	}
	return writeMap(c, n.Properties)
}

func writeRelationship(c *Cursor, r Relationship) error {
	if err := WriteStructureHeader(c, 5, SigRelationship); err != nil {
		return err
	}
	if err := writeInt(c, r.ID); err != nil {
		return err
	}
	if err := writeInt(c, r.StartID); err != nil {
		return err
	}
	if err := writeInt(c, r.EndID); err != nil {
		return err
	}
	if err := writeString(c, r.Type); err != nil {
		return err
	}
	return writeMap(c, r.Properties)
}

func writeUnboundRelationship(c *Cursor, u UnboundRelationship) error {
	if err := WriteStructureHeader(c, 3, SigUnboundRelationship); err != nil {
		return err
	}
	if err := writeInt(c, u.ID); err != nil {
		return err
	}
	if err := writeString(c, u.Type); err != nil {
		return err
	}
	return writeMap(c, u.Properties)
}

func writePath(c *Cursor, p Path) error {
	if err := WriteStructureHeader(c, 3, SigPath); err != nil {
		return err
	}
	nodes := make([]Value, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = NewNode(n)
	}
	if err := writeList(c, nodes); err != nil {
		return err
	}
	rels := make([]Value, len(p.Rels))
	for i, r := range p.Rels {
		rels[i] = NewUnboundRelationship(r)
	}
	if err := writeList(c, rels); err != nil {
		return err
	}
	seq := make([]Value, len(p.Sequence))
	for i, s := range p.Sequence {
		seq[i] = NewInt(s)
	}
	return writeList(c, seq)
}
