package packstream

import "unicode/utf8"

// ReadValue decodes one Value starting at the cursor's current position. It
// accepts any valid width for a given kind (a tiny string and a String32 of
// the same content decode identically), unlike WriteValue which only ever
// emits the canonical one.
func ReadValue(c *Cursor) (Value, error) {
	marker, err := c.PeekByte()
	if err != nil {
		return Value{}, err
	}

	switch {
	case marker == markerNull:
		c.off1()
		return NewNull(), nil
	case marker == markerTrue:
		c.off1()
		return NewBool(true), nil
	case marker == markerFalse:
		c.off1()
		return NewBool(false), nil
	case marker == markerFloat64:
		c.off1()
		f, err := c.ReadFloat64()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(f), nil
	case isTinyInt(marker):
		c.off1()
		return NewInt(int64(int8(marker))), nil
	case marker == markerInt8:
		c.off1()
		i, err := c.ReadInt8()
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(i)), nil
	case marker == markerInt16:
		c.off1()
		i, err := c.ReadInt16()
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(i)), nil
	case marker == markerInt32:
		c.off1()
		i, err := c.ReadInt32()
		if err != nil {
			return Value{}, err
		}
		return NewInt(int64(i)), nil
	case marker == markerInt64:
		c.off1()
		i, err := c.ReadInt64()
		if err != nil {
			return Value{}, err
		}
		return NewInt(i), nil
	case marker == markerBytes8 || marker == markerBytes16 || marker == markerBytes32:
		b, err := readBytes(c)
		if err != nil {
			return Value{}, err
		}
		return NewBytes(b), nil
	case isTinyString(marker) || marker == markerString8 || marker == markerString16 || marker == markerString32:
		s, err := readString(c)
		if err != nil {
			return Value{}, err
		}
		return NewString(s), nil
	case isTinyList(marker) || marker == markerList8 || marker == markerList16 || marker == markerList32:
		l, err := readList(c)
		if err != nil {
			return Value{}, err
		}
		return NewList(l), nil
	case isTinyMap(marker) || marker == markerMap8 || marker == markerMap16 || marker == markerMap32:
		m, err := readMap(c)
		if err != nil {
			return Value{}, err
		}
		return NewMap(m), nil
	case marker&0xF0 == tinyStructMask:
		return readStructureValue(c)
	}
	return Value{}, errInvalidMarker(marker)
}

// off1 advances the cursor past the byte PeekByte just inspected. Reads
// never fail here since PeekByte already proved a byte is available.
func (c *Cursor) off1() { c.off++ }

func isTinyInt(m byte) bool {
	return m <= 0x7F || m >= 0xF0
}

func isTinyString(m byte) bool { return m&0xF0 == tinyStringMask && m < 0x90 }
func isTinyList(m byte) bool   { return m&0xF0 == tinyListMask && m < 0xA0 }
func isTinyMap(m byte) bool    { return m&0xF0 == tinyMapMask && m < 0xB0 }

// readLength consumes a marker already known to require an 8/16/32-bit
// length-prefixed form (tiny forms are handled by the caller) and returns
// the declared element/byte count.
func readLength(c *Cursor, marker, m8, m16, m32 byte) (int, error) {
	switch marker {
	case m8:
		n, err := c.ReadByte()
		return int(n), err
	case m16:
		n, err := c.ReadUint16()
		return int(n), err
	case m32:
		n, err := c.ReadUint32()
		return int(n), err
	}
	return 0, errInvalidMarker(marker)
}

func readBytes(c *Cursor) ([]byte, error) {
	marker, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	n, err := readLength(c, marker, markerBytes8, markerBytes16, markerBytes32)
	if err != nil {
		return nil, err
	}
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func readString(c *Cursor) (string, error) {
	marker, err := c.ReadByte()
	if err != nil {
		return "", err
	}
	var n int
	if marker&0xF0 == tinyStringMask && marker < 0x90 {
		n = int(marker & 0x0F)
	} else {
		n, err = readLength(c, marker, markerString8, markerString16, markerString32)
		if err != nil {
			return "", err
		}
	}
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errInvalidUTF8()
	}
	return string(b), nil
}

func readList(c *Cursor) ([]Value, error) {
	marker, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	var n int
	if marker&0xF0 == tinyListMask && marker < 0xA0 {
		n = int(marker & 0x0F)
	} else {
		n, err = readLength(c, marker, markerList8, markerList16, markerList32)
		if err != nil {
			return nil, err
		}
	}
	items := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := ReadValue(c)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func readMap(c *Cursor) (map[string]Value, error) {
	marker, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	var n int
	if marker&0xF0 == tinyMapMask && marker < 0xB0 {
		n = int(marker & 0x0F)
	} else {
		n, err = readLength(c, marker, markerMap8, markerMap16, markerMap32)
		if err != nil {
			return nil, err
		}
	}
	m := make(map[string]Value, n)
	for i := 0; i < n; i++ {
		k, err := readString(c)
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(c)
		if err != nil {
			return nil, err
		}
		if _, dup := m[k]; dup {
			return nil, errDuplicateMapKey(k)
		}
		m[k] = v
	}
	return m, nil
}

func readStructureValue(c *Cursor) (Value, error) {
	n, sig, err := ReadStructureHeader(c)
	if err != nil {
		return Value{}, err
	}

	switch sig {
	case SigNode:
		if err := requireArity(sig, n, 3); err != nil {
			return Value{}, err
		}
		id, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		labelsV, err := readList(c)
		if err != nil {
			return Value{}, err
		}
		labels := make([]string, len(labelsV))
		for i, lv := range labelsV {
			labels[i], _ = lv.Str()
		}
		props, err := readMap(c)
		if err != nil {
			return Value{}, err
		}
		return NewNode(Node{ID: id, Labels: labels, Properties: props}), nil

	case SigRelationship:
		if err := requireArity(sig, n, 5); err != nil {
			return Value{}, err
		}
		id, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		startID, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		endID, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		typ, err := readString(c)
		if err != nil {
			return Value{}, err
		}
		props, err := readMap(c)
		if err != nil {
			return Value{}, err
		}
		return NewRelationship(Relationship{ID: id, StartID: startID, EndID: endID, Type: typ, Properties: props}), nil

	case SigUnboundRelationship:
		if err := requireArity(sig, n, 3); err != nil {
			return Value{}, err
		}
		id, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		typ, err := readString(c)
		if err != nil {
			return Value{}, err
		}
		props, err := readMap(c)
		if err != nil {
			return Value{}, err
		}
		return NewUnboundRelationship(UnboundRelationship{ID: id, Type: typ, Properties: props}), nil

	case SigPath:
		if err := requireArity(sig, n, 3); err != nil {
			return Value{}, err
		}
		nodesV, err := readList(c)
		if err != nil {
			return Value{}, err
		}
		nodes := make([]Node, len(nodesV))
		for i, nv := range nodesV {
			nodes[i], _ = nv.Node()
		}
		relsV, err := readList(c)
		if err != nil {
			return Value{}, err
		}
		rels := make([]UnboundRelationship, len(relsV))
		for i, rv := range relsV {
			rels[i], _ = rv.UnboundRelationship()
		}
		seqV, err := readList(c)
		if err != nil {
			return Value{}, err
		}
		seq := make([]int64, len(seqV))
		for i, sv := range seqV {
			seq[i], _ = sv.Int()
		}
		if err := validatePathSequence(seq, len(nodes), len(rels)); err != nil {
			return Value{}, err
		}
		return NewPath(Path{Nodes: nodes, Rels: rels, Sequence: seq}), nil

	case SigDate:
		if err := requireArity(sig, n, 1); err != nil {
			return Value{}, err
		}
		days, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		return NewDate(Date{DaysSinceEpoch: days}), nil

	case SigTime:
		if err := requireArity(sig, n, 2); err != nil {
			return Value{}, err
		}
		nano, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		off, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		return NewTime(Time{NanoOfDay: nano, OffsetSeconds: off}), nil

	case SigLocalTime:
		if err := requireArity(sig, n, 1); err != nil {
			return Value{}, err
		}
		nano, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		return NewLocalTime(LocalTime{NanoOfDay: nano}), nil

	case SigLocalDateTime:
		if err := requireArity(sig, n, 2); err != nil {
			return Value{}, err
		}
		sec, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		nanos, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		return NewLocalDateTime(LocalDateTime{EpochSeconds: sec, Nanos: nanos}), nil

	case SigDateTimeOffset:
		if err := requireArity(sig, n, 3); err != nil {
			return Value{}, err
		}
		sec, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		nanos, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		off, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		return NewDateTimeOffset(DateTimeOffset{EpochSeconds: sec, Nanos: nanos, OffsetSeconds: off}), nil

	case SigDateTimeZoneID:
		if err := requireArity(sig, n, 3); err != nil {
			return Value{}, err
		}
		sec, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		nanos, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		zone, err := readString(c)
		if err != nil {
			return Value{}, err
		}
		return NewDateTimeZoneID(DateTimeZoneID{EpochSeconds: sec, Nanos: nanos, ZoneID: zone}), nil

	case SigDuration:
		if err := requireArity(sig, n, 4); err != nil {
			return Value{}, err
		}
		months, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		days, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		secs, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		nanos, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		return NewDuration(Duration{Months: months, Days: days, Seconds: secs, Nanos: nanos}), nil

	case SigPoint2D:
		if err := requireArity(sig, n, 3); err != nil {
			return Value{}, err
		}
		srid, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		x, err := readStructFloat(c)
		if err != nil {
			return Value{}, err
		}
		y, err := readStructFloat(c)
		if err != nil {
			return Value{}, err
		}
		return NewPoint2D(Point2D{SRID: srid, X: x, Y: y}), nil

	case SigPoint3D:
		if err := requireArity(sig, n, 4); err != nil {
			return Value{}, err
		}
		srid, err := readStructInt(c)
		if err != nil {
			return Value{}, err
		}
		x, err := readStructFloat(c)
		if err != nil {
			return Value{}, err
		}
		y, err := readStructFloat(c)
		if err != nil {
			return Value{}, err
		}
		z, err := readStructFloat(c)
		if err != nil {
			return Value{}, err
		}
		return NewPoint3D(Point3D{SRID: srid, X: x, Y: y, Z: z}), nil
	}

	return Value{}, errInvalidMarker(sig)
}

// validatePathSequence checks the invariant on Path.Sequence: even length,
// each relationship index a nonzero 1-based index (sign gives direction)
// within numRels, each following node index a 1-based index into numNodes
// with 0 standing for the path's start node.
func validatePathSequence(seq []int64, numNodes, numRels int) error {
	if len(seq)%2 != 0 {
		return errInvalidPathSequence()
	}
	for i := 0; i < len(seq); i += 2 {
		relIdx := seq[i]
		abs := relIdx
		if abs < 0 {
			abs = -abs
		}
		if abs < 1 || int(abs) > numRels {
			return errInvalidPathSequence()
		}
		nodeIdx := seq[i+1]
		if nodeIdx < 0 || int(nodeIdx) > numNodes {
			return errInvalidPathSequence()
		}
	}
	return nil
}

// readStructInt reads a field known to be an Integer and unwraps it
// directly, since structure fields are positional and don't need the
// caller to re-check Value.Int's ok flag.
func readStructInt(c *Cursor) (int64, error) {
	v, err := ReadValue(c)
	if err != nil {
		return 0, err
	}
	i, ok := v.Int()
	if !ok {
		return 0, errInvalidMarker(0)
	}
	return i, nil
}

func readStructFloat(c *Cursor) (float64, error) {
	v, err := ReadValue(c)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float()
	if !ok {
		return 0, errInvalidMarker(0)
	}
	return f, nil
}
