package packstream

// Marker bytes, per the Bolt PackStream format. Tiny forms are encoded by
// OR-ing a small count/value into the low nibble (or, for integers, by using
// the byte itself as a signed value) rather than appearing as named
// constants here.
const (
	markerNull    byte = 0xC0
	markerFalse   byte = 0xC2
	markerTrue    byte = 0xC3
	markerFloat64 byte = 0xC1

	markerInt8  byte = 0xC8
	markerInt16 byte = 0xC9
	markerInt32 byte = 0xCA
	markerInt64 byte = 0xCB

	markerBytes8  byte = 0xCC
	markerBytes16 byte = 0xCD
	markerBytes32 byte = 0xCE

	tinyStringMask byte = 0x80
	markerString8  byte = 0xD0
	markerString16 byte = 0xD1
	markerString32 byte = 0xD2

	tinyListMask byte = 0x90
	markerList8  byte = 0xD4
	markerList16 byte = 0xD5
	markerList32 byte = 0xD6

	tinyMapMask byte = 0xA0
	markerMap8  byte = 0xD8
	markerMap16 byte = 0xD9
	markerMap32 byte = 0xDA

	tinyStructMask byte = 0xB0

	tinyMaxCount = 15
)

// Graph, temporal, and spatial structure signatures. These are fixed Bolt
// wire constants, not derived or configurable.
const (
	SigNode                 byte = 0x4E // 'N'
	SigRelationship         byte = 0x52 // 'R'
	SigUnboundRelationship  byte = 0x72 // 'r'
	SigPath                 byte = 0x50 // 'P'
	SigDate                 byte = 0x44 // 'D'
	SigTime                 byte = 0x54 // 'T'
	SigLocalTime            byte = 0x74 // 't'
	SigLocalDateTime        byte = 0x64 // 'd'
	SigDateTimeOffset       byte = 0x46 // 'F'
	SigDateTimeZoneID       byte = 0x66 // 'f'
	SigDuration             byte = 0x45 // 'E'
	SigPoint2D              byte = 0x58 // 'X'
	SigPoint3D              byte = 0x59 // 'Y'
)
