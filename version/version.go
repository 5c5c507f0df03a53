// Package version identifies the Fluxion wire format generations this
// module can read and write.
package version

import "fmt"

// Version identifies an on-wire format generation.
type Version int

const (
	// Current selects the highest version this module supports when a
	// caller passes 0 ("current") to a writer.
	Current Version = V3

	// V1 is the streaming prefix-order format (spec §4.4).
	V1 Version = 1
	// V2 is the pooled, seek-based format (spec §4.5).
	V2 Version = 2
	// V3 is the flattened item-table format with reference compression
	// (spec §4.6).
	V3 Version = 3
)

// Max is the highest version this module supports. Readers must reject
// any header version greater than Max.
const Max Version = V3

// Resolve maps the caller-facing "0 means current" convention onto a
// concrete version.
func Resolve(v Version) Version {
	if v == 0 {
		return Current
	}
	return v
}

// Valid reports whether v is one of the defined versions (1, 2, or 3).
func (v Version) Valid() bool {
	switch v {
	case V1, V2, V3:
		return true
	default:
		return false
	}
}

// HasEncodingByte reports whether this version's header carries the
// 5th string-encoding byte (true for v1 and v2; v3 fixes UTF-8).
func (v Version) HasEncodingByte() bool {
	return v == V1 || v == V2
}

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	default:
		return fmt.Sprintf("v%d(unknown)", int(v))
	}
}

func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("fluxion: %d is not a known version", int(v))
	}
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(d []byte) error {
	switch string(d) {
	case "v1":
		*v = V1
	case "v2":
		*v = V2
	case "v3":
		*v = V3
	default:
		return fmt.Errorf("fluxion: unrecognized version %q", d)
	}
	return nil
}

// All returns every defined version in ascending order.
func All() []Version {
	return []Version{V1, V2, V3}
}
