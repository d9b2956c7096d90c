package value

import (
	"fmt"
	"strconv"
)

// ShortHex renders a value in the canonical short form used by reports and
// diffs: single decimal digit for magnitudes below ten, otherwise lowercase
// hex with an 0x prefix and no leading zeros. Undefined and error states
// render as their textual form ("Z", "E").
//
// This rendering is deterministic and stable across runs; golden report
// files depend on it.
func ShortHex(v Value) string {
	if !v.IsDefined() {
		return v.String()
	}
	return ShortHexUint(v.Magnitude())
}

// ShortHexUint is ShortHex for a raw magnitude.
func ShortHexUint(m uint64) string {
	if m < 10 {
		return strconv.FormatUint(m, 10)
	}
	return fmt.Sprintf("0x%x", m)
}
