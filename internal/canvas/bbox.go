package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"fullbleed/internal/units"
)

func formatBBoxMeta(r Rect) string {
	return fmt.Sprintf("%d,%d,%d,%d",
		r.X.ToMilliI64(), r.Y.ToMilliI64(), r.Width.ToMilliI64(), r.Height.ToMilliI64())
}

// ParseBBoxMeta parses a "__fb_bbox" meta value back into a Rect. It
// expects exactly four comma-separated signed milli-point integers;
// anything else is rejected so malformed meta never silently corrupts a
// bounding box.
func ParseBBoxMeta(value string) (Rect, bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return Rect{}, false
	}
	var nums [4]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Rect{}, false
		}
		nums[i] = n
	}
	return Rect{
		X:      units.FromMilliI64(nums[0]),
		Y:      units.FromMilliI64(nums[1]),
		Width:  units.FromMilliI64(nums[2]),
		Height: units.FromMilliI64(nums[3]),
	}, true
}
