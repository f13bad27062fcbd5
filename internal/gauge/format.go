package gauge

import (
	"fmt"
)

// FormatValue renders a reading as fixed width text with three decimals,
// e.g. "  23.500", so label columns line up across gauges.
func FormatValue(v float32) string {
	return fmt.Sprintf("%8.3f", v)
}
