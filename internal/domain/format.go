package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const routeSeparator = " → "

// StopLabel names the location at index i: the depot or a numbered stop.
func StopLabel(i int) string {
	if i == 0 {
		return "Depot"
	}
	return fmt.Sprintf("Stop %d", i)
}

// FormatRouteText renders a visiting order as "Depot → Stop 2 → Stop 5".
func FormatRouteText(indices []int) string {
	labels := make([]string, 0, len(indices))
	for _, i := range indices {
		labels = append(labels, StopLabel(i))
	}
	return strings.Join(labels, routeSeparator)
}

// FormatCoord renders a location rounded to 4 decimal places.
func FormatCoord(l Location) string {
	return fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lon)
}

// FormatNumber renders a statistic with the shortest exact decimal form (12 -> "12", 3.4 -> "3.4").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
