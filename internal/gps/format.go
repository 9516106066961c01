package gps

import (
	"fmt"
	"math"
)

// FormatDistance renders meters in the selected units, e.g. "5.21 km".
func FormatDistance(meters float64, units Units) string {
	if units == UnitsImperial {
		return fmt.Sprintf("%.2f mi", meters*milesPerMeter)
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

// FormatPace renders minutes-per-unit as "5:30/km"; undefined pace shows
// as "--:--".
func FormatPace(minutesPerUnit float64, units Units) string {
	if minutesPerUnit == 0 || math.IsInf(minutesPerUnit, 0) || math.IsNaN(minutesPerUnit) {
		return "--:--"
	}
	mins := int(minutesPerUnit)
	secs := int((minutesPerUnit - float64(mins)) * 60)
	unit := "km"
	if units == UnitsImperial {
		unit = "mi"
	}
	return fmt.Sprintf("%d:%02d/%s", mins, secs, unit)
}

// FormatSpeed renders speed as "10.4 km/h" or "6.5 mph".
func FormatSpeed(speed float64, units Units) string {
	if units == UnitsImperial {
		return fmt.Sprintf("%.1f mph", speed)
	}
	return fmt.Sprintf("%.1f km/h", speed)
}
