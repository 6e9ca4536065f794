package units

import "math"

// Convert converts value from one unit to another within the same metric
// type. Callers are expected to validate both units with IsValid first;
// Convert does not re-check them. An unknown metric type returns the value
// unchanged.
func Convert(value float64, fromUnit, toUnit, metricType string) float64 {
	switch metricType {
	case Distance:
		return convertDistance(value, fromUnit, toUnit)
	case Temperature:
		return convertTemperature(value, fromUnit, toUnit)
	}
	return value
}

// convertDistance goes through the base unit (meter) and rounds to the four
// fractional digits the storage layer retains.
func convertDistance(value float64, fromUnit, toUnit string) float64 {
	if fromUnit == toUnit {
		return value
	}
	valueInMeters := value * distanceFactors[fromUnit]
	converted := valueInMeters / distanceFactors[toUnit]
	return math.Round(converted*10000) / 10000
}

func convertTemperature(value float64, fromUnit, toUnit string) float64 {
	if fromUnit == toUnit {
		return value
	}
	converter := temperatureConverters[fromUnit][toUnit]
	return math.Round(converter(value)*100) / 100
}
