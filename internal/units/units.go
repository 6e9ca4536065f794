// Package units is the registry of valid measurement units per metric type
// and the conversion tables between them. The tables are built once at
// package initialization and never mutated afterwards.
package units

// Metric types supported by the system. The set is closed.
const (
	Distance    = "distance"
	Temperature = "temperature"
)

// Distance units.
const (
	Meter      = "meter"
	Centimeter = "centimeter"
	Inch       = "inch"
	Feet       = "feet"
	Yard       = "yard"
	Mile       = "mile"
)

// Temperature units.
const (
	Celsius    = "°C"
	Fahrenheit = "°F"
	Kelvin     = "°K"
)

// distanceUnits and temperatureUnits keep the canonical ordering used in
// validation error details.
var (
	distanceUnits    = []string{Meter, Centimeter, Inch, Feet, Yard, Mile}
	temperatureUnits = []string{Celsius, Fahrenheit, Kelvin}
)

// distanceFactors maps a distance unit to its length in meters.
var distanceFactors = map[string]float64{
	Meter:      1,
	Centimeter: 0.01,
	Inch:       0.0254,
	Feet:       0.3048,
	Yard:       0.9144,
	Mile:       1609.34,
}

// temperatureConverters is a (fromUnit, toUnit) function table. Temperature
// scales have shifted zero points, so pairwise formulas are used instead of
// scalar factors. The diagonal holds identity functions.
var temperatureConverters = map[string]map[string]func(float64) float64{
	Celsius: {
		Celsius:    func(temp float64) float64 { return temp },
		Fahrenheit: func(temp float64) float64 { return temp*9/5 + 32 },
		Kelvin:     func(temp float64) float64 { return temp + 273.15 },
	},
	Fahrenheit: {
		Celsius:    func(temp float64) float64 { return (temp - 32) * 5 / 9 },
		Fahrenheit: func(temp float64) float64 { return temp },
		Kelvin:     func(temp float64) float64 { return (temp-32)*5/9 + 273.15 },
	},
	Kelvin: {
		Celsius:    func(temp float64) float64 { return temp - 273.15 },
		Fahrenheit: func(temp float64) float64 { return (temp-273.15)*9/5 + 32 },
		Kelvin:     func(temp float64) float64 { return temp },
	},
}

// ValidUnits returns the registered units for the given metric type in their
// canonical order. The returned slice is a copy and safe to hold on to.
func ValidUnits(metricType string) []string {
	switch metricType {
	case Distance:
		return append([]string(nil), distanceUnits...)
	case Temperature:
		return append([]string(nil), temperatureUnits...)
	default:
		return nil
	}
}

// IsValid reports whether unit is registered for the given metric type.
// It is the single validation gate for both the write and query paths.
func IsValid(metricType, unit string) bool {
	switch metricType {
	case Distance:
		_, ok := distanceFactors[unit]
		return ok
	case Temperature:
		_, ok := temperatureConverters[unit]
		return ok
	default:
		return false
	}
}
