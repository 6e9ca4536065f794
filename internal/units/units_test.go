package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUnits(t *testing.T) {
	assert.Equal(t, []string{Meter, Centimeter, Inch, Feet, Yard, Mile}, ValidUnits(Distance))
	assert.Equal(t, []string{Celsius, Fahrenheit, Kelvin}, ValidUnits(Temperature))
	assert.Nil(t, ValidUnits("weight"))
}

func TestValidUnitsReturnsCopy(t *testing.T) {
	first := ValidUnits(Distance)
	first[0] = "parsec"
	assert.Equal(t, Meter, ValidUnits(Distance)[0])
}

func TestIsValid(t *testing.T) {
	// Every registered unit validates for its own type and for no other.
	for _, unit := range ValidUnits(Distance) {
		assert.True(t, IsValid(Distance, unit), unit)
		assert.False(t, IsValid(Temperature, unit), unit)
	}
	for _, unit := range ValidUnits(Temperature) {
		assert.True(t, IsValid(Temperature, unit), unit)
		assert.False(t, IsValid(Distance, unit), unit)
	}

	assert.False(t, IsValid(Distance, "invalid_unit"))
	assert.False(t, IsValid("weight", "kilogram"))
}
