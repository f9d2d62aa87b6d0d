package epicycle

import (
	"math"
	"os"
	"strconv"
)

// FillEnvVar returns the value of a runtime Environment Variable
func FillEnvVar(ev string) string {
	// If the EnvVar doesn't exist return a default string
	value := os.Getenv(ev)
	if value == "" {
		value = "ENOENT"
	}
	return value
}

// FillEnvVarDefault returns the Environment Variable or /def/ when it is unset
func FillEnvVarDefault(ev, def string) string {
	value := FillEnvVar(ev)
	if value == "ENOENT" {
		return def
	}
	return value
}

// FillEnvVarInt returns an integer Environment Variable,
// or /def/ when it is unset or not a number
func FillEnvVarInt(ev string, def int) int {
	value, err := strconv.Atoi(os.Getenv(ev))
	if err != nil {
		return def
	}
	return value
}

// FloatPrecise rounds f to /p/ decimal places
func FloatPrecise(f float64, p int) float64 {
	pow := math.Pow(10, float64(p))
	return math.Round(f*pow) / pow
}
