package telemetry

import "fmt"

// Field identifies one recognised telemetry field. The set is closed: raw
// names outside the allow-list never become a Field.
type Field uint8

const (
	FieldTimestamp Field = iota
	FieldHeartRate
	FieldCadence
	FieldSpeed
	FieldDistance
	FieldPower
	FieldAltitude
	FieldTemperature
	FieldPositionLat
	FieldPositionLong
	FieldEnhancedSpeed
	FieldEnhancedAltitude
	FieldGrade
	FieldCalories
	FieldAccumulatedPower
	FieldLeftRightBalance
	FieldGPSAccuracy
	FieldVerticalOscillation
	FieldStanceTimePercent
	FieldStanceTime
	FieldActivityType
	FieldLeftTorqueEffectiveness
	FieldRightTorqueEffectiveness
	FieldLeftPedalSmoothness
	FieldRightPedalSmoothness
	FieldCombinedPedalSmoothness
	FieldTimeFromCourse
	FieldCycleLength
	FieldTotalCycles
	FieldCompressedSpeedDistance
	FieldResistance
	FieldTimeInHRZone
	FieldTimeInSpeedZone
	FieldTimeInCadenceZone
	FieldTimeInPowerZone
	FieldRepetitionNum
	FieldMinHeartRate
	FieldMaxHeartRate
	FieldAvgHeartRate
	FieldMaxSpeed
	FieldAvgSpeed
	FieldTotalCalories
	FieldFatCalories
	FieldAvgCadence
	FieldMaxCadence
	FieldAvgPower
	FieldMaxPower
	FieldTotalAscent
	FieldTotalDescent
	FieldTrainingStressScore
	FieldIntensityFactor
	FieldNormalizedPower
	FieldLeftRightBalance100
	FieldStepLength
	FieldAvgVerticalOscillation
	FieldAvgStanceTimePercent
	FieldAvgStanceTime
	FieldFractionalCadence

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldTimestamp:                "timestamp",
	FieldHeartRate:                "heart_rate",
	FieldCadence:                  "cadence",
	FieldSpeed:                    "speed",
	FieldDistance:                 "distance",
	FieldPower:                    "power",
	FieldAltitude:                 "altitude",
	FieldTemperature:              "temperature",
	FieldPositionLat:              "position_lat",
	FieldPositionLong:             "position_long",
	FieldEnhancedSpeed:            "enhanced_speed",
	FieldEnhancedAltitude:         "enhanced_altitude",
	FieldGrade:                    "grade",
	FieldCalories:                 "calories",
	FieldAccumulatedPower:         "accumulated_power",
	FieldLeftRightBalance:         "left_right_balance",
	FieldGPSAccuracy:              "gps_accuracy",
	FieldVerticalOscillation:      "vertical_oscillation",
	FieldStanceTimePercent:        "stance_time_percent",
	FieldStanceTime:               "stance_time",
	FieldActivityType:             "activity_type",
	FieldLeftTorqueEffectiveness:  "left_torque_effectiveness",
	FieldRightTorqueEffectiveness: "right_torque_effectiveness",
	FieldLeftPedalSmoothness:      "left_pedal_smoothness",
	FieldRightPedalSmoothness:     "right_pedal_smoothness",
	FieldCombinedPedalSmoothness:  "combined_pedal_smoothness",
	FieldTimeFromCourse:           "time_from_course",
	FieldCycleLength:              "cycle_length",
	FieldTotalCycles:              "total_cycles",
	FieldCompressedSpeedDistance:  "compressed_speed_distance",
	FieldResistance:               "resistance",
	FieldTimeInHRZone:             "time_in_hr_zone",
	FieldTimeInSpeedZone:          "time_in_speed_zone",
	FieldTimeInCadenceZone:        "time_in_cadence_zone",
	FieldTimeInPowerZone:          "time_in_power_zone",
	FieldRepetitionNum:            "repetition_num",
	FieldMinHeartRate:             "min_heart_rate",
	FieldMaxHeartRate:             "max_heart_rate",
	FieldAvgHeartRate:             "avg_heart_rate",
	FieldMaxSpeed:                 "max_speed",
	FieldAvgSpeed:                 "avg_speed",
	FieldTotalCalories:            "total_calories",
	FieldFatCalories:              "fat_calories",
	FieldAvgCadence:               "avg_cadence",
	FieldMaxCadence:               "max_cadence",
	FieldAvgPower:                 "avg_power",
	FieldMaxPower:                 "max_power",
	FieldTotalAscent:              "total_ascent",
	FieldTotalDescent:             "total_descent",
	FieldTrainingStressScore:      "training_stress_score",
	FieldIntensityFactor:          "intensity_factor",
	FieldNormalizedPower:          "normalized_power",
	FieldLeftRightBalance100:      "left_right_balance_100",
	FieldStepLength:               "step_length",
	FieldAvgVerticalOscillation:   "avg_vertical_oscillation",
	FieldAvgStanceTimePercent:     "avg_stance_time_percent",
	FieldAvgStanceTime:            "avg_stance_time",
	FieldFractionalCadence:        "fractional_cadence",
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for i, name := range fieldNames {
		m[name] = Field(i)
	}
	return m
}()

// String returns the wire name of the field, e.g. "heart_rate".
func (f Field) String() string {
	if f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// Valid reports whether f is a member of the allow-list.
func (f Field) Valid() bool {
	return f < fieldCount
}

// Numeric reports whether the field carries a numeric sample value.
// Only the timestamp is non-numeric.
func (f Field) Numeric() bool {
	return f.Valid() && f != FieldTimestamp
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("telemetry: invalid field %d", uint8(f))
	}
	return []byte(fieldNames[f]), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, ok := ParseField(string(text))
	if !ok {
		return fmt.Errorf("telemetry: unknown field %q", string(text))
	}
	*f = parsed
	return nil
}

// ParseField maps a raw decoder name onto the allow-list.
func ParseField(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// AllFields returns every recognised field in allow-list order.
func AllFields() []Field {
	out := make([]Field, 0, fieldCount)
	for i := Field(0); i < fieldCount; i++ {
		out = append(out, i)
	}
	return out
}
