package telemetry

// Category groups related fields for export selection.
type Category struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

const CoreCategory = "Core Data"

var categories = []Category{
	{
		Name:        CoreCategory,
		Description: "Essential training metrics",
		Fields:      []Field{FieldTimestamp, FieldHeartRate, FieldSpeed, FieldDistance, FieldCadence, FieldPower},
	},
	{
		Name:        "GPS & Location",
		Description: "Location and elevation data",
		Fields:      []Field{FieldPositionLat, FieldPositionLong, FieldAltitude, FieldEnhancedAltitude, FieldGrade},
	},
	{
		Name:        "Environmental",
		Description: "Environmental conditions",
		Fields:      []Field{FieldTemperature, FieldGPSAccuracy},
	},
	{
		Name:        "Power Metrics",
		Description: "Advanced power meter data",
		Fields: []Field{
			FieldAccumulatedPower, FieldNormalizedPower, FieldLeftRightBalance,
			FieldLeftTorqueEffectiveness, FieldRightTorqueEffectiveness,
			FieldLeftPedalSmoothness, FieldRightPedalSmoothness, FieldCombinedPedalSmoothness,
		},
	},
	{
		Name:        "Running Dynamics",
		Description: "Running form metrics",
		Fields: []Field{
			FieldVerticalOscillation, FieldStanceTimePercent, FieldStanceTime, FieldStepLength,
			FieldAvgVerticalOscillation, FieldAvgStanceTimePercent, FieldAvgStanceTime,
		},
	},
	{
		Name:        "Advanced Metrics",
		Description: "Calculated performance metrics",
		Fields: []Field{
			FieldCalories, FieldTrainingStressScore, FieldIntensityFactor,
			FieldTotalCycles, FieldCycleLength, FieldFractionalCadence,
		},
	},
}

// Categories returns the field groupings in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{
			Name:        c.Name,
			Description: c.Description,
			Fields:      append([]Field(nil), c.Fields...),
		}
	}
	return out
}

// CoreFields returns the fields of the Core Data category.
func CoreFields() []Field {
	return append([]Field(nil), categories[0].Fields...)
}

// Available narrows a category to the fields present in columns, keeping
// the category's order.
func (c Category) Available(columns []Field) []Field {
	present := make(map[Field]bool, len(columns))
	for _, f := range columns {
		present[f] = true
	}
	out := make([]Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		if present[f] {
			out = append(out, f)
		}
	}
	return out
}

// Uncategorized returns the columns that belong to no category.
func Uncategorized(columns []Field) []Field {
	grouped := make(map[Field]bool)
	for _, c := range categories {
		for _, f := range c.Fields {
			grouped[f] = true
		}
	}
	var out []Field
	for _, f := range columns {
		if !grouped[f] {
			out = append(out, f)
		}
	}
	return out
}
