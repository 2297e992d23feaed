package telemetry

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"
)

// DecodeFile decodes the activity FIT file at path into raw records.
func DecodeFile(path string) ([]RawBag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()
	return DecodeFIT(f)
}

// DecodeBytes decodes an in-memory activity FIT file.
func DecodeBytes(data []byte) ([]RawBag, error) {
	return DecodeFIT(bytes.NewReader(data))
}

// DecodeFIT reads record messages from an activity FIT stream. Fields the
// device reported as invalid are left out of the bag. Positions stay in
// semicircles; Normalize converts them.
func DecodeFIT(r io.Reader) ([]RawBag, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("%w: activity FIT expected: %v", ErrDecode, err)
	}

	bags := make([]RawBag, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil {
			continue
		}
		bags = append(bags, recordBag(rec))
	}
	return bags, nil
}

func recordBag(rec *fit.RecordMsg) RawBag {
	bag := make(RawBag, 16)
	if ts := validTimeOrZero(rec.Timestamp); !ts.IsZero() {
		bag[FieldTimestamp.String()] = ts
	}

	put := func(f Field, v float64, ok bool) {
		if ok {
			bag[f.String()] = v
		}
	}
	putScaled := func(f Field, v float64) {
		put(f, v, isFinite(v))
	}

	put(FieldHeartRate, float64(rec.HeartRate), rec.HeartRate != math.MaxUint8)
	put(FieldCadence, float64(rec.Cadence), rec.Cadence != math.MaxUint8)
	put(FieldPower, float64(rec.Power), rec.Power != math.MaxUint16)
	put(FieldCalories, float64(rec.Calories), rec.Calories != math.MaxUint16)
	put(FieldAccumulatedPower, float64(rec.AccumulatedPower), rec.AccumulatedPower != math.MaxUint32)
	put(FieldTotalCycles, float64(rec.TotalCycles), rec.TotalCycles != math.MaxUint32)
	put(FieldGPSAccuracy, float64(rec.GpsAccuracy), rec.GpsAccuracy != math.MaxUint8)
	put(FieldResistance, float64(rec.Resistance), rec.Resistance != math.MaxUint8)
	put(FieldTemperature, float64(rec.Temperature), rec.Temperature != math.MaxInt8)
	put(FieldLeftRightBalance, float64(rec.LeftRightBalance), uint8(rec.LeftRightBalance) != math.MaxUint8)
	put(FieldActivityType, float64(rec.ActivityType), uint8(rec.ActivityType) != math.MaxUint8)

	putScaled(FieldDistance, rec.GetDistanceScaled())
	putScaled(FieldSpeed, rec.GetSpeedScaled())
	putScaled(FieldEnhancedSpeed, rec.GetEnhancedSpeedScaled())
	putScaled(FieldAltitude, rec.GetAltitudeScaled())
	putScaled(FieldEnhancedAltitude, rec.GetEnhancedAltitudeScaled())
	putScaled(FieldGrade, rec.GetGradeScaled())
	putScaled(FieldVerticalOscillation, rec.GetVerticalOscillationScaled())
	putScaled(FieldStanceTimePercent, rec.GetStanceTimePercentScaled())
	putScaled(FieldStanceTime, rec.GetStanceTimeScaled())
	putScaled(FieldCycleLength, rec.GetCycleLengthScaled())
	putScaled(FieldFractionalCadence, rec.GetFractionalCadenceScaled())
	putScaled(FieldTimeFromCourse, rec.GetTimeFromCourseScaled())
	putScaled(FieldLeftTorqueEffectiveness, rec.GetLeftTorqueEffectivenessScaled())
	putScaled(FieldRightTorqueEffectiveness, rec.GetRightTorqueEffectivenessScaled())
	putScaled(FieldLeftPedalSmoothness, rec.GetLeftPedalSmoothnessScaled())
	putScaled(FieldRightPedalSmoothness, rec.GetRightPedalSmoothnessScaled())
	putScaled(FieldCombinedPedalSmoothness, rec.GetCombinedPedalSmoothnessScaled())

	if !rec.PositionLat.Invalid() {
		bag[FieldPositionLat.String()] = rec.PositionLat.Semicircles()
	}
	if !rec.PositionLong.Invalid() {
		bag[FieldPositionLong.String()] = rec.PositionLong.Semicircles()
	}
	return bag
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
