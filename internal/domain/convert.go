package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// ErrInvalidPassportDate is returned when a passport date is not ISO formatted.
var ErrInvalidPassportDate = errors.New("invalid passport date")

var dottedDateRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)

// ConversionReport is the outcome of converting a catalogue file.
type ConversionReport struct {
	Objects []WaterObject   `json:"objects"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
}

// SkippedRecord describes a record left out of the conversion.
type SkippedRecord struct {
	Kind   RecordKind `json:"kind"`
	Index  int        `json:"index"`
	Name   string     `json:"name"`
	Reason string     `json:"reason"`
}

// ConvertCatalog converts every record of a catalogue file. Records that fail
// are reported in Skipped; the rest of the batch is still converted.
func ConvertCatalog(file CatalogFile, logger *slog.Logger) ConversionReport {
	report := ConversionReport{
		Objects: make([]WaterObject, 0, len(file.HydroStructures)+len(file.Lakes)),
	}

	for i, rec := range file.HydroStructures {
		obj, err := ConvertStructure(rec)
		if err != nil {
			logger.Warn("skipping hydro structure", "index", i, "name", rec.Name, "error", err)
			report.Skipped = append(report.Skipped, SkippedRecord{Kind: KindHydroStructure, Index: i, Name: rec.Name, Reason: err.Error()})
			continue
		}
		report.Objects = append(report.Objects, obj)
	}

	for i, rec := range file.Lakes {
		obj, err := ConvertLake(rec)
		if err != nil {
			logger.Warn("skipping lake", "index", i, "name", rec.Name, "error", err)
			report.Skipped = append(report.Skipped, SkippedRecord{Kind: KindLake, Index: i, Name: rec.Name, Reason: err.Error()})
			continue
		}
		report.Objects = append(report.Objects, obj)
	}

	return report
}

// ConvertStructure normalizes a hydro-technical structure record.
func ConvertStructure(rec HydroStructureRecord) (WaterObject, error) {
	coord, err := ParseCoordinateField(rec.Coordinates)
	if err != nil {
		return WaterObject{}, fmt.Errorf("coordinates of %q: %w", rec.Name, err)
	}

	passportDate := NormalizePassportDate(rec.PassportDate)
	return WaterObject{
		ID:                generateID(KindHydroStructure, rec.Name, rec.Region, coord),
		Name:              rec.Name,
		Region:            rec.Region,
		ResourceType:      NormalizeResourceType(rec.ResourceType),
		WaterType:         NormalizeWaterType(rec.WaterType),
		Fauna:             NormalizeFauna(rec.FaunaPresence),
		ConditionCategory: conditionFor(rec.TechnicalCondition, passportDate),
		PassportDate:      passportDate,
		Geo:               Geo{Lat: coord.Latitude, Lon: coord.Longitude},
		Description:       fmt.Sprintf("%s в %s", rec.ResourceType, rec.Region),
	}, nil
}

// ConvertLake normalizes a lake record, including its optional passport.
func ConvertLake(rec LakeRecord) (WaterObject, error) {
	coord, err := ParseCoordinateField(rec.Coordinates)
	if err != nil {
		return WaterObject{}, fmt.Errorf("coordinates of %q: %w", rec.Name, err)
	}

	passportDate := NormalizePassportDate(rec.PassportDate)
	return WaterObject{
		ID:                generateID(KindLake, rec.Name, rec.Region, coord),
		Name:              rec.Name,
		Region:            rec.Region,
		ResourceType:      ResourceLake,
		WaterType:         NormalizeWaterType(rec.WaterType),
		Fauna:             NormalizeFauna(rec.FaunaPresence),
		ConditionCategory: conditionFor(rec.TechnicalCondition, passportDate),
		PassportDate:      passportDate,
		Geo:               Geo{Lat: coord.Latitude, Lon: coord.Longitude},
		Description:       fmt.Sprintf("Озеро в %s", rec.Region),
		AreaKM2:           rec.PassportDetails.areaKM2(),
		DepthM:            rec.PassportDetails.maxDepthM(),
		PassportDetails:   rec.PassportDetails,
	}, nil
}

// ParseRawRecord decodes a streamed record. The "record_kind" header selects
// the shape; without it, an object-form coordinate or a passport marks a lake.
func ParseRawRecord(raw RawRecord) (WaterObject, error) {
	kind := RecordKind(raw.Headers["record_kind"])
	if kind == "" {
		kind = sniffKind(raw.Value)
	}

	switch kind {
	case KindLake:
		var rec LakeRecord
		if err := json.Unmarshal(raw.Value, &rec); err != nil {
			return WaterObject{}, fmt.Errorf("parse raw record: %w", err)
		}
		return ConvertLake(rec)
	case KindHydroStructure:
		var rec HydroStructureRecord
		if err := json.Unmarshal(raw.Value, &rec); err != nil {
			return WaterObject{}, fmt.Errorf("parse raw record: %w", err)
		}
		return ConvertStructure(rec)
	default:
		return WaterObject{}, fmt.Errorf("parse raw record: unknown record kind %q", kind)
	}
}

func sniffKind(value []byte) RecordKind {
	var probe struct {
		Coordinates     json.RawMessage `json:"coordinates"`
		PassportDetails json.RawMessage `json:"passport_details"`
	}
	if err := json.Unmarshal(value, &probe); err != nil {
		// Let the structure decoder report the syntax error.
		return KindHydroStructure
	}
	coords := strings.TrimSpace(string(probe.Coordinates))
	if strings.HasPrefix(coords, "{") || len(probe.PassportDetails) > 0 {
		return KindLake
	}
	return KindHydroStructure
}

// NormalizeResourceType maps Russian or English type names. Unknown names
// default to lake.
func NormalizeResourceType(s string) ResourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "озеро", "lake":
		return ResourceLake
	case "канал", "canal":
		return ResourceCanal
	case "водохранилище", "reservoir":
		return ResourceReservoir
	case "шлюз", "lock":
		return ResourceLock
	case "гидроузел", "hydro-unit":
		return ResourceHydroUnit
	default:
		return ResourceLake
	}
}

// NormalizeWaterType maps "пресная"/"fresh"/"да" to fresh; anything else is non-fresh.
func NormalizeWaterType(s string) WaterType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "пресная", "fresh", "да":
		return WaterFresh
	default:
		return WaterNonFresh
	}
}

// NormalizeFauna maps yes/no answers in either language.
func NormalizeFauna(s string) FaunaPresence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "да", "yes":
		return FaunaYes
	case "нет", "no":
		return FaunaNo
	default:
		return FaunaUnknown
	}
}

// NormalizePassportDate returns the date as YYYY-MM-DD. DD.MM.YYYY is
// reordered; anything unreadable falls back to today.
func NormalizePassportDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(isoDate, s); err == nil {
		return s
	}
	if m := dottedDateRe.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return clock.Now().UTC().Format(isoDate)
}

// ParsePassportDate reads an ISO date or RFC 3339 timestamp.
func ParsePassportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPassportDate, s)
}

// InferConditionCategory estimates a category from passport age alone, for
// records whose technical condition is free text.
func InferConditionCategory(passportDate, now time.Time) ConditionCategory {
	age := PassportAge(passportDate, now)
	switch {
	case age > 5:
		return 5
	case age > 3:
		return 4
	case age > 2:
		return 3
	case age > 1:
		return 2
	default:
		return 1
	}
}

func conditionFor(tc TechnicalCondition, passportDate string) ConditionCategory {
	if tc.Known() {
		return tc.Category
	}
	passport, err := ParsePassportDate(passportDate)
	if err != nil {
		return 3
	}
	return InferConditionCategory(passport, clock.Now())
}

// generateID produces a deterministic ID from the record's identifying fields.
func generateID(kind RecordKind, name, region string, c DecimalCoordinate) string {
	input := fmt.Sprintf("%s|%s|%s|%.5f|%.5f", kind, name, region, c.Latitude, c.Longitude)
	hash := sha256.Sum256([]byte(input))
	prefix := "hts"
	if kind == KindLake {
		prefix = "lake"
	}
	return prefix + "-" + hex.EncodeToString(hash[:8])
}
