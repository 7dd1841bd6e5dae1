package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CatalogFile is the catalogue export layout.
type CatalogFile struct {
	HydroStructures []HydroStructureRecord `json:"hydro_technical_structures"`
	Lakes           []LakeRecord           `json:"water_bodies_lakes"`
}

// HydroStructureRecord is one entry of "hydro_technical_structures".
type HydroStructureRecord struct {
	Name               string             `json:"name"`
	Region             string             `json:"region"`
	ResourceType       string             `json:"resource_type"`
	WaterType          string             `json:"water_type"`
	FaunaPresence      string             `json:"fauna_presence"`
	PassportDate       string             `json:"passport_date"`
	TechnicalCondition TechnicalCondition `json:"technical_condition"`
	Coordinates        CoordinateField    `json:"coordinates"`
}

// LakeRecord is one entry of "water_bodies_lakes".
type LakeRecord struct {
	Name               string             `json:"name"`
	Region             string             `json:"region"`
	ResourceType       string             `json:"resource_type"`
	WaterType          string             `json:"water_type"`
	FaunaPresence      string             `json:"fauna_presence"`
	PassportDate       string             `json:"passport_date"`
	TechnicalCondition TechnicalCondition `json:"technical_condition"`
	Coordinates        CoordinateField    `json:"coordinates"`
	PassportDetails    *PassportDetails   `json:"passport_details,omitempty"`
}

// CoordinateField holds either a free-text point pair or a CoordinateRegion.
type CoordinateField struct {
	Text   string
	Region *CoordinateRegion
}

func (f *CoordinateField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = CoordinateField{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("coordinates: %w", err)
		}
		*f = CoordinateField{Text: s}
		return nil
	default:
		var r CoordinateRegion
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("coordinates: %w", err)
		}
		*f = CoordinateField{Region: &r}
		return nil
	}
}

func (f CoordinateField) MarshalJSON() ([]byte, error) {
	if f.Region != nil {
		return json.Marshal(f.Region)
	}
	return json.Marshal(f.Text)
}

// TechnicalCondition is either a numeric condition category or a free-text
// assessment. Numeric strings are read as categories.
type TechnicalCondition struct {
	Category ConditionCategory
	Text     string
}

// Known reports whether a numeric category was supplied.
func (c TechnicalCondition) Known() bool {
	return c.Category != 0
}

func (c *TechnicalCondition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = TechnicalCondition{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("technical_condition: %w", err)
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*c = TechnicalCondition{Category: ConditionCategory(n)}
			return nil
		}
		*c = TechnicalCondition{Text: s}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("technical_condition: %w", err)
	}
	*c = TechnicalCondition{Category: ConditionCategory(int(n))}
	return nil
}

func (c TechnicalCondition) MarshalJSON() ([]byte, error) {
	if c.Known() {
		return json.Marshal(int(c.Category))
	}
	return json.Marshal(c.Text)
}

// FlexNumber is a measurement recorded either as a number or as text
// (e.g. "2-3" or "нет данных").
type FlexNumber struct {
	Value *float64
	Text  string
}

// Float returns the numeric value if one was recorded.
func (n FlexNumber) Float() (float64, bool) {
	if n.Value == nil {
		return 0, false
	}
	return *n.Value, true
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexNumber{Text: s}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = FlexNumber{Value: &v}
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if n.Value != nil {
		return json.Marshal(*n.Value)
	}
	if n.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(n.Text)
}

// PassportDetails is the optional survey passport attached to lakes.
// Every section may be absent.
type PassportDetails struct {
	GeographicalLocation      *GeographicalLocation      `json:"geographical_location,omitempty"`
	PhysicalCharacteristics   *PhysicalCharacteristics   `json:"physical_characteristics,omitempty"`
	BiologicalCharacteristics *BiologicalCharacteristics `json:"biological_characteristics,omitempty"`
}

type GeographicalLocation struct {
	AdminArea                    string `json:"admin_area,omitempty"`
	AdminDistrict                string `json:"admin_district,omitempty"`
	LocationRelativeToSettlement string `json:"location_relative_to_settlement,omitempty"`
	Boundaries                   string `json:"boundaries,omitempty"`
}

type PhysicalCharacteristics struct {
	LengthM   *float64    `json:"length_m,omitempty"`
	WidthM    *float64    `json:"width_m,omitempty"`
	AreaHa    *float64    `json:"area_ha,omitempty"`
	DepthMaxM *FlexNumber `json:"depth_max_m,omitempty"`
	DepthAvgM *FlexNumber `json:"depth_avg_m,omitempty"`
	DepthMinM *float64    `json:"depth_min_m,omitempty"`
}

type BiologicalCharacteristics struct {
	OvergrowthDegree           *OvergrowthDegree `json:"overgrowth_degree,omitempty"`
	PhytoplanktonDevelopment   string            `json:"phytoplankton_development,omitempty"`
	FaunaComposition           *FaunaGroups      `json:"fauna_composition,omitempty"`
	CommercialFaunaComposition *FaunaGroups      `json:"commercial_fauna_composition,omitempty"`
	FishProductivityKgHa       *FaunaGroups      `json:"fish_productivity_kg_ha,omitempty"`
}

type OvergrowthDegree struct {
	SurfaceVegetation    string `json:"surface_vegetation,omitempty"`
	UnderwaterVegetation string `json:"underwater_vegetation,omitempty"`
}

// FaunaGroups splits a fauna description by group.
type FaunaGroups struct {
	Ichthyofauna  string `json:"ichthyofauna,omitempty"`
	Mammals       string `json:"mammals,omitempty"`
	Invertebrates string `json:"invertebrates,omitempty"`
}

// areaKM2 returns the surveyed area converted from hectares, if recorded.
func (d *PassportDetails) areaKM2() *float64 {
	if d == nil || d.PhysicalCharacteristics == nil || d.PhysicalCharacteristics.AreaHa == nil {
		return nil
	}
	v := *d.PhysicalCharacteristics.AreaHa / 100
	return &v
}

// maxDepthM returns the maximum depth when it was recorded as a number.
func (d *PassportDetails) maxDepthM() *float64 {
	if d == nil || d.PhysicalCharacteristics == nil || d.PhysicalCharacteristics.DepthMaxM == nil {
		return nil
	}
	v, ok := d.PhysicalCharacteristics.DepthMaxM.Float()
	if !ok {
		return nil
	}
	return &v
}
