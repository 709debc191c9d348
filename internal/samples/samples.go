// Package samples builds one valid document per entity. They back the files
// written by cmd/gensamples and serve as fixtures for adapter and pipeline
// tests.
package samples

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/uwg-schema/internal/domain"
)

// CustomBuildingType is the building type added by the CustomUWG sample.
const CustomBuildingType = "customlab"

// Sample is a named example document.
type Sample struct {
	File   string
	Entity domain.Entity
}

// All returns every sample in file-name order of generation.
func All() ([]Sample, error) {
	builders := []struct {
		file  string
		build func() (domain.Entity, error)
	}{
		{"material.json", entity(Material)},
		{"element.json", entity(Element)},
		{"building.json", entity(Building)},
		{"bemdef.json", entity(BEMDef)},
		{"schdef.json", entity(SchDef)},
		{"uwg.json", entity(UWG)},
		{"custom_uwg.json", entity(CustomUWG)},
	}
	out := make([]Sample, 0, len(builders))
	for _, b := range builders {
		e, err := b.build()
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", b.file, err)
		}
		out = append(out, Sample{File: b.file, Entity: e})
	}
	return out, nil
}

func entity[T domain.Entity](build func() (T, error)) func() (domain.Entity, error) {
	return func() (domain.Entity, error) {
		return build()
	}
}

// JSON returns the indented document of a sample with a trailing newline.
func JSON(e domain.Entity) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func Material() (domain.Material, error) {
	return domain.NewMaterial(domain.MaterialParams{
		ThermalConductivity:    1.311,
		VolumetricHeatCapacity: 1874432,
		Name:                   "concrete",
	})
}

func elementParams() domain.ElementParams {
	return domain.ElementParams{
		Albedo:           0.2,
		Emissivity:       0.9,
		LayerThicknesses: []float64{0.025, 0.2, 0.05},
		Materials: []domain.MaterialParams{
			{ThermalConductivity: 0.6918, VolumetricHeatCapacity: 1555146, Name: "stucco"},
			{ThermalConductivity: 1.311, VolumetricHeatCapacity: 1874432, Name: "concrete"},
			{ThermalConductivity: 0.049, VolumetricHeatCapacity: 221752, Name: "insulation"},
		},
		VegetationCoverage: 0,
		InitialTemperature: 293,
		IsHorizontal:       false,
		Name:               "wall",
	}
}

func Element() (domain.Element, error) {
	return domain.NewElement(elementParams())
}

func buildingParams() domain.BuildingParams {
	p := domain.DefaultBuildingParams()
	p.FloorHeight = 3.5
	p.Infil = 0.26
	p.Vent = 0.0006
	p.GlazingRatio = 0.4
	p.UValue = 2.1
	p.SHGC = 0.35
	p.COP = 3.8
	p.CoolCap = 90
	p.HeatEff = 0.85
	return p
}

func Building() (domain.Building, error) {
	return domain.NewBuilding(buildingParams())
}

func bemDefParams() domain.BEMDefParams {
	roof := elementParams()
	roof.Albedo = 0.6
	roof.IsHorizontal = true
	roof.Name = "roof"

	mass := elementParams()
	mass.LayerThicknesses = []float64{0.1}
	mass.Materials = mass.Materials[1:2]
	mass.Albedo = 0.5
	mass.IsHorizontal = true
	mass.Name = "mass"

	return domain.BEMDefParams{
		BuildingType: CustomBuildingType,
		BuiltEra:     domain.EraNew,
		Building:     buildingParams(),
		Mass:         mass,
		Wall:         elementParams(),
		Roof:         roof,
	}
}

func BEMDef() (domain.BEMDef, error) {
	return domain.NewBEMDef(bemDefParams())
}

// labHours is occupied 7:00 to 19:00 on weekdays and closed otherwise.
func labHours(on, off float64) domain.WeekSchedule {
	var w domain.WeekSchedule
	for h := range domain.HoursPerDay {
		w[0][h] = off
		w[1][h] = off
		w[2][h] = off
		if h >= 7 && h < 19 {
			w[0][h] = on
		}
	}
	return w
}

func schDefParams() domain.SchDefParams {
	return domain.SchDefParams{
		BuildingType:        CustomBuildingType,
		BuiltEra:            domain.EraNew,
		Electricity:         labHours(0.95, 0.5),
		Light:               labHours(0.9, 0.1),
		Occupancy:           labHours(0.9, 0),
		CoolSetpoint:        labHours(23, 27),
		HeatSetpoint:        labHours(21, 16),
		HotWater:            labHours(0.4, 0.05),
		PeakElectricDensity: 25,
		PeakLightDensity:    12,
		OccupantDensity:     0.05,
		VentilationRate:     0.003,
		PeakHotWaterRate:    0.1,
	}
}

func SchDef() (domain.SchDef, error) {
	return domain.NewSchDef(schDefParams())
}

func uwgParams() domain.UWGParams {
	return domain.UWGParams{
		Version:     "0.0.0",
		EPWPath:     "SGP_Singapore.486980_IWEC.epw",
		Month:       1,
		Day:         1,
		NDay:        31,
		DTSim:       300,
		DTWeather:   3600,
		Autosize:    false,
		SensOcc:     100,
		LatFOcc:     0.3,
		RadFOcc:     0.2,
		RadFEquip:   0.5,
		RadFLight:   0.7,
		HUBL1:       1000,
		HUBL2:       80,
		HRef:        150,
		HTemp:       2,
		HWind:       10,
		CCirc:       1.2,
		CExch:       1,
		MaxDay:      150,
		MaxNight:    20,
		WindMin:     1,
		HObs:        0.1,
		BldHeight:   10,
		HMix:        1,
		BldDensity:  0.5,
		VerToHor:    0.8,
		CharLength:  1000,
		AlbRoad:     0.1,
		DRoad:       0.5,
		SensAnth:    20,
		Bld: []domain.StockRow{
			{BuildingType: "largeoffice", BuiltEra: domain.EraPst80, Fraction: 0.4},
			{BuildingType: "midriseapartment", BuiltEra: domain.EraPst80, Fraction: 0.6},
		},
		LatTree:     0.7,
		LatGrss:     0.6,
		Zone:        1,
		VegStart:    4,
		VegEnd:      10,
		GrassCover:  0.1,
		TreeCover:   0.1,
		AlbVeg:      0.25,
		RurVegCover: 0.9,
		KRoad:       1,
		CRoad:       1600000,
		SchTraffic:  labHours(0.7, 0.2),
	}
}

// UWG is a model over two DOE reference archetypes.
func UWG() (domain.UWG, error) {
	return domain.NewUWG(uwgParams())
}

// CustomUWG adds CustomBuildingType through extension vectors and replaces
// the new-era large office schedules with its own.
func CustomUWG() (domain.UWG, error) {
	p := uwgParams()
	p.Bld = []domain.StockRow{
		{BuildingType: "largeoffice", BuiltEra: domain.EraNew, Fraction: 0.5},
		{BuildingType: CustomBuildingType, BuiltEra: domain.EraNew, Fraction: 0.3},
		{BuildingType: "midriseapartment", BuiltEra: domain.EraPst80, Fraction: 0.2},
	}
	albroof := 0.5
	p.AlbRoof = &albroof

	office := schDefParams()
	office.BuildingType = "largeoffice"
	p.ReferenceSchedules = []domain.SchDefParams{schDefParams(), office}
	p.ReferenceBuildingModels = []domain.BEMDefParams{bemDefParams()}
	return domain.NewUWG(p)
}
