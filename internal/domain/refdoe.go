package domain

import (
	"fmt"
	"sync"
)

// DOE commercial reference buildings: 16 building types in three
// construction eras. Envelope and system parameters vary by era; loads,
// geometry and schedules vary by type.

// usage gives the occupied hours of each day type as [start, end) pairs.
// A start after the end wraps past midnight; equal values mean closed.
type usage [DayTypes][2]int

var (
	usageOffice      = usage{{7, 19}, {7, 13}, {0, 0}}
	usageRetail      = usage{{9, 21}, {9, 21}, {10, 18}}
	usageRestaurant  = usage{{7, 23}, {7, 23}, {7, 23}}
	usageQuickServe  = usage{{6, 24}, {6, 24}, {6, 24}}
	usageAllDay      = usage{{0, 24}, {0, 24}, {0, 24}}
	usageResidential = usage{{17, 8}, {17, 8}, {17, 8}}
	usageSchool      = usage{{7, 17}, {0, 0}, {0, 0}}
	usageClinic      = usage{{6, 22}, {6, 18}, {0, 0}}
	usageWarehouse   = usage{{7, 17}, {7, 12}, {0, 0}}
)

func (u usage) occupied(day, hour int) bool {
	start, end := u[day][0], u[day][1]
	if start <= end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// profile returns a schedule that is on during occupied hours and off
// otherwise.
func (u usage) profile(on, off float64) WeekSchedule {
	var w WeekSchedule
	for d := range w {
		for h := range w[d] {
			w[d][h] = off
			if u.occupied(d, h) {
				w[d][h] = on
			}
		}
	}
	return w
}

type doeType struct {
	name         string
	usage        usage
	floorHeight  float64 // m
	glazingRatio float64
	coolCap      float64 // W/m2
	condType     CondType
	ventACH      float64

	elec, gas, light float64 // peak W/m2
	occupants        float64 // person/m2
	ventRate         float64 // m3/s-m2
	hotWater         float64 // L/hr-m2
}

var doeTypes = []doeType{
	{"fullservicerestaurant", usageRestaurant, 3.05, 0.17, 160, CondAir, 1.0, 31.2, 45.0, 13.1, 0.37, 0.0037, 2.17},
	{"hospital", usageAllDay, 4.0, 0.15, 120, CondWater, 0.8, 23.3, 3.3, 12.3, 0.05, 0.0013, 0.20},
	{"largehotel", usageResidential, 3.05, 0.27, 90, CondWater, 0.6, 8.5, 2.0, 10.8, 0.05, 0.0007, 0.21},
	{"largeoffice", usageOffice, 3.96, 0.38, 85, CondWater, 0.6, 10.8, 0, 10.8, 0.0538, 0.0004, 0.15},
	{"mediumoffice", usageOffice, 3.96, 0.33, 80, CondAir, 0.6, 10.8, 0, 10.8, 0.0538, 0.0004, 0.05},
	{"midriseapartment", usageResidential, 3.05, 0.15, 60, CondAir, 0.5, 5.4, 0, 7.6, 0.028, 0.0004, 0.30},
	{"outpatient", usageClinic, 3.05, 0.19, 110, CondAir, 0.8, 20.5, 2.0, 14.0, 0.107, 0.0013, 0.06},
	{"primaryschool", usageSchool, 4.0, 0.35, 95, CondAir, 0.8, 15.0, 1.5, 12.9, 0.25, 0.0043, 0.13},
	{"quickservicerestaurant", usageQuickServe, 3.05, 0.14, 170, CondAir, 1.0, 41.6, 60.0, 15.6, 0.34, 0.0038, 5.50},
	{"secondaryschool", usageSchool, 4.0, 0.35, 95, CondAir, 0.8, 13.1, 1.5, 12.3, 0.25, 0.0043, 0.14},
	{"smallhotel", usageResidential, 3.05, 0.11, 70, CondAir, 0.5, 6.7, 1.0, 8.6, 0.04, 0.0004, 0.14},
	{"smalloffice", usageOffice, 3.05, 0.21, 75, CondAir, 0.6, 10.8, 0, 10.8, 0.054, 0.0004, 0.05},
	{"standaloneretail", usageRetail, 6.1, 0.07, 90, CondAir, 0.6, 2.9, 0, 16.1, 0.161, 0.0012, 0.02},
	{"stripmall", usageRetail, 5.2, 0.11, 90, CondAir, 0.6, 2.9, 0, 18.3, 0.161, 0.0012, 0.03},
	{"supermarket", usageQuickServe, 6.1, 0.11, 130, CondAir, 0.6, 34.6, 4.0, 16.6, 0.08, 0.0012, 0.10},
	{"warehouse", usageWarehouse, 8.53, 0.006, 40, CondAir, 0.3, 2.3, 0, 5.0, 0.005, 0.0002, 0.01},
}

type doeEra struct {
	era            BuiltEra
	wallInsulation float64 // m
	roofInsulation float64 // m
	roofAlbedo     float64
	infiltration   float64 // ACH
	uValue         float64 // W/m2-K
	shgc           float64
	cop            float64
	heatEff        float64
}

var doeEras = []doeEra{
	{EraPre80, 0.01, 0.03, 0.2, 0.7, 5.8, 0.7, 2.5, 0.7},
	{EraPst80, 0.05, 0.08, 0.25, 0.5, 3.5, 0.5, 3.0, 0.75},
	{EraNew, 0.09, 0.15, 0.3, 0.35, 2.4, 0.39, 3.5, 0.8},
}

var (
	matStucco     = MaterialParams{ThermalConductivity: 0.6918, VolumetricHeatCapacity: 1555146, Name: "stucco"}
	matConcrete   = MaterialParams{ThermalConductivity: 1.311, VolumetricHeatCapacity: 1874432, Name: "concrete"}
	matInsulation = MaterialParams{ThermalConductivity: 0.049, VolumetricHeatCapacity: 221752, Name: "insulation"}
	matGypsum     = MaterialParams{ThermalConductivity: 0.16, VolumetricHeatCapacity: 651467, Name: "gypsum"}
	matMembrane   = MaterialParams{ThermalConductivity: 0.16, VolumetricHeatCapacity: 1636660, Name: "roof membrane"}
)

func (t doeType) bemDef(e doeEra) BEMDefParams {
	return BEMDefParams{
		BuildingType: t.name,
		BuiltEra:     e.era,
		Building: BuildingParams{
			FloorHeight:       t.floorHeight,
			IntHeatNight:      0.1 * (t.elec + t.light),
			IntHeatDay:        t.elec + t.light,
			IntHeatFRad:       0.1,
			IntHeatFLat:       0.1,
			Infil:             e.infiltration,
			Vent:              t.ventACH,
			GlazingRatio:      t.glazingRatio,
			UValue:            e.uValue,
			SHGC:              e.shgc,
			CondType:          t.condType,
			COP:               e.cop,
			CoolSetpointDay:   297,
			CoolSetpointNight: 297,
			HeatSetpointDay:   293,
			HeatSetpointNight: 293,
			CoolCap:           t.coolCap,
			HeatEff:           e.heatEff,
			InitialTemp:       291,
		},
		Mass: ElementParams{
			Albedo:             0.5,
			Emissivity:         0.9,
			LayerThicknesses:   []float64{0.1},
			Materials:          []MaterialParams{matConcrete},
			InitialTemperature: 293,
			IsHorizontal:       true,
			Name:               "mass",
		},
		Wall: ElementParams{
			Albedo:             0.2,
			Emissivity:         0.9,
			LayerThicknesses:   []float64{0.025, 0.2, e.wallInsulation, 0.0127},
			Materials:          []MaterialParams{matStucco, matConcrete, matInsulation, matGypsum},
			InitialTemperature: 293,
			Name:               "wall",
		},
		Roof: ElementParams{
			Albedo:             e.roofAlbedo,
			Emissivity:         0.9,
			LayerThicknesses:   []float64{0.0095, e.roofInsulation, 0.1},
			Materials:          []MaterialParams{matMembrane, matInsulation, matConcrete},
			InitialTemperature: 293,
			IsHorizontal:       true,
			Name:               "roof",
		},
	}
}

func (t doeType) schDef(e doeEra) SchDefParams {
	p := SchDefParams{
		BuildingType:        t.name,
		BuiltEra:            e.era,
		Electricity:         t.usage.profile(0.9, 0.4),
		Light:               t.usage.profile(0.9, 0.15),
		Occupancy:           t.usage.profile(0.95, 0.05),
		CoolSetpoint:        t.usage.profile(24, 26.7),
		HeatSetpoint:        t.usage.profile(21, 15.6),
		HotWater:            t.usage.profile(0.5, 0.05),
		PeakElectricDensity: t.elec,
		PeakGasDensity:      t.gas,
		PeakLightDensity:    t.light,
		OccupantDensity:     t.occupants,
		VentilationRate:     t.ventRate,
		PeakHotWaterRate:    t.hotWater,
	}
	if t.gas > 0 {
		p.Gas = t.usage.profile(0.3, 0.1)
	}
	return p
}

var doeReference = sync.OnceValue(func() *ReferenceTable {
	bems := make([]BEMDef, 0, len(doeTypes)*len(doeEras))
	schs := make([]SchDef, 0, len(doeTypes)*len(doeEras))
	for _, t := range doeTypes {
		for _, e := range doeEras {
			b, err := NewBEMDef(t.bemDef(e))
			if err != nil {
				panic(fmt.Sprintf("domain: reference BEMDef %s/%s: %v", t.name, e.era, err))
			}
			s, err := NewSchDef(t.schDef(e))
			if err != nil {
				panic(fmt.Sprintf("domain: reference SchDef %s/%s: %v", t.name, e.era, err))
			}
			bems = append(bems, b)
			schs = append(schs, s)
		}
	}
	return NewReferenceTable(bems, schs)
})

// DOEReference returns the built-in table of 16 DOE reference building types
// in each of the three eras. The table is built on first use and shared.
func DOEReference() *ReferenceTable {
	return doeReference()
}

// BuildingTypes lists the DOE reference building types.
func BuildingTypes() []string {
	out := make([]string, len(doeTypes))
	for i, t := range doeTypes {
		out[i] = t.name
	}
	return out
}
