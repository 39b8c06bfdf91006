package model

import "sort"

// ServiceCategory is a closed tag identifying a type of repair or
// maintenance work. The set is static and known at build time; plain
// strings cross the storage and HTTP edges and are converted here.
type ServiceCategory string

const (
	CategoryOilChange    ServiceCategory = "oil_change"
	CategoryBrake        ServiceCategory = "brake"
	CategoryTire         ServiceCategory = "tire"
	CategoryEngine       ServiceCategory = "engine"
	CategoryElectrical   ServiceCategory = "electrical"
	CategoryChain        ServiceCategory = "chain"
	CategorySuspension   ServiceCategory = "suspension"
	CategoryTransmission ServiceCategory = "transmission"
	CategoryCooling      ServiceCategory = "cooling"
	CategoryExhaust      ServiceCategory = "exhaust"
	CategoryFuelSystem   ServiceCategory = "fuel_system"
	CategoryBodywork     ServiceCategory = "bodywork"
	CategoryInspection   ServiceCategory = "inspection"
	CategoryCustom       ServiceCategory = "custom"
	CategoryDiagnostics  ServiceCategory = "diagnostics"
	CategoryMaintenance  ServiceCategory = "general_maintenance"
)

type categoryInfo struct {
	Label       string
	Description string
}

var categories = map[ServiceCategory]categoryInfo{
	CategoryOilChange:    {"Oil Change", "Engine oil and filter replacement"},
	CategoryBrake:        {"Brake Service", "Brake pads, discs, fluid and caliper work"},
	CategoryTire:         {"Tire Service", "Tire replacement, balancing and puncture repair"},
	CategoryEngine:       {"Engine Repair", "Engine diagnostics, rebuilds and top-end work"},
	CategoryElectrical:   {"Electrical", "Wiring, battery, charging and ignition systems"},
	CategoryChain:        {"Chain & Sprockets", "Chain adjustment, lubrication and replacement"},
	CategorySuspension:   {"Suspension", "Fork and shock service, setup and rebuilds"},
	CategoryTransmission: {"Transmission", "Gearbox and clutch service"},
	CategoryCooling:      {"Cooling System", "Radiator, coolant and hose service"},
	CategoryExhaust:      {"Exhaust", "Exhaust repair and replacement"},
	CategoryFuelSystem:   {"Fuel System", "Carburetor and fuel injection service"},
	CategoryBodywork:     {"Bodywork", "Fairings, paint and frame repair"},
	CategoryInspection:   {"Inspection", "Roadworthiness and pre-purchase inspections"},
	CategoryCustom:       {"Custom Work", "Modifications and custom builds"},
	CategoryDiagnostics:  {"Diagnostics", "Fault finding and computer diagnostics"},
	CategoryMaintenance:  {"General Maintenance", "Scheduled servicing and general upkeep"},
}

// Valid reports whether c is a member of the closed category set.
func (c ServiceCategory) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Label returns the human-readable name for the category, falling back
// to the raw value for unknown tags.
func (c ServiceCategory) Label() string {
	if info, ok := categories[c]; ok {
		return info.Label
	}
	return string(c)
}

func (c ServiceCategory) Description() string {
	return categories[c].Description
}

// ServiceCategories returns the full closed set in stable alphabetical
// order, for listing endpoints.
func ServiceCategories() []ServiceCategory {
	out := make([]ServiceCategory, 0, len(categories))
	for c := range categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
