// Package features decides which product modules an organization sees: a
// static per-industry visibility table combined with plan checks against the
// backend.
package features

import "slices"

// Industry is an organization's line of business.
type Industry string

const (
	IndustryRetail               Industry = "retail"
	IndustryHospitality          Industry = "hospitality"
	IndustryConstruction         Industry = "construction"
	IndustryProfessionalServices Industry = "professional_services"
	IndustryManufacturing        Industry = "manufacturing"
	IndustryAgriculture          Industry = "agriculture"
	IndustryOther                Industry = "other"
)

// Module is a product area that can be shown or hidden.
type Module string

const (
	ModuleBankImport   Module = "bank_import"
	ModuleInvoicing    Module = "invoicing"
	ModuleInventory    Module = "inventory"
	ModuleProjects     Module = "projects"
	ModuleJobCosting   Module = "job_costing"
	ModuleTimeTracking Module = "time_tracking"
	ModulePayroll      Module = "payroll"
	ModulePointOfSale  Module = "point_of_sale"
)

// Every industry sees these.
var coreModules = []Module{ModuleBankImport, ModuleInvoicing, ModulePayroll}

var industryModules = map[Industry][]Module{
	IndustryRetail:               {ModuleInventory, ModulePointOfSale},
	IndustryHospitality:          {ModuleInventory, ModulePointOfSale},
	IndustryConstruction:         {ModuleProjects, ModuleJobCosting, ModuleTimeTracking},
	IndustryProfessionalServices: {ModuleProjects, ModuleTimeTracking},
	IndustryManufacturing:        {ModuleInventory, ModuleJobCosting},
	IndustryAgriculture:          {ModuleInventory},
	IndustryOther:                nil,
}

// Industries lists the known industries in display order.
func Industries() []Industry {
	return []Industry{
		IndustryRetail,
		IndustryHospitality,
		IndustryConstruction,
		IndustryProfessionalServices,
		IndustryManufacturing,
		IndustryAgriculture,
		IndustryOther,
	}
}

// KnownIndustry reports whether s names an industry.
func KnownIndustry(s string) bool {
	_, ok := industryModules[Industry(s)]
	return ok
}

// VisibleModules returns the modules shown for industry, core modules first.
// Unknown industries behave as IndustryOther.
func VisibleModules(industry Industry) []Module {
	extra, ok := industryModules[industry]
	if !ok {
		extra = industryModules[IndustryOther]
	}
	out := make([]Module, 0, len(coreModules)+len(extra))
	out = append(out, coreModules...)
	return append(out, extra...)
}

// IsVisible reports whether module is shown for industry.
func IsVisible(industry Industry, module Module) bool {
	return slices.Contains(VisibleModules(industry), module)
}
