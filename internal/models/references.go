package models

import "ferrytimetable.org/timetabledb"

// PortReference describes a ferry terminal mentioned in a response.
type PortReference struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// RouteReference describes a route mentioned in a response.
type RouteReference struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// ReferencesModel References model for related data
type ReferencesModel struct {
	Ports  []PortReference  `json:"ports"`
	Routes []RouteReference `json:"routes"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Ports:  []PortReference{},
		Routes: []RouteReference{},
	}
}

// NewPortReferences keeps the ports whose code is in codes, in dataset order.
func NewPortReferences(ports []timetabledb.Port, codes map[string]bool) []PortReference {
	refs := []PortReference{}
	for _, p := range ports {
		if codes == nil || codes[p.Code] {
			refs = append(refs, PortReference{Code: p.Code, Name: p.Name})
		}
	}
	return refs
}

func NewRouteReference(route timetabledb.Route) RouteReference {
	return RouteReference{
		ID:          route.ID,
		Source:      route.Source,
		Destination: route.Destination,
	}
}
