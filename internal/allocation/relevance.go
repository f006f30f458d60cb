package allocation

import "github.com/Gabru-xD/geo-rescue-optimizer/internal/models"

// DefaultRelevance is used for any (incident type, resource type) pair the
// matrix does not cover. Incident types come from a free-text form field, so
// unknown strings are expected, not errors.
const DefaultRelevance = 0.5

// Canonical incident types recognized by the relevance matrix.
const (
	TypeMedicalEmergency  = "Medical Emergency"
	TypeTrafficAccident   = "Traffic Accident"
	TypeFire              = "Fire"
	TypeNaturalDisaster   = "Natural Disaster"
	TypeHazardousMaterial = "Hazardous Material"
	TypePublicDisturbance = "Public Disturbance"
	TypeStructureCollapse = "Structure Collapse"
	TypeMissingPerson     = "Missing Person"
	TypePowerOutage       = "Power Outage"
)

// CanonicalIncidentTypes lists the incident types with explicit relevance
// weights, in the order they are offered on the report form.
var CanonicalIncidentTypes = []string{
	TypeMedicalEmergency,
	TypeTrafficAccident,
	TypeFire,
	TypeNaturalDisaster,
	TypeHazardousMaterial,
	TypePublicDisturbance,
	TypeStructureCollapse,
	TypeMissingPerson,
	TypePowerOutage,
}

// relevanceMatrix weighs how well each resource type serves each incident
// type. Static domain knowledge; every canonical incident type covers all
// five resource types.
var relevanceMatrix = map[string]map[models.ResourceType]float64{
	TypeMedicalEmergency: {
		models.ResourceAmbulance: 1.0,
		models.ResourcePolice:    0.5,
		models.ResourceFireTruck: 0.3,
		models.ResourceHazmat:    0.1,
		models.ResourceRescue:    0.4,
	},
	TypeTrafficAccident: {
		models.ResourceAmbulance: 0.8,
		models.ResourcePolice:    1.0,
		models.ResourceFireTruck: 0.6,
		models.ResourceHazmat:    0.2,
		models.ResourceRescue:    0.7,
	},
	TypeFire: {
		models.ResourceAmbulance: 0.5,
		models.ResourcePolice:    0.7,
		models.ResourceFireTruck: 1.0,
		models.ResourceHazmat:    0.6,
		models.ResourceRescue:    0.8,
	},
	TypeNaturalDisaster: {
		models.ResourceAmbulance: 0.7,
		models.ResourcePolice:    0.8,
		models.ResourceFireTruck: 0.9,
		models.ResourceHazmat:    0.5,
		models.ResourceRescue:    1.0,
	},
	TypeHazardousMaterial: {
		models.ResourceAmbulance: 0.4,
		models.ResourcePolice:    0.6,
		models.ResourceFireTruck: 0.7,
		models.ResourceHazmat:    1.0,
		models.ResourceRescue:    0.5,
	},
	TypePublicDisturbance: {
		models.ResourceAmbulance: 0.3,
		models.ResourcePolice:    1.0,
		models.ResourceFireTruck: 0.1,
		models.ResourceHazmat:    0.1,
		models.ResourceRescue:    0.2,
	},
	TypeStructureCollapse: {
		models.ResourceAmbulance: 0.6,
		models.ResourcePolice:    0.7,
		models.ResourceFireTruck: 0.9,
		models.ResourceHazmat:    0.4,
		models.ResourceRescue:    1.0,
	},
	TypeMissingPerson: {
		models.ResourceAmbulance: 0.2,
		models.ResourcePolice:    1.0,
		models.ResourceFireTruck: 0.3,
		models.ResourceHazmat:    0.1,
		models.ResourceRescue:    0.8,
	},
	TypePowerOutage: {
		models.ResourceAmbulance: 0.3,
		models.ResourcePolice:    0.7,
		models.ResourceFireTruck: 0.5,
		models.ResourceHazmat:    0.4,
		models.ResourceRescue:    0.3,
	},
}

// Relevance returns the weight for pairing a resource type with an incident
// type, falling back to DefaultRelevance for unknown pairs.
func Relevance(incidentType string, resourceType models.ResourceType) float64 {
	row, ok := relevanceMatrix[incidentType]
	if !ok {
		return DefaultRelevance
	}
	weight, ok := row[resourceType]
	if !ok {
		return DefaultRelevance
	}
	return weight
}
