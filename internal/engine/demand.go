package engine

import "github.com/GoSim-25-26J-441/archsim-core/pkg/models"

// unclassifiedDemandWeight applies to tags outside the known component set.
const unclassifiedDemandWeight = 0.50

// DemandWeight returns the fraction of system peak demand that flows through
// a component of the given kind, shaped by the read/write mix.
func DemandWeight(kind models.ComponentType, traffic models.TrafficProfile) float64 {
	readRatio := traffic.ReadPercentage / 100
	writeRatio := traffic.WritePercentage / 100

	switch kind {
	case models.ComponentClient, models.ComponentLoadBalancer:
		return 1.00
	case models.ComponentAPIGateway:
		return 0.96
	case models.ComponentService:
		return 0.90
	case models.ComponentCache:
		return 0.25 + readRatio*0.70
	case models.ComponentDatabase:
		return 0.30 + writeRatio*0.68 + readRatio*0.12
	case models.ComponentQueue:
		return 0.20 + writeRatio*0.70
	case models.ComponentCDN:
		return 0.18 + readRatio*0.64
	case models.ComponentObjectStore:
		return 0.15 + writeRatio*0.62
	default:
		return unclassifiedDemandWeight
	}
}
