package engine

import (
	"fmt"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

const (
	maxTimelineBottlenecks  = 3
	bottleneckEventStartSec = 10.0
	bottleneckEventSpacing  = 15.0
	saturatedFinalEventSec  = 60.0
	stabilizedFinalEventSec = 45.0
	titleSimulationStarted  = "Simulation started"
	titleSaturationReached  = "System saturation reached"
	titleRunStabilized      = "Run stabilized"
	titleInvalidTopology    = "Invalid topology"
)

// SynthesizeTimeline turns an aggregation into an ordered narrative: a start
// event, up to three bottleneck events and a closing event.
func SynthesizeTimeline(agg Aggregation) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, 2+maxTimelineBottlenecks)
	events = append(events, models.TimelineEvent{
		ElapsedSeconds: 0,
		Severity:       models.EventInfo,
		Title:          titleSimulationStarted,
		Description: fmt.Sprintf("Applying %.0f rps adjusted peak demand (%.0f rps peak x %.2f burst) across %d components.",
			agg.AdjustedDemand, agg.PeakRPS, agg.BurstFactor, len(agg.Loads)),
	})

	for i, b := range agg.Bottlenecks {
		if i >= maxTimelineBottlenecks {
			break
		}
		severity := models.EventWarning
		if b.Severity == models.SeverityCritical {
			severity = models.EventCritical
		}
		events = append(events, models.TimelineEvent{
			ElapsedSeconds: bottleneckEventStartSec + float64(i)*bottleneckEventSpacing,
			Severity:       severity,
			Title:          fmt.Sprintf("%s %s at %.1f%% utilization", b.ComponentType, b.ComponentID, b.UtilizationPercent),
			Description: fmt.Sprintf("%s needs %.0f rps against %.0f rps of capacity: %s.",
				b.ComponentID, b.RequiredRPS, b.CapacityRPS, b.Reason),
			ComponentID: b.ComponentID,
		})
	}

	if agg.Saturated() {
		events = append(events, models.TimelineEvent{
			ElapsedSeconds: saturatedFinalEventSec,
			Severity:       models.EventCritical,
			Title:          titleSaturationReached,
			Description: fmt.Sprintf("Adjusted demand of %.0f rps exceeds the %.0f rps system ceiling.",
				agg.AdjustedDemand, agg.SystemCapacity),
		})
	} else {
		events = append(events, models.TimelineEvent{
			ElapsedSeconds: stabilizedFinalEventSec,
			Severity:       models.EventInfo,
			Title:          titleRunStabilized,
			Description: fmt.Sprintf("The topology absorbs %.0f rps within a %.0f rps ceiling.",
				agg.AdjustedDemand, agg.SystemCapacity),
		})
	}

	for i := range events {
		events[i].Sequence = i
	}
	return events
}

func invalidTopologyTimeline() []models.TimelineEvent {
	return []models.TimelineEvent{{
		Sequence:       0,
		ElapsedSeconds: 0,
		Severity:       models.EventCritical,
		Title:          titleInvalidTopology,
		Description:    "The architecture has no components to simulate.",
	}}
}
