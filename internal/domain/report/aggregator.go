package report

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"road-vision/internal/domain/entity"
)

const (
	RecommendNoDefects       = "No road defects detected - no maintenance required"
	RecommendUrgentVolume    = "High number of potholes detected - urgent intervention required"
	RecommendScheduled       = "Multiple potholes detected - scheduled maintenance recommended"
	RecommendPreventive      = "Some potholes detected - preventive maintenance recommended"
	RecommendFewDefects      = "Few potholes detected - road condition acceptable"
	RecommendLowQuality      = "Low frame quality - consider improving lighting or resolution"
	RecommendModerateQuality = "Moderate frame quality - optimize capture conditions"
	RecommendCritical        = "Critical condition detected - immediate intervention required"
	RecommendPoorOverall     = "Overall road condition is poor - comprehensive maintenance recommended"
	RecommendImmediate       = "Immediate priority identified - urgent action required"
	RecommendManyHigh        = "Multiple high priorities - urgent maintenance planning required"
)

// Aggregator строит VideoReport. Не хранит состояния: одинаковый вход даёт одинаковый отчёт.
type Aggregator struct {
	MinTrackLength int
}

func NewAggregator(minTrackLength int) Aggregator {
	return Aggregator{MinTrackLength: minTrackLength}
}

// Finalize сводит проанализированные кадры и треки, оставшиеся в живых к концу видео
func (a Aggregator) Finalize(meta entity.VideoMeta, frames []entity.FrameAnalysis, tracks []entity.Track) entity.VideoReport {
	processed := len(frames)

	totalDetections := lo.SumBy(frames, func(f entity.FrameAnalysis) int { return len(f.Detections) })
	withDetections := lo.CountBy(frames, func(f entity.FrameAnalysis) bool { return len(f.Detections) > 0 })

	var detectionRate, avgQuality float64
	if processed > 0 {
		detectionRate = float64(withDetections) / float64(processed)
		qualities := lo.Map(frames, func(f entity.FrameAnalysis, _ int) float64 { return f.FrameQuality })
		avgQuality = stat.Mean(qualities, nil)
	}

	conditions := lo.CountValuesBy(frames, func(f entity.FrameAnalysis) entity.RoadCondition { return f.RoadCondition })
	priorities := lo.CountValuesBy(frames, func(f entity.FrameAnalysis) entity.MaintenancePriority { return f.MaintenancePriority })

	stable := lo.Filter(tracks, func(t entity.Track, _ int) bool { return t.Stable(a.MinTrackLength) })
	details := make([]entity.Track, 0, len(stable))
	for _, t := range stable {
		details = append(details, t.Clone())
	}

	frameCount := meta.TotalFrames
	if frameCount == 0 {
		frameCount = uint64(processed)
	}
	info := entity.VideoInfo{
		FrameCount:      frameCount,
		ProcessedFrames: processed,
		FPS:             meta.FPS,
	}
	if meta.FPS > 0 {
		info.Duration = float64(frameCount) / meta.FPS
	}

	return entity.VideoReport{
		VideoInfo: info,
		DetectionSummary: entity.DetectionSummary{
			TotalDetections:      totalDetections,
			FramesWithDetections: withDetections,
			DetectionRate:        detectionRate,
		},
		QualityAnalysis: entity.QualityAnalysis{
			AverageFrameQuality: avgQuality,
			QualityDistribution: qualityDistribution(frames),
		},
		RoadConditionAnalysis: entity.RoadConditionAnalysis{
			ConditionDistribution: conditionHistogram(conditions),
			OverallCondition:      dominantCondition(conditions),
		},
		MaintenanceAnalysis: entity.MaintenanceAnalysis{
			PriorityDistribution: priorityHistogram(priorities),
			OverallPriority:      dominantPriority(priorities),
		},
		TrackingAnalysis: entity.TrackingAnalysis{
			TotalTracks:  len(tracks),
			StableTracks: len(stable),
			TrackDetails: details,
		},
		Recommendations: videoRecommendations(processed, totalDetections, avgQuality, conditions, priorities),
	}
}

func qualityDistribution(frames []entity.FrameAnalysis) entity.QualityDistribution {
	var d entity.QualityDistribution
	for _, f := range frames {
		switch entity.BucketOf(f.FrameQuality) {
		case entity.QualityExcellent:
			d.Excellent++
		case entity.QualityGood:
			d.Good++
		case entity.QualityFair:
			d.Fair++
		case entity.QualityPoor:
			d.Poor++
		}
	}
	return d
}

// dominantCondition самое частое состояние; при равенстве побеждает более тяжёлое
func dominantCondition(counts map[entity.RoadCondition]int) entity.RoadCondition {
	best, bestCount := entity.ConditionUnknown, 0
	for c := entity.ConditionCritical; c >= entity.ConditionExcellent; c-- {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// dominantPriority самый частый приоритет; при равенстве побеждает более срочный
func dominantPriority(counts map[entity.MaintenancePriority]int) entity.MaintenancePriority {
	best, bestCount := entity.PriorityLow, 0
	for p := entity.PriorityImmediate; ; p-- {
		if counts[p] > bestCount {
			best, bestCount = p, counts[p]
		}
		if p == entity.PriorityLow {
			break
		}
	}
	return best
}

func conditionHistogram(counts map[entity.RoadCondition]int) map[string]int {
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[c.String()] = n
	}
	return out
}

func priorityHistogram(counts map[entity.MaintenancePriority]int) map[string]int {
	out := make(map[string]int, len(counts))
	for p, n := range counts {
		out[p.String()] = n
	}
	return out
}

// videoRecommendations пороги долей считаются от числа обработанных кадров
func videoRecommendations(
	processed, totalDetections int,
	avgQuality float64,
	conditions map[entity.RoadCondition]int,
	priorities map[entity.MaintenancePriority]int,
) []string {
	recs := make([]string, 0, 4)

	switch {
	case totalDetections == 0:
		recs = append(recs, RecommendNoDefects)
	case totalDetections > 100:
		recs = append(recs, RecommendUrgentVolume)
	case totalDetections > 50:
		recs = append(recs, RecommendScheduled)
	case totalDetections > 10:
		recs = append(recs, RecommendPreventive)
	default:
		recs = append(recs, RecommendFewDefects)
	}

	if processed > 0 {
		switch {
		case avgQuality < 0.4:
			recs = append(recs, RecommendLowQuality)
		case avgQuality < 0.6:
			recs = append(recs, RecommendModerateQuality)
		}
	}

	frames := float64(processed)
	if conditions[entity.ConditionCritical] > 0 {
		recs = append(recs, RecommendCritical)
	}
	if n := conditions[entity.ConditionPoor]; n > 0 && float64(n) > frames*0.3 {
		recs = append(recs, RecommendPoorOverall)
	}
	if priorities[entity.PriorityImmediate] > 0 {
		recs = append(recs, RecommendImmediate)
	}
	if n := priorities[entity.PriorityHigh]; n > 0 && float64(n) > frames*0.2 {
		recs = append(recs, RecommendManyHigh)
	}

	return recs
}
