package entity

// Track устойчивая идентичность дефекта, повторяющегося на соседних кадрах.
// Создаётся и изменяется только менеджером треков; наружу отдаются копии.
type Track struct {
	ID                uint64      `json:"track_id"`
	FirstFrame        uint64      `json:"first_frame"`
	LastFrame         uint64      `json:"last_frame"`
	Detections        []Detection `json:"-"`
	TotalFrames       uint32      `json:"total_frames"`
	AverageConfidence float64     `json:"average_confidence"`
	AverageRiskScore  float64     `json:"average_risk_score"`
	Severity          Severity    `json:"severity_level"`
	StabilityScore    float64     `json:"stability_score"`
}

// Last возвращает последнюю детекцию трека
func (t *Track) Last() (Detection, bool) {
	if len(t.Detections) == 0 {
		return Detection{}, false
	}
	return t.Detections[len(t.Detections)-1], true
}

// Stable сообщает, набрал ли трек достаточно кадров, чтобы считаться надёжным
func (t *Track) Stable(minTrackLength int) bool {
	return int(t.TotalFrames) >= minTrackLength
}

// Clone возвращает копию трека с собственным срезом детекций
func (t *Track) Clone() Track {
	c := *t
	c.Detections = append([]Detection(nil), t.Detections...)
	return c
}
