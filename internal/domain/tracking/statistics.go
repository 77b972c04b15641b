package tracking

import "road-vision/internal/domain/entity"

// Statistics сводка по живым трекам
func (m *Manager) Statistics() entity.TrackingStatistics {
	st := entity.TrackingStatistics{TotalTracks: len(m.live)}
	if len(m.live) == 0 {
		return st
	}

	var sum uint64
	for _, idx := range m.live {
		n := m.slots[idx].track.TotalFrames
		sum += uint64(n)
		st.MaxTrackLength = max(st.MaxTrackLength, n)

		if int(n) < m.cfg.MinTrackLength {
			st.Distribution.Short++
		} else {
			st.StableTracks++
			st.Distribution.Stable++
		}
		if int(n) > 2*m.cfg.MinTrackLength {
			st.Distribution.Long++
		}
	}
	st.AverageTrackLength = float64(sum) / float64(len(m.live))
	return st
}
