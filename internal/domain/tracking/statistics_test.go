package tracking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
)

func TestStatistics_Empty(t *testing.T) {
	m := NewManager(DefaultConfig())
	require.Equal(t, entity.TrackingStatistics{}, m.Statistics())
}

func TestStatistics_Distribution(t *testing.T) {
	m := NewManager(Config{TrackingThreshold: 0.7, MinTrackLength: 2, MaxTracks: 10})

	a := det(0, 0, 50, 50, 0.9)
	b := det(500, 0, 550, 50, 0.9)
	c := det(1000, 0, 1050, 50, 0.9)

	// a живёт 5 кадров, b 2, c появляется на последнем
	for frame := uint64(0); frame < 5; frame++ {
		dets := []entity.Detection{a}
		if frame >= 3 {
			dets = append(dets, b)
		}
		if frame == 4 {
			dets = append(dets, c)
		}
		_, err := m.Update(frame, dets)
		require.NoError(t, err)
	}

	st := m.Statistics()
	require.Equal(t, 3, st.TotalTracks)
	require.Equal(t, 2, st.StableTracks)
	require.Equal(t, uint32(5), st.MaxTrackLength)
	require.InDelta(t, 8.0/3.0, st.AverageTrackLength, 1e-12)
	require.Equal(t, entity.TrackDistribution{Short: 1, Stable: 2, Long: 1}, st.Distribution)
}
