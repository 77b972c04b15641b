// Package tracking сопровождает дефекты дороги между кадрами видео.
//
// Жизненный цикл трека: New -> Active -> Stable (total_frames >= MinTrackLength) -> Evicted.
// Manager не потокобезопасен: один экземпляр на видео, Update вызывается
// строго по возрастанию номера кадра.
package tracking

import (
	"fmt"
	"sort"

	"road-vision/internal/domain/entity"
)

// Config параметры сопровождения
type Config struct {
	// TrackingThreshold минимальное перекрытие (строго больше) для продолжения трека
	TrackingThreshold float64
	// MinTrackLength число кадров, после которого трек считается стабильным
	MinTrackLength int
	// MaxTracks верхняя граница числа живых треков
	MaxTracks int
	// MaxHistory сколько последних детекций хранить в треке; 0 значит все
	MaxHistory int
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		TrackingThreshold: 0.7,
		MinTrackLength:    3,
		MaxTracks:         50,
	}
}

// UpdateStats что произошло с треками за один вызов Update
type UpdateStats struct {
	Matched        int
	Spawned        int
	PrunedNoise    int
	PrunedCapacity int
	Live           int
}

// slot ячейка арены. Суммы нужны, чтобы средние оставались точными при обрезке истории.
type slot struct {
	track        entity.Track
	updatedAt    uint64 // номер кадра последнего обновления
	riskSum      float64
	riskCount    int
	severitySum  int
	severityCnt  int
	confSum      float64
	stabilitySum float64
}

// Manager владеет таблицей треков одного видео.
// Треки лежат в арене slots; live хранит индексы живых ячеек в порядке возрастания ID;
// освобождённые ячейки переиспользуются через free.
type Manager struct {
	cfg Config

	slots []slot
	free  []int
	live  []int

	nextID    uint64
	lastFrame uint64
	started   bool
	err       error

	// переиспользуемые буферы одного вызова Update
	claimed []bool
	touched []bool
}

// NewManager создаёт менеджер; нулевые поля конфигурации заменяются значениями по умолчанию
func NewManager(cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.TrackingThreshold <= 0 {
		cfg.TrackingThreshold = def.TrackingThreshold
	}
	if cfg.MinTrackLength <= 0 {
		cfg.MinTrackLength = def.MinTrackLength
	}
	if cfg.MaxTracks <= 0 {
		cfg.MaxTracks = def.MaxTracks
	}
	if cfg.MaxHistory < 0 {
		cfg.MaxHistory = 0
	}
	return &Manager{cfg: cfg}
}

// Config возвращает действующую конфигурацию
func (m *Manager) Config() Config {
	return m.cfg
}

// Update сопоставляет детекции кадра с живыми треками.
//
// Каждая детекция жадно присоединяется к треку с наибольшим перекрытием с его последней
// детекцией (строго выше порога); трек, занятый на этом кадре, повторно не используется.
// Несопоставленные детекции открывают новые треки. Затем не обновлённые короткие треки
// удаляются как шум, а при превышении MaxTracks вытесняются самые короткие.
//
// Номер кадра должен строго возрастать, иначе возвращается entity.ErrOutOfOrderFrame,
// и менеджер отвергает все последующие вызовы до Reset.
func (m *Manager) Update(frameNumber uint64, detections []entity.Detection) (UpdateStats, error) {
	if m.err != nil {
		return UpdateStats{}, m.err
	}
	if m.started && frameNumber <= m.lastFrame {
		m.err = fmt.Errorf("%w: frame %d after %d", entity.ErrOutOfOrderFrame, frameNumber, m.lastFrame)
		return UpdateStats{}, m.err
	}
	m.started = true
	m.lastFrame = frameNumber

	var stats UpdateStats

	// кандидаты: только треки, жившие до этого кадра
	candidates := len(m.live)
	m.claimed = resetFlags(m.claimed, candidates)

	for _, det := range detections {
		best := -1
		bestOverlap := 0.0
		for j := 0; j < candidates; j++ {
			if m.claimed[j] {
				continue
			}
			last, ok := m.slots[m.live[j]].track.Last()
			if !ok {
				continue
			}
			overlap := entity.OverlapRatio(det.BBox, last.BBox)
			if overlap > m.cfg.TrackingThreshold && overlap > bestOverlap {
				best, bestOverlap = j, overlap
			}
		}

		if best >= 0 {
			m.claimed[best] = true
			m.extend(m.live[best], det, frameNumber, bestOverlap)
			stats.Matched++
			continue
		}

		m.spawn(det, frameNumber)
		stats.Spawned++
	}

	stats.PrunedNoise = m.pruneNoise(frameNumber)
	stats.PrunedCapacity = m.enforceCapacity()
	stats.Live = len(m.live)

	return stats, nil
}

// extend добавляет детекцию в трек и пересчитывает агрегаты
func (m *Manager) extend(idx int, det entity.Detection, frameNumber uint64, overlap float64) {
	s := &m.slots[idx]
	s.track.Detections = append(s.track.Detections, det)
	if h := m.cfg.MaxHistory; h > 0 && len(s.track.Detections) > h {
		n := copy(s.track.Detections, s.track.Detections[len(s.track.Detections)-h:])
		s.track.Detections = s.track.Detections[:n]
	}
	s.track.LastFrame = frameNumber
	s.track.TotalFrames++
	s.updatedAt = frameNumber

	s.accumulate(det)
	s.stabilitySum += overlap
	s.recompute()
}

// spawn открывает новый трек в свободной ячейке арены
func (m *Manager) spawn(det entity.Detection, frameNumber uint64) {
	s := slot{
		track: entity.Track{
			ID:          m.nextID,
			FirstFrame:  frameNumber,
			LastFrame:   frameNumber,
			Detections:  []entity.Detection{det},
			TotalFrames: 1,
		},
		updatedAt: frameNumber,
	}
	m.nextID++
	s.accumulate(det)
	s.recompute()

	var idx int
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[idx] = s
	} else {
		idx = len(m.slots)
		m.slots = append(m.slots, s)
	}
	// ID растут монотонно, поэтому live остаётся отсортированным
	m.live = append(m.live, idx)
}

// pruneNoise удаляет треки, не обновлённые на этом кадре и не набравшие MinTrackLength
func (m *Manager) pruneNoise(frameNumber uint64) int {
	pruned := 0
	kept := m.live[:0]
	for _, idx := range m.live {
		s := &m.slots[idx]
		if s.updatedAt != frameNumber && int(s.track.TotalFrames) < m.cfg.MinTrackLength {
			m.release(idx)
			pruned++
			continue
		}
		kept = append(kept, idx)
	}
	m.live = kept
	return pruned
}

// enforceCapacity вытесняет треки сверх MaxTracks: сначала самые короткие,
// при равной длине дольше всех не обновлявшиеся, затем более новые по ID.
func (m *Manager) enforceCapacity() int {
	excess := len(m.live) - m.cfg.MaxTracks
	if excess <= 0 {
		return 0
	}

	order := append([]int(nil), m.live...)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := &m.slots[order[i]], &m.slots[order[j]]
		if a.track.TotalFrames != b.track.TotalFrames {
			return a.track.TotalFrames < b.track.TotalFrames
		}
		if a.updatedAt != b.updatedAt {
			return a.updatedAt < b.updatedAt
		}
		return a.track.ID > b.track.ID
	})

	m.touched = resetFlags(m.touched, len(m.slots))
	for _, idx := range order[:excess] {
		m.touched[idx] = true
		m.release(idx)
	}

	kept := m.live[:0]
	for _, idx := range m.live {
		if !m.touched[idx] {
			kept = append(kept, idx)
		}
	}
	m.live = kept
	return excess
}

func (m *Manager) release(idx int) {
	m.slots[idx] = slot{}
	m.free = append(m.free, idx)
}

// Tracks возвращает копии живых треков в порядке возрастания ID
func (m *Manager) Tracks() []entity.Track {
	out := make([]entity.Track, 0, len(m.live))
	for _, idx := range m.live {
		out = append(out, m.slots[idx].track.Clone())
	}
	return out
}

// StableTracks возвращает копии треков, набравших MinTrackLength кадров
func (m *Manager) StableTracks() []entity.Track {
	out := make([]entity.Track, 0, len(m.live))
	for _, idx := range m.live {
		t := &m.slots[idx].track
		if t.Stable(m.cfg.MinTrackLength) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Len число живых треков
func (m *Manager) Len() int {
	return len(m.live)
}

// Err ошибка, остановившая сессию, если была
func (m *Manager) Err() error {
	return m.err
}

// Reset удаляет все треки и снимает ошибку порядка кадров. Счётчик ID начинается заново.
func (m *Manager) Reset() {
	m.slots = nil
	m.free = nil
	m.live = nil
	m.nextID = 0
	m.lastFrame = 0
	m.started = false
	m.err = nil
}

func (s *slot) accumulate(det entity.Detection) {
	s.confSum += det.Confidence
	if det.Classified() {
		s.riskSum += det.RiskScore
		s.riskCount++
		s.severitySum += int(det.Severity)
		s.severityCnt++
	}
}

func (s *slot) recompute() {
	t := &s.track
	n := float64(t.TotalFrames)

	t.AverageConfidence = s.confSum / n
	if s.riskCount > 0 {
		t.AverageRiskScore = s.riskSum / float64(s.riskCount)
	}
	t.Severity = meanSeverity(s.severitySum, s.severityCnt)

	// среднее перекрытие соседних детекций; новый трек считается полностью стабильным
	if t.TotalFrames > 1 {
		t.StabilityScore = entity.Clamp(s.stabilitySum/(n-1), 0, 1)
	} else {
		t.StabilityScore = 1.0
	}
}

// meanSeverity округляет среднее уровней; половина округляется в сторону большей серьёзности
func meanSeverity(sum, count int) entity.Severity {
	if count == 0 {
		return entity.SeverityLow
	}
	// round-half-up на целых: floor((2*sum + count) / (2*count))
	level := (2*sum + count) / (2 * count)
	if level < int(entity.SeverityLow) {
		level = int(entity.SeverityLow)
	}
	if level > int(entity.SeverityCritical) {
		level = int(entity.SeverityCritical)
	}
	return entity.Severity(level)
}

func resetFlags(buf []bool, n int) []bool {
	if cap(buf) < n {
		return make([]bool, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = false
	}
	return buf
}
