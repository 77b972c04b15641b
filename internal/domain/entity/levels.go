package entity

import "fmt"

// Severity уровень серьёзности дефекта. Объявлены по возрастанию серьёзности.
type Severity uint8

const (
	SeverityNone Severity = iota // детекция ещё не классифицирована
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// ParseSeverity разбирает строковое представление уровня
func ParseSeverity(v string) (Severity, error) {
	for s := SeverityNone; s <= SeverityCritical; s++ {
		if s.String() == v {
			return s, nil
		}
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", v)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(data []byte) error {
	v, err := ParseSeverity(string(data))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// RoadCondition состояние дороги. Объявлены от лучшего к худшему.
type RoadCondition uint8

const (
	ConditionUnknown RoadCondition = iota
	ConditionExcellent
	ConditionGood
	ConditionFair
	ConditionPoor
	ConditionCritical
)

func (c RoadCondition) String() string {
	switch c {
	case ConditionUnknown:
		return "unknown"
	case ConditionExcellent:
		return "excellent"
	case ConditionGood:
		return "good"
	case ConditionFair:
		return "fair"
	case ConditionPoor:
		return "poor"
	case ConditionCritical:
		return "critical"
	}
	return fmt.Sprintf("condition(%d)", uint8(c))
}

func (c RoadCondition) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *RoadCondition) UnmarshalText(data []byte) error {
	for v := ConditionUnknown; v <= ConditionCritical; v++ {
		if v.String() == string(data) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown road condition %q", data)
}

// MaintenancePriority приоритет ремонта. Объявлены по возрастанию срочности.
type MaintenancePriority uint8

const (
	PriorityLow MaintenancePriority = iota
	PriorityMedium
	PriorityHigh
	PriorityImmediate
)

func (p MaintenancePriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityImmediate:
		return "immediate"
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}

func (p MaintenancePriority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *MaintenancePriority) UnmarshalText(data []byte) error {
	for v := PriorityLow; v <= PriorityImmediate; v++ {
		if v.String() == string(data) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown maintenance priority %q", data)
}

// QualityBucket корзина качества кадра
type QualityBucket uint8

const (
	QualityPoor QualityBucket = iota // < 0.4
	QualityFair                      // [0.4, 0.6)
	QualityGood                      // [0.6, 0.8)
	QualityExcellent                 // >= 0.8
)

// BucketOf относит качество кадра к корзине
func BucketOf(quality float64) QualityBucket {
	switch {
	case quality >= 0.8:
		return QualityExcellent
	case quality >= 0.6:
		return QualityGood
	case quality >= 0.4:
		return QualityFair
	default:
		return QualityPoor
	}
}

func (q QualityBucket) String() string {
	switch q {
	case QualityPoor:
		return "poor"
	case QualityFair:
		return "fair"
	case QualityGood:
		return "good"
	case QualityExcellent:
		return "excellent"
	}
	return fmt.Sprintf("quality(%d)", uint8(q))
}
