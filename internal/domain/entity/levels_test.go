package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityText(t *testing.T) {
	for s := SeverityNone; s <= SeverityCritical; s++ {
		parsed, err := ParseSeverity(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}
	_, err := ParseSeverity("catastrophic")
	require.Error(t, err)
}

func TestLevelsJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		S Severity            `json:"s"`
		C RoadCondition       `json:"c"`
		P MaintenancePriority `json:"p"`
	}{SeverityHigh, ConditionPoor, PriorityImmediate})
	require.NoError(t, err)
	require.JSONEq(t, `{"s":"high","c":"poor","p":"immediate"}`, string(data))
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		q    float64
		want QualityBucket
	}{
		{0.95, QualityExcellent},
		{0.8, QualityExcellent},
		{0.79, QualityGood},
		{0.6, QualityGood},
		{0.5, QualityFair},
		{0.4, QualityFair},
		{0.39, QualityPoor},
		{0, QualityPoor},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BucketOf(tt.q), "quality %v", tt.q)
	}
}
