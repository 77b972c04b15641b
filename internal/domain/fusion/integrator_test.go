package fusion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
)

func box(x1, y1, x2, y2 int) entity.BoundingBox {
	return entity.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func TestIntegrate_PrimaryTextByWeightedScore(t *testing.T) {
	det := entity.Detection{BBox: box(0, 0, 100, 100), Confidence: 0.8, ClassName: "sign"}
	texts := []entity.TextResult{
		{BBox: box(0, 0, 100, 31), Text: "second", Confidence: 0.95}, // overlap 0.31
		{BBox: box(0, 0, 100, 50), Text: "first", Confidence: 0.9},   // overlap 0.5
	}

	results := NewIntegrator().Integrate([]entity.Detection{det}, texts)
	require.Len(t, results, 1)

	res := results[0]
	require.Len(t, res.MatchedTexts, 2)
	require.Equal(t, "second", res.MatchedTexts[0].Text, "matched texts keep input order")
	require.InDelta(t, 0.31, res.MatchedTexts[0].Overlap, 1e-9)
	require.InDelta(t, 0.5, res.MatchedTexts[1].Overlap, 1e-9)

	require.NotNil(t, res.PrimaryText)
	require.Equal(t, "first", *res.PrimaryText)

	want := 0.4*0.8 + 0.4*((0.95+0.9)/2) + 0.2*((0.31+0.5)/2)
	require.InDelta(t, want, res.FusedConfidence, 1e-9)
}

func TestIntegrate_TieKeepsFirstFound(t *testing.T) {
	det := entity.Detection{BBox: box(0, 0, 100, 100), Confidence: 0.6}
	texts := []entity.TextResult{
		{BBox: box(0, 0, 100, 50), Text: "A", Confidence: 0.8},
		{BBox: box(0, 50, 100, 100), Text: "B", Confidence: 0.8},
	}

	res := NewIntegrator().Integrate([]entity.Detection{det}, texts)[0]
	require.Equal(t, "A", *res.PrimaryText)
}

func TestIntegrate_NoMatchPenalizesConfidence(t *testing.T) {
	det := entity.Detection{BBox: box(0, 0, 100, 100), Confidence: 0.8}
	texts := []entity.TextResult{
		{BBox: box(0, 0, 100, 30), Text: "edge", Confidence: 0.99}, // overlap exactly 0.3
		{BBox: box(500, 500, 600, 600), Text: "far", Confidence: 0.99},
	}

	res := NewIntegrator().Integrate([]entity.Detection{det}, texts)[0]
	require.Empty(t, res.MatchedTexts)
	require.Nil(t, res.PrimaryText)
	require.InDelta(t, 0.4, res.FusedConfidence, 1e-9)
}

func TestIntegrate_OnePerDetectionAndPure(t *testing.T) {
	dets := []entity.Detection{
		{BBox: box(0, 0, 100, 100), Confidence: 1},
		{BBox: box(200, 200, 300, 300), Confidence: 1},
	}
	texts := []entity.TextResult{{BBox: box(0, 0, 100, 100), Text: "SAME", Confidence: 1}}

	in := NewIntegrator()
	first := in.Integrate(dets, texts)
	second := in.Integrate(dets, texts)
	require.Equal(t, first, second)
	require.Len(t, first, 2)

	require.InDelta(t, 1.0, first[0].FusedConfidence, 1e-9)
	require.LessOrEqual(t, first[0].FusedConfidence, 1.0)
	require.InDelta(t, 0.5, first[1].FusedConfidence, 1e-9)
}

func TestIntegrate_Empty(t *testing.T) {
	require.Empty(t, NewIntegrator().Integrate(nil, nil))
}
