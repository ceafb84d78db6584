package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredictionBounds(t *testing.T) {
	p := Prediction{X: 14, Y: 23, Width: 8, Height: 6}
	x, y := p.Bounds()
	require.Equal(t, 10.0, x)
	require.Equal(t, 20.0, y)
}

func TestSummarizePredictions_Empty(t *testing.T) {
	res := SummarizePredictions(nil)
	require.Equal(t, NoIssuesClassification, res.Classification)
	require.Zero(t, res.Confidence)
	require.Zero(t, res.DetectedCount)
	require.NotNil(t, res.Conditions)
	require.Empty(t, res.Conditions)
}

func TestSummarizePredictions_OrderAndPrimary(t *testing.T) {
	res := SummarizePredictions([]Prediction{
		{Class: "blackspot", Confidence: 0.5},
		{Class: "whitegut", Confidence: 0.7},
		{Class: "whitegut", Confidence: 0.9},
	})

	require.Equal(t, "Detected: whitegut", res.Classification)
	require.InDelta(t, 0.7, res.Confidence, 1e-9)
	require.Equal(t, 3, res.DetectedCount)
	require.Equal(t, ConditionCounts{
		{Label: "blackspot", Count: 1},
		{Label: "whitegut", Count: 2},
	}, res.Conditions)
}

func TestSummarizePredictions_TieGoesToFirstSeen(t *testing.T) {
	res := SummarizePredictions([]Prediction{
		{Class: "softshell", Confidence: 0.6},
		{Class: "blackgill", Confidence: 0.6},
	})
	require.Equal(t, "Detected: softshell", res.Classification)
}

func TestConditionCountsJSON_PreservesOrder(t *testing.T) {
	counts := ConditionCounts{{Label: "whitegut", Count: 2}, {Label: "blackspot", Count: 1}}

	data, err := json.Marshal(counts)
	require.NoError(t, err)
	require.Equal(t, `{"whitegut":2,"blackspot":1}`, string(data))

	var back ConditionCounts
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, counts, back)
}

func TestFailedDetection(t *testing.T) {
	res := FailedDetection(errors.New("timeout"))
	require.Equal(t, FailedClassification, res.Classification)
	require.Equal(t, "timeout", res.Error)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t, `{"classification":"Error analyzing image","confidence":0,"detected_count":0,"disease_counts":{},"details":[],"error":"timeout"}`, string(data))
}
