package services

import (
	"testing"

	types "github.com/wakeupmh/sensory-profile-backend/internal/domain"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

func scoredAssessment(t *testing.T) *types.Assessment {
	t.Helper()
	responses := make([]scoring.ItemResponse, 0, scoring.MaxItemID)
	for id := scoring.MinItemID; id <= scoring.MaxItemID; id++ {
		responses = append(responses, scoring.ItemResponse{ItemID: id, Label: "ocasionalmente"})
	}
	a := &types.Assessment{}
	a.ApplyResults(scoring.CalculateScores(responses))
	return a
}

func TestScoresEqual(t *testing.T) {
	a := scoredAssessment(t)
	b := scoredAssessment(t)
	if !scoresEqual(a, b) {
		t.Fatal("identical score columns should compare equal")
	}

	b.TactileScore++
	if scoresEqual(a, b) {
		t.Error("section drift should compare unequal")
	}
	b.TactileScore--

	b.SeekingScore++
	if scoresEqual(a, b) {
		t.Error("quadrant drift should compare unequal")
	}
	b.SeekingScore--

	b.TotalScore++
	if scoresEqual(a, b) {
		t.Error("total drift should compare unequal")
	}
}

func TestValidateOneFlagsStoredDrift(t *testing.T) {
	svc := &sweepService{}

	rows := make([]*types.AssessmentResponse, 0, scoring.MaxItemID)
	for id := scoring.MinItemID; id <= scoring.MaxItemID; id++ {
		rows = append(rows, &types.AssessmentResponse{ItemID: id, Response: "frequentemente"})
	}

	a := &types.Assessment{Status: types.AssessmentStatusCompleted}
	a.ApplyResults(scoring.CalculateScores(toItemResponses(rows)))

	res := svc.validateOne(a, rows, nil)
	if !res.Valid {
		t.Fatalf("clean recomputation should validate, got errors %v", res.Errors)
	}

	a.AuditoryScore += 3
	a.TotalScore += 3
	res = svc.validateOne(a, rows, nil)
	if res.Valid {
		t.Fatal("tampered section column should fail validation")
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected at least one mismatch error")
	}
}
