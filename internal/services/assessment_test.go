package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	errs "github.com/wakeupmh/sensory-profile-backend/internal/pkg/errors"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

func TestValidateResponseSet(t *testing.T) {
	tests := []struct {
		name      string
		responses []ResponseInput
		wantErr   error
	}{
		{
			name: "valid set",
			responses: []ResponseInput{
				{ItemID: 1, Response: "nunca"},
				{ItemID: 2, Response: "quase sempre"},
				{ItemID: 86, Response: "não se aplica"},
			},
		},
		{
			name:      "item id below range",
			responses: []ResponseInput{{ItemID: 0, Response: "nunca"}},
			wantErr:   errs.ErrInvalidArgument,
		},
		{
			name:      "item id above range",
			responses: []ResponseInput{{ItemID: 87, Response: "nunca"}},
			wantErr:   errs.ErrInvalidArgument,
		},
		{
			name: "duplicate item",
			responses: []ResponseInput{
				{ItemID: 5, Response: "nunca"},
				{ItemID: 5, Response: "raramente"},
			},
			wantErr: errs.ErrConflict,
		},
		{
			name:      "unknown label",
			responses: []ResponseInput{{ItemID: 3, Response: "sempre"}},
			wantErr:   errs.ErrInvalidArgument,
		},
		{
			name:      "empty set is fine",
			responses: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponseSet(tt.responses)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validateResponseSet() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("validateResponseSet() = %v, want errors.Is %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildResponseRows(t *testing.T) {
	assessmentID := uuid.New()
	rows := buildResponseRows(assessmentID, []ResponseInput{
		{ItemID: 1, Response: "nunca"},
		{ItemID: 42, Response: "frequentemente"},
	})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.AssessmentID != assessmentID {
			t.Errorf("row %d assessment id = %s, want %s", i, row.AssessmentID, assessmentID)
		}
		if row.ID == uuid.Nil {
			t.Errorf("row %d has nil id", i)
		}
	}
	if rows[1].ItemID != 42 || rows[1].Response != "frequentemente" {
		t.Errorf("row 1 = (%d, %q), want (42, frequentemente)", rows[1].ItemID, rows[1].Response)
	}
}

func TestToItemResponsesSkipsNil(t *testing.T) {
	assessmentID := uuid.New()
	rows := buildResponseRows(assessmentID, []ResponseInput{{ItemID: 7, Response: "ocasionalmente"}})
	rows = append(rows, nil)
	items := toItemResponses(rows)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ItemID != 7 || items[0].Label != "ocasionalmente" {
		t.Errorf("item = %+v", items[0])
	}
	if _, err := scoring.MapResponseValue(items[0].Label); err != nil {
		t.Errorf("label should map cleanly: %v", err)
	}
}
