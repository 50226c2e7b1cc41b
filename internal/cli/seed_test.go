package cli

import (
	"strings"
	"testing"
)

const seedFixture = `
examiners:
  - email: ana@clinic.example
    full_name: Ana Souza
    registration_id: CREFITO-12345
    password: s3cretpass
    children:
      - full_name: Pedro Lima
        birth_date: "2018-06-15"
        gender: male
        caregivers:
          - full_name: Carla Lima
            relationship: mother
            phone: "+55 11 99999-0000"
            email: carla@family.example
        assessments:
          - assessment_date: "2024-03-10"
            default_response: ocasionalmente
            responses:
              - item_id: 1
                response: frequentemente
              - item_id: 86
                response: nunca
            score: true
`

func TestParseSeedFile(t *testing.T) {
	fixture, err := parseSeedFile([]byte(seedFixture))
	if err != nil {
		t.Fatalf("parseSeedFile: %v", err)
	}
	if len(fixture.Examiners) != 1 {
		t.Fatalf("examiners = %d, want 1", len(fixture.Examiners))
	}
	ex := fixture.Examiners[0]
	if ex.Email != "ana@clinic.example" {
		t.Errorf("email = %q", ex.Email)
	}
	if len(ex.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(ex.Children))
	}
	child := ex.Children[0]
	if len(child.Caregivers) != 1 || child.Caregivers[0].Relationship != "mother" {
		t.Errorf("caregivers = %+v", child.Caregivers)
	}
	if len(child.Assessments) != 1 || !child.Assessments[0].Score {
		t.Fatalf("assessments = %+v", child.Assessments)
	}
}

func TestSeedAssessmentResponseInputs(t *testing.T) {
	sa := SeedAssessment{
		DefaultResponse: "ocasionalmente",
		Responses: []SeedResponse{
			{ItemID: 1, Response: "frequentemente"},
			{ItemID: 86, Response: "nunca"},
		},
	}
	inputs, err := sa.responseInputs()
	if err != nil {
		t.Fatalf("responseInputs: %v", err)
	}
	if len(inputs) != 86 {
		t.Fatalf("len = %d, want 86", len(inputs))
	}
	if inputs[0].ItemID != 1 || inputs[0].Response != "frequentemente" {
		t.Errorf("item 1 = %+v", inputs[0])
	}
	if inputs[85].ItemID != 86 || inputs[85].Response != "nunca" {
		t.Errorf("item 86 = %+v", inputs[85])
	}
	if inputs[1].Response != "ocasionalmente" {
		t.Errorf("item 2 = %+v, want default fill", inputs[1])
	}
}

func TestSeedAssessmentResponseInputsSparse(t *testing.T) {
	sa := SeedAssessment{
		Responses: []SeedResponse{{ItemID: 5, Response: "nunca"}},
	}
	inputs, err := sa.responseInputs()
	if err != nil {
		t.Fatalf("responseInputs: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("len = %d, want 1 without default_response", len(inputs))
	}
}

func TestSeedAssessmentResponseInputsErrors(t *testing.T) {
	if _, err := (SeedAssessment{Responses: []SeedResponse{{ItemID: 0, Response: "nunca"}}}).responseInputs(); err == nil {
		t.Error("expected error for item id 0")
	}
	if _, err := (SeedAssessment{Responses: []SeedResponse{{ItemID: 87, Response: "nunca"}}}).responseInputs(); err == nil {
		t.Error("expected error for item id 87")
	}
	dup := SeedAssessment{Responses: []SeedResponse{
		{ItemID: 3, Response: "nunca"},
		{ItemID: 3, Response: "raramente"},
	}}
	if _, err := dup.responseInputs(); err == nil {
		t.Error("expected error for duplicate item id")
	}
}

func TestParseSeedFileRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no examiners",
			yaml:    "examiners: []",
			wantErr: "no examiners",
		},
		{
			name:    "missing email",
			yaml:    "examiners:\n  - full_name: Ana\n    password: x",
			wantErr: "email is required",
		},
		{
			name:    "missing password",
			yaml:    "examiners:\n  - email: a@b.example",
			wantErr: "password is required",
		},
		{
			name: "bad birth date",
			yaml: "examiners:\n  - email: a@b.example\n    password: x\n" +
				"    children:\n      - full_name: P\n        birth_date: 15/06/2018",
			wantErr: "invalid date",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseSeedFile([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}
