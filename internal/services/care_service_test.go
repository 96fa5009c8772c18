package services

import "testing"

func TestParseCareRecommendationPlainJSON(t *testing.T) {
	rec, err := parseCareRecommendation(`{"diet":["kibble twice daily"],"exercise":["two walks"],"grooming":[],"health":["annual checkup"],"environment":[],"warnings":[]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rec.Diet) != 1 || rec.Diet[0] != "kibble twice daily" {
		t.Fatalf("diet = %v", rec.Diet)
	}
}

func TestParseCareRecommendationStripsCodeFence(t *testing.T) {
	fenced := "```json\n{\"diet\":[\"wet food\"],\"exercise\":[\"play\"],\"grooming\":[],\"health\":[],\"environment\":[],\"warnings\":[\"obesity risk\"]}\n```"
	rec, err := parseCareRecommendation(fenced)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if len(rec.Warnings) != 1 || rec.Warnings[0] != "obesity risk" {
		t.Fatalf("warnings = %v", rec.Warnings)
	}
}

func TestParseCareRecommendationRejectsProse(t *testing.T) {
	if _, err := parseCareRecommendation("Sure! Here are some tips for your dog..."); err == nil {
		t.Fatal("prose accepted as recommendation payload")
	}
}

func TestParseCareRecommendationRejectsEmptyPayload(t *testing.T) {
	if _, err := parseCareRecommendation(`{"diet":[],"exercise":[],"grooming":[],"health":[],"environment":[],"warnings":[]}`); err == nil {
		t.Fatal("empty payload accepted")
	}
}

func TestDegradedRecommendationCarriesMarker(t *testing.T) {
	rec := degradedRecommendation("  Sure! Here are some tips for your dog.  ")
	if !rec.ParseError {
		t.Fatal("degraded payload missing parse_error marker")
	}
	if rec.Raw != "Sure! Here are some tips for your dog." {
		t.Fatalf("raw = %q", rec.Raw)
	}
	if len(rec.Health) != 1 || rec.Health[0] != rec.Raw {
		t.Fatalf("health = %v", rec.Health)
	}
}

func TestParsedRecommendationHasNoMarker(t *testing.T) {
	rec, err := parseCareRecommendation(`{"diet":["kibble"],"exercise":["walks"],"grooming":[],"health":[],"environment":[],"warnings":[]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.ParseError || rec.Raw != "" {
		t.Fatalf("clean payload carries degrade marker: %+v", rec)
	}
}
