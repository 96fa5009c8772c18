package services

import (
	"math"
	"testing"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Paris to London, roughly 344km.
	d := HaversineM(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(d-344000) > 5000 {
		t.Fatalf("Paris-London = %.0fm, want ~344km", d)
	}
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	if d := HaversineM(12.5, -7.25, 12.5, -7.25); d != 0 {
		t.Fatalf("same point distance = %v, want 0", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	ab := HaversineM(10, 20, 30, 40)
	ba := HaversineM(30, 40, 10, 20)
	if math.Abs(ab-ba) > 1e-6 {
		t.Fatalf("asymmetric distances: %v vs %v", ab, ba)
	}
}
