package models

import (
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	birthdate := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want int
	}{
		{"day before birthday", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), 34},
		{"on birthday", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 35},
		{"month before", time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), 34},
		{"month after", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 35},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeAt(birthdate, tc.at); got != tc.want {
				t.Errorf("AgeAt = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAgeAt_ClampsNegative(t *testing.T) {
	birthdate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	if got := AgeAt(birthdate, at); got != 0 {
		t.Errorf("age before birth must clamp to 0, got %d", got)
	}
}

func TestResident_FullName(t *testing.T) {
	suffix := "Jr."
	res := Resident{FirstName: "Juan", MiddleName: "Protacio", LastName: "Dela Cruz", Suffix: &suffix}
	if got := res.FullName(); got != "Juan Protacio Dela Cruz Jr." {
		t.Errorf("unexpected full name: %q", got)
	}

	res = Resident{FirstName: "Maria", LastName: "Reyes"}
	if got := res.FullName(); got != "Maria Reyes" {
		t.Errorf("empty parts must be skipped, got %q", got)
	}
}

func TestNormalizeSuffix(t *testing.T) {
	if NormalizeSuffix(nil) != nil {
		t.Error("nil stays nil")
	}
	blank := ""
	if NormalizeSuffix(&blank) != nil {
		t.Error("blank maps to nil")
	}
	jr := "Jr."
	if got := NormalizeSuffix(&jr); got == nil || *got != "Jr." {
		t.Error("non-blank passes through")
	}
}
