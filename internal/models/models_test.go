package models

import (
	"testing"
	"time"
)

func TestComputeMeanRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings map[string]int
		creator string
		want    float64
		ok      bool
	}{
		{"empty", map[string]int{}, "c", 0, false},
		{"single", map[string]int{"x": 4}, "c", 4.0, true},
		{"pair", map[string]int{"x": 3, "y": 5}, "c", 4.0, true},
		{"self excluded", map[string]int{"x": 3, "y": 5, "c": 1}, "c", 4.0, true},
		{"only self", map[string]int{"c": 5}, "c", 0, false},
		{"rounded", map[string]int{"x": 5, "y": 5, "z": 4}, "c", 4.7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ComputeMeanRating(tc.ratings, tc.creator)
			if got != tc.want || ok != tc.ok {
				t.Errorf("got (%v, %v), want (%v, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestOfferStateMachine(t *testing.T) {
	var missing *SavedOffer
	if missing.State() != OfferStateNone {
		t.Errorf("nil offer state: %v", missing.State())
	}

	now := time.Now()
	saved := &SavedOffer{Saved: true, SavedAt: now}
	if saved.State() != OfferStateSaved || !saved.CanClaim() {
		t.Errorf("saved offer: state=%v canClaim=%v", saved.State(), saved.CanClaim())
	}

	claimed := &SavedOffer{Saved: true, Claimed: true, SavedAt: now, ClaimedAt: &now}
	if claimed.State() != OfferStateClaimed || claimed.CanClaim() {
		t.Errorf("claimed offer: state=%v canClaim=%v", claimed.State(), claimed.CanClaim())
	}
}
