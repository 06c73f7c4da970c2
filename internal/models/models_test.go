package models

import (
	"errors"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tc := []struct {
		name  string
		value string
		want  int
	}{
		{name: "typical", value: "3:20", want: 200},
		{name: "short", value: "0:03", want: 3},
		{name: "zero", value: "0:00", want: 0},
		{name: "long", value: "12:05", want: 725},
		{name: "padded", value: " 2:54 ", want: 174},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.value)
			if err != nil {
				t.Fatalf("ParseDuration(%q) returned error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}

	t.Run("Malformed", func(t *testing.T) {
		for _, value := range []string{"", "320", "a:20", "3:2", "3:60", "-1:00", "3:xx", "3:20:00", "3:+5", "+3:05", "3:-5"} {
			_, err := ParseDuration(value)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("ParseDuration(%q) error = %v, want *FormatError", value, err)
				continue
			}
			if fe.Value != value {
				t.Errorf("FormatError.Value = %q, want %q", fe.Value, value)
			}
		}
	})
}

func TestFormatting(t *testing.T) {
	if got := FormatSeconds(65); got != "1:05" {
		t.Errorf("FormatSeconds(65) = %s, want 1:05", got)
	}
	if got := FormatSeconds(-4); got != "0:00" {
		t.Errorf("FormatSeconds(-4) = %s, want 0:00", got)
	}
	if got := FormatTotal(605); got != "10 min 5 sec" {
		t.Errorf("FormatTotal(605) = %s, want 10 min 5 sec", got)
	}
}

func TestPlaylist(t *testing.T) {
	p := Playlist{
		ID:   "p1",
		Name: "Mix",
		Tracks: []Track{
			{ID: "a", Duration: "1:00"},
			{ID: "b", Duration: "bad"},
			{ID: "c", Duration: "0:30"},
		},
		Color: "teal",
	}

	t.Run("Contains", func(t *testing.T) {
		if !p.Contains("c") {
			t.Error("expected playlist to contain c")
		}
		if p.Contains("z") {
			t.Error("expected playlist not to contain z")
		}
	})

	t.Run("TotalSeconds skips malformed", func(t *testing.T) {
		if got := p.TotalSeconds(); got != 90 {
			t.Errorf("TotalSeconds() = %d, want 90", got)
		}
	})

	t.Run("Clone does not alias", func(t *testing.T) {
		c := p.Clone()
		c.Tracks[0].Title = "changed"
		if p.Tracks[0].Title == "changed" {
			t.Error("clone shares track storage with original")
		}
		if empty := (Playlist{}).Clone(); empty.Tracks == nil {
			t.Error("clone of empty playlist should have non-nil tracks")
		}
	})

	t.Run("Accent", func(t *testing.T) {
		if !p.Color.Valid() {
			t.Error("teal should be a valid accent")
		}
		if Accent("beige").Valid() {
			t.Error("beige should not be a valid accent")
		}
	})
}
