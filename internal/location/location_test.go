package location

import "testing"

func TestCoordinates_Valid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinates
		want bool
	}{
		{"origin", Coordinates{0, 0}, true},
		{"jubail", Coordinates{27.0040, 49.6460}, true},
		{"poles", Coordinates{90, 180}, true},
		{"latitude too high", Coordinates{90.1, 0}, false},
		{"longitude too low", Coordinates{0, -180.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestCoordinates_Rendering(t *testing.T) {
	c := Coordinates{Latitude: 27.00404, Longitude: 49.64601}

	if got, want := c.String(), "27.0040, 49.6460"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	if got, want := c.RoundedKey(), "27.00,49.65"; got != want {
		t.Errorf("RoundedKey = %q, want %q", got, want)
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if !d.IsFallback {
		t.Error("Default location must be marked as fallback")
	}
	if !d.Coordinates.Valid() {
		t.Error("Default coordinates out of range")
	}
	if d.DisplayName != "Jubail, Saudi Arabia" {
		t.Errorf("DisplayName = %q", d.DisplayName)
	}
}
