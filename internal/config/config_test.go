package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Method == nil {
		t.Fatal("Defaults().Method should not be nil")
	}
	if *d.Method != DefaultMethod {
		t.Errorf("Defaults().Method = %d, want %d", *d.Method, DefaultMethod)
	}

	if d.TimeFormat != "24h" {
		t.Errorf("Defaults().TimeFormat = %q, want %q", d.TimeFormat, "24h")
	}

	// Everything else should be zero.
	if d.City != "" {
		t.Errorf("Defaults().City = %q, want empty", d.City)
	}
	if d.Latitude != 0 || d.Longitude != 0 {
		t.Errorf("Defaults() coordinates = %f, %f, want 0, 0", d.Latitude, d.Longitude)
	}
	if d.WeatherAPIKey != "" {
		t.Errorf("Defaults().WeatherAPIKey = %q, want empty", d.WeatherAPIKey)
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "salah-widget")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDir_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "salah-widget")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestPath_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "salah-widget", "config.json")
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

// --- LoadFrom ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if cfg.City != "" || cfg.Country != "" {
		t.Error("LoadFrom non-existent should return empty config")
	}
	if cfg.Method != nil {
		t.Error("LoadFrom non-existent should have nil Method")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	path := tempConfigPath(t)

	method := 4
	data := Config{
		City:       "Jubail",
		Country:    "Saudi Arabia",
		Method:     &method,
		TimeFormat: "12h",
	}
	raw, _ := json.MarshalIndent(data, "", "  ")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.City != "Jubail" {
		t.Errorf("City = %q, want %q", cfg.City, "Jubail")
	}
	if cfg.Method == nil || *cfg.Method != 4 {
		t.Errorf("Method = %v, want 4", cfg.Method)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, "12h")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom with invalid JSON should error")
	}
}

func TestLoadFrom_MethodZero(t *testing.T) {
	// Method 0 (Jafari) is valid. Ensure it round-trips correctly and
	// is distinguishable from "not set" (nil).
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte(`{"method": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Method == nil {
		t.Fatal("Method should not be nil for method=0")
	}
	if *cfg.Method != 0 {
		t.Errorf("Method = %d, want 0", *cfg.Method)
	}
}

// --- Environment overrides ---

func TestApplyEnv_WeatherKeyOverride(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "env-key")

	cfg := &Config{WeatherAPIKey: "file-key"}
	cfg.applyEnv()

	if cfg.WeatherAPIKey != "env-key" {
		t.Errorf("WeatherAPIKey = %q, want env override", cfg.WeatherAPIKey)
	}
}

func TestApplyEnv_NoOverrideKeepsFileValue(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg := &Config{WeatherAPIKey: "file-key"}
	cfg.applyEnv()

	if cfg.WeatherAPIKey != "file-key" {
		t.Errorf("WeatherAPIKey = %q, want file value", cfg.WeatherAPIKey)
	}
}

// --- SaveTo ---

func TestSaveTo_CreatesDirectoryAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	method := 2
	cfg := &Config{
		City:   "London",
		Method: &method,
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved file has invalid JSON: %v", err)
	}
	if loaded.City != "London" {
		t.Errorf("loaded City = %q, want %q", loaded.City, "London")
	}
	if loaded.Method == nil || *loaded.Method != 2 {
		t.Errorf("loaded Method = %v, want 2", loaded.Method)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	method := 0 // Jafari -- tests zero value round-trip.
	original := &Config{
		City:          "Jubail",
		Country:       "Saudi Arabia",
		Latitude:      27.0040,
		Longitude:     49.6460,
		Method:        &method,
		TimeFormat:    "12h",
		CacheDir:      "/tmp/cache",
		WeatherAPIKey: "abc123",
	}

	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if loaded.City != original.City || loaded.Country != original.Country {
		t.Errorf("place = %q, %q", loaded.City, loaded.Country)
	}
	if loaded.Latitude != original.Latitude || loaded.Longitude != original.Longitude {
		t.Errorf("coordinates = %f, %f", loaded.Latitude, loaded.Longitude)
	}
	if loaded.Method == nil || *loaded.Method != *original.Method {
		t.Errorf("Method = %v, want %d", loaded.Method, *original.Method)
	}
	if loaded.TimeFormat != original.TimeFormat {
		t.Errorf("TimeFormat = %q, want %q", loaded.TimeFormat, original.TimeFormat)
	}
	if loaded.CacheDir != original.CacheDir {
		t.Errorf("CacheDir = %q, want %q", loaded.CacheDir, original.CacheDir)
	}
	if loaded.WeatherAPIKey != original.WeatherAPIKey {
		t.Errorf("WeatherAPIKey = %q, want %q", loaded.WeatherAPIKey, original.WeatherAPIKey)
	}
}

// --- ResetAt ---

func TestResetAt_DeletesFile(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{City: "London"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ResetAt should have deleted the file")
	}
}

func TestResetAt_NonExistentFile(t *testing.T) {
	err := ResetAt("/no/such/file.json")
	if err != nil {
		t.Errorf("ResetAt on non-existent file should not error, got: %v", err)
	}
}

// --- Set ---

func TestSet_Latitude(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{"valid positive", "27.0040", 27.0040, false},
		{"valid negative", "-33.8688", -33.8688, false},
		{"boundary 90", "90", 90, false},
		{"boundary -90", "-90", -90, false},
		{"too high", "91", 0, true},
		{"too low", "-91", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("latitude", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(latitude, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Latitude != tt.want {
				t.Errorf("Latitude = %f, want %f", cfg.Latitude, tt.want)
			}
		})
	}
}

func TestSet_Longitude(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{"valid positive", "49.6460", 49.6460, false},
		{"valid negative", "-73.5674", -73.5674, false},
		{"boundary 180", "180", 180, false},
		{"boundary -180", "-180", -180, false},
		{"too high", "181", 0, true},
		{"too low", "-181", 0, true},
		{"not a number", "xyz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("longitude", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(longitude, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Longitude != tt.want {
				t.Errorf("Longitude = %f, want %f", cfg.Longitude, tt.want)
			}
		})
	}
}

func TestSet_Method(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"valid zero (Jafari)", "0", 0, false},
		{"valid 4", "4", 4, false},
		{"valid 23", "23", 23, false},
		{"too high", "24", 0, true},
		{"negative", "-1", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("method", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(method, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr {
				if cfg.Method == nil {
					t.Fatal("Method should not be nil")
				}
				if *cfg.Method != tt.want {
					t.Errorf("Method = %d, want %d", *cfg.Method, tt.want)
				}
			}
		})
	}
}

func TestSet_TimeFormat(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"12h", false},
		{"24h", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("time_format", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(time_format, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.TimeFormat != tt.value {
				t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, tt.value)
			}
		})
	}
}

func TestSet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	err := cfg.Set("unknown_key", "value")
	if err == nil {
		t.Fatal("Set with unknown key should error")
	}
}

// --- Get ---

func TestGet_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	for _, key := range ValidKeys {
		got, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
		if got != "" {
			t.Errorf("Get(%q) = %q, want empty for empty config", key, got)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Get("unknown_key")
	if err == nil {
		t.Fatal("Get with unknown key should error")
	}
}

// --- Set then Get round-trip ---

func TestSetThenGet_RoundTrip(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"city", "Jubail"},
		{"country", "Saudi Arabia"},
		{"latitude", "27.004"},
		{"longitude", "49.646"},
		{"method", "4"},
		{"time_format", "12h"},
		{"cache_dir", "/tmp/cache"},
		{"weather_api_key", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Set/Get round-trip: got %q, want %q", got, tt.value)
			}
		})
	}
}

// --- Derived values ---

func TestTimeLayout(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"24h", "15:04"},
		{"12h", "3:04 PM"},
		{"", "15:04"},
	}

	for _, tt := range tests {
		cfg := &Config{TimeFormat: tt.format}
		if got := cfg.TimeLayout(); got != tt.want {
			t.Errorf("TimeLayout() with %q = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestHasFixedLocation(t *testing.T) {
	if (&Config{}).HasFixedLocation() {
		t.Error("empty config reports a fixed location")
	}
	if !(&Config{Latitude: 27.0040, Longitude: 49.6460}).HasFixedLocation() {
		t.Error("config with coordinates reports no fixed location")
	}
}

func TestMethodOrDefault(t *testing.T) {
	method := 0
	if got := (&Config{Method: &method}).MethodOrDefault(4); got != 0 {
		t.Errorf("MethodOrDefault = %d, want 0 (Jafari)", got)
	}
	if got := (&Config{}).MethodOrDefault(4); got != 4 {
		t.Errorf("MethodOrDefault = %d, want 4 (default)", got)
	}
}

// --- OmitEmpty JSON behavior ---

func TestConfig_OmitEmpty_JSON(t *testing.T) {
	cfg := &Config{}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "{}" {
		t.Errorf("empty config JSON = %s, want {}", got)
	}
}
