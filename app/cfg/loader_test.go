package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestGetPanicsWhenUnloaded(t *testing.T) {
	saved := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = saved
		if r := recover(); r == nil {
			t.Error("Expected Get to panic before Load")
		}
	}()

	Get()
}

func TestGetReturnsLoadedConfig(t *testing.T) {
	saved := globalCfg
	defer func() { globalCfg = saved }()

	globalCfg = &Cfg{Port: "8080", PolicyFile: "./policy.yml"}

	if got := Get(); got.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", got.Port)
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be valid: %v", err)
	}
	if err := applyTimezone("Europe/Madrid"); err != nil {
		t.Errorf("Expected Europe/Madrid to be valid: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for an invalid timezone")
	}
}
