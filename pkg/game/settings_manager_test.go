package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下创建 gdata manager
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return manager
}

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.DragSensitivity != 1.0 {
		t.Errorf("DragSensitivity: got %v, want 1.0", settings.DragSensitivity)
	}
	if settings.InvertYAxis {
		t.Error("InvertYAxis: got true, want false")
	}
	if !settings.ShowTrajectory {
		t.Error("ShowTrajectory: got false, want true")
	}
	if !settings.AutoAdvance {
		t.Error("AutoAdvance: got false, want true")
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)

	if sm.GetSettings() == nil {
		t.Fatal("GetSettings() returned nil in degraded mode")
	}
	sm.SetInvertYAxis(true)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().InvertYAxis {
		t.Error("Load() in degraded mode should restore defaults")
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := openTestGdata(t, "test_cannon_settings")

	sm1 := NewSettingsManager(gdataManager)
	sm1.SetDragSensitivity(2.5)
	sm1.SetInvertYAxis(true)
	sm1.SetShowTrajectory(false)
	sm1.SetAutoAdvance(false)
	sm1.SetFullscreen(true)

	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(gdataManager)
	settings := sm2.GetSettings()

	if settings.DragSensitivity != 2.5 {
		t.Errorf("Loaded DragSensitivity: got %v, want 2.5", settings.DragSensitivity)
	}
	if !settings.InvertYAxis {
		t.Error("Loaded InvertYAxis: got false, want true")
	}
	if settings.ShowTrajectory {
		t.Error("Loaded ShowTrajectory: got true, want false")
	}
	if settings.AutoAdvance {
		t.Error("Loaded AutoAdvance: got true, want false")
	}
	if !settings.Fullscreen {
		t.Error("Loaded Fullscreen: got false, want true")
	}
}

// TestSettingsMissingFieldsKeepDefaults 测试旧数据缺少字段时保持默认值
func TestSettingsMissingFieldsKeepDefaults(t *testing.T) {
	gdataManager := openTestGdata(t, "test_cannon_settings_partial")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("invertYAxis: true\n")); err != nil {
		t.Fatalf("SaveObjectProp() error: %v", err)
	}

	settings := NewSettingsManager(gdataManager).GetSettings()
	if !settings.InvertYAxis {
		t.Error("InvertYAxis: got false, want true")
	}
	if !settings.ShowTrajectory || !settings.AutoAdvance || settings.DragSensitivity != 1.0 {
		t.Errorf("missing fields should keep defaults, got %+v", settings)
	}
}

// TestSetDragSensitivityClamp 测试灵敏度范围校验
func TestSetDragSensitivityClamp(t *testing.T) {
	sm := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{1.5, 1.5},  // 正常值
		{0.1, 0.1},  // 下限
		{5.0, 5.0},  // 上限
		{0.05, 0.1}, // 低于下限
		{10, 5.0},   // 高于上限
		{0, 1.0},    // 未设置，回退默认值
		{-3, 1.0},   // 非法值，回退默认值
	}

	for _, tt := range tests {
		sm.SetDragSensitivity(tt.input)
		if got := sm.GetSettings().DragSensitivity; got != tt.expected {
			t.Errorf("SetDragSensitivity(%v): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}
