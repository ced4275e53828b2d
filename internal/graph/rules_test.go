package graph

import "testing"

func TestIsExternalPackageCall(t *testing.T) {
	tests := []struct {
		callee string
		want   bool
	}{
		{"console.log", true},      // ignore-list prefix
		{"logger.info", true},      // ignore-list prefix
		{"JSON.stringify", true},   // ignore-list prefix
		{"Math.max", true},         // ignore-list prefix
		{"axios.get", true},        // ignore-list prefix
		{"fs.readFile", true},      // lowercase module pattern
		{"path.join", true},        // lowercase module pattern
		{"$http.get", true},        // dollar prefix
		{"_merge", true},           // underscore prefix
		{"myService.process", false}, // camelCase receiver is project code
		{"helper", false},
		{"OrderService.create", false},
	}

	for _, tt := range tests {
		t.Run(tt.callee, func(t *testing.T) {
			got := isExternalPackageCall(tt.callee, DefaultIgnorePrefixes)
			if got != tt.want {
				t.Errorf("isExternalPackageCall(%q) = %v, want %v", tt.callee, got, tt.want)
			}
		})
	}
}

func TestIsExternalPackageCallCustomPrefixes(t *testing.T) {
	if !isExternalPackageCall("Telemetry.record", []string{"Telemetry"}) {
		t.Error("custom prefix should match")
	}
	if isExternalPackageCall("Console.log", []string{"Telemetry"}) {
		t.Error("default prefixes must not apply when overridden")
	}
}
