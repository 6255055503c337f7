package segmentation

import "testing"

func TestDefaultOptions(t *testing.T) {
	options := DefaultOptions()

	if len(options.CorrectionFactors) != 1 || options.CorrectionFactors[0] != 1.0 {
		t.Errorf("Expected a single unscaled pass, got %v", options.CorrectionFactors)
	}
	if options.MinThreshold != 0 {
		t.Errorf("Expected zero lower bound, got %d", options.MinThreshold)
	}
	if options.MaxThreshold != 1.0 {
		t.Errorf("Expected full upper bound, got %f", options.MaxThreshold)
	}
	if options.Diagnostics {
		t.Error("Expected diagnostics disabled by default")
	}
}

func TestOptions_BuildersDoNotMutateReceiver(t *testing.T) {
	base := DefaultOptions()
	derived := base.WithFactors(2.0, 0.5).WithThresholdWindow(10, 0.8).WithDiagnostics("/tmp/out.png")

	if len(base.CorrectionFactors) != 1 || base.Diagnostics || base.MinThreshold != 0 {
		t.Error("Expected builders to leave the base options untouched")
	}
	if len(derived.CorrectionFactors) != 2 {
		t.Errorf("Expected 2 factors, got %v", derived.CorrectionFactors)
	}
	if derived.MinThreshold != 10 || derived.MaxThreshold != 0.8 {
		t.Errorf("Unexpected threshold window: %d..%f", derived.MinThreshold, derived.MaxThreshold)
	}
	if !derived.Diagnostics || derived.DiagnosticsPath != "/tmp/out.png" {
		t.Error("Expected diagnostics enabled with the given path")
	}
}
