package treatment

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestV2Trim(t *testing.T) {
	// grey content spans 56 of 64 pixels each way, so rows and columns of the
	// border region fall under the 85% coverage cut after the canvas resize
	img := uniformImage(64, 64, 0)
	for y := 4; y < 60; y++ {
		for x := 4; x < 60; x++ {
			img.SetXY(x, y, 0.5, 0.5, 0.5)
		}
	}

	out, err := NewV2().TreatImage(img, "sapin")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(out), test.ShouldEqual, 1)

	trimmed := out[0]
	test.That(t, trimmed.Width(), test.ShouldBeLessThan, 2048)
	test.That(t, trimmed.Width(), test.ShouldBeGreaterThan, 1600)
	test.That(t, trimmed.Height(), test.ShouldBeLessThan, 2048)
	test.That(t, trimmed.Height(), test.ShouldBeGreaterThan, 1600)
}

func TestMarkersForType(t *testing.T) {
	grey := mat.NewDense(1, 3, []float64{0.3, 0.55, 0.8})

	markers, err := NewV2().MarkersForType(grey, "sapin")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers.Get(0, 0), test.ShouldEqual, 1)
	test.That(t, markers.Get(1, 0), test.ShouldEqual, 0)
	test.That(t, markers.Get(2, 0), test.ShouldEqual, 2)

	_, err = NewV2().MarkersForType(grey, "cedre")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `no thresholds for image type "cedre"`)
}

func TestThresholdConfigJSON(t *testing.T) {
	raw := []byte(`{"sapin": {"low": 0.1, "high": 0.2, "low_2": 0.3, "high_2": 0.4}}`)
	var cfg ThresholdConfig
	test.That(t, json.Unmarshal(raw, &cfg), test.ShouldBeNil)
	test.That(t, cfg["sapin"].Low, test.ShouldEqual, 0.1)
	test.That(t, cfg["sapin"].High2, test.ShouldEqual, 0.4)

	// the default table covers the four known species
	defaults := DefaultThresholds()
	test.That(t, len(defaults), test.ShouldEqual, 4)
	test.That(t, defaults["epinette_non_gelee"].High, test.ShouldEqual, 0.58)
}
