package treatment

import (
	"sort"
	"testing"

	"go.viam.com/test"
)

func TestRegistryRoundTrip(t *testing.T) {
	for name, check := range map[string]func(Method) bool{
		"black_filter":        func(m Method) bool { _, ok := m.(*BlackFilter); return ok },
		"black_mask":          func(m Method) bool { _, ok := m.(*BlackMask); return ok },
		"color_filter":        func(m Method) bool { _, ok := m.(*ColorFilter); return ok },
		"component_detection": func(m Method) bool { _, ok := m.(*ComponentDetection); return ok },
		"edge_detection":      func(m Method) bool { _, ok := m.(*EdgeDetection); return ok },
		"id":                  func(m Method) bool { _, ok := m.(*Identity); return ok },
		"threshold":           func(m Method) bool { _, ok := m.(*Thresholding); return ok },
	} {
		m, err := New(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, check(m), test.ShouldBeTrue)
	}
}

func TestRegistryUnknownName(t *testing.T) {
	_, err := New("v7")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `cannot find treatment method "v7"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "edge_detection")
}

func TestRegistryNames(t *testing.T) {
	names := Names()
	test.That(t, sort.StringsAreSorted(names), test.ShouldBeTrue)
	for _, want := range []string{
		"black_filter", "black_mask", "color_filter",
		"component_detection", "edge_detection", "id", "threshold",
	} {
		test.That(t, names, test.ShouldContain, want)
	}
}

func TestRegisterPanics(t *testing.T) {
	Register("registry_test_extra", func() Method { return NewIdentity() })
	test.That(t, func() {
		Register("registry_test_extra", func() Method { return NewIdentity() })
	}, test.ShouldPanic)
	test.That(t, func() { Register("registry_test_nil", nil) }, test.ShouldPanic)

	m, err := New("registry_test_extra")
	test.That(t, err, test.ShouldBeNil)
	_, ok := m.(*Identity)
	test.That(t, ok, test.ShouldBeTrue)
}
