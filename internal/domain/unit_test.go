package domain

import "testing"

func TestCheckUnitConversionPairing(t *testing.T) {
	baseID := int64(1)

	if err := CheckUnitConversion(nil, nil); err != nil {
		t.Errorf("neither set: unexpected error %v", err)
	}
	if err := CheckUnitConversion(&baseID, dec("1000")); err != nil {
		t.Errorf("both set: unexpected error %v", err)
	}
	if err := CheckUnitConversion(&baseID, nil); err == nil || err.Kind != KindInvalid {
		t.Errorf("base without factor: got %v, want validation failure", err)
	}
	if err := CheckUnitConversion(nil, dec("1000")); err == nil || err.Kind != KindInvalid {
		t.Errorf("factor without base: got %v, want validation failure", err)
	}
}

func TestCheckUnitConversionRejectsNonPositiveFactor(t *testing.T) {
	baseID := int64(1)
	if err := CheckUnitConversion(&baseID, dec("0")); err == nil {
		t.Error("zero factor accepted")
	}
	if err := CheckUnitConversion(&baseID, dec("-2")); err == nil {
		t.Error("negative factor accepted")
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("bad priority accepted")
	}
	if p, err := ParsePriority("high"); err != nil || p != PriorityHigh {
		t.Errorf("ParsePriority(high) = %v, %v", p, err)
	}
	if _, err := ParseListStatus("done"); err == nil {
		t.Error("bad status accepted")
	}
	if _, err := ParseMealType("brunch"); err == nil {
		t.Error("bad meal type accepted")
	}
	if _, err := ParseUnitKind("temperature"); err == nil {
		t.Error("bad unit type accepted")
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Error("bad difficulty accepted")
	}
	if _, err := ParseFridgeLocation("garage"); err == nil {
		t.Error("bad location accepted")
	}
}
