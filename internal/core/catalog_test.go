package core

import "testing"

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		tag        CategoryTag
		recurring  bool
		recurrence Recurrence
	}{
		{CategoryServicios, true, RecurrenceVariable},
		{CategoryStreaming, true, RecurrenceFixed},
		{CategoryVivienda, true, RecurrenceFixed},
		{CategoryOtros, false, ""},
		{CategoryDeudas, false, ""},
		{"desconocida", false, ""},
	}
	for _, tc := range cases {
		p := ClassifyCategory(tc.tag)
		if p.Recurring != tc.recurring || p.Recurrence != tc.recurrence {
			t.Fatalf("%s: got %+v", tc.tag, p)
		}
	}
}

func TestClassifyIncomeSource(t *testing.T) {
	cases := []struct {
		source   string
		variable bool
	}{
		{"salario", false},
		{"pension", false},
		{"honorarios", true},
		{"ventas", true},
		{"trabajo freelance", false}, // unmatched free text defaults to fixed
	}
	for _, tc := range cases {
		if got := ClassifyIncomeSource(tc.source); got != tc.variable {
			t.Fatalf("%s: got %v, want %v", tc.source, got, tc.variable)
		}
	}
}

func TestCategoryTagValidate(t *testing.T) {
	for _, tag := range Categories() {
		if err := tag.Validate(); err != nil {
			t.Fatalf("catalog tag %s must validate: %v", tag, err)
		}
	}
	if err := CategoryTag("loteria").Validate(); err == nil {
		t.Fatalf("unknown tag must be rejected")
	}
}

func TestCategoryLabelFallback(t *testing.T) {
	if got := CategoryVivienda.Label(); got != "Vivienda" {
		t.Fatalf("got %q", got)
	}
	// Stale tags still render instead of failing the display.
	if got := CategoryTag("legacy").Label(); got != "legacy" {
		t.Fatalf("got %q", got)
	}
}
