package core

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	ref := time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC)
	expenses := []Expense{
		{ID: 1, DueDate: NewDate(2023, 11, 1)},
		{ID: 2, DueDate: NewDate(2023, 11, 30)},
		{ID: 3, DueDate: NewDate(2023, 10, 31)},
		{ID: 4, DueDate: NewDate(2023, 12, 1)},
		{ID: 5, DueDate: NewDate(2022, 11, 15)},
		{ID: 6}, // no due date: excluded, not errored
	}

	got := MonthWindow(ref, expenses)
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(got))
	}
	for _, e := range got {
		if e.ID != 1 && e.ID != 2 {
			t.Fatalf("unexpected expense %d in window", e.ID)
		}
	}
}

func TestMonthWindowIdempotent(t *testing.T) {
	ref := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	expenses := []Expense{
		{ID: 1, DueDate: NewDate(2024, 2, 1)},
		{ID: 2, DueDate: NewDate(2024, 3, 1)},
	}

	first := MonthWindow(ref, expenses)
	second := MonthWindow(ref, expenses)
	if len(first) != len(second) {
		t.Fatalf("selection not stable: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("selection order changed at %d", i)
		}
	}
}

func TestMonthWindowDoesNotMutateInput(t *testing.T) {
	expenses := []Expense{
		{ID: 1, Title: "a", DueDate: NewDate(2024, 1, 5)},
		{ID: 2, Title: "b", DueDate: NewDate(2024, 1, 6)},
	}
	out := MonthWindow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), expenses)
	out[0].Title = "mutated"
	if expenses[0].Title != "a" {
		t.Fatalf("input slice was mutated")
	}
}

func TestMonthWindowEmpty(t *testing.T) {
	if got := MonthWindow(time.Now(), nil); len(got) != 0 {
		t.Fatalf("expected empty window, got %d", len(got))
	}
}
