package ocr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hogar/internal/core"
)

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/extract" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"EPM Energia","amount":"185430,50","category":"servicios","provider":"EPM","due_date":"2026-09-15","is_recurring":true,"service_type":"energia"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	s, err := c.Extract(context.Background(), []byte("fake-image"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if s.Title != "EPM Energia" || s.Category != "servicios" || s.ServiceType != "energia" {
		t.Fatalf("unexpected suggestion %+v", s)
	}
}

func TestExtractUnreadable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"is_unreadable":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	_, err := c.Extract(context.Background(), []byte("blurry"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("want ErrUnreadable, got %v", err)
	}
}

func TestExtractServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream model overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	_, err := c.Extract(context.Background(), []byte("img"))
	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("want ServiceError, got %v", err)
	}
	if se.Status != http.StatusBadGateway {
		t.Fatalf("want status 502, got %d", se.Status)
	}
}

func TestDraft(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	t.Run("full suggestion", func(t *testing.T) {
		e := Draft(Suggestion{
			Title:       " EPM Energia ",
			Amount:      "185430,50",
			Category:    "servicios",
			Provider:    "EPM",
			DueDate:     "2026-09-15",
			ServiceType: "energia",
		}, 3, now)
		if e.Title != "EPM Energia" {
			t.Errorf("title = %q", e.Title)
		}
		if e.Amount.Cents != 185430_50 {
			t.Errorf("amount = %d", e.Amount.Cents)
		}
		if e.Category != core.CategoryServicios || e.ServiceType != core.ServiceEnergia {
			t.Errorf("classification = %s/%s", e.Category, e.ServiceType)
		}
		if !e.Recurring || e.Recurrence != core.RecurrenceVariable {
			t.Errorf("recurrence = %v/%s", e.Recurring, e.Recurrence)
		}
		if e.AmountStatus != core.AmountEstimated {
			t.Errorf("amount status = %s", e.AmountStatus)
		}
		if got := e.DueDate.Format("2006-01-02"); got != "2026-09-15" {
			t.Errorf("due date = %s", got)
		}
		if e.ResponsibleID != 3 || e.Status != core.StatusPending {
			t.Errorf("defaults not applied: %+v", e)
		}
	})

	t.Run("garbage falls back to safe defaults", func(t *testing.T) {
		e := Draft(Suggestion{
			Amount:      "not-a-number",
			Category:    "crypto",
			DueDate:     "soon",
			ServiceType: "energia",
		}, 1, now)
		if e.Title != fallbackTitle {
			t.Errorf("title = %q", e.Title)
		}
		if !e.Amount.IsZero() {
			t.Errorf("amount = %d", e.Amount.Cents)
		}
		if e.Category != core.CategoryOtros {
			t.Errorf("category = %s", e.Category)
		}
		if e.ServiceType != "" {
			t.Errorf("service type should be dropped outside servicios, got %s", e.ServiceType)
		}
		if got := e.DueDate.Format("2006-01-02"); got != "2026-08-31" {
			t.Errorf("due date = %s", got)
		}
		if e.Recurring {
			t.Error("otros must not default to recurring")
		}
		if e.AmountStatus != core.AmountConfirmed {
			t.Errorf("amount status = %s", e.AmountStatus)
		}
	})

	t.Run("explicit recurring flag survives non-recurring category", func(t *testing.T) {
		e := Draft(Suggestion{Title: "Gimnasio", Category: "otros", Recurring: true}, 1, now)
		if !e.Recurring || e.Recurrence != core.RecurrenceFixed {
			t.Errorf("recurrence = %v/%s", e.Recurring, e.Recurrence)
		}
	})
}
