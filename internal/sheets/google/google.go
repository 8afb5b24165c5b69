// Package google mirrors the household ledger into a Google Spreadsheet,
// one tab per entity plus a computed summary tab. The sheet is a read-only
// mirror: every export rewrites the tabs from the snapshot.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"hogar/internal/ledger"
	ports "hogar/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	sheetMembers  = "Miembros"
	sheetIncomes  = "Ingresos"
	sheetExpenses = "Gastos"
	sheetCards    = "Tarjetas"
	sheetLoans    = "Prestamos"
	sheetSummary  = "Resumen"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	now           func() time.Time
}

var _ ports.SnapshotExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client authenticated with a service account.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func NewFromEnv(ctx context.Context, spreadsheetID string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, now: time.Now}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// Export rewrites every tab from the snapshot. Tabs are cleared first so
// rows removed from the ledger disappear from the mirror too.
func (c *Client) Export(ctx context.Context, snap ledger.Snapshot, revision int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tabs := []struct {
		name string
		rows [][]any
	}{
		{sheetMembers, memberRows(snap.Members)},
		{sheetIncomes, incomeRows(snap.Members)},
		{sheetExpenses, expenseRows(snap)},
		{sheetCards, cardRows(snap.Members)},
		{sheetLoans, loanRows(snap.Members)},
		{sheetSummary, summaryRows(snap, revision, c.now())},
	}

	for _, tab := range tabs {
		if err := c.writeTab(ctx, tab.name, tab.rows); err != nil {
			return fmt.Errorf("export %s: %w", tab.name, err)
		}
	}
	return nil
}

func (c *Client) writeTab(ctx context.Context, name string, rows [][]any) error {
	clearRange := fmt.Sprintf("%s!A:Z", name)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", name), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	return nil
}
