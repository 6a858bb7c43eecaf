// Package sheetsvc writes reports to Google Sheets.
package sheetsvc

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/report"
)

const valueInputOption = "RAW" // keep cpf and dates as typed

// GoogleSheetsWriter writes to one spreadsheet with service account credentials.
// Calls are not retried.
type GoogleSheetsWriter struct {
	sheetsService *sheets.Service
	spreadsheetID string
	logger        core.Logger
}

var _ report.SheetWriter = (*GoogleSheetsWriter)(nil)

func NewGoogleSheetsWriter(ctx context.Context, conf *core.Config, logger core.Logger) (*GoogleSheetsWriter, error) {
	if conf.Sheets.SpreadsheetID == "" {
		return nil, errors.New("no spreadsheet id configured")
	}
	credentialsJSON, err := os.ReadFile(conf.Sheets.CredentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading credentials file")
	}
	jwtConf, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, errors.Wrap(err, "configuring JWT from credentials")
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "creating Google Sheets client")
	}
	return &GoogleSheetsWriter{
		sheetsService: svc,
		spreadsheetID: conf.Sheets.SpreadsheetID,
		logger:        logger,
	}, nil
}

func (w *GoogleSheetsWriter) EnsureSheetExists(ctx context.Context, sheetName string) error {
	spreadsheet, err := w.sheetsService.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "getting spreadsheet %s", w.spreadsheetID)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			return nil
		}
	}

	w.logger.Info(fmt.Sprintf("sheets: creating sheet '%s' in spreadsheet '%s'", sheetName, w.spreadsheetID))
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetName}},
		}},
	}
	if _, err = w.sheetsService.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "creating sheet '%s'", sheetName)
	}
	return nil
}

func (w *GoogleSheetsWriter) Clear(ctx context.Context, sheetName string) error {
	clearRange := fmt.Sprintf("'%s'!A1:ZZ", sheetName)
	_, err := w.sheetsService.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return errors.Wrapf(err, "clearing range '%s'", clearRange)
}

func (w *GoogleSheetsWriter) SetHeaders(ctx context.Context, sheetName string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	writeRange := fmt.Sprintf("'%s'!A1", sheetName)
	_, err := w.sheetsService.Spreadsheets.Values.
		Update(w.spreadsheetID, writeRange, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return errors.Wrapf(err, "setting headers of sheet '%s'", sheetName)
}

func (w *GoogleSheetsWriter) AppendRows(ctx context.Context, sheetName string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := w.sheetsService.Spreadsheets.Values.
		Append(w.spreadsheetID, fmt.Sprintf("'%s'", sheetName), &sheets.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrapf(err, "appending %d rows to sheet '%s'", len(rows), sheetName)
	}
	w.logger.Info(fmt.Sprintf("sheets: %d rows appended to sheet '%s'", len(rows), sheetName))
	return nil
}
