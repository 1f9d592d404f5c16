package export

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
)

// StandingsSource recomputes standings on demand.
type StandingsSource interface {
	Dashboard(ctx context.Context) (*scoring.Standings, error)
}

type GSheetExporter struct {
	source        StandingsSource
	sheetsService *sheets.Service
	sheetID       string
	sheetName     string
	now           func() time.Time
}

func NewGSheetExporter(ctx context.Context, config *app.Config, source StandingsSource) (*GSheetExporter, error) {
	if config.Export.SheetID == "" {
		return nil, fmt.Errorf("export.sheet_id is not set")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(config.Export.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GSheetExporter{
		source:        source,
		sheetsService: svc,
		sheetID:       config.Export.SheetID,
		sheetName:     config.Export.SheetName,
		now:           time.Now,
	}, nil
}

// Schedule registers a recurring export on the scheduler using a cron expression.
func (e *GSheetExporter) Schedule(scheduler *gocron.Scheduler, cron string) error {
	_, err := scheduler.Cron(cron).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := e.Export(ctx); err != nil {
			logger.Error.Printf("Export failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}
	return nil
}

// Export overwrites the configured sheet with the current standings.
func (e *GSheetExporter) Export(ctx context.Context) error {
	st, err := e.source.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute standings: %w", err)
	}

	values := SheetValues(st, e.now())

	_, err = e.sheetsService.Spreadsheets.Values.Clear(e.sheetID, e.sheetName, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	updateRange := fmt.Sprintf("%s!A1", e.sheetName)
	_, err = e.sheetsService.Spreadsheets.Values.Update(e.sheetID, updateRange,
		&sheets.ValueRange{Values: values}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet: %w", err)
	}

	logger.Info.Printf("Exported standings to sheet %s: %d rows", e.sheetID, len(values))
	return nil
}

// SheetValues stacks the standings tables into one range, separated by blank rows,
// under a timestamp line.
func SheetValues(st *scoring.Standings, at time.Time) [][]interface{} {
	values := [][]interface{}{
		{fmt.Sprintf("UPD: %s", at.Format("2 January 15:04")), "rules " + st.RulesVersion},
	}
	for _, sheet := range StandingsSheets(st) {
		values = append(values, []interface{}{}, []interface{}{sheet.Name})
		values = append(values, sheet.Rows...)
	}
	return values
}
