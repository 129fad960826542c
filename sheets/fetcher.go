// Package sheets reads a worksheet from the Google Sheets API as a grid of strings.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/apex/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/krisalay/sheets-cache/types"
)

// Config identifies the worksheet and the credentials used to read it.
type Config struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
}

// Source names the sheet for logs, e.g. "1Wxu…/Form Responses 1".
func (c Config) Source() string {
	return c.SpreadsheetID + "/" + c.Worksheet
}

// Fetcher implements types.Fetcher on top of the Sheets v4 API.
type Fetcher struct {
	svc *gsheets.Service
	cfg Config

	// initErr is set when the client could not be built. Every Fetch returns it
	// without touching the network.
	initErr error
}

/*
New builds the API client once, from the service-account credentials file.

If the credentials cannot be loaded the returned Fetcher is permanently
disabled: the error is logged here, once, and every later Fetch fails with
types.ErrConfiguration. Restart the process with valid credentials to recover.

Extra client options are appended after the credentials.
*/
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) *Fetcher {
	f := &Fetcher{cfg: cfg}

	svc, err := newService(ctx, cfg, opts...)
	if err != nil {
		f.initErr = types.NewRefreshError("load credentials", types.ErrConfiguration, err)
		log.WithError(err).
			WithField("credentials", cfg.CredentialsFile).
			Error("sheets client disabled")
		return f
	}

	f.svc = svc
	log.WithField("source", cfg.Source()).Info("sheets client authenticated")
	return f
}

func newService(ctx context.Context, cfg Config, opts ...option.ClientOption) (*gsheets.Service, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, gsheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfg.CredentialsFile, err)
	}

	return gsheets.NewService(ctx, append([]option.ClientOption{option.WithCredentials(creds)}, opts...)...)
}

// NewWithService wraps an already built service. Used by tests and by callers
// that manage their own authentication.
func NewWithService(svc *gsheets.Service, cfg Config) *Fetcher {
	return &Fetcher{svc: svc, cfg: cfg}
}

// Err returns the startup error that disabled the fetcher, if any.
func (f *Fetcher) Err() error {
	return f.initErr
}

/*
Fetch opens the spreadsheet by ID, selects the worksheet by name and reads
every cell as its formatted string.

Errors are *types.RefreshError:
  - ErrConfiguration when the client never came up
  - ErrRemoteLookup when the spreadsheet or worksheet does not exist
  - ErrTransientRemote for everything else
*/
func (f *Fetcher) Fetch(ctx context.Context) ([][]string, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}

	title, err := f.worksheetTitle(ctx)
	if err != nil {
		return nil, err
	}

	vr, err := f.svc.Spreadsheets.Values.Get(f.cfg.SpreadsheetID, quoteSheet(title)).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, types.NewRefreshError("read values", classify(err), err)
	}

	return toGrid(vr.Values), nil
}

func (f *Fetcher) worksheetTitle(ctx context.Context) (string, error) {
	ss, err := f.svc.Spreadsheets.Get(f.cfg.SpreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", types.NewRefreshError("open spreadsheet", classify(err), err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == f.cfg.Worksheet {
			return sh.Properties.Title, nil
		}
	}

	return "", types.NewRefreshError("open worksheet", types.ErrRemoteLookup,
		fmt.Errorf("no worksheet named %q in spreadsheet %s", f.cfg.Worksheet, f.cfg.SpreadsheetID))
}

// classify maps an API error to a refresh error kind.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return types.ErrRemoteLookup
	}
	return types.ErrTransientRemote
}

// quoteSheet turns a worksheet title into an A1 range covering the whole sheet.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// toGrid converts API values to strings. With FORMATTED_VALUE every cell
// already arrives as a string; anything else is printed as-is.
func toGrid(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch s := v.(type) {
			case string:
				cells[j] = s
			case nil:
				cells[j] = ""
			default:
				cells[j] = fmt.Sprint(s)
			}
		}
		rows[i] = cells
	}
	return rows
}
