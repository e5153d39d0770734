// Package sheets is the tabular store adapter. Each form type persists to a
// named sheet inside one spreadsheet; rows are appended whole, read whole,
// and deleted by the value of a key column. Column order inside a sheet is
// contractual and owned by the forms schemas.
package sheets

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"gala-forms/common"
)

type Client struct {
	service     *sheets.Service
	spreadsheet string
}

func NewClient(ctx context.Context, credentialsPath, spreadsheetID string) (*Client, error) {
	credBytes, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credBytes, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %v", err)
	}

	return &Client{service: service, spreadsheet: spreadsheetID}, nil
}

// Append writes one row to the end of the named sheet.
func (c *Client) Append(ctx context.Context, sheetName string, row []interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := c.service.Spreadsheets.Values.Append(
		c.spreadsheet,
		sheetName,
		valueRange,
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return common.NewStorageError("append", sheetName, err)
	}
	return nil
}

// ReadAll returns the header row and every data row of the named sheet as
// strings. An empty sheet yields nil headers and no rows.
func (c *Client) ReadAll(ctx context.Context, sheetName string) ([]string, [][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheet, sheetName).Context(ctx).Do()
	if err != nil {
		return nil, nil, common.NewStorageError("read", sheetName, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	headers := cellStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, cellStrings(raw))
	}
	return headers, rows, nil
}

// DeleteRows removes every data row whose keyColumn value is in keys and
// returns the number of rows removed. Deletions are issued bottom-up in a
// single batch so earlier deletes cannot shift later indexes.
func (c *Client) DeleteRows(ctx context.Context, sheetName, keyColumn string, keys []string) (int, error) {
	headers, rows, err := c.ReadAll(ctx, sheetName)
	if err != nil {
		return 0, err
	}

	keyIdx := -1
	for i, h := range headers {
		if h == keyColumn {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return 0, common.NewStorageError("delete", sheetName,
			fmt.Errorf("key column %q not found in header row", keyColumn))
	}

	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	// Sheet row index: header occupies row 0, data row i sits at i+1.
	var rowIndexes []int64
	for i, row := range rows {
		if keyIdx < len(row) && wanted[row[keyIdx]] {
			rowIndexes = append(rowIndexes, int64(i+1))
		}
	}
	if len(rowIndexes) == 0 {
		return 0, nil
	}

	sheetID, err := c.sheetID(ctx, sheetName)
	if err != nil {
		return 0, err
	}

	sort.Slice(rowIndexes, func(i, j int) bool { return rowIndexes[i] > rowIndexes[j] })
	requests := make([]*sheets.Request, 0, len(rowIndexes))
	for _, idx := range rowIndexes {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: idx,
					EndIndex:   idx + 1,
				},
			},
		})
	}

	_, err = c.service.Spreadsheets.BatchUpdate(c.spreadsheet, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return 0, common.NewStorageError("delete", sheetName, err)
	}
	return len(rowIndexes), nil
}

func (c *Client) sheetID(ctx context.Context, sheetName string) (int64, error) {
	meta, err := c.service.Spreadsheets.Get(c.spreadsheet).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, common.NewStorageError("lookup", sheetName, err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == sheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, common.NewStorageError("lookup", sheetName, fmt.Errorf("sheet not found"))
}

func cellStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		switch c := v.(type) {
		case string:
			out[i] = c
		case float64:
			out[i] = strconv.FormatFloat(c, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(c)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(c)
		}
	}
	return out
}
