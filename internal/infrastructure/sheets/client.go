package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Store defines the operations the repositories need from the record store.
type Store interface {
	ReadTable(ctx context.Context, sheet string) ([][]string, error)
	WriteCell(ctx context.Context, sheet string, row, col int, value string) error
	AppendRow(ctx context.Context, sheet string, values []string) error
	EnsureTable(ctx context.Context, sheet string, header []string) error
}

// Client talks to the Google Sheets REST API. Rows and columns are 1-based,
// matching A1 notation.
type Client struct {
	spreadsheetID string
	creds         *Credentials
	baseURL       string
	client        *http.Client
}

func NewClient(serviceAccountJSON, spreadsheetID string) (*Client, error) {
	creds, err := ParseCredentials(serviceAccountJSON)
	if err != nil {
		return nil, err
	}
	return &Client{
		spreadsheetID: spreadsheetID,
		creds:         creds,
		baseURL:       defaultBaseURL,
		client:        &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ReadTable returns every row of the sheet as strings. Trailing empty cells
// are not padded; callers must tolerate short rows.
func (c *Client) ReadTable(ctx context.Context, sheet string) ([][]string, error) {
	var out struct {
		Values [][]any `json:"values"`
	}
	path := fmt.Sprintf("%s/%s/values/%s", c.baseURL, c.spreadsheetID, url.PathEscape(sheet))
	if err := c.do(ctx, http.MethodGet, path, nil, &out, pkgerrors.ErrStoreRead); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(out.Values))
	for _, raw := range out.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, cellString(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *Client) WriteCell(ctx context.Context, sheet string, row, col int, value string) error {
	ref := fmt.Sprintf("%s!%s%d", sheet, columnLetter(col), row)
	path := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", c.baseURL, c.spreadsheetID, url.PathEscape(ref))
	body := map[string]any{"values": [][]string{{value}}}
	return c.do(ctx, http.MethodPut, path, body, nil, pkgerrors.ErrStoreWrite)
}

func (c *Client) AppendRow(ctx context.Context, sheet string, values []string) error {
	ref := fmt.Sprintf("%s!A1", sheet)
	path := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW", c.baseURL, c.spreadsheetID, url.PathEscape(ref))
	body := map[string]any{"values": [][]string{values}}
	return c.do(ctx, http.MethodPost, path, body, nil, pkgerrors.ErrStoreWrite)
}

// EnsureTable creates the sheet with the given header row when it is absent.
func (c *Client) EnsureTable(ctx context.Context, sheet string, header []string) error {
	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	path := fmt.Sprintf("%s/%s?fields=sheets.properties.title", c.baseURL, c.spreadsheetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &meta, pkgerrors.ErrStoreRead); err != nil {
		return err
	}
	for _, s := range meta.Sheets {
		if s.Properties.Title == sheet {
			return nil
		}
	}

	slog.Info("creating missing sheet", "sheet", sheet)
	add := map[string]any{
		"requests": []any{
			map[string]any{
				"addSheet": map[string]any{
					"properties": map[string]any{
						"title": sheet,
						"gridProperties": map[string]any{
							"rowCount":    1000,
							"columnCount": len(header) + 1,
						},
					},
				},
			},
		},
	}
	path = fmt.Sprintf("%s/%s:batchUpdate", c.baseURL, c.spreadsheetID)
	if err := c.do(ctx, http.MethodPost, path, add, nil, pkgerrors.ErrStoreWrite); err != nil {
		return err
	}
	return c.AppendRow(ctx, sheet, header)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any, opErr error) error {
	token, err := c.creds.token(ctx, c.client)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", opErr, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", opErr, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", opErr, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: sheets API returned %d", pkgerrors.ErrAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%w: sheets API returned %d: %s", opErr, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: invalid response: %v", opErr, err)
		}
	}
	return nil
}

func cellString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

// columnLetter converts a 1-based column number to its A1 letters.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
