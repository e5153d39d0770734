package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gala-forms/admin"
	"gala-forms/common"
	"gala-forms/donations"
	"gala-forms/forms"
)

type memStore struct {
	rows map[string][][]interface{}
	err  error
}

func (m *memStore) Append(_ context.Context, table string, row []interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.rows[table] = append(m.rows[table], row)
	return nil
}

type memOutbox struct {
	notifications []common.Notification
}

func (m *memOutbox) Enqueue(_ context.Context, n common.Notification) error {
	m.notifications = append(m.notifications, n)
	return nil
}

type memSource struct {
	headers []string
	rows    [][]string
	err     error
}

func (m *memSource) ReadAll(context.Context, string) ([]string, [][]string, error) {
	return m.headers, m.rows, m.err
}

func newTestRouter(t *testing.T, store *memStore, source *memSource) (*gin.Engine, *admin.Gate) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &Config{
		Env:           "production",
		AuctionSheet:  "Auction Donations",
		SponsorSheet:  "Table Sponsorships",
		AdminPassword: "open-sesame",
		JWTSecret:     "signing-key",
	}
	tables := forms.Tables{
		AuctionDonations:  cfg.AuctionSheet,
		TableSponsorships: cfg.SponsorSheet,
	}
	gate := admin.NewGate(cfg.AdminPassword, cfg.JWTSecret)
	srv := &server{
		cfg:      cfg,
		pipeline: forms.NewPipeline(store, &memOutbox{}, nil, tables, zerolog.Nop()),
		engine:   donations.NewEngine(source),
		gate:     gate,
		log:      zerolog.Nop(),
	}
	r := gin.New()
	srv.routes(r)
	return r, gate
}

func postJSON(r *gin.Engine, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitEndpointAccepted(t *testing.T) {
	store := &memStore{rows: map[string][][]interface{}{}}
	r, _ := newTestRouter(t, store, &memSource{})

	w := postJSON(r, "/api/submit/auction-donation", map[string]interface{}{
		"formType":        common.FormAuctionDonation,
		"name":            "Jordan Blake",
		"email":           "jordan@example.com",
		"itemDescription": "Signed football",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "accepted", resp["status"])
	assert.Regexp(t, `^auction-\d+-[a-z0-9]{6}$`, resp["submissionId"])
	assert.Len(t, store.rows["Auction Donations"], 1)
}

func TestSubmitEndpointValidationFailed(t *testing.T) {
	store := &memStore{rows: map[string][][]interface{}{}}
	r, _ := newTestRouter(t, store, &memSource{})

	w := postJSON(r, "/api/submit/auction-donation", map[string]interface{}{
		"formType": common.FormAuctionDonation,
		"name":     "Jordan Blake",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation-failed")
	assert.Empty(t, store.rows)
}

func TestSubmitEndpointWrongFormType(t *testing.T) {
	store := &memStore{rows: map[string][][]interface{}{}}
	r, _ := newTestRouter(t, store, &memSource{})

	w := postJSON(r, "/api/submit/auction-donation", map[string]interface{}{
		"formType": common.FormTableSponsorship,
		"name":     "Casey Reed",
		"email":    "casey@example.com",
		"phone":    "555",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wrong form type")
}

func TestStorageErrorIsGenericInProduction(t *testing.T) {
	store := &memStore{
		rows: map[string][][]interface{}{},
		err:  common.NewStorageError("append", "Auction Donations", errors.New("quota exceeded")),
	}
	r, _ := newTestRouter(t, store, &memSource{})

	w := postJSON(r, "/api/submit/auction-donation", map[string]interface{}{
		"formType":        common.FormAuctionDonation,
		"name":            "Jordan Blake",
		"email":           "jordan@example.com",
		"itemDescription": "Signed football",
	}, nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal-error")
	assert.NotContains(t, w.Body.String(), "quota exceeded")
}

func TestAdminLoginAndListing(t *testing.T) {
	source := &memSource{
		headers: []string{"Submission ID", "Name", "Auction Type"},
		rows: [][]string{
			{"auction-1-aaaaaa", "Ada", "Live"},
			{"auction-2-bbbbbb", "Grace", "Silent"},
			{"auction-3-cccccc", "Adam"},
		},
	}
	r, _ := newTestRouter(t, &memStore{rows: map[string][][]interface{}{}}, source)

	// listing is guarded
	req := httptest.NewRequest(http.MethodGet, "/api/admin/donations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/admin/login", map[string]string{"password": "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/admin/login", map[string]string{"password": "open-sesame"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/donations?auctionFilter=live", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records []map[string]string `json:"records"`
		Summary donations.Summary   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "Ada", resp.Records[0]["Name"])
	// summary is over the unfiltered dataset
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Live)
	assert.Equal(t, 1, resp.Summary.Silent)
	assert.Equal(t, 1, resp.Summary.Unspecified)
}

func TestQREndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &memStore{rows: map[string][][]interface{}{}}, &memSource{})

	req := httptest.NewRequest(http.MethodGet, "/api/qr?url=https://gala.example.org/donate&size=128", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	req = httptest.NewRequest(http.MethodGet, "/api/qr", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
