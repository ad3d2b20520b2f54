package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigtrack/internal/core"
	"gigtrack/internal/services"
	"gigtrack/internal/storage"
	"gigtrack/internal/transit"
)

type fakeRepo struct {
	earnings   []core.Earning
	expenses   []core.Expense
	targets    []core.Target
	platforms  []string
	categories []string
	nextID     int64
}

func (f *fakeRepo) CreateEarning(_ context.Context, e core.Earning) (core.Earning, error) {
	f.nextID++
	e.ID = f.nextID
	f.earnings = append([]core.Earning{e}, f.earnings...)
	return e, nil
}

func (f *fakeRepo) ListEarnings(context.Context) ([]core.Earning, error) {
	return append([]core.Earning(nil), f.earnings...), nil
}

func (f *fakeRepo) ListEarningsBetween(_ context.Context, from, to time.Time) ([]core.Earning, error) {
	var out []core.Earning
	for _, e := range f.earnings {
		when := e.Date.UTC()
		if !when.Before(from) && when.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteEarning(_ context.Context, id int64) error {
	for i, e := range f.earnings {
		if e.ID == id {
			f.earnings = append(f.earnings[:i], f.earnings[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) AddPlatform(_ context.Context, name string) error {
	f.platforms = append(f.platforms, name)
	return nil
}

func (f *fakeRepo) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	f.nextID++
	e.ID = f.nextID
	f.expenses = append([]core.Expense{e}, f.expenses...)
	return e, nil
}

func (f *fakeRepo) ListExpenses(context.Context) ([]core.Expense, error) {
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeRepo) DeleteExpense(_ context.Context, id int64) error {
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) AddCategory(_ context.Context, name string) error {
	f.categories = append(f.categories, name)
	return nil
}

func (f *fakeRepo) CreateTarget(_ context.Context, t core.Target) (core.Target, error) {
	f.nextID++
	t.ID = f.nextID
	f.targets = append(f.targets, t)
	return t, nil
}

func (f *fakeRepo) ListTargets(context.Context) ([]core.Target, error) {
	return append([]core.Target(nil), f.targets...), nil
}

func (f *fakeRepo) GetTarget(_ context.Context, id int64) (core.Target, error) {
	for _, t := range f.targets {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Target{}, storage.ErrNotFound
}

func (f *fakeRepo) UpdateTargetCurrent(_ context.Context, id int64, current core.Money) error {
	for i := range f.targets {
		if f.targets[i].ID == id {
			f.targets[i].Current = current
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) DeleteTarget(_ context.Context, id int64) error {
	for i, t := range f.targets {
		if t.ID == id {
			f.targets = append(f.targets[:i], f.targets[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) ListPlatforms(context.Context) ([]string, error)  { return f.platforms, nil }
func (f *fakeRepo) ListCategories(context.Context) ([]string, error) { return f.categories, nil }

// failingSource errors on every upstream lookup.
type failingSource struct{}

func (failingSource) Flights(context.Context, string, string) ([]core.TimedEvent, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingSource) Journeys(context.Context, transit.JourneyQuery) ([]core.TimedEvent, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingSource) Events(context.Context, string) ([]core.TimedEvent, error) {
	return nil, errors.New("upstream unavailable")
}

func newTestServer(t *testing.T, src transit.Source) (*Server, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	entries := services.NewEntryService(repo, repo, nil)
	if src == nil {
		src = transit.NewCatalog()
	}
	s := NewServer("127.0.0.1:0", repo, entries, src, 16, time.Minute)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, repo
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListEarnings(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/earnings", map[string]any{
		"amount":   "45.50",
		"platform": "Uber",
		"date":     "2024-06-01T14:30",
		"trips":    3,
		"minutes":  120,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created earningDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(4550), created.AmountCents)
	assert.Equal(t, 45.50, created.Amount)
	assert.NotZero(t, created.ID)

	rec = doJSON(t, s, http.MethodGet, "/api/earnings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entries    []earningDTO       `json:"entries"`
		TotalCents int64              `json:"totalCents"`
		Platforms  []platformGroupDTO `json:"platforms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, int64(4550), resp.TotalCents)
	require.Len(t, resp.Platforms, 1)
	assert.Equal(t, "Uber", resp.Platforms[0].Platform)
	assert.Equal(t, int64(3), resp.Platforms[0].TotalTrips)
}

func TestCreateEarning_InvalidAmount(t *testing.T) {
	s, repo := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/earnings", map[string]any{
		"amount":   "-5",
		"platform": "Uber",
		"date":     "2024-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.earnings)
}

func TestListEarnings_DateRangeFilter(t *testing.T) {
	s, repo := newTestServer(t, nil)
	repo.earnings = []core.Earning{
		{ID: 1, Amount: core.Money{Cents: 100}, Platform: "Uber", Date: core.NewDate(2024, 6, 1)},
		{ID: 2, Amount: core.Money{Cents: 200}, Platform: "Lyft", Date: core.NewDate(2024, 6, 15)},
		{ID: 3, Amount: core.Money{Cents: 300}, Platform: "Uber", Date: core.NewDate(2024, 7, 1)},
	}

	rec := doJSON(t, s, http.MethodGet, "/api/earnings?from=2024-06-01&to=2024-06-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entries    []earningDTO `json:"entries"`
		TotalCents int64        `json:"totalCents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(300), resp.TotalCents)
}

func TestDeleteEarning_NotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodDelete, "/api/earnings?id=42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateExpense_MileageDerivesAmount(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"category":    "Mileage",
		"date":        "2024-06-01",
		"kind":        "mileage",
		"miles":       45,
		"costPerMile": "0.65",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created expenseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(2925), created.AmountCents)
	assert.Equal(t, "mileage", created.Kind)
}

func TestCreateExpense_DefaultsToManual(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"amount":   "12.00",
		"category": "Fuel",
		"date":     "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created expenseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "manual", created.Kind)
	assert.Equal(t, int64(1200), created.AmountCents)
}

func TestTargets_CreateAndProgress(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/targets", map[string]any{
		"amount":    "1500.00",
		"period":    "weekly",
		"startDate": time.Now().UTC().Format("2006-01-02"),
		"autoTrack": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created targetDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(150000), created.AmountCents)
	assert.Equal(t, "7 days left", created.Progress.TimeLeft)
	assert.False(t, created.Progress.IsCompleted)
}

func TestTargets_ManualProgressUpdate(t *testing.T) {
	s, repo := newTestServer(t, nil)
	repo.targets = []core.Target{
		{ID: 1, Amount: core.Money{Cents: 150000}, Period: core.Weekly, StartDate: core.DateOf(time.Now())},
	}
	repo.nextID = 1

	rec := doJSON(t, s, http.MethodPut, "/api/targets", map[string]any{
		"id":      1,
		"current": "750.00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated targetDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, int64(75000), updated.CurrentCents)
	assert.InDelta(t, 50.0, updated.Progress.Percent, 0.01)
}

func TestTargets_AutoTrackedRejectsManualEdit(t *testing.T) {
	s, repo := newTestServer(t, nil)
	repo.targets = []core.Target{
		{ID: 1, Amount: core.Money{Cents: 150000}, Period: core.Weekly, StartDate: core.DateOf(time.Now()), AutoTrack: true},
	}

	rec := doJSON(t, s, http.MethodPut, "/api/targets", map[string]any{
		"id":      1,
		"current": "750.00",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDashboard(t *testing.T) {
	s, repo := newTestServer(t, nil)
	today := core.DateOf(time.Now())
	repo.earnings = []core.Earning{
		{ID: 1, Amount: core.Money{Cents: 5000}, Platform: "Uber", Date: today},
		{ID: 2, Amount: core.Money{Cents: 999}, Platform: "Lyft", Date: core.NewDate(2020, 1, 1)},
	}
	repo.expenses = []core.Expense{
		{ID: 3, Amount: core.Money{Cents: 1500}, Category: "Fuel", Date: today, Kind: core.ManualExpense},
	}

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Today struct {
			EarningsCents int64 `json:"earningsCents"`
			ExpensesCents int64 `json:"expensesCents"`
			NetCents      int64 `json:"netCents"`
		} `json:"today"`
		Recent []activityDTO `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5000), resp.Today.EarningsCents)
	assert.Equal(t, int64(1500), resp.Today.ExpensesCents)
	assert.Equal(t, int64(3500), resp.Today.NetCents)
	require.Len(t, resp.Recent, 3)
	assert.Equal(t, "2020-01-01T00:00:00Z", resp.Recent[2].Date)
}

func TestCityArrivals(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/city/arrivals?city=San+Francisco&kind=flight", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		City   string `json:"city"`
		Hourly []struct {
			HourRange string `json:"hourRange"`
			Count     int    `json:"count"`
		} `json:"hourly"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "San Francisco", resp.City)
	assert.NotEmpty(t, resp.Hourly)
}

func TestCityArrivals_EmptySnapshotKeepsArrayShape(t *testing.T) {
	s, _ := newTestServer(t, failingSource{})

	rec := doJSON(t, s, http.MethodGet, "/api/city/arrivals?city=Nowhere", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.JSONEq(t, "[]", string(resp["hourly"]), "hourly must be an empty array, not null")
}

func TestCityArrivals_InvalidKind(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/city/arrivals?city=SF&kind=boat", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFlightData_WireContract(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/functions/get-flight-data", map[string]any{
		"iataCode": "SFO",
		"date":     "2024-06-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp struct {
		Flights []core.TimedEvent `json:"flights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Flights)
	assert.LessOrEqual(t, len(resp.Flights), transit.MaxFlights)
}

func TestFlightData_Options(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodOptions, "/functions/get-flight-data", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type",
		rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestFlightData_UpstreamError(t *testing.T) {
	s, _ := newTestServer(t, failingSource{})

	rec := doJSON(t, s, http.MethodPost, "/functions/get-flight-data", map[string]any{
		"iataCode": "SFO",
		"date":     "2024-06-01",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Error   string            `json:"error"`
		Flights []core.TimedEvent `json:"flights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.NotNil(t, resp.Flights)
	assert.Empty(t, resp.Flights)
}

func TestTransportData_KeyedByType(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/functions/get-transport-data", map[string]any{
		"from": "San Jose",
		"to":   "San Francisco",
		"type": "train",
		"date": "2024-06-01",
		"time": "14:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]core.TimedEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp, "trains")
	assert.LessOrEqual(t, len(resp["trains"]), transit.MaxJourneys)
}

func TestTransportData_InvalidType(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/functions/get-transport-data", map[string]any{
		"from": "A", "to": "B", "type": "boat", "date": "2024-06-01", "time": "14:00",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Trains []core.TimedEvent `json:"trains"`
		Buses  []core.TimedEvent `json:"buses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, resp.Trains)
	assert.Empty(t, resp.Buses)
}

func TestFlightData_CachesPerAirportAndDate(t *testing.T) {
	s, _ := newTestServer(t, nil)

	body := map[string]any{"iataCode": "SFO", "date": "2024-06-01"}
	first := doJSON(t, s, http.MethodPost, "/functions/get-flight-data", body)
	require.Equal(t, http.StatusOK, first.Code)

	// Second request is served from cache and must match byte for byte.
	second := doJSON(t, s, http.MethodPost, "/functions/get-flight-data", body)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < rateLimitRequests; i++ {
		require.True(t, rl.allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "other clients keep their own window")
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())
}
