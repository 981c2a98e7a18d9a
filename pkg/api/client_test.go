package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpage/pkg/api"
	"github.com/goliatone/go-formpage/pkg/testsupport"
)

func newClient(t *testing.T, base string) *api.Client {
	t.Helper()
	client, err := api.New(api.WithBaseURL(base), api.WithHeader("Authorization", "Bearer token"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGetByIDDecodesRecord(t *testing.T) {
	fake := testsupport.NewFakeAPI(t)
	fake.Handle(http.MethodGet, "/api/tai-khoan/42", testsupport.Response{
		Data: map[string]any{"tenDangNhap": "admin", "maTaiKhoan": 42},
	})

	got, err := newClient(t, fake.URL()).GetByID(context.Background(), "/api/tai-khoan/", "42")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	want := map[string]any{"tenDangNhap": "admin", "maTaiKhoan": json.Number("42")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAllTakesFirstRecordOfList(t *testing.T) {
	fake := testsupport.NewFakeAPI(t)
	fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{
		Data: []any{map[string]any{"maCaiDat": "CD01"}, map[string]any{"maCaiDat": "CD02"}},
	})

	got, err := newClient(t, fake.URL()).GetAll(context.Background(), "/api/cai-dat")
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if got["maCaiDat"] != "CD01" {
		t.Fatalf("expected first record, got %v", got)
	}
}

func TestFetchRejectsUnsuccessfulStatus(t *testing.T) {
	fake := testsupport.NewFakeAPI(t)
	fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Status: "FAILED"})

	_, err := newClient(t, fake.URL()).GetAll(context.Background(), "/api/cai-dat")
	apiErr, ok := api.AsError(err)
	if !ok {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Kind != api.KindFetch || apiErr.Status != "FAILED" || apiErr.StatusCode != http.StatusOK {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestWritesSendJSONAndReportFieldErrors(t *testing.T) {
	fake := testsupport.NewFakeAPI(t)
	fake.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Data: map[string]any{"maSanBong": "SB01"}})
	fake.Handle(http.MethodPut, "/api/cai-dat/CD01", testsupport.Response{
		Code:   http.StatusUnprocessableEntity,
		Status: "FAILED",
		Errors: map[string][]string{"soNgayDatTruoc": {"phải là số"}},
	})
	client := newClient(t, fake.URL())

	created, err := client.Create(context.Background(), "/api/san-bong", map[string]any{"tenSanBong": "Sân A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created["maSanBong"] != "SB01" {
		t.Fatalf("unexpected create result %v", created)
	}

	_, err = client.UpdateByID(context.Background(), "/api/cai-dat", "CD01", map[string]any{"soNgayDatTruoc": "x"})
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Kind != api.KindWrite || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected error %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"soNgayDatTruoc": {"phải là số"}}, apiErr.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	requests := fake.Requests()
	if len(requests) != 2 || requests[0].Body["tenSanBong"] != "Sân A" || requests[1].Method != http.MethodPut {
		t.Fatalf("unexpected requests %+v", requests)
	}
}

func TestRestoreAcceptsEnvelopeWithoutStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	got, err := newClient(t, srv.URL).Restore(context.Background(), srv.URL+"/api/cai-dat/khoi-phuc")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no record, got %v", got)
	}
}

func TestWritesAcceptScalarResultData(t *testing.T) {
	fake := testsupport.NewFakeAPI(t)
	client := newClient(t, fake.URL())

	for _, data := range []any{42, true, "ok"} {
		fake.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Code: http.StatusCreated, Data: data})
		got, err := client.Create(context.Background(), "/api/san-bong", map[string]any{"tenSanBong": "Sân A"})
		if err != nil {
			t.Fatalf("create answering %v: %v", data, err)
		}
		if got != nil {
			t.Fatalf("expected no record for %v, got %v", data, got)
		}
	}

	fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Data: 42})
	if _, err := client.GetAll(context.Background(), "/api/cai-dat"); err == nil {
		t.Fatal("a fetch answering a scalar must fail")
	}
}

func TestTimeoutAndCancellation(t *testing.T) {
	fake := testsupport.NewFakeAPI(t)
	gate := make(chan struct{})
	t.Cleanup(func() { close(gate) })
	fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Gate: gate})

	client, err := api.New(api.WithBaseURL(fake.URL()), api.WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.GetAll(context.Background(), "/api/cai-dat")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRelativeEndpointNeedsBase(t *testing.T) {
	client, err := api.New()
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.GetAll(context.Background(), "/api/cai-dat"); err == nil {
		t.Fatalf("expected error without base url")
	}
	if _, err := api.New(api.WithBaseURL("not a url")); err == nil {
		t.Fatalf("expected invalid base url error")
	}
	if got := api.JoinID("/api/tai-khoan/", "a b"); got != "/api/tai-khoan/a%20b" {
		t.Fatalf("unexpected join %q", got)
	}
}
