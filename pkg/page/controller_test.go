package page_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formpage/pkg/api"
	"github.com/goliatone/go-formpage/pkg/metrics"
	"github.com/goliatone/go-formpage/pkg/notify"
	"github.com/goliatone/go-formpage/pkg/page"
	"github.com/goliatone/go-formpage/pkg/session"
	"github.com/goliatone/go-formpage/pkg/testsupport"
)

var fixedNow = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

type harness struct {
	fake      *testsupport.FakeAPI
	notes     *notify.Recorder
	navigated []string
	user      *session.Global
	hook      interface{ AllEntries() []*logrus.Entry }
}

func newController(t *testing.T, pageID string, extra ...page.Option) (*page.Controller, *harness) {
	t.Helper()

	h := &harness{
		fake:  testsupport.NewFakeAPI(t),
		notes: &notify.Recorder{},
		user:  &session.Global{},
	}
	client, err := api.New(api.WithBaseURL(h.fake.URL()))
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	logger, hook := testsupport.Logger()
	h.hook = hook

	options := []page.Option{
		page.WithNotifier(h.notes),
		page.WithNavigator(page.NavigatorFunc(func(path string) { h.navigated = append(h.navigated, path) })),
		page.WithSessionUpdater(h.user),
		page.WithLogger(logger),
		page.WithClock(func() time.Time { return fixedNow }),
	}
	options = append(options, extra...)

	ctrl, err := page.New(testsupport.Page(t, pageID), client, options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(ctrl.Unmount)
	return ctrl, h
}

func fillCreate(t *testing.T, ctrl *page.Controller) {
	t.Helper()
	values := map[string]any{
		"tenSanBong": "Sân Thống Nhất",
		"loaiSan":    7,
		"giaThue":    "250000",
		"ghiChu":     "Mặt cỏ mới",
	}
	for key, value := range values {
		if err := ctrl.Change(key, value); err != nil {
			t.Fatalf("change %s: %v", key, err)
		}
	}
}

func profileRecord() map[string]any {
	return map[string]any{
		"maTaiKhoan":     "u1",
		"tenDangNhap":    "admin",
		"hoTen":          "Nguyễn Văn A",
		"email":          "a@example.com",
		"soDienThoai":    "0912345678",
		"ngaySinh":       "1990-05-01",
		"matKhau":        "secret1",
		"nhapLaiMatKhau": "secret1",
	}
}

func settingsRecord(days int) map[string]any {
	return map[string]any{
		"maCaiDat":          "CD01",
		"soNgayDatTruoc":    days,
		"soDienThoaiLienHe": "0987654321",
		"noiQuy":            "Không hút thuốc",
	}
}

func TestCreateMountsWithDefaults(t *testing.T) {
	ctrl, h := newController(t, testsupport.CreatePageID)

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.State != page.StateReady {
		t.Fatalf("expected ready, got %s", snap.State)
	}
	want := map[string]any{
		"tenSanBong": "",
		"loaiSan":    int64(5),
		"giaThue":    "",
		"ngaySuDung": "2024-03-09",
		"ghiChu":     "",
	}
	if diff := cmp.Diff(want, snap.Data.Map()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if got := len(h.fake.Requests()); got != 0 {
		t.Fatalf("create mount must not call the backend, got %d requests", got)
	}
}

func TestCreateSubmitPostsOnceAndNavigates(t *testing.T) {
	ctrl, h := newController(t, testsupport.CreatePageID)
	h.fake.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Code: http.StatusCreated})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	fillCreate(t, ctrl)

	out, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := h.fake.Count(http.MethodPost, "/api/san-bong"); got != 1 {
		t.Fatalf("expected exactly one POST, got %d", got)
	}
	wantBody := map[string]any{
		"tenSanBong": "Sân Thống Nhất",
		"loaiSan":    float64(7),
		"giaThue":    "250000",
		"ngaySuDung": "2024-03-09",
		"ghiChu":     "Mặt cỏ mới",
	}
	if diff := cmp.Diff(wantBody, h.fake.Requests()[0].Body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
	if out.Navigate != "/quan-ly/san-bong" {
		t.Fatalf("unexpected navigation %q", out.Navigate)
	}
	if diff := cmp.Diff([]string{"/quan-ly/san-bong"}, h.navigated); diff != "" {
		t.Fatalf("navigator mismatch (-want +got):\n%s", diff)
	}
	last, _ := h.notes.Last()
	if diff := cmp.Diff(notify.Message{Kind: notify.KindSuccess, Text: "Thêm sân bóng mới thành công!"}, last); diff != "" {
		t.Fatalf("notification mismatch (-want +got):\n%s", diff)
	}
	if state := ctrl.Snapshot().State; state != page.StateIdle {
		t.Fatalf("expected idle after navigation, got %s", state)
	}
}

func TestCreateSucceedsWhenResultDataIsScalar(t *testing.T) {
	ctrl, h := newController(t, testsupport.CreatePageID)
	h.fake.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Code: http.StatusCreated, Data: 42})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	fillCreate(t, ctrl)

	out, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Record != nil {
		t.Fatalf("expected no record, got %v", out.Record)
	}
	if diff := cmp.Diff([]string{"/quan-ly/san-bong"}, h.navigated); diff != "" {
		t.Fatalf("navigator mismatch (-want +got):\n%s", diff)
	}
	last, _ := h.notes.Last()
	if diff := cmp.Diff(notify.Message{Kind: notify.KindSuccess, Text: "Thêm sân bóng mới thành công!"}, last); diff != "" {
		t.Fatalf("notification mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidSubmitShowsAlertWithoutRequest(t *testing.T) {
	ctrl, h := newController(t, testsupport.CreatePageID)
	before := metrics.OperationCount(testsupport.CreatePageID, "submit", metrics.ResultInvalid)

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := ctrl.Change("tenSanBong", "AB"); err != nil {
		t.Fatalf("change: %v", err)
	}

	out, err := ctrl.Submit(context.Background())
	if !errors.Is(err, page.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := len(h.fake.Requests()); got != 0 {
		t.Fatalf("invalid submit must not call the backend, got %d requests", got)
	}
	if out.Notification.Text != "Thêm sân bóng mới thất bại!" || !out.Notification.IsError() {
		t.Fatalf("unexpected notification %+v", out.Notification)
	}

	snap := ctrl.Snapshot()
	if !snap.ShowAlert || snap.State != page.StateReady {
		t.Fatalf("expected alert on ready page, got %+v", snap)
	}
	if diff := cmp.Diff([]string{"giaThue", "tenSanBong"}, snap.Errors.Keys()); diff != "" {
		t.Fatalf("error keys mismatch (-want +got):\n%s", diff)
	}
	entry, _ := snap.Errors.Get("tenSanBong")
	if diff := cmp.Diff([]string{"Tên sân bóng phải có ít nhất 3 ký tự"}, entry.Errors); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := metrics.OperationCount(testsupport.CreatePageID, "submit", metrics.ResultInvalid) - before; got != 1 {
		t.Fatalf("expected one invalid submit recorded, got %v", got)
	}

	ctrl.Focus()
	snap = ctrl.Snapshot()
	if snap.ShowAlert || !snap.Errors.Empty() {
		t.Fatalf("focus should hide the alert and clear errors, got %+v", snap)
	}
}

func TestDoubleSubmitReturnsBusy(t *testing.T) {
	ctrl, h := newController(t, testsupport.CreatePageID)
	gate := make(chan struct{})
	arrived := make(chan struct{}, 1)
	h.fake.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Gate: gate})
	h.fake.OnRequest(func(testsupport.Request) { arrived <- struct{}{} })

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	fillCreate(t, ctrl)

	first := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background())
		first <- err
	}()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("first submit never reached the backend")
	}
	if snap := ctrl.Snapshot(); snap.State != page.StateSubmitting || !snap.Loading {
		t.Fatalf("expected submitting with loading flag, got %+v", snap)
	}

	if _, err := ctrl.Submit(context.Background()); !errors.Is(err, page.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(gate)

	if err := <-first; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if got := h.fake.Count(http.MethodPost, "/api/san-bong"); got != 1 {
		t.Fatalf("expected one POST, got %d", got)
	}
}

func TestProfileMountFetchesRecord(t *testing.T) {
	ctrl, h := newController(t, testsupport.ProfilePageID, page.WithRecordID("u1"))
	h.fake.Handle(http.MethodGet, "/api/tai-khoan/u1", testsupport.Response{Data: profileRecord()})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.State != page.StateReady || snap.Loading || snap.Degraded {
		t.Fatalf("unexpected state %+v", snap)
	}
	if diff := cmp.Diff(profileRecord(), snap.Data.Map()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileFetchFailureKeepsPreFetchData(t *testing.T) {
	ctrl, h := newController(t, testsupport.ProfilePageID, page.WithRecordID("missing"))
	before := ctrl.Data()

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("fetch failure must not surface as an error: %v", err)
	}
	snap := ctrl.Snapshot()
	if diff := cmp.Diff(before.Map(), snap.Data.Map()); diff != "" {
		t.Fatalf("data changed after failed fetch (-want +got):\n%s", diff)
	}
	if snap.State != page.StateReady || !snap.Degraded || snap.ShowAlert || snap.Notification != nil {
		t.Fatalf("unexpected snapshot after failed fetch: %+v", snap)
	}
	if got := len(h.notes.Messages()); got != 0 {
		t.Fatalf("fetch failures are not notified, got %d", got)
	}

	warned := false
	for _, entry := range h.hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "fetch failed" {
			warned = true
		}
	}
	if !warned {
		t.Fatal("expected the fetch failure to be logged")
	}
}

func TestProfileSubmitUpdatesSession(t *testing.T) {
	ctrl, h := newController(t, testsupport.ProfilePageID, page.WithRecordID("u1"))
	h.fake.Handle(http.MethodGet, "/api/tai-khoan/u1", testsupport.Response{Data: profileRecord()})
	h.fake.Handle(http.MethodPut, "/api/tai-khoan/u1", testsupport.Response{
		Data: map[string]any{"tenDangNhap": "admin", "hash": "h-2"},
	})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := ctrl.Change("hoTen", "Trần Thị B"); err != nil {
		t.Fatalf("change: %v", err)
	}
	out, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if got := h.fake.Count(http.MethodPut, "/api/tai-khoan/u1"); got != 1 {
		t.Fatalf("expected one PUT, got %d", got)
	}
	if body := h.fake.Requests()[1].Body; body["hoTen"] != "Trần Thị B" || body["maTaiKhoan"] != "u1" {
		t.Fatalf("unexpected body %v", body)
	}
	user, ok := h.user.Current()
	if !ok {
		t.Fatal("session not updated")
	}
	if diff := cmp.Diff(session.User{TenDangNhap: "admin", Hash: "h-2"}, user); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
	if out.Navigate != "/" || out.Notification.Text != "Cập nhật thông tin tài khoản thành công!" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestWriteFailureHidesServerDetailByDefault(t *testing.T) {
	ctrl, h := newController(t, testsupport.ProfilePageID, page.WithRecordID("u1"))
	h.fake.Handle(http.MethodGet, "/api/tai-khoan/u1", testsupport.Response{Data: profileRecord()})
	h.fake.Handle(http.MethodPut, "/api/tai-khoan/u1", testsupport.Response{
		Code:   http.StatusUnprocessableEntity,
		Status: "FAILED",
		Errors: map[string][]string{"email": {"Email đã tồn tại"}},
	})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	_, err := ctrl.Submit(context.Background())
	if _, ok := api.AsError(err); !ok {
		t.Fatalf("expected *api.Error, got %v", err)
	}

	snap := ctrl.Snapshot()
	if snap.State != page.StateReady || snap.ShowAlert || !snap.Errors.Empty() {
		t.Fatalf("server detail leaked into view state: %+v", snap)
	}
	last, _ := h.notes.Last()
	if last.Text != "Cập nhật thông tin tài khoản thất bại!" {
		t.Fatalf("unexpected notification %q", last.Text)
	}
	if len(h.navigated) != 0 {
		t.Fatalf("failed write must not navigate, got %v", h.navigated)
	}
}

func TestWriteFailureSurfacesServerErrorsWhenEnabled(t *testing.T) {
	ctrl, h := newController(t, testsupport.ProfilePageID, page.WithRecordID("u1"), page.WithServerErrors(true))
	h.fake.Handle(http.MethodGet, "/api/tai-khoan/u1", testsupport.Response{Data: profileRecord()})
	h.fake.Handle(http.MethodPut, "/api/tai-khoan/u1", testsupport.Response{
		Code:   http.StatusUnprocessableEntity,
		Status: "FAILED",
		Errors: map[string][]string{"email": {"Email đã tồn tại"}, "form": {"Thử lại sau"}},
	})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err == nil {
		t.Fatal("expected write failure")
	}

	snap := ctrl.Snapshot()
	if !snap.ShowAlert {
		t.Fatal("expected alert with server errors")
	}
	entry, ok := snap.Errors.Get("email")
	if !ok || entry.Name != "Email" {
		t.Fatalf("expected email error, got %+v", snap.Errors)
	}
	if diff := cmp.Diff([]string{"Thử lại sau"}, snap.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsSubmitStaysOnPage(t *testing.T) {
	ctrl, h := newController(t, testsupport.SettingsPageID)
	h.fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Data: settingsRecord(7)})
	h.fake.Handle(http.MethodPut, "/api/cai-dat/CD01", testsupport.Response{})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := ctrl.Change("soNgayDatTruoc", "14"); err != nil {
		t.Fatalf("change: %v", err)
	}
	out, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Navigate != "" || len(h.navigated) != 0 {
		t.Fatalf("settings must stay on page, got %q", out.Navigate)
	}
	if got := h.fake.Count(http.MethodPut, "/api/cai-dat/CD01"); got != 1 {
		t.Fatalf("expected one PUT, got %d", got)
	}
	if snap := ctrl.Snapshot(); snap.State != page.StateReady || snap.Data.Text("soNgayDatTruoc") != "14" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if out.Notification.Text != "Cập nhật cài đặt thành công!" {
		t.Fatalf("unexpected notification %q", out.Notification.Text)
	}
}

func TestSettingsRestoreRefetches(t *testing.T) {
	ctrl, h := newController(t, testsupport.SettingsPageID)
	h.fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Data: settingsRecord(14)})
	h.fake.Handle(http.MethodPut, "/api/cai-dat/khoi-phuc", testsupport.Response{})

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	h.fake.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Data: settingsRecord(3)})

	out, err := ctrl.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if out.Notification.Text != "Khôi phục cài đặt mặc định thành công!" {
		t.Fatalf("unexpected notification %q", out.Notification.Text)
	}
	if got := h.fake.Count(http.MethodGet, "/api/cai-dat"); got != 2 {
		t.Fatalf("expected a re-fetch after restore, got %d GETs", got)
	}
	if got := ctrl.Snapshot().Data.Value("soNgayDatTruoc"); got != int64(3) {
		t.Fatalf("expected restored value 3, got %#v", got)
	}
}

func TestRestoreUnsupportedOutsideSettings(t *testing.T) {
	ctrl, _ := newController(t, testsupport.CreatePageID)
	if _, err := ctrl.Restore(context.Background()); !errors.Is(err, page.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestProfileRequiresRecordID(t *testing.T) {
	client, err := api.New()
	if err != nil {
		t.Fatalf("api client: %v", err)
	}
	if _, err := page.New(testsupport.Page(t, testsupport.ProfilePageID), client); !errors.Is(err, page.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestUnmountDuringFetchDropsResult(t *testing.T) {
	ctrl, h := newController(t, testsupport.ProfilePageID, page.WithRecordID("u1"))
	gate := make(chan struct{})
	defer close(gate)
	arrived := make(chan struct{}, 1)
	h.fake.Handle(http.MethodGet, "/api/tai-khoan/u1", testsupport.Response{Data: profileRecord(), Gate: gate})
	h.fake.OnRequest(func(testsupport.Request) { arrived <- struct{}{} })
	before := ctrl.Data()

	done := make(chan error, 1)
	go func() { done <- ctrl.Mount(context.Background()) }()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch never reached the backend")
	}
	ctrl.Unmount()

	select {
	case err := <-done:
		if !errors.Is(err, page.ErrUnmounted) {
			t.Fatalf("expected ErrUnmounted, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("unmount did not cancel the fetch")
	}

	snap := ctrl.Snapshot()
	if diff := cmp.Diff(before.Map(), snap.Data.Map()); diff != "" {
		t.Fatalf("dead page was mutated (-want +got):\n%s", diff)
	}
	if snap.State != page.StateIdle || snap.Loading {
		t.Fatalf("unexpected snapshot after unmount: %+v", snap)
	}
	if err := ctrl.Change("hoTen", "x"); !errors.Is(err, page.ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted on change, got %v", err)
	}
}

func TestUnmountDuringSubmitSkipsNotification(t *testing.T) {
	ctrl, h := newController(t, testsupport.CreatePageID)
	gate := make(chan struct{})
	defer close(gate)
	arrived := make(chan struct{}, 1)
	h.fake.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Gate: gate})
	h.fake.OnRequest(func(testsupport.Request) { arrived <- struct{}{} })

	if err := ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	fillCreate(t, ctrl)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background())
		done <- err
	}()
	<-arrived
	ctrl.Unmount()

	if err := <-done; !errors.Is(err, page.ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted, got %v", err)
	}
	if got := len(h.notes.Messages()); got != 0 {
		t.Fatalf("dead page notified %d times", got)
	}
	if len(h.navigated) != 0 {
		t.Fatalf("dead page navigated to %v", h.navigated)
	}
}

func TestLoadSeedsWithoutFetch(t *testing.T) {
	ctrl, h := newController(t, testsupport.SettingsPageID)

	if err := ctrl.Load(map[string]any{"maCaiDat": "CD01", "soNgayDatTruoc": "5"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := ctrl.Snapshot()
	if snap.State != page.StateReady {
		t.Fatalf("expected ready, got %s", snap.State)
	}
	want := map[string]any{
		"maCaiDat":          "CD01",
		"soNgayDatTruoc":    "5",
		"soDienThoaiLienHe": "",
		"noiQuy":            "",
	}
	if diff := cmp.Diff(want, snap.Data.Map()); diff != "" {
		t.Fatalf("loaded data mismatch (-want +got):\n%s", diff)
	}
	if got := len(h.fake.Requests()); got != 0 {
		t.Fatalf("load must not call the backend, got %d", got)
	}
}

func TestChangeRejectsUnknownField(t *testing.T) {
	ctrl, _ := newController(t, testsupport.CreatePageID)
	if err := ctrl.Change("khongTonTai", "x"); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestRenderOptionsCarryMethod(t *testing.T) {
	ctrl, _ := newController(t, testsupport.SettingsPageID)
	if err := ctrl.Load(settingsRecord(7)); err != nil {
		t.Fatalf("load: %v", err)
	}
	opts := ctrl.RenderOptions()
	if opts.Method != http.MethodPut {
		t.Fatalf("expected PUT, got %q", opts.Method)
	}
	if opts.Values.Text("maCaiDat") != "CD01" {
		t.Fatalf("values not carried: %v", opts.Values.Map())
	}
}
