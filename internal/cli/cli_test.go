package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formpage/internal/cli"
	"github.com/goliatone/go-formpage/pkg/configuration"
	"github.com/goliatone/go-formpage/pkg/renderers/tui"
	"github.com/goliatone/go-formpage/pkg/testsupport"
)

type scriptedDriver struct {
	inputs    []string
	selects   []int
	textAreas []string
	confirms  []bool
	infos     []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	if len(d.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	v := d.textAreas[0]
	d.textAreas = d.textAreas[1:]
	return v, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func config(api *testsupport.FakeAPI) *configuration.Configuration {
	c := &configuration.Configuration{
		Addr:           ":0",
		RequestTimeout: 5 * time.Second,
		LogLevel:       "silent",
	}
	if api != nil {
		c.APIBaseURL = api.URL()
	}
	return c
}

func run(t *testing.T, c *configuration.Configuration, driver tui.PromptDriver, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var opts []cli.Option
	if driver != nil {
		opts = append(opts, cli.WithPromptDriver(driver))
	}
	cmd := cli.RootCmd(c, &out, opts...)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCreatePage(t *testing.T) {
	out, err := run(t, config(testsupport.NewFakeAPI(t)), nil, "render", testsupport.CreatePageID, "--stylesheet", "/static/forms.css")
	require.NoError(t, err)
	require.Contains(t, out, `name="tenSanBong"`)
	require.Contains(t, out, `href="/static/forms.css"`)
}

func TestRenderProfileFetchesRecordToFile(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/api/tai-khoan/u1", testsupport.Response{Data: map[string]any{
		"tenDangNhap": "quanly01",
		"hoTen":       "Nguyễn Văn An",
	}})
	target := filepath.Join(t.TempDir(), "profile.html")

	out, err := run(t, config(api), nil, "render", testsupport.ProfilePageID, "--id", "u1", "-o", target)
	require.NoError(t, err)
	require.Contains(t, out, "Form written to "+target)
	require.Equal(t, 1, api.Count(http.MethodGet, "/api/tai-khoan/u1"))

	html, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(html), "quanly01")
}

func TestRenderWithTerminalRenderer(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Sân Phú Thọ", "250000", "2024-03-09"},
		selects:   []int{0},
		textAreas: []string{""},
	}

	out, err := run(t, config(testsupport.NewFakeAPI(t)), driver, "render", testsupport.CreatePageID, "--renderer", "tui")
	require.NoError(t, err)
	require.Contains(t, out, `"tenSanBong":"Sân Phú Thọ"`)
	require.Contains(t, out, `"giaThue":"250000"`)
}

func TestRenderUnknownRenderer(t *testing.T) {
	_, err := run(t, config(testsupport.NewFakeAPI(t)), nil, "render", testsupport.CreatePageID, "--renderer", "preact")
	require.Error(t, err)
	require.Contains(t, err.Error(), "available: [tui vanilla]")
}

func TestRenderUnknownPage(t *testing.T) {
	_, err := run(t, config(nil), nil, "render", "khong-ton-tai")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown page")
}

func TestFillSubmitsCreatePage(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.Handle(http.MethodPost, "/api/san-bong", testsupport.Response{Code: http.StatusCreated})
	driver := &scriptedDriver{
		inputs:    []string{"Sân Thống Nhất", "300000", "2024-03-09"},
		selects:   []int{2},
		textAreas: []string{"Mặt cỏ mới"},
		confirms:  []bool{true},
	}

	out, err := run(t, config(api), driver, "fill", testsupport.CreatePageID)
	require.NoError(t, err)
	require.Contains(t, out, "Thêm sân bóng mới thành công!")
	require.Contains(t, out, "→ /quan-ly/san-bong")

	requests := api.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "Sân Thống Nhất", requests[0].Body["tenSanBong"])
	require.Equal(t, float64(11), requests[0].Body["loaiSan"])
}

func TestFillDeclinedSendsNothing(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	driver := &scriptedDriver{
		inputs:    []string{"Sân Thống Nhất", "300000", "2024-03-09"},
		selects:   []int{0},
		textAreas: []string{""},
		confirms:  []bool{false},
	}

	out, err := run(t, config(api), driver, "fill", testsupport.CreatePageID)
	require.NoError(t, err)
	require.Contains(t, out, "Đã hủy.")
	require.Empty(t, api.Requests())
}

func TestFillRestoreSettings(t *testing.T) {
	api := testsupport.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/api/cai-dat", testsupport.Response{Data: map[string]any{
		"maCaiDat":       "CD01",
		"soNgayDatTruoc": 7,
	}})
	api.Handle(http.MethodPut, "/api/cai-dat/khoi-phuc", testsupport.Response{})

	out, err := run(t, config(api), &scriptedDriver{}, "fill", testsupport.SettingsPageID, "--restore")
	require.NoError(t, err)
	require.Contains(t, out, "mặc định thành công!")
	require.Equal(t, 1, api.Count(http.MethodPut, "/api/cai-dat/khoi-phuc"))
	require.Equal(t, 2, api.Count(http.MethodGet, "/api/cai-dat"))
}

func TestLintReportsFindings(t *testing.T) {
	c := config(nil)
	c.OpenAPI = filepath.Join("..", "..", "pkg", "openapi", "testdata", "admin.yaml")

	out, err := run(t, c, nil, "lint")
	require.ErrorIs(t, err, cli.ErrLintFindings)
	require.Contains(t, out, "restore PUT /api/cai-dat/khoi-phuc is documented as POST")
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "6 endpoints checked, 1 findings"))
}

func TestLintNeedsSource(t *testing.T) {
	_, err := run(t, config(nil), nil, "lint")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no openapi document")
}
