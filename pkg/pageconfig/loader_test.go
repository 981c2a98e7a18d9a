package pageconfig_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formpage/pkg/model"
	"github.com/goliatone/go-formpage/pkg/pageconfig"
)

func TestLoadFS_Embedded(t *testing.T) {
	store, err := pageconfig.LoadFS(pageconfig.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded pages: %v", err)
	}

	want := []string{"cai-dat-he-thong", "cap-nhat-tai-khoan", "them-san-bong"}
	got := store.IDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("ids mismatch: got %v want %v", got, want)
	}

	page, ok := store.BySlug(model.PageKindCreate, "san-bong")
	if !ok {
		t.Fatalf("create page for san-bong not found")
	}
	kind, _ := page.Field("loaiSan")
	if len(kind.Values) != 3 || kind.Values[0].Label != "Sân 5 người" {
		t.Fatalf("select options not decoded through item keys: %#v", kind.Values)
	}
	if _, ok := store.BySlug(model.PageKindUpdateSettings, "san-bong"); ok {
		t.Fatalf("kind must be part of the slug lookup")
	}
}

func TestLoadFS_JSONAndSlugDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"khach-hang.json": {Data: []byte(`{"pages": {"them-khach-hang": {
			"kind": "create",
			"entity": {"name": "khách hàng"},
			"api": {"create": "/api/khach-hang"},
			"fields": [{"type": "input", "propForValue": "tenKhachHang"}]
		}}}`)},
		"README.md": {Data: []byte("ignored")},
	}
	store, err := pageconfig.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	page, ok := store.Page("them-khach-hang")
	if !ok {
		t.Fatalf("page missing")
	}
	if page.Entity.Slug != "khach-hang" {
		t.Fatalf("expected slug derived from name, got %q", page.Entity.Slug)
	}
	if page.Fields[0].Label != "Ten Khach Hang" {
		t.Fatalf("expected default label, got %q", page.Fields[0].Label)
	}
	if page.ListPath() != "/quan-ly/khach-hang" {
		t.Fatalf("unexpected list path %q", page.ListPath())
	}
}

func TestLoadFS_DuplicatePage(t *testing.T) {
	body := `pages:
  trung:
    kind: create
    entity: {name: a}
    api: {create: /api/a}
    fields:
      - {type: input, propForValue: a}
`
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(body)},
		"b.yml":  {Data: []byte(body)},
	}
	_, err := pageconfig.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), `duplicate page "trung"`) {
		t.Fatalf("expected duplicate page error, got %v", err)
	}
}

func TestLoadFS_EmptyAndNil(t *testing.T) {
	store, err := pageconfig.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("nil fs should yield empty store: %v", err)
	}
	_, err = pageconfig.LoadFS(fstest.MapFS{"x.json": {Data: []byte("  ")}})
	if err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestValidate(t *testing.T) {
	valid := model.Page{
		ID:     "p",
		Kind:   model.PageKindUpdateSettings,
		Entity: model.Entity{Name: "cài đặt", Slug: "cai-dat"},
		API:    model.API{GetAll: "/a", UpdateByID: "/a", Restore: "/a/r"},
		Fields: []model.Field{
			{Type: model.FieldTypeInput, PropForValue: "a"},
			{Type: model.FieldTypeInput, PropForValue: "b", Validators: []model.Validator{{Rule: model.IsEqual{PropForComparedValue: "a"}}}},
		},
	}
	if err := pageconfig.Validate(valid); err != nil {
		t.Fatalf("expected valid page, got %v", err)
	}

	cases := map[string]func(p *model.Page){
		"missing restore": func(p *model.Page) { p.API.Restore = "" },
		"duplicate key":   func(p *model.Page) { p.Fields[1].PropForValue = "a"; p.Fields[1].Validators = nil },
		"select without values": func(p *model.Page) {
			p.Fields[0].Type = model.FieldTypeSelect
		},
		"bad compare target": func(p *model.Page) {
			p.Fields[1].Validators = []model.Validator{{Rule: model.IsEqual{PropForComparedValue: "zzz"}}}
		},
		"bad date": func(p *model.Page) {
			p.Fields[1].Validators = []model.Validator{{Rule: model.IsBefore{Date: "01/01/2020"}}}
		},
		"zero length": func(p *model.Page) {
			p.Fields[1].Validators = []model.Validator{{Rule: model.MinLength{Length: 0}}}
		},
		"empty key": func(p *model.Page) { p.Fields[0].PropForValue = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			page := valid
			page.Fields = append([]model.Field(nil), valid.Fields...)
			mutate(&page)
			if err := pageconfig.Validate(page); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
