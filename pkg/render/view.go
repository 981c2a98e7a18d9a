package render

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-formpage/pkg/model"
)

// HomeTitle is the root breadcrumb of every page.
const HomeTitle = "Sportyfind Management System"

// Crumb is one breadcrumb entry. An empty Href marks the active entry.
type Crumb struct {
	Label string
	Href  string
}

// Section holds the headings shown above a page's form.
type Section struct {
	Breadcrumbs []Crumb
	Title       string
	Subtitle    string
}

// ActionKind distinguishes footer buttons.
type ActionKind string

const (
	ActionBack    ActionKind = "back"
	ActionRestore ActionKind = "restore"
	ActionSubmit  ActionKind = "submit"
)

// Action is a footer button.
type Action struct {
	Kind    ActionKind
	Label   string
	Href    string
	Icon    string
	Primary bool
}

// SectionFor returns the headings of page.
func SectionFor(page model.Page) Section {
	name := page.Entity.Name
	home := Crumb{Label: HomeTitle, Href: "/"}
	switch page.Kind {
	case model.PageKindCreate:
		return Section{
			Breadcrumbs: []Crumb{home, {Label: "Quản lý " + name, Href: page.ListPath()}, {Label: "Thêm " + name + " mới"}},
			Title:       "Thêm " + name + " mới",
			Subtitle:    "Thêm " + name + " mới vào hệ thống",
		}
	case model.PageKindUpdateProfile:
		return Section{
			Breadcrumbs: []Crumb{home, {Label: "Cập nhật thông tin " + name}},
			Title:       "Cập nhật thông tin " + name,
			Subtitle:    "Cập nhật lại thông tin " + name + " trên hệ thống",
		}
	default:
		return Section{
			Breadcrumbs: []Crumb{home, {Label: "Quản lý " + name}},
			Title:       "Quản lý " + name,
			Subtitle:    "Quản lý thông tin " + name + " trên hệ thống",
		}
	}
}

// ActionsFor returns the footer buttons of page. Settings pages offer a
// restore button instead of a back link.
func ActionsFor(page model.Page) []Action {
	save := Action{Kind: ActionSubmit, Label: "Lưu lại", Icon: "fas fa-save", Primary: true}
	if page.Kind == model.PageKindUpdateSettings {
		return []Action{
			{Kind: ActionRestore, Label: "Khôi phục giá trị mặc định", Icon: "fas fa-redo"},
			save,
		}
	}
	return []Action{
		{Kind: ActionBack, Label: "Trở về", Href: page.ListPath(), Icon: "fas fa-arrow-left"},
		save,
	}
}

// MethodFor returns the HTTP verb a page writes with.
func MethodFor(page model.Page) string {
	if page.Kind == model.PageKindCreate {
		return http.MethodPost
	}
	return http.MethodPut
}

// FormMethod splits a write verb into what an HTML form can send plus the
// override carried in the _method hidden input.
func FormMethod(method string) (formMethod, override string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "", http.MethodPost:
		return http.MethodPost, ""
	case http.MethodGet:
		return http.MethodGet, ""
	default:
		return http.MethodPost, method
	}
}
