package page

import (
	"fmt"

	"github.com/goliatone/go-formpage/pkg/model"
)

const (
	opFetch   = "fetch"
	opSubmit  = "submit"
	opRestore = "restore"
)

func submitMessage(page model.Page, ok bool) string {
	name := page.Entity.Name
	var text string
	switch page.Kind {
	case model.PageKindCreate:
		text = fmt.Sprintf("Thêm %s mới", name)
	case model.PageKindUpdateProfile:
		text = fmt.Sprintf("Cập nhật thông tin %s", name)
	default:
		text = fmt.Sprintf("Cập nhật %s", name)
	}
	return text + outcome(ok)
}

func restoreMessage(page model.Page, ok bool) string {
	return fmt.Sprintf("Khôi phục %s mặc định", page.Entity.Name) + outcome(ok)
}

func outcome(ok bool) string {
	if ok {
		return " thành công!"
	}
	return " thất bại!"
}
