package vanilla

// Class names of the page chrome around the form fields.
const (
	ClassSection     = "section"
	ClassAlert       = "section__alert"
	ClassLoading     = "section__loading"
	ClassFormGroup   = "form-group"
	ClassFooter      = "form-footer"
	ClassBreadcrumbs = "breadcrumbs"
)
