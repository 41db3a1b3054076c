// Package content defines the tracked content kinds of the storefront and
// the change events that describe mutations to them. The seven kinds form
// a closed enumeration; routing code switches over Kind and treats any
// other value as unknown.
package content

import "time"

// Kind identifies one tracked content kind.
type Kind string

// The seven tracked content kinds.
const (
	KindSiteSetting Kind = "site-setting"
	KindHeroSection Kind = "hero-section"
	KindBrand       Kind = "brand"
	KindCategory    Kind = "category"
	KindProduct     Kind = "product"
	KindTestimonial Kind = "testimonial"
	KindFeature     Kind = "feature"
)

// Kinds returns all tracked content kinds. Routing code iterates this
// slice so a new kind has a single registration site.
func Kinds() []Kind {
	return []Kind{
		KindSiteSetting,
		KindHeroSection,
		KindBrand,
		KindCategory,
		KindProduct,
		KindTestimonial,
		KindFeature,
	}
}

// Valid reports whether k is one of the tracked kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSiteSetting, KindHeroSection, KindBrand, KindCategory,
		KindProduct, KindTestimonial, KindFeature:
		return true
	}
	return false
}

// Singular reports whether the kind is a single object rather than a
// collection. Site settings and the hero section exist exactly once.
func (k Kind) Singular() bool {
	return k == KindSiteSetting || k == KindHeroSection
}

// Path returns the read-API path for the kind, without query parameters.
func (k Kind) Path() string {
	switch k {
	case KindSiteSetting:
		return "/api/site-setting"
	case KindHeroSection:
		return "/api/hero-section"
	case KindBrand:
		return "/api/brands"
	case KindCategory:
		return "/api/categories"
	case KindProduct:
		return "/api/products"
	case KindTestimonial:
		return "/api/testimonials"
	case KindFeature:
		return "/api/features"
	}
	return ""
}

// Action identifies what happened to an entity.
type Action string

// Mutation actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// HookName returns the lifecycle hook name for the action, used to tag
// prefetch runs (e.g. "product afterUpdate").
func (a Action) HookName() string {
	switch a {
	case ActionCreated:
		return "afterCreate"
	case ActionUpdated:
		return "afterUpdate"
	case ActionDeleted:
		return "afterDelete"
	}
	return "afterChange"
}

// Change describes one committed content mutation. Data holds the full
// post-mutation entity, or the pre-deletion snapshot for deletes.
type Change struct {
	Kind      Kind      `json:"type"`
	Action    Action    `json:"action"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChange builds a Change stamped with the current server time.
func NewChange(kind Kind, action Action, data any) Change {
	return Change{
		Kind:      kind,
		Action:    action,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Reason returns the human-readable trigger reason for the change,
// in the "<kind> <hook>" form used for operational logging.
func (c Change) Reason() string {
	return string(c.Kind) + " " + c.Action.HookName()
}
