package content

// SiteSetting holds the site-wide settings singleton.
type SiteSetting struct {
	SiteName     string            `json:"siteName" yaml:"siteName"`
	Tagline      string            `json:"tagline,omitempty" yaml:"tagline"`
	Phone        string            `json:"phone,omitempty" yaml:"phone"`
	Email        string            `json:"email,omitempty" yaml:"email"`
	Address      string            `json:"address,omitempty" yaml:"address"`
	WorkingHours string            `json:"workingHours,omitempty" yaml:"workingHours"`
	SocialLinks  map[string]string `json:"socialLinks,omitempty" yaml:"socialLinks"`
}

// HeroSection holds the landing hero singleton.
type HeroSection struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle"`
	CTALabel string `json:"ctaLabel,omitempty" yaml:"ctaLabel"`
	CTAURL   string `json:"ctaUrl,omitempty" yaml:"ctaUrl"`
	ImageURL string `json:"imageUrl,omitempty" yaml:"imageUrl"`
}

// Brand is a tool manufacturer carried by the store.
type Brand struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description"`
	LogoURL     string `json:"logoUrl,omitempty" yaml:"logoUrl"`
	Country     string `json:"country,omitempty" yaml:"country"`

	// CategoryIDs lists the categories this brand appears in.
	// The read API expands them when ?populate=categories is requested.
	CategoryIDs []string `json:"categoryIds,omitempty" yaml:"categoryIds"`

	// Categories is the populated relation; nil unless requested.
	Categories []Category `json:"categories,omitempty" yaml:"-"`
}

// Category groups products of one type (pruners, spades, hoses...).
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description"`
	BrandID     string `json:"brandId,omitempty" yaml:"brandId"`

	// Brand is the populated relation; nil unless requested.
	Brand *Brand `json:"brand,omitempty" yaml:"-"`
}

// Product is one sellable garden tool.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Slug        string  `json:"slug" yaml:"slug"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Currency    string  `json:"currency,omitempty" yaml:"currency"`
	ImageURL    string  `json:"imageUrl,omitempty" yaml:"imageUrl"`
	InStock     bool    `json:"inStock" yaml:"inStock"`
	BrandID     string  `json:"brandId,omitempty" yaml:"brandId"`
	CategoryID  string  `json:"categoryId,omitempty" yaml:"categoryId"`
}

// Testimonial is one customer quote shown on the landing page.
type Testimonial struct {
	ID     string `json:"id" yaml:"id"`
	Author string `json:"author" yaml:"author"`
	Quote  string `json:"quote" yaml:"quote"`
	Rating int    `json:"rating,omitempty" yaml:"rating"`
	Date   string `json:"date,omitempty" yaml:"date"`
}

// Feature is one "why buy from us" bullet.
type Feature struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	Order       int    `json:"order,omitempty" yaml:"order"`
}
