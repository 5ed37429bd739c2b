package screen

import "github.com/aalvaropc/testdeck/internal/domain"

const (
	// NeutralColor is used for environments without a colour (ANSI 256 grey).
	NeutralColor = "244"

	ManageEnvironmentsLabel = "Manage Environments"
	AddCookiesLabel         = "Add Cookies"
	ManageCookiesLabel      = "Manage Cookies"
)

// EnvironmentOption is one selectable environment.
type EnvironmentOption struct {
	ID    string
	Label string
	Glyph Glyph
	Color string
	Base  bool
}

// EnvironmentSelector is the environment dropdown and its manage control.
type EnvironmentSelector struct {
	Options   []EnvironmentOption
	Active    EnvironmentOption
	ModalOpen bool
}

// Environments lists base first, then subs in repository order. The
// active option falls back to base for empty or unknown ids.
func Environments(base domain.Environment, subs []domain.Environment, activeID string, modalOpen bool) EnvironmentSelector {
	opts := make([]EnvironmentOption, 0, len(subs)+1)
	baseOpt := EnvironmentOption{
		ID:    base.ID,
		Label: domain.BaseEnvironmentLabel,
		Glyph: GlyphCancel,
		Base:  true,
	}
	opts = append(opts, baseOpt)

	active := baseOpt
	for _, e := range subs {
		o := EnvironmentOption{
			ID:    e.ID,
			Label: e.Name,
			Glyph: GlyphCircle,
			Color: e.Color,
		}
		if o.Color == "" {
			o.Color = NeutralColor
		}
		opts = append(opts, o)
		if activeID != "" && e.ID == activeID {
			active = o
		}
	}

	return EnvironmentSelector{
		Options:   opts,
		Active:    active,
		ModalOpen: modalOpen,
	}
}

// CookieControl opens the cookie modal.
type CookieControl struct {
	Label     string
	Count     int
	ModalOpen bool
}

func Cookies(jar domain.CookieJar, modalOpen bool) CookieControl {
	c := CookieControl{
		Label:     AddCookiesLabel,
		Count:     len(jar.Cookies),
		ModalOpen: modalOpen,
	}
	if c.Count > 0 {
		c.Label = ManageCookiesLabel
	}
	return c
}
