package domain

// Theme is the closed set of demo card color variants.
type Theme string

const (
	ThemeCyan    Theme = "cyan"
	ThemePurple  Theme = "purple"
	ThemeGreen   Theme = "green"
	ThemeOrange  Theme = "orange"
	ThemeRainbow Theme = "rainbow"
)

// DefaultTheme is used whenever a lookup misses.
const DefaultTheme = ThemeCyan

// Palette holds the colors a theme resolves to.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Gradient  string `json:"gradient"`
	Glow      string `json:"glow"`
}

var palettes = map[Theme]Palette{
	ThemeCyan: {
		Primary:   "#00f5ff",
		Secondary: "#0891b2",
		Accent:    "#67e8f9",
		Gradient:  "linear-gradient(135deg, #00f5ff, #0891b2, #67e8f9)",
		Glow:      "0 0 30px rgba(0, 245, 255, 0.6)",
	},
	ThemePurple: {
		Primary:   "#8b5cf6",
		Secondary: "#7c3aed",
		Accent:    "#a78bfa",
		Gradient:  "linear-gradient(135deg, #8b5cf6, #7c3aed, #a78bfa)",
		Glow:      "0 0 30px rgba(139, 92, 246, 0.6)",
	},
	ThemeGreen: {
		Primary:   "#10b981",
		Secondary: "#059669",
		Accent:    "#34d399",
		Gradient:  "linear-gradient(135deg, #10b981, #059669, #34d399)",
		Glow:      "0 0 30px rgba(16, 185, 129, 0.6)",
	},
	ThemeOrange: {
		Primary:   "#f59e0b",
		Secondary: "#d97706",
		Accent:    "#fbbf24",
		Gradient:  "linear-gradient(135deg, #f59e0b, #d97706, #fbbf24)",
		Glow:      "0 0 30px rgba(245, 158, 11, 0.6)",
	},
	ThemeRainbow: {
		Primary:   "#ff0080",
		Secondary: "#7928ca",
		Accent:    "#ff4081",
		Gradient:  "linear-gradient(135deg, #ff0080, #7928ca, #ff4081, #00d4ff)",
		Glow:      "0 0 30px rgba(255, 0, 128, 0.6)",
	},
}

// Themes lists the variants in display order.
func Themes() []Theme {
	return []Theme{ThemeCyan, ThemePurple, ThemeGreen, ThemeOrange, ThemeRainbow}
}

// ParseTheme resolves a key to a Theme. The boolean is false when the key is
// unknown, in which case DefaultTheme is returned.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(s)
	if _, ok := palettes[t]; ok {
		return t, true
	}
	return DefaultTheme, false
}

// Palette returns the colors of t, falling back to DefaultTheme.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[DefaultTheme]
}

// CardStyle is the closed set of card surface designs.
type CardStyle string

const (
	StyleHolographic CardStyle = "holographic"
	StyleNeural      CardStyle = "neural"
	StyleQuantum     CardStyle = "quantum"
	StyleMatrix      CardStyle = "matrix"
)

// CardStyles lists the styles in display order.
func CardStyles() []CardStyle {
	return []CardStyle{StyleHolographic, StyleNeural, StyleQuantum, StyleMatrix}
}

// ParseCardStyle reports whether s names a known style.
func ParseCardStyle(s string) (CardStyle, bool) {
	for _, c := range CardStyles() {
		if string(c) == s {
			return c, true
		}
	}
	return StyleHolographic, false
}

// AREffect is the closed set of AR overlay effects.
type AREffect string

const (
	EffectHologram AREffect = "hologram"
	EffectParticle AREffect = "particle"
	EffectGlow     AREffect = "glow"
	EffectScan     AREffect = "scan"
)

// AREffects lists the effects in display order.
func AREffects() []AREffect {
	return []AREffect{EffectHologram, EffectParticle, EffectGlow, EffectScan}
}

// ParseAREffect reports whether s names a known effect.
func ParseAREffect(s string) (AREffect, bool) {
	for _, e := range AREffects() {
		if string(e) == s {
			return e, true
		}
	}
	return EffectHologram, false
}

// ButtonVariant selects the visual treatment of an action button.
type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonOutline   ButtonVariant = "outline"
	ButtonGhost     ButtonVariant = "ghost"
	ButtonDanger    ButtonVariant = "danger"
	ButtonSuccess   ButtonVariant = "success"
)

// ButtonSize selects the padding/typography scale of an action button.
type ButtonSize string

const (
	ButtonSmall  ButtonSize = "sm"
	ButtonMedium ButtonSize = "md"
	ButtonLarge  ButtonSize = "lg"
	ButtonXL     ButtonSize = "xl"
)

const buttonBase = "btn"

var buttonVariants = map[ButtonVariant]string{
	ButtonPrimary:   "btn-primary",
	ButtonSecondary: "btn-secondary",
	ButtonOutline:   "btn-outline",
	ButtonGhost:     "btn-ghost",
	ButtonDanger:    "btn-danger",
	ButtonSuccess:   "btn-success",
}

var buttonSizes = map[ButtonSize]string{
	ButtonSmall:  "btn-sm",
	ButtonMedium: "btn-md",
	ButtonLarge:  "btn-lg",
	ButtonXL:     "btn-xl",
}

// Button is the shared action control. A non-empty Href renders a link,
// otherwise a form submit button carrying Name=Value.
type Button struct {
	Label    string
	Variant  ButtonVariant
	Size     ButtonSize
	Href     string
	Name     string
	Value    string
	Disabled bool
	Loading  bool
}

// Classes resolves the CSS classes of b, defaulting to primary/md.
func (b Button) Classes() string {
	variant, ok := buttonVariants[b.Variant]
	if !ok {
		variant = buttonVariants[ButtonPrimary]
	}
	size, ok := buttonSizes[b.Size]
	if !ok {
		size = buttonSizes[ButtonMedium]
	}
	return buttonBase + " " + variant + " " + size
}
