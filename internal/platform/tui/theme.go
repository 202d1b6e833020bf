package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/monake/internal/core"
)

// Theme maps the board's logical colors to terminal styles.
type Theme struct {
	Name   string
	styles map[core.Color]lipgloss.Style
}

// Style returns the style for c, falling back to the default style.
func (t Theme) Style(c core.Color) lipgloss.Style {
	if style, ok := t.styles[c]; ok {
		return style
	}
	return t.styles[core.ColorDefault]
}

// with returns a copy of t named name with the given overrides.
func (t Theme) with(name string, overrides map[core.Color]lipgloss.Style) Theme {
	styles := maps.Clone(t.styles)
	maps.Copy(styles, overrides)
	return Theme{Name: name, styles: styles}
}

func fg(code string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// ClassicTheme uses the basic 16 ANSI colors.
func ClassicTheme() Theme {
	return Theme{Name: "classic", styles: map[core.Color]lipgloss.Style{
		core.ColorDefault:       lipgloss.NewStyle(),
		core.ColorRed:           fg("1"),
		core.ColorGreen:         fg("2"),
		core.ColorYellow:        fg("3"),
		core.ColorBlue:          fg("4"),
		core.ColorMagenta:       fg("5"),
		core.ColorCyan:          fg("6"),
		core.ColorWhite:         fg("7"),
		core.ColorBrightRed:     fg("9"),
		core.ColorBrightGreen:   fg("10").Bold(true),
		core.ColorBrightYellow:  fg("11").Bold(true),
		core.ColorBrightMagenta: fg("13"),
		core.ColorGray:          fg("245"),
	}}
}

// NeonTheme returns a neon-style theme.
func NeonTheme() Theme {
	return ClassicTheme().with("neon", map[core.Color]lipgloss.Style{
		core.ColorRed:          fg("199"),           // Neon pink food
		core.ColorGreen:        fg("118"),           // Neon green body
		core.ColorBrightGreen:  fg("46").Bold(true), // Lime head
		core.ColorBrightYellow: fg("227").Bold(true),
		core.ColorBrightRed:    fg("197").Bold(true),
		core.ColorGray:         fg("93"), // Purple walls
	})
}

// PastelTheme returns a softer pastel theme.
func PastelTheme() Theme {
	return ClassicTheme().with("pastel", map[core.Color]lipgloss.Style{
		core.ColorRed:          fg("218"),
		core.ColorGreen:        fg("157"),
		core.ColorBrightGreen:  fg("120").Bold(true),
		core.ColorBrightYellow: fg("229").Bold(true),
		core.ColorBrightRed:    fg("210"),
		core.ColorGray:         fg("250"),
	})
}

// MonochromeTheme returns a grayscale theme.
func MonochromeTheme() Theme {
	return ClassicTheme().with("mono", map[core.Color]lipgloss.Style{
		core.ColorRed:          fg("250"),
		core.ColorGreen:        fg("245"),
		core.ColorBrightGreen:  fg("255").Bold(true),
		core.ColorBrightYellow: fg("255").Bold(true),
		core.ColorBrightRed:    fg("255").Bold(true),
		core.ColorGray:         fg("240"),
	})
}

var themes = map[string]func() Theme{
	"classic": ClassicTheme,
	"neon":    NeonTheme,
	"pastel":  PastelTheme,
	"mono":    MonochromeTheme,
}

// ThemeNames lists the available theme names in order.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

// ThemeByName looks up a theme. An empty name selects the classic theme.
func ThemeByName(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ClassicTheme(), nil
	}
	build, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("tui: unknown theme %q (want one of %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return build(), nil
}
