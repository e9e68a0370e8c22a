package ui

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Header         lipgloss.Style
	Sidebar        lipgloss.Style
	SidebarEntry   lipgloss.Style
	SidebarCurrent lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Timestamp      lipgloss.Style
	Caption        lipgloss.Style
	Attachment     lipgloss.Style
	Status         lipgloss.Style
	ErrorText      lipgloss.Style
	Input          lipgloss.Style
}

type AccentColors struct {
	Header    string
	User      string
	Assistant string
	Muted     string
	Error     string
	Current   string
}

func DefaultStyles() *Style {
	lightModeColors := AccentColors{
		Header:    "#5F5FD7",
		User:      "#005F87",
		Assistant: "#5F8700",
		Muted:     "#8A8A8A",
		Error:     "#D70000",
		Current:   "#AF5FD7",
	}

	darkModeColors := AccentColors{
		Header:    "#87AFFF",
		User:      "#5FD7FF",
		Assistant: "#AFD75F",
		Muted:     "#6C6C6C",
		Error:     "#FF5F5F",
		Current:   "#D787FF",
	}

	adaptive := func(pick func(AccentColors) string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{
			Light: pick(lightModeColors),
			Dark:  pick(darkModeColors),
		}
	}

	return &Style{
		Header: lipgloss.NewStyle().Bold(true).
			Foreground(adaptive(func(c AccentColors) string { return c.Header })),
		Sidebar: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(adaptive(func(c AccentColors) string { return c.Muted })).
			PaddingRight(1),
		SidebarEntry: lipgloss.NewStyle(),
		SidebarCurrent: lipgloss.NewStyle().Bold(true).
			Foreground(adaptive(func(c AccentColors) string { return c.Current })),
		UserLabel: lipgloss.NewStyle().Bold(true).
			Foreground(adaptive(func(c AccentColors) string { return c.User })),
		AssistantLabel: lipgloss.NewStyle().Bold(true).
			Foreground(adaptive(func(c AccentColors) string { return c.Assistant })),
		Timestamp: lipgloss.NewStyle().
			Foreground(adaptive(func(c AccentColors) string { return c.Muted })),
		Caption: lipgloss.NewStyle().Italic(true).
			Foreground(adaptive(func(c AccentColors) string { return c.Muted })),
		Attachment: lipgloss.NewStyle().
			Foreground(adaptive(func(c AccentColors) string { return c.Muted })),
		Status: lipgloss.NewStyle().
			Foreground(adaptive(func(c AccentColors) string { return c.Muted })),
		ErrorText: lipgloss.NewStyle().
			Foreground(adaptive(func(c AccentColors) string { return c.Error })),
		Input: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(adaptive(func(c AccentColors) string { return c.Muted })),
	}
}
