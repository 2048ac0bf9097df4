package ui

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	normalDim     = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray          = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray       = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	darkGray      = lipgloss.AdaptiveColor{Light: "#DDDADA", Dark: "#3C3C3C"}
	cream         = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	ink           = lipgloss.AdaptiveColor{Light: "#37352F", Dark: "#E6E3DC"}
	blue          = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}
	paleBlue      = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A5F"}
	amber         = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FCD34D"}
	paleAmber     = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#3F3A1D"}
	red           = lipgloss.AdaptiveColor{Light: "#EB5757", Dark: "#F87171"}
	green         = lipgloss.Color("#04B575")
	statusBarBg   = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	statusBarNote = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(lipgloss.Color("#37352F")).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Foreground(ink).
			Bold(true).
			Underline(true)

	modeStyle = lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1)

	activeModeStyle = modeStyle.
			Foreground(cream).
			Background(blue).
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(gray).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(ink).
			Bold(true)

	calloutStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(paleBlue).
			Foreground(blue).
			Padding(0, 1)

	vocabStyle = lipgloss.NewStyle().
			Foreground(ink).
			Background(darkGray)

	maskedStyle = lipgloss.NewStyle().
			Foreground(midGray)

	focusedStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(blue)

	footnoteStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(amber).
				Background(paleAmber).
				Italic(true)

	phoneticStyle = lipgloss.NewStyle().
			Foreground(blue)

	posStyle = lipgloss.NewStyle().
			Foreground(gray).
			Bold(true)

	exampleStyle = lipgloss.NewStyle().
			Foreground(normalDim).
			Italic(true)

	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(midGray).
			Padding(0, 1)

	popoverTitleStyle = lipgloss.NewStyle().
				Foreground(gray).
				Bold(true)

	bulletStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(gray)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNote).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNote).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarScrollPosStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}).
				Background(lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}).
				Render
)
