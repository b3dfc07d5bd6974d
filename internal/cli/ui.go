package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/plotgrid/pkg/layout"
	"github.com/matzehuels/plotgrid/pkg/palette"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconInfo     = "›"
	iconArrow    = "→"
	iconSelected = "▸"
	iconSwatch   = "■"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Items
// =============================================================================

// swatch renders a colored square for a palette color name.
func swatch(colors *palette.Assigner, name string) string {
	hex := colors.Hex(name, "")
	if hex == "" {
		return StyleDim.Render(iconSwatch)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(iconSwatch)
}

// formatCoord formats a domain coordinate with two decimals.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// printItem prints one item as key-value lines.
func printItem(colors *palette.Assigner, it layout.Item) {
	printKeyValue("ID", it.ID)
	printKeyValue("Type", string(it.Type))
	printKeyValue("Color", swatch(colors, it.Color)+" "+it.Color)
	printKeyValue("Position", fmt.Sprintf("x=%s y=%s", formatCoord(it.X), formatCoord(it.Y)))
	printKeyValue("Size", fmt.Sprintf("w=%s h=%s", formatCoord(it.Width), formatCoord(it.Height)))
	channel := it.ChannelNumber
	if channel == "" {
		channel = StyleDim.Render("(unset)")
	}
	printKeyValue("Channel", channel)
}

// itemTable renders items as a bordered table. The row of selectedID is
// marked and highlighted.
func itemTable(colors *palette.Assigner, items []layout.Item, selectedID string) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		marker := " "
		if it.ID == selectedID && selectedID != "" {
			marker = iconSelected
		}
		rows[i] = []string{
			marker,
			it.ShortID(8),
			string(it.Type),
			swatch(colors, it.Color) + " " + it.Color,
			formatCoord(it.X),
			formatCoord(it.Y),
			formatCoord(it.Width),
			formatCoord(it.Height),
			it.ChannelNumber,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Color", "X", "Y", "W", "H", "Channel").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row >= 0 && row < len(items) && items[row].ID == selectedID {
				return base.Foreground(colorCyan).Bold(true)
			}
			if col >= 4 && col <= 7 {
				return base.Foreground(colorCyan)
			}
			return base
		})
	return t.Render()
}
