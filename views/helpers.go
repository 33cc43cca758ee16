package views

import (
	"html/template"
	"strconv"
)

var funcs = template.FuncMap{
	"navClass":     NavClass,
	"pillClass":    PillClass,
	"outlineClass": OutlineClass,
	"px":           Px,
}

// NavClass returns CSS classes for a section navigation link.
func NavClass(active bool) string {
	base := "px-4 py-2 text-sm font-medium transition-all rounded-lg"
	if active {
		return base + " text-gray-100 bg-white/10"
	}
	return base + " text-gray-400 hover:text-gray-200 hover:bg-white/5"
}

// PillClass returns CSS classes for a category pill, with active variant.
func PillClass(active bool) string {
	base := "px-3 py-1.5 text-sm font-medium transition-all rounded-full"
	if active {
		return base + " text-gray-900 bg-green-300"
	}
	return base + " text-gray-600 bg-gray-200"
}

// OutlineClass indents outline entries by heading level.
func OutlineClass(level int) string {
	switch level {
	case 1:
		return "block py-2 text-sm text-gray-300 font-medium"
	case 2:
		return "block py-2 text-sm text-gray-400 pl-4"
	default:
		return "block py-2 text-sm text-gray-500 pl-8"
	}
}

// Px formats a pixel length for inline styles.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
