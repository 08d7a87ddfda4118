// Package ui holds the color themes shared by the benchmark table printer and
// the live dashboard. Themes are process-wide and honor NO_COLOR.
package ui
