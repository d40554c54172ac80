package domain

// Route colors, cycled by vehicle index.
// The map overlays and the legend both go through RouteColor so they never disagree.
var Palette = [...]string{"#1d4ed8", "#be185d", "#ca8a04", "#16a34a"}

func RouteColor(i int) string {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}
