// Package placeholder renders the SVG fallbacks for the hero graphic.
//
// Both templates depend only on package constants, so the same template
// always renders to the same bytes.
package placeholder

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.svg.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.svg.tmpl"))

const (
	Title         = "WE ARE THE FUTURE"
	BasicSubtitle = "Revolutionary Platform Automation by Fort AI Agency"
	Tagline       = "Revolutionary AI-Powered Platform Automation"
	Brand         = "FORT AI AGENCY"

	BasicWidth    = 800
	EnhancedWidth = 1024
	Height        = 400

	gridSpacing   = 50
	verticalLines = 20

	// horizontal guides stop short of the bottom edge
	horizontalLines = 8

	streamCount   = 5
	streamOffsetY = 80
	streamGapY    = 60

	// durations are kept in tenths of a second
	streamBaseTenths = 15
	streamStepTenths = 3
)

// Line is a straight SVG line segment.
type Line struct {
	X1, Y1, X2, Y2 int
}

// DataStream is one animated horizontal line of the enhanced template.
type DataStream struct {
	Y      int
	tenths int
}

// Seconds formats the animation duration the way SVG expects, e.g. "1.8".
func (d DataStream) Seconds() string {
	return fmt.Sprintf("%d.%d", d.tenths/10, d.tenths%10)
}

// Duration returns the animation duration.
func (d DataStream) Duration() time.Duration {
	return time.Duration(d.tenths) * 100 * time.Millisecond
}

type basicData struct {
	Width, Height, CenterX int
	Title, Subtitle        string
	Network                []Line
}

type enhancedData struct {
	Width, Height, CenterX int
	Title, Tagline, Brand  string
	Grid                   []Line
	Streams                []DataStream
}

// Basic renders the 800x400 placeholder used when no credential is set.
func Basic() string {
	return render("basic.svg.tmpl", basicData{
		Width:    BasicWidth,
		Height:   Height,
		CenterX:  BasicWidth / 2,
		Title:    Title,
		Subtitle: BasicSubtitle,
		Network:  network(),
	})
}

// Enhanced renders the 1024x400 placeholder used after a failed remote call.
func Enhanced() string {
	return render("enhanced.svg.tmpl", enhancedData{
		Width:   EnhancedWidth,
		Height:  Height,
		CenterX: EnhancedWidth / 2,
		Title:   Title,
		Tagline: Tagline,
		Brand:   Brand,
		Grid:    GridLines(),
		Streams: DataStreams(),
	})
}

// network is the sparse line graph of the basic template. There is a
// deliberate gap between x=400 and x=500 behind the title.
func network() []Line {
	return []Line{
		{100, 200, 200, 150},
		{200, 150, 300, 200},
		{300, 200, 400, 180},
		{500, 220, 600, 180},
		{600, 180, 700, 220},
	}
}

// GridLines returns the vertical guides followed by the horizontal guides.
func GridLines() []Line {
	lines := make([]Line, 0, verticalLines+horizontalLines)
	for i := 0; i < verticalLines; i++ {
		x := i * gridSpacing
		lines = append(lines, Line{X1: x, Y1: 0, X2: x, Y2: Height})
	}
	for i := 0; i < horizontalLines; i++ {
		y := i * gridSpacing
		lines = append(lines, Line{X1: 0, Y1: y, X2: EnhancedWidth, Y2: y})
	}
	return lines
}

// DataStreams returns the animated lines; line i sits at y = 80 + 60i and
// animates over 1.5 + 0.3i seconds.
func DataStreams() []DataStream {
	streams := make([]DataStream, streamCount)
	for i := range streams {
		streams[i] = DataStream{
			Y:      streamOffsetY + i*streamGapY,
			tenths: streamBaseTenths + i*streamStepTenths,
		}
	}
	return streams
}

func render(name string, data any) string {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		// templates and data are fixed; this only fires on a broken build
		panic(fmt.Sprintf("placeholder: render %s: %v", name, err))
	}
	return sb.String()
}
