// Package trajectory renders camera trajectories from loaded poses: a
// top-down PNG via gonum/plot and an interactive 3D HTML chart via
// go-echarts.
package trajectory

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/posekit/internal/fsutil"
	"github.com/banshee-data/posekit/internal/monitoring"
	"github.com/banshee-data/posekit/internal/pose"
)

// ErrNoPoses is returned when there is nothing to draw.
var ErrNoPoses = errors.New("trajectory: no poses")

// Plane selects the two world axes drawn by the PNG plotter.
type Plane string

const (
	// PlaneXZ is the ground plane in the vision convention (Y down).
	PlaneXZ Plane = "xz"
	// PlaneXY is the ground plane in Z-up conventions.
	PlaneXY Plane = "xy"
)

// project returns the plotted coordinates of v.
func (p Plane) project(v r3.Vec) (float64, float64) {
	if p == PlaneXY {
		return v.X, v.Y
	}
	return v.X, v.Z
}

func (p Plane) labels() (string, string) {
	if p == PlaneXY {
		return "X", "Y"
	}
	return "X", "Z"
}

// Plotter draws a camera path with a short heading tick per pose.
type Plotter struct {
	FS     fsutil.FileSystem
	Title  string
	Plane  Plane
	Width  vg.Length
	Height vg.Length

	// MaxHeadings caps the number of heading ticks; poses are strided to
	// fit. Zero draws none.
	MaxHeadings int
	// HeadingLength is the tick length in world units. Zero derives it
	// from the trajectory extent.
	HeadingLength float64
}

// NewPlotter creates a plotter writing through fsys with defaults.
func NewPlotter(fsys fsutil.FileSystem) *Plotter {
	return &Plotter{
		FS:          fsys,
		Title:       "Camera trajectory",
		Plane:       PlaneXZ,
		Width:       8 * vg.Inch,
		Height:      8 * vg.Inch,
		MaxHeadings: 200,
	}
}

// Plot builds the trajectory plot for poses.
func (p *Plotter) Plot(poses []pose.Matrix4) (*plot.Plot, error) {
	if len(poses) == 0 {
		return nil, ErrNoPoses
	}

	centers := pose.CameraCenters(poses)
	path := make(plotter.XYs, len(centers))
	for i, c := range centers {
		path[i].X, path[i].Y = p.Plane.project(c)
	}

	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text, pl.Y.Label.Text = p.Plane.labels()
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(path)
	if err != nil {
		return nil, fmt.Errorf("trajectory line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	pl.Add(line)
	pl.Legend.Add("path", line)

	start, err := plotter.NewScatter(path[:1])
	if err != nil {
		return nil, fmt.Errorf("trajectory start: %w", err)
	}
	start.Color = color.RGBA{G: 160, A: 255}
	start.Radius = vg.Points(4)
	pl.Add(start)
	pl.Legend.Add("start", start)

	if p.MaxHeadings > 0 {
		length := p.HeadingLength
		if length <= 0 {
			length = headingLength(path)
		}
		stride := (len(poses) + p.MaxHeadings - 1) / p.MaxHeadings
		for i := 0; i < len(poses); i += stride {
			fx, fy := p.Plane.project(poses[i].ForwardAxis())
			tick := plotter.XYs{
				{X: path[i].X, Y: path[i].Y},
				{X: path[i].X + fx*length, Y: path[i].Y + fy*length},
			}
			l, err := plotter.NewLine(tick)
			if err != nil {
				// Non-finite rotation; skip the tick but keep the path.
				monitoring.Logf("trajectory: skipping heading for pose %d: %v", i, err)
				continue
			}
			l.Width = vg.Points(0.5)
			l.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
			pl.Add(l)
		}
	}

	return pl, nil
}

// WritePNG renders poses and writes a PNG to path, creating parent
// directories as needed.
func (p *Plotter) WritePNG(path string, poses []pose.Matrix4) (err error) {
	pl, err := p.Plot(poses)
	if err != nil {
		return err
	}

	if err := p.FS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	wt, err := pl.WriterTo(p.Width, p.Height, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	f, err := p.FS.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close plot file: %w", cerr)
		}
	}()

	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	monitoring.Logf("trajectory: wrote %d poses to %s", len(poses), path)
	return nil
}

// headingLength is 5% of the larger extent of the path, or 1 for a
// stationary camera.
func headingLength(path plotter.XYs) float64 {
	xmin, xmax, ymin, ymax := plotter.XYRange(path)
	extent := xmax - xmin
	if h := ymax - ymin; h > extent {
		extent = h
	}
	if extent == 0 {
		return 1
	}
	return extent * 0.05
}
