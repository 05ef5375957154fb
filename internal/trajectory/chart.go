package trajectory

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/posekit/internal/pose"
)

// RenderHTML writes a standalone page with an interactive 3D line chart of
// the camera centres. Assets load from the go-echarts CDN.
func RenderHTML(w io.Writer, title string, poses []pose.Matrix4) error {
	if len(poses) == 0 {
		return ErrNoPoses
	}

	data := make([]opts.Chart3DData, 0, len(poses))
	for i, c := range pose.CameraCenters(poses) {
		data = append(data, opts.Chart3DData{
			Name:  fmt.Sprintf("pose %d", i),
			Value: []interface{}{c.X, c.Y, c.Z},
		})
	}

	line := charts.NewLine3D()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("poses=%d", len(poses))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Show: opts.Bool(true)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Show: opts.Bool(true)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Show: opts.Bool(true)}),
	)
	line.AddSeries("camera centres", data)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render trajectory chart: %w", err)
	}
	return nil
}
