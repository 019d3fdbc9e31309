package output

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"roomload/allocation"
)

// RenderOccupancyChart writes an HTML page with one stacked bar chart of
// occupied and vacant rooms per slot for every occupied day.
func RenderOccupancyChart(w io.Writer, grid allocation.Grid) error {
	page := components.NewPage()
	page.PageTitle = "Room occupancy"
	page.SetLayout(components.PageFlexLayout)

	for _, day := range grid.Days {
		page.AddCharts(dayChart(day, len(grid.Rooms)))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render occupancy chart: %w", err)
	}
	return nil
}

// WriteOccupancyChart renders the chart page into the file at path.
func WriteOccupancyChart(path string, grid allocation.Grid) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart output %s: %w", path, err)
	}
	defer file.Close()

	return RenderOccupancyChart(file, grid)
}

func dayChart(day allocation.Day, totalRooms int) *charts.Bar {
	labels := make([]string, 0, len(day.Slots))
	occupied := make([]opts.BarData, 0, len(day.Slots))
	vacant := make([]opts.BarData, 0, len(day.Slots))
	for _, slot := range day.Slots {
		labels = append(labels, slot.Slot.Label)
		occupied = append(occupied, opts.BarData{Name: slot.Slot.Label, Value: slot.OccupiedCount})
		vacant = append(vacant, opts.BarData{Name: slot.Slot.Label, Value: slot.VacantCount})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    day.Label,
			Subtitle: fmt.Sprintf("%d rooms", totalRooms),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rooms"}),
	)

	bar.SetXAxis(labels).
		AddSeries("Occupied", occupied, charts.WithBarChartOpts(opts.BarChart{Stack: "rooms"})).
		AddSeries("Vacant", vacant, charts.WithBarChartOpts(opts.BarChart{Stack: "rooms"}))

	return bar
}
