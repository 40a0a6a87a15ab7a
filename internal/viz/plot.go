package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders one series as an ASCII line chart of the given size.
// Series longer than the width are downsampled by averaging buckets.
func PlotSeries(data []float64, w, h int, caption string) (string, error) {
	if len(data) < 2 {
		return "", fmt.Errorf("need at least 2 samples to plot, got %d", len(data))
	}
	if w > 0 && len(data) > w {
		data = downsample(data, w)
	}
	opts := []asciigraph.Option{asciigraph.Height(h), asciigraph.Caption(caption)}
	if w > 0 {
		opts = append(opts, asciigraph.Width(w))
	}
	return asciigraph.Plot(data, opts...), nil
}

func downsample(data []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		lo := i * len(data) / n
		hi := (i + 1) * len(data) / n
		sum := 0.0
		for _, v := range data[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
