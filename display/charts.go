package epicycle

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/cmplx"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gorilla/mux"
	Ep "github.com/maroda/epicycle/plugin"
	Mt "github.com/maroda/epicycle/types"
	"gonum.org/v1/plot/vg"
)

const plotSide = 5 * vg.Inch

// PlotHandler renders the named set as it is right now: outline and bars
func (v *View) PlotHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	fs, frame, ok := v.snapshot(name)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown line: %s", name), http.StatusNotFound)
		return
	}

	p, err := Ep.TracePlot(name, frame.Trace, frame.Bars, fs.OutlineColour.NRGBA(), fs.BarColour.NRGBA())
	if err != nil {
		slog.Error("Could not plot line", slog.String("set", name), slog.Any("Error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	wt, err := p.WriterTo(plotSide, plotSide, "png")
	if err != nil {
		slog.Error("Could not render plot", slog.String("set", name), slog.Any("Error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		slog.Error("Could not write plot", slog.Any("Error", err))
	}
}

// SpectrumHandler is an HTML bar chart of coefficient magnitude by frequency
func (v *View) SpectrumHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	fs, _, ok := v.snapshot(name)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown line: %s", name), http.StatusNotFound)
		return
	}

	bar := SpectrumChart(name, fs.Bars)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		slog.Error("Could not render spectrum", slog.String("set", name), slog.Any("Error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// SpectrumChart orders the coefficients by frequency, lowest first
func SpectrumChart(name string, coeffs []Mt.Coefficient) *charts.Bar {
	sorted := slices.Clone(coeffs)
	slices.SortFunc(sorted, func(a, b Mt.Coefficient) int {
		return int(a.Freq) - int(b.Freq)
	})

	labels := make([]string, len(sorted))
	data := make([]opts.BarData, len(sorted))
	for i, c := range sorted {
		labels[i] = strconv.Itoa(int(c.Freq))
		data[i] = opts.BarData{Value: cmplx.Abs(c.Amp)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Epicycle spectrum", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: name, Subtitle: fmt.Sprintf("%d coefficients", len(sorted))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "k"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "|c_k|"}),
	)
	bar.SetXAxis(labels).AddSeries("magnitude", data)

	return bar
}
