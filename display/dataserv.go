package epicycle

import (
	"encoding/json"
	"math/cmplx"
	"net/http"

	"github.com/gorilla/mux"
	Es "github.com/maroda/epicycle/server"
	Mt "github.com/maroda/epicycle/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket streaming every frame
// - Version for programmatic use
// - Line data, plots and spectra for UI feedback
func (v *View) SetupMux() http.Handler {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler)
	api.HandleFunc("/sets", v.SetsDataHandler)
	api.HandleFunc("/sets/{name}/plot.png", v.PlotHandler)
	api.HandleFunc("/sets/{name}/spectrum", v.SpectrumHandler)

	return otelhttp.NewHandler(r, "epicycle")
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

type CoefficientData struct {
	Freq int16   `json:"freq"`
	Re   float64 `json:"re"`
	Im   float64 `json:"im"`
	Mag  float64 `json:"mag"`
}

type SetData struct {
	Name         string            `json:"name"`
	Points       int               `json:"points"`
	Samples      int               `json:"samples"`
	State        string            `json:"state"`
	PercentFull  float64           `json:"percentFull"`
	Cycle        int               `json:"cycle"`
	Coefficients []CoefficientData `json:"coefficients"`
}

func (v *View) SetsDataHandler(w http.ResponseWriter, r *http.Request) {
	v.MU.Lock()
	allSets := make([]SetData, 0, len(v.Sets))
	for _, fs := range v.Sets {
		coeffs := make([]CoefficientData, len(fs.Bars))
		for i, c := range fs.Bars {
			coeffs[i] = CoefficientData{
				Freq: c.Freq,
				Re:   real(c.Amp),
				Im:   imag(c.Amp),
				Mag:  cmplx.Abs(c.Amp),
			}
		}

		allSets = append(allSets, SetData{
			Name:         fs.Name,
			Points:       fs.N,
			Samples:      fs.Outline.Size,
			State:        fs.State().String(),
			PercentFull:  Es.FloatPrecise(fs.Outline.PercentFull()*100, 2),
			Cycle:        fs.Cycle(),
			Coefficients: coeffs,
		})
	}
	v.MU.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(allSets)
}

// snapshot is a read-only frame of the named set at the current clock time
func (v *View) snapshot(name string) (*Es.FourierSet, Mt.Frame, bool) {
	v.MU.Lock()
	defer v.MU.Unlock()

	for _, fs := range v.Sets {
		if fs.Name == name {
			return fs, Mt.Frame{
				Set:   fs.Name,
				T:     v.Clock.T,
				Bars:  Es.BarChain(fs.Bars, v.Clock.T),
				Trace: fs.Outline.ReadPadded(),
			}, true
		}
	}
	return nil, Mt.Frame{}, false
}
