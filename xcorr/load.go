package xcorr

// Sink receives a scan result. [viewer.Viewer] implements it.
type Sink interface {
	SetTrace(name string, values []float64)
	SetXAxisTitle(traceName, title string)
	SetYAxisTitle(traceName, title string)
	SetVRule(name string, x float64)
	SetRedshift(z float64)
}

// Trace and rule names installed by [Load].
const (
	TraceRedshift    = "z"
	TraceCorrelation = "xcor"
	RuleBest         = "best"
)

// Load installs r as the z and xcor traces and marks the best redshift. The
// rule sits at zero and follows the viewer redshift, which is set to r.Best.
func Load(sink Sink, r Result) {
	sink.SetTrace(TraceRedshift, r.Redshifts)
	sink.SetTrace(TraceCorrelation, r.Correlation)
	sink.SetXAxisTitle(TraceRedshift, "Redshift")
	sink.SetYAxisTitle(TraceCorrelation, "Correlation")
	sink.SetVRule(RuleBest, 0)
	sink.SetRedshift(r.Best)
}
