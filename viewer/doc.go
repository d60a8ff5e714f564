// Package viewer builds layered Vega-Lite descriptions of an astronomical
// spectrum and compiles them for rendering.
//
// A [Viewer] combines a trace store, overlay state, a template catalog and a
// capability registry. Three views are produced from that state:
//
//   - the primary view ([Viewer.MainSpec]) with smoothing, secondary traces,
//     a rescaled template overlay, spectral lines and the pick pin;
//   - the callout view ([Viewer.CalloutSpec]), a static variant scaled to
//     the full extent of the y-axis trace;
//   - the cross-correlation view ([Viewer.CrossCorrelationSpec]) plotting
//     correlation against redshift with a marker at the current z.
//
// The Build* methods return the uncompiled [vegalite.Spec]. The compiled
// variants re-attach the custom signals that the compiler drops.
//
// All rows are materialized from the x-axis trace; every non-empty trace
// must have the same length.
package viewer
