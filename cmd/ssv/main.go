// Command ssv renders Marz spectra as Vega chart specifications.
//
// Usage:
//
//	ssv spec main|callout|xcorr [flags] spectrum.json
//	ssv watch main|callout|xcorr --out chart.json [flags] spectrum.json
//	ssv lines
//	ssv config init [path]
//
// Examples:
//
//	ssv spec main spectrum.json > chart.json
//	ssv spec main --template templates.json --redshift 0.3 --pin 6500,12 spectrum.json
//	ssv spec xcorr --template templates.json --zmax 2 spectrum.json
//	ssv spec callout --lite --xmin 6400 --xmax 6700 spectrum.json
//	ssv watch main --out chart.json spectrum.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ssv:", err)
		os.Exit(1)
	}
}
