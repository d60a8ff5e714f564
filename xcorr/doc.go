// Package xcorr estimates the redshift of an observed spectrum by
// cross-correlating it with a template.
//
// Both spectra are resampled onto a shared logarithmic wavelength grid, where
// a redshift becomes a constant shift. After mean removal and a Tukey taper
// the correlation is evaluated for every shift with one forward and one
// inverse FFT. [Load] installs the result on a viewer so the
// cross-correlation view can plot it.
package xcorr
