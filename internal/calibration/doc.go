// Package calibration converts RRL peak temperatures between the antenna (Ta)
// and main-beam (Tmb) scales.
//
// Each supported telescope is identified by the frequency band its receivers
// cover. Band A is the IRAM-30m range above 70 GHz and Band B is the Yebes-40m
// Q band between 30 and 50 GHz. The empirical polynomials are reproduced with
// their published constants; callers get the same factors to the last bit.
//
// Every function here is pure and safe for concurrent use.
package calibration
