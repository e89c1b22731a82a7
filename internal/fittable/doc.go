// Package fittable reads GILDAS-CLASS Gaussian fit catalogs into memory.
//
// A catalog is one CSV file per source named {source}_rrls_fit.csv. Only the
// first 14 columns are read; the Upper, Lower, Freq[MHz], Tpeak, and Species
// columns are parsed into typed fields and Delta_n is derived once per row.
// All other columns are kept verbatim so a corrected table can be written back
// out with its original layout.
package fittable
