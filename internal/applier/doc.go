// Package applier turns filled fillables into files in the consumer project.
//
// Each fillable moves through Loaded, PreHooked, Rendered, Stripped,
// PostHooked, Placed and Cleaned. Fillables are applied one at a time in
// sorted order. The Generator runs the opposite direction: it scans a
// package's config objects and writes fresh fillables.
package applier
