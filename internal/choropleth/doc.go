// Package choropleth joins per-country populism metrics onto boundary
// features and computes the fill, stroke and tooltip of every feature.
//
// A render pass works on one snapshot: a metrics Index, a FilterState and a
// Selection. Everything in this package is pure; binding the same inputs
// twice yields identical output.
package choropleth
