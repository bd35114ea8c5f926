// Package state holds the aggregated form record. Values are a closed variant
// (string, integer with a NaN sentinel, file reference) so consumers cannot
// misread a field's kind, and State updates are copy-on-write.
package state
