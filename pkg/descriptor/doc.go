// Package descriptor defines the declarative field descriptions consumed by
// the form engine. A Document is an ordered collection of Descriptor records;
// each record names the state key it writes to, the widget it renders (one of
// a closed set of FieldType values), its category and intra-category order,
// and the auxiliary widgets (photo picker, comment box, help bubble) attached
// to it. Documents are decoded from JSON arrays or YAML sequences using the
// field keys of the original form spec (`fieldid`, `fieldName`, `dropVals`,
// `inputReq`, ...). Loaders reside in internal/descriptor/loader but satisfy
// the Loader contract defined here.
package descriptor
