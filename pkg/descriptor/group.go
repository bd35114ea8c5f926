package descriptor

import "sort"

// Group is one visual section: every descriptor sharing a category.
type Group struct {
	Category string
	Fields   []Descriptor
}

// GroupByCategory partitions fields by category. Groups follow the order in
// which each category first appears; fields inside a group are sorted by
// Order, keeping the input order on ties. The input slice is not modified.
func GroupByCategory(fields []Descriptor) []Group {
	if len(fields) == 0 {
		return nil
	}

	var groups []Group
	index := make(map[string]int)
	for _, field := range fields {
		pos, ok := index[field.Category]
		if !ok {
			pos = len(groups)
			index[field.Category] = pos
			groups = append(groups, Group{Category: field.Category})
		}
		groups[pos].Fields = append(groups[pos].Fields, field)
	}

	for i := range groups {
		sort.SliceStable(groups[i].Fields, func(a, b int) bool {
			return groups[i].Fields[a].Order < groups[i].Fields[b].Order
		})
	}
	return groups
}
