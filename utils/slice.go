package utils

// UniqueStrings removes duplicate values from a slice, keeping first occurrences in order.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]bool, len(slice))
	list := make([]string, 0, len(slice))
	for _, entry := range slice {
		if keys[entry] {
			continue
		}
		keys[entry] = true
		list = append(list, entry)
	}
	return list
}
