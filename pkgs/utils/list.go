package utils

// Duplicates returns the items that occur more than once, in order of their
// second occurrence.
func Duplicates[T comparable](slice []T) []T {
	seen := make(map[T]int, len(slice))
	var dups []T
	for _, item := range slice {
		seen[item]++
		if seen[item] == 2 {
			dups = append(dups, item)
		}
	}
	return dups
}
