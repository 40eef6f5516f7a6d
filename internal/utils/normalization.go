package utils

import "strings"

// NormalizeTopic collapses runs of whitespace in a user-typed topic.
func NormalizeTopic(topic string) string {
	return strings.Join(strings.Fields(topic), " ")
}
