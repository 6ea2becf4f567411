package domain

import "strings"

func NormalizeLabelName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LabelSnapshot собирает имена меток в строку для журнала событий
func LabelSnapshot(labels []*Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}
