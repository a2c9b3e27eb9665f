package service

import "time"

type Source string

const (
	SourceCache Source = "cache"
	SourceDB    Source = "database"
)

type ListStats struct {
	Source  Source
	CacheMs float64
	DBMs    float64
}

type CreateStats struct {
	DBWriteMs float64
}

func convertToMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
