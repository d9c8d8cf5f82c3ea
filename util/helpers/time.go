package helpers

import "time"

const layout = "2006-01-02 15:04:05"

func FormatTime(t time.Time) string {
	return t.UTC().Format(layout)
}

// FormatEpoch formats unix seconds the way FormatTime does.
func FormatEpoch(sec uint64) string {
	return FormatTime(time.Unix(int64(sec), 0))
}
