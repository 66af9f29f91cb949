package main

import (
	"playonctl/internal/recdb"
)

func episodeOrDash(rec recdb.Recording) string {
	if code := rec.EpisodeCode(); code != "" {
		return code
	}
	return "-"
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
