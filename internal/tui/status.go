package tui

import (
	"fmt"
	"strings"
)

// Short status messages shown in the footer.
const (
	MsgNeedQuery      = "Enter a search term first"
	MsgAlreadyLoading = "A search is already running"
	MsgCancelled      = "Search cancelled"
	MsgLoadingDetail  = "Rendering details…"
	MsgNoGallery      = "No images for this result set"
	MsgNoFilterHits   = "No matching results"
	MsgDismissed      = "Dismissed"
)

func MsgSearching(query string) string {
	return fmt.Sprintf("Searching for '%s'…", strings.TrimSpace(query))
}

// MsgResultsCount reports shown results against the catalog's total.
func MsgResultsCount(shown, total int) string {
	noun := "results"
	if shown == 1 {
		noun = "result"
	}
	if total > shown {
		return fmt.Sprintf("%d %s of %d", shown, noun, total)
	}
	return fmt.Sprintf("%d %s", shown, noun)
}

func MsgFiltered(matched, total int) string {
	return fmt.Sprintf("%d of %d match", matched, total)
}

func MsgOpened(url string) string {
	return "Opened " + truncateMiddle(url, 60)
}
