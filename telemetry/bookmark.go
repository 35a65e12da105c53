package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHoneyMilestone   BookmarkType = "honey_milestone"
	BookmarkRateBreakthrough BookmarkType = "rate_breakthrough"
	BookmarkMeadowCrash      BookmarkType = "meadow_crash"
	BookmarkHiveBacklog      BookmarkType = "hive_backlog"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the hive economy.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	nextMilestone   float64 // next honey total that triggers a milestone
	recentPollenMax float64 // peak mean flower pollen in recent history
	backlogWindows  int     // consecutive windows with growing stored pollen
	lastStored      float64
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for backlog detection
	}
	return &BookmarkDetector{
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		nextMilestone: 100,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Honey milestone: stock crossed the next power of ten
	if b := bd.checkHoneyMilestone(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Rate breakthrough: honey rate > 2x rolling average
		if b := bd.checkRateBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Meadow crash: mean flower pollen dropped >50% from recent peak
		if b := bd.checkMeadowCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Hive backlog: stored pollen grew for 5 windows in a row
		if b := bd.checkHiveBacklog(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.FlowerPollenMean > bd.recentPollenMax {
		bd.recentPollenMax = stats.FlowerPollenMean
	}
	bd.lastStored = stats.StoredPollen

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkHoneyMilestone(stats WindowStats) *Bookmark {
	if stats.Honey < bd.nextMilestone {
		return nil
	}

	reached := bd.nextMilestone
	for bd.nextMilestone <= stats.Honey {
		reached = bd.nextMilestone
		bd.nextMilestone *= 10
	}

	return &Bookmark{
		Type:        BookmarkHoneyMilestone,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Honey reached %.0f (now %.1f)", reached, stats.Honey),
	}
}

func (bd *BookmarkDetector) checkRateBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.HoneyRate
	}
	avgRate := total / float64(len(history))

	if avgRate == 0 {
		return nil
	}

	if stats.HoneyRate > avgRate*2.0 && stats.HoneyRate > 0.5 {
		return &Bookmark{
			Type:        BookmarkRateBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Honey rate %.2f/s is %.1fx average (%.2f)", stats.HoneyRate, stats.HoneyRate/avgRate, avgRate),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkMeadowCrash(stats WindowStats) *Bookmark {
	if bd.recentPollenMax == 0 {
		return nil
	}

	drop := 1.0 - stats.FlowerPollenMean/bd.recentPollenMax
	if drop > 0.5 {
		// Reset peak after crash
		oldPeak := bd.recentPollenMax
		bd.recentPollenMax = stats.FlowerPollenMean

		return &Bookmark{
			Type:        BookmarkMeadowCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean flower pollen fell %.0f%% from %.1f to %.1f", drop*100, oldPeak, stats.FlowerPollenMean),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkHiveBacklog(stats WindowStats) *Bookmark {
	if stats.StoredPollen > bd.lastStored {
		bd.backlogWindows++
	} else {
		bd.backlogWindows = 0
	}

	if bd.backlogWindows == 5 { // trigger exactly once per run of growth
		return &Bookmark{
			Type:        BookmarkHiveBacklog,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stored pollen grew for 5 windows to %.1f; conversion is the bottleneck", stats.StoredPollen),
		}
	}

	return nil
}
