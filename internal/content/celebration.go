package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"listingrelay/internal/types"
)

// minDeliveryHours floors the computed delivery duration so sub-hour
// turnarounds still read as "1 hours" rather than zero.
const minDeliveryHours = 1.0

var trailingOffsetRe = regexp.MustCompile(`[+-]\d{2}:\d{2}$`)

// isoLayouts are tried in order after the timestamp is stripped of its
// trailing zone designator.
var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DeliveryCelebration classifies how fast a video was delivered relative
// to the 48-hour promise. Both timestamps arrive as loosely ISO-8601
// strings from the upstream platform. When either timestamp is missing or
// unparsable, the result is the neutral default rather than an error or an
// invented duration.
func DeliveryCelebration(completedAt, createdAt string) types.Celebration {
	completed, ok := parseTimestamp(completedAt)
	if !ok {
		return defaultCelebration()
	}

	created, ok := parseTimestamp(createdAt)
	if !ok {
		return defaultCelebration()
	}

	hours := completed.Sub(created).Hours()
	if hours < minDeliveryHours {
		hours = minDeliveryHours
	}

	return celebrationForHours(hours)
}

// parseTimestamp accepts ISO-8601-like strings with or without a trailing
// "+HH:MM"/"-HH:MM" offset or "Z" suffix. Strings that still fail are
// retried against the bare date-time layout over their first 19
// characters.
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	clean := trailingOffsetRe.ReplaceAllString(raw, "")
	clean = strings.ReplaceAll(clean, "Z", "")

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, true
		}
	}

	if len(raw) >= 19 {
		if t, err := time.Parse("2006-01-02T15:04:05", raw[:19]); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func celebrationForHours(hours float64) types.Celebration {
	timeText := fmt.Sprintf("%d hours", int(hours))

	switch {
	case hours <= 6:
		return types.Celebration{
			IsEarly:        true,
			Icon:           "🚀",
			BadgeText:      "LIGHTNING FAST",
			Title:          "Incredible Speed!",
			Message:        "Your video was completed in record time! This exceptional speed showcases our commitment to excellence.",
			TimeText:       timeText,
			EfficiencyText: "Record-breaking delivery",
		}
	case hours <= 12:
		return types.Celebration{
			IsEarly:        true,
			Icon:           "⚡",
			BadgeText:      "SUPER FAST",
			Title:          "Exceptional Speed!",
			Message:        "We completed your video ahead of schedule! Your property deserved our fastest attention.",
			TimeText:       timeText,
			EfficiencyText: "Ahead of schedule",
		}
	case hours <= 24:
		return types.Celebration{
			IsEarly:        true,
			Icon:           "🎯",
			BadgeText:      "FAST DELIVERY",
			Title:          "Outstanding Service!",
			Message:        "Your video is ready early! We prioritized your project for quick turnaround.",
			TimeText:       timeText,
			EfficiencyText: "Early delivery",
		}
	case hours <= 36:
		return types.Celebration{
			IsEarly:        true,
			Icon:           "✨",
			BadgeText:      "EARLY DELIVERY",
			Title:          "Excellent Timing!",
			Message:        "Your video is ready ahead of our 48-hour promise! Quality delivered early.",
			TimeText:       timeText,
			EfficiencyText: "Delivered early",
		}
	default:
		return types.Celebration{
			IsEarly:        false,
			Icon:           "✅",
			BadgeText:      "ON TIME",
			Title:          "Professional Delivery",
			Message:        "Your video is ready as promised! Quality work delivered on schedule.",
			TimeText:       timeText,
			EfficiencyText: "Right on time",
		}
	}
}

func defaultCelebration() types.Celebration {
	return types.Celebration{
		IsEarly:        false,
		Icon:           "🎬",
		BadgeText:      "COMPLETED",
		Title:          "Your Video is Ready!",
		Message:        "Professional quality delivered with care and attention to detail.",
		TimeText:       "On schedule",
		EfficiencyText: "Professional delivery",
	}
}
