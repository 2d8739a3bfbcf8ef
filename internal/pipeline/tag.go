package pipeline

import "time"

// tag attaches the tag and condition sets — stage 4 of the ingestion
// tick.
func tag(c scoredCandidate, now time.Time) taggedCandidate {
	var tags []string

	if c.discountPercentage > 50 {
		tags = append(tags, "flash_deal")
	} else if c.discountPercentage < 15 {
		tags = append(tags, "minor_discount")
	}

	remaining := c.validUntil.Sub(now)
	if remaining < 24*time.Hour {
		tags = append(tags, "expires_soon")
	} else if remaining < 168*time.Hour {
		tags = append(tags, "limited_time")
	}

	if c.dealType == "flight" {
		if remaining < 48*time.Hour {
			tags = append(tags, "last_minute")
		} else {
			tags = append(tags, "advance_booking")
		}
		tags = append(tags, "non-refundable")
		if c.changeableFee {
			tags = append(tags, "changeable with fee")
		}
	} else if c.dealType == "hotel" {
		tags = append(tags, "weekend_getaway")
	}

	if c.aiScore > 80 {
		tags = append(tags, "top_pick")
	} else if c.aiScore > 60 {
		tags = append(tags, "good_value")
	}

	return taggedCandidate{scoredCandidate: c, tags: tags}
}
