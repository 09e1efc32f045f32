// Package webmentionclient implements a webmention.io-compatible JF2
// client and a file-based cache collaborator.
package webmentionclient

// Webmention is one inbound cross-site reference record.
type Webmention struct {
	WmID       int    `json:"wm-id"`
	WmSource   string `json:"wm-source"`
	WmTarget   string `json:"wm-target"`
	WmProperty string `json:"wm-property"`
	WmReceived string `json:"wm-received"`
	Author     any    `json:"author,omitempty"`
	Content    any    `json:"content,omitempty"`
	Published  string `json:"published,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Cache is the merged, persisted webmention state for one target URL.
type Cache struct {
	LastWmID    *int         `json:"lastWmId"`
	Children    []Webmention `json:"children"`
	ReplyCount  int          `json:"reply-count"`
	LikeCount   int          `json:"like-count"`
	RepostCount int          `json:"repost-count"`
}

// RecomputeCounts sets ReplyCount/LikeCount/RepostCount from Children.
func (c *Cache) RecomputeCounts() {
	c.ReplyCount, c.LikeCount, c.RepostCount = 0, 0, 0
	for _, child := range c.Children {
		switch child.WmProperty {
		case "in-reply-to":
			c.ReplyCount++
		case "like-of":
			c.LikeCount++
		case "repost-of":
			c.RepostCount++
		}
	}
}

// Merge folds fresh into the cache, deduplicating by wm-id.
func (c *Cache) Merge(fresh []Webmention) {
	if len(fresh) == 0 {
		return
	}
	byID := make(map[int]Webmention, len(c.Children)+len(fresh))
	for _, child := range c.Children {
		byID[child.WmID] = child
	}
	for _, child := range fresh {
		byID[child.WmID] = child
	}

	merged := make([]Webmention, 0, len(byID))
	for _, child := range byID {
		merged = append(merged, child)
	}
	c.Children = merged
	c.RecomputeCounts()

	// step 5: lastWmId becomes the most-recent fresh id (the
	// endpoint returns newest-first), trusting the endpoint's ordering
	// rather than taking max(cached, fresh) — an endpoint could in
	// principle return ids out of numeric order across pagination bounds.
	freshLatest := fresh[0].WmID
	c.LastWmID = &freshLatest
}
