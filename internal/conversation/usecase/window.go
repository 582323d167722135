package usecase

import "conversational-commerce/internal/conversation"

// trimTurns keeps the newest maxExchanges user turns, each with the replies
// that followed it, and never more than 2*maxExchanges turns overall.
func trimTurns(turns []conversation.Turn, maxExchanges int) []conversation.Turn {
	users := 0
	for _, t := range turns {
		if t.Role == conversation.RoleUser {
			users++
		}
	}

	start := 0
	for users > maxExchanges && start < len(turns) {
		// Drop the oldest user turn and everything up to the next user turn.
		if turns[start].Role == conversation.RoleUser {
			users--
		}
		start++
		for start < len(turns) && turns[start].Role != conversation.RoleUser {
			start++
		}
	}

	if limit := 2 * maxExchanges; len(turns)-start > limit {
		start = len(turns) - limit
	}
	if start == 0 {
		return turns
	}
	return append([]conversation.Turn(nil), turns[start:]...)
}

func applyUpdate(c *conversation.Context, upd conversation.Update) {
	if upd.ActiveCartRef != nil {
		c.ActiveCartRef = *upd.ActiveCartRef
	}
	if upd.LastSearchQuery != nil {
		c.LastSearchQuery = *upd.LastSearchQuery
	}
	if upd.ShippingAddress != nil {
		addr := make(map[string]string, len(upd.ShippingAddress))
		for k, v := range upd.ShippingAddress {
			addr[k] = v
		}
		c.ShippingAddress = addr
	}
	if upd.Preferences != nil {
		if c.Preferences == nil {
			c.Preferences = make(map[string]any, len(upd.Preferences))
		}
		for k, v := range upd.Preferences {
			if v == nil {
				delete(c.Preferences, k)
				continue
			}
			c.Preferences[k] = v
		}
	}
	if s := upd.ProductSearch; s != nil {
		c.LastSearchQuery = s.Query
		c.RecentSearches = append(c.RecentSearches, *s)
		if n := len(c.RecentSearches); n > MaxRecentSearches {
			c.RecentSearches = append([]conversation.ProductSearch(nil), c.RecentSearches[n-MaxRecentSearches:]...)
		}
	}
	if p := upd.ProductView; p != nil {
		kept := c.RecentProducts[:0:0]
		for _, existing := range c.RecentProducts {
			if existing.ProductID != p.ProductID {
				kept = append(kept, existing)
			}
		}
		kept = append(kept, *p)
		if n := len(kept); n > MaxRecentProducts {
			kept = kept[n-MaxRecentProducts:]
		}
		c.RecentProducts = kept
	}
}
