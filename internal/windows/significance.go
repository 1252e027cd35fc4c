package windows

// filterInput is everything shouldFilter looks at.
type filterInput struct {
	videoID         int64
	country         string
	live            bool
	contractIDs     []int64
	unfilteredCount int
	start, end      int64
}

// shouldFilter reports whether a window's contract data cannot affect the
// output, in which case it is only tracked by contract id. The first
// matching rule wins.
func shouldFilter(res Resolver, t Toggles, in filterInput) bool {
	now := res.NowMillis()

	if in.end < now {
		return true
	}

	if !in.live {
		needed := false
		for _, id := range in.contractIDs {
			if c, ok := res.Contract(in.videoID, in.country, id); ok && c.NeedsWindowData() {
				needed = true
				break
			}
		}
		if !needed {
			return true
		}
	}

	if in.unfilteredCount < t.UnfilteredQuota && in.end > now {
		return false
	}

	return in.start > now+t.FutureCutoff.Milliseconds()
}
