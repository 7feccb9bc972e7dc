package service

import (
	"sort"

	"github.com/reelmatch/reelmatch-server-go/internal/model"
)

// ComputeMatches returns the deck movies every participant explicitly
// liked. A participant who never swiped a movie is absent from its likers
// set, so that movie cannot match; matching requires a positive swipe from
// everyone, not merely "nobody disliked it". Output follows deck order, so
// the result is independent of swipe order.
func ComputeMatches(deck []int64, swipes []model.Swipe, participantIDs []string) []int64 {
	if len(participantIDs) == 0 {
		return []int64{}
	}

	likers := make(map[int64]map[string]struct{})
	for _, s := range swipes {
		if !s.Liked {
			continue
		}
		if likers[s.MovieID] == nil {
			likers[s.MovieID] = make(map[string]struct{})
		}
		likers[s.MovieID][s.UserID] = struct{}{}
	}

	matches := make([]int64, 0)
	for _, movieID := range deck {
		set, liked := likers[movieID]
		if !liked || len(set) < len(participantIDs) {
			continue
		}
		all := true
		for _, id := range participantIDs {
			if _, ok := set[id]; !ok {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, movieID)
		}
	}

	return matches
}

// PreMatch is a movie saved by more than one user, with its saver count.
type PreMatch struct {
	MovieID int64 `json:"movieId"`
	Savers  int   `json:"savers"`
}

// ComputePreMatches intersects independently maintained saved-movie lists:
// any movie saved by more than one user qualifies, ranked by descending
// distinct-saver count (movie ID ascending as tiebreak), capped to limit.
func ComputePreMatches(saved []model.SavedMovie, limit int) []PreMatch {
	savers := make(map[int64]map[string]struct{})
	for _, s := range saved {
		if savers[s.MovieID] == nil {
			savers[s.MovieID] = make(map[string]struct{})
		}
		savers[s.MovieID][s.UserID] = struct{}{}
	}

	result := make([]PreMatch, 0)
	for movieID, set := range savers {
		if len(set) > 1 {
			result = append(result, PreMatch{MovieID: movieID, Savers: len(set)})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Savers != result[j].Savers {
			return result[i].Savers > result[j].Savers
		}
		return result[i].MovieID < result[j].MovieID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
