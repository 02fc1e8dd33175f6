// Package ranking orders content items by a deterministic quality score.
// Scores exist only to produce order; they are recomputed per run and never
// persisted as a contract.
package ranking

import (
	"math"
	"sort"

	"DailyDigest/internal/domain"
)

// MovieScore balances the vote average against statistical confidence from
// the sample size, so a 9.0 with 3 votes does not outrank a 7.5 with 50000.
// Score = voteAverage * log10(voteCount + 1); absent inputs score 0.
func MovieScore(m domain.Movie) float64 {
	if m.VoteAverage == nil || m.VoteCount == nil {
		return 0.0
	}
	return *m.VoteAverage * math.Log10(float64(*m.VoteCount)+1)
}

// TVScore uses the same formula as movies.
func TVScore(s domain.TVShow) float64 {
	if s.VoteAverage == nil || s.VoteCount == nil {
		return 0.0
	}
	return *s.VoteAverage * math.Log10(float64(*s.VoteCount)+1)
}

// GameScore combines the Metacritic score (0-100) with the user rating (0-5)
// scaled to 0-20. Absent fields contribute 0 rather than disqualifying.
func GameScore(g domain.Game) float64 {
	score := 0.0
	if g.Metacritic != nil {
		score += float64(*g.Metacritic)
	}
	if g.Rating != nil {
		score += *g.Rating * 4
	}
	return score
}

// RankMovies returns movies sorted descending by score. The sort is stable:
// equal scores keep their input order. Nil input yields an empty slice.
func RankMovies(movies []domain.Movie) []domain.Movie {
	ranked := make([]domain.Movie, len(movies))
	copy(ranked, movies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return MovieScore(ranked[i]) > MovieScore(ranked[j])
	})
	return ranked
}

// RankTVShows returns TV shows sorted descending by score.
func RankTVShows(shows []domain.TVShow) []domain.TVShow {
	ranked := make([]domain.TVShow, len(shows))
	copy(ranked, shows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return TVScore(ranked[i]) > TVScore(ranked[j])
	})
	return ranked
}

// RankGames returns games sorted descending by score.
func RankGames(games []domain.Game) []domain.Game {
	ranked := make([]domain.Game, len(games))
	copy(ranked, games)
	sort.SliceStable(ranked, func(i, j int) bool {
		return GameScore(ranked[i]) > GameScore(ranked[j])
	})
	return ranked
}
