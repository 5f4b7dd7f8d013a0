package application

import (
	"math/big"
	"sort"
	"strconv"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// OverallStats summarises every evaluation under an interview.
type OverallStats struct {
	TotalEvaluations        int
	AverageScore            float64
	VideoResponsesEvaluated int
	TotalVideoResponses     int
}

// VideoResponseStats summarises the evaluations of one video response.
type VideoResponseStats struct {
	VideoResponseID string
	Question        string
	QuestionIndex   int
	Applicant       domain.Identity
	AverageScore    float64
	MinScore        int
	MaxScore        int
	EvaluationCount int
}

// InterviewStats is the result of the statistics aggregation.
type InterviewStats struct {
	Overall        OverallStats
	VideoResponses []VideoResponseStats
}

type scoreGroup struct {
	sum   int
	count int
	min   int
	max   int
}

// aggregateStats groups evaluations by video response, joins each group to its
// video and submitter, and folds the per-group averages into overall figures.
// Groups whose video or submitter cannot be resolved are left out.
func aggregateStats(videos []domain.VideoResponse, evaluations []domain.Evaluation, applicants map[string]domain.Identity) InterviewStats {
	groups := make(map[string]*scoreGroup)
	for _, e := range evaluations {
		g, ok := groups[e.VideoResponseID]
		if !ok {
			groups[e.VideoResponseID] = &scoreGroup{sum: e.Score, count: 1, min: e.Score, max: e.Score}
			continue
		}
		g.sum += e.Score
		g.count++
		if e.Score < g.min {
			g.min = e.Score
		}
		if e.Score > g.max {
			g.max = e.Score
		}
	}

	byID := make(map[string]domain.VideoResponse, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	rows := make([]VideoResponseStats, 0, len(groups))
	for videoID, g := range groups {
		video, ok := byID[videoID]
		if !ok {
			continue
		}
		applicant, ok := applicants[video.UserID]
		if !ok {
			continue
		}
		rows = append(rows, VideoResponseStats{
			VideoResponseID: videoID,
			Question:        video.Question,
			QuestionIndex:   video.QuestionIndex,
			Applicant:       applicant.Public(),
			AverageScore:    storeRound1(float64(g.sum) / float64(g.count)),
			MinScore:        g.min,
			MaxScore:        g.max,
			EvaluationCount: g.count,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Applicant.Name != b.Applicant.Name {
			return a.Applicant.Name < b.Applicant.Name
		}
		if a.QuestionIndex != b.QuestionIndex {
			return a.QuestionIndex < b.QuestionIndex
		}
		return a.VideoResponseID < b.VideoResponseID
	})

	overall := OverallStats{
		VideoResponsesEvaluated: len(rows),
		TotalVideoResponses:     len(videos),
	}
	var weighted float64
	for _, row := range rows {
		overall.TotalEvaluations += row.EvaluationCount
		weighted += row.AverageScore * float64(row.EvaluationCount)
	}
	if overall.TotalEvaluations > 0 {
		overall.AverageScore = fixed1(weighted / float64(overall.TotalEvaluations))
	}

	return InterviewStats{Overall: overall, VideoResponses: rows}
}

// storeRound1 rounds to one decimal the way the document store's $round does:
// the double is read at 15 significant digits and ties go to the even digit.
func storeRound1(x float64) float64 {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(x, 'e', 14, 64))
	if !ok {
		return x
	}
	return roundTenths(r, true)
}

// fixed1 rounds the exact binary value of x to one decimal, ties upward.
func fixed1(x float64) float64 {
	r := new(big.Rat)
	if r.SetFloat64(x) == nil {
		return x
	}
	return roundTenths(r, false)
}

func roundTenths(r *big.Rat, tiesToEven bool) float64 {
	scaled := new(big.Rat).Mul(r, big.NewRat(10, 1))
	q, m := new(big.Int).DivMod(scaled.Num(), scaled.Denom(), new(big.Int))
	switch new(big.Int).Lsh(m, 1).Cmp(scaled.Denom()) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if !tiesToEven || q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	v, _ := new(big.Rat).SetFrac(q, big.NewInt(10)).Float64()
	return v
}
