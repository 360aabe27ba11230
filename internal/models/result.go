package models

type Recommendation string

const (
	RecommendationInterview Recommendation = "Interview"
	RecommendationReject    Recommendation = "Reject"
	RecommendationError     Recommendation = "Error"
)

type CacheStatus string

const (
	CacheHit  CacheStatus = "HIT"
	CacheMiss CacheStatus = "MISS"
)

// ScreeningResult is the body returned for POST /screen. The persisted cache
// entry is the same document with Cache left empty.
type ScreeningResult struct {
	CandidateName         string         `json:"candidate_name"`
	MatchScore            int            `json:"match_score"`
	KeyStrengths          []string       `json:"key_strengths"`
	MissingCriticalSkills []string       `json:"missing_critical_skills"`
	Recommendation        Recommendation `json:"recommendation"`
	Reasoning             string         `json:"reasoning"`
	Cache                 CacheStatus    `json:"cache,omitempty"`
	Error                 string         `json:"error,omitempty"`
}

// WithCache returns a copy of r annotated with the given cache status.
func (r ScreeningResult) WithCache(status CacheStatus) ScreeningResult {
	r.Cache = status
	return r
}

func (r ScreeningResult) Degraded() bool {
	return r.Recommendation == RecommendationError
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
