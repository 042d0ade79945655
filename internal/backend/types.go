package backend

// Analysis statuses reported by the resume analysis endpoint.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusComplete   = "COMPLETE"
	StatusFailed     = "FAILED"
)

// ResumeUpload is the response to a resume upload.
type ResumeUpload struct {
	ResumeID string `json:"resume_id" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETE FAILED"`
}

// AnalysisStatus is one poll of a resume analysis.
type AnalysisStatus struct {
	ResumeID string   `json:"resume_id" validate:"required"`
	Status   string   `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETE FAILED"`
	Skills   []string `json:"skills,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Terminal reports whether polling can stop.
func (a AnalysisStatus) Terminal() bool {
	return a.Status == StatusComplete || a.Status == StatusFailed
}

// Job is a listing returned by search or recommendations.
type Job struct {
	ID          string   `json:"id" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	URL         string   `json:"url" validate:"omitempty,url"`
	Salary      string   `json:"salary,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	MatchScore  float64  `json:"match_score,omitempty" validate:"gte=0,lte=100"`
}

// JobList wraps job search and recommendation responses.
type JobList struct {
	Jobs  []Job `json:"jobs" validate:"dive"`
	Total int   `json:"total" validate:"gte=0"`
}

// JobSearchRequest filters a job search.
type JobSearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Page     int    `json:"page" validate:"gte=0"`
}

// JobRecommendationRequest asks for jobs matching a skill set.
type JobRecommendationRequest struct {
	Skills []string `json:"skills" validate:"required,min=1"`
	Limit  int      `json:"limit,omitempty" validate:"gte=0,lte=50"`
}

// QuizRequest asks the backend to generate assessment questions.
type QuizRequest struct {
	Kind       string   `json:"kind" validate:"required,oneof=aptitude mcq coding behavioral scenario"`
	Skills     []string `json:"skills,omitempty"`
	Count      int      `json:"count" validate:"gte=1,lte=50"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// QuizQuestion is one generated question. IDs may be absent; callers assign positional ones.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Type          string   `json:"type"`
	Options       []string `json:"options" validate:"max=4"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Points        int      `json:"points" validate:"gte=0"`
	TimeLimit     int      `json:"time_limit" validate:"gte=0"`
}

// QuizResponse holds generated questions.
type QuizResponse struct {
	Questions []QuizQuestion `json:"questions" validate:"required,min=1,dive"`
	TimeLimit int            `json:"time_limit,omitempty" validate:"gte=0"`
}

// EvaluationRequest carries the parallel id/letter arrays for scoring.
type EvaluationRequest struct {
	AssessmentID       string   `json:"assessment_id,omitempty"`
	Kind               string   `json:"kind"`
	QuestionIDs        []string `json:"question_ids" validate:"required"`
	SelectedOptions    []string `json:"selected_options" validate:"required,dive,oneof=A B C D"`
	SkippedQuestionIDs []string `json:"skipped_question_ids,omitempty"`
	TimeTakenSeconds   int      `json:"time_taken_seconds" validate:"gte=0"`
}

// QuestionResult is the backend's verdict for one question.
type QuestionResult struct {
	QuestionID    string `json:"question_id" validate:"required"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// EvaluationResponse is the authoritative score for a submission.
type EvaluationResponse struct {
	Score          float64          `json:"score" validate:"gte=0,lte=100"`
	TotalQuestions int              `json:"total_questions" validate:"gte=0"`
	CorrectAnswers int              `json:"correct_answers" validate:"gte=0,ltefield=TotalQuestions"`
	Results        []QuestionResult `json:"results" validate:"dive"`
	Feedback       string           `json:"feedback,omitempty"`
}

// PerformanceStats are the derived numbers sent to both analysis endpoints.
type PerformanceStats struct {
	OverallScore   float64 `json:"overall_score" validate:"gte=0,lte=100"`
	TotalQuestions int     `json:"total_questions" validate:"gte=0"`
	Accuracy       float64 `json:"accuracy" validate:"gte=0,lte=100"`
	TimeEfficiency float64 `json:"time_efficiency" validate:"gte=0"`
}

// PerformanceGapRequest asks for a performance-gap analysis.
type PerformanceGapRequest struct {
	Kind  string           `json:"kind"`
	Stats PerformanceStats `json:"stats"`
	Wrong []string         `json:"incorrect_question_ids,omitempty"`
}

// Gap is one weak area.
type Gap struct {
	Area     string `json:"area" validate:"required"`
	Severity string `json:"severity,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// PerformanceGapAnalysis is the gap-analysis response.
type PerformanceGapAnalysis struct {
	Summary string `json:"summary"`
	Gaps    []Gap  `json:"gaps" validate:"dive"`
}

// SkillRecommendationRequest asks for skill recommendations.
type SkillRecommendationRequest struct {
	Stats     PerformanceStats `json:"stats"`
	Skills    []string         `json:"skills,omitempty"`
	WeakAreas []string         `json:"weak_areas,omitempty"`
}

// SkillRecommendation is one suggested skill to develop.
type SkillRecommendation struct {
	Skill     string   `json:"skill" validate:"required"`
	Reason    string   `json:"reason,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// SkillRecommendations is the recommendations response.
type SkillRecommendations struct {
	Recommendations []SkillRecommendation `json:"recommendations" validate:"dive"`
}

// Transcription is the transcription endpoint's response.
type Transcription struct {
	Text string `json:"text"`
}
