package contracts

// Course difficulty levels (static reference data)
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Course represents a course catalog record
// ⭐ SSOT: 코스 스키마는 여기서만 정의
type Course struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Credits     int      `json:"credits"`
	Difficulty  string   `json:"difficulty"` // Beginner | Intermediate | Advanced
	Topics      []string `json:"topics"`
	Department  string   `json:"department"`
}

// TopicCount returns the number of topics attached to the course
func (c *Course) TopicCount() int {
	return len(c.Topics)
}
