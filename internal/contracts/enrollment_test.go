package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrollmentHasGrade(t *testing.T) {
	grade := 3.5

	tests := []struct {
		name string
		e    Enrollment
		want bool
	}{
		{
			name: "completed with grade",
			e:    Enrollment{Status: StatusCompleted, Grade: &grade},
			want: true,
		},
		{
			name: "completed without grade",
			e:    Enrollment{Status: StatusCompleted},
			want: false,
		},
		{
			name: "in progress with stale grade",
			e:    Enrollment{Status: StatusInProgress, Grade: &grade},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.e.HasGrade())
		})
	}
}

func TestProfileAgeOrDefault(t *testing.T) {
	age := 23

	p := Profile{Age: &age}
	assert.Equal(t, 23, p.AgeOrDefault(20))

	p = Profile{}
	assert.Equal(t, 20, p.AgeOrDefault(20))
}

func TestCourseTopicCount(t *testing.T) {
	c := Course{Topics: []string{"algebra", "calculus"}}
	assert.Equal(t, 2, c.TopicCount())

	c = Course{}
	assert.Equal(t, 0, c.TopicCount())
}
