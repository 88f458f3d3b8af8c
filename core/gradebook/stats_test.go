package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aliScores = []Score{
	{Student: "علی محمدی", Subject: "ریاضی", Grade: 4, Date: "2024-01-15"},
	{Student: "علی محمدی", Subject: "ریاضی", Grade: 3, Date: "2024-02-20"},
	{Student: "علی محمدی", Subject: "علوم", Grade: 2, Date: "2024-01-10"},
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 3.0, Mean(aliScores), 1e-9)
	assert.InDelta(t, 2.5, Mean([]Score{{Grade: 1}, {Grade: 4}}), 1e-9)
}

func TestSubjectAverages(t *testing.T) {
	scores := append([]Score{
		{Student: "رضا کریمی", Subject: "ریاضی", Grade: 3},
		{Student: "سارا احمدی", Subject: "ادبیات", Grade: 4},
	}, aliScores...)

	avgs := SubjectAverages(scores)
	require.Len(t, avgs, 3)
	assert.Equal(t, SubjectAverage{Subject: "ادبیات", Average: 4}, avgs[0])
	assert.Equal(t, "ریاضی", avgs[1].Subject)
	assert.InDelta(t, 10.0/3, avgs[1].Average, 1e-9)
	assert.Equal(t, SubjectAverage{Subject: "علوم", Average: 2}, avgs[2])

	assert.Empty(t, SubjectAverages(nil))
}

func TestBestSubject(t *testing.T) {
	tests := []struct {
		name   string
		scores []Score
		want   string
		wantOK bool
	}{
		{name: "empty", scores: nil, want: "", wantOK: false},
		{name: "highest average", scores: aliScores, want: "ریاضی", wantOK: true},
		{
			name: "tie goes to first sorted",
			scores: []Score{
				{Subject: "علوم", Grade: 3},
				{Subject: "ادبیات", Grade: 3},
			},
			want:   "ادبیات",
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestSubject(tt.scores)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistribution(t *testing.T) {
	dist := Distribution(aliScores)
	require.Len(t, dist, 2)
	assert.Equal(t, SubjectCount{Subject: "ریاضی", Count: 2, Percent: 200.0 / 3}, dist[0])
	assert.Equal(t, SubjectCount{Subject: "علوم", Count: 1, Percent: 100.0 / 3}, dist[1])

	t.Run("ties keep first-seen order", func(t *testing.T) {
		dist := Distribution([]Score{
			{Subject: "هنر", Grade: 1},
			{Subject: "ادبیات", Grade: 2},
		})
		require.Len(t, dist, 2)
		assert.Equal(t, "هنر", dist[0].Subject)
		assert.Equal(t, "ادبیات", dist[1].Subject)
		assert.Equal(t, 50.0, dist[0].Percent)
	})
}

func TestProgressBySubject(t *testing.T) {
	series := ProgressBySubject(aliScores)
	require.Len(t, series, 2)
	assert.Equal(t, Progress{
		Subject: "ریاضی",
		Points:  []Point{{Date: "2024-01-15", Grade: 4}, {Date: "2024-02-20", Grade: 3}},
	}, series[0])
	assert.Equal(t, Progress{
		Subject: "علوم",
		Points:  []Point{{Date: "2024-01-10", Grade: 2}},
	}, series[1])

	t.Run("earlier date recorded last", func(t *testing.T) {
		scores := append(append([]Score{}, aliScores...),
			Score{Student: "علی محمدی", Subject: "ریاضی", Grade: 2, Date: "2024-01-01"},
			Score{Student: "علی محمدی", Subject: "ریاضی", Grade: 1, Date: "2024-01-15"},
		)
		series := ProgressBySubject(scores)
		require.Len(t, series, 2)
		assert.Equal(t, []Point{
			{Date: "2024-01-01", Grade: 2},
			{Date: "2024-01-15", Grade: 4},
			{Date: "2024-01-15", Grade: 1},
			{Date: "2024-02-20", Grade: 3},
		}, series[0].Points)
	})
}

func TestNewReportCard(t *testing.T) {
	card := NewReportCard("علی محمدی", aliScores)
	assert.False(t, card.Empty())
	assert.InDelta(t, 3.0, card.Average, 1e-9)
	assert.Equal(t, "ریاضی", card.BestSubject)
	assert.Len(t, card.Distribution, 2)
	assert.Len(t, card.Progress, 2)

	empty := NewReportCard("مریم حسینی", nil)
	assert.True(t, empty.Empty())
	assert.NotNil(t, empty.Scores)
	assert.Zero(t, empty.Average)
	assert.Empty(t, empty.BestSubject)
}

func TestDistinctStudents(t *testing.T) {
	scores := []Score{
		{Student: "رضا کریمی"},
		{Student: "علی محمدی"},
		{Student: "رضا کریمی"},
	}
	assert.Equal(t, []string{"رضا کریمی", "علی محمدی"}, DistinctStudents(scores))
	assert.Equal(t, []string{}, DistinctStudents(nil))
}
