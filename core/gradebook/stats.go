package gradebook

import (
	"sort"
)

type (
	SubjectAverage struct {
		Subject string  `json:"subject"`
		Average float64 `json:"average"`
	}

	SubjectCount struct {
		Subject string  `json:"subject"`
		Count   int     `json:"count"`
		Percent float64 `json:"percent"`
	}

	Point struct {
		Date  string `json:"date"`
		Grade int    `json:"grade"`
	}

	Progress struct {
		Subject string  `json:"subject"`
		Points  []Point `json:"points"`
	}

	ReportCard struct {
		Student      string         `json:"student"`
		Scores       []Score        `json:"scores"`
		Average      float64        `json:"average"`
		BestSubject  string         `json:"best_subject"`
		Distribution []SubjectCount `json:"distribution"`
		Progress     []Progress     `json:"progress"`
	}
)

// Empty reports whether no grade has been recorded for the student yet.
func (rc ReportCard) Empty() bool { return len(rc.Scores) == 0 }

// NewReportCard computes the report card of student over scores, which must
// already be filtered down to that student.
func NewReportCard(student string, scores []Score) ReportCard {
	card := ReportCard{Student: student, Scores: scores}
	if len(scores) == 0 {
		card.Scores = []Score{}
		return card
	}
	card.Average = Mean(scores)
	card.BestSubject, _ = BestSubject(scores)
	card.Distribution = Distribution(scores)
	card.Progress = ProgressBySubject(scores)
	return card
}

// Mean is the arithmetic mean of all grades; 0 when scores is empty.
func Mean(scores []Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum int
	for _, s := range scores {
		sum += s.Grade
	}
	return float64(sum) / float64(len(scores))
}

// SubjectAverages groups scores by subject and averages each group.
// The result is ordered by subject name.
func SubjectAverages(scores []Score) []SubjectAverage {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, s := range scores {
		sums[s.Subject] += s.Grade
		counts[s.Subject]++
	}

	avgs := make([]SubjectAverage, 0, len(sums))
	for subject, sum := range sums {
		avgs = append(avgs, SubjectAverage{Subject: subject, Average: float64(sum) / float64(counts[subject])})
	}
	sort.Slice(avgs, func(i, j int) bool { return avgs[i].Subject < avgs[j].Subject })
	return avgs
}

// BestSubject returns the subject with the highest average grade.
// Ties go to the subject that sorts first. ok is false when scores is empty.
func BestSubject(scores []Score) (subject string, ok bool) {
	var best float64
	for _, avg := range SubjectAverages(scores) {
		if !ok || avg.Average > best {
			subject, best, ok = avg.Subject, avg.Average, true
		}
	}
	return subject, ok
}

// Distribution counts scores per subject, most frequent first.
// Equal counts keep the order in which subjects first appear.
func Distribution(scores []Score) []SubjectCount {
	index := make(map[string]int)
	var dist []SubjectCount
	for _, s := range scores {
		i, ok := index[s.Subject]
		if !ok {
			i = len(dist)
			index[s.Subject] = i
			dist = append(dist, SubjectCount{Subject: s.Subject})
		}
		dist[i].Count++
	}
	sort.SliceStable(dist, func(i, j int) bool { return dist[i].Count > dist[j].Count })

	for i := range dist {
		dist[i].Percent = float64(dist[i].Count) * 100 / float64(len(scores))
	}
	return dist
}

// ProgressBySubject splits scores into one series per subject, subjects in
// order of first appearance and points by date. Points of the same date keep
// their row order.
func ProgressBySubject(scores []Score) []Progress {
	index := make(map[string]int)
	var series []Progress
	for _, s := range scores {
		i, ok := index[s.Subject]
		if !ok {
			i = len(series)
			index[s.Subject] = i
			series = append(series, Progress{Subject: s.Subject})
		}
		series[i].Points = append(series[i].Points, Point{Date: s.Date, Grade: s.Grade})
	}
	for _, prog := range series {
		pts := prog.Points
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	}
	return series
}

// DistinctStudents returns every student name once, in order of first appearance.
func DistinctStudents(scores []Score) []string {
	seen := make(map[string]bool)
	students := make([]string, 0)
	for _, s := range scores {
		if !seen[s.Student] {
			seen[s.Student] = true
			students = append(students, s.Student)
		}
	}
	return students
}
