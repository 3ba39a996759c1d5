package evaluation

import (
	"testing"

	"github.com/tmbraz/rotacheck/core/question"
)

func TestCalcScore(t *testing.T) {
	catalog3 := []question.Question{
		{ID: 1, GoodWhenYes: true},
		{ID: 2, GoodWhenYes: false},
		{ID: 3, GoodWhenYes: true},
	}

	tests := []struct {
		name    string
		answers []Answer
		catalog []question.Question
		want    float64
	}{
		{name: "empty answers", answers: nil, catalog: catalog3, want: 0},
		{name: "empty catalog", answers: []Answer{{QuestionID: 1, Value: true}}, catalog: nil, want: 0},
		{name: "empty everything", answers: nil, catalog: nil, want: 0},
		{
			name: "all good",
			answers: []Answer{
				{QuestionID: 1, Value: true},
				{QuestionID: 2, Value: false},
				{QuestionID: 3, Value: true},
			},
			catalog: catalog3,
			want:    1,
		},
		{
			name: "2 good of 3",
			answers: []Answer{
				{QuestionID: 1, Value: true},
				{QuestionID: 2, Value: true}, // bad: good answer is "no"
				{QuestionID: 3, Value: true},
			},
			catalog: catalog3,
			want:    0.67,
		},
		{
			name: "1 good of 3",
			answers: []Answer{
				{QuestionID: 1, Value: false},
				{QuestionID: 2, Value: true},
				{QuestionID: 3, Value: true},
			},
			catalog: catalog3,
			want:    0.33,
		},
		{
			name: "duplicate answers count once",
			answers: []Answer{
				{QuestionID: 1, Value: true},
				{QuestionID: 1, Value: true}, // repeated good answer must not inflate past 1
				{QuestionID: 2, Value: false},
				{QuestionID: 3, Value: true},
			},
			catalog: catalog3,
			want:    1,
		},
		{
			name: "orphan answers ignored",
			answers: []Answer{
				{QuestionID: 1, Value: true},
				{QuestionID: 3, Value: true},
				{QuestionID: 99, Value: true}, // unknown question id
			},
			catalog: catalog3,
			want:    0.67,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcScore(tt.answers, tt.catalog)
			if got != tt.want {
				t.Errorf("CalcScore() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("CalcScore() = %v, out of [0,1]", got)
			}
		})
	}
}

func TestCalcScore_deterministic(t *testing.T) {
	catalog := []question.Question{{ID: 1, GoodWhenYes: true}, {ID: 2, GoodWhenYes: false}}
	answers := []Answer{{QuestionID: 1, Value: true}, {QuestionID: 2, Value: true}}

	first := CalcScore(answers, catalog)
	for i := 0; i < 100; i++ {
		if got := CalcScore(answers, catalog); got != first {
			t.Fatalf("CalcScore() not deterministic: %v != %v", got, first)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.665, want: 0.67}, // half rounds away from zero
		{in: 0.664, want: 0.66},
		{in: 0.6666666, want: 0.67},
		{in: 0, want: 0},
		{in: 1, want: 1},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
