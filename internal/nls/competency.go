package nls

import (
	"fmt"
	"strings"
)

const (
	SubjectTinHoc   = "TinHoc"
	SubjectCongNghe = "CongNghe"
)

// Lookup maps a competency code to its description. It is only read.
type Lookup map[string]string

// LessonInput is the part every operation shares.
type LessonInput struct {
	LessonTitle string
	Codes       []string
	Lookup      Lookup
	Grade       string
	Subject     string
}

type LessonPlanRequest struct {
	LessonInput
	InitialSuggestion string
}

type IntegrationRequest struct {
	LessonInput
	LessonPlanContent string
}

type AssessmentType string

const (
	AssessmentRubric AssessmentType = "rubric"
	AssessmentQuiz   AssessmentType = "quiz"
)

type AssessmentRequest struct {
	LessonInput
	Type AssessmentType
}

// RenderCompetencies writes one markdown bullet per code in input order.
// A code missing from lookup renders with an empty description.
func RenderCompetencies(codes []string, lookup Lookup) string {
	lines := make([]string, 0, len(codes))
	for _, code := range codes {
		lines = append(lines, fmt.Sprintf("- **%s:** %s", code, lookup[code]))
	}
	return strings.Join(lines, "\n")
}

func GradePhrase(grade string) string {
	if grade == "3" {
		return "Lớp 3 (8-9 tuổi)"
	}
	return fmt.Sprintf("Lớp %s (9-11 tuổi)", grade)
}

func SubjectName(subject string) string {
	if subject == SubjectTinHoc {
		return "Tin học"
	}
	return "Công nghệ"
}

func (in LessonInput) subject() string {
	if in.Subject == "" {
		return SubjectTinHoc
	}
	return in.Subject
}

func (in LessonInput) values() map[string]string {
	return map[string]string{
		"LessonTitle":  in.LessonTitle,
		"Grade":        in.Grade,
		"GradePhrase":  GradePhrase(in.Grade),
		"SubjectName":  SubjectName(in.subject()),
		"Competencies": RenderCompetencies(in.Codes, in.Lookup),
	}
}
