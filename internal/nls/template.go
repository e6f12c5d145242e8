package nls

import (
	"bytes"
	"fmt"
	"text/template"
)

const fence = "```"

const suggestionSystemPrompt = `Bạn là giáo viên {{.SubjectName}} tiểu học giàu kinh nghiệm. Nhiệm vụ: Gợi ý hoạt động dạy học sáng tạo phát triển Năng lực số (NLS) cho học sinh.`

const suggestionPrompt = `Gợi ý hoạt động cho bài: "{{.LessonTitle}}" ({{.GradePhrase}}, {{.SubjectName}}).
Phát triển NLS:
{{.Competencies}}
Yêu cầu: Trả lời tiếng Việt, Markdown, ngắn gọn.`

const lessonPlanPrompt = `Soạn giáo án chi tiết bài: "{{.LessonTitle}}" lớp {{.Grade}}, môn {{.SubjectName}}.
Tích hợp NLS:
{{.Competencies}}
Dựa trên ý tưởng: {{.InitialSuggestion}}
Yêu cầu: Trả lời tiếng Việt, Markdown. Nêu rõ mục tiêu, chuẩn bị, tiến trình các hoạt động và chỉ ra hoạt động nào phát triển NLS nào.`

const integrationPrompt = `Tích hợp các Năng lực số (NLS) sau vào giáo án {{.SubjectName}} ({{.GradePhrase}}) bên dưới:
{{.Competencies}}
Yêu cầu: Giữ nguyên cấu trúc và nội dung giáo án, bổ sung hoạt động và ghi chú NLS vào đúng vị trí, trả về toàn bộ giáo án dạng Markdown.
Giáo án:
` + fence + `markdown
{{.LessonPlan}}
` + fence

const rubricPrompt = `Tạo phiếu đánh giá (Rubric) cho bài: "{{.LessonTitle}}" ({{.GradePhrase}}), môn {{.SubjectName}}.
NLS cần đánh giá:
{{.Competencies}}
Yêu cầu:
- Trình bày dạng bảng Markdown (Markdown Table).
- Có 3-4 mức độ đánh giá (ví dụ: Chưa đạt, Đạt, Tốt, Xuất sắc).
- Tiêu chí phù hợp lứa tuổi học sinh, ngôn ngữ khích lệ, tích cực.`

const quizPrompt = `Tạo 5 câu hỏi trắc nghiệm cho bài: "{{.LessonTitle}}" ({{.GradePhrase}}), môn {{.SubjectName}}.
NLS cần đánh giá:
{{.Competencies}}
Yêu cầu:
- Đúng 5 câu hỏi, mỗi câu có 4 lựa chọn A, B, C, D.
- Có đáp án và giải thích ngắn gọn cho từng câu.
- Trình bày bằng Markdown, ngôn ngữ phù hợp học sinh tiểu học.`

var (
	suggestionSystemTmpl = template.Must(template.New("suggestion_system").Parse(suggestionSystemPrompt))
	suggestionTmpl       = template.Must(template.New("suggestion").Parse(suggestionPrompt))
	lessonPlanTmpl       = template.Must(template.New("lesson_plan").Parse(lessonPlanPrompt))
	integrationTmpl      = template.Must(template.New("integration").Parse(integrationPrompt))
	rubricTmpl           = template.Must(template.New("rubric").Parse(rubricPrompt))
	quizTmpl             = template.Must(template.New("quiz").Parse(quizPrompt))
)

func generatePrompt(tmpl *template.Template, values map[string]string) (string, error) {
	var prompt bytes.Buffer
	if err := tmpl.Execute(&prompt, values); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	return prompt.String(), nil
}

func SuggestionPrompt(in LessonInput) (system string, prompt string, err error) {
	values := in.values()
	if system, err = generatePrompt(suggestionSystemTmpl, values); err != nil {
		return "", "", err
	}
	prompt, err = generatePrompt(suggestionTmpl, values)
	return system, prompt, err
}

func LessonPlanPrompt(req LessonPlanRequest) (string, error) {
	values := req.values()
	values["InitialSuggestion"] = req.InitialSuggestion
	return generatePrompt(lessonPlanTmpl, values)
}

func IntegrationPrompt(req IntegrationRequest) (string, error) {
	values := req.values()
	values["LessonPlan"] = req.LessonPlanContent
	return generatePrompt(integrationTmpl, values)
}

// AssessmentPrompt picks the rubric template for AssessmentRubric and the quiz template otherwise.
func AssessmentPrompt(req AssessmentRequest) (string, error) {
	if req.Type == AssessmentRubric {
		return generatePrompt(rubricTmpl, req.values())
	}
	return generatePrompt(quizTmpl, req.values())
}
