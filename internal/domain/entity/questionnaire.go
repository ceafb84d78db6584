package entity

// QuestionCount число вопросов анкеты.
const QuestionCount = 10

// Questions тексты вопросов в порядке показа.
var Questions = [QuestionCount]string{
	"Is the growth rate good?",
	"Is the food intake good?",
	"Are the weather conditions good?",
	"Is the pond affected by whitegutt previously?",
	"Is the plankton growth more or optimal?",
	"Are minerals provided 3-4 times every month?",
	"Is the estimated count matched with manual count?",
	"Are nearby ponds more affected by viruses?",
	"Are prawns losing shell at the correct time?",
	"Any shell loose cases in pond?",
}

// QuestionnaireResponse ответы фермера да/нет, q1..q10 по порядку.
type QuestionnaireResponse struct {
	Answers [QuestionCount]bool
}

// Answer вопрос вместе с ответом.
type Answer struct {
	Number int    // номер вопроса с 1
	Text   string // текст вопроса
	Value  bool   // ответ фермера
}

// NewQuestionnaireResponse собирает ответы в порядке q1..q10.
func NewQuestionnaireResponse(answers ...bool) QuestionnaireResponse {
	var q QuestionnaireResponse
	copy(q.Answers[:], answers)
	return q
}

// YesCount считает ответы «да».
func (q QuestionnaireResponse) YesCount() int {
	n := 0
	for _, a := range q.Answers {
		if a {
			n++
		}
	}
	return n
}

// Items возвращает ответы вместе с текстами вопросов.
func (q QuestionnaireResponse) Items() []Answer {
	items := make([]Answer, QuestionCount)
	for i, a := range q.Answers {
		items[i] = Answer{Number: i + 1, Text: Questions[i], Value: a}
	}
	return items
}

// YesNo выводит ответ как Yes/No.
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
