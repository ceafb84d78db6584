package llm

import (
	"fmt"
	"strconv"
	"strings"

	"prawn-diagnosis/internal/domain/entity"
)

const systemInstruction = "You are an expert aquaculture consultant specializing in prawn/shrimp farming. " +
	"Answer in plain text without markdown headers or formatting."

const instructions = `Please provide:

1. ANALYSIS OF PRAWN HEALTH:
   - Assess overall health condition
   - Identify potential disease concerns
   - Evaluate nutritional status
   - Growth assessment

2. WATER QUALITY ASSESSMENT:
   - pH status and implications
   - TDS evaluation
   - Temperature suitability
   - Overall water quality rating

3. DIAGNOSES & ISSUES:
   - List all probable health issues in order of severity
   - Note connections between symptoms and environmental factors

4. DETAILED RECOMMENDATIONS:
   - Specific medication names with dosages for any detected diseases
   - Water quality adjustments needed
   - Feeding regime modifications if required
   - Mineral/supplement recommendations
   - Preventive measures

5. TIMELINE:
   - Expected recovery timeframe
   - Follow-up steps and monitoring recommendations

Be specific about medication names, chemicals and treatments. Include dosage information when recommending treatments.
Separate paragraphs with a blank line.`

// BuildPrompt собирает запрос к модели из результатов диагностики.
func BuildPrompt(q entity.QuestionnaireResponse, reading entity.SensorReading, detection *entity.DetectionResult) string {
	var b strings.Builder

	b.WriteString("Based on the following data, provide a comprehensive analysis of the current prawn health " +
		"and water conditions, and recommend specific actions including medications if needed.\n\n")

	b.WriteString("QUESTIONNAIRE RESPONSES:\n")
	for _, item := range q.Items() {
		fmt.Fprintf(&b, "Q%d: %s - %s\n", item.Number, item.Text, entity.YesNo(item.Value))
	}

	b.WriteString("\nSENSOR READINGS:\n")
	fmt.Fprintf(&b, "pH: %s (Ideal: 7.0-8.5)\n", formatFloat(reading.PH))
	fmt.Fprintf(&b, "TDS: %s ppm (Ideal: 1000-1500 ppm)\n", formatFloat(reading.TDS))
	fmt.Fprintf(&b, "Temperature: %s°C (Ideal: 28-32°C)\n", formatFloat(reading.Temperature))

	if detection != nil {
		b.WriteString("\nIMAGE ANALYSIS RESULTS:\n")
		fmt.Fprintf(&b, "- Main finding: %s\n", detection.Classification)
		fmt.Fprintf(&b, "- Confidence: %.1f%%\n", detection.Confidence*100)
		if len(detection.Conditions) > 0 {
			b.WriteString("- Detected diseases/conditions:\n")
			for _, cc := range detection.Conditions {
				fmt.Fprintf(&b, "  * %s: %d instances\n", cc.Label, cc.Count)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(instructions)
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
