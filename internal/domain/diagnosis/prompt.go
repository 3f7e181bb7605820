package diagnosis

import "fmt"

// buildPrompt renders the instruction sent to the model. The model is asked
// for strict JSON with a fixed closing note so the response can be parsed
// and rendered without further interpretation.
func buildPrompt(symptoms string) string {
	return fmt.Sprintf(`
You are an expert medical assistant. Based on these symptoms:
%q

Provide a JSON response with this structure:
{
  "diagnosis": "Brief possible condition",
  "remedies": ["Remedy 1", "Remedy 2", ...],
  "precautions": ["Precaution 1", "Precaution 2", ...],
  "specialists": ["Specialist 1", "Specialist 2", ...],
  "note": "Consult a doctor for proper diagnosis."
}

- Do NOT include medicine names.
- Keep remedies and precautions practical.
- Specialists should be relevant (e.g., "Cardiologist" for heart issues).
- Always end note with "Consult a doctor for proper diagnosis."
- Respond ONLY with valid JSON. No extra text.
`, symptoms)
}
