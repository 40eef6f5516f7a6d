package gemini

import "google.golang.org/genai"

// Response schemas for the structured-output calls. Every JSON call declares
// one of these so the model is constrained to the expected shape; anything
// that still fails to decode is treated like a transport failure.

var subtopicsSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

var questionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"id":   {Type: genai.TypeString, Description: "A unique identifier for the question"},
		"text": {Type: genai.TypeString, Description: "The scenario and the question itself"},
		"options": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Exactly 4 multiple choice options",
		},
	},
	Required: []string{"text", "options"},
}

var validationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"status":        {Type: genai.TypeString, Enum: []string{"correct", "incorrect", "deviating"}},
		"feedback":      {Type: genai.TypeString, Description: "Detailed feedback or explanation"},
		"hint":          {Type: genai.TypeString, Description: "A hint if they have attempts left"},
		"shouldProceed": {Type: genai.TypeBoolean, Description: "True if correct OR if max attempts reached"},
		"correctAnswer": {Type: genai.TypeString, Description: "The full text of the correct option"},
	},
	Required: []string{"status", "feedback", "shouldProceed"},
}

var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"overallScore": {Type: genai.TypeNumber},
		"summary":      {Type: genai.TypeString},
		"weakAreas":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"strongAreas":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"suggestedResources": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": {Type: genai.TypeString},
					"url":   {Type: genai.TypeString},
				},
			},
		},
	},
	Required: []string{"overallScore", "summary", "weakAreas", "suggestedResources"},
}
