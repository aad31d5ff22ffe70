package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Question estructura para representar una pregunta del banco
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   []int    `json:"answer"`
}

// UnmarshalJSON acepta identificadores numéricos o de texto
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Question string          `json:"question"`
		Options  []string        `json:"options"`
		Answer   []int           `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	q.ID = id
	q.Question = raw.Question
	q.Options = raw.Options
	q.Answer = raw.Answer
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid question id %s", raw)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// QuestionsData estructura para el JSON completo cuando viene envuelto con metadatos
type QuestionsData struct {
	Questions []Question `json:"questions"`
	Metadata  struct {
		Total       int    `json:"totalQuestions"`
		Version     string `json:"version"`
		LastUpdated string `json:"lastUpdated"`
		Description string `json:"description"`
	} `json:"metadata"`
}

// PreparedQuestion es la vista barajada de una pregunta tal como se muestra.
// OptionOrder[d] es el índice original de la opción mostrada en la posición d.
type PreparedQuestion struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectDisplay []int    `json:"correct_display"`
	OptionOrder    []int    `json:"option_order"`
}

// FieldName nombre del campo de formulario para la pregunta
func (p PreparedQuestion) FieldName() string {
	return FieldName(p.ID)
}

// FieldName devuelve el nombre del campo de formulario para un id de pregunta
func FieldName(id string) string {
	return "q_" + id
}

// APIResponse estructura estándar para respuestas de API
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
