package models

import "time"

// Submission valores crudos enviados por pregunta (id -> valores del formulario)
type Submission map[string][]string

// QuestionDetail detalle por pregunta dentro de un resultado
type QuestionDetail struct {
	QID            string   `json:"qid"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectDisplay []int    `json:"correct_display"`
	Chosen         []int    `json:"chosen"`
	Score          int      `json:"score"`
}

// Correct indica si la pregunta se respondió exactamente
func (d QuestionDetail) Correct() bool {
	return d.Score > 0
}

// ResultRecord resultado persistido de un intento
type ResultRecord struct {
	Timestamp  time.Time        `json:"timestamp"`
	TotalScore int              `json:"total_score"`
	MaxScore   int              `json:"max_score"`
	Percent    float64          `json:"percent"`
	Details    []QuestionDetail `json:"details"`
}

// ResultSummary resumen que se muestra y se difunde tras guardar un resultado
type ResultSummary struct {
	File      string    `json:"file"`
	Total     int       `json:"total"`
	MaxScore  int       `json:"max_score"`
	Percent   float64   `json:"percent"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary construye el resumen del resultado guardado en file
func (r ResultRecord) Summary(file string) ResultSummary {
	return ResultSummary{
		File:      file,
		Total:     r.TotalScore,
		MaxScore:  r.MaxScore,
		Percent:   r.Percent,
		Timestamp: r.Timestamp,
	}
}
