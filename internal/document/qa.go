package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultQAEndpoint = "https://api-inference.huggingface.co/models"
	DefaultQAModel    = "deepset/roberta-base-squad2"

	maxAnswerLength = 100
)

// Answer is an extracted span and the model's confidence in it.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score"`
}

// QuestionAnswerer extracts an answer to question from contextText.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, contextText string) (Answer, error)
}

// HFQuestionAnswerer calls a Hugging Face style question-answering inference
// endpoint.
type HFQuestionAnswerer struct {
	url   string
	token string
	http  *http.Client
}

func NewHFQuestionAnswerer(endpoint, model, token string, timeout time.Duration) *HFQuestionAnswerer {
	if endpoint == "" {
		endpoint = DefaultQAEndpoint
	}
	if model == "" {
		model = DefaultQAModel
	}
	return &HFQuestionAnswerer{
		url:   strings.TrimRight(endpoint, "/") + "/" + model,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

type qaRequest struct {
	Inputs struct {
		Question string `json:"question"`
		Context  string `json:"context"`
	} `json:"inputs"`
	Parameters struct {
		MaxAnswerLen int `json:"max_answer_len"`
	} `json:"parameters"`
}

func (c *HFQuestionAnswerer) Answer(ctx context.Context, question, contextText string) (Answer, error) {
	var body qaRequest
	body.Inputs.Question = question
	body.Inputs.Context = contextText
	body.Parameters.MaxAnswerLen = maxAnswerLength

	payload, err := json.Marshal(body)
	if err != nil {
		return Answer{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Answer{}, fmt.Errorf("call qa endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Answer{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Answer{}, fmt.Errorf("qa endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return decodeAnswer(raw)
}

// decodeAnswer accepts a single answer object or a ranked list of them.
func decodeAnswer(raw []byte) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []Answer
		if err := json.Unmarshal(raw, &list); err != nil {
			return Answer{}, fmt.Errorf("decode answers: %w", err)
		}
		if len(list) == 0 {
			return Answer{}, errors.New("qa endpoint returned no answers")
		}
		return list[0], nil
	}
	var a Answer
	if err := json.Unmarshal(raw, &a); err != nil {
		return Answer{}, fmt.Errorf("decode answer: %w", err)
	}
	return a, nil
}
