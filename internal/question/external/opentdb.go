package external

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"html"
	"net/http"
	"net/url"
	"time"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/question"
)

// maxAmount is the most questions Open Trivia DB returns per call.
const maxAmount = 50

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch asks for amount questions of one difficulty. An empty difficulty
// mixes all of them.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int, difficulty string) ([]OpenTDBQuestion, error) {
	if amount > maxAmount {
		amount = maxAmount
	}
	values := url.Values{}
	values.Set("amount", fmt.Sprint(amount))
	if difficulty != "" {
		values.Set("difficulty", difficulty)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
	return payload.Results, nil
}

// OpenTDBSource builds a bank from Open Trivia DB, amount questions per tier.
type OpenTDBSource struct {
	client *OpenTDBClient
	amount int
}

var _ question.Source = (*OpenTDBSource)(nil)

func NewOpenTDBSource(client *OpenTDBClient, amount int) *OpenTDBSource {
	if amount <= 0 {
		amount = 20
	}
	return &OpenTDBSource{client: client, amount: amount}
}

func (s *OpenTDBSource) Name() string { return "opentdb" }

func (s *OpenTDBSource) Load(ctx context.Context) ([]question.Record, error) {
	var records []question.Record
	for _, tier := range game.Tiers {
		results, err := s.client.Fetch(ctx, s.amount, string(tier))
		if err != nil {
			return nil, fmt.Errorf("fetch %s questions: %w", tier, err)
		}
		for _, q := range results {
			records = append(records, ToRecord(q))
		}
	}
	return records, nil
}

// ToRecord converts an Open Trivia DB question. The correct answer is stored
// first; display order is decided by the shuffler. The id is derived from the
// prompt so reloads keep ids stable.
func ToRecord(q OpenTDBQuestion) question.Record {
	prompt := html.UnescapeString(q.Question)
	r := question.Record{
		ID:         stableID(prompt),
		Question:   prompt,
		Difficulty: q.Difficulty,
	}

	correct := html.UnescapeString(q.CorrectAnswer)
	if q.Type == "boolean" {
		r.Type = question.TypeTrueFalse
		r.Answers = []string{"True", "False"}
		if correct != "True" {
			r.CorrectAnswer = 1
		}
		return r
	}

	r.Type = question.TypeMCQ
	r.Answers = append(r.Answers, correct)
	for _, wrong := range q.IncorrectAnswer {
		r.Answers = append(r.Answers, html.UnescapeString(wrong))
	}
	return r
}

func stableID(prompt string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return int(h.Sum32() & 0x7fffffff)
}
