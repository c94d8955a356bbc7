// Package api is the HTTP client for the flashcard REST API. The API owns
// decks, cards and all scheduling; this client only reads them and submits
// session actions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/conorfennell/recall/internal/domain"
)

var (
	// ErrInvalidCard is returned when a card fails validation before creation.
	ErrInvalidCard = errors.New("invalid card")

	// ErrInvalidDeck is returned when a deck fails validation before creation.
	ErrInvalidDeck = errors.New("invalid deck")
)

var validate = validator.New()

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// Client talks to the flashcard API.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   *slog.Logger
	zone  *time.Location
}

// Option configures a Client.
type Option func(*Client)

// WithZone sets the time zone for timestamps the API sends without an
// offset. The default is UTC.
func WithZone(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.zone = loc
		}
	}
}

// New creates a client for baseURL. An empty token sends no Authorization
// header.
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse API base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("API base URL %q must be http or https", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	c := &Client{base: u, token: token, http: hc, log: logger, zone: time.UTC}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchQueue returns the study queue for a deck in server order.
func (c *Client) FetchQueue(ctx context.Context, deckID int64, mode domain.StudyMode) ([]domain.QueuedCard, error) {
	q := url.Values{}
	q.Set("deckId", strconv.FormatInt(deckID, 10))
	q.Set("mode", string(mode))

	var dtos []cardDTO
	if err := c.do(ctx, http.MethodGet, "/review/cards", q, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.QueuedCard, len(dtos))
	for i, d := range dtos {
		out[i] = domain.QueuedCard{Card: d.card(c.zone), Tag: domain.Tag(strings.ToUpper(d.Mode))}
	}
	return out, nil
}

// SubmitGrade sends a grade for a card. The server recomputes its schedule.
func (c *Client) SubmitGrade(ctx context.Context, cardID int64, grade domain.Action) error {
	if !grade.IsGrade() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidGrade, grade)
	}
	return c.postAction(ctx, cardID, grade)
}

// ConfirmLearned tells the server a new card has been shown once.
func (c *Client) ConfirmLearned(ctx context.Context, cardID int64) error {
	return c.postAction(ctx, cardID, domain.Learn)
}

func (c *Client) postAction(ctx context.Context, cardID int64, action domain.Action) error {
	body := actionRequest{UserCardID: cardID, Action: string(action)}
	return c.do(ctx, http.MethodPost, "/review/cards", nil, body, nil)
}

// ListDecks returns the user's decks.
func (c *Client) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	var dtos []deckDTO
	if err := c.do(ctx, http.MethodGet, "/decks", nil, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Deck, len(dtos))
	for i, d := range dtos {
		out[i] = d.deck()
	}
	return out, nil
}

// NewDeck is the payload for creating a deck.
type NewDeck struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

// Validate trims the deck's fields and checks them.
func (n *NewDeck) Validate() error {
	n.Name = strings.TrimSpace(n.Name)
	n.Description = strings.TrimSpace(n.Description)
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	return nil
}

// CreateDeck validates and creates a deck, returning the stored deck.
func (c *Client) CreateDeck(ctx context.Context, n NewDeck) (domain.Deck, error) {
	if err := n.Validate(); err != nil {
		return domain.Deck{}, err
	}
	var dto deckDTO
	if err := c.do(ctx, http.MethodPost, "/decks", nil, n, &dto); err != nil {
		return domain.Deck{}, err
	}
	return dto.deck(), nil
}

// DeleteDeck removes a deck together with its cards.
func (c *Client) DeleteDeck(ctx context.Context, deckID int64) error {
	return c.do(ctx, http.MethodDelete, "/decks/"+strconv.FormatInt(deckID, 10), nil, nil, nil)
}

// ListCards returns every card in a deck.
func (c *Client) ListCards(ctx context.Context, deckID int64) ([]domain.Card, error) {
	var dtos []cardDTO
	path := "/cards/deck/" + strconv.FormatInt(deckID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Card, len(dtos))
	for i, d := range dtos {
		out[i] = d.card(c.zone)
	}
	return out, nil
}

// NewCard is the payload for creating a card.
type NewCard struct {
	DeckID int64  `json:"deckId" validate:"gt=0"`
	Front  string `json:"front" validate:"required,max=2000"`
	Back   string `json:"back" validate:"required,max=2000"`
	Hint   string `json:"hint,omitempty" validate:"max=1000"`
}

// Validate trims the card's fields and checks them.
func (n *NewCard) Validate() error {
	n.Front = strings.TrimSpace(n.Front)
	n.Back = strings.TrimSpace(n.Back)
	n.Hint = strings.TrimSpace(n.Hint)
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	return nil
}

// CreateCard validates and creates a card, returning the stored card.
func (c *Client) CreateCard(ctx context.Context, n NewCard) (domain.Card, error) {
	if err := n.Validate(); err != nil {
		return domain.Card{}, err
	}
	var dto cardDTO
	if err := c.do(ctx, http.MethodPost, "/cards", nil, n, &dto); err != nil {
		return domain.Card{}, err
	}
	return dto.card(c.zone), nil
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID int64) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+strconv.FormatInt(cardID, 10), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts a human message from an error body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}
