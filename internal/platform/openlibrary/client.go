package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"librarycatalog/internal/isbn"

	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is returned when Open Library has no entry for the ISBN.
	ErrNotFound = errors.New("book not found in open library")
	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("open library request failed")
)

// TransportError wraps request failures and non-200 responses.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("open library: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("open library: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

type Config struct {
	BaseURL   string
	UserAgent string
	RPS       int
	// Timeout bounds a single lookup, including waiting for the limiter.
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	timeout    time.Duration
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openlibrary.org"
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RPS)), 1),
		timeout:   cfg.Timeout,
		now:       time.Now,
	}
}

// Subject decodes both the plain string and the {name, url} forms.
type Subject struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Subject{Name: name}
		return nil
	}
	type subject Subject
	var obj subject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = Subject(obj)
	return nil
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	PublishDate string `json:"publish_date"`
	Authors     []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
	Subjects      []Subject `json:"subjects"`
	NumberOfPages int       `json:"number_of_pages"`
}

// Record is the read-only bibliographic data used to enrich a draft.
type Record struct {
	ISBN          isbn.ISBN
	Title         string
	Authors       []string
	Subjects      []string
	PublishDate   string
	PublishedYear int
	// YearInferred is set when PublishDate had no usable year and
	// PublishedYear fell back to the current year.
	YearInferred bool
}

// LookupISBN fetches one edition by normalized ISBN. It performs a single
// request and never retries.
func (c *Client) LookupISBN(ctx context.Context, key isbn.ISBN) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bibkey := "ISBN:" + key.String()
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&format=json&jscmd=data", c.baseURL, url.QueryEscape(bibkey))

	var res map[string]BookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	details, ok := res[bibkey]
	if !ok {
		return nil, ErrNotFound
	}
	return c.toRecord(key, details), nil
}

func (c *Client) toRecord(key isbn.ISBN, d BookDetails) *Record {
	authors := make([]string, 0, len(d.Authors))
	for _, a := range d.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	subjects := make([]string, 0, len(d.Subjects))
	for _, s := range d.Subjects {
		if s.Name != "" {
			subjects = append(subjects, s.Name)
		}
	}
	year, inferred := ExtractYear(d.PublishDate, c.now())
	return &Record{
		ISBN:          key,
		Title:         d.Title,
		Authors:       authors,
		Subjects:      subjects,
		PublishDate:   d.PublishDate,
		PublishedYear: year,
		YearInferred:  inferred,
	}
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// ExtractYear takes the first run of four digits in a free-text publish date.
// Years outside [1000, now.Year()] and dates without one fall back to the
// current year with inferred set.
func ExtractYear(publishDate string, now time.Time) (year int, inferred bool) {
	current := now.Year()
	m := yearPattern.FindString(publishDate)
	if m == "" {
		return current, true
	}
	y, err := strconv.Atoi(m)
	if err != nil || y < 1000 || y > current {
		return current, true
	}
	return y, false
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TransportError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
