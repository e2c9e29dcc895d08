// Package contacts is a thin client for the contacts REST API. Every
// operation is one round trip; the client keeps no state between calls
// and is safe for concurrent use.
package contacts

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/rolodex-hq/rolodex-cli/internal/domain"
	"github.com/rolodex-hq/rolodex-cli/pkg/httpclient"
)

// basePath is the API resource path. The trailing slash matters: ids
// and sub-paths are appended to it directly.
const basePath = "/api/contacts/"

const (
	defaultTimeout = 15 * time.Second
	defaultLimit   = 100
)

// Client issues requests against one contacts API deployment.
type Client struct {
	http    httpclient.Client
	baseURL string
	headers map[string]string
	log     *zap.SugaredLogger
}

// NewClient builds a client for the API at baseURL (scheme + host,
// e.g. "http://localhost:8000"). A nil httpClient gets the default
// resty transport.
func NewClient(httpClient httpclient.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = httpclient.NewRestyClient(defaultTimeout)
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     zap.NewNop().Sugar(),
	}
}

// WithLogger sets the logger used for request/error logging.
func (c *Client) WithLogger(log *zap.SugaredLogger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// WithHeaders sets headers sent on every request (e.g. from a profile).
func (c *Client) WithHeaders(headers map[string]string) *Client {
	c.headers = headers
	return c
}

// ListOptions narrows a List call. Zero values mean "server default":
// skip 0, limit 100, no name/email filters.
type ListOptions struct {
	Skip      int
	Limit     int
	FirstName string
	LastName  string
	Email     string
}

func (o ListOptions) query() map[string]string {
	limit := o.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	skip := o.Skip
	if skip < 0 {
		skip = 0
	}

	q := map[string]string{
		"skip":  strconv.Itoa(skip),
		"limit": strconv.Itoa(limit),
	}
	if o.FirstName != "" {
		q["first_name"] = o.FirstName
	}
	if o.LastName != "" {
		q["last_name"] = o.LastName
	}
	if o.Email != "" {
		q["email"] = o.Email
	}
	return q
}

// List fetches a page of contacts.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]domain.Contact, error) {
	resp, err := c.http.Get(ctx, c.baseURL+basePath, opts.query(), c.headers)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if !is2xx(resp.StatusCode()) {
		return nil, &StatusError{Status: resp.StatusCode()}
	}
	return decodeContacts(resp.Body())
}

// Get fetches a single contact by id.
func (c *Client) Get(ctx context.Context, id int64) (domain.Contact, error) {
	resp, err := c.http.Get(ctx, c.contactURL(id), nil, c.headers)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("get contact %d: %w", id, err)
	}
	if !is2xx(resp.StatusCode()) {
		return domain.Contact{}, &StatusError{Status: resp.StatusCode()}
	}

	var contact domain.Contact
	if err := json.Unmarshal(resp.Body(), &contact); err != nil {
		return domain.Contact{}, fmt.Errorf("decode contact: %w", err)
	}
	return contact, nil
}

// Create posts a new contact. The server assigns the id; nothing is
// returned on success. Validation rejections surface the server's
// message as a ValidationError.
func (c *Client) Create(ctx context.Context, contact domain.Contact) error {
	resp, err := c.http.Post(ctx, c.baseURL+basePath, contact, c.headers)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	if !is2xx(resp.StatusCode()) {
		return errorFromBody(resp.StatusCode(), resp.Body())
	}
	return nil
}

// Update puts the contact at its id. Same error contract as Create.
func (c *Client) Update(ctx context.Context, contact domain.Contact) error {
	resp, err := c.http.Put(ctx, c.contactURL(contact.ID), contact, c.headers)
	if err != nil {
		return fmt.Errorf("update contact %d: %w", contact.ID, err)
	}
	if !is2xx(resp.StatusCode()) {
		return errorFromBody(resp.StatusCode(), resp.Body())
	}
	return nil
}

// Delete removes the contact with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.http.Delete(ctx, c.contactURL(id), c.headers)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if !is2xx(resp.StatusCode()) {
		return &StatusError{Status: resp.StatusCode()}
	}
	return nil
}

// UpcomingBirthdays fetches the contacts whose birthdays fall in the
// server's upcoming window (seven days on the reference deployment).
func (c *Client) UpcomingBirthdays(ctx context.Context) ([]domain.Contact, error) {
	url := c.baseURL + basePath + "birthdays"
	c.log.Infow("fetching upcoming birthdays", "url", url)

	resp, err := c.http.Get(ctx, url, nil, c.headers)
	if err != nil {
		c.log.Errorw("upcoming birthdays request failed", "error", err)
		return nil, fmt.Errorf("list upcoming birthdays: %w", err)
	}
	if !is2xx(resp.StatusCode()) {
		c.log.Errorw("upcoming birthdays request failed",
			"status", resp.StatusCode(),
			"body", responseSnippet(resp.Body()))
		return nil, &StatusError{Status: resp.StatusCode()}
	}
	return decodeContacts(resp.Body())
}

// contactURL appends the id to the resource path with no separator;
// basePath's trailing slash already provides it.
func (c *Client) contactURL(id int64) string {
	return c.baseURL + basePath + strconv.FormatInt(id, 10)
}

func decodeContacts(body []byte) ([]domain.Contact, error) {
	var contacts []domain.Contact
	if err := json.Unmarshal(body, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return contacts, nil
}

func is2xx(status int) bool { return status >= 200 && status < 300 }
