package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/parnurzeal/gorequest"
	"golang.org/x/oauth2"
	"golang.org/x/xerrors"

	"github.com/codeinsight-tools/inventory-audit/utils"
)

const (
	apiPath = "codeinsight/api"

	headerCurrentPage   = "Current-page"
	headerNumberOfPages = "Number-of-pages"
)

type Option func(*Client)

// WithTimeout bounds every request. A timed out request fails with KindTransport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry retries transport and server failures up to n extra times.
func WithRetry(n int) Option {
	return func(c *Client) { c.retry = n }
}

func WithWait(wait func(i int) time.Duration) Option {
	return func(c *Client) { c.wait = wait }
}

// Client reads projects, contacts and inventory from a Code Insight server.
type Client struct {
	baseURL     *url.URL
	tokenSource oauth2.TokenSource
	timeout     time.Duration
	retry       int
	wait        func(i int) time.Duration
}

func NewClient(baseURL *url.URL, ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		tokenSource: ts,
		wait:        utils.Backoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type response struct {
	header http.Header
	body   []byte
}

// ListProjects returns every project visible to the credential.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	log.Print("    Entering ListProjects")

	u := c.endpoint("projects/")
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch project listing: %w", err)
	}

	var r projectsResponse
	if err = decode(u, resp.body, &r); err != nil {
		return nil, err
	}
	log.Printf("        Projects listing received: %d projects", len(r.Data))
	return r.Data, nil
}

// LookupContact searches users by login. An empty result is a KindNotFound
// failure wrapping ErrContactNotFound.
func (c *Client) LookupContact(ctx context.Context, login string) ([]Contact, error) {
	log.Print("        Entering LookupContact")

	u := c.endpoint("users/search")
	u.RawQuery = url.Values{"login": []string{login}}.Encode()
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, xerrors.Errorf("failed to search user %q: %w", login, err)
	}

	var r contactsResponse
	if err = decode(u, resp.body, &r); err != nil {
		return nil, err
	}
	if len(r.Data) == 0 {
		log.Printf("No contact found for login %s", login)
		return nil, &Error{Kind: KindNotFound, URL: u.String(), Err: ErrContactNotFound}
	}
	log.Print("            Contact data received")
	return r.Data, nil
}

// ContactEmail returns the email of the first record matching login.
func (c *Client) ContactEmail(ctx context.Context, login string) (string, error) {
	contacts, err := c.LookupContact(ctx, login)
	if err != nil {
		return "", err
	}
	return contacts[0].Email, nil
}

// InventoryPage fetches one 1-based page of a project's inventory summary.
func (c *Client) InventoryPage(ctx context.Context, projectID, page int) (InventoryPage, error) {
	u := c.endpoint("projects", strconv.Itoa(projectID), "inventorySummary/")
	// offset is the page number, not an item offset
	u.RawQuery = "offset=" + strconv.Itoa(page) + "&published=ANY"

	resp, err := c.get(ctx, u)
	if err != nil {
		return InventoryPage{}, xerrors.Errorf("failed to fetch inventory page %d of project %d: %w", page, projectID, err)
	}

	var r inventoryResponse
	if err = decode(u, resp.body, &r); err != nil {
		return InventoryPage{}, err
	}

	current, err := pageHeader(u, resp.header, headerCurrentPage)
	if err != nil {
		return InventoryPage{}, err
	}
	total, err := pageHeader(u, resp.header, headerNumberOfPages)
	if err != nil {
		return InventoryPage{}, err
	}

	return InventoryPage{
		Items:       r.Data,
		CurrentPage: current,
		TotalPages:  total,
	}, nil
}

// FetchAllInventory collects every inventory page of a project.
func (c *Client) FetchAllInventory(ctx context.Context, projectID int) ([]InventoryItem, error) {
	return NewPaginator(c).FetchAll(ctx, projectID)
}

func (c *Client) endpoint(elem ...string) *url.URL {
	return c.baseURL.JoinPath(append([]string{apiPath}, elem...)...)
}

func (c *Client) get(ctx context.Context, u *url.URL) (response, error) {
	var err error
	for i := 0; i <= c.retry; i++ {
		if i > 0 {
			sleep := c.wait(i)
			log.Printf("retry after %s", sleep)
			select {
			case <-ctx.Done():
				return response{}, &Error{Kind: KindTransport, URL: u.String(), Err: ctx.Err()}
			case <-time.After(sleep):
			}
		}

		var resp response
		resp, err = c.do(ctx, u)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			break
		}
	}
	return response{}, err
}

func (c *Client) do(ctx context.Context, u *url.URL) (response, error) {
	if err := ctx.Err(); err != nil {
		return response{}, &Error{Kind: KindTransport, URL: u.String(), Err: err}
	}

	token, err := c.tokenSource.Token()
	if err != nil {
		return response{}, &Error{Kind: KindUnauthorized, URL: u.String(), Err: xerrors.Errorf("unable to get token: %w", err)}
	}

	req := gorequest.New().Get(u.String()).
		Set("Content-Type", "application/json").
		Set("Authorization", token.Type()+" "+token.AccessToken)
	if c.timeout > 0 {
		req = req.Timeout(c.timeout)
	}

	resp, body, errs := req.EndBytes()
	if len(errs) > 0 {
		log.Printf("HTTP error. url: %s, err: %s", u, errs[0])
		return response{}, &Error{Kind: KindTransport, URL: u.String(), Err: errs[0]}
	}

	if resp.StatusCode != http.StatusOK {
		e := &Error{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(body),
			URL:        u.String(),
		}
		log.Printf("Response code %d (%s) - %s", resp.StatusCode, e.Kind, e.Body)
		return response{}, e
	}

	return response{header: resp.Header, body: body}, nil
}

func decode(u *url.URL, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		log.Printf("Unable to decode response from %s - %s", u, body)
		return &Error{Kind: KindServer, StatusCode: http.StatusOK, Body: string(body), URL: u.String(),
			Err: xerrors.Errorf("unable to decode response: %w", err)}
	}
	return nil
}

func pageHeader(u *url.URL, h http.Header, key string) (int, error) {
	v := h.Get(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s header %q from %s", key, v, u)
		return 0, &Error{Kind: KindServer, StatusCode: http.StatusOK, URL: u.String(),
			Err: xerrors.Errorf("invalid %s header %q: %w", key, v, err)}
	}
	return n, nil
}
