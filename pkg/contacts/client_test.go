package contacts

import (
	"context"
	"errors"
	"testing"

	"github.com/rolodex-hq/rolodex-cli/internal/domain"
	"github.com/rolodex-hq/rolodex-cli/pkg/httpclient"
)

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

// mockHTTPClient records the last request and plays back a canned response.
type mockHTTPClient struct {
	lastMethod string
	lastURL    string
	lastQuery  map[string]string
	lastBody   any

	status int
	body   string
	err    error
}

func (m *mockHTTPClient) respond() (httpclient.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = 200
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

func (m *mockHTTPClient) Get(ctx context.Context, url string, query map[string]string, headers map[string]string) (httpclient.Response, error) {
	m.lastMethod, m.lastURL, m.lastQuery = "GET", url, query
	return m.respond()
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body any, headers map[string]string) (httpclient.Response, error) {
	m.lastMethod, m.lastURL, m.lastBody = "POST", url, body
	return m.respond()
}

func (m *mockHTTPClient) Put(ctx context.Context, url string, body any, headers map[string]string) (httpclient.Response, error) {
	m.lastMethod, m.lastURL, m.lastBody = "PUT", url, body
	return m.respond()
}

func (m *mockHTTPClient) Delete(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	m.lastMethod, m.lastURL = "DELETE", url
	return m.respond()
}

const baseURL = "http://api.test"

func TestListSetsQueryParamsVerbatim(t *testing.T) {
	mock := &mockHTTPClient{body: `[]`}
	client := NewClient(mock, baseURL)

	if _, err := client.List(context.Background(), ListOptions{Skip: 40, Limit: 25}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if mock.lastURL != "http://api.test/api/contacts/" {
		t.Fatalf("unexpected url: %s", mock.lastURL)
	}
	if got := mock.lastQuery["skip"]; got != "40" {
		t.Errorf("expected skip=40, got %q", got)
	}
	if got := mock.lastQuery["limit"]; got != "25" {
		t.Errorf("expected limit=25, got %q", got)
	}
	if _, ok := mock.lastQuery["first_name"]; ok {
		t.Error("first_name filter must be absent when unset")
	}
}

func TestListDefaults(t *testing.T) {
	mock := &mockHTTPClient{body: `[]`}
	client := NewClient(mock, baseURL)

	if _, err := client.List(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if mock.lastQuery["skip"] != "0" || mock.lastQuery["limit"] != "100" {
		t.Fatalf("expected skip=0 limit=100, got %v", mock.lastQuery)
	}
}

func TestListFilters(t *testing.T) {
	mock := &mockHTTPClient{body: `[]`}
	client := NewClient(mock, baseURL)

	opts := ListOptions{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	if _, err := client.List(context.Background(), opts); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if mock.lastQuery["first_name"] != "Ada" ||
		mock.lastQuery["last_name"] != "Lovelace" ||
		mock.lastQuery["email"] != "ada@example.com" {
		t.Fatalf("filters not passed through: %v", mock.lastQuery)
	}
}

func TestListDecodesContacts(t *testing.T) {
	mock := &mockHTTPClient{body: `[{"id":1,"first_name":"Ada","birthday":"2024-03-05"}]`}
	client := NewClient(mock, baseURL)

	list, err := client.List(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != 1 || list[0].Birthday.String() != "2024-03-05" {
		t.Fatalf("unexpected contacts: %+v", list)
	}
}

func TestListNonSuccessStatusError(t *testing.T) {
	mock := &mockHTTPClient{status: 503, body: `unavailable`}
	client := NewClient(mock, baseURL)

	_, err := client.List(context.Background(), ListOptions{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != 503 {
		t.Fatalf("expected status 503, got %d", statusErr.Status)
	}
}

func TestCreateSuccessReturnsNil(t *testing.T) {
	mock := &mockHTTPClient{status: 201, body: `{"id":9}`}
	client := NewClient(mock, baseURL)

	contact := domain.Contact{FirstName: "Ada"}
	if err := client.Create(context.Background(), contact); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if mock.lastMethod != "POST" || mock.lastURL != "http://api.test/api/contacts/" {
		t.Fatalf("unexpected request: %s %s", mock.lastMethod, mock.lastURL)
	}
	if got, ok := mock.lastBody.(domain.Contact); !ok || got.FirstName != "Ada" {
		t.Fatalf("unexpected body: %#v", mock.lastBody)
	}
}

func TestCreateValidationMessage(t *testing.T) {
	mock := &mockHTTPClient{status: 422, body: `{"detail":[{"msg":"value is not a valid email address"}]}`}
	client := NewClient(mock, baseURL)

	err := client.Create(context.Background(), domain.Contact{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Error() != "value is not a valid email address" {
		t.Fatalf("expected server message verbatim, got %q", err.Error())
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Status != 422 {
		t.Fatalf("expected ValidationError with status 422, got %#v", err)
	}
}

func TestCreateMalformedErrorBodyFallsBack(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `<html>bad gateway</html>`},
		{"empty detail", `{"detail":[]}`},
		{"wrong shape", `{"error":"nope"}`},
		{"blank msg", `{"detail":[{"msg":"  "}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockHTTPClient{status: 422, body: tc.body}
			client := NewClient(mock, baseURL)

			err := client.Create(context.Background(), domain.Contact{})
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError fallback, got %v", err)
			}
			if statusErr.Status != 422 {
				t.Fatalf("expected status 422, got %d", statusErr.Status)
			}
		})
	}
}

func TestUpdateURLAppendsIDToBasePath(t *testing.T) {
	mock := &mockHTTPClient{}
	client := NewClient(mock, baseURL)

	contact := domain.Contact{ID: 42, FirstName: "Ada"}
	if err := client.Update(context.Background(), contact); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if mock.lastMethod != "PUT" {
		t.Fatalf("expected PUT, got %s", mock.lastMethod)
	}
	if mock.lastURL != "http://api.test/api/contacts/42" {
		t.Fatalf("unexpected url: %s", mock.lastURL)
	}
}

func TestUpdateValidationMessage(t *testing.T) {
	mock := &mockHTTPClient{status: 422, body: `{"detail":[{"msg":"X"}]}`}
	client := NewClient(mock, baseURL)

	err := client.Update(context.Background(), domain.Contact{ID: 1})
	if err == nil || err.Error() != "X" {
		t.Fatalf("expected message X, got %v", err)
	}
}

func TestDeleteURLAndStatusError(t *testing.T) {
	mock := &mockHTTPClient{status: 204}
	client := NewClient(mock, baseURL)

	if err := client.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if mock.lastMethod != "DELETE" || mock.lastURL != "http://api.test/api/contacts/7" {
		t.Fatalf("unexpected request: %s %s", mock.lastMethod, mock.lastURL)
	}

	mock.status = 404
	err := client.Delete(context.Background(), 7)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != 404 {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
}

func TestGetDecodesContact(t *testing.T) {
	mock := &mockHTTPClient{body: `{"id":3,"first_name":"Grace","last_name":"Hopper"}`}
	client := NewClient(mock, baseURL)

	contact, err := client.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if mock.lastURL != "http://api.test/api/contacts/3" {
		t.Fatalf("unexpected url: %s", mock.lastURL)
	}
	if contact.FullName() != "Grace Hopper" {
		t.Fatalf("unexpected contact: %+v", contact)
	}
}

func TestUpcomingBirthdays(t *testing.T) {
	mock := &mockHTTPClient{body: `[{"id":5,"first_name":"Alan","birthday":"1912-06-23"}]`}
	client := NewClient(mock, baseURL)

	list, err := client.UpcomingBirthdays(context.Background())
	if err != nil {
		t.Fatalf("UpcomingBirthdays returned error: %v", err)
	}
	if mock.lastURL != "http://api.test/api/contacts/birthdays" {
		t.Fatalf("unexpected url: %s", mock.lastURL)
	}
	if len(list) != 1 || list[0].FirstName != "Alan" {
		t.Fatalf("unexpected contacts: %+v", list)
	}
}

func TestUpcomingBirthdaysStatusError(t *testing.T) {
	mock := &mockHTTPClient{status: 500, body: `boom`}
	client := NewClient(mock, baseURL)

	_, err := client.UpcomingBirthdays(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != 500 {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
}

func TestNetworkErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	mock := &mockHTTPClient{err: boom}
	client := NewClient(mock, baseURL)

	_, err := client.List(context.Background(), ListOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	mock := &mockHTTPClient{body: `[]`}
	client := NewClient(mock, "http://api.test/")

	if _, err := client.List(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if mock.lastURL != "http://api.test/api/contacts/" {
		t.Fatalf("unexpected url: %s", mock.lastURL)
	}
}
