package crossref

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	"doiproxy/src/internal/httpx"
)

type testHTTP struct {
	status int
	body   string
	err    error
	last   *http.Request
}

func (t *testHTTP) Do(req *http.Request) (*http.Response, error) {
	t.last = req
	if t.err != nil {
		return nil, t.err
	}
	return &http.Response{
		StatusCode: t.status,
		Status:     http.StatusText(t.status),
		Body:       io.NopCloser(strings.NewReader(t.body)),
		Header:     make(http.Header),
	}, nil
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(b)
}

const contact = "ops@example.org"

func TestQueryURL_RoundTrip(t *testing.T) {
	c := NewClient("", contact)
	raw := c.QueryURL("https://doi.org/10.1000/xyz123")
	if !strings.HasPrefix(raw, DefaultEndpoint+"?") {
		t.Fatalf("unexpected endpoint: %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("id") != "doi:10.1000/xyz123" {
		t.Fatalf("id: %q", q.Get("id"))
	}
	if q.Get("noredirect") != "true" || q.Get("pid") != contact || q.Get("format") != "unixref" {
		t.Fatalf("params: %v", q)
	}
}

func TestQueryURL_KeepsEndpointQuery(t *testing.T) {
	c := NewClient("https://mirror.example.org/openurl/?tenant=a", contact)
	u, err := url.Parse(c.QueryURL("10.1/x"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Query().Get("tenant") != "a" || u.Query().Get("id") != "doi:10.1/x" {
		t.Fatalf("query: %v", u.Query())
	}
}

func TestFetchMetadata_Success(t *testing.T) {
	fake := &testHTTP{status: 200, body: fixture(t, "article.xml")}
	ua := httpx.UserAgent("test", contact)
	c := NewClient("", contact, WithHTTPClient(fake), WithUserAgent(ua))

	m, err := c.FetchMetadata(context.Background(), "https://dx.doi.org/10.1021/ACS.JPCC.5B01234")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if fake.last == nil || fake.last.Method != http.MethodGet {
		t.Fatalf("expected one GET")
	}
	if got := fake.last.Header.Get("User-Agent"); got != ua {
		t.Fatalf("user agent: %q", got)
	}
	if fake.last.URL.String() != m.CrossRefURL {
		t.Fatalf("crossRefURL %q does not echo request %q", m.CrossRefURL, fake.last.URL.String())
	}
	if id := fake.last.URL.Query().Get("id"); id != "doi:10.1021/ACS.JPCC.5B01234" {
		t.Fatalf("query id: %q", id)
	}

	check := func(field string, got *string, want string) {
		t.Helper()
		if got == nil || *got != want {
			t.Fatalf("%s: want %q, got %v", field, want, got)
		}
	}
	check("fullJournal", m.FullJournal, "The Journal of Physical Chemistry C")
	check("shortJournal", m.ShortJournal, "J. Phys. Chem. C")
	check("volume", m.Volume, "119")
	check("issue", m.Issue, "24")
	check("year", m.Year, "2015")
	check("title", m.Title, "Flexibility of Zeolitic Imidazolate Frameworks")
	check("firstPage", m.FirstPage, "13446")
	check("lastPage", m.LastPage, "13453")
	check("doi", m.DOI, "10.1021/acs.jpcc.5b01234")
	check("abstract", m.Abstract, "We study the flexibility of frameworks.")

	want := []string{"Smith, Jane", "Coudert, François-Xavier", "Plato"}
	if len(m.Authors) != len(want) {
		t.Fatalf("authors: %v", m.Authors)
	}
	for i := range want {
		if m.Authors[i] != want[i] {
			t.Fatalf("author %d: want %q, got %q", i, want[i], m.Authors[i])
		}
	}
}

func TestFetchMetadata_NotFound(t *testing.T) {
	for name, body := range map[string]string{
		"error record": fixture(t, "not_found.xml"),
		"empty body":   "",
	} {
		c := NewClient("", contact, WithHTTPClient(&testHTTP{status: 200, body: body}))
		_, err := c.FetchMetadata(context.Background(), "10.9999/does-not-exist")
		if !IsNotFound(err) || !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected NotFoundError, got %v", name, err)
		}
		if IsUpstream(err) {
			t.Fatalf("%s: not found must not be upstream", name)
		}
		if !strings.Contains(err.Error(), "10.9999/does-not-exist") {
			t.Fatalf("%s: message should name the DOI: %v", name, err)
		}
	}
}

func TestFetchMetadata_UpstreamStatus(t *testing.T) {
	c := NewClient("", contact, WithHTTPClient(&testHTTP{status: 503, body: "<html>\n  busy\n</html>"}))
	_, err := c.FetchMetadata(context.Background(), "10.1000/xyz123")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != 503 || !errors.Is(err, ErrUpstream) || IsNotFound(err) {
		t.Fatalf("bad upstream error: %+v", ue)
	}
	if ue.Body != "<html> busy </html>" {
		t.Fatalf("body snippet: %q", ue.Body)
	}
}

func TestFetchMetadata_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewClient("", contact, WithHTTPClient(&testHTTP{err: boom}))
	_, err := c.FetchMetadata(context.Background(), "10.1000/xyz123")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if IsUpstream(err) || IsNotFound(err) {
		t.Fatalf("transport errors are generic: %v", err)
	}
}

func TestFetchMetadata_MalformedXML(t *testing.T) {
	c := NewClient("", contact, WithHTTPClient(&testHTTP{status: 200, body: "<doi_records><oops></doi_records>"}))
	_, err := c.FetchMetadata(context.Background(), "10.1000/xyz123")
	if err == nil || IsNotFound(err) || IsUpstream(err) {
		t.Fatalf("expected generic parse error, got %v", err)
	}
}
